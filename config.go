package proxypool

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// Protocol is the proxy protocol requested from the scrape endpoint.
type Protocol string

const (
	ProtocolHTTP   Protocol = "http"
	ProtocolSOCKS4 Protocol = "socks4"
	ProtocolSOCKS5 Protocol = "socks5"
)

// Mode is the active proxy acquisition mode.
type Mode string

const (
	ModeScrape   Mode = "scrape"
	ModeFile     Mode = "file"
	ModeDisabled Mode = "disabled"
)

// DefaultScrapeEndpoint is the proxy listing API queried in scrape mode.
const DefaultScrapeEndpoint = "https://api.proxyscrape.com/v2/"

// Config represents the user facing configuration.
type Config struct {
	// UseProxies enables loading proxies from ProxyFile
	UseProxies bool `mapstructure:"useProxies"`
	// UseProxyScrape enables scraping; it takes priority over UseProxies
	UseProxyScrape bool `mapstructure:"useProxyScrape"`
	// ProxyTimeout is the scrape request timeout in milliseconds
	ProxyTimeout int `mapstructure:"proxyTimeout" default:"10000" validate:"min=1"`
	// ProxyProtocol is the protocol requested from the scrape endpoint
	ProxyProtocol string `mapstructure:"proxyProtocol" default:"http" validate:"oneof=http socks4 socks5"`
	// ProxyFile is the persisted proxy list read in file mode
	ProxyFile string `mapstructure:"proxyFile" default:"proxies.txt"`
	// SnapshotFile receives the last successful scrape
	SnapshotFile string `mapstructure:"snapshotFile" default:"current_proxies.txt"`
	// ScrapeEndpoint is the proxy listing API base URL
	ScrapeEndpoint string `mapstructure:"scrapeEndpoint" default:"https://api.proxyscrape.com/v2/"`
	// Port is the status server port
	Port int `mapstructure:"port" default:"9090" validate:"min=1"`
	// StatInterval is the status broadcast interval in seconds
	StatInterval int `mapstructure:"statInterval" default:"2" validate:"min=1"`
}

// SourceConfig is the immutable input of Resolver.Initialize.
type SourceConfig struct {
	UseProxies     bool
	UseScrape      bool
	ScrapeTimeout  time.Duration
	ScrapeProtocol Protocol
	ScrapeEndpoint string
	ProxyFile      string
	SnapshotFile   string
}

// Mode returns the active mode. Scrape wins over file when both are enabled.
func (sc SourceConfig) Mode() Mode {
	switch {
	case sc.UseScrape:
		return ModeScrape
	case sc.UseProxies:
		return ModeFile
	default:
		return ModeDisabled
	}
}

// ReadConfig loads configuration from path (yaml, json, toml; optional) and
// from PROXYPOOL_* environment variables, then applies defaults and validates.
func ReadConfig(path string) (Config, error) {
	var cfg Config

	v := viper.New()
	v.SetEnvPrefix("proxypool")
	for _, key := range configKeys(&cfg) {
		if err := v.BindEnv(key); err != nil {
			return cfg, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	setDefaultValues(&cfg)
	return cfg, cfg.Validate()
}

// Validate checks the validate tags of c.
func (c *Config) Validate() error {
	err := validate(c)

	var fe *fieldError
	if errors.As(err, &fe) && fe.Field == "ProxyProtocol" {
		return fmt.Errorf("%w: %q", ErrInvalidProtocol, c.ProxyProtocol)
	}
	return err
}

// SourceConfig returns the resolver input derived from c.
func (c *Config) SourceConfig() SourceConfig {
	return SourceConfig{
		UseProxies:     c.UseProxies,
		UseScrape:      c.UseProxyScrape,
		ScrapeTimeout:  time.Duration(c.ProxyTimeout) * time.Millisecond,
		ScrapeProtocol: Protocol(c.ProxyProtocol),
		ScrapeEndpoint: c.ScrapeEndpoint,
		ProxyFile:      c.ProxyFile,
		SnapshotFile:   c.SnapshotFile,
	}
}

func configKeys(obj any) []string {
	tof := reflect.TypeOf(obj).Elem()
	keys := make([]string, 0, tof.NumField())

	for i := 0; i < tof.NumField(); i++ {
		if k := tof.Field(i).Tag.Get("mapstructure"); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
