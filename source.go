package proxypool

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/grishkovelli/proxypool/pkg/proxyline"
)

// Source yields a list of proxies or a typed error
// (*ReadError, *NetworkError, *EmptyResultError).
type Source interface {
	Name() string
	Load(ctx context.Context) ([]proxyline.Proxy, error)
}

//  ███████╗██╗██╗     ███████╗
//  ██╔════╝██║██║     ██╔════╝
//  █████╗  ██║██║     █████╗
//  ██╔══╝  ██║██║     ██╔══╝
//  ██║     ██║███████╗███████╗
//  ╚═╝     ╚═╝╚══════╝╚══════╝
//

// FileSource reads a persisted proxy list, one ip:port per line.
type FileSource struct {
	Path string
}

func (f *FileSource) Name() string { return "file" }

func (f *FileSource) Load(_ context.Context) ([]proxyline.Proxy, error) {
	proxies, err := LoadFile(f.Path)
	if err != nil {
		return nil, err
	}
	if len(proxies) == 0 {
		return nil, &EmptyResultError{Source: f.Name()}
	}
	return proxies, nil
}

// LoadFile returns the valid entries of the list at path in file order.
func LoadFile(path string) ([]proxyline.Proxy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return proxyline.ParseList(string(b)), nil
}

// WriteSnapshot overwrites path with proxies, one per line.
func WriteSnapshot(path string, proxies []proxyline.Proxy) error {
	if err := os.WriteFile(path, []byte(proxyline.Format(proxies)), 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

//  ███████╗ ██████╗██████╗  █████╗ ██████╗ ███████╗
//  ██╔════╝██╔════╝██╔══██╗██╔══██╗██╔══██╗██╔════╝
//  ███████╗██║     ██████╔╝███████║██████╔╝█████╗
//  ╚════██║██║     ██╔══██╗██╔══██║██╔═══╝ ██╔══╝
//  ███████║╚██████╗██║  ██║██║  ██║██║     ███████╗
//  ╚══════╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚══════╝
//

// ScrapeSource fetches a fresh list from a proxy listing API with a single
// GET request. It never retries.
type ScrapeSource struct {
	Endpoint string
	Protocol Protocol
	Timeout  time.Duration
	Client   *http.Client
}

func (s *ScrapeSource) Name() string { return "scrape" }

func (s *ScrapeSource) Load(ctx context.Context) ([]proxyline.Proxy, error) {
	link, err := s.url()
	if err != nil {
		return nil, &NetworkError{URL: s.Endpoint, Err: err}
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, &NetworkError{URL: link, Err: err}
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: link, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{URL: link, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: link, Err: err}
	}

	proxies := proxyline.ParseList(string(body))
	if len(proxies) == 0 {
		return nil, &EmptyResultError{Source: s.Name()}
	}
	return proxies, nil
}

func (s *ScrapeSource) url() (string, error) {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultScrapeEndpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}

	protocol := s.Protocol
	if protocol == "" {
		protocol = ProtocolHTTP
	}

	q := u.Query()
	q.Set("request", "displayproxies")
	q.Set("protocol", string(protocol))
	q.Set("timeout", strconv.FormatInt(s.Timeout.Milliseconds(), 10))
	q.Set("country", "all")
	q.Set("ssl", "all")
	q.Set("anonymity", "all")
	u.RawQuery = q.Encode()

	return u.String(), nil
}
