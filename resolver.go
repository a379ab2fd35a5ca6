package proxypool

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/grishkovelli/proxypool/pkg/proxyline"
)

// Resolver decides where proxies come from and applies the fallback chain.
type Resolver struct {
	// Client is used by the scrape source; nil means http.DefaultClient
	Client *http.Client
	// Logger receives one event per decision point; nil means log.Default()
	Logger *log.Logger
}

type strategy struct {
	src Source
	// snapshot persists a successful result
	snapshot bool
}

// Initialize resolves sc into a fresh pool. It never fails: any source error
// ends up as a smaller or empty pool.
func (r *Resolver) Initialize(ctx context.Context, sc SourceConfig) *Pool {
	return newPool(r.Resolve(ctx, sc), 1)
}

// Resolve tries the strategies of sc in priority order and returns the first
// non-empty result, or nil once all of them are exhausted.
func (r *Resolver) Resolve(ctx context.Context, sc SourceConfig) []proxyline.Proxy {
	logger := r.logger()

	mode := sc.Mode()
	logger.Info("mode selected", "mode", mode)
	if mode == ModeDisabled {
		logger.Info("proxy disabled, connecting directly")
		return nil
	}

	strategies := r.strategies(sc)

	for i, st := range strategies {
		proxies, err := st.src.Load(ctx)
		if err == nil {
			logger.Info("loaded", "source", st.src.Name(), "count", len(proxies))
			if st.snapshot && sc.SnapshotFile != "" {
				if err := WriteSnapshot(sc.SnapshotFile, proxies); err != nil {
					logger.Error("snapshot write failed", "error", err)
				}
			}
			return proxies
		}

		logger.Error("source failed", "source", st.src.Name(), "error", err)
		if i+1 < len(strategies) {
			logger.Warn("falling back", "from", st.src.Name(), "to", strategies[i+1].src.Name())
		}
	}

	logger.Warn("no proxies loaded, connecting directly")
	return nil
}

func (r *Resolver) strategies(sc SourceConfig) []strategy {
	var list []strategy

	if sc.UseScrape {
		list = append(list, strategy{
			src: &ScrapeSource{
				Endpoint: sc.ScrapeEndpoint,
				Protocol: sc.ScrapeProtocol,
				Timeout:  sc.ScrapeTimeout,
				Client:   r.Client,
			},
			snapshot: true,
		})
	}

	if sc.UseProxies {
		list = append(list, strategy{src: &FileSource{Path: sc.ProxyFile}})
	}

	return list
}

func (r *Resolver) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}
