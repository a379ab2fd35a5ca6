package proxypool

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/grishkovelli/proxypool/pkg/proxyline"
)

var _ = Describe("Resolver", func() {
	var (
		dir      string
		logs     *syncBuffer
		r        *Resolver
		file     string
		snapshot string
		fromFile []proxyline.Proxy
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		logs = &syncBuffer{}
		r = &Resolver{Logger: log.New(logs)}
		file = writeFile(dir, "proxies.txt", "1.2.3.4:80\nbad-line\n5.6.7.8:1080\n")
		snapshot = filepath.Join(dir, "current_proxies.txt")
		fromFile = []proxyline.Proxy{{Host: "1.2.3.4", Port: 80}, {Host: "5.6.7.8", Port: 1080}}
	})

	scrapeConfig := func(endpoint string, useFile bool) SourceConfig {
		return SourceConfig{
			UseScrape:      true,
			UseProxies:     useFile,
			ScrapeEndpoint: endpoint,
			ScrapeTimeout:  time.Second,
			ScrapeProtocol: ProtocolHTTP,
			ProxyFile:      file,
			SnapshotFile:   snapshot,
		}
	}

	When("scrape succeeds", func() {
		It("uses the scraped list and writes a snapshot", func() {
			ts, _ := mockScrapeServer(http.StatusOK, "9.9.9.9:3128\n8.8.8.8:8080\n")
			defer ts.Close()

			pool := r.Initialize(context.Background(), scrapeConfig(ts.URL, true))

			Expect(pool.Entries()).To(Equal([]proxyline.Proxy{{Host: "9.9.9.9", Port: 3128}, {Host: "8.8.8.8", Port: 8080}}))

			b, err := os.ReadFile(snapshot)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b)).To(Equal("9.9.9.9:3128\n8.8.8.8:8080"))

			Expect(logs.String()).To(ContainSubstring("mode=scrape"))
			Expect(logs.String()).To(ContainSubstring("count=2"))
		})

		It("keeps the pool when the snapshot cannot be written", func() {
			ts, _ := mockScrapeServer(http.StatusOK, "9.9.9.9:3128\n")
			defer ts.Close()

			sc := scrapeConfig(ts.URL, false)
			sc.SnapshotFile = filepath.Join(dir, "missing", "current_proxies.txt")

			pool := r.Initialize(context.Background(), sc)

			Expect(pool.Len()).To(Equal(1))
			Expect(logs.String()).To(ContainSubstring("snapshot write failed"))
		})
	})

	When("scrape returns no valid proxies", func() {
		It("falls back to the file when file mode is enabled", func() {
			ts, _ := mockScrapeServer(http.StatusOK, "\n\n")
			defer ts.Close()

			pool := r.Initialize(context.Background(), scrapeConfig(ts.URL, true))

			Expect(pool.Entries()).To(Equal(fromFile))
			Expect(logs.String()).To(ContainSubstring("falling back"))
			_, err := os.Stat(snapshot)
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("stays empty when file mode is disabled", func() {
			ts, _ := mockScrapeServer(http.StatusOK, "garbage")
			defer ts.Close()

			pool := r.Initialize(context.Background(), scrapeConfig(ts.URL, false))

			Expect(pool.Len()).To(BeZero())
			Expect(pool.Next()).To(Equal(None))
			Expect(logs.String()).To(ContainSubstring("source failed"))
			Expect(logs.String()).NotTo(ContainSubstring("falling back"))
		})
	})

	When("scrape fails on the network", func() {
		It("falls back to the file on a bad status", func() {
			ts, _ := mockScrapeServer(http.StatusBadGateway, "")
			defer ts.Close()

			pool := r.Initialize(context.Background(), scrapeConfig(ts.URL, true))
			Expect(pool.Entries()).To(Equal(fromFile))
		})

		It("stays empty on a transport error without file mode", func() {
			ts, _ := mockScrapeServer(http.StatusOK, "")
			link := ts.URL
			ts.Close()

			pool := r.Initialize(context.Background(), scrapeConfig(link, false))
			Expect(pool.Len()).To(BeZero())
		})
	})

	When("only file mode is enabled", func() {
		It("loads the file", func() {
			pool := r.Initialize(context.Background(), SourceConfig{UseProxies: true, ProxyFile: file})

			Expect(pool.Entries()).To(Equal(fromFile))
			Expect(logs.String()).To(ContainSubstring("mode=file"))
		})

		It("stays empty when the file cannot be read", func() {
			pool := r.Initialize(context.Background(), SourceConfig{UseProxies: true, ProxyFile: filepath.Join(dir, "nope.txt")})

			Expect(pool.Len()).To(BeZero())
			Expect(logs.String()).To(ContainSubstring("source failed"))
		})
	})

	When("both modes are disabled", func() {
		It("returns an empty pool without touching any source", func() {
			pool := r.Initialize(context.Background(), SourceConfig{ProxyFile: file})

			Expect(pool.Len()).To(BeZero())
			Expect(logs.String()).To(ContainSubstring("mode=disabled"))
			Expect(logs.String()).NotTo(ContainSubstring("source failed"))
		})
	})

	Describe("strategies()", func() {
		It("orders scrape before file", func() {
			list := r.strategies(SourceConfig{UseScrape: true, UseProxies: true})

			Expect(list).To(HaveLen(2))
			Expect(list[0].src.Name()).To(Equal("scrape"))
			Expect(list[0].snapshot).To(BeTrue())
			Expect(list[1].src.Name()).To(Equal("file"))
			Expect(list[1].snapshot).To(BeFalse())
		})
	})
})

var _ = Describe("SourceConfig", func() {
	DescribeTable("Mode()",
		func(sc SourceConfig, mode Mode) {
			Expect(sc.Mode()).To(Equal(mode))
		},
		Entry("scrape wins", SourceConfig{UseScrape: true, UseProxies: true}, ModeScrape),
		Entry("scrape only", SourceConfig{UseScrape: true}, ModeScrape),
		Entry("file only", SourceConfig{UseProxies: true}, ModeFile),
		Entry("disabled", SourceConfig{}, ModeDisabled),
	)
})
