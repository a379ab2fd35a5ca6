package proxypool

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/grishkovelli/proxypool/pkg/proxyline"
)

// defaultHeader is sent on every outbound websocket handshake.
var defaultHeader = map[string]string{
	"Accept-Encoding":       "gzip, deflate, br",
	"Accept-Language":       "en-US,en;q=0.9",
	"Cache-Control":         "no-cache",
	"Connection":            "Upgrade",
	"Origin":                "https://agar.io",
	"Pragma":                "no-cache",
	"Sec-WebSocket-Key":     "randomly-generated-sec-websocket-key",
	"Sec-WebSocket-Version": "13",
	"Upgrade":               "websocket",
	"User-Agent":            "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
}

// handshakeHeader lists the fields gorilla/websocket sets on its own and
// refuses to receive twice.
var handshakeHeader = []string{"Upgrade", "Connection", "Sec-WebSocket-Key", "Sec-WebSocket-Version"}

// ConnectionOptions is the per-connection configuration handed to the
// component that opens the websocket.
type ConnectionOptions struct {
	Header http.Header
	// Proxy is nil for a direct connection
	Proxy *url.URL
	// Transport routes through Proxy; nil for a direct connection
	Transport *http.Transport
}

// Build returns the fixed headers and, unless p is None, an http:// proxy
// transport for p. The proxy URL is always http:// whatever the target scheme.
func Build(p proxyline.Proxy) ConnectionOptions {
	opts := ConnectionOptions{Header: make(http.Header, len(defaultHeader))}
	for k, v := range defaultHeader {
		opts.Header.Set(k, v)
	}

	if p.IsNone() {
		return opts
	}

	opts.Proxy = &url.URL{Scheme: "http", Host: p.String()}
	opts.Transport = &http.Transport{Proxy: http.ProxyURL(opts.Proxy)}
	return opts
}

// Direct reports whether no proxy is attached.
func (o ConnectionOptions) Direct() bool {
	return o.Proxy == nil
}

// DialHeader returns Header without the handshake fields, ready for
// websocket.Dialer.DialContext.
func (o ConnectionOptions) DialHeader() http.Header {
	h := o.Header.Clone()
	for _, k := range handshakeHeader {
		h.Del(k)
	}
	return h
}

// Dialer returns a websocket dialer routed through Proxy, or a direct one.
func (o ConnectionOptions) Dialer() *websocket.Dialer {
	d := &websocket.Dialer{
		HandshakeTimeout:  45 * time.Second,
		EnableCompression: true,
	}
	if o.Proxy != nil {
		d.Proxy = http.ProxyURL(o.Proxy)
	}
	return d
}
