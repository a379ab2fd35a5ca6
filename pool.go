package proxypool

import (
	"slices"
	"sync/atomic"

	"github.com/grishkovelli/proxypool/pkg/proxyline"
)

// None is returned by Pool.Next when the pool is empty.
var None = proxyline.Proxy{}

// Pool is an immutable ordered list of proxies handed out round-robin.
// It is replaced wholesale on re-initialization, never mutated in place.
type Pool struct {
	proxies []proxyline.Proxy
	version uint64
	// counter is the number of selections so far; cursor is counter mod len
	counter atomic.Uint64
}

// NewPool copies proxies into a new pool.
func NewPool(proxies []proxyline.Proxy) *Pool {
	return newPool(proxies, 0)
}

func newPool(proxies []proxyline.Proxy, version uint64) *Pool {
	return &Pool{proxies: slices.Clone(proxies), version: version}
}

// Next returns the proxy under the cursor and advances it, wrapping around.
// The advance is atomic, so concurrent callers cover every entry before any
// entry repeats. An empty pool always returns None.
func (p *Pool) Next() proxyline.Proxy {
	if p == nil || len(p.proxies) == 0 {
		return None
	}

	i := p.counter.Add(1) - 1
	return p.proxies[i%uint64(len(p.proxies))]
}

func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.proxies)
}

// Cursor is the index the next call to Next will return.
func (p *Pool) Cursor() int {
	if p.Len() == 0 {
		return 0
	}
	return int(p.counter.Load() % uint64(len(p.proxies)))
}

func (p *Pool) Selections() uint64 {
	if p == nil {
		return 0
	}
	return p.counter.Load()
}

func (p *Pool) Version() uint64 {
	if p == nil {
		return 0
	}
	return p.version
}

// Entries returns a copy of the pool contents in rotation order.
func (p *Pool) Entries() []proxyline.Proxy {
	if p == nil {
		return nil
	}
	return slices.Clone(p.proxies)
}
