// Package proxypool supplies a rotating pool of proxies and builds the
// connection options for outbound websocket connections.
package proxypool

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/grishkovelli/proxypool/pkg/proxyline"
)

//  ███╗   ███╗ █████╗ ███╗   ██╗ █████╗  ██████╗ ███████╗██████╗
//  ████╗ ████║██╔══██╗████╗  ██║██╔══██╗██╔════╝ ██╔════╝██╔══██╗
//  ██╔████╔██║███████║██╔██╗ ██║███████║██║  ███╗█████╗  ██████╔╝
//  ██║╚██╔╝██║██╔══██║██║╚██╗██║██╔══██║██║   ██║██╔══╝  ██╔══██╗
//  ██║ ╚═╝ ██║██║  ██║██║ ╚████║██║  ██║╚██████╔╝███████╗██║  ██║
//  ╚═╝     ╚═╝╚═╝  ╚═╝╚═╝  ╚═══╝╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚═╝  ╚═╝
//

// Manager owns the process-wide pool and its init/teardown lifecycle.
type Manager struct {
	Config SourceConfig
	Client *http.Client
	Logger *log.Logger

	pool atomic.Pointer[Pool]

	m             sync.Mutex
	version       uint64
	running       bool
	cancel        context.CancelFunc
	initializedAt time.Time
}

func NewManager(sc SourceConfig, logger *log.Logger) *Manager {
	return &Manager{Config: sc, Logger: logger}
}

// Start launches initialization in the background. The returned channel is
// closed exactly once, when initialization settles, whatever the outcome.
// It fails only with ErrInitInFlight. A Start after a settled one replaces
// the pool wholesale.
func (m *Manager) Start(ctx context.Context) (<-chan struct{}, error) {
	m.m.Lock()
	if m.running {
		m.m.Unlock()
		return nil, ErrInitInFlight
	}
	m.running = true
	m.version++
	version := m.version
	ctx, m.cancel = context.WithCancel(ctx)
	m.m.Unlock()

	r := &Resolver{Client: m.Client, Logger: m.Logger}
	ready := make(chan struct{})

	go func() {
		defer close(ready)
		proxies := r.Resolve(ctx, m.Config)

		m.m.Lock()
		defer m.m.Unlock()

		// Close ran in the meantime
		if version != m.version {
			return
		}
		m.pool.Store(newPool(proxies, version))
		m.running = false
		m.cancel()
		m.initializedAt = time.Now()
	}()

	return ready, nil
}

// Initialize runs Start and waits for it to settle.
func (m *Manager) Initialize(ctx context.Context) error {
	ready, err := m.Start(ctx)
	if err != nil {
		return err
	}
	<-ready
	return nil
}

// Close cancels an in-flight initialization and empties the pool.
func (m *Manager) Close() {
	m.m.Lock()
	defer m.m.Unlock()

	if m.cancel != nil {
		m.cancel()
	}
	m.version++
	m.running = false
	m.pool.Store(nil)
	m.initializedAt = time.Time{}
}

// Pool returns the current pool; it is empty until initialization settles.
func (m *Manager) Pool() *Pool {
	if p := m.pool.Load(); p != nil {
		return p
	}
	return &Pool{}
}

// Next selects the next proxy, or None.
func (m *Manager) Next() proxyline.Proxy {
	return m.Pool().Next()
}

// Options selects the next proxy and builds the connection options for it.
func (m *Manager) Options() ConnectionOptions {
	return Build(m.Next())
}

// Stat reports the current state of the manager.
func (m *Manager) Stat() *Stat {
	m.m.Lock()
	running, initializedAt := m.running, m.initializedAt
	m.m.Unlock()

	p := m.Pool()
	return &Stat{
		Mode:          m.Config.Mode(),
		Version:       p.Version(),
		Proxies:       p.Len(),
		Selections:    p.Selections(),
		Cursor:        p.Cursor(),
		Initializing:  running,
		InitializedAt: initializedAt,
	}
}
