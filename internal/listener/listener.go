// Package listener owns the TCP accept loop: one goroutine per accepted
// connection, tracked so a graceful shutdown can wait for in-flight
// connections to finish serving their current request before the process
// exits (spec.md §4.6, §7).
package listener

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dreamware/kvstore/internal/conn"
	"github.com/dreamware/kvstore/internal/store"
)

// Listener accepts TCP connections and serves each one against a shared Store.
type Listener struct {
	ln       net.Listener
	store    *store.Store
	logger   *zap.Logger
	connOpts conn.Options

	wg        sync.WaitGroup
	connCount atomic.Int64
}

// Listen opens addr for TCP connections.
func Listen(addr string, s *store.Store, logger *zap.Logger, connOpts conn.Options) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listener: listen on %s: %w", addr, err)
	}
	return &Listener{ln: ln, store: s, logger: logger, connOpts: connOpts}, nil
}

// Addr returns the listener's bound address, useful when addr was ":0".
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// ActiveConnections reports the number of connections currently being served.
func (l *Listener) ActiveConnections() int64 { return l.connCount.Load() }

// Serve accepts connections until ctx is canceled or the listener is
// closed, spawning one goroutine per connection (grounded on the teacher's
// cmd/coordinator/main.go goroutine-per-listener pattern, generalized here
// to goroutine-per-connection since there is no HTTP mux to dispatch
// through). Canceling ctx also closes every connection still open. Serve
// blocks until every in-flight connection goroutine has returned, so a
// caller awaiting Serve knows shutdown is complete.
func (l *Listener) Serve(ctx context.Context) error {
	closeOnce := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			l.ln.Close()
		case <-closeOnce:
		}
	}()
	defer close(closeOnce)

	for {
		nc, err := l.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				l.wg.Wait()
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				l.wg.Wait()
				return nil
			}
			// Transient accept errors (e.g. a momentary fd exhaustion) must
			// not bring the whole listener down; log and keep accepting.
			l.logger.Warn("accept error, continuing", zap.Error(err))
			continue
		}

		l.connCount.Add(1)
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			defer l.connCount.Add(-1)
			stop := context.AfterFunc(ctx, func() { nc.Close() })
			defer stop()
			c := conn.New(nc, l.store, l.logger, l.connOpts)
			c.Serve()
		}()
	}
}

// Close stops accepting new connections. It does not wait for in-flight
// connections; Serve returning is what signals full shutdown.
func (l *Listener) Close() error {
	return l.ln.Close()
}
