// Package conn drives a single client connection: read bytes, parse as
// many complete frames as are already buffered, execute each against the
// store, and write the replies back — pipelining multiple requests ahead
// of their responses without waiting on the network between them (spec.md
// §4.6).
package conn

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dreamware/kvstore/internal/command"
	"github.com/dreamware/kvstore/internal/store"
	"github.com/dreamware/kvstore/internal/wire"
)

// errQuit is returned by drainPending when the client issued QUIT: Serve
// treats it as a normal close rather than a protocol failure.
var errQuit = errors.New("conn: quit requested")

// Options configures buffer growth and network timeouts for a connection.
type Options struct {
	InitialBufferSize int
	MaxBufferSize     int
	IdleTimeout       time.Duration
}

// DefaultOptions matches spec.md §4.6's stated defaults: a 4KiB initial
// read buffer growing up to a 64KiB hard cap.
func DefaultOptions() Options {
	return Options{
		InitialBufferSize: 4 * 1024,
		MaxBufferSize:     64 * 1024,
	}
}

// Conn owns one client's lifecycle: it never outlives the underlying
// net.Conn and never touches any other connection's state.
type Conn struct {
	nc      net.Conn
	store   *store.Store
	logger  *zap.Logger
	opts    Options
	id      uuid.UUID
	readBuf []byte
	pending []byte // unparsed bytes carried over between Read calls
}

// New wraps nc for request/response serving against s.
func New(nc net.Conn, s *store.Store, logger *zap.Logger, opts Options) *Conn {
	return &Conn{
		nc:      nc,
		store:   s,
		logger:  logger.With(zap.String("conn_id", uuid.Must(uuid.NewRandom()).String())),
		opts:    opts,
		readBuf: make([]byte, opts.InitialBufferSize),
	}
}

// Serve blocks, handling requests until the connection is closed or a
// fatal framing error occurs. It always closes nc before returning.
func (c *Conn) Serve() {
	defer c.nc.Close()
	c.logger.Info("connection accepted", zap.String("remote_addr", c.nc.RemoteAddr().String()))

	for {
		if err := c.drainPending(); err != nil {
			if errors.Is(err, errQuit) {
				c.logger.Debug("closing connection on client QUIT")
			} else {
				c.logger.Warn("closing connection on framing error", zap.Error(err))
			}
			return
		}

		if c.opts.IdleTimeout > 0 {
			_ = c.nc.SetReadDeadline(time.Now().Add(c.opts.IdleTimeout))
		}
		n, err := c.nc.Read(c.readBuf)
		if n > 0 {
			c.pending = append(c.pending, c.readBuf[:n]...)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.logger.Debug("connection read error", zap.Error(err))
			}
			return
		}
	}
}

// drainPending parses and executes every complete frame currently
// buffered, writing each reply before parsing the next — this is what
// lets a client pipeline many requests ahead of their responses while
// still seeing replies in request order.
func (c *Conn) drainPending() error {
	for {
		if len(c.pending) == 0 {
			return nil
		}
		val, consumed, err := wire.Parse(c.pending)
		if err != nil {
			if errors.Is(err, wire.ErrIncomplete) {
				if len(c.pending) >= c.opts.MaxBufferSize {
					return errors.New("conn: request exceeds max buffer size")
				}
				c.compactPending()
				return nil
			}
			var framingErr *wire.FramingError
			if errors.As(err, &framingErr) {
				c.writeReply(wire.Errorf("ERR Protocol error: %s", framingErr.Reason))
			}
			return err
		}

		c.pending = c.pending[consumed:]
		reply, closeConn := command.Dispatch(c.store, val)
		if werr := c.writeReply(reply); werr != nil {
			return werr
		}
		if closeConn {
			return errQuit
		}
	}
}

// compactPending copies the remaining unparsed bytes to the front of a
// fresh slice so a connection that repeatedly sends small pipelined
// requests doesn't pin an ever-growing backing array through re-slicing.
func (c *Conn) compactPending() {
	if len(c.pending) == 0 {
		c.pending = nil
		return
	}
	fresh := make([]byte, len(c.pending))
	copy(fresh, c.pending)
	c.pending = fresh
}

func (c *Conn) writeReply(v wire.Value) error {
	buf := wire.Serialize(make([]byte, 0, 64), v)
	_, err := c.nc.Write(buf)
	return err
}
