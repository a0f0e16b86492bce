// Command kvstore runs a standalone, single-node, in-memory key-value
// server that speaks a RESP-like wire protocol (internal/wire).
//
// Example usage:
//
//	kvstore --host 127.0.0.1 --port 6380 --shards 32
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dreamware/kvstore/internal/conn"
	"github.com/dreamware/kvstore/internal/expiry"
	"github.com/dreamware/kvstore/internal/listener"
	"github.com/dreamware/kvstore/internal/store"
)

// version is overridden at build time via -ldflags.
var version = "dev"

const shutdownGrace = 5 * time.Second

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("kvstore", flag.ContinueOnError)

	host := flags.String("host", "127.0.0.1", "address to listen on")
	port := flags.Int("port", 6379, "port to listen on")
	shards := flags.Int("shards", 64, "number of store shards, must be a power of two >= 16")
	bufInitial := flags.Int("buffer-initial", 4*1024, "initial per-connection read buffer size in bytes")
	bufMax := flags.Int("buffer-max", 64*1024, "maximum pending-request buffer size in bytes before the connection is closed")
	sweepBase := flags.Duration("sweep-base", 100*time.Millisecond, "background expiry sweep base interval")
	sweepMin := flags.Duration("sweep-min", 10*time.Millisecond, "background expiry sweep minimum interval")
	sweepMax := flags.Duration("sweep-max", time.Second, "background expiry sweep maximum interval")
	verbose := flags.Bool("verbose", false, "enable debug-level logging")
	showVersion := flags.BoolP("version", "v", false, "print version and exit")

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Println("kvstore", version)
		return 0
	}

	logger := newLogger(*verbose)
	defer logger.Sync()

	s, err := store.New(*shards)
	if err != nil {
		logger.Fatal("invalid store configuration", zap.Error(err))
	}

	sweeper := expiry.New(s, *sweepBase, *sweepMin, *sweepMax, logger.Named("expiry"))

	connOpts := conn.Options{
		InitialBufferSize: *bufInitial,
		MaxBufferSize:     *bufMax,
	}
	addr := fmt.Sprintf("%s:%d", *host, *port)
	ln, err := listener.Listen(addr, s, logger.Named("listener"), connOpts)
	if err != nil {
		logger.Fatal("failed to start listener", zap.Error(err))
	}

	logger.Info("kvstore listening",
		zap.String("addr", ln.Addr().String()),
		zap.Int("shards", *shards),
		zap.String("version", version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sweeper.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return ln.Serve(gctx)
	})

	<-gctx.Done()
	logger.Info("shutdown signal received, draining connections",
		zap.Duration("grace_period", shutdownGrace))

	shutdownTimer := time.AfterFunc(shutdownGrace, func() {
		logger.Warn("shutdown grace period elapsed, forcing listener closed")
		ln.Close()
	})
	defer shutdownTimer.Stop()

	sweeper.Stop()
	if err := g.Wait(); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		return 1
	}
	logger.Info("shutdown complete")
	return 0
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger.Named("kvstore")
}
