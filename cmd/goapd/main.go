package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pflow-xyz/go-goap/action"
	"github.com/pflow-xyz/go-goap/cache"
	"github.com/pflow-xyz/go-goap/config"
	"github.com/pflow-xyz/go-goap/history"
	"github.com/pflow-xyz/go-goap/planner"
	"github.com/pflow-xyz/go-goap/server"
)

func main() {
	configPath := flag.String("config", "", "path to goapd.yaml (defaults apply when empty)")
	flag.Parse()

	logger := log.New(os.Stdout, "[goapd] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	pl := planner.New().
		WithMaxDepth(cfg.Planner.MaxDepth).
		WithMaxNodes(cfg.Planner.MaxNodes).
		WithCache(cache.NewPlanCache(cfg.Planner.CacheSize))

	srv, err := server.New(action.NewCatalog(), pl)
	if err != nil {
		logger.Fatalf("build server: %v", err)
	}

	if cfg.History.Disabled {
		logger.Printf("history persistence disabled")
	} else {
		store, err := history.NewStore(cfg.History.DBPath)
		if err != nil {
			logger.Fatalf("open history store: %v", err)
		}
		defer store.Close()

		lw := history.NewLogWriter(cfg.History.LogDir, "plans")
		defer lw.Close()

		srv.SetRecorder(history.NewRecorder(store, lw))
		srv.SetStore(store)
	}

	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signalContext()
	defer cancel()

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = httpSrv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", cfg.Listen)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
	logger.Printf("stopped")
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
