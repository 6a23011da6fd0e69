// Command foldengine starts the HTTP/WebSocket request surface over a
// session registry for the illustrative puzzle reducer, backed by a
// bounded proof-worker pool.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/turbofold/foldengine/internal/config"
	"github.com/turbofold/foldengine/internal/httpapi"
	"github.com/turbofold/foldengine/internal/logging"
	"github.com/turbofold/foldengine/internal/prover/demoprover"
	"github.com/turbofold/foldengine/internal/queue"
)

func main() {
	cfg := config.Load()
	log := logging.Configure(false)

	q := queue.New(cfg.NumWorkers, cfg.ProofDir, log)
	defer q.Close()

	srv := httpapi.New(q, demoprover.New(), log)
	router := srv.NewRouter()

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Infof("foldengine listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			_, _ = fmt.Fprintf(os.Stderr, "http server: %v\n", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	_ = httpServer.Close()
}
