package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottoshop/internal/engine"
	"github.com/hammamikhairi/ottoshop/internal/server"
	"github.com/hammamikhairi/ottoshop/internal/storage"
	"github.com/hammamikhairi/ottoshop/internal/sweeper"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat and pricing API over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config and OTTOSHOP_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	store := storage.NewMemoryStore(a.log)
	eng := engine.New(a.backend(), store, a.log, engine.WithExtractor(a.extractor()))
	srv := server.New(eng, a.tools, a.log, server.WithAllowedOrigins(a.cfg.Server.AllowedOrigins...))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if ttl := a.cfg.Server.SessionTTL; ttl > 0 {
		sw := sweeper.New(store, a.log, sweeper.WithTTL(ttl), sweeper.OnEvict(eng.Forget))
		sw.Start(ctx)
		defer sw.Stop()
	}

	return srv.Run(ctx, addr)
}
