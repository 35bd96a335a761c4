package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/seej007/SIA-ERP-INVENTORY/internal/api"
	"github.com/seej007/SIA-ERP-INVENTORY/internal/config"
	"github.com/seej007/SIA-ERP-INVENTORY/internal/mockstore"
	"github.com/seej007/SIA-ERP-INVENTORY/odoo"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := createLogger(cfg.LogEnv)
	defer log.Sync()

	log.Info("starting inventory admin server",
		zap.String("odoo_url", cfg.Odoo.URL),
		zap.String("odoo_db", cfg.Odoo.Database),
		zap.Int("port", cfg.Server.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []odoo.Option{
		odoo.WithTimeout(cfg.Odoo.Timeout),
		odoo.WithLogger(log.Named("odoo")),
	}
	if cfg.Odoo.InsecureSkipVerify {
		opts = append(opts, odoo.WithInsecureSkipVerify(true))
	}

	erp, err := odoo.New(ctx, cfg.Odoo.URL, cfg.Odoo.Database, cfg.Odoo.Username, cfg.Odoo.APIKey, opts...)
	if err != nil {
		log.Fatal("failed to connect to ERP", zap.Error(err))
	}
	log.Info("ERP connection established", zap.Int64("uid", erp.UID()))

	handler := api.NewHandler(erp, mockstore.NewInMemory(), log)

	router := mux.NewRouter()
	apiRouter := router.PathPrefix("/api").Subrouter()
	handler.Routes(apiRouter)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if cfg.Server.StaticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.Server.StaticDir)))
	}

	var h http.Handler = router
	h = api.Session(h)
	h = api.Recovery(log)(h)
	h = api.AccessLog(log)(h)
	h = api.RequestID(h)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}

// createLogger builds the zap logger for the configured environment.
func createLogger(env string) *zap.Logger {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.CallerKey = ""
		cfg.DisableStacktrace = true
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
