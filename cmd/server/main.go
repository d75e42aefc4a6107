package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gogpu/gg"
	"github.com/gorilla/mux"

	"github.com/brandkit/brandkit/backend-go/internal/asset"
	"github.com/brandkit/brandkit/backend-go/internal/config"
	"github.com/brandkit/brandkit/backend-go/internal/export"
	mw "github.com/brandkit/brandkit/backend-go/internal/middleware"
	"github.com/brandkit/brandkit/backend-go/internal/mockup"
	"github.com/brandkit/brandkit/backend-go/internal/render"
	"github.com/brandkit/brandkit/backend-go/internal/render/raster"
	"github.com/brandkit/brandkit/backend-go/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	gg.SetLogger(logger.With("component", "gg"))

	renderer := render.NewRenderer(cfg.Background)
	exporter := export.NewExporter(cfg.CanvasWidth, cfg.CanvasHeight, renderer, cfg.JPEGQuality)
	registry := asset.NewRegistry()

	sessions := session.NewManager(session.Settings{
		Width:    cfg.CanvasWidth,
		Height:   cfg.CanvasHeight,
		Renderer: renderer,
		Exporter: exporter,
		Assets:   registry,
		Measure:  raster.Measure,
		Logger:   logger,

		TemplateDir: cfg.TemplateDir,
	})
	go sessions.Run()

	assetHandler := asset.NewHandler(cfg.AssetDir, cfg.MaxUploadBytes)
	exportHandler := export.NewHandler(exporter)
	mockupHandler := mockup.NewHandler(cfg.TemplateDir, cfg.MaxUploadBytes)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.CORSOrigins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","sessions":%d,"liveAssets":%d,"releasedAssets":%d}`,
			sessions.Count(), registry.Live(), registry.Released())
	}).Methods("GET")

	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")
	r.PathPrefix("/blobs/").Handler(registry.ServeRefs("/blobs/")).Methods("GET")

	r.HandleFunc("/export/image", exportHandler.ExportImage).Methods("POST", "OPTIONS")

	r.HandleFunc("/mockup/templates", mockupHandler.ListTemplates).Methods("GET")
	r.HandleFunc("/mockup/preview", mockupHandler.Preview).Methods("POST", "OPTIONS")

	r.HandleFunc("/ws/editor", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: cfg.Origins(),
		})
		if err != nil {
			slog.Error("websocket accept", "error", err)
			return
		}
		sessions.Serve(r.Context(), conn)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		sessions.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "canvas", fmt.Sprintf("%dx%d", cfg.CanvasWidth, cfg.CanvasHeight))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
