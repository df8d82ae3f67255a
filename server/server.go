// Package server wires the HTTP surface: request routing, API-key auth
// and lifecycle for the turn engine and background jobs.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/scambait/internal/profile"
	"github.com/hrygo/scambait/plugin/ai"
	"github.com/hrygo/scambait/plugin/ai/engine"
	"github.com/hrygo/scambait/plugin/ai/report"
	"github.com/hrygo/scambait/plugin/ai/session"
	"github.com/hrygo/scambait/store"
)

type Server struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	engine     *engine.Engine
	cleanupJob *session.CleanupJob
	cancel     context.CancelFunc
}

func NewServer(ctx context.Context, profile *profile.Profile, st *store.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	aiCfg := ai.NewConfigFromProfile(profile)
	if err := aiCfg.Validate(); err != nil {
		if profile.Mode == "prod" {
			return nil, errors.Wrap(err, "invalid ai config")
		}
		slog.Warn("no usable LLM provider, detection runs on keyword fallback only", "error", err)
	}

	var embedder ai.EmbeddingService
	if aiCfg.HasEmbedding() {
		svc, err := ai.NewEmbeddingService(&aiCfg.Embedding)
		if err != nil {
			slog.Warn("embedding provider unavailable, evidence retrieval disabled", "error", err)
		} else {
			embedder = svc
		}
	}

	if err := st.SeedScamPatterns(ctx, embedder); err != nil {
		return nil, errors.Wrap(err, "seed scam patterns")
	}

	notifier := store.NewArchivingNotifier(st,
		report.NewCallbackNotifier(aiCfg.Callback.URL, aiCfg.Callback.APIKey))

	eng, err := engine.New(engine.Options{
		Config:   aiCfg,
		Store:    st.SessionStore(),
		Searcher: st,
		Embedder: embedder,
		Notifier: notifier,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create turn engine")
	}

	s := &Server{
		Secret:     profile.APIKey,
		Profile:    profile,
		Store:      st,
		echoServer: e,
		engine:     eng,
		cleanupJob: session.NewCleanupJob(st.SessionStore(), session.CleanupConfig{
			RetentionDays: profile.SessionRetentionDays,
		}),
	}
	s.registerRoutes(e)
	return s, nil
}

func (s *Server) registerRoutes(e *echo.Echo) {
	e.GET("/healthz", s.healthz)

	api := e.Group("/api/v1", s.apiKeyAuth())
	api.POST("/message", s.handleMessage)
	api.POST("/sessions/:id/end", s.handleEndSession)
	api.GET("/sessions/:id/reports", s.handleListReports)
}

func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.cleanupJob.Start(ctx)

	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("scambait server starting", "address", addr, "mode", s.Profile.Mode)
	return s.echoServer.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if s.cancel != nil {
		s.cancel()
	}
	s.cleanupJob.Stop()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("store close failed", "error", err)
	}
	slog.Info("scambait server stopped")
}
