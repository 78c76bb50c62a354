// Package app builds the process-wide context the API serves from. Everything
// in App is constructed once at startup and only read afterwards.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"diabot/internal/auth"
	"diabot/internal/chat"
	"diabot/internal/config"
	"diabot/internal/knowledge"
	"diabot/internal/providers"
	"diabot/internal/retrieval"
	"diabot/internal/risk"
	"diabot/internal/storage"
	"diabot/internal/storage/sqlite"

	"github.com/rs/zerolog"
)

type App struct {
	Documents   []knowledge.Document
	Index       *retrieval.Index
	Chat        *chat.Service
	Predictor   *risk.Predictor
	Auth        *auth.Service
	Users       storage.UserStore
	Predictions storage.PredictionStore

	closers []func()
}

func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	docs, err := knowledge.Load(cfg.KnowledgeDir, cfg.KnowledgeExts)
	if err != nil {
		return nil, err
	}
	idx, err := retrieval.Build(docs)
	if err != nil {
		return nil, err
	}
	log.Info().Int("documents", idx.Len()).Str("dir", cfg.KnowledgeDir).Msg("knowledge base indexed")

	llm, ref, err := providers.NewFromConfig(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("answer generator: %w", err)
	}
	log.Info().Str("provider", ref.Name).Str("model", cfg.GeminiModel).Msg("answer generator ready")

	a := &App{
		Documents: docs,
		Index:     idx,
		Chat:      chat.NewService(idx, llm, log.With().Str("component", "chat").Logger()),
		Predictor: risk.Load(cfg.ModelPath, cfg.ScalerPath, log.With().Str("component", "risk").Logger()),
	}

	if err := a.openStores(ctx, cfg.DatabaseURL, log); err != nil {
		return nil, err
	}
	a.Auth, err = auth.NewService(a.Users, cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute,
		log.With().Str("component", "auth").Logger())
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// openStores picks the backend from the URL scheme.
func (a *App) openStores(ctx context.Context, url string, log zerolog.Logger) error {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		db, err := storage.NewDB(ctx, url)
		if err != nil {
			return err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return err
		}
		a.Users, a.Predictions = storage.NewUserRepo(db), storage.NewPredictionRepo(db)
		a.closers = append(a.closers, db.Close)
		log.Info().Str("backend", "postgres").Msg("database ready")
	case strings.HasPrefix(url, "sqlite:"), strings.HasPrefix(url, "file:"), url == ":memory:":
		db, err := sqlite.Open(ctx, url)
		if err != nil {
			return err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return err
		}
		a.Users, a.Predictions = sqlite.NewUserRepo(db), sqlite.NewPredictionRepo(db)
		a.closers = append(a.closers, db.Close)
		log.Info().Str("backend", "sqlite").Msg("database ready")
	default:
		return fmt.Errorf("unsupported database url %q", url)
	}
	return nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
