package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/common"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/config"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/corpus"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/nlp"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/service"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/storage"
)

// loadConfig materializes the validated configuration from viper state.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("invalid configuration", err)
	}
	return cfg, nil
}

// newClient builds the classifier client shared by every command.
func newClient(cfg *config.Config) *nlp.Client {
	return nlp.New(cfg.NLP)
}

// initStorage opens the result database and runs migrations.
func initStorage(ctx context.Context, cfg *config.Config) (service.ResultStore, error) {
	store, err := storage.NewSQLiteStore(cfg.Database)
	if err != nil {
		return nil, common.NewUserError("failed to open result database", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// loadCorpus loads the configured dataset, optionally filtered to one
// category. An unknown category is rejected with the list of valid names.
func loadCorpus(cfg *config.Config, category string) ([]model.TestPhrase, error) {
	phrases, err := corpus.Load(cfg.Dataset)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return phrases, nil
	}

	filtered := corpus.FilterCategory(phrases, category)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("unknown category %q, valid categories: %s",
			category, strings.Join(corpus.Categories(phrases), ", "))
	}
	return filtered, nil
}

// requireHealthy refuses to start expensive work against a classifier that
// is not answering its health probe.
func requireHealthy(ctx context.Context, classifier service.Classifier) error {
	switch status := classifier.Health(ctx); status {
	case service.StatusHealthy:
		return nil
	case service.StatusUnreachable:
		return fmt.Errorf("%w: refusing to start", common.ErrUnreachable)
	default:
		return fmt.Errorf("classifier is %s, refusing to start", status)
	}
}
