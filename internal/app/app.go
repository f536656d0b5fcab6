// Package app wires configuration, storage, clients, and services into a
// single application core shared by entrypoints and tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/foliohq/folio/internal/clients/gemini"
	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/importer"
	"github.com/foliohq/folio/internal/interfaces"
	"github.com/foliohq/folio/internal/services/portfolio"
	"github.com/foliohq/folio/internal/storage"
)

// App holds all initialized services, clients, and configuration.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	GeminiClient     interfaces.GeminiClient
	PortfolioService interfaces.PortfolioService
	ImportService    interfaces.ImportService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes services, clients, and storage from configuration.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Load configuration - check provided path, FOLIO_CONFIG, then binary dir,
	// then fallback
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()

	var geminiClient interfaces.GeminiClient
	if key := config.Clients.Gemini.APIKey; key != "" {
		client, err := gemini.NewClient(ctx, key,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithRateLimit(config.Clients.Gemini.RateLimit),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			geminiClient = client
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - AI import and summaries will be unavailable")
	}

	portfolioService := portfolio.NewService(storageManager, geminiClient, logger)
	importService := importer.NewService(geminiClient, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		GeminiClient:     geminiClient,
		PortfolioService: portfolioService,
		ImportService:    importService,
		StartupTime:      startupStart,
	}

	// Bootstrap users from file when configured
	if config.Auth.UsersFile != "" {
		usersPath := config.Auth.UsersFile
		if !filepath.IsAbs(usersPath) {
			usersPath = filepath.Join(binDir, usersPath)
		}
		if _, err := os.Stat(usersPath); err == nil {
			imported, skipped, err := ImportUsersFromFile(ctx, storageManager.UserStore(), logger, usersPath)
			if err != nil {
				logger.Warn().Err(err).Str("path", usersPath).Msg("User import failed")
			} else {
				logger.Info().Int("imported", imported).Int("skipped", skipped).Msg("User import complete")
			}
		}
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.GeminiClient != nil {
		a.GeminiClient.Close()
		a.GeminiClient = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
