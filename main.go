package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/serisow/abstractor/config"
	"github.com/serisow/abstractor/llm_service"
	"github.com/serisow/abstractor/logging"
	"github.com/serisow/abstractor/pipeline"
	"github.com/serisow/abstractor/plugin_registry"
	"github.com/serisow/abstractor/server"

	"github.com/urfave/negroni"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize the logger
	logger, err := initLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize PluginRegistry with the available model backends
	registry := plugin_registry.NewPluginRegistry()
	registerLLMServices(registry, cfg, logger)

	svc, ok := registry.GetLLMService(cfg.LLMProvider)
	if !ok {
		log.Fatalf("Unknown LLM provider: %s", cfg.LLMProvider)
	}

	pl := pipeline.New(pipeline.Options{
		Service:          svc,
		ServiceConfig:    serviceConfig(cfg),
		StrictValidation: cfg.StrictValidation,
		Logger:           logger,
	})

	// Initialize server
	r := server.SetupRoutes(cfg, pl, logger)
	n := setupNegroni(r)

	logger.Info("Starting server",
		slog.String("environment", cfg.Environment),
		slog.String("llm_provider", cfg.LLMProvider))

	if cfg.Environment == "production" {
		server.ServeProduction(n, cfg)
	} else {
		srv := &http.Server{
			Addr:         ":" + cfg.HTTPPort,
			Handler:      n,
			IdleTimeout:  time.Minute,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
		}
		server.ServeDevelopment(srv)
	}
}

func initLogger(cfg config.Config) (*slog.Logger, error) {
	handler, err := logging.NewDailyFileHandler(cfg.LogDir, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	if err != nil {
		return nil, err
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

func setupNegroni(r *mux.Router) *negroni.Negroni {
	n := negroni.New()

	// Add middleware here
	n.Use(negroni.NewRecovery())
	n.Use(negroni.NewLogger())

	n.UseHandler(r)
	return n
}

func registerLLMServices(registry *plugin_registry.PluginRegistry, cfg config.Config, logger *slog.Logger) {
	registry.RegisterLLMService("openai", llm_service.NewOpenAIService(logger, cfg.LLMTimeout))
	registry.RegisterLLMService("anthropic", llm_service.NewAnthropicService(logger, cfg.LLMTimeout))
}

// serviceConfig assembles the explicit model configuration passed into the
// pipeline; services never read credentials from the environment themselves.
func serviceConfig(cfg config.Config) llm_service.ServiceConfig {
	switch cfg.LLMProvider {
	case "anthropic":
		return llm_service.ServiceConfig{
			APIURL:    cfg.AnthropicAPIURL,
			APIKey:    cfg.AnthropicAPIKey,
			ModelName: cfg.AnthropicModelName,
			MaxTokens: cfg.LLMMaxTokens,
		}
	default:
		return llm_service.ServiceConfig{
			APIURL:    cfg.OpenAIAPIURL,
			APIKey:    cfg.OpenAIAPIKey,
			ModelName: cfg.OpenAIModelName,
			MaxTokens: cfg.LLMMaxTokens,
		}
	}
}
