package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	sharedauth "github.com/sahayak/qa-service/shared/auth"
	"github.com/sahayak/qa-service/shared/logging"
	sharedserver "github.com/sahayak/qa-service/shared/server"

	"github.com/sahayak/qa-service/internal/agent"
	"github.com/sahayak/qa-service/internal/config"
	"github.com/sahayak/qa-service/internal/httpapi"
	"github.com/sahayak/qa-service/internal/qa"
	"github.com/sahayak/qa-service/internal/shell"
)

const janitorInterval = 10 * time.Minute

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("config error: %w", err))
	}

	logger := logging.NewLogger(cfg.ServiceName, cfg.LogLevel)

	responder := qa.NewResponder(logger)
	agentService, err := agent.NewService(
		cfg.Agent.AppName,
		agent.NewMemoryStore(),
		agent.NewToolset(responder),
		agent.NewSystemClock(),
		agent.NewUUIDGenerator(),
		logger,
	)
	if err != nil {
		panic(fmt.Errorf("agent service init error: %w", err))
	}
	go agentService.RunJanitor(ctx, janitorInterval, cfg.Agent.SessionTTL)

	verifier, err := sharedauth.NewVerifier(sharedauth.Config{
		Mode:   cfg.Auth.Mode,
		Secret: cfg.Auth.Secret,
		Issuer: cfg.Auth.Issuer,
	})
	if err != nil {
		panic(fmt.Errorf("auth verifier error: %w", err))
	}

	router := sharedserver.NewRouter(sharedserver.RouterConfig{
		HealthMessage:  "Sahayak API is running",
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, func(r chi.Router) {
		httpapi.RegisterShellRoutes(r, shell.NewClassifier(), logger)

		r.Group(func(r chi.Router) {
			r.Use(sharedauth.Middleware(verifier))

			httpapi.RegisterAgentRoutes(r, agentService, logger)
		})
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if err := sharedserver.Run(ctx, srv, logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}
