package main

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"obrolan/chat-client/internal/config"
	"obrolan/chat-client/internal/gateway/authapi"
	"obrolan/chat-client/internal/gateway/completion"
	"obrolan/chat-client/internal/gateway/datastore"
	"obrolan/chat-client/internal/infrastructure/logger"
	"obrolan/chat-client/internal/interfaces/httpserver"
	"obrolan/chat-client/internal/interfaces/httpserver/handlers/authhandler"
	"obrolan/chat-client/internal/interfaces/httpserver/handlers/chathandler"
	"obrolan/chat-client/internal/interfaces/httpserver/handlers/completionhandler"
)

type Application struct {
	httpServer *httpserver.HTTPServer
}

func (application *Application) Start() {
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	var eg errgroup.Group
	eg.Go(func() error {
		err := application.httpServer.Run()
		if err != nil {
			cancel()
		}
		return err
	})

	if err := eg.Wait(); err != nil {
		panic(err)
	}
}

func main() {
	log := logger.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	log, err = logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fallback := logger.GetLogger()
		fallback.Fatal().Err(err).Msg("configure logger")
	}

	pool, err := completion.NewCredentialPool(cfg.CompletionAPIKeys)
	if err != nil {
		log.Fatal().Err(err).Msg("build credential pool")
	}

	data := datastore.NewClient(cfg.DataGatewayURL, cfg.DataGatewayKey)
	completionClient := completion.NewClient(cfg.CompletionBaseURL, cfg.CompletionModel, pool, cfg.CompletionTimeout)
	authClient := authapi.NewClient(cfg.DataGatewayURL, cfg.DataGatewayKey, &http.Client{Timeout: cfg.HTTPTimeout}, log)

	application := &Application{
		httpServer: httpserver.NewHTTPServer(
			cfg,
			log,
			chathandler.NewChatHandler(data, completionClient, cfg, log),
			completionhandler.NewCompletionHandler(completionClient, log),
			authhandler.NewAuthHandler(authClient, data, log),
		),
	}

	application.Start()
}
