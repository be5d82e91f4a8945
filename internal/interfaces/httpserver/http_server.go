package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"obrolan/chat-client/internal/config"
	"obrolan/chat-client/internal/interfaces/httpserver/handlers/authhandler"
	"obrolan/chat-client/internal/interfaces/httpserver/handlers/chathandler"
	"obrolan/chat-client/internal/interfaces/httpserver/handlers/completionhandler"
	middleware "obrolan/chat-client/internal/interfaces/httpserver/middlewares"
)

// HTTPServer is the thin surface the presentation layer talks to.
type HTTPServer struct {
	engine            *gin.Engine
	cfg               *config.Config
	logger            zerolog.Logger
	chatHandler       *chathandler.ChatHandler
	completionHandler *completionhandler.CompletionHandler
	authHandler       *authhandler.AuthHandler
}

func NewHTTPServer(
	cfg *config.Config,
	logger zerolog.Logger,
	chatHandler *chathandler.ChatHandler,
	completionHandler *completionhandler.CompletionHandler,
	authHandler *authhandler.AuthHandler,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	server := &HTTPServer{
		engine:            gin.New(),
		cfg:               cfg,
		logger:            logger,
		chatHandler:       chatHandler,
		completionHandler: completionHandler,
		authHandler:       authHandler,
	}

	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.LoggingMiddleware(logger))
	server.engine.Use(middleware.CORSMiddleware())

	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	server.engine.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	server.bindRoutes()
	return server
}

func (s *HTTPServer) bindRoutes() {
	// The lone route the original web client calls without a chat context.
	s.engine.POST("/api/chat-completion", s.completionHandler.ChatCompletion)

	auth := s.engine.Group("/auth")
	auth.POST("/login", s.authHandler.Login)
	auth.POST("/register", s.authHandler.Register)
	auth.POST("/logout", middleware.SessionMiddleware(s.logger), s.authHandler.Logout)
	auth.GET("/profile", middleware.SessionMiddleware(s.logger), s.authHandler.Profile)

	v1 := s.engine.Group("/v1")
	v1.Use(middleware.SessionMiddleware(s.logger))
	v1.GET("/chats", s.chatHandler.ListChats)
	v1.POST("/chats", s.chatHandler.StartChat)
	v1.GET("/chats/:id/messages", s.chatHandler.GetMessages)
	v1.POST("/chats/:id/messages", s.chatHandler.ContinueChat)
	v1.PATCH("/chats/:id/pin", s.chatHandler.TogglePin)
	v1.PATCH("/chats/:id", s.chatHandler.RenameChat)
	v1.DELETE("/chats/:id", s.chatHandler.DeleteChat)
}

// Engine exposes the router for tests.
func (s *HTTPServer) Engine() *gin.Engine {
	return s.engine
}

// Run blocks serving HTTP until the listener fails.
func (s *HTTPServer) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.HTTPPort)
	s.logger.Info().Str("addr", addr).Msg("http server listening")
	return s.engine.Run(addr)
}
