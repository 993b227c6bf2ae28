package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	authservice "github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/auth"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/checkout"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/quota"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/reconciler"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/server/handlers"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/server/middleware"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/server/websocket"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/pkg/config"
)

type Server struct {
	CheckoutSvc   checkout.ICheckoutService
	ReconcilerSvc reconciler.IReconcilerService
	QuotaSvc      quota.IQuotaService
	AuthSvc       authservice.IAuthService
	Cfg           *config.Config
	Logger        zerolog.Logger
	Router        *gin.Engine
	httpServer    *http.Server
	Hub           *websocket.Hub
}

func New(
	cfg *config.Config,
	checkoutSvc checkout.ICheckoutService,
	reconcilerSvc reconciler.IReconcilerService,
	quotaSvc quota.IQuotaService,
	authSvc authservice.IAuthService,
	hub *websocket.Hub,
	logger zerolog.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	return &Server{
		Cfg:           cfg,
		CheckoutSvc:   checkoutSvc,
		ReconcilerSvc: reconcilerSvc,
		QuotaSvc:      quotaSvc,
		AuthSvc:       authSvc,
		Logger:        logger,
		Router:        router,
		Hub:           hub,
	}
}

func (s *Server) SetupRouter() {
	mw := middleware.NewMiddleware(s.AuthSvc, s.Logger)
	mw.SetupMiddleware(s.Router)

	handler := handlers.New(
		s.CheckoutSvc,
		s.ReconcilerSvc,
		s.QuotaSvc,
		s.Hub,
		s.Logger,
		s.Cfg,
	)
	handler.SetupHandlers(s.Router, mw)
}

func (s *Server) Start() {
	s.SetupRouter()

	go s.Hub.Run()

	s.httpServer = &http.Server{
		Addr:         s.Cfg.Server.Host + ":" + s.Cfg.Server.Port,
		Handler:      s.Router,
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	s.Logger.Info().Msgf("Starting server on %s", s.httpServer.Addr)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-stopChan
	s.Logger.Info().Msg("Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.Logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	s.Logger.Info().Msg("Server exited gracefully")
}
