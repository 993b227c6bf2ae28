package main

import (
	authservice "github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/auth"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/checkout"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/quota"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/application/reconciler"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/infrastructure/database"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/infrastructure/gateway"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/infrastructure/gateway/pagarme"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/infrastructure/gateway/picpay"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/repositories/balancerepo"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/repositories/messagerepo"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/repositories/packagerepo"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/repositories/transactionrepo"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/repositories/userrepo"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/server"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/server/websocket"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/pkg/config"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/pkg/logger"
)

func main() {
	logger := logger.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.ShutDown()

	transactionRepo := transactionrepo.New(db, logger)
	balanceRepo := balancerepo.New(db, logger)
	packageRepo := packagerepo.New(db, logger)
	userRepo := userrepo.New(db, logger)
	messageRepo := messagerepo.New(db, logger)

	pagarmeGateway := pagarme.New(cfg.Gateways.Pagarme, logger)
	picpayGateway := picpay.New(cfg.Gateways.PicPay, logger)

	gateways := map[domain.Provider]gateway.Gateway{
		pagarmeGateway.Name(): pagarmeGateway,
		picpayGateway.Name():  picpayGateway,
	}
	gatewayFor := func(method domain.PaymentMethod) (gateway.Gateway, bool) {
		switch method {
		case domain.MethodPix, domain.MethodCard:
			return pagarmeGateway, true
		case domain.MethodPicPay:
			return picpayGateway, true
		}
		return nil, false
	}

	hub := websocket.NewHub(logger)

	checkoutService := checkout.NewCheckoutService(
		userRepo,
		packageRepo,
		transactionRepo,
		gatewayFor,
		cfg.Server.IsLive(),
		logger,
	)
	reconcilerService := reconciler.NewReconcilerService(
		gateways,
		db,
		transactionRepo,
		packageRepo,
		balanceRepo,
		hub,
		logger,
	)
	quotaService := quota.NewQuotaService(
		db,
		messageRepo,
		balanceRepo,
		quota.ConfigPolicy{Cost: cfg.Pimenta.MessageCost},
		logger,
	)
	authService := authservice.NewAuthService(cfg, logger)

	srv := server.New(cfg, checkoutService, reconcilerService, quotaService, authService, hub, logger)
	srv.Start()
}
