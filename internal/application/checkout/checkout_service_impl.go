package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/infrastructure/gateway"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/repositories/packagerepo"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/repositories/transactionrepo"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/repositories/userrepo"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/pkg/cpf"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/pkg/currency"
)

// sandboxTaxID is the fixed placeholder document accepted by gateway sandboxes.
const sandboxTaxID = "00000000000"

type checkoutService struct {
	userRepo        userrepo.IUserRepository
	packageRepo     packagerepo.IPackageRepository
	transactionRepo transactionrepo.ITransactionRepository
	gatewayFor      GatewayFor
	live            bool
	logger          zerolog.Logger
}

func NewCheckoutService(
	userRepo userrepo.IUserRepository,
	packageRepo packagerepo.IPackageRepository,
	transactionRepo transactionrepo.ITransactionRepository,
	gatewayFor GatewayFor,
	live bool,
	logger zerolog.Logger,
) ICheckoutService {
	return &checkoutService{
		userRepo:        userRepo,
		packageRepo:     packageRepo,
		transactionRepo: transactionRepo,
		gatewayFor:      gatewayFor,
		live:            live,
		logger:          logger,
	}
}

func (s *checkoutService) ListPackages(ctx context.Context) ([]*domain.PimentaPackage, error) {
	return s.packageRepo.List(ctx)
}

func (s *checkoutService) GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	t, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return t, nil
}

func (s *checkoutService) Checkout(ctx context.Context, userID string, req *CheckoutRequest) (*CheckoutResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	pkg, err := s.packageRepo.GetByID(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil || !pkg.Active {
		return nil, domain.ErrPackageNotFound
	}

	gw, ok := s.gatewayFor(req.Method)
	if !ok {
		return nil, domain.ErrInvalidPaymentMethod
	}

	taxID, err := s.resolveTaxID(ctx, user, req.TaxID)
	if err != nil {
		return nil, err
	}

	transaction := &domain.Transaction{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		ProductID:     pkg.ID,
		ProductKind:   domain.ProductPimentaPackage,
		ProductName:   pkg.Name,
		AmountCents:   pkg.PriceCents,
		Status:        domain.StatusPending,
		Provider:      gw.Name(),
		PaymentMethod: req.Method,
	}
	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	chargeReq := &gateway.ChargeRequest{
		TransactionID: transaction.ID,
		AmountCents:   pkg.PriceCents,
		Description:   fmt.Sprintf("%s (%s)", pkg.Name, currency.FormatBRL(pkg.PriceCents)),
		Customer: gateway.Customer{
			Name:  user.Name,
			Email: user.Email,
			TaxID: taxID,
		},
		Method: req.Method,
	}
	if req.Card != nil {
		chargeReq.Card = &gateway.CardDetails{
			Token:      req.Card.Token,
			HolderName: req.Card.HolderName,
		}
	}

	// A gateway failure leaves the transaction pending: nothing was credited
	// and the idempotency key makes a retried checkout safe.
	result, err := gw.CreateCharge(ctx, chargeReq)
	if err != nil {
		s.logger.Error().Err(err).
			Str("transaction_id", transaction.ID).
			Str("provider", string(gw.Name())).
			Msg("Gateway charge creation failed")
		return nil, err
	}

	var orderID, chargeID *string
	if result.OrderID != "" {
		orderID = &result.OrderID
	}
	if result.ChargeID != "" {
		chargeID = &result.ChargeID
	}
	// The provider's raw response is the audit payload on the row.
	if orderID != nil || chargeID != nil || len(result.Raw) > 0 {
		if err := s.transactionRepo.SetGatewayIDs(ctx, transaction.ID, orderID, chargeID, result.Raw); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("transaction_id", transaction.ID).
		Str("user_id", user.ID).
		Str("package_id", pkg.ID).
		Int64("amount_cents", pkg.PriceCents).
		Str("provider", string(gw.Name())).
		Msg("Checkout created")

	return &CheckoutResponse{
		TransactionID: transaction.ID,
		Status:        transaction.Status,
		AmountCents:   pkg.PriceCents,
		Pimentas:      pkg.Pimentas,
		PixQRCode:     result.PixQRCode,
		PixQRCodeURL:  result.PixQRCodeURL,
		PaymentURL:    result.PaymentURL,
	}, nil
}

// resolveTaxID applies the live-mode document rule: a valid CPF must come from
// the request or already be on file. Sandbox checkouts fall back to the fixed
// placeholder the gateways accept.
func (s *checkoutService) resolveTaxID(ctx context.Context, user *domain.User, supplied string) (string, error) {
	if supplied != "" {
		normalized := cpf.Normalize(supplied)
		if s.live && !cpf.Valid(normalized) {
			return "", domain.ErrInvalidTaxID
		}
		if user.TaxID == nil || *user.TaxID != normalized {
			if err := s.userRepo.SetTaxID(ctx, user.ID, normalized); err != nil {
				return "", err
			}
		}
		return normalized, nil
	}

	if user.TaxID != nil && *user.TaxID != "" {
		return *user.TaxID, nil
	}

	if s.live {
		return "", domain.ErrTaxIDRequired
	}
	return sandboxTaxID, nil
}
