package reconciler

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/domain"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/infrastructure/database"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/infrastructure/gateway"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/repositories/balancerepo"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/repositories/packagerepo"
	"github.com/Andryxsonhub/myextasyclub-backend-sub000/internal/repositories/transactionrepo"
)

type reconcilerService struct {
	gateways        map[domain.Provider]gateway.Gateway
	db              database.TxRunner
	transactionRepo transactionrepo.ITransactionRepository
	packageRepo     packagerepo.IPackageRepository
	balanceRepo     balancerepo.IBalanceRepository
	notifier        Notifier
	logger          zerolog.Logger
}

func NewReconcilerService(
	gateways map[domain.Provider]gateway.Gateway,
	db database.TxRunner,
	transactionRepo transactionrepo.ITransactionRepository,
	packageRepo packagerepo.IPackageRepository,
	balanceRepo balancerepo.IBalanceRepository,
	notifier Notifier,
	logger zerolog.Logger,
) IReconcilerService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &reconcilerService{
		gateways:        gateways,
		db:              db,
		transactionRepo: transactionRepo,
		packageRepo:     packageRepo,
		balanceRepo:     balanceRepo,
		notifier:        notifier,
		logger:          logger,
	}
}

// HandleWebhook settles one provider callback: authenticate over the raw
// bytes, resolve the transaction, then apply the status transition and any
// crediting as a single atomic unit.
func (s *reconcilerService) HandleWebhook(ctx context.Context, provider domain.Provider, raw []byte, signatureHeader string) (*Result, error) {
	gw, ok := s.gateways[provider]
	if !ok {
		return nil, fmt.Errorf("unknown payment provider %q", provider)
	}

	// The signature covers the exact raw bytes; parsing first would be a bug.
	if err := gw.VerifySignature(raw, signatureHeader); err != nil {
		s.logger.Warn().
			Str("provider", string(provider)).
			Msg("Webhook signature verification failed")
		return nil, err
	}

	event, err := gw.ParseEvent(raw)
	if err != nil {
		// Authenticated but unparseable: acknowledge so the provider does not
		// retry an event we will never understand.
		s.logger.Warn().Err(err).
			Str("provider", string(provider)).
			Msg("Ignoring unparseable webhook payload")
		return &Result{Outcome: OutcomeIgnored}, nil
	}
	if !event.Identified() {
		s.logger.Warn().
			Str("provider", string(provider)).
			Msg("Ignoring webhook event with no usable identifier")
		return &Result{Outcome: OutcomeIgnored}, nil
	}

	transaction, err := s.resolve(ctx, event)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		// The provider may record a charge slightly ahead of our own write;
		// acknowledge and keep the event in the log for audit.
		s.logger.Warn().
			Str("provider", string(provider)).
			Str("reference_id", event.ReferenceID).
			Str("charge_id", event.ChargeID).
			Str("pix_id", event.PixID).
			Str("raw_status", event.RawStatus).
			Msg("Webhook event matched no transaction")
		return &Result{Outcome: OutcomeUnresolved}, nil
	}

	// A callback may only settle transactions opened with the same provider;
	// one provider's status vocabulary never applies to another's charge.
	if transaction.Provider != provider {
		s.logger.Warn().
			Str("provider", string(provider)).
			Str("transaction_id", transaction.ID).
			Str("transaction_provider", string(transaction.Provider)).
			Msg("Webhook event resolved to another provider's transaction")
		return &Result{Outcome: OutcomeUnresolved}, nil
	}

	candidate := gw.MapStatus(event.RawStatus)

	var chargeID *string
	if event.ChargeID != "" {
		chargeID = &event.ChargeID
	}

	result := &Result{}
	err = s.db.WithinTx(ctx, func(tx *sql.Tx) error {
		applied, err := s.transactionRepo.WithTx(tx).ApplyStatus(ctx, transaction.ID, candidate, chargeID)
		if err != nil {
			return err
		}
		result.Transaction = applied.Transaction

		if !applied.Applied {
			result.Outcome = OutcomeUnchanged
			return nil
		}
		result.Outcome = OutcomeApplied

		if candidate != domain.StatusPaid {
			return nil
		}

		// Crediting must commit with the transition or not at all: a paid
		// transaction with no pimentas granted is the failure mode this
		// single unit exists to rule out.
		pkg, err := s.packageRepo.WithTx(tx).GetByID(ctx, applied.Transaction.ProductID)
		if err != nil {
			return err
		}
		if pkg == nil {
			return fmt.Errorf("package %s not found while crediting transaction %s: %w",
				applied.Transaction.ProductID, applied.Transaction.ID, domain.ErrReconciliationFailure)
		}

		newBalance, err := s.balanceRepo.WithTx(tx).Credit(ctx, applied.Transaction.UserID, pkg.Pimentas)
		if err != nil {
			return err
		}
		result.Credited = true
		result.CreditedPimentas = pkg.Pimentas
		result.NewBalance = newBalance
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str("provider", string(provider)).
			Str("transaction_id", transaction.ID).
			Str("candidate_status", string(candidate)).
			Msg("Webhook reconciliation failed")
		return nil, err
	}

	switch result.Outcome {
	case OutcomeUnchanged:
		if result.Transaction.Status.Terminal() && candidate != result.Transaction.Status {
			// Out-of-order delivery against a settled transaction. The
			// terminal-state rule already blocked it; keep the evidence.
			s.logger.Warn().
				Str("provider", string(provider)).
				Str("transaction_id", result.Transaction.ID).
				Str("current_status", string(result.Transaction.Status)).
				Str("candidate_status", string(candidate)).
				Msg("Conflicting webhook delivery for settled transaction")
		} else {
			s.logger.Info().
				Str("provider", string(provider)).
				Str("transaction_id", result.Transaction.ID).
				Str("status", string(result.Transaction.Status)).
				Msg("Webhook redelivery was a no-op")
		}
	case OutcomeApplied:
		evt := s.logger.Info().
			Str("provider", string(provider)).
			Str("transaction_id", result.Transaction.ID).
			Str("status", string(candidate))
		if result.Credited {
			evt = evt.Int64("credited_pimentas", result.CreditedPimentas).
				Int64("new_balance", result.NewBalance)
		}
		evt.Msg("Webhook reconciled")

		var balance *int64
		if result.Credited {
			balance = &result.NewBalance
		}
		s.notifier.NotifyPayment(result.Transaction.UserID, result.Transaction, balance)
	}

	return result, nil
}

// resolve prefers the internal reference id the provider echoed back and
// falls back to the provider-assigned charge/order and pix ids.
func (s *reconcilerService) resolve(ctx context.Context, event *domain.WebhookEvent) (*domain.Transaction, error) {
	if _, err := uuid.Parse(event.ReferenceID); err == nil {
		t, err := s.transactionRepo.GetByID(ctx, event.ReferenceID)
		if err != nil {
			return nil, err
		}
		if t != nil {
			return t, nil
		}
	}
	for _, id := range []string{event.ChargeID, event.PixID} {
		if id == "" {
			continue
		}
		t, err := s.transactionRepo.GetByGatewayChargeID(ctx, id)
		if err != nil {
			return nil, err
		}
		if t != nil {
			return t, nil
		}
	}
	return nil, nil
}
