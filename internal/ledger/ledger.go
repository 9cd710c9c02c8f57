package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coachpilot/coachpilot-golang/internal/apierr"
	"github.com/coachpilot/coachpilot-golang/internal/logger"
	"github.com/coachpilot/coachpilot-golang/internal/models"
	"github.com/coachpilot/coachpilot-golang/internal/store"
)

// DefaultRefreshCredits is the balance a coach record is read as having when
// the credit field was never initialized. It is applied on the read path
// only and never written back implicitly. Nothing else in the codebase may
// re-derive this default.
const DefaultRefreshCredits = 3

// Balance is a coach's current credit count and stored insight.
type Balance struct {
	Credits int
	Insight string
}

// Ledger is the single point of truth for reading and updating a coach's
// AI-refresh credit balance and stored insight.
type Ledger struct {
	store store.Store
	log   *logger.Logger
}

func New(s store.Store, log *logger.Logger) *Ledger {
	return &Ledger{store: s, log: log.With("service", "ledger")}
}

// LoadBalance reads the coach's credit balance and insight text.
func (l *Ledger) LoadBalance(ctx context.Context, coachID string) (Balance, error) {
	if strings.TrimSpace(coachID) == "" {
		return Balance{}, apierr.InvalidArgument("coachId is required")
	}
	doc, err := l.store.Get(ctx, store.Coaches, coachID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Balance{}, apierr.NotFound("coach not found")
		}
		return Balance{}, fmt.Errorf("load coach %s: %w", coachID, err)
	}
	return Balance{
		Credits: creditsFromDoc(doc),
		Insight: models.AsString(doc[models.FieldAIInsights]),
	}, nil
}

// CommitRefresh persists a freshly generated insight and charges one credit.
// The decrement is conditional and transactional: the balance is re-read
// inside the store transaction, so two concurrent refreshes can never spend
// the same credit. Returns the remaining balance after the charge.
//
// Insight, credit count and refresh timestamp land in one document-level
// write; no intermediate state is externally observable.
func (l *Ledger) CommitRefresh(ctx context.Context, coachID, newInsight string) (int, error) {
	if strings.TrimSpace(coachID) == "" {
		return 0, apierr.InvalidArgument("coachId is required")
	}
	var remaining int
	err := l.store.RunUpdate(ctx, store.Coaches, coachID, func(current map[string]interface{}) (map[string]interface{}, error) {
		credits := creditsFromDoc(current)
		if credits <= 0 {
			return nil, apierr.CreditsExhausted()
		}
		remaining = credits - 1
		return map[string]interface{}{
			models.FieldAIInsights:       newInsight,
			models.FieldAIRefreshCredits: remaining,
			models.FieldLastAIRefresh:    time.Now().UTC(),
		}, nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, apierr.NotFound("coach not found")
		}
		return 0, err
	}
	l.log.Info("insight refresh committed", "coachId", coachID, "creditsRemaining", remaining)
	return remaining, nil
}

// GrantCredits tops up a coach's balance by n (admin operation). The read
// default applies first, so granting to an uninitialized record starts from
// the default balance rather than zero. Returns the new balance.
func (l *Ledger) GrantCredits(ctx context.Context, coachID string, n int) (int, error) {
	if strings.TrimSpace(coachID) == "" {
		return 0, apierr.InvalidArgument("coachId is required")
	}
	if n <= 0 {
		return 0, apierr.InvalidArgument("credit grant must be positive")
	}
	var balance int
	err := l.store.RunUpdate(ctx, store.Coaches, coachID, func(current map[string]interface{}) (map[string]interface{}, error) {
		balance = creditsFromDoc(current) + n
		return map[string]interface{}{models.FieldAIRefreshCredits: balance}, nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, apierr.NotFound("coach not found")
		}
		return 0, err
	}
	l.log.Info("credits granted", "coachId", coachID, "granted", n, "balance", balance)
	return balance, nil
}

// creditsFromDoc reads the credit field, applying the uninitialized-field
// default. An explicit zero stays zero.
func creditsFromDoc(doc map[string]interface{}) int {
	v, ok := doc[models.FieldAIRefreshCredits]
	if !ok || v == nil {
		return DefaultRefreshCredits
	}
	return models.AsInt(v)
}
