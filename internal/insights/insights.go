package insights

import (
	"context"
	"errors"
	"strings"

	"github.com/coachpilot/coachpilot-golang/internal/ai"
	"github.com/coachpilot/coachpilot-golang/internal/apierr"
	"github.com/coachpilot/coachpilot-golang/internal/ledger"
	"github.com/coachpilot/coachpilot-golang/internal/logger"
)

// RefreshResult is returned to the caller of a successful refresh.
type RefreshResult struct {
	Result  string `json:"result"`
	Credits int    `json:"credits"`
}

// Service enforces the "generation consumes one credit" rule: a refresh that
// fails before the commit step leaves the ledger byte-identical to its
// pre-call state.
type Service struct {
	ledger *ledger.Ledger
	gen    ai.Generator
	log    *logger.Logger
}

func NewService(l *ledger.Ledger, gen ai.Generator, log *logger.Logger) *Service {
	return &Service{ledger: l, gen: gen, log: log.With("service", "insights")}
}

// Refresh generates a new insight for the coach and charges one credit.
//
// Sequence: validate, load balance, gate on credits > 0, generate, commit.
// The zero-balance check happens twice: here before any generation is
// attempted, and again inside the ledger's commit transaction so concurrent
// refreshes cannot over-spend. The request context flows through all three
// external calls; a client abort before the commit aborts the commit.
func (s *Service) Refresh(ctx context.Context, coachID, prompt string) (RefreshResult, error) {
	if strings.TrimSpace(coachID) == "" {
		return RefreshResult{}, apierr.InvalidArgument("coachId is required")
	}

	bal, err := s.ledger.LoadBalance(ctx, coachID)
	if err != nil {
		return RefreshResult{}, err
	}
	if bal.Credits <= 0 {
		return RefreshResult{}, apierr.CreditsExhausted()
	}

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.log.Warn("insight generation failed", "coachId", coachID, "err", err)
		return RefreshResult{}, apierr.GenerationFailed(err)
	}

	remaining, err := s.ledger.CommitRefresh(ctx, coachID, text)
	if err != nil {
		// NotFound and CreditsExhausted from the commit transaction keep
		// their own kinds; anything else is a persistence failure. The
		// generation was spent computationally but the credit was never
		// charged, which is fine: the ledger is the source of truth.
		var ae *apierr.Error
		if errors.As(err, &ae) {
			return RefreshResult{}, err
		}
		s.log.Error("insight commit failed", "coachId", coachID, "err", err)
		return RefreshResult{}, apierr.PersistenceFailed(err)
	}

	return RefreshResult{Result: text, Credits: remaining}, nil
}
