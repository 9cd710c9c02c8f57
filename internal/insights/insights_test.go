package insights

import (
	"context"
	"errors"
	"testing"

	"github.com/coachpilot/coachpilot-golang/internal/apierr"
	"github.com/coachpilot/coachpilot-golang/internal/ledger"
	"github.com/coachpilot/coachpilot-golang/internal/logger"
	"github.com/coachpilot/coachpilot-golang/internal/models"
	"github.com/coachpilot/coachpilot-golang/internal/store"
)

// fakeGenerator records calls and returns a canned result or error.
type fakeGenerator struct {
	calls  int
	result string
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

func newTestService(t *testing.T, gen *fakeGenerator) (*Service, *store.MemoryStore) {
	t.Helper()
	ms := store.NewMemoryStore()
	l := ledger.New(ms, logger.NewNop())
	return NewService(l, gen, logger.NewNop()), ms
}

func seed(t *testing.T, ms *store.MemoryStore, id string, insight string, credits int) {
	t.Helper()
	err := ms.Set(context.Background(), store.Coaches, id, map[string]interface{}{
		models.FieldAIInsights:       insight,
		models.FieldAIRefreshCredits: credits,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestRefreshSuccess(t *testing.T) {
	gen := &fakeGenerator{result: "new insight"}
	svc, ms := newTestService(t, gen)
	seed(t, ms, "c1", "old", 1)

	res, err := svc.Refresh(context.Background(), "c1", "p")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res.Result != "new insight" {
		t.Fatalf("result = %q, want %q", res.Result, "new insight")
	}
	if res.Credits != 0 {
		t.Fatalf("credits = %d, want 0", res.Credits)
	}

	doc, _ := ms.Get(context.Background(), store.Coaches, "c1")
	if got := models.AsString(doc[models.FieldAIInsights]); got != "new insight" {
		t.Fatalf("stored insight = %q", got)
	}
	if got := models.AsInt(doc[models.FieldAIRefreshCredits]); got != 0 {
		t.Fatalf("stored credits = %d, want 0", got)
	}
}

func TestRefreshExhaustedNeverCallsGenerator(t *testing.T) {
	gen := &fakeGenerator{result: "should not happen"}
	svc, ms := newTestService(t, gen)
	seed(t, ms, "c2", "old", 0)

	_, err := svc.Refresh(context.Background(), "c2", "p")
	if apierr.KindOf(err) != apierr.KindCreditsExhausted {
		t.Fatalf("expected credits_exhausted, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("generator was called %d times on a zero balance", gen.calls)
	}

	doc, _ := ms.Get(context.Background(), store.Coaches, "c2")
	if got := models.AsString(doc[models.FieldAIInsights]); got != "old" {
		t.Fatalf("insight mutated on exhausted balance: %q", got)
	}
}

func TestRefreshGenerationFailureIsSideEffectFree(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model overloaded")}
	svc, ms := newTestService(t, gen)
	seed(t, ms, "c1", "old", 2)

	_, err := svc.Refresh(context.Background(), "c1", "p")
	if apierr.KindOf(err) != apierr.KindGenerationFailed {
		t.Fatalf("expected generation_failed, got %v", err)
	}

	// Ledger state must be byte-identical to its pre-call values.
	doc, _ := ms.Get(context.Background(), store.Coaches, "c1")
	if got := models.AsString(doc[models.FieldAIInsights]); got != "old" {
		t.Fatalf("insight mutated on generation failure: %q", got)
	}
	if got := models.AsInt(doc[models.FieldAIRefreshCredits]); got != 2 {
		t.Fatalf("credits mutated on generation failure: %d", got)
	}
}

func TestRefreshEmptyCoachID(t *testing.T) {
	gen := &fakeGenerator{result: "x"}
	svc, _ := newTestService(t, gen)

	_, err := svc.Refresh(context.Background(), "  ", "p")
	if apierr.KindOf(err) != apierr.KindInvalidArgument {
		t.Fatalf("expected invalid_argument, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("no collaborator call may happen on invalid input")
	}
}

func TestRefreshMissingCoach(t *testing.T) {
	gen := &fakeGenerator{result: "x"}
	svc, _ := newTestService(t, gen)

	_, err := svc.Refresh(context.Background(), "ghost", "p")
	if apierr.KindOf(err) != apierr.KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("generator called for a missing coach")
	}
}

func TestRefreshUsesUninitializedDefault(t *testing.T) {
	gen := &fakeGenerator{result: "fresh"}
	svc, ms := newTestService(t, gen)
	// No credit field at all: reads as the default balance.
	if err := ms.Set(context.Background(), store.Coaches, "c1", map[string]interface{}{}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := svc.Refresh(context.Background(), "c1", "p")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if want := ledger.DefaultRefreshCredits - 1; res.Credits != want {
		t.Fatalf("credits = %d, want %d", res.Credits, want)
	}
}
