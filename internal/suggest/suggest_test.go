package suggest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranaapp/trana/internal/badges"
	"github.com/tranaapp/trana/internal/constants"
	apperrors "github.com/tranaapp/trana/internal/errors"
	"github.com/tranaapp/trana/internal/events"
	"github.com/tranaapp/trana/internal/models"
	"github.com/tranaapp/trana/internal/state"
	"github.com/tranaapp/trana/internal/storage"
)

type fakeBackend struct {
	calls int
	err   error
}

func (f *fakeBackend) TestConnection(context.Context) (string, error) {
	return "API connection successful", f.err
}

func (f *fakeBackend) Suggestions(_ context.Context, ingredients string) ([]models.Suggestion, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []models.Suggestion{
		{Title: "Soup from " + ingredients, Description: "Simmer everything."},
		{Title: "Stir fry", Description: "High heat, quick."},
	}, nil
}

func setup(t *testing.T) (*Service, *fakeBackend, *badges.Evaluator, *state.Store) {
	t.Helper()
	st := state.New(storage.NewMemoryStore(), constants.DefaultStoragePrefix)
	bus := events.NewBus()
	ev := badges.NewEvaluator(st, bus)
	backend := &fakeBackend{}
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := New(st, backend, ev, bus, WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	return svc, backend, ev, st
}

func TestGenerate(t *testing.T) {
	svc, backend, _, _ := setup(t)

	got, unlocked, err := svc.Generate(context.Background(), "  rice, eggs ")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "ai_basic", unlocked[0].ID)
	assert.Equal(t, 1, backend.calls)

	h := svc.History()
	require.Len(t, h, 1)
	assert.Equal(t, "rice, eggs", h[0].Ingredients)
	assert.False(t, h[0].Saved())
	assert.Equal(t, 1, svc.Stats().SuggestionsGenerated)
}

func TestFetchThenRecord(t *testing.T) {
	svc, backend, ev, _ := setup(t)

	got, err := svc.Fetch(context.Background(), "leeks")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, backend.calls)
	assert.Empty(t, svc.History())
	assert.Equal(t, 0, svc.Stats().SuggestionsGenerated)

	unlocked, err := svc.Record(" leeks ", got)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "ai_basic", unlocked[0].ID)
	require.Len(t, svc.History(), 1)
	assert.Equal(t, "leeks", svc.History()[0].Ingredients)
	assert.Len(t, ev.Earned(), 1)
}

func TestGenerateRejectsEmptyInput(t *testing.T) {
	svc, backend, _, _ := setup(t)
	_, _, err := svc.Generate(context.Background(), "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, 0, backend.calls)
	assert.Empty(t, svc.History())
}

func TestGenerateBackendFailureRecordsNothing(t *testing.T) {
	svc, backend, ev, _ := setup(t)
	backend.err = &apperrors.ServiceError{Op: "suggestions", Err: errors.New("connection refused")}

	_, _, err := svc.Generate(context.Background(), "bread")
	require.Error(t, err)
	assert.True(t, apperrors.Retryable(err))
	assert.Empty(t, svc.History())
	assert.Equal(t, 0, svc.Stats().SuggestionsGenerated)
	assert.Empty(t, ev.Earned())
}

func TestThirdGenerationUnlocksExpert(t *testing.T) {
	svc, _, ev, _ := setup(t)
	for i := 0; i < 3; i++ {
		_, _, err := svc.Generate(context.Background(), fmt.Sprintf("batch %d", i))
		require.NoError(t, err)
	}
	var ids []string
	for _, b := range ev.Earned() {
		ids = append(ids, b.ID)
	}
	assert.ElementsMatch(t, []string{"ai_basic", "ai_intermediate"}, ids)
}

func TestHistoryCapBoundary(t *testing.T) {
	svc, _, _, st := setup(t)
	for i := 0; i < constants.SuggestionHistoryCap; i++ {
		_, _, err := svc.Generate(context.Background(), fmt.Sprintf("item %d", i))
		require.NoError(t, err)
	}
	h := svc.History()
	require.Len(t, h, constants.SuggestionHistoryCap)
	assert.Equal(t, "item 0", h[len(h)-1].Ingredients)

	_, _, err := svc.Generate(context.Background(), "newest")
	require.NoError(t, err)
	h = svc.History()
	require.Len(t, h, constants.SuggestionHistoryCap)
	assert.Equal(t, "newest", h[0].Ingredients)
	assert.Equal(t, "item 1", h[len(h)-1].Ingredients, "oldest entry is evicted")

	reloaded := New(st, nil, nil, nil)
	assert.Equal(t, len(h), len(reloaded.History()))
	assert.Equal(t, constants.SuggestionHistoryCap+1, reloaded.Stats().SuggestionsGenerated)
}

func TestSave(t *testing.T) {
	svc, _, _, _ := setup(t)
	_, _, err := svc.Generate(context.Background(), "carrots")
	require.NoError(t, err)

	require.NoError(t, svc.Save("carrots", models.Suggestion{Title: "Carrot cake", Description: "Bake it."}))
	h := svc.History()
	require.Len(t, h, 2)
	assert.True(t, h[0].Saved())
	assert.Equal(t, "Carrot cake", h[0].Title)
	assert.Equal(t, 1, svc.Stats().SuggestionsSaved)

	assert.ErrorIs(t, svc.Save("carrots", models.Suggestion{}), apperrors.ErrValidation)

	e, err := svc.Entry(1)
	require.NoError(t, err)
	assert.Len(t, e.Suggestions, 2)
	_, err = svc.Entry(7)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
