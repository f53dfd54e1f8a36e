package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/mood-quote-service/internal/adapters/storage"
	"github.com/jsamuelsen/mood-quote-service/internal/app/quotestate"
	"github.com/jsamuelsen/mood-quote-service/internal/domain"
	"github.com/jsamuelsen/mood-quote-service/internal/domain/palette"
	"github.com/jsamuelsen/mood-quote-service/internal/domain/sentiment"
	"github.com/jsamuelsen/mood-quote-service/internal/mocks"
)

type moodFixture struct {
	svc    *MoodService
	client *mocks.MockQuoteClient
	states *quotestate.Manager
	clock  *clockwork.FakeClock
}

func newMoodFixture(t *testing.T) *moodFixture {
	t.Helper()

	clock := clockwork.NewFakeClockAt(testNow)
	client := mocks.NewMockQuoteClient(t)

	quotes := NewQuoteService(QuoteServiceConfig{
		QuoteClient:  client,
		Logger:       discardLogger(),
		Clock:        clock,
		FetchTimeout: 50 * time.Millisecond,
		ProbeTimeout: 50 * time.Millisecond,
	})

	states := quotestate.NewManager(quotestate.Config{
		KV:     storage.NewMemoryStore(),
		Logger: discardLogger(),
		Clock:  clock,
	})

	analyzer := sentiment.NewAnalyzer(sentiment.MapLexicon{
		"happy":     3,
		"love":      3,
		"wonderful": 4,
		"sad":       -2,
		"terrible":  -3,
	})

	svc := NewMoodService(MoodServiceConfig{
		Quotes:   quotes,
		States:   states,
		Analyzer: analyzer,
		Logger:   discardLogger(),
		Clock:    clock,
	})

	return &moodFixture{svc: svc, client: client, states: states, clock: clock}
}

func quoteAt(id, text string, at time.Time) *domain.Quote {
	return &domain.Quote{ID: id, Text: text, Author: "Someone", FetchedAt: at}
}

func TestNewMoodService_PanicsWithoutDependencies(t *testing.T) {
	assert.Panics(t, func() { NewMoodService(MoodServiceConfig{}) })
}

func TestMoodService_Analyze(t *testing.T) {
	f := newMoodFixture(t)

	v := f.svc.Analyze("I love this wonderful day")

	assert.Equal(t, 7, v.Analysis.RawScore)
	assert.Equal(t, domain.MoodPositive, v.Analysis.Mood)
	assert.InDelta(t, 1.0, v.Analysis.Intensity, 1e-9)
	assert.Equal(t, []string{"love", "wonderful"}, v.Analysis.Words.Positive)
	assert.Equal(t, palette.ColorsFor(domain.MoodPositive, 1.0), v.Colors)

	empty := f.svc.Analyze("")
	assert.Equal(t, domain.MoodNeutral, empty.Analysis.Mood)
	assert.Zero(t, empty.Analysis.Intensity)
}

func TestMoodService_TodayFetchesOnceAndReusesSameDay(t *testing.T) {
	f := newMoodFixture(t)
	ctx := context.Background()

	f.client.EXPECT().GetRandomQuote(mock.Anything).
		Return(quoteAt("q1", "Happy days", testNow), nil).Once()

	first, err := f.svc.Today(ctx, "sess-1", false)
	require.NoError(t, err)
	assert.Equal(t, "q1", first.Quote.ID)
	assert.False(t, first.Reused)
	assert.Equal(t, domain.MoodPositive, first.Analysis.Mood)

	f.clock.Advance(3 * time.Hour)

	second, err := f.svc.Today(ctx, "sess-1", false)
	require.NoError(t, err)
	assert.Equal(t, "q1", second.Quote.ID)
	assert.True(t, second.Reused)
	assert.Equal(t, first.Analysis, second.Analysis)

	history, err := f.svc.History(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, history, 1, "reusing today's quote must not append history")
}

func TestMoodService_TodayRefetchesNextDayOrWhenForced(t *testing.T) {
	f := newMoodFixture(t)
	ctx := context.Background()

	f.client.EXPECT().GetRandomQuote(mock.Anything).Return(quoteAt("q1", "Happy days", testNow), nil).Once()
	f.client.EXPECT().GetRandomQuote(mock.Anything).Return(quoteAt("q2", "Sad news", testNow), nil).Once()
	f.client.EXPECT().GetRandomQuote(mock.Anything).Return(quoteAt("q3", "Terrible weather", testNow.Add(24*time.Hour)), nil).Once()

	_, err := f.svc.Today(ctx, "sess-1", false)
	require.NoError(t, err)

	forced, err := f.svc.Today(ctx, "sess-1", true)
	require.NoError(t, err)
	assert.Equal(t, "q2", forced.Quote.ID)

	f.clock.Advance(24 * time.Hour)

	next, err := f.svc.Today(ctx, "sess-1", false)
	require.NoError(t, err)
	assert.Equal(t, "q3", next.Quote.ID)
	assert.Equal(t, domain.MoodNegative, next.Analysis.Mood)

	history, err := f.svc.History(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"q3", "q2", "q1"}, []string{history[0].Quote.ID, history[1].Quote.ID, history[2].Quote.ID})

	current, ok, err := f.svc.Current(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "q3", current.Quote.ID)
}

func TestMoodService_TodayDoesNotReuseFallback(t *testing.T) {
	f := newMoodFixture(t)
	ctx := context.Background()

	f.client.EXPECT().GetRandomQuote(mock.Anything).
		Return(nil, domain.NewUnavailableError("quote-service", "down")).Once()
	f.client.EXPECT().GetRandomQuote(mock.Anything).
		Return(quoteAt("q1", "Happy again", testNow), nil).Once()

	first, err := f.svc.Today(ctx, "sess-1", false)
	require.NoError(t, err)
	assert.True(t, first.Quote.IsFallback())

	second, err := f.svc.Today(ctx, "sess-1", false)
	require.NoError(t, err)
	assert.Equal(t, "q1", second.Quote.ID)
}

func TestMoodService_TodayCollapsesConcurrentCalls(t *testing.T) {
	f := newMoodFixture(t)

	var calls atomic.Int32
	release := make(chan struct{})

	f.client.EXPECT().GetRandomQuote(mock.Anything).
		RunAndReturn(func(context.Context) (*domain.Quote, error) {
			calls.Add(1)
			<-release
			return quoteAt("q1", "Happy", testNow), nil
		}).Maybe()

	const callers = 5

	var wg sync.WaitGroup
	results := make([]QuoteView, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := f.svc.Today(context.Background(), "sess-1", true)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(callers))
	for _, v := range results {
		assert.Equal(t, "q1", v.Quote.ID)
	}
}

func TestMoodService_TodayAbandonedCallerStillArchives(t *testing.T) {
	f := newMoodFixture(t)
	release := make(chan struct{})

	f.client.EXPECT().GetRandomQuote(mock.Anything).
		RunAndReturn(func(context.Context) (*domain.Quote, error) {
			<-release
			return quoteAt("q1", "Happy", testNow), nil
		}).Once()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Today(ctx, "sess-1", false)
		done <- err
	}()

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	store := f.states.ForSession("sess-1")
	_, ok := store.CurrentQuote(context.Background())
	assert.False(t, ok, "nothing is written before the fetch settles")

	close(release)

	assert.Eventually(t, func() bool {
		q, ok := store.CurrentQuote(context.Background())
		return ok && q.ID == "q1"
	}, time.Second, 5*time.Millisecond)
}

func TestMoodService_ByCategory(t *testing.T) {
	f := newMoodFixture(t)
	ctx := context.Background()

	f.client.EXPECT().GetRandomQuoteByTag(mock.Anything, "wisdom").
		Return(quoteAt("q1", "Love wisely", testNow), nil).Once()

	v, err := f.svc.ByCategory(ctx, "sess-1", "  wisdom ")
	require.NoError(t, err)
	assert.Equal(t, "q1", v.Quote.ID)

	history, err := f.svc.History(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].ViewedAt.Equal(testNow))
}

func TestMoodService_ByCategoryValidation(t *testing.T) {
	f := newMoodFixture(t)
	ctx := context.Background()

	_, err := f.svc.ByCategory(ctx, "sess-1", " ")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	step, ok := GetExecutionStep(err)
	require.True(t, ok)
	assert.Equal(t, StepValidate, step)

	_, err = f.svc.Random(ctx, "bad:session")
	assert.True(t, domain.IsValidation(err))
}

func TestMoodService_RandomAbandonedSkipsArchive(t *testing.T) {
	f := newMoodFixture(t)

	f.client.EXPECT().GetRandomQuote(mock.Anything).RunAndReturn(blockUntilDone).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Random(ctx, "sess-1")
	require.ErrorIs(t, err, context.Canceled)

	step, _ := GetExecutionStep(err)
	assert.Equal(t, StepArchive, step)

	history, err := f.svc.History(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMoodService_CurrentEmpty(t *testing.T) {
	f := newMoodFixture(t)

	_, ok, err := f.svc.Current(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMoodService_Favorites(t *testing.T) {
	f := newMoodFixture(t)
	ctx := context.Background()

	q := domain.Quote{ID: "q1", Text: "What a wonderful world", Author: "Louis Armstrong"}

	v, added, err := f.svc.AddFavorite(ctx, "sess-1", q)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, domain.MoodPositive, v.Analysis.Mood)
	assert.Equal(t, testNow, v.Quote.FetchedAt)

	_, added, err = f.svc.AddFavorite(ctx, "sess-1", q)
	require.NoError(t, err)
	assert.False(t, added)

	favs, err := f.svc.Favorites(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, f.svc.Analyze(q.Text).Analysis, favs[0].Analysis)

	is, err := f.svc.IsFavorite(ctx, "sess-1", "q1")
	require.NoError(t, err)
	assert.True(t, is)

	require.NoError(t, f.svc.RemoveFavorite(ctx, "sess-1", "q1"))
	require.NoError(t, f.svc.RemoveFavorite(ctx, "sess-1", "q1"))

	favs, err = f.svc.Favorites(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestMoodService_ConcurrentAddFavorite(t *testing.T) {
	f := newMoodFixture(t)
	ctx := context.Background()
	q := domain.Quote{ID: "q1", Text: "What a wonderful world"}

	var (
		wg      sync.WaitGroup
		created atomic.Int32
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, added, err := f.svc.AddFavorite(ctx, "sess-1", q)
			if err == nil && added {
				created.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
}

func TestMoodService_AddFavoriteValidation(t *testing.T) {
	f := newMoodFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		session string
		quote   domain.Quote
	}{
		{"missing id", "sess-1", domain.Quote{Text: "x"}},
		{"blank text", "sess-1", domain.Quote{ID: "q1", Text: "  "}},
		{"bad session", "", domain.Quote{ID: "q1", Text: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.svc.AddFavorite(ctx, tt.session, tt.quote)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestMoodService_Available(t *testing.T) {
	f := newMoodFixture(t)
	f.client.EXPECT().Ping(mock.Anything).Return(nil).Once()

	assert.True(t, f.svc.Available(context.Background()))
}

func TestValidateSession(t *testing.T) {
	assert.NoError(t, ValidateSession("3f2b8c1e-7d4a-4b9e-a0c1-123456789abc"))
	assert.NoError(t, ValidateSession("sess_1"))
	assert.Error(t, ValidateSession(""))
	assert.Error(t, ValidateSession("a:b"))
	assert.Error(t, ValidateSession(string(make([]byte, 129))))
}

func TestValidateTag(t *testing.T) {
	assert.NoError(t, ValidateTag("famous-quotes"))
	assert.Error(t, ValidateTag(""))
	assert.Error(t, ValidateTag(string(make([]byte, MaxTagLength+1))))
}
