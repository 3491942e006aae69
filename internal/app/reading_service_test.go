package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/oracle/internal/adapters/decks"
	"github.com/jsamuelsen/oracle/internal/domain"
	"github.com/jsamuelsen/oracle/internal/mocks"
	"github.com/jsamuelsen/oracle/internal/ports"
)

const threeParagraphs = "Fehu (Upright): wealth that moves.\nIsa (Reversed): a thaw.\n\n" +
	"Stalled plans loosen as resources flow again.\n\n" +
	"Invest in what is melting free."

// scriptedRNG returns the queued values in order.
type scriptedRNG struct {
	values []int
}

func (r *scriptedRNG) IntN(n int) int {
	if len(r.values) == 0 {
		return 0
	}

	v := r.values[0]
	r.values = r.values[1:]

	return v % n
}

// fehuIsa draws Fehu upright then Isa reversed from the rune deck.
func fehuIsa() *scriptedRNG {
	return &scriptedRNG{values: []int{0, 9, 0, 1}}
}

// spyRecorder captures recorder calls.
type spyRecorder struct {
	mu         sync.Mutex
	interprets []error
	readings   []error
	decks      []domain.DeckKind
}

func (r *spyRecorder) RecordInterpret(_ domain.DeckKind, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interprets = append(r.interprets, err)
}

func (r *spyRecorder) RecordReading(deck domain.DeckKind, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readings = append(r.readings, err)
	r.decks = append(r.decks, deck)
}

type fixture struct {
	interpreter *mocks.MockInterpreter
	presenter   *mocks.MockPresenter
	recorder    *spyRecorder
	service     *ReadingService
}

func newFixture(t *testing.T, rng domain.RNG) *fixture {
	t.Helper()

	f := &fixture{
		interpreter: mocks.NewMockInterpreter(t),
		presenter:   mocks.NewMockPresenter(t),
		recorder:    &spyRecorder{},
	}

	f.service = NewReadingService(ReadingServiceConfig{
		Decks:       decks.NewEmbeddedStore(),
		Interpreter: f.interpreter,
		Presenter:   f.presenter,
		RNG:         rng,
		Recorder:    f.recorder,
		Logger:      discardLogger(),
		NewID:       func() string { return "reading-1" },
	})

	return f
}

func TestNewReadingService_PanicsWithoutDependencies(t *testing.T) {
	full := ReadingServiceConfig{
		Decks:       decks.NewEmbeddedStore(),
		Interpreter: mocks.NewMockInterpreter(t),
		Presenter:   mocks.NewMockPresenter(t),
		RNG:         fehuIsa(),
	}

	tests := []struct {
		name   string
		mutate func(*ReadingServiceConfig)
	}{
		{name: "decks", mutate: func(c *ReadingServiceConfig) { c.Decks = nil }},
		{name: "interpreter", mutate: func(c *ReadingServiceConfig) { c.Interpreter = nil }},
		{name: "presenter", mutate: func(c *ReadingServiceConfig) { c.Presenter = nil }},
		{name: "rng", mutate: func(c *ReadingServiceConfig) { c.RNG = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := full
			tt.mutate(&cfg)

			assert.Panics(t, func() { NewReadingService(cfg) })
		})
	}

	assert.NotPanics(t, func() { NewReadingService(full) })
}

func TestReadingService_Read_Success(t *testing.T) {
	f := newFixture(t, fehuIsa())

	f.interpreter.EXPECT().
		Interpret(mock.Anything, ports.Prompt{
			System:  Instructions,
			Content: "Rune: [Fehu (Upright), Isa (Reversed)]",
		}).
		Return(threeParagraphs, nil).
		Once()

	var presented domain.Reading
	f.presenter.EXPECT().
		Present(mock.Anything, mock.AnythingOfType("domain.Reading")).
		Run(func(_ context.Context, r domain.Reading) { presented = r }).
		Return(nil).
		Once()

	reading, err := f.service.Read(context.Background(), ReadingRequest{Deck: "Rune", Count: 2})

	require.NoError(t, err)
	assert.Equal(t, "reading-1", reading.ID)
	assert.Equal(t, domain.DeckRune, reading.Deck)
	assert.Equal(t, []domain.DrawnSymbol{
		{Name: "Fehu", Orientation: domain.Upright},
		{Name: "Isa", Orientation: domain.Reversed},
	}, reading.Draw)
	assert.Equal(t, "Fehu (Upright): wealth that moves.\nIsa (Reversed): a thaw.", reading.Interpretation.Meanings)
	assert.Equal(t, "Stalled plans loosen as resources flow again.", reading.Interpretation.Summary)
	assert.Equal(t, "Invest in what is melting free.", reading.Interpretation.Advice)
	assert.Equal(t, reading, presented)

	assert.Equal(t, []error{nil}, f.recorder.interprets)
	assert.Equal(t, []error{nil}, f.recorder.readings)
	assert.Equal(t, []domain.DeckKind{domain.DeckRune}, f.recorder.decks)
}

func TestReadingService_Read_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		req      ReadingRequest
		wantDeck domain.DeckKind
	}{
		{name: "zero count", req: ReadingRequest{Deck: "tarot", Count: 0}, wantDeck: domain.DeckTarot},
		{name: "negative count", req: ReadingRequest{Deck: "rune", Count: -2}, wantDeck: domain.DeckRune},
		{name: "more runes than the deck", req: ReadingRequest{Deck: "rune", Count: 25}, wantDeck: domain.DeckRune},
		{name: "more cards than the deck", req: ReadingRequest{Deck: "tarot", Count: 79}, wantDeck: domain.DeckTarot},
		{name: "unknown deck", req: ReadingRequest{Deck: "iching", Count: 3}, wantDeck: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No expectations: any call to the interpreter or presenter fails the test.
			f := newFixture(t, fehuIsa())

			_, err := f.service.Read(context.Background(), tt.req)

			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))

			step, ok := GetExecutionStep(err)
			require.True(t, ok)
			assert.Equal(t, StepValidate, step)

			assert.Empty(t, f.recorder.interprets)
			assert.Equal(t, []domain.DeckKind{tt.wantDeck}, f.recorder.decks)
		})
	}
}

func TestReadingService_Read_FullDeck(t *testing.T) {
	f := newFixture(t, &scriptedRNG{})

	f.interpreter.EXPECT().Interpret(mock.Anything, mock.Anything).Return(threeParagraphs, nil).Once()
	f.presenter.EXPECT().Present(mock.Anything, mock.Anything).Return(nil).Once()

	reading, err := f.service.Read(context.Background(), ReadingRequest{Deck: "rune", Count: 24})

	require.NoError(t, err)
	assert.Len(t, reading.Draw, 24)
}

func TestReadingService_Read_ServiceError(t *testing.T) {
	f := newFixture(t, fehuIsa())

	serviceErr := domain.NewUnavailableError("gemini", "rate limit exceeded: quota exhausted")
	f.interpreter.EXPECT().Interpret(mock.Anything, mock.Anything).Return("", serviceErr).Once()

	_, err := f.service.Read(context.Background(), ReadingRequest{Deck: "rune", Count: 2})

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))

	step, _ := GetExecutionStep(err)
	assert.Equal(t, StepPerform, step)
	assert.Equal(t, []error{serviceErr}, f.recorder.interprets)
	f.presenter.AssertNotCalled(t, "Present", mock.Anything, mock.Anything)
}

func TestReadingService_Read_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "two paragraphs", raw: "meanings\n\nsummary"},
		{name: "four paragraphs", raw: "a\n\nb\n\nc\n\nd"},
		{name: "one paragraph", raw: "everything on one block"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, fehuIsa())
			f.interpreter.EXPECT().Interpret(mock.Anything, mock.Anything).Return(tt.raw, nil).Once()

			_, err := f.service.Read(context.Background(), ReadingRequest{Deck: "rune", Count: 2})

			require.Error(t, err)
			assert.True(t, domain.IsMalformedResponse(err))

			step, _ := GetExecutionStep(err)
			assert.Equal(t, StepVerify, step)
			f.presenter.AssertNotCalled(t, "Present", mock.Anything, mock.Anything)
		})
	}
}

func TestReadingService_Read_PresentError(t *testing.T) {
	f := newFixture(t, fehuIsa())

	f.interpreter.EXPECT().Interpret(mock.Anything, mock.Anything).Return(threeParagraphs, nil).Once()
	f.presenter.EXPECT().Present(mock.Anything, mock.Anything).Return(errors.New("broken pipe")).Once()

	_, err := f.service.Read(context.Background(), ReadingRequest{Deck: "rune", Count: 2})

	require.Error(t, err)

	step, _ := GetExecutionStep(err)
	assert.Equal(t, StepRespond, step)
}

func TestReadingService_Read_DefaultsRecorder(t *testing.T) {
	interpreter := mocks.NewMockInterpreter(t)
	presenter := mocks.NewMockPresenter(t)

	interpreter.EXPECT().Interpret(mock.Anything, mock.Anything).Return(threeParagraphs, nil).Once()
	presenter.EXPECT().Present(mock.Anything, mock.Anything).Return(nil).Once()

	svc := NewReadingService(ReadingServiceConfig{
		Decks:       decks.NewEmbeddedStore(),
		Interpreter: interpreter,
		Presenter:   presenter,
		RNG:         fehuIsa(),
	})

	reading, err := svc.Read(context.Background(), ReadingRequest{Deck: "rune", Count: 2})

	require.NoError(t, err)
	assert.NotEmpty(t, reading.ID, "a random id is assigned")
}
