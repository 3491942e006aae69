// Package app contains the reading use case. It coordinates the domain
// (decks, draws, interpretations) with infrastructure through ports.
//
// What does NOT belong here:
//   - SDK or HTTP specifics (that's adapters)
//   - Terminal styling (that's the terminal adapter)
//   - Drawing and parsing rules (that's the domain layer)
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/oracle/internal/domain"
	"github.com/jsamuelsen/oracle/internal/platform/logging"
	"github.com/jsamuelsen/oracle/internal/ports"
)

const instrumentationName = "github.com/jsamuelsen/oracle/internal/app"

// ReadingRequest is what the querent asked for.
type ReadingRequest struct {
	// Deck is the deck token as typed, e.g. "Rune".
	Deck string

	// Count is the number of symbols to draw.
	Count int
}

// plan is a validated request bound to its deck.
type plan struct {
	deck  domain.Deck
	count int
}

// interpreted is the outcome of the perform step.
type interpreted struct {
	drawn []domain.DrawnSymbol
	raw   string
}

// ReadingService runs one reading: draw, interpret, parse, present.
type ReadingService struct {
	decks       ports.DeckRegistry
	interpreter ports.Interpreter
	presenter   ports.Presenter
	recorder    ports.ReadingRecorder
	rng         domain.RNG
	executor    *Executor
	tracer      trace.Tracer
	newID       func() string
}

// ReadingServiceConfig contains the dependencies of the reading service.
type ReadingServiceConfig struct {
	Decks       ports.DeckRegistry
	Interpreter ports.Interpreter
	Presenter   ports.Presenter
	RNG         domain.RNG

	// Recorder is optional.
	Recorder ports.ReadingRecorder

	// Logger is optional and defaults to slog.Default().
	Logger *slog.Logger

	// NewID is optional and defaults to random UUIDs.
	NewID func() string
}

// NewReadingService creates a reading service.
// It panics if a required dependency is missing.
func NewReadingService(cfg ReadingServiceConfig) *ReadingService {
	switch {
	case cfg.Decks == nil:
		panic("app: reading service requires a deck registry")
	case cfg.Interpreter == nil:
		panic("app: reading service requires an interpreter")
	case cfg.Presenter == nil:
		panic("app: reading service requires a presenter")
	case cfg.RNG == nil:
		panic("app: reading service requires a random source")
	}

	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}

	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &ReadingService{
		decks:       cfg.Decks,
		interpreter: cfg.Interpreter,
		presenter:   cfg.Presenter,
		recorder:    recorder,
		rng:         cfg.RNG,
		executor:    NewExecutor(cfg.Logger),
		tracer:      otel.Tracer(instrumentationName),
		newID:       newID,
	}
}

// Read performs a reading and presents it. On any error nothing is presented.
func (s *ReadingService) Read(ctx context.Context, req ReadingRequest) (domain.Reading, error) {
	id := s.newID()
	ctx = logging.WithReadingID(ctx, id)

	ctx, span := s.tracer.Start(ctx, "reading",
		trace.WithAttributes(
			attribute.String("reading.id", id),
			attribute.String("reading.deck", req.Deck),
			attribute.Int("reading.count", req.Count),
		),
	)
	defer span.End()

	if sc := span.SpanContext(); sc.HasTraceID() {
		ctx = logging.WithTraceID(ctx, sc.TraceID().String())
	}

	var kind domain.DeckKind

	op := Operation[plan, interpreted, domain.Reading, domain.Reading]{
		Name: "reading",
		Validate: func(ctx context.Context, _ plan) (plan, error) {
			p, err := s.validate(ctx, req)
			kind = p.deck.Kind

			return p, err
		},
		Perform: s.perform,
		Verify: func(_ context.Context, p plan, in interpreted) (domain.Reading, error) {
			parsed, err := domain.ParseInterpretation(in.raw)
			if err != nil {
				return domain.Reading{}, err
			}

			return domain.Reading{
				ID:             id,
				Deck:           p.deck.Kind,
				Draw:           in.drawn,
				Interpretation: parsed,
			}, nil
		},
		Respond: func(ctx context.Context, _ plan, reading domain.Reading) (domain.Reading, error) {
			if err := s.presenter.Present(ctx, reading); err != nil {
				return domain.Reading{}, err
			}

			return reading, nil
		},
	}

	reading, err := Execute(ctx, s.executor, op, plan{})
	s.recorder.RecordReading(kind, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return domain.Reading{}, err
	}

	return reading, nil
}

// validate resolves the deck and checks the count against its size.
func (s *ReadingService) validate(ctx context.Context, req ReadingRequest) (plan, error) {
	kind, err := domain.ParseDeckKind(req.Deck)
	if err != nil {
		return plan{}, err
	}

	deck, err := s.decks.Deck(ctx, kind)
	if err != nil {
		return plan{}, err
	}

	if req.Count < 1 {
		return plan{deck: deck}, domain.NewValidationErrorWithValue("count", "must be at least 1", req.Count)
	}

	if req.Count > deck.Size() {
		return plan{deck: deck}, domain.NewValidationErrorWithValue("count",
			fmt.Sprintf("cannot draw %d from a %s deck of %d", req.Count, kind, deck.Size()), req.Count)
	}

	return plan{deck: deck, count: req.Count}, nil
}

// perform draws the symbols and makes the single interpretation call.
func (s *ReadingService) perform(ctx context.Context, p plan) (interpreted, error) {
	logger := logging.FromContext(ctx)

	drawn, err := domain.Draw(p.deck, p.count, s.rng)
	if err != nil {
		return interpreted{}, err
	}

	prompt := NewPrompt(p.deck.Kind, drawn)
	logger.DebugContext(ctx, "draw prepared", slog.String("content", prompt.Content))

	start := time.Now()
	raw, err := s.interpreter.Interpret(ctx, prompt)
	elapsed := time.Since(start)
	s.recorder.RecordInterpret(p.deck.Kind, elapsed, err)

	if err != nil {
		return interpreted{}, err
	}

	logger.DebugContext(ctx, "interpretation received", slog.Duration("elapsed", elapsed))

	return interpreted{drawn: drawn, raw: raw}, nil
}

// nopRecorder discards observations.
type nopRecorder struct{}

func (nopRecorder) RecordInterpret(domain.DeckKind, time.Duration, error) {}

func (nopRecorder) RecordReading(domain.DeckKind, error) {}
