// Package ports defines interfaces for the reading pipeline's collaborators.
// Ports are contracts that adapters implement, so the application layer
// depends on abstractions rather than on an SDK, a terminal or a data file.
//
// Port Design Principles:
//   - Context as first parameter on anything that may block
//   - Return domain types, never SDK response types
//   - Error returns use domain error types (ErrValidation, ErrUnavailable)
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/oracle/internal/domain"
)

// Prompt is a single request to the interpretation service.
type Prompt struct {
	// System is the fixed instruction block. It never changes at runtime.
	System string

	// Content is the one-line description of the draw.
	Content string
}

// Interpreter sends a prompt to a generative text service and returns its raw text.
//
// Implementations make exactly one outbound call per Interpret and never retry.
// Transport, authentication and quota failures are returned as domain.ErrUnavailable.
type Interpreter interface {
	Interpret(ctx context.Context, prompt Prompt) (string, error)
}

// DeckRegistry resolves a deck kind to its symbol list.
type DeckRegistry interface {
	// Deck returns the deck for kind.
	// Returns domain.ErrValidation if the kind is not registered.
	Deck(ctx context.Context, kind domain.DeckKind) (domain.Deck, error)
}

// Presenter writes a finished reading for the querent.
type Presenter interface {
	Present(ctx context.Context, reading domain.Reading) error
}

// ReadingRecorder observes the outcome of each reading.
// Implementations must not fail the reading.
type ReadingRecorder interface {
	// RecordInterpret records the latency of the service call.
	RecordInterpret(deck domain.DeckKind, elapsed time.Duration, err error)

	// RecordReading records the overall outcome of a reading; err is nil on success.
	RecordReading(deck domain.DeckKind, err error)
}
