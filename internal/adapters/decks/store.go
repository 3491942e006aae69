// Package decks provides the deck registry backed by YAML files embedded in the binary.
package decks

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/oracle/internal/domain"
	"github.com/jsamuelsen/oracle/internal/ports"
)

//go:embed data/*.yaml
var deckFS embed.FS

// files maps deck kinds to their YAML filenames inside data/.
var files = map[domain.DeckKind]string{
	domain.DeckTarot: "data/tarot.yaml",
	domain.DeckRune:  "data/rune.yaml",
}

// deckFile is the on-disk shape of a deck.
type deckFile struct {
	Kind    domain.DeckKind `yaml:"kind"`
	Symbols []string        `yaml:"symbols"`
}

// EmbeddedStore loads decks from the embedded YAML files on first use.
type EmbeddedStore struct {
	once  sync.Once
	decks map[domain.DeckKind]domain.Deck
	err   error
}

// Compile-time interface checks.
var (
	_ ports.DeckRegistry  = (*EmbeddedStore)(nil)
	_ ports.HealthChecker = (*EmbeddedStore)(nil)
)

// NewEmbeddedStore creates an unloaded store.
func NewEmbeddedStore() *EmbeddedStore {
	return &EmbeddedStore{}
}

func (s *EmbeddedStore) load() {
	s.decks = make(map[domain.DeckKind]domain.Deck, len(files))

	for kind, filename := range files {
		deck, err := parseDeck(kind, filename)
		if err != nil {
			s.err = err
			return
		}

		s.decks[kind] = deck
	}
}

func parseDeck(kind domain.DeckKind, filename string) (domain.Deck, error) {
	raw, err := deckFS.ReadFile(filename)
	if err != nil {
		return domain.Deck{}, fmt.Errorf("read embedded deck %s: %w", kind, err)
	}

	var f deckFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return domain.Deck{}, fmt.Errorf("parse embedded deck %s: %w", kind, err)
	}

	if f.Kind != kind {
		return domain.Deck{}, fmt.Errorf("embedded deck %s: file declares kind %q", kind, f.Kind)
	}

	if len(f.Symbols) == 0 {
		return domain.Deck{}, fmt.Errorf("embedded deck %s: no symbols", kind)
	}

	seen := make(map[string]struct{}, len(f.Symbols))
	for _, name := range f.Symbols {
		if _, dup := seen[name]; dup {
			return domain.Deck{}, fmt.Errorf("embedded deck %s: duplicate symbol %q", kind, name)
		}
		seen[name] = struct{}{}
	}

	return domain.Deck{Kind: kind, Symbols: f.Symbols}, nil
}

// Deck returns a copy of the deck for kind.
func (s *EmbeddedStore) Deck(_ context.Context, kind domain.DeckKind) (domain.Deck, error) {
	s.once.Do(s.load)
	if s.err != nil {
		return domain.Deck{}, s.err
	}

	deck, ok := s.decks[kind]
	if !ok {
		return domain.Deck{}, domain.NewValidationErrorWithValue("deck",
			fmt.Sprintf("unknown deck %q", kind), string(kind))
	}

	symbols := make([]string, len(deck.Symbols))
	copy(symbols, deck.Symbols)

	return domain.Deck{Kind: deck.Kind, Symbols: symbols}, nil
}

// Name implements ports.HealthChecker.
func (s *EmbeddedStore) Name() string {
	return "decks"
}

// Check verifies every embedded deck parses.
func (s *EmbeddedStore) Check(_ context.Context) error {
	s.once.Do(s.load)
	return s.err
}
