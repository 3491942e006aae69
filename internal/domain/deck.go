package domain

import (
	"fmt"
	"strings"
)

// DeckKind identifies one of the supported decks.
type DeckKind string

const (
	// DeckTarot is the 78-card Rider-Waite tarot.
	DeckTarot DeckKind = "tarot"

	// DeckRune is the 24-rune Elder Futhark.
	DeckRune DeckKind = "rune"
)

// DeckKinds returns the supported deck kinds in display order.
func DeckKinds() []DeckKind {
	return []DeckKind{DeckTarot, DeckRune}
}

// ParseDeckKind resolves a user-supplied deck token, ignoring case.
func ParseDeckKind(s string) (DeckKind, error) {
	kind := DeckKind(strings.ToLower(strings.TrimSpace(s)))
	if !kind.Valid() {
		return "", NewValidationErrorWithValue("deck",
			fmt.Sprintf("%q is not a deck, choose one of: %s", s, joinKinds(DeckKinds())), s)
	}

	return kind, nil
}

// Valid reports whether k is a supported deck kind.
func (k DeckKind) Valid() bool {
	switch k {
	case DeckTarot, DeckRune:
		return true
	default:
		return false
	}
}

// Label is the capitalized deck name used in prompts, e.g. "Tarot".
func (k DeckKind) Label() string {
	if k == "" {
		return ""
	}

	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Deck is an ordered, duplicate-free list of symbol names.
type Deck struct {
	Kind    DeckKind
	Symbols []string
}

// Size returns the number of symbols in the deck.
func (d Deck) Size() int {
	return len(d.Symbols)
}

// Orientation is the way a drawn symbol lies.
type Orientation string

const (
	Upright  Orientation = "Upright"
	Reversed Orientation = "Reversed"
)

// DrawnSymbol pairs a symbol with its orientation.
type DrawnSymbol struct {
	Name        string
	Orientation Orientation
}

// String renders the symbol as it appears in prompts and on screen: "Isa (Reversed)".
func (s DrawnSymbol) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Orientation)
}

func joinKinds(kinds []DeckKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}

	return strings.Join(names, ", ")
}
