package domain

import "fmt"

// RNG abstracts random number generation so draws can be reproduced in tests.
// *math/rand/v2.Rand satisfies it.
type RNG interface {
	// IntN returns a non-negative random int in [0, n).
	IntN(n int) int
}

// Draw picks count distinct symbols from deck without replacement and gives
// each one an independent, evenly weighted orientation.
// The result is in draw order.
func Draw(deck Deck, count int, rng RNG) ([]DrawnSymbol, error) {
	if !deck.Kind.Valid() {
		return nil, NewValidationErrorWithValue("deck", fmt.Sprintf("unknown deck %q", deck.Kind), deck.Kind)
	}

	if count < 1 {
		return nil, NewValidationErrorWithValue("count", "must be at least 1", count)
	}

	if count > deck.Size() {
		return nil, NewValidationErrorWithValue("count",
			fmt.Sprintf("cannot draw %d from a %s deck of %d", count, deck.Kind, deck.Size()), count)
	}

	// Partial Fisher-Yates: only the first count positions are settled.
	indices := make([]int, deck.Size())
	for i := range indices {
		indices[i] = i
	}

	for i := range count {
		j := i + rng.IntN(len(indices)-i)
		indices[i], indices[j] = indices[j], indices[i]
	}

	drawn := make([]DrawnSymbol, count)
	for i := range count {
		drawn[i] = DrawnSymbol{Name: deck.Symbols[indices[i]], Orientation: Upright}
	}

	for i := range drawn {
		if rng.IntN(2) == 1 {
			drawn[i].Orientation = Reversed
		}
	}

	return drawn, nil
}
