package domain

import "strings"

// ReadingParagraphs is the number of paragraphs an interpretation must have.
const ReadingParagraphs = 3

// paragraphSeparator is the blank line between paragraphs.
const paragraphSeparator = "\n\n"

// Interpretation is the service's answer split into its three parts.
type Interpretation struct {
	// Meanings has one line per drawn symbol.
	Meanings string

	// Summary is the holistic reading of the whole draw.
	Summary string

	// Advice is the closing guidance for the querent.
	Advice string
}

// Reading is the complete result of one invocation.
type Reading struct {
	ID             string
	Deck           DeckKind
	Draw           []DrawnSymbol
	Interpretation Interpretation
}

// ParseInterpretation splits raw service output into meanings, summary and advice.
//
// The split is strict: the text must contain exactly three blank-line separated
// paragraphs. Line endings are normalized and leading/trailing newlines of the
// whole text are ignored, so a trailing newline from the service does not count
// as an extra paragraph.
func ParseInterpretation(raw string) (Interpretation, error) {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.Trim(text, "\n")

	parts := strings.Split(text, paragraphSeparator)
	if text == "" {
		parts = nil
	}

	if len(parts) != ReadingParagraphs {
		return Interpretation{}, NewMalformedResponseError(len(parts), ReadingParagraphs)
	}

	return Interpretation{
		Meanings: strings.TrimRight(parts[0], "\n"),
		Summary:  strings.TrimRight(parts[1], "\n"),
		Advice:   strings.TrimRight(parts[2], "\n"),
	}, nil
}
