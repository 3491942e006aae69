package app

import (
	"fmt"
	"strings"

	"github.com/jsamuelsen/oracle/internal/domain"
	"github.com/jsamuelsen/oracle/internal/ports"
)

// fence is a markdown code fence; it cannot appear inside a raw string.
const fence = "```"

// Instructions is the fixed system instruction sent with every reading.
const Instructions = `
Act as a mystical diviner who's an expert on interpreting Raider-Waite tarot and Elder Futhark runes.

Interpret readings based on the cards/runes provided. Do not make them up yourself.
List the meanings of each provided card/rune individually.
Interpret the whole set, considering only the relationships and synchronicities between the cards/runes, not their order.

The output should have three paragraphs:
1. List of individual meanings of each card/rune, each on its own separate line. Explicitly name cards or runes and mention if they're upright or reversed. 
2. A holistic interpretation of the set, no more than 240 characters.
3. Helpful advice for the querent, also no more than 240 characters.

Do not use markdown formatting. Do not number or name paragraphs.
Each paragraph should not exceed 240 characters. Each line should be no more than 80 characters.
Be concise but meaningful. Avoid banal advice, think outside the box.

Example of the input: 
    ` + fence + `
    Tarot: Three of Wands (upright), The Devil (upright), Ten of Swords (reversed)
    ` + fence + `
Example of the output:
    ` + fence + `
    Three of Wands (upright): Exploration, foresight, expansion
    The Devil (upright): Restriction, materialism, addiction
    Ten of Swords (reversed): Gradual recovery, resisting ruin

    A critical choice will determine whether you remain chained
    to destructive patterns, or break free into expansive horizons.

    Don't be blinded by immediate gratification; look towards
    long-term liberation. Shed old wounds, embrace new paths.
    ` + fence + `
`

// FormatContent renders the draw as the one-line request body, e.g.
// "Rune: [Fehu (Upright), Isa (Reversed)]".
func FormatContent(kind domain.DeckKind, drawn []domain.DrawnSymbol) string {
	names := make([]string, len(drawn))
	for i, s := range drawn {
		names[i] = s.String()
	}

	return fmt.Sprintf("%s: [%s]", kind.Label(), strings.Join(names, ", "))
}

// NewPrompt pairs the fixed instructions with the draw.
func NewPrompt(kind domain.DeckKind, drawn []domain.DrawnSymbol) ports.Prompt {
	return ports.Prompt{
		System:  Instructions,
		Content: FormatContent(kind, drawn),
	}
}
