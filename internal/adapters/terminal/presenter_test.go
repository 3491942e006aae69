package terminal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/oracle/internal/domain"
	"github.com/jsamuelsen/oracle/internal/ports"
)

func runeReading() domain.Reading {
	return domain.Reading{
		ID:   "r-1",
		Deck: domain.DeckRune,
		Draw: []domain.DrawnSymbol{
			{Name: "Fehu", Orientation: domain.Upright},
			{Name: "Isa", Orientation: domain.Reversed},
		},
		Interpretation: domain.Interpretation{
			Meanings: "Fehu (Upright): wealth in motion.\nIsa (Reversed): the ice breaks.",
			Summary:  "What was frozen begins to flow.",
			Advice:   "Let resources move.",
		},
	}
}

func TestFormatDraw(t *testing.T) {
	got := FormatDraw(runeReading().Draw)

	assert.Equal(t, "Your draw:\n\tFehu (Upright)\n\tIsa (Reversed)", got)
}

func TestPresenter_Present_Plain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf)

	require.NoError(t, p.Present(context.Background(), runeReading()))

	want := "\nYour draw:\n\tFehu (Upright)\n\tIsa (Reversed)\n\n" +
		"Fehu (Upright): wealth in motion.\nIsa (Reversed): the ice breaks.\n\n" +
		"What was frozen begins to flow.\n\n" +
		"Let resources move.\n"
	assert.Equal(t, want, buf.String())
}

func TestPresenter_Present_BlockOrder(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf)

	require.NoError(t, p.Present(context.Background(), runeReading()))

	out := buf.String()
	draw := bytes.Index([]byte(out), []byte("Your draw:"))
	meanings := bytes.Index([]byte(out), []byte("wealth in motion"))
	summary := bytes.Index([]byte(out), []byte("begins to flow"))
	advice := bytes.Index([]byte(out), []byte("Let resources move"))

	assert.Less(t, draw, meanings)
	assert.Less(t, meanings, summary)
	assert.Less(t, summary, advice)
}

func TestPresenter_Present_Colored(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf, WithColorProfile(termenv.ANSI256))

	require.NoError(t, p.Present(context.Background(), runeReading()))

	out := buf.String()
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "Fehu (Upright)")
	assert.Contains(t, out, "\t", "tabs are kept as tabs")

	plain := NewPresenter(&bytes.Buffer{}).Render(runeReading())
	assert.NotEqual(t, plain, p.Render(runeReading()))
}

func TestPresenter_Present_LinesAreNotPadded(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf)

	require.NoError(t, p.Present(context.Background(), runeReading()))

	assert.NotContains(t, buf.String(), " \n")
}

func TestPresenter_Present_EmptyDraw(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf)

	err := p.Present(context.Background(), domain.Reading{Deck: domain.DeckTarot})

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Zero(t, buf.Len())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestPresenter_Present_WriteError(t *testing.T) {
	p := NewPresenter(failingWriter{})

	err := p.Present(context.Background(), runeReading())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestPresenter_WriteDecks(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf)

	err := p.WriteDecks([]domain.Deck{
		{Kind: domain.DeckTarot, Symbols: make([]string, 78)},
		{Kind: domain.DeckRune, Symbols: make([]string, 24)},
	})

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "DECK")
	assert.Contains(t, out, "tarot")
	assert.Contains(t, out, "78")
	assert.Contains(t, out, "rune")
	assert.Contains(t, out, "24")
}

func TestPresenter_WriteHealth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf)

	err := p.WriteHealth(&ports.HealthResult{
		Status: ports.HealthStatusUnhealthy,
		Checks: map[string]*ports.CheckResult{
			"gemini": {Status: ports.HealthStatusUnhealthy, Message: "authentication rejected", Duration: 120 * time.Millisecond},
			"decks":  {Status: ports.HealthStatusHealthy},
		},
	})

	require.NoError(t, err)
	out := buf.String()
	assert.Less(t, strings.Index(out, "decks"), strings.Index(out, "gemini"), "rows are sorted")
	assert.Contains(t, out, "authentication rejected")
	assert.Contains(t, out, "120ms")
	assert.Contains(t, out, "unhealthy")
}
