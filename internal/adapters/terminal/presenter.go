// Package terminal renders readings as colored text.
package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jsamuelsen/oracle/internal/domain"
	"github.com/jsamuelsen/oracle/internal/ports"
)

// Palette used for the four blocks of a reading.
var (
	drawColor    = lipgloss.Color("4")  // blue
	meaningColor = lipgloss.Color("12") // light blue
	summaryColor = lipgloss.Color("10") // light green
	adviceColor  = lipgloss.Color("9")  // light red
)

// blockSeparator is the blank line between rendered blocks.
const blockSeparator = "\n\n"

// Styles holds one style per block of a reading.
type Styles struct {
	Draw    lipgloss.Style
	Meaning lipgloss.Style
	Summary lipgloss.Style
	Advice  lipgloss.Style
}

// NewStyles builds the reading styles bound to renderer.
func NewStyles(renderer *lipgloss.Renderer) Styles {
	base := renderer.NewStyle().TabWidth(lipgloss.NoTabConversion)

	return Styles{
		Draw:    base.Foreground(drawColor).Bold(true),
		Meaning: base.Foreground(meaningColor),
		Summary: base.Foreground(summaryColor),
		Advice:  base.Foreground(adviceColor),
	}
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithColorProfile forces a color profile instead of detecting one from the writer.
func WithColorProfile(profile termenv.Profile) Option {
	return func(p *Presenter) {
		p.renderer.SetColorProfile(profile)
	}
}

// Presenter writes readings to a terminal.
type Presenter struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	styles   Styles
}

var _ ports.Presenter = (*Presenter)(nil)

// NewPresenter creates a presenter writing to out. Colors are dropped when
// out is not a terminal.
func NewPresenter(out io.Writer, opts ...Option) *Presenter {
	p := &Presenter{
		out:      out,
		renderer: lipgloss.NewRenderer(out),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.styles = NewStyles(p.renderer)

	return p
}

// Present writes the draw list followed by meanings, summary and advice.
// The reading is written in a single call so a failed reading prints nothing.
func (p *Presenter) Present(_ context.Context, reading domain.Reading) error {
	if len(reading.Draw) == 0 {
		return domain.NewValidationError("draw", "nothing to present")
	}

	text := "\n" + p.Render(reading) + "\n"

	if _, err := io.WriteString(p.out, text); err != nil {
		return fmt.Errorf("writing reading: %w", err)
	}

	return nil
}

// Render formats a reading as four styled blocks separated by blank lines.
func (p *Presenter) Render(reading domain.Reading) string {
	blocks := []string{
		paint(p.styles.Draw, FormatDraw(reading.Draw)),
		paint(p.styles.Meaning, reading.Interpretation.Meanings),
		paint(p.styles.Summary, reading.Interpretation.Summary),
		paint(p.styles.Advice, reading.Interpretation.Advice),
	}

	return strings.Join(blocks, blockSeparator)
}

// FormatDraw lists the drawn symbols one per indented line under a heading.
func FormatDraw(drawn []domain.DrawnSymbol) string {
	lines := make([]string, len(drawn))
	for i, s := range drawn {
		lines[i] = s.String()
	}

	return "Your draw:\n\t" + strings.Join(lines, "\n\t")
}

// paint styles text line by line. Rendering a multi-line string in one go
// would pad every line to the width of the longest.
func paint(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}
