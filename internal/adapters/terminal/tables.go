package terminal

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jsamuelsen/oracle/internal/domain"
	"github.com/jsamuelsen/oracle/internal/ports"
)

var (
	healthyColor   = lipgloss.Color("10")
	unhealthyColor = lipgloss.Color("9")
)

// WriteDecks prints the available decks and their sizes.
func (p *Presenter) WriteDecks(decks []domain.Deck) error {
	t := p.newTable("DECK", "SYMBOLS")
	for _, d := range decks {
		t.Row(string(d.Kind), strconv.Itoa(d.Size()))
	}

	return p.writeLine(t.Render())
}

// WriteHealth prints one row per check, sorted by name.
func (p *Presenter) WriteHealth(result *ports.HealthResult) error {
	healthy := p.renderer.NewStyle().Foreground(healthyColor)
	unhealthy := p.renderer.NewStyle().Foreground(unhealthyColor)

	t := p.newTable("CHECK", "STATUS", "DURATION", "MESSAGE")
	for _, name := range result.Names() {
		check := result.Checks[name]

		status := healthy.Render(string(check.Status))
		if check.Status != ports.HealthStatusHealthy {
			status = unhealthy.Render(string(check.Status))
		}

		t.Row(name, status, check.Duration.Round(time.Millisecond).String(), check.Message)
	}

	return p.writeLine(t.Render())
}

func (p *Presenter) newTable(headers ...string) *table.Table {
	cell := p.renderer.NewStyle().Padding(0, 1)
	header := cell.Bold(true)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.renderer.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}

			return cell
		})
}

func (p *Presenter) writeLine(s string) error {
	if _, err := io.WriteString(p.out, s+"\n"); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}
