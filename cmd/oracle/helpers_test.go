package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"

	"github.com/jsamuelsen/oracle/internal/adapters/decks"
	"github.com/jsamuelsen/oracle/internal/domain"
)

// scriptedRNG returns the queued values in order, then zeros.
type scriptedRNG struct {
	values []int
}

func (r *scriptedRNG) IntN(n int) int {
	if len(r.values) == 0 {
		return 0
	}

	v := r.values[0]
	r.values = r.values[1:]

	return v % n
}

// scriptDraw computes the random values that make domain.Draw produce want.
func scriptDraw(kind domain.DeckKind, want []domain.DrawnSymbol) (*scriptedRNG, error) {
	deck, err := decks.NewEmbeddedStore().Deck(context.Background(), kind)
	if err != nil {
		return nil, err
	}

	indices := make([]int, deck.Size())
	for i := range indices {
		indices[i] = i
	}

	values := make([]int, 0, 2*len(want))

	for i, symbol := range want {
		target := slices.Index(deck.Symbols, symbol.Name)
		if target < 0 {
			return nil, fmt.Errorf("%q is not in the %s deck", symbol.Name, kind)
		}

		pos := slices.Index(indices[i:], target)
		if pos < 0 {
			return nil, fmt.Errorf("%q drawn twice", symbol.Name)
		}

		values = append(values, pos)
		indices[i], indices[i+pos] = indices[i+pos], indices[i]
	}

	for _, symbol := range want {
		if symbol.Orientation == domain.Reversed {
			values = append(values, 1)
		} else {
			values = append(values, 0)
		}
	}

	return &scriptedRNG{values: values}, nil
}

// parseDraw reads "Fehu (Upright), Isa (Reversed)".
func parseDraw(s string) ([]domain.DrawnSymbol, error) {
	parts := strings.Split(s, ", ")
	drawn := make([]domain.DrawnSymbol, 0, len(parts))

	for _, part := range parts {
		name, rest, ok := strings.Cut(part, " (")
		if !ok || !strings.HasSuffix(rest, ")") {
			return nil, fmt.Errorf("cannot parse %q", part)
		}

		drawn = append(drawn, domain.DrawnSymbol{
			Name:        name,
			Orientation: domain.Orientation(strings.TrimSuffix(rest, ")")),
		})
	}

	return drawn, nil
}

// fakeGemini answers generateContent with a fixed text and records requests.
type fakeGemini struct {
	server *httptest.Server

	mu       sync.Mutex
	answer   string
	status   int
	contents []string
}

func newFakeGemini() *fakeGemini {
	f := &fakeGemini{status: http.StatusOK}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))

	return f
}

func (f *fakeGemini) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if strings.HasSuffix(r.URL.Path, ":generateContent") {
		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		if len(body.Contents) > 0 && len(body.Contents[0].Parts) > 0 {
			f.contents = append(f.contents, body.Contents[0].Parts[0].Text)
		}
	}

	if f.status != http.StatusOK {
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, `{"error":{"code":`+fmt.Sprint(f.status)+`,"message":"stub failure"}}`)

		return
	}

	if !strings.HasSuffix(r.URL.Path, ":generateContent") {
		_, _ = io.WriteString(w, `{"name":"models/test-model"}`)
		return
	}

	payload, _ := json.Marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{
				"role":  "model",
				"parts": []any{map[string]any{"text": f.answer}},
			},
		}},
	})
	_, _ = w.Write(payload)
}

func (f *fakeGemini) setAnswer(answer string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answer = answer
}

func (f *fakeGemini) setStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func (f *fakeGemini) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.contents)
}

func (f *fakeGemini) close() {
	f.server.Close()
}

// invocation runs the root command against in-memory output.
type invocation struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
	err    error
}

func invoke(ctx context.Context, rng domain.RNG, args ...string) *invocation {
	inv := &invocation{}

	c := newCLI(&inv.stdout, &inv.stderr)
	if rng != nil {
		c.newRNG = func(uint64, bool) domain.RNG { return rng }
	}

	cmd := newRootCmd(c)
	cmd.SetArgs(args)
	cmd.SetOut(&inv.stdout)
	cmd.SetErr(&inv.stderr)
	inv.err = cmd.ExecuteContext(ctx)

	return inv
}
