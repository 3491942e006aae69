package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/oracle/internal/adapters/terminal"
	"github.com/jsamuelsen/oracle/internal/app"
	"github.com/jsamuelsen/oracle/internal/domain"
	"github.com/jsamuelsen/oracle/internal/platform/config"
)

const (
	defaultDeck  = string(domain.DeckTarot)
	defaultCount = 3
)

// cli holds the flags and the swappable parts of a command run.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	// newRNG returns the draw source; seeded reports whether --seed was given.
	newRNG func(seed uint64, seeded bool) domain.RNG

	debug     bool
	seed      uint64
	profile   string
	configDir string
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{
		stdout: stdout,
		stderr: stderr,
		newRNG: newRNG,
	}
}

// newRNG returns a PCG source for a given seed, or the runtime's auto-seeded source.
func newRNG(seed uint64, seeded bool) domain.RNG {
	if seeded {
		return rand.New(rand.NewPCG(seed, seed))
	}

	return globalRNG{}
}

// globalRNG draws from math/rand/v2's top-level generator.
type globalRNG struct{}

func (globalRNG) IntN(n int) int { return rand.IntN(n) }

func newRootCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle [deck] [count]",
		Short: "Draw tarot cards or runes and have them interpreted",
		Long: `oracle draws symbols from a deck, gives each an upright or reversed
orientation, and asks a generative text service to interpret the set.

Decks: tarot (78 cards), rune (24 Elder Futhark runes).

The provider credential is read from GEMINI_API_KEY (or OPENAI_API_KEY when
provider.name is openai), or from ORACLE_PROVIDER_API_KEY.`,
		Example: `  oracle
  oracle rune 2
  oracle tarot 5 --debug`,
		Args:          cobra.MaximumNArgs(2),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runReading,
	}

	flags := cmd.PersistentFlags()
	flags.BoolVar(&c.debug, "debug", false, "enable verbose diagnostic logging")
	flags.StringVar(&c.profile, "profile", os.Getenv("ORACLE_PROFILE"), "configuration profile to load from the config directory")
	flags.StringVar(&c.configDir, "config-dir", envOr("ORACLE_CONFIG_DIR", config.DefaultConfigDir), "directory holding base.yaml and profile files")

	cmd.Flags().Uint64Var(&c.seed, "seed", 0, "seed the draw for a reproducible reading")

	cmd.AddCommand(newDecksCmd(c), newCheckCmd(c))

	return cmd
}

// runReading draws, interprets and prints one reading.
func (c *cli) runReading(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := c.bootstrap(ctx, true)
	if err != nil {
		return err
	}
	defer env.close(ctx)

	req, err := parseReadingArgs(args)
	if err != nil {
		env.recorder.RecordReading("", err)
		return err
	}

	interpreter, _, err := env.newInterpreter(ctx)
	if err != nil {
		return err
	}

	svc := app.NewReadingService(app.ReadingServiceConfig{
		Decks:       env.decks,
		Interpreter: interpreter,
		Presenter:   terminal.NewPresenter(c.stdout),
		RNG:         c.newRNG(c.seed, cmd.Flags().Changed("seed")),
		Recorder:    env.recorder,
		Logger:      env.logger,
	})

	if _, err := svc.Read(ctx, req); err != nil {
		if step, ok := app.GetExecutionStep(err); ok {
			env.logger.Debug("reading failed", slog.String("step", string(step)), slog.Any("error", err))
		}

		return err
	}

	return nil
}

// parseReadingArgs applies the deck and count defaults.
func parseReadingArgs(args []string) (app.ReadingRequest, error) {
	req := app.ReadingRequest{Deck: defaultDeck, Count: defaultCount}

	if len(args) > 0 {
		req.Deck = args[0]
	}

	if len(args) > 1 {
		count, err := strconv.Atoi(args[1])
		if err != nil {
			return req, domain.NewValidationErrorWithValue("count",
				fmt.Sprintf("%q is not a whole number", args[1]), args[1])
		}

		req.Count = count
	}

	return req, nil
}

func envOr(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}

	return fallback
}
