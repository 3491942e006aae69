package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/oracle/internal/adapters/terminal"
	"github.com/jsamuelsen/oracle/internal/domain"
	"github.com/jsamuelsen/oracle/internal/ports"
)

// errUnhealthy is returned by the check command when any check fails.
var errUnhealthy = errors.New("one or more checks failed")

func newDecksCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "decks",
		Short: "List the available decks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			env, err := c.bootstrap(ctx, false)
			if err != nil {
				return err
			}
			defer env.close(ctx)

			kinds := domain.DeckKinds()
			list := make([]domain.Deck, 0, len(kinds))

			for _, kind := range kinds {
				deck, err := env.decks.Deck(ctx, kind)
				if err != nil {
					return fmt.Errorf("loading %s deck: %w", kind, err)
				}

				list = append(list, deck)
			}

			return terminal.NewPresenter(c.stdout).WriteDecks(list)
		},
	}
}

func newCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the decks, the provider credential and the metrics gateway",
		Long: `check probes every configured dependency concurrently: the embedded decks,
the interpretation provider (looks up the configured model with the configured
key) and, when metrics.push_url is set, the Pushgateway.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			env, err := c.bootstrap(ctx, true)
			if err != nil {
				return err
			}
			defer env.close(ctx)

			_, providerCheck, err := env.newInterpreter(ctx)
			if err != nil {
				return err
			}

			registry := ports.NewHealthRegistry(env.cfg.Client.CheckTimeout)

			checkers := []ports.HealthChecker{env.decks, providerCheck}
			if env.gateway != nil {
				checkers = append(checkers, env.gateway)
			}

			for _, checker := range checkers {
				if err := registry.Register(checker); err != nil {
					return fmt.Errorf("registering %s check: %w", checker.Name(), err)
				}
			}

			result := registry.CheckAll(ctx)

			if err := terminal.NewPresenter(c.stdout).WriteHealth(result); err != nil {
				return err
			}

			if result.Status != ports.HealthStatusHealthy {
				return errUnhealthy
			}

			return nil
		},
	}
}
