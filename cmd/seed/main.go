// Command main runs the database seeder for the screams API.
package main

import (
	"fmt"
	"os"

	"screams/internal/config"
	"screams/internal/database"
	"screams/internal/seed"

	"github.com/spf13/cobra"
)

type seedOptions struct {
	seed.Options
	clean bool
}

func newRootCommand() *cobra.Command {
	opts := &seedOptions{Options: seed.DefaultOptions()}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo screams",
		Long: `Create users, screams, likes and comments through the application
services so counters and notifications match the generated data.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Users, "users", opts.Users, "number of users to create")
	cmd.Flags().IntVar(&opts.Screams, "screams", opts.Screams, "number of screams to create")
	cmd.Flags().IntVar(&opts.MaxLikes, "max-likes", opts.MaxLikes, "maximum likes per scream")
	cmd.Flags().IntVar(&opts.MaxComments, "max-comments", opts.MaxComments, "maximum comments per scream")
	cmd.Flags().Int64Var(&opts.RandSeed, "rand-seed", 0, "random seed for reproducible data (0 = random)")
	cmd.Flags().BoolVar(&opts.clean, "clean", true, "clear all tables before seeding")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *seedOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	s := seed.NewSeeder(db, cfg.DefaultUserImage)
	ctx := cmd.Context()

	if opts.clean {
		if err := s.ClearAll(ctx); err != nil {
			return fmt.Errorf("cleanup: %w", err)
		}
	}

	res, err := s.Run(ctx, opts.Options)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", res)
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
