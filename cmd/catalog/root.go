package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/light-bringer/procat-bind/internal/config"
	"github.com/light-bringer/procat-bind/internal/services"
)

type serviceKey struct{}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Product catalog backed by Spanner or PostgreSQL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional env file with configuration")

	withServices := func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		logger, err := services.NewLogger(cfg)
		if err != nil {
			return err
		}
		opts, err := services.NewServiceOptions(cmd.Context(), cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		cmd.SetContext(context.WithValue(cmd.Context(), serviceKey{}, opts))
		return nil
	}

	for _, sub := range []*cobra.Command{
		newMigrateCmd(),
		newCreateCmd(),
		newGetCmd(),
		newListCmd(),
		newRepriceCmd(),
		newArchiveCmd(),
	} {
		sub.PreRunE = withServices
		sub.RunE = closingServices(sub.RunE)
		root.AddCommand(sub)
	}
	root.AddCommand(newBindCmd())

	return root
}

// closingServices closes the services after run, whether it fails or not.
// cobra skips PostRun hooks when RunE returns an error.
func closingServices(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer func() {
			if c, ok := cmd.Context().Value(serviceKey{}).(interface{ Close() }); ok {
				c.Close()
			}
		}()
		return run(cmd, args)
	}
}

func servicesFrom(cmd *cobra.Command) *services.ServiceOptions {
	return cmd.Context().Value(serviceKey{}).(*services.ServiceOptions)
}
