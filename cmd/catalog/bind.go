package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/light-bringer/procat-bind/internal/pkg/bind"
)

func newBindCmd() *cobra.Command {
	var (
		prefix    string
		separator string
	)

	cmd := &cobra.Command{
		Use:   "bind <json-object>",
		Short: "Preview the bind variables for a JSON object",
		Example: `  catalog bind '{"name":"Widget","price":9.99}'
  catalog bind --prefix item '{"name":"Widget","price":9.99}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value map[string]any
			if err := json.Unmarshal([]byte(args[0]), &value); err != nil {
				return fmt.Errorf("invalid JSON object: %w", err)
			}

			f := bind.NewFactory(bind.WithSeparator(separator))
			bindings, err := f.Bind(bind.Marked(value, bind.ParseMarker(prefix)))
			if err != nil {
				return err
			}

			for _, b := range bindings {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", b.Name, b.Value)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", bind.BareSentinel, "field name prefix")
	cmd.Flags().StringVar(&separator, "separator", bind.DefaultSeparator, "separator between prefix and field name")
	return cmd
}
