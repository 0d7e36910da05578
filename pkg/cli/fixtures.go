package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dshills/canvasharness/pkg/fixtures"
	"github.com/spf13/cobra"
)

// NewFixturesCommand groups the fixture directory commands
func NewFixturesCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Inspect the fixtures directory",
	}
	cmd.PersistentFlags().StringVar(&dir, "fixtures", "", "Fixtures directory (default from config.yaml)")

	open := func(ctx context.Context) (*fixtures.Loader, error) {
		if dir == "" {
			dir = GlobalConfig.File.FixturesDir
		}
		loader, err := fixtures.NewLoader(dir)
		if err != nil {
			return nil, err
		}
		if err := loader.Initialize(ctx); err != nil {
			return nil, err
		}
		return loader, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list [kind]",
		Short: "List fixtures, optionally of one kind",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := fixtures.Kinds()
			if len(args) == 1 {
				kind, err := fixtures.ParseKind(args[0])
				if err != nil {
					return err
				}
				kinds = []fixtures.Kind{kind}
			}

			loader, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = loader.Dispose() }()

			// Kinds are listed concurrently and printed in order
			results := make([]<-chan fixtures.ListResult, len(kinds))
			for i, kind := range kinds {
				results[i] = loader.ListAsync(cmd.Context(), kind)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "KIND\tNAME\tTITLE\tSIZE")
			for _, ch := range results {
				res := <-ch
				if res.Err != nil {
					return res.Err
				}
				for _, item := range res.Listings {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", item.Kind, item.Name, item.Title, item.Size)
				}
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate every fixture against its schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = loader.Dispose() }()

			results, err := loader.ValidateAll(cmd.Context())
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✗ %s/%s: %v\n", r.Kind, r.Name, r.Err)
					continue
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s/%s\n", r.Kind, r.Name)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d fixtures failed validation", failed, len(results))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d fixtures valid\n", len(results))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "form <node-op>",
		Short: "Show which form fixture handles a node op",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = loader.Dispose() }()

			form, ok, err := loader.FormForNode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no form registered for node op %q", args[0])
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), form)
			return nil
		},
	})

	return cmd
}
