package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dshills/canvasharness/pkg/apipanel"
	"github.com/spf13/cobra"
)

// NewOpsCommand lists the operation catalog
func NewOpsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the panel operations and when they can be submitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "OPERATION\tLABEL\tSUBMIT ENABLED WHEN")
			_, _ = fmt.Fprintln(w, "─────────\t─────\t───────────────────")
			for _, op := range apipanel.Operations() {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", op, op.Label(), op.Rule())
			}
			return w.Flush()
		},
	}
}
