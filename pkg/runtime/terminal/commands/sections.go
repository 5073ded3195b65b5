package commands

import (
	"fmt"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
	"github.com/de-tools/weekly-pulse/pkg/services/analysis"
	"github.com/spf13/cobra"
)

// NewSectionsCmd lists the report sections and their period fields.
func NewSectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List the report sections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema := analysis.DefaultSchema()
			for _, section := range domain.AllSections() {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%-12s period_field=%s\n",
					section, schema.PeriodField(section))
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}
