package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lxllama/pkg/types"
)

func newModelsCmd(rf *rootFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List GGUF files in the local download cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, rf)
			if err != nil {
				return err
			}
			models, err := listCachedModels(cfg)
			if err != nil {
				return err
			}
			if asJSON {
				if models == nil {
					models = []types.Model{}
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(types.ModelsResponse{Models: models})
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSIZE")
			for _, m := range models {
				fmt.Fprintf(tw, "%s\t%s\n", m.ID, humanBytes(m.SizeBytes))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
