package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/seoscope/pkg/seoscope"
	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
	"github.com/cognicore/seoscope/pkg/seoscope/store"
)

func newHistoryCommand(a *app) *cobra.Command {
	var keyword string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored analyses, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.settings.DB == "" {
				return fmt.Errorf("%w: history needs --db", internalerr.ErrInvalidConfig)
			}
			st, err := a.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer closeStore(a.log, st)

			list, err := st.ListAnalyses(cmd.Context(), keyword, limit)
			if err != nil {
				return err
			}
			return seoscope.Encode(cmd.OutOrStdout(), list)
		},
	}

	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "only analyses for this keyword")
	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum number of analyses")
	return cmd
}
