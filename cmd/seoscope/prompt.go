package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/seoscope/pkg/seoscope"
	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
	"github.com/cognicore/seoscope/pkg/seoscope/prompt"
)

func newPromptCommand(a *app) *cobra.Command {
	var input, id, template string

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the article brief for an analysis result",
		Example: `  seoscope analyze --results serp.json | seoscope prompt
  seoscope prompt --id 01J... --db seoscope.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.loadResult(cmd, input, id)
			if err != nil {
				return err
			}
			if template == "" {
				template = a.settings.PromptTemplate
			}
			builder, err := prompt.Load(template)
			if err != nil {
				return err
			}
			text, err := builder.Build(res)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", `analysis result JSON; "-" reads stdin`)
	cmd.Flags().StringVar(&id, "id", "", "stored analysis ID (needs --db)")
	cmd.Flags().StringVar(&template, "template", "", "prompt template file (default: built-in)")
	return cmd
}

// loadResult reads a result from the store when id is set, from input
// otherwise.
func (a *app) loadResult(cmd *cobra.Command, input, id string) (seoscope.Result, error) {
	if id == "" {
		r, done, err := openInput(cmd, input)
		if err != nil {
			return seoscope.Result{}, fmt.Errorf("open result: %w", err)
		}
		defer done()
		return seoscope.DecodeResult(r)
	}

	if a.settings.DB == "" {
		return seoscope.Result{}, fmt.Errorf("%w: --id needs --db", internalerr.ErrInvalidConfig)
	}
	st, err := a.openStore(cmd.Context(), false)
	if err != nil {
		return seoscope.Result{}, err
	}
	defer closeStore(a.log, st)

	stored, err := st.GetAnalysis(cmd.Context(), id)
	if err != nil {
		return seoscope.Result{}, err
	}
	return seoscope.DecodeResult(bytes.NewReader(stored.Result))
}
