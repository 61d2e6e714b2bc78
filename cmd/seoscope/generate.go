package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/seoscope/internal/logging"
	"github.com/cognicore/seoscope/internal/serp"
	"github.com/cognicore/seoscope/pkg/seoscope"
	"github.com/cognicore/seoscope/pkg/seoscope/article"
	"github.com/cognicore/seoscope/pkg/seoscope/generate"
	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
	"github.com/cognicore/seoscope/pkg/seoscope/prompt"
)

func newGenerateCommand(a *app) *cobra.Command {
	var keyword, resultsPath string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fetch, analyse and draft an article for a keyword",
		Long: `generate runs the whole article job: it fetches the pages listed in the
search results, analyses them, builds the article brief, asks the configured
LLM backend for the article and stores it as a draft.`,
		Example: `  SEOSCOPE_GENERATOR_BACKEND=gemini seoscope generate --results serp.json --db seoscope.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if resultsPath == "" {
				return fmt.Errorf("%w: --results is required", internalerr.ErrInvalidInput)
			}
			ctx := cmd.Context()

			results, err := a.readResults(cmd, resultsPath)
			if err != nil {
				return err
			}
			if keyword == "" {
				keyword = serp.Keyword(results)
			}

			gen, err := generate.New(a.settings.Generator)
			if err != nil {
				return err
			}
			builder, err := prompt.Load(a.settings.PromptTemplate)
			if err != nil {
				return err
			}
			st, err := a.openStore(ctx, true)
			if err != nil {
				return err
			}
			defer closeStore(a.log, st)
			engine, err := a.newEngine(st)
			if err != nil {
				return err
			}

			job := &article.Job{
				Fetcher:   a.newFetcher(),
				Analyzer:  engine,
				Prompt:    builder,
				Generator: gen,
				Store:     st,
				Logger:    a.log,
			}
			art, err := job.Run(ctx, article.Request{Keyword: keyword, URLs: serp.URLs(results)})
			if err != nil {
				a.log.Error("article job failed",
					logging.String("step", article.FailedStep(err)),
					logging.Error(err))
				return err
			}
			return seoscope.Encode(cmd.OutOrStdout(), art)
		},
	}

	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "target keyword (default: the keyword of the first search result)")
	cmd.Flags().StringVar(&resultsPath, "results", "", `search results JSON or JSONL; "-" reads stdin`)
	return cmd
}
