package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/seoscope/internal/logging"
	"github.com/cognicore/seoscope/internal/serp"
	"github.com/cognicore/seoscope/pkg/seoscope"
	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
)

func newAnalyzeCommand(a *app) *cobra.Command {
	var keyword, resultsPath, pagesPath string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyse the pages ranking for a keyword and print the result",
		Example: `  seoscope analyze --results serp.json
  scrape "SEO対策" | seoscope analyze --results -
  seoscope analyze --keyword "SEO対策" --pages pages.jsonl --db seoscope.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (resultsPath == "") == (pagesPath == "") {
				return fmt.Errorf("%w: exactly one of --results or --pages is required", internalerr.ErrInvalidInput)
			}
			ctx := cmd.Context()

			req, err := a.loadRequest(cmd, keyword, resultsPath, pagesPath)
			if err != nil {
				return err
			}

			st, err := a.openStore(ctx, false)
			if err != nil {
				return err
			}
			defer closeStore(a.log, st)

			engine, err := a.newEngine(st)
			if err != nil {
				return err
			}
			rep, err := engine.Run(ctx, req)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}
			if st != nil {
				a.log.Info("analysis stored", logging.String("id", rep.ID))
			}
			return seoscope.Encode(cmd.OutOrStdout(), rep.Result)
		},
	}

	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "target keyword (default: the keyword of the first search result)")
	cmd.Flags().StringVar(&resultsPath, "results", "", `search results JSON or JSONL; "-" reads stdin`)
	cmd.Flags().StringVar(&pagesPath, "pages", "", "pre-fetched pages JSONL")
	return cmd
}

// loadRequest builds the analysis request either from pre-fetched pages or
// by fetching every search result.
func (a *app) loadRequest(cmd *cobra.Command, keyword, resultsPath, pagesPath string) (seoscope.Request, error) {
	if pagesPath != "" {
		pages, err := serp.LoadPages(pagesPath, a.log)
		if err != nil {
			return seoscope.Request{}, fmt.Errorf("load pages: %w", err)
		}
		return seoscope.Request{TargetKeyword: keyword, Pages: pages}, nil
	}

	results, err := a.readResults(cmd, resultsPath)
	if err != nil {
		return seoscope.Request{}, err
	}
	if keyword == "" {
		keyword = serp.Keyword(results)
	}
	pages, err := a.newFetcher().FetchAll(cmd.Context(), serp.URLs(results))
	if err != nil {
		return seoscope.Request{}, fmt.Errorf("fetch pages: %w", err)
	}
	return seoscope.Request{TargetKeyword: keyword, Pages: pages}, nil
}

func (a *app) readResults(cmd *cobra.Command, path string) ([]serp.Result, error) {
	r, done, err := openInput(cmd, path)
	if err != nil {
		return nil, fmt.Errorf("open search results: %w", err)
	}
	defer done()
	results, err := serp.ParseResults(r, a.log)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
	}
	a.log.Info("loaded search results",
		logging.Int("results", len(results)),
		logging.String("keyword", serp.Keyword(results)))
	return results, nil
}
