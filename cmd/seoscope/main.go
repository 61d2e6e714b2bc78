// Command seoscope analyses the pages ranking for a search keyword, builds an
// article brief from the analysis and drafts the article with an LLM.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit codes: 2 for bad input or
// configuration, 1 for everything else.
func exitCode(err error) int {
	if errors.Is(err, internalerr.ErrInvalidInput) || errors.Is(err, internalerr.ErrInvalidConfig) {
		return 2
	}
	return 1
}
