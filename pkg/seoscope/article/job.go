// Package article runs the end-to-end article job: fetch the ranking pages,
// analyse them, build the brief, generate the article and store it as a
// draft.
package article

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cognicore/seoscope/internal/logging"
	"github.com/cognicore/seoscope/internal/metrics"
	"github.com/cognicore/seoscope/pkg/seoscope"
	"github.com/cognicore/seoscope/pkg/seoscope/generate"
	"github.com/cognicore/seoscope/pkg/seoscope/idgen"
	"github.com/cognicore/seoscope/pkg/seoscope/ingest"
	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
	"github.com/cognicore/seoscope/pkg/seoscope/prompt"
	"github.com/cognicore/seoscope/pkg/seoscope/store"
)

// Job step names, used in errors and logs.
const (
	StepFetch    = "fetch"
	StepAnalyze  = "analyze"
	StepPrompt   = "prompt"
	StepGenerate = "generate"
	StepSave     = "save"
)

// PageFetcher retrieves pages; failed pages come back with an empty body.
type PageFetcher interface {
	FetchAll(ctx context.Context, urls []string) ([]ingest.Page, error)
}

// Analyzer runs one analysis.
type Analyzer interface {
	Run(ctx context.Context, req seoscope.Request) (seoscope.Report, error)
}

// StepError records which step of a job failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return e.Step + ": " + e.Err.Error() }
func (e *StepError) Unwrap() error { return e.Err }

// Job wires the collaborators of an article run.
type Job struct {
	Fetcher   PageFetcher
	Analyzer  Analyzer
	Prompt    *prompt.Builder
	Generator generate.Generator
	Store     store.Store
	Logger    logging.Logger

	once sync.Once
	ids  *idgen.Generator
	now  func() time.Time
}

// Request names the keyword and the URLs ranking for it.
type Request struct {
	Keyword string
	URLs    []string
}

// Run executes every step and returns the stored draft.
func (j *Job) Run(ctx context.Context, req Request) (store.Article, error) {
	if err := j.validate(req); err != nil {
		return store.Article{}, err
	}
	log := j.Logger
	if log == nil {
		log = logging.NewNop()
	}
	j.once.Do(func() {
		j.ids = idgen.New()
		if j.now == nil {
			j.now = time.Now
		}
	})
	log = log.With(logging.String("keyword", req.Keyword))

	log.Info("fetching pages", logging.Int("urls", len(req.URLs)))
	pages, err := j.Fetcher.FetchAll(ctx, req.URLs)
	if err != nil {
		return store.Article{}, j.fail(log, StepFetch, err)
	}

	log.Info("analysing pages", logging.Int("pages", len(pages)))
	rep, err := j.Analyzer.Run(ctx, seoscope.Request{TargetKeyword: req.Keyword, Pages: pages})
	if err != nil {
		return store.Article{}, j.fail(log, StepAnalyze, err)
	}

	log.Info("building prompt", logging.String("analysis", rep.ID))
	brief, err := j.Prompt.Build(rep.Result)
	if err != nil {
		return store.Article{}, j.fail(log, StepPrompt, err)
	}
	log.Debug("prompt built", logging.Int("chars", len([]rune(brief))))

	log.Info("generating article")
	content, err := j.Generator.Generate(ctx, brief)
	backend := backendName(j.Generator)
	if err != nil {
		metrics.ArticlesGenerated.WithLabelValues(backend, "error").Inc()
		return store.Article{}, j.fail(log, StepGenerate, err)
	}
	metrics.ArticlesGenerated.WithLabelValues(backend, "ok").Inc()

	now := j.now()
	art := store.Article{
		ID:         j.ids.New(now),
		AnalysisID: rep.ID,
		Keyword:    req.Keyword,
		Prompt:     brief,
		Content:    content,
		Status:     store.StatusDraft,
		CreatedAt:  now,
	}
	if err := j.Store.SaveArticle(ctx, art); err != nil {
		return store.Article{}, j.fail(log, StepSave, err)
	}

	log.Info("article saved as draft", logging.String("article", art.ID))
	return art, nil
}

func (j *Job) validate(req Request) error {
	switch {
	case j.Fetcher == nil, j.Analyzer == nil, j.Prompt == nil, j.Generator == nil, j.Store == nil:
		return fmt.Errorf("%w: article job is missing a collaborator", internalerr.ErrInvalidConfig)
	case strings.TrimSpace(req.Keyword) == "":
		return fmt.Errorf("%w: keyword is required", internalerr.ErrInvalidInput)
	}
	return nil
}

func (j *Job) fail(log logging.Logger, step string, err error) error {
	log.Error("article job failed", logging.String("step", step), logging.Error(err))
	return &StepError{Step: step, Err: err}
}

func backendName(g generate.Generator) string {
	if b, ok := g.(interface{ Backend() string }); ok {
		return b.Backend()
	}
	return "custom"
}

// FailedStep returns the step recorded in err, or "".
func FailedStep(err error) string {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}
