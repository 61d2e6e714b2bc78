// Package seoscope analyses the pages ranking for a search keyword and
// produces SEO content statistics: length and structure averages, keyword
// density, sentiment, frequent terms and related-term suggestions from an
// embedding model trained on the pages themselves.
package seoscope

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cognicore/seoscope/internal/logging"
	"github.com/cognicore/seoscope/internal/metrics"
	"github.com/cognicore/seoscope/pkg/seoscope/analytics"
	"github.com/cognicore/seoscope/pkg/seoscope/embed"
	"github.com/cognicore/seoscope/pkg/seoscope/idgen"
	"github.com/cognicore/seoscope/pkg/seoscope/ingest"
	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
	"github.com/cognicore/seoscope/pkg/seoscope/rank"
	"github.com/cognicore/seoscope/pkg/seoscope/sentiment"
	"github.com/cognicore/seoscope/pkg/seoscope/store"
	"github.com/cognicore/seoscope/pkg/seoscope/suggest"
)

const (
	// TopWords is the size of the body vocabulary reported and used for
	// body suggestions.
	TopWords = 30
	// TopHeadingWords is the size of the heading vocabulary used for heading
	// suggestions.
	TopHeadingWords = 50
	// MaxSuggestions caps each suggestion list.
	MaxSuggestions = suggest.Limit
)

// Engine runs analyses. It holds only read-only collaborators, so one Engine
// may serve concurrent requests.
type Engine struct {
	tokenizer *ingest.Tokenizer
	scorer    sentiment.Scorer
	embedCfg  embed.Config
	store     store.Store
	detector  *ingest.LanguageDetector
	language  string
	log       logging.Logger
	ids       *idgen.Generator
	now       func() time.Time
}

// Options configures an Engine. Tokenizer is required.
type Options struct {
	Tokenizer *ingest.Tokenizer
	// Scorer scores page sentiment; nil leaves averageSentiment at 0.
	Scorer sentiment.Scorer
	// Embedding overrides the training hyperparameters; the zero value means
	// embed.DefaultConfig().
	Embedding embed.Config
	// Store, when set, receives every successful run.
	Store store.Store
	// Detector and ExpectedLanguage enable per-page language diagnostics.
	Detector         *ingest.LanguageDetector
	ExpectedLanguage string
	Logger           logging.Logger
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// New creates an Engine.
func New(opts Options) (*Engine, error) {
	if opts.Tokenizer == nil {
		return nil, fmt.Errorf("%w: tokenizer is required", internalerr.ErrInvalidConfig)
	}
	cfg := opts.Embedding
	if cfg == (embed.Config{}) {
		cfg = embed.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		tokenizer: opts.Tokenizer,
		scorer:    opts.Scorer,
		embedCfg:  cfg,
		store:     opts.Store,
		detector:  opts.Detector,
		language:  strings.ToLower(opts.ExpectedLanguage),
		log:       log,
		ids:       idgen.New(),
		now:       now,
	}, nil
}

// Request is one analysis input.
type Request struct {
	TargetKeyword string        `json:"targetKeyword"`
	Pages         []ingest.Page `json:"pages"`
}

// Result is the analysis record.
type Result struct {
	TargetKeyword        string   `json:"targetKeyword"`
	AverageWordCount     int      `json:"averageWordCount"`
	AverageHeadingLength int      `json:"averageHeadingLength"`
	AverageNumHeadings   float64  `json:"averageNumHeadings"`
	KeywordDensity       float64  `json:"keywordDensity"`
	AverageSentiment     float64  `json:"averageSentiment"`
	Top30Words           []string `json:"top30Words"`
	HeadingSuggestions   []string `json:"headingSuggestions"`
	BodySuggestions      []string `json:"bodySuggestions"`
}

// Report is a Result plus the bookkeeping of the run that produced it.
type Report struct {
	ID            string         `json:"id"`
	CreatedAt     time.Time      `json:"createdAt"`
	PagesTotal    int            `json:"pagesTotal"`
	PagesAnalyzed int            `json:"pagesAnalyzed"`
	Languages     map[string]int `json:"languages,omitempty"`
	Result        Result         `json:"result"`
}

// Analyze runs the pipeline and returns the result record.
func (e *Engine) Analyze(ctx context.Context, req Request) (Result, error) {
	rep, err := e.Run(ctx, req)
	if err != nil {
		return Result{}, err
	}
	return rep.Result, nil
}

// Run analyses req and, when the engine has a store, persists the run.
//
// Pages with empty body text are excluded from every aggregate. The target
// keyword is used verbatim, surrounding spaces included. A request with
// analysable pages but a blank target keyword is rejected with
// internalerr.ErrInvalidInput before any work is done. An empty page list is
// not an error; the result carries zero values.
func (e *Engine) Run(ctx context.Context, req Request) (Report, error) {
	keyword := req.TargetKeyword
	if strings.TrimSpace(keyword) == "" && hasBody(req.Pages) {
		metrics.AnalysesRun.WithLabelValues("invalid").Inc()
		return Report{}, fmt.Errorf("%w: targetKeyword is required", internalerr.ErrInvalidInput)
	}

	log := e.log.With(logging.String("keyword", keyword))
	start := e.now()

	corpus := ingest.BuildCorpus(e.tokenizer, req.Pages)
	analyzer := analytics.NewAnalyzer(keyword, e.scorer, log)
	var languages map[string]int
	for _, p := range req.Pages {
		if !analyzer.Process(p) {
			metrics.PagesSkipped.Inc()
			log.Debug("skipping page without body text", logging.String("url", p.URL))
			continue
		}
		metrics.PagesAnalyzed.Inc()
		if lang, ok := e.detect(log, p); ok {
			if languages == nil {
				languages = make(map[string]int)
			}
			languages[lang]++
		}
	}
	stats := analyzer.Snapshot()
	if stats.SentimentFailed > 0 {
		metrics.SentimentFailures.Add(float64(stats.SentimentFailed))
	}

	top := rank.Count(corpus.BodyTokens()).Top(TopWords)
	headingTop := rank.Count(corpus.Headings).Top(TopHeadingWords)

	headingSuggestions, bodySuggestions, err := e.suggestions(ctx, log, corpus, headingTop, top)
	if err != nil {
		metrics.AnalysesRun.WithLabelValues("error").Inc()
		return Report{}, err
	}

	rep := Report{
		ID:            e.ids.New(start),
		CreatedAt:     start,
		PagesTotal:    len(req.Pages),
		PagesAnalyzed: stats.Pages,
		Languages:     languages,
		Result:        assemble(keyword, stats.Summary(), top, headingSuggestions, bodySuggestions),
	}

	if e.store != nil {
		if err := e.save(ctx, rep); err != nil {
			metrics.AnalysesRun.WithLabelValues("error").Inc()
			return Report{}, err
		}
	}

	metrics.AnalysesRun.WithLabelValues("ok").Inc()
	log.Info("analysis complete",
		logging.String("id", rep.ID),
		logging.Int("pages", rep.PagesTotal),
		logging.Int("analyzed", rep.PagesAnalyzed),
		logging.Duration("elapsed", e.now().Sub(start)))
	return rep, nil
}

func hasBody(pages []ingest.Page) bool {
	for _, p := range pages {
		if !p.Empty() {
			return true
		}
	}
	return false
}

func (e *Engine) detect(log logging.Logger, p ingest.Page) (string, bool) {
	if e.detector == nil {
		return "", false
	}
	lang, ok := e.detector.Detect(p.BodyText)
	if !ok {
		return "", false
	}
	if e.language != "" && lang != e.language {
		metrics.LanguageMismatches.Inc()
		log.Warn("page language differs from expected",
			logging.String("url", p.URL),
			logging.String("detected", lang),
			logging.String("expected", e.language))
	}
	return lang, true
}

// suggestions trains a model on the corpus and collects nearest neighbours
// for the heading and body vocabularies. An empty corpus is not trained on.
func (e *Engine) suggestions(ctx context.Context, log logging.Logger, corpus ingest.Corpus, headingVocab, bodyVocab []string) ([]string, []string, error) {
	if corpus.Empty() {
		return []string{}, []string{}, nil
	}

	started := time.Now()
	model, err := embed.Train(ctx, corpus.Sequences, e.embedCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("train embeddings: %w", err)
	}
	elapsed := time.Since(started)
	metrics.TrainingDuration.Observe(elapsed.Seconds())
	log.Info("embedding model trained",
		logging.Int("sequences", len(corpus.Sequences)),
		logging.Int("vocabulary", model.Len()),
		logging.Duration("elapsed", elapsed))

	return suggest.Collect(model, headingVocab, MaxSuggestions),
		suggest.Collect(model, bodyVocab, MaxSuggestions),
		nil
}

func (e *Engine) save(ctx context.Context, rep Report) error {
	payload, err := MarshalResult(rep.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	err = e.store.SaveAnalysis(ctx, store.Analysis{
		ID:            rep.ID,
		TargetKeyword: rep.Result.TargetKeyword,
		CreatedAt:     rep.CreatedAt,
		PagesTotal:    rep.PagesTotal,
		PagesAnalyzed: rep.PagesAnalyzed,
		Languages:     rep.Languages,
		Result:        payload,
	})
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

// assemble merges the computed parts into a Result. Nil lists become empty
// so they encode as [] rather than null.
func assemble(keyword string, s analytics.Summary, top, headingSuggestions, bodySuggestions []string) Result {
	return Result{
		TargetKeyword:        keyword,
		AverageWordCount:     s.AverageWordCount,
		AverageHeadingLength: s.AverageHeadingLength,
		AverageNumHeadings:   s.AverageNumHeadings,
		KeywordDensity:       s.KeywordDensity,
		AverageSentiment:     s.AverageSentiment,
		Top30Words:           nonNil(truncate(top, TopWords)),
		HeadingSuggestions:   nonNil(truncate(headingSuggestions, MaxSuggestions)),
		BodySuggestions:      nonNil(truncate(bodySuggestions, MaxSuggestions)),
	}
}

func truncate(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Encode writes v as indented JSON with non-ASCII text and HTML characters
// left as they are.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DecodeResult reads a Result previously written by Encode.
func DecodeResult(r io.Reader) (Result, error) {
	var res Result
	dec := json.NewDecoder(r)
	if err := dec.Decode(&res); err != nil {
		return Result{}, fmt.Errorf("%w: decode result: %v", internalerr.ErrInvalidInput, err)
	}
	res.Top30Words = nonNil(res.Top30Words)
	res.HeadingSuggestions = nonNil(res.HeadingSuggestions)
	res.BodySuggestions = nonNil(res.BodySuggestions)
	return res, nil
}

// MarshalResult encodes res compactly, the form stored with each run.
func MarshalResult(res Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
