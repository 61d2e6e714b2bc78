package analytics

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/seoscope/internal/logging"
	"github.com/cognicore/seoscope/pkg/seoscope/ingest"
	"github.com/cognicore/seoscope/pkg/seoscope/sentiment"
)

// Analyzer folds pages into whole-corpus content statistics.
//
// "Word" counts are character (rune) counts of the body text. Japanese has no
// spaces between words, so the averages and the keyword density are calibrated
// to characters.
type Analyzer struct {
	keyword string
	scorer  sentiment.Scorer
	log     logging.Logger

	pages              int
	totalWords         int
	totalHeadings      int
	totalHeadingLength int
	keywordCount       int

	sentimentSum    float64
	sentimentScored int
	sentimentFailed int
}

// NewAnalyzer creates an analyzer for keyword. A nil scorer skips sentiment.
func NewAnalyzer(keyword string, scorer sentiment.Scorer, log logging.Logger) *Analyzer {
	if log == nil {
		log = logging.NewNop()
	}
	return &Analyzer{
		keyword: strings.ToLower(keyword),
		scorer:  scorer,
		log:     log,
	}
}

// Process consumes one page. Pages with an empty body are skipped and
// reported as false.
func (a *Analyzer) Process(p ingest.Page) bool {
	if p.Empty() {
		return false
	}

	a.pages++
	a.totalWords += utf8.RuneCountInString(p.BodyText)
	a.totalHeadings += len(p.Headings)
	for _, h := range p.Headings {
		a.totalHeadingLength += utf8.RuneCountInString(h)
	}
	if a.keyword != "" {
		a.keywordCount += strings.Count(strings.ToLower(p.BodyText), a.keyword)
	}

	if a.scorer != nil {
		score, err := a.scorer.Score(p.BodyText)
		if err != nil {
			a.sentimentFailed++
			a.log.Warn("sentiment scoring failed; page excluded from average",
				logging.String("url", p.URL), logging.Error(err))
		} else {
			a.sentimentSum += score
			a.sentimentScored++
		}
	}
	return true
}

// Stats exposes the accumulated totals.
type Stats struct {
	Pages              int
	TotalWords         int
	TotalHeadings      int
	TotalHeadingLength int
	KeywordCount       int
	SentimentSum       float64
	SentimentScored    int
	SentimentFailed    int
}

// Snapshot returns the totals accumulated so far.
func (a *Analyzer) Snapshot() Stats {
	return Stats{
		Pages:              a.pages,
		TotalWords:         a.totalWords,
		TotalHeadings:      a.totalHeadings,
		TotalHeadingLength: a.totalHeadingLength,
		KeywordCount:       a.keywordCount,
		SentimentSum:       a.sentimentSum,
		SentimentScored:    a.sentimentScored,
		SentimentFailed:    a.sentimentFailed,
	}
}

// Summary holds the derived averages, already truncated or rounded.
type Summary struct {
	AverageWordCount     int
	AverageHeadingLength int
	AverageNumHeadings   float64
	KeywordDensity       float64
	AverageSentiment     float64
}

// Summary derives the averages. Every zero divisor yields a zero value.
func (s Stats) Summary() Summary {
	var out Summary
	if s.Pages > 0 {
		out.AverageWordCount = s.TotalWords / s.Pages
		out.AverageNumHeadings = Round2(float64(s.TotalHeadings) / float64(s.Pages))
	}
	if s.TotalHeadings > 0 {
		out.AverageHeadingLength = s.TotalHeadingLength / s.TotalHeadings
	}
	if s.TotalWords > 0 {
		out.KeywordDensity = Round2(float64(s.KeywordCount) / float64(s.TotalWords) * 100)
	}
	if s.SentimentScored > 0 {
		out.AverageSentiment = Round2(s.SentimentSum / float64(s.SentimentScored))
	}
	return out
}

// Round2 rounds to two decimals. The exact binary value of v is rounded,
// halves to even, so 2.675 (stored as 2.67499...) becomes 2.67.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
