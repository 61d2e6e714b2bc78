// Package serp reads search-result lists and pre-fetched page dumps.
package serp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cognicore/seoscope/internal/logging"
	"github.com/cognicore/seoscope/pkg/seoscope/ingest"
)

// DefaultKeyword is the target keyword when a result list is empty.
const DefaultKeyword = "default"

// Result is one organic search result.
type Result struct {
	Keyword string `json:"Keyword"`
	Rank    int    `json:"Rank"`
	Title   string `json:"Title"`
	URL     string `json:"URL"`
}

// Keyword returns the keyword the results were collected for.
func Keyword(results []Result) string {
	if len(results) == 0 {
		return DefaultKeyword
	}
	return results[0].Keyword
}

// URLs returns the result URLs in rank order of the list.
func URLs(results []Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		if strings.TrimSpace(r.URL) == "" {
			continue
		}
		out = append(out, r.URL)
	}
	return out
}

// ParseResults decodes either a JSON array of results or one result per
// line. Lines before the array that are not JSON are ignored, as are
// malformed JSONL lines, which are logged.
func ParseResults(r io.Reader, log logging.Logger) ([]Result, error) {
	if log == nil {
		log = logging.NewNop()
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if start := arrayStart(data); start >= 0 {
		results := []Result{}
		if err := json.Unmarshal(data[start:], &results); err != nil {
			return nil, fmt.Errorf("decode search results: %w", err)
		}
		return results, nil
	}

	results := []Result{}
	err = eachLine(data, func(n int, line []byte) {
		var res Result
		if err := json.Unmarshal(line, &res); err != nil {
			log.Warn("skipping malformed search result", logging.Int("line", n), logging.Error(err))
			return
		}
		results = append(results, res)
	})
	return results, err
}

// LoadResults reads a search-results file.
func LoadResults(path string, log logging.Logger) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()
	return ParseResults(f, log)
}

type pageRecord struct {
	URL      string   `json:"url"`
	Text     string   `json:"text"`
	BodyText string   `json:"bodyText"`
	Headings []string `json:"headings"`
}

// LoadPages loads pre-fetched pages from a JSONL file with one
// {"url", "text", "headings"} object per line. Malformed lines are skipped
// with a warning.
func LoadPages(path string, log logging.Logger) ([]ingest.Page, error) {
	if log == nil {
		log = logging.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	pages := []ingest.Page{}
	lines := 0
	err = eachLine(data, func(n int, line []byte) {
		lines++
		var rec pageRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			log.Warn("skipping malformed page", logging.String("path", path), logging.Int("line", n), logging.Error(err))
			return
		}
		body := rec.Text
		if body == "" {
			body = rec.BodyText
		}
		headings := rec.Headings
		if headings == nil {
			headings = []string{}
		}
		pages = append(pages, ingest.Page{URL: rec.URL, BodyText: body, Headings: headings})
	})
	if err != nil {
		return nil, err
	}

	if lines > 0 && len(pages) == 0 {
		return nil, fmt.Errorf("no valid pages found in %s", path)
	}
	return pages, nil
}

// arrayStart returns the offset of the first line starting with '[', or -1
// when the first JSON-looking line is an object.
func arrayStart(data []byte) int {
	offset := 0
	for _, line := range bytes.SplitAfter(data, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		switch {
		case len(trimmed) == 0:
		case trimmed[0] == '[':
			return offset + bytes.IndexByte(line, '[')
		case trimmed[0] == '{':
			return -1
		}
		offset += len(line)
	}
	return -1
}

func eachLine(data []byte, fn func(n int, line []byte)) error {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	n := 0
	for sc.Scan() {
		n++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		fn(n, line)
	}
	return sc.Err()
}
