// Package prompt renders the article brief handed to the text generator.
package prompt

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/cognicore/seoscope/pkg/seoscope"
	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
)

//go:embed article.tmpl
var defaultTemplate string

var funcs = template.FuncMap{
	"join":    func(items []string) string { return strings.Join(items, ", ") },
	"decimal": decimal,
}

// decimal prints v in its shortest form but always with a fractional part,
// so 3 prints as 3.0 and 2.67 as 2.67.
func decimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsInf(v, 0) || math.IsNaN(v) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}

// Builder renders prompts from analysis results.
type Builder struct {
	tmpl *template.Template
}

// New parses a template. The template sees a seoscope.Result and may call
// join to list a slice separated by ", " and decimal to print a float with
// at least one fractional digit.
func New(text string) (*Builder, error) {
	tmpl, err := template.New("prompt").Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: prompt template: %v", internalerr.ErrInvalidConfig, err)
	}
	return &Builder{tmpl: tmpl}, nil
}

// Default returns the built-in Japanese article brief.
func Default() *Builder {
	b, err := New(defaultTemplate)
	if err != nil {
		panic(err)
	}
	return b
}

// Load reads a template file; an empty path yields Default.
func Load(path string) (*Builder, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt template: %w", err)
	}
	return New(string(data))
}

// Build renders the prompt for res.
func (b *Builder) Build(res seoscope.Result) (string, error) {
	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, res); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return sb.String(), nil
}
