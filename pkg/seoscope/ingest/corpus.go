package ingest

// Corpus is the tokenized form of one analysis run's pages.
type Corpus struct {
	// Sequences holds one token sequence per non-empty page body, in page order.
	Sequences [][]string
	// Headings holds the tokens of every heading of every non-empty page.
	Headings []string
}

// BuildCorpus tokenizes each non-empty page body, and each heading of those
// pages on its own.
func BuildCorpus(t *Tokenizer, pages []Page) Corpus {
	var c Corpus
	for _, p := range pages {
		if p.Empty() {
			continue
		}
		c.Sequences = append(c.Sequences, t.Tokenize(p.BodyText))
		for _, h := range p.Headings {
			c.Headings = append(c.Headings, t.Tokenize(h)...)
		}
	}
	return c
}

// BodyTokens flattens the body sequences.
func (c Corpus) BodyTokens() []string {
	n := 0
	for _, seq := range c.Sequences {
		n += len(seq)
	}
	out := make([]string, 0, n)
	for _, seq := range c.Sequences {
		out = append(out, seq...)
	}
	return out
}

// Empty reports whether the corpus has no sequences to train on.
func (c Corpus) Empty() bool {
	return len(c.Sequences) == 0
}
