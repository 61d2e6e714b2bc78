package rank

import "sort"

// Counter counts token occurrences and remembers first-seen order so that
// ties rank deterministically.
type Counter struct {
	counts map[string]int
	order  []string
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Count builds a counter over tokens.
func Count(tokens []string) *Counter {
	c := NewCounter()
	c.Add(tokens...)
	return c
}

// Add records each token once per occurrence.
func (c *Counter) Add(tokens ...string) {
	for _, tok := range tokens {
		if _, ok := c.counts[tok]; !ok {
			c.order = append(c.order, tok)
		}
		c.counts[tok]++
	}
}

// Get returns the occurrence count of tok.
func (c *Counter) Get(tok string) int {
	return c.counts[tok]
}

// Len returns the number of distinct tokens.
func (c *Counter) Len() int {
	return len(c.order)
}

// Entry is a token with its count.
type Entry struct {
	Token string
	Count int
}

// MostCommon returns up to k entries by descending count. Equal counts keep
// first-seen order. k <= 0 returns every entry.
func (c *Counter) MostCommon(k int) []Entry {
	entries := make([]Entry, len(c.order))
	for i, tok := range c.order {
		entries[i] = Entry{Token: tok, Count: c.counts[tok]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if k > 0 && len(entries) > k {
		entries = entries[:k]
	}
	return entries
}

// Top returns the tokens of MostCommon(k).
func (c *Counter) Top(k int) []string {
	entries := c.MostCommon(k)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Token
	}
	return out
}
