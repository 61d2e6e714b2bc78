// Package suggest turns a ranked vocabulary into related-term suggestions
// using an embedding space's nearest neighbours.
package suggest

import "github.com/cognicore/seoscope/pkg/seoscope/embed"

// Limit caps each suggestion list.
const Limit = 20

// Space is the part of an embedding model Collect needs.
type Space interface {
	Contains(token string) bool
	MostSimilar(token string, n int) ([]embed.Neighbor, error)
}

// Collect walks vocabulary in rank order and appends the single nearest
// neighbour of every token the space knows. Tokens outside the space, or
// without a neighbour, are skipped and do not use a slot. Results are not
// de-duplicated. Collection stops once limit entries are gathered; limit <= 0
// means Limit.
func Collect(space Space, vocabulary []string, limit int) []string {
	if limit <= 0 {
		limit = Limit
	}
	out := make([]string, 0, limit)
	if space == nil {
		return out
	}
	for _, tok := range vocabulary {
		if len(out) >= limit {
			break
		}
		if !space.Contains(tok) {
			continue
		}
		nn, err := space.MostSimilar(tok, 1)
		if err != nil || len(nn) == 0 {
			continue
		}
		out = append(out, nn[0].Token)
	}
	return out
}
