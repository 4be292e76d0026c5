package crew

import "strings"

// Selector picks the delegation target for a requested role among the crew's
// agents. Implementations receive only candidates that are eligible: members
// of the crew, excluding the delegating agent and any agent already in the
// active delegation chain.
type Selector interface {
	Select(role string, candidates []*Agent) *Agent
}

// roleSimilaritySelector is the default Selector: exact role match first,
// then the highest token overlap between the requested role and each
// candidate's role and goal. Returns nil when nothing matches at all.
type roleSimilaritySelector struct{}

// NewRoleSimilaritySelector returns the default delegation selector.
func NewRoleSimilaritySelector() Selector {
	return roleSimilaritySelector{}
}

func (roleSimilaritySelector) Select(role string, candidates []*Agent) *Agent {
	if len(candidates) == 0 {
		return nil
	}
	for _, a := range candidates {
		if strings.EqualFold(a.Role(), role) {
			return a
		}
	}
	want := tokenize(role)
	if len(want) == 0 {
		return nil
	}
	var (
		best      *Agent
		bestScore int
	)
	for _, a := range candidates {
		have := tokenize(a.Role() + " " + a.Goal())
		score := 0
		for tok := range want {
			if _, ok := have[tok]; ok {
				score++
			}
		}
		if score > bestScore {
			best = a
			bestScore = score
		}
	}
	return best
}

func tokenize(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		tok = strings.Trim(tok, ".,;:!?()[]\"'")
		if tok == "" {
			continue
		}
		out[tok] = struct{}{}
	}
	return out
}
