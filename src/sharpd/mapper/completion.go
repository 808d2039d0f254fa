package mapper

import (
	"github.com/uber/sharpd/src/sharpd/entity"
	"github.com/uber/sharpd/src/sharpd/gateway/omnisharp"
)

// CompletionEntryToCandidate maps one analysis-server completion to a Candidate.
func CompletionEntryToCandidate(e omnisharp.CompletionEntry) entity.Candidate {
	menu := e.DisplayText
	if menu == "" {
		menu = e.CompletionText
	}
	return entity.Candidate{
		InsertionText: e.CompletionText,
		MenuText:      menu,
		DetailedInfo:  e.Description,
		Kind:          e.Kind,
	}
}

// CompletionEntriesToCandidates maps completion payloads preserving order.
func CompletionEntriesToCandidates(entries []omnisharp.CompletionEntry) []entity.Candidate {
	candidates := make([]entity.Candidate, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, CompletionEntryToCandidate(e))
	}
	return candidates
}
