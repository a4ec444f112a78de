package project

import (
	"sort"

	"irs-portal/internal/domain"
)

// ComputeProgress derives the completion state of a milestone set. Percent is
// completed-over-total rounded to the nearest integer. Current is the first
// incomplete milestone by sort order; a fully completed set has no current
// milestone. Gaps are allowed: completing milestone 3 before 2 leaves 2
// current. Input order does not matter; the set is sorted internally.
func ComputeProgress(milestones []domain.Milestone) domain.Progress {
	if len(milestones) == 0 {
		return domain.Progress{Percent: 0}
	}

	ordered := make([]domain.Milestone, len(milestones))
	copy(ordered, milestones)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortOrder < ordered[j].SortOrder
	})

	completed := 0
	var current *domain.Milestone
	for i := range ordered {
		if ordered[i].IsCompleted {
			completed++
		} else if current == nil {
			current = &ordered[i]
		}
	}

	return domain.Progress{
		Percent: (completed*100 + len(ordered)/2) / len(ordered),
		Current: current,
	}
}
