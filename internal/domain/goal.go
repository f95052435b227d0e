package domain

import (
	"math"
	"time"
)

// GoalStatus classifies reading pace against a configured goal.
type GoalStatus string

// Goal statuses.
const (
	GoalOverdue   GoalStatus = "overdue"
	GoalAhead     GoalStatus = "ahead"
	GoalOnTrack   GoalStatus = "on-track"
	GoalBehind    GoalStatus = "behind"
	GoalFarBehind GoalStatus = "far-behind"
)

// GoalInfo is the derived state of a reading goal at a point in time.
type GoalInfo struct {
	ElapsedDays              int        `json:"elapsed_days"`
	RemainingDays            int        `json:"remaining_days"`
	ExpectedPagesByYesterday int        `json:"expected_pages_by_yesterday"`
	PagesAhead               int        `json:"pages_ahead"`
	Status                   GoalStatus `json:"status"`
}

// ComputeGoal derives reading-pace status from page progress, a start date,
// and a day-count goal. Returns nil when any required input is absent or
// degenerate: "no goal configured" is meaningful domain information, not an
// error.
//
// Elapsed days is the ceiling of the wall-clock delta with a floor of 1, so
// the day a goal starts counts as day one. The expected position is measured
// against the end of the previous day: a reader is not behind at breakfast
// for pages planned for the evening.
func ComputeGoal(pageCount *int, currentPage int, start *time.Time, goalDays *int, now time.Time) *GoalInfo {
	if pageCount == nil || start == nil || goalDays == nil {
		return nil
	}
	if *pageCount <= 0 || *goalDays <= 0 {
		return nil
	}

	elapsed := int(math.Ceil(now.Sub(*start).Hours() / 24))
	if elapsed < 1 {
		elapsed = 1
	}

	remaining := *goalDays - elapsed
	if remaining < 0 {
		remaining = 0
	}

	quota := float64(*pageCount) / float64(*goalDays)
	expected := int(math.Floor(quota * float64(elapsed-1)))
	ahead := currentPage - expected

	var status GoalStatus
	switch {
	case currentPage >= *pageCount:
		// Finished; pace arithmetic no longer applies.
		status = GoalAhead
	case elapsed > *goalDays:
		status = GoalOverdue
	case float64(ahead) >= quota:
		status = GoalAhead
	case ahead >= 0:
		status = GoalOnTrack
	case float64(-ahead) > quota:
		status = GoalFarBehind
	default:
		status = GoalBehind
	}

	return &GoalInfo{
		ElapsedDays:              elapsed,
		RemainingDays:            remaining,
		ExpectedPagesByYesterday: expected,
		PagesAhead:               ahead,
		Status:                   status,
	}
}
