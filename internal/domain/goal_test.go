package domain

import (
	"testing"
	"time"
)

func intPtr(v int) *int             { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func TestComputeGoalNilInputs(t *testing.T) {
	now := time.Now()
	start := now.Add(-5 * 24 * time.Hour)

	tests := []struct {
		name      string
		pageCount *int
		start     *time.Time
		goalDays  *int
	}{
		{"no page count", nil, timePtr(start), intPtr(20)},
		{"no start", intPtr(300), nil, intPtr(20)},
		{"no goal days", intPtr(300), timePtr(start), nil},
		{"all absent", nil, nil, nil},
		{"zero pages", intPtr(0), timePtr(start), intPtr(20)},
		{"zero days", intPtr(300), timePtr(start), intPtr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeGoal(tt.pageCount, 100, tt.start, tt.goalDays, now); got != nil {
				t.Errorf("expected nil GoalInfo, got %+v", got)
			}
		})
	}
}

func TestComputeGoalPace(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		pageCount   int
		currentPage int
		daysAgo     int
		goalDays    int
		status      GoalStatus
	}{
		// 300 pages over 20 days is 15/day; by day 10 the reader should have
		// finished 135 pages by yesterday. 150 read = 15 ahead = one quota.
		{"halfway on pace", 300, 150, 10, 20, GoalAhead},
		{"exactly expected", 300, 135, 10, 20, GoalOnTrack},
		{"slightly behind", 300, 130, 10, 20, GoalBehind},
		{"far behind", 300, 50, 10, 20, GoalFarBehind},
		{"time expired pages remain", 300, 200, 25, 20, GoalOverdue},
		{"time expired but finished", 300, 300, 25, 20, GoalAhead},
		{"day one", 300, 0, 0, 20, GoalOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := now.Add(-time.Duration(tt.daysAgo) * 24 * time.Hour)
			got := ComputeGoal(intPtr(tt.pageCount), tt.currentPage, &start, intPtr(tt.goalDays), now)
			if got == nil {
				t.Fatal("expected GoalInfo, got nil")
			}
			if got.Status != tt.status {
				t.Errorf("status: got %s, want %s (info %+v)", got.Status, tt.status, got)
			}
		})
	}
}

func TestComputeGoalArithmetic(t *testing.T) {
	now := time.Now()
	start := now.Add(-10 * 24 * time.Hour)

	got := ComputeGoal(intPtr(300), 150, &start, intPtr(20), now)
	if got == nil {
		t.Fatal("expected GoalInfo, got nil")
	}
	if got.ElapsedDays != 10 {
		t.Errorf("ElapsedDays: got %d, want 10", got.ElapsedDays)
	}
	if got.RemainingDays != 10 {
		t.Errorf("RemainingDays: got %d, want 10", got.RemainingDays)
	}
	if got.ExpectedPagesByYesterday != 135 {
		t.Errorf("ExpectedPagesByYesterday: got %d, want 135", got.ExpectedPagesByYesterday)
	}
	if got.PagesAhead != 15 {
		t.Errorf("PagesAhead: got %d, want 15", got.PagesAhead)
	}
}

func TestComputeGoalElapsedFloor(t *testing.T) {
	now := time.Now()
	// A goal started an hour ago is on day one, never day zero.
	start := now.Add(-time.Hour)

	got := ComputeGoal(intPtr(100), 0, &start, intPtr(10), now)
	if got == nil {
		t.Fatal("expected GoalInfo, got nil")
	}
	if got.ElapsedDays != 1 {
		t.Errorf("ElapsedDays: got %d, want 1", got.ElapsedDays)
	}
	if got.ExpectedPagesByYesterday != 0 {
		t.Errorf("ExpectedPagesByYesterday: got %d, want 0", got.ExpectedPagesByYesterday)
	}
	if got.Status != GoalOnTrack {
		t.Errorf("Status: got %s, want %s", got.Status, GoalOnTrack)
	}
}
