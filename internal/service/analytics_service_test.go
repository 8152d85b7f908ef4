package service

import (
	"context"
	"testing"
	"time"

	"github.com/streaklog/internal/db"
)

func TestAnalyticsOverview(t *testing.T) {
	gdb := setupServiceTestDB(t)
	ctx := context.Background()
	now := time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)

	ana := createApprovedUser(t, gdb, "ana")
	bruno := createApprovedUser(t, gdb, "bruno")
	if err := gdb.Create(&db.User{Username: "pending", Password: "x"}).Error; err != nil {
		t.Fatalf("failed to create pending user: %v", err)
	}

	for _, w := range []db.Workout{{UserID: ana.ID, Weekday: "monday"}, {UserID: bruno.ID, Weekday: "friday"}} {
		w := w
		if err := gdb.Create(&w).Error; err != nil {
			t.Fatalf("failed to create workout: %v", err)
		}
	}

	logs := []db.CompletionLog{
		{UserID: ana.ID, ExerciseTitle: "Bench", CompletedAt: "2025-10-09T10:00:00Z"},
		{UserID: ana.ID, ExerciseTitle: "Bench", CompletedAt: `{"seconds":1759932000}`},
		{UserID: bruno.ID, ExerciseTitle: "Squat", CompletedAt: "2025-09-01T10:00:00Z"},
	}
	if err := gdb.Create(&logs).Error; err != nil {
		t.Fatalf("failed to create logs: %v", err)
	}

	states := []db.StreakState{
		{UserID: ana.ID, CurrentStreak: 3, LongestStreak: 5, ScheduledDays: "1"},
		{UserID: bruno.ID, CurrentStreak: 0, LongestStreak: 9, ScheduledDays: "5"},
	}
	if err := gdb.Create(&states).Error; err != nil {
		t.Fatalf("failed to create streak states: %v", err)
	}

	overview, err := NewAnalyticsService(gdb).Overview(ctx, now, 5)
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}

	if overview.Users != 3 || overview.ApprovedUsers != 2 || overview.PendingUsers != 1 {
		t.Fatalf("unexpected user counts %+v", overview)
	}
	if overview.Workouts != 2 || overview.CompletionLogs != 3 || overview.RecentLogs != 2 {
		t.Fatalf("unexpected activity counts %+v", overview)
	}
	if overview.ActiveStreaks != 1 {
		t.Fatalf("expected 1 active streak, got %d", overview.ActiveStreaks)
	}
	if len(overview.TopStreaks) != 2 || overview.TopStreaks[0].Username != "bruno" || overview.TopStreaks[0].LongestStreak != 9 {
		t.Fatalf("unexpected top streaks %+v", overview.TopStreaks)
	}
}

func TestAnalyticsOverviewEmpty(t *testing.T) {
	overview, err := NewAnalyticsService(setupServiceTestDB(t)).Overview(context.Background(), time.Now(), 0)
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	if overview.Users != 0 || overview.TopStreaks == nil || len(overview.TopStreaks) != 0 {
		t.Fatalf("expected empty overview with non-nil leaderboard, got %+v", overview)
	}
}
