// Package store adapts the gorm models to the streak engine's Store.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streaklog/internal/db"
	"github.com/streaklog/internal/streak"
	"github.com/streaklog/internal/timestamp"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	dateLayout = "2006-01-02"
	// zoneSlack covers the widest gap between UTC and any local offset.
	zoneSlack = 14 * time.Hour
)

// GormStore implements streak.Store and streak.RangeStore.
type GormStore struct {
	db  *gorm.DB
	loc *time.Location
	log logrus.FieldLogger
}

var (
	_ streak.Store      = (*GormStore)(nil)
	_ streak.RangeStore = (*GormStore)(nil)
)

// New returns a store over gdb. Dates are interpreted in loc.
func New(gdb *gorm.DB, loc *time.Location, log logrus.FieldLogger) *GormStore {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &GormStore{db: gdb, loc: loc, log: log}
}

func (s *GormStore) ListWorkoutDefinitions(ctx context.Context, userID uint) ([]streak.WorkoutDefinition, error) {
	var workouts []db.Workout
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&workouts).Error; err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	defs := make([]streak.WorkoutDefinition, 0, len(workouts))
	for _, w := range workouts {
		defs = append(defs, streak.WorkoutDefinition{
			ID:          w.ID,
			UserID:      w.UserID,
			Weekday:     w.Weekday,
			MuscleGroup: w.MuscleGroup,
		})
	}
	return defs, nil
}

func (s *GormStore) ListCompletionLogs(ctx context.Context, userID uint) ([]streak.CompletionLog, error) {
	var rows []db.CompletionLog
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list completion logs: %w", err)
	}
	return s.normalizeLogs(rows), nil
}

// ListCompletionLogsBetween filters on the normalized unix column. The column
// reads zoneless values as UTC while s.loc may differ by up to zoneSlack, so
// the query is widened and rows are cut to [from, to) after parsing in s.loc.
// Rows whose raw timestamp could not be parsed never match.
func (s *GormStore) ListCompletionLogsBetween(ctx context.Context, userID uint, from, to time.Time) ([]streak.CompletionLog, error) {
	var rows []db.CompletionLog
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("completed_unix >= ? AND completed_unix < ?", from.Add(-zoneSlack).Unix(), to.Add(zoneSlack).Unix()).
		Order("completed_unix ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list completion logs between: %w", err)
	}

	logs := s.normalizeLogs(rows)
	kept := logs[:0]
	for _, entry := range logs {
		if entry.CompletedAt.Before(from) || !entry.CompletedAt.Before(to) {
			continue
		}
		kept = append(kept, entry)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].CompletedAt.Before(kept[j].CompletedAt)
	})
	return kept, nil
}

func (s *GormStore) normalizeLogs(rows []db.CompletionLog) []streak.CompletionLog {
	logs := make([]streak.CompletionLog, 0, len(rows))
	for _, row := range rows {
		completedAt, err := timestamp.Parse(row.CompletedAt, s.loc)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"log_id":  row.ID,
				"user_id": row.UserID,
			}).WithError(err).Warn("skipping completion log with malformed timestamp")
			continue
		}
		logs = append(logs, streak.CompletionLog{
			ID:            row.ID,
			UserID:        row.UserID,
			ExerciseTitle: row.ExerciseTitle,
			Sets:          row.Sets,
			Reps:          row.Reps,
			Weight:        row.Weight,
			CompletedAt:   completedAt.In(s.loc),
		})
	}
	return logs
}

// GetStreakState returns the zero state when the user has no row yet.
func (s *GormStore) GetStreakState(ctx context.Context, userID uint) (streak.State, error) {
	var row db.StreakState
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return streak.State{ScheduledDays: []int{}}, nil
	}
	if err != nil {
		return streak.State{}, fmt.Errorf("get streak state: %w", err)
	}

	state := streak.State{
		CurrentStreak: row.CurrentStreak,
		LongestStreak: row.LongestStreak,
		ScheduledDays: decodeDays(row.ScheduledDays),
		Version:       row.Version,
	}
	if row.LastCompletedDate != nil && *row.LastCompletedDate != "" {
		last, err := time.ParseInLocation(dateLayout, *row.LastCompletedDate, s.loc)
		if err != nil {
			s.log.WithField("user_id", userID).WithError(err).Warn("ignoring malformed last completed date")
		} else {
			state.LastCompletedDate = &last
		}
	}
	return state, nil
}

// WriteStreakState applies update only if the stored version still equals
// update.ExpectedVersion, otherwise it returns streak.ErrConflict.
func (s *GormStore) WriteStreakState(ctx context.Context, userID uint, update streak.StateUpdate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		values := map[string]interface{}{
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		}
		if update.CurrentStreak != nil {
			values["current_streak"] = *update.CurrentStreak
		}
		if update.LongestStreak != nil {
			values["longest_streak"] = *update.LongestStreak
		}
		if update.LastCompletedDate != nil {
			values["last_completed_date"] = update.LastCompletedDate.In(s.loc).Format(dateLayout)
		}

		result := tx.Model(&db.StreakState{}).
			Where("user_id = ? AND version = ?", userID, update.ExpectedVersion).
			Updates(values)
		if result.Error != nil {
			return fmt.Errorf("update streak state: %w", result.Error)
		}
		if result.RowsAffected == 1 {
			return nil
		}

		var count int64
		if err := tx.Model(&db.StreakState{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("count streak state: %w", err)
		}
		if count > 0 || update.ExpectedVersion != 0 {
			return streak.ErrConflict
		}

		row := db.StreakState{UserID: userID, Version: 1}
		if update.CurrentStreak != nil {
			row.CurrentStreak = *update.CurrentStreak
		}
		if update.LongestStreak != nil {
			row.LongestStreak = *update.LongestStreak
		}
		if update.LastCompletedDate != nil {
			last := update.LastCompletedDate.In(s.loc).Format(dateLayout)
			row.LastCompletedDate = &last
		}
		created := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if created.Error != nil {
			return fmt.Errorf("create streak state: %w", created.Error)
		}
		if created.RowsAffected == 0 {
			return streak.ErrConflict
		}
		return nil
	})
}

// WriteScheduledDays upserts the derived schedule without touching the
// version, so it never invalidates an in-flight streak update.
func (s *GormStore) WriteScheduledDays(ctx context.Context, userID uint, days []int) error {
	row := db.StreakState{UserID: userID, ScheduledDays: encodeDays(days)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"scheduled_days", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("write scheduled days: %w", err)
	}
	return nil
}

func encodeDays(days []int) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}

func decodeDays(raw string) []int {
	days := []int{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil || d < 0 || d > 6 {
			continue
		}
		days = append(days, d)
	}
	return days
}
