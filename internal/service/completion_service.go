package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/streaklog/internal/db"
	"github.com/streaklog/internal/streak"
	"github.com/streaklog/internal/timestamp"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCompletion 完成记录输入不合法
	ErrInvalidCompletion = errors.New("invalid completion input")
	// ErrInvalidRange from 晚于 to
	ErrInvalidRange = errors.New("invalid date range")
)

// CompletionReader 读取归一化后的完成记录，由 store.GormStore 实现
type CompletionReader interface {
	ListCompletionLogs(ctx context.Context, userID uint) ([]streak.CompletionLog, error)
	ListCompletionLogsBetween(ctx context.Context, userID uint, from, to time.Time) ([]streak.CompletionLog, error)
}

// CompletionService 记录动作完成情况并提供历史查询
type CompletionService struct {
	db     *gorm.DB
	reader CompletionReader
	loc    *time.Location
	now    func() time.Time
}

// NewCompletionService 构造 CompletionService，now 为空时使用 time.Now
func NewCompletionService(gdb *gorm.DB, reader CompletionReader, loc *time.Location, now func() time.Time) *CompletionService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &CompletionService{db: gdb, reader: reader, loc: loc, now: now}
}

// CompletionInput 单条完成记录
// CompletedAt 可以是 ISO 字符串或 {"seconds":...} 文档，为空时取当前时间
type CompletionInput struct {
	ExerciseTitle string
	Sets          int
	Reps          int
	Weight        float64
	CompletedAt   json.RawMessage
}

// Record 保存一条完成记录
func (s *CompletionService) Record(ctx context.Context, userID uint, input CompletionInput) (*db.CompletionLog, error) {
	title := cleanText(input.ExerciseTitle)
	if title == "" {
		return nil, fmt.Errorf("%w: exercise title is required", ErrInvalidCompletion)
	}
	if input.Sets < 0 || input.Reps < 0 || input.Weight < 0 {
		return nil, fmt.Errorf("%w: negative values are not allowed", ErrInvalidCompletion)
	}

	raw := timestamp.Format(s.now())
	if len(input.CompletedAt) > 0 && string(input.CompletedAt) != "null" {
		stored, _, err := timestamp.FromJSON(input.CompletedAt, s.loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCompletion, err)
		}
		raw = stored
	}

	entry := db.CompletionLog{
		UserID:        userID,
		ExerciseTitle: title,
		Sets:          input.Sets,
		Reps:          input.Reps,
		Weight:        input.Weight,
		CompletedAt:   raw,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("create completion log: %w", err)
	}
	return &entry, nil
}

// RecordWorkout 把训练中的每个动作都记为现在完成
// 没有动作的训练会记录一条以肌群命名的日志，保证当天有完成记录
func (s *CompletionService) RecordWorkout(ctx context.Context, userID, workoutID uint) ([]db.CompletionLog, error) {
	var workout db.Workout
	err := s.db.WithContext(ctx).
		Preload("Exercises", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Where("id = ? AND user_id = ?", workoutID, userID).
		First(&workout).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}

	raw := timestamp.Format(s.now())
	entries := make([]db.CompletionLog, 0, len(workout.Exercises))
	for _, ex := range workout.Exercises {
		entries = append(entries, db.CompletionLog{
			UserID:        userID,
			ExerciseTitle: ex.Title,
			Sets:          ex.Sets,
			Reps:          ex.Reps,
			Weight:        ex.Weight,
			CompletedAt:   raw,
		})
	}
	if len(entries) == 0 {
		title := workout.MuscleGroup
		if title == "" {
			title = workout.Weekday
		}
		entries = append(entries, db.CompletionLog{UserID: userID, ExerciseTitle: title, CompletedAt: raw})
	}

	if err := s.db.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, fmt.Errorf("create completion logs: %w", err)
	}
	return entries, nil
}

// History 返回 [from, to) 区间内的完成记录，两端均可为空
func (s *CompletionService) History(ctx context.Context, userID uint, from, to *time.Time) ([]streak.CompletionLog, error) {
	if from == nil && to == nil {
		logs, err := s.reader.ListCompletionLogs(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list completion history: %w", err)
		}
		return logs, nil
	}

	start := time.Unix(0, 0)
	if from != nil {
		start = *from
	}
	end := s.now().AddDate(100, 0, 0)
	if to != nil {
		end = *to
	}
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}

	logs, err := s.reader.ListCompletionLogsBetween(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list completion history: %w", err)
	}
	return logs, nil
}
