package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"github.com/streaklog/internal/db"
	"github.com/streaklog/internal/streak"
	"gorm.io/gorm"
)

var (
	// ErrWorkoutNotFound 训练不存在或不属于当前用户
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrExerciseNotFound 动作不存在或不属于该训练
	ErrExerciseNotFound = errors.New("exercise not found")
	// ErrInvalidWorkout 训练输入不合法（星期无法识别等）
	ErrInvalidWorkout = errors.New("invalid workout input")
	// ErrInvalidExercise 动作输入不合法
	ErrInvalidExercise = errors.New("invalid exercise input")
)

// ScheduleUpdater 在训练安排变更后重新派生 scheduledDays
type ScheduleUpdater interface {
	UpdateScheduledDays(ctx context.Context, userID uint) ([]int, error)
}

var plainText = bluemonday.StrictPolicy()

// cleanText 去掉所有 HTML 标签，保存纯文本
func cleanText(value string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(value)))
}

// WorkoutService 维护用户的每周训练安排及其中的动作
type WorkoutService struct {
	db       *gorm.DB
	schedule ScheduleUpdater
	log      logrus.FieldLogger
}

// NewWorkoutService 构造 WorkoutService，schedule 可为空（仅测试使用）
func NewWorkoutService(gdb *gorm.DB, schedule ScheduleUpdater, log logrus.FieldLogger) *WorkoutService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &WorkoutService{db: gdb, schedule: schedule, log: log}
}

// WorkoutInput 创建或更新训练时的字段，Weekday 接受英文或葡萄牙语
type WorkoutInput struct {
	Weekday     string
	MuscleGroup string
}

// ExerciseInput 描述单个动作
type ExerciseInput struct {
	Title       string
	Sets        int
	Reps        int
	Weight      float64
	RestSeconds int
}

func (in WorkoutInput) normalize() (WorkoutInput, error) {
	weekday, err := streak.CanonicalWeekday(in.Weekday)
	if err != nil {
		return WorkoutInput{}, fmt.Errorf("%w: %v", ErrInvalidWorkout, err)
	}
	return WorkoutInput{Weekday: weekday, MuscleGroup: cleanText(in.MuscleGroup)}, nil
}

func (in ExerciseInput) normalize() (ExerciseInput, error) {
	in.Title = cleanText(in.Title)
	if in.Title == "" {
		return ExerciseInput{}, fmt.Errorf("%w: title is required", ErrInvalidExercise)
	}
	if in.Sets < 0 || in.Reps < 0 || in.Weight < 0 || in.RestSeconds < 0 {
		return ExerciseInput{}, fmt.Errorf("%w: negative values are not allowed", ErrInvalidExercise)
	}
	return in, nil
}

// List 返回用户全部训练，按星期排序并预加载动作
func (s *WorkoutService) List(ctx context.Context, userID uint) ([]db.Workout, error) {
	var workouts []db.Workout
	if err := s.db.WithContext(ctx).
		Preload("Exercises", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&workouts).Error; err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	sortByWeekday(workouts)
	return workouts, nil
}

func sortByWeekday(workouts []db.Workout) {
	rank := func(w db.Workout) int {
		day, err := streak.ParseWeekday(w.Weekday)
		if err != nil {
			return 7
		}
		return int(day)
	}
	sort.SliceStable(workouts, func(i, j int) bool {
		return rank(workouts[i]) < rank(workouts[j])
	})
}

// Get 读取单个训练
func (s *WorkoutService) Get(ctx context.Context, userID, id uint) (*db.Workout, error) {
	var workout db.Workout
	err := s.db.WithContext(ctx).
		Preload("Exercises", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Where("id = ? AND user_id = ?", id, userID).
		First(&workout).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}
	return &workout, nil
}

// Create 新建训练并刷新 scheduledDays
func (s *WorkoutService) Create(ctx context.Context, userID uint, input WorkoutInput, exercises []ExerciseInput) (*db.Workout, error) {
	normalized, err := input.normalize()
	if err != nil {
		return nil, err
	}

	workout := db.Workout{
		UserID:      userID,
		Weekday:     normalized.Weekday,
		MuscleGroup: normalized.MuscleGroup,
	}
	for _, item := range exercises {
		ex, err := item.normalize()
		if err != nil {
			return nil, err
		}
		workout.Exercises = append(workout.Exercises, exerciseModel(ex))
	}

	if err := s.db.WithContext(ctx).Create(&workout).Error; err != nil {
		return nil, fmt.Errorf("create workout: %w", err)
	}

	s.refreshSchedule(ctx, userID)
	return &workout, nil
}

// Update 替换训练的星期与肌群
func (s *WorkoutService) Update(ctx context.Context, userID, id uint, input WorkoutInput) (*db.Workout, error) {
	normalized, err := input.normalize()
	if err != nil {
		return nil, err
	}

	workout, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(workout).Updates(map[string]interface{}{
		"weekday":      normalized.Weekday,
		"muscle_group": normalized.MuscleGroup,
	}).Error; err != nil {
		return nil, fmt.Errorf("update workout: %w", err)
	}

	s.refreshSchedule(ctx, userID)
	return s.Get(ctx, userID, id)
}

// Delete 删除训练及其动作
func (s *WorkoutService) Delete(ctx context.Context, userID, id uint) error {
	workout, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", workout.ID).Delete(&db.Exercise{}).Error; err != nil {
			return err
		}
		return tx.Delete(workout).Error
	}); err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	s.refreshSchedule(ctx, userID)
	return nil
}

// AddExercise 向训练追加动作
func (s *WorkoutService) AddExercise(ctx context.Context, userID, workoutID uint, input ExerciseInput) (*db.Exercise, error) {
	normalized, err := input.normalize()
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, userID, workoutID); err != nil {
		return nil, err
	}

	exercise := exerciseModel(normalized)
	exercise.WorkoutID = workoutID
	if err := s.db.WithContext(ctx).Create(&exercise).Error; err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	return &exercise, nil
}

// UpdateExercise 整体替换动作字段
func (s *WorkoutService) UpdateExercise(ctx context.Context, userID, workoutID, exerciseID uint, input ExerciseInput) (*db.Exercise, error) {
	normalized, err := input.normalize()
	if err != nil {
		return nil, err
	}
	exercise, err := s.findExercise(ctx, userID, workoutID, exerciseID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(exercise).Updates(map[string]interface{}{
		"title":        normalized.Title,
		"sets":         normalized.Sets,
		"reps":         normalized.Reps,
		"weight":       normalized.Weight,
		"rest_seconds": normalized.RestSeconds,
	}).Error; err != nil {
		return nil, fmt.Errorf("update exercise: %w", err)
	}
	return s.findExercise(ctx, userID, workoutID, exerciseID)
}

// DeleteExercise 删除训练中的一个动作
func (s *WorkoutService) DeleteExercise(ctx context.Context, userID, workoutID, exerciseID uint) error {
	exercise, err := s.findExercise(ctx, userID, workoutID, exerciseID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(exercise).Error; err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	return nil
}

func (s *WorkoutService) findExercise(ctx context.Context, userID, workoutID, exerciseID uint) (*db.Exercise, error) {
	if _, err := s.Get(ctx, userID, workoutID); err != nil {
		return nil, err
	}

	var exercise db.Exercise
	err := s.db.WithContext(ctx).
		Where("id = ? AND workout_id = ?", exerciseID, workoutID).
		First(&exercise).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	return &exercise, nil
}

// refreshSchedule 失败时只记录日志，训练本身已经保存成功
func (s *WorkoutService) refreshSchedule(ctx context.Context, userID uint) {
	if s.schedule == nil {
		return
	}
	if _, err := s.schedule.UpdateScheduledDays(ctx, userID); err != nil {
		s.log.WithField("user_id", userID).WithError(err).Warn("schedule refresh failed after workout change")
	}
}

func exerciseModel(in ExerciseInput) db.Exercise {
	return db.Exercise{
		Title:       in.Title,
		Sets:        in.Sets,
		Reps:        in.Reps,
		Weight:      in.Weight,
		RestSeconds: in.RestSeconds,
	}
}
