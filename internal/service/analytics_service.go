package service

import (
	"context"
	"fmt"
	"time"

	"github.com/streaklog/internal/db"
	"gorm.io/gorm"
)

const recentActivityWindow = 7 * 24 * time.Hour

// AnalyticsService 汇总后台统计面板需要的计数
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService 创建 AnalyticsService
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb}
}

// UsageOverview 聚合用户、训练、打卡与连胜数据
type UsageOverview struct {
	Users          int64        `json:"users"`
	ApprovedUsers  int64        `json:"approved_users"`
	PendingUsers   int64        `json:"pending_users"`
	Workouts       int64        `json:"workouts"`
	CompletionLogs int64        `json:"completion_logs"`
	RecentLogs     int64        `json:"logs_last_7_days"`
	ActiveStreaks  int64        `json:"active_streaks"`
	TopStreaks     []StreakStat `json:"top_streaks"`
}

// StreakStat 描述连胜排行中的一项
type StreakStat struct {
	UserID        uint   `json:"user_id"`
	Username      string `json:"username"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
}

// Overview 汇总全站数据，limit 控制排行长度
func (s *AnalyticsService) Overview(ctx context.Context, now time.Time, limit int) (UsageOverview, error) {
	if limit <= 0 {
		limit = 5
	}

	var overview UsageOverview
	tx := s.db.WithContext(ctx)

	if err := tx.Model(&db.User{}).Count(&overview.Users).Error; err != nil {
		return overview, fmt.Errorf("count users: %w", err)
	}
	if err := tx.Model(&db.User{}).Where("approved = ?", true).Count(&overview.ApprovedUsers).Error; err != nil {
		return overview, fmt.Errorf("count approved users: %w", err)
	}
	overview.PendingUsers = overview.Users - overview.ApprovedUsers

	if err := tx.Model(&db.Workout{}).Count(&overview.Workouts).Error; err != nil {
		return overview, fmt.Errorf("count workouts: %w", err)
	}
	if err := tx.Model(&db.CompletionLog{}).Count(&overview.CompletionLogs).Error; err != nil {
		return overview, fmt.Errorf("count completion logs: %w", err)
	}

	since := now.Add(-recentActivityWindow).Unix()
	if err := tx.Model(&db.CompletionLog{}).
		Where("completed_unix >= ? AND completed_unix <= ?", since, now.Unix()).
		Count(&overview.RecentLogs).Error; err != nil {
		return overview, fmt.Errorf("count recent logs: %w", err)
	}

	if err := tx.Model(&db.StreakState{}).Where("current_streak > 0").Count(&overview.ActiveStreaks).Error; err != nil {
		return overview, fmt.Errorf("count active streaks: %w", err)
	}

	topStreaks := []StreakStat{}
	if err := tx.Table("streak_states ss").
		Select("ss.user_id, u.username, ss.current_streak, ss.longest_streak").
		Joins("JOIN users u ON u.id = ss.user_id AND u.deleted_at IS NULL").
		Where("ss.longest_streak > 0").
		Order("ss.longest_streak DESC, ss.current_streak DESC, ss.user_id ASC").
		Limit(limit).
		Scan(&topStreaks).Error; err != nil {
		return overview, fmt.Errorf("list top streaks: %w", err)
	}

	overview.TopStreaks = topStreaks
	return overview, nil
}
