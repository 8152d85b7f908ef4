package db

import "time"

// StreakState 每个用户一行的连续打卡状态
// LastCompletedDate 格式 2006-01-02，NULL 表示从未完成
// ScheduledDays 逗号分隔的星期数字（0=周日），由训练安排派生
// Version 每次写入连胜数据自增，用于乐观并发控制
type StreakState struct {
	UserID            uint    `gorm:"primaryKey;autoIncrement:false"`
	CurrentStreak     int     `gorm:"not null;default:0"`
	LongestStreak     int     `gorm:"not null;default:0"`
	LastCompletedDate *string `gorm:"size:10"`
	ScheduledDays     string  `gorm:"size:32;not null"`
	Version           int64   `gorm:"not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName 固定表名
func (StreakState) TableName() string {
	return "streak_states"
}
