package db

import (
	"time"

	"github.com/streaklog/internal/timestamp"
	"gorm.io/gorm"
)

// CompletionLog 记录一次完成的动作
// CompletedAt 保存原始值：ISO 字符串或 {"seconds":...} 时间戳文档，两种历史格式并存
// CompletedUnix 由 BeforeSave 归一化得出，用于区间查询；无法解析时为 0
// 不带时区的字符串按 UTC 计算，store 查询时会放宽区间再按配置时区过滤
type CompletionLog struct {
	gorm.Model
	UserID        uint `gorm:"index;not null"`
	ExerciseTitle string
	Sets          int
	Reps          int
	Weight        float64
	CompletedAt   string `gorm:"not null"`
	CompletedUnix int64  `gorm:"index"`
}

// BeforeSave keeps CompletedUnix in sync with the raw timestamp.
func (l *CompletionLog) BeforeSave(*gorm.DB) error {
	parsed, err := timestamp.Parse(l.CompletedAt, time.UTC)
	if err != nil {
		l.CompletedUnix = 0
		return nil
	}
	l.CompletedUnix = parsed.Unix()
	return nil
}
