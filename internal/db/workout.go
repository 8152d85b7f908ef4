package db

import "gorm.io/gorm"

// Workout 是用户在某个星期几的固定训练安排
// Weekday 以规范英文小写存储（monday...），由 streak.CanonicalWeekday 归一化
// 编辑时整体替换 Weekday，不做追加
type Workout struct {
	gorm.Model
	UserID      uint   `gorm:"index;not null"`
	Weekday     string `gorm:"size:16;not null"`
	MuscleGroup string
	Exercises   []Exercise `gorm:"constraint:OnDelete:CASCADE"`
}

// Exercise 训练中的单个动作，RestSeconds 为组间休息计时
type Exercise struct {
	gorm.Model
	WorkoutID   uint `gorm:"index;not null"`
	Title       string
	Sets        int
	Reps        int
	Weight      float64
	RestSeconds int
}
