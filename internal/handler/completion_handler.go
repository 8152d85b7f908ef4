package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/streaklog/internal/service"
	"github.com/streaklog/internal/streak"
)

type completionPayload struct {
	ExerciseTitle string          `json:"exercise_title" binding:"required"`
	Sets          int             `json:"sets"`
	Reps          int             `json:"reps"`
	Weight        float64         `json:"weight"`
	CompletedAt   json.RawMessage `json:"completed_at"`
}

type completeWorkoutPayload struct {
	WorkoutID uint `json:"workout_id" binding:"required"`
}

type completionResponse struct {
	ID            uint    `json:"id"`
	ExerciseTitle string  `json:"exercise_title"`
	Sets          int     `json:"sets"`
	Reps          int     `json:"reps"`
	Weight        float64 `json:"weight"`
	CompletedAt   string  `json:"completed_at"`
	Date          string  `json:"date"`
}

func (a *API) toCompletionResponse(entry streak.CompletionLog) completionResponse {
	at := entry.CompletedAt.In(a.engine.Location())
	return completionResponse{
		ID:            entry.ID,
		ExerciseTitle: entry.ExerciseTitle,
		Sets:          entry.Sets,
		Reps:          entry.Reps,
		Weight:        entry.Weight,
		CompletedAt:   at.Format(time.RFC3339),
		Date:          at.Format(dateFormat),
	}
}

// RecordCompletion 记录单个动作的完成
func (a *API) RecordCompletion(c *gin.Context) {
	var payload completionPayload
	if !bindJSON(c, &payload, "exercise_title is required") {
		return
	}

	entry, err := a.completions.Record(c.Request.Context(), currentUserID(c), service.CompletionInput{
		ExerciseTitle: payload.ExerciseTitle,
		Sets:          payload.Sets,
		Reps:          payload.Reps,
		Weight:        payload.Weight,
		CompletedAt:   payload.CompletedAt,
	})
	if errors.Is(err, service.ErrInvalidCompletion) {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		a.log.WithError(err).Error("record completion failed")
		respondError(c, http.StatusInternalServerError, "failed to record completion")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":             entry.ID,
		"exercise_title": entry.ExerciseTitle,
		"completed_at":   entry.CompletedAt,
	})
}

// ListCompletions 返回完成历史，支持 from/to（YYYY-MM-DD，to 含当天）
func (a *API) ListCompletions(c *gin.Context) {
	loc := a.engine.Location()
	from, err := parseDateQuery(c, "from", loc)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseDateQuery(c, "to", loc)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if to != nil {
		end := to.AddDate(0, 0, 1)
		to = &end
	}

	logs, err := a.completions.History(c.Request.Context(), currentUserID(c), from, to)
	if errors.Is(err, service.ErrInvalidRange) {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		a.log.WithError(err).Error("list completions failed")
		respondError(c, http.StatusInternalServerError, "failed to list completions")
		return
	}

	items := make([]completionResponse, 0, len(logs))
	for _, entry := range logs {
		items = append(items, a.toCompletionResponse(entry))
	}
	c.JSON(http.StatusOK, gin.H{"completions": items})
}

// CompleteWorkout 记录整次训练完成：先审计漏练，再更新连胜
func (a *API) CompleteWorkout(c *gin.Context) {
	var payload completeWorkoutPayload
	if !bindJSON(c, &payload, "workout_id is required") {
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)

	entries, err := a.completions.RecordWorkout(ctx, userID, payload.WorkoutID)
	if errors.Is(err, service.ErrWorkoutNotFound) {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		a.log.WithError(err).Error("record workout completion failed")
		respondError(c, http.StatusInternalServerError, "failed to record workout")
		return
	}

	auditErr := a.engine.CheckAndResetStreakIfMissed(ctx, userID)
	current, updateErr := a.engine.UpdateStreak(ctx, userID)
	data, dataErr := a.engine.GetStreakData(ctx, userID)
	if updateErr == nil && dataErr == nil {
		data.CurrentStreak = current
	}

	c.JSON(http.StatusOK, gin.H{
		"logged":         len(entries),
		"current_streak": data.CurrentStreak,
		"longest_streak": data.LongestStreak,
		"degraded":       a.isDegraded(c, "complete_workout", errors.Join(auditErr, updateErr, dataErr)),
	})
}
