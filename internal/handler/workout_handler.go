package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/streaklog/internal/db"
	"github.com/streaklog/internal/service"
)

type exercisePayload struct {
	Title       string  `json:"title"`
	Sets        int     `json:"sets"`
	Reps        int     `json:"reps"`
	Weight      float64 `json:"weight"`
	RestSeconds int     `json:"rest_seconds"`
}

type workoutPayload struct {
	Weekday     string            `json:"weekday" binding:"required"`
	MuscleGroup string            `json:"muscle_group"`
	Exercises   []exercisePayload `json:"exercises"`
}

type exerciseResponse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Sets        int     `json:"sets"`
	Reps        int     `json:"reps"`
	Weight      float64 `json:"weight"`
	RestSeconds int     `json:"rest_seconds"`
}

type workoutResponse struct {
	ID          uint               `json:"id"`
	Weekday     string             `json:"weekday"`
	MuscleGroup string             `json:"muscle_group"`
	Exercises   []exerciseResponse `json:"exercises"`
}

func (p exercisePayload) input() service.ExerciseInput {
	return service.ExerciseInput{
		Title:       p.Title,
		Sets:        p.Sets,
		Reps:        p.Reps,
		Weight:      p.Weight,
		RestSeconds: p.RestSeconds,
	}
}

func toExerciseResponse(ex db.Exercise) exerciseResponse {
	return exerciseResponse{
		ID:          ex.ID,
		Title:       ex.Title,
		Sets:        ex.Sets,
		Reps:        ex.Reps,
		Weight:      ex.Weight,
		RestSeconds: ex.RestSeconds,
	}
}

func toWorkoutResponse(w db.Workout) workoutResponse {
	exercises := make([]exerciseResponse, 0, len(w.Exercises))
	for _, ex := range w.Exercises {
		exercises = append(exercises, toExerciseResponse(ex))
	}
	return workoutResponse{
		ID:          w.ID,
		Weekday:     w.Weekday,
		MuscleGroup: w.MuscleGroup,
		Exercises:   exercises,
	}
}

func (a *API) respondWorkoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkoutNotFound), errors.Is(err, service.ErrExerciseNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidWorkout), errors.Is(err, service.ErrInvalidExercise):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		a.log.WithError(err).Error("workout request failed")
		respondError(c, http.StatusInternalServerError, "workout request failed")
	}
}

// ListWorkouts 返回当前用户的每周训练
func (a *API) ListWorkouts(c *gin.Context) {
	workouts, err := a.workouts.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		a.respondWorkoutError(c, err)
		return
	}

	items := make([]workoutResponse, 0, len(workouts))
	for _, w := range workouts {
		items = append(items, toWorkoutResponse(w))
	}
	c.JSON(http.StatusOK, gin.H{"workouts": items})
}

// CreateWorkout 新建训练，scheduledDays 随之重新派生
func (a *API) CreateWorkout(c *gin.Context) {
	var payload workoutPayload
	if !bindJSON(c, &payload, "weekday is required") {
		return
	}

	exercises := make([]service.ExerciseInput, 0, len(payload.Exercises))
	for _, ex := range payload.Exercises {
		exercises = append(exercises, ex.input())
	}

	workout, err := a.workouts.Create(c.Request.Context(), currentUserID(c), service.WorkoutInput{
		Weekday:     payload.Weekday,
		MuscleGroup: payload.MuscleGroup,
	}, exercises)
	if err != nil {
		a.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toWorkoutResponse(*workout))
}

// UpdateWorkout 替换训练的星期与肌群
func (a *API) UpdateWorkout(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload workoutPayload
	if !bindJSON(c, &payload, "weekday is required") {
		return
	}

	workout, err := a.workouts.Update(c.Request.Context(), currentUserID(c), id, service.WorkoutInput{
		Weekday:     payload.Weekday,
		MuscleGroup: payload.MuscleGroup,
	})
	if err != nil {
		a.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWorkoutResponse(*workout))
}

// DeleteWorkout 删除训练
func (a *API) DeleteWorkout(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.workouts.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		a.respondWorkoutError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListExercises 返回训练中的动作
func (a *API) ListExercises(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	workout, err := a.workouts.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		a.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercises": toWorkoutResponse(*workout).Exercises})
}

// CreateExercise 向训练追加动作
func (a *API) CreateExercise(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload exercisePayload
	if !bindJSON(c, &payload, "invalid exercise payload") {
		return
	}

	exercise, err := a.workouts.AddExercise(c.Request.Context(), currentUserID(c), id, payload.input())
	if err != nil {
		a.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toExerciseResponse(*exercise))
}

// UpdateExercise 整体替换动作
func (a *API) UpdateExercise(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	exerciseID, err := parseUintParam(c, "exerciseId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload exercisePayload
	if !bindJSON(c, &payload, "invalid exercise payload") {
		return
	}

	exercise, err := a.workouts.UpdateExercise(c.Request.Context(), currentUserID(c), id, exerciseID, payload.input())
	if err != nil {
		a.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, toExerciseResponse(*exercise))
}

// DeleteExercise 删除动作
func (a *API) DeleteExercise(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	exerciseID, err := parseUintParam(c, "exerciseId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.workouts.DeleteExercise(c.Request.Context(), currentUserID(c), id, exerciseID); err != nil {
		a.respondWorkoutError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
