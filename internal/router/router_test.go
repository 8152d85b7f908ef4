package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/streaklog/internal/db"
	"github.com/streaklog/internal/handler"
	"github.com/streaklog/internal/metrics"
	"github.com/streaklog/internal/store"
	"github.com/streaklog/internal/streak"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

type testApp struct {
	router *gin.Engine
	now    time.Time
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(dsn, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, db.EnsureUser(gdb, "root", "rootpass"))

	app := &testApp{now: time.Date(2025, 10, 6, 19, 0, 0, 0, time.UTC)}
	log, _ := test.NewNullLogger()
	manager, registry := metrics.NewTestManager()
	st := store.New(gdb, time.UTC, log)
	engine := streak.NewEngine(st, streak.Options{
		Location: time.UTC,
		Now:      func() time.Time { return app.now },
		Hub:      streak.NewHub(8),
		Logger:   log,
		Recorder: manager,
	})

	api := handler.NewAPI(gdb, st, engine, log)
	app.router = SetupRouter(api, Options{
		SessionSecret: "test-secret",
		Metrics:       manager,
		Gatherer:      registry,
	})
	return app
}

type testClient struct {
	t       *testing.T
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) client(t *testing.T) *testClient {
	return &testClient{t: t, app: a, cookies: map[string]*http.Cookie{}}
}

func (c *testClient) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	c.app.router.ServeHTTP(rr, req)
	for _, cookie := range rr.Result().Cookies() {
		c.cookies[cookie.Name] = cookie
	}
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst), rr.Body.String())
}

type streakBody struct {
	CurrentStreak int   `json:"current_streak"`
	LongestStreak int   `json:"longest_streak"`
	ScheduledDays []int `json:"scheduled_days"`
	Degraded      bool  `json:"degraded"`
}

func login(t *testing.T, c *testClient, username, password string) {
	t.Helper()
	rr := c.do(http.MethodPost, "/api/login", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestRegistrationRequiresApproval(t *testing.T) {
	app := newTestApp(t)
	ana := app.client(t)
	admin := app.client(t)

	rr := ana.do(http.MethodPost, "/api/register", gin.H{"username": "ana", "password": "secret123"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = ana.do(http.MethodPost, "/api/register", gin.H{"username": "ana", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ana.do(http.MethodPost, "/api/login", gin.H{"username": "ana", "password": "secret123"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	login(t, admin, "root", "rootpass")
	rr = admin.do(http.MethodGet, "/admin/api/registrations", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var pending struct {
		Registrations []struct {
			ID       uint   `json:"id"`
			Username string `json:"username"`
		} `json:"registrations"`
	}
	decode(t, rr, &pending)
	require.Len(t, pending.Registrations, 1)
	assert.Equal(t, "ana", pending.Registrations[0].Username)

	rr = admin.do(http.MethodPost, fmt.Sprintf("/admin/api/registrations/%d/approve", pending.Registrations[0].ID), nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	login(t, ana, "ana", "secret123")
	rr = ana.do(http.MethodGet, "/admin/api/registrations", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ana.do(http.MethodPost, "/api/logout", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = ana.do(http.MethodGet, "/api/streak", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMondayOnlyStreakLifecycle(t *testing.T) {
	app := newTestApp(t)
	root := app.client(t)
	login(t, root, "root", "rootpass")

	rr := root.do(http.MethodPost, "/api/workouts", gin.H{
		"weekday":      "Segunda",
		"muscle_group": "Chest",
		"exercises":    []gin.H{{"title": "Bench", "sets": 3, "reps": 10, "weight": 60}},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var workout struct {
		ID      uint   `json:"id"`
		Weekday string `json:"weekday"`
	}
	decode(t, rr, &workout)
	assert.Equal(t, "monday", workout.Weekday)

	var data streakBody
	decode(t, root.do(http.MethodGet, "/api/streak", nil), &data)
	assert.Equal(t, []int{1}, data.ScheduledDays)
	assert.Zero(t, data.CurrentStreak)

	complete := func() streakBody {
		t.Helper()
		rr := root.do(http.MethodPost, "/api/workouts/complete", gin.H{"workout_id": workout.ID})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var body streakBody
		decode(t, rr, &body)
		assert.False(t, body.Degraded)
		return body
	}

	// Monday Oct 6
	assert.Equal(t, 1, complete().CurrentStreak)
	assert.Equal(t, 1, complete().CurrentStreak)

	// Monday Oct 13
	app.now = time.Date(2025, 10, 13, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, complete().CurrentStreak)

	// Oct 20 skipped, session on Monday Oct 27 resets the streak
	app.now = time.Date(2025, 10, 27, 8, 0, 0, 0, time.UTC)
	login(t, root, "root", "rootpass")
	decode(t, root.do(http.MethodGet, "/api/streak", nil), &data)
	assert.Equal(t, 0, data.CurrentStreak)
	assert.Equal(t, 2, data.LongestStreak)

	rr = root.do(http.MethodGet, "/api/streak/calendar?month=2025-10", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var calendar struct {
		Month string `json:"month"`
		Days  []struct {
			Date      string `json:"date"`
			Day       int    `json:"day"`
			Status    string `json:"status"`
			IsToday   bool   `json:"is_today"`
			IsPadding bool   `json:"is_padding"`
		} `json:"days"`
	}
	decode(t, rr, &calendar)
	assert.Equal(t, "2025-10", calendar.Month)
	require.Len(t, calendar.Days, 34)
	assert.True(t, calendar.Days[0].IsPadding)
	assert.Equal(t, "2025-10-06", calendar.Days[8].Date)
	assert.Equal(t, "completed", calendar.Days[8].Status)
	assert.Equal(t, "completed", calendar.Days[15].Status)
	assert.Equal(t, "missed", calendar.Days[22].Status)
	assert.Equal(t, "scheduled", calendar.Days[29].Status)
	assert.True(t, calendar.Days[29].IsToday)
	assert.Equal(t, "not-scheduled", calendar.Days[30].Status)

	rr = root.do(http.MethodGet, "/api/completions?from=2025-10-13&to=2025-10-13", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var history struct {
		Completions []struct {
			ExerciseTitle string `json:"exercise_title"`
			Date          string `json:"date"`
		} `json:"completions"`
	}
	decode(t, rr, &history)
	require.Len(t, history.Completions, 1)
	assert.Equal(t, "2025-10-13", history.Completions[0].Date)

	rr = root.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "streaklog_test_streak_updates_total 2")
	assert.Contains(t, body, "streaklog_test_streak_resets_total 1")

	rr = root.do(http.MethodGet, "/admin/api/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var stats struct {
		Workouts       int64 `json:"workouts"`
		CompletionLogs int64 `json:"completion_logs"`
	}
	decode(t, rr, &stats)
	assert.Equal(t, int64(1), stats.Workouts)
	assert.Equal(t, int64(3), stats.CompletionLogs)
}

func TestHealthzAndUnknownRoutes(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	rr := c.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `"status":"ok"`))

	rr = c.do(http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = c.do(http.MethodGet, "/metrics", nil)
	assert.Contains(t, rr.Body.String(), `route="unmatched"`)
}
