package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/streaklog/internal/streak"
)

const streamKeepAlive = 25 * time.Second

type calendarDayResponse struct {
	Date      string `json:"date,omitempty"`
	Day       int    `json:"day"`
	Status    string `json:"status"`
	IsToday   bool   `json:"is_today"`
	IsPadding bool   `json:"is_padding"`
}

// GetStreak 返回当前连胜、最长连胜与排期
func (a *API) GetStreak(c *gin.Context) {
	data, err := a.engine.GetStreakData(c.Request.Context(), currentUserID(c))
	c.JSON(http.StatusOK, gin.H{
		"current_streak": data.CurrentStreak,
		"longest_streak": data.LongestStreak,
		"scheduled_days": data.ScheduledDays,
		"degraded":       a.isDegraded(c, "get_streak", err),
	})
}

// GetCalendar 渲染月历，month 缺省为本月
func (a *API) GetCalendar(c *gin.Context) {
	month, err := parseMonth(c.Query("month"), a.engine.Now())
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	days, err := a.engine.MonthCalendar(c.Request.Context(), currentUserID(c), month)
	items := make([]calendarDayResponse, 0, len(days))
	for _, day := range days {
		item := calendarDayResponse{
			Day:       day.DayOfMonth,
			Status:    string(day.Status),
			IsToday:   day.IsToday,
			IsPadding: day.DayOfMonth == 0,
		}
		if !item.IsPadding {
			item.Date = day.Date.Format(dateFormat)
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"month":    month.Format(monthFormat),
		"days":     items,
		"degraded": a.isDegraded(c, "month_calendar", err),
	})
}

// StreamStreakEvents 以 SSE 推送当前用户的连胜变化
func (a *API) StreamStreakEvents(c *gin.Context) {
	hub := a.engine.Hub()
	if hub == nil {
		respondError(c, http.StatusServiceUnavailable, "event stream disabled")
		return
	}

	userID := currentUserID(c)
	events, cancel := hub.SubscribeUser(userID)
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"user_id": userID})
	c.Writer.Flush()

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	done := c.Request.Context().Done()
	c.Stream(func(io.Writer) bool {
		select {
		case <-done:
			return false
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC().Format(time.RFC3339)})
			return true
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Kind), ev)
			return true
		}
	})
}

// RefreshSchedule 手动重新派生 scheduledDays
func (a *API) RefreshSchedule(c *gin.Context) {
	days, err := a.engine.UpdateScheduledDays(c.Request.Context(), currentUserID(c))
	if days == nil {
		days = []int{}
	}
	labels := make([]string, 0, len(days))
	for _, d := range days {
		labels = append(labels, streak.WeekdayLabel(time.Weekday(d)))
	}
	c.JSON(http.StatusOK, gin.H{
		"scheduled_days": days,
		"weekdays":       labels,
		"degraded":       a.isDegraded(c, "update_scheduled_days", err),
	})
}
