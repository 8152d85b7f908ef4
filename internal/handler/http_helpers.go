package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/streaklog/internal/streak"
)

const (
	dateFormat  = "2006-01-02"
	monthFormat = "2006-01"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// parseDateQuery 解析 YYYY-MM-DD 查询参数，缺省时返回 nil
func parseDateQuery(c *gin.Context, key string, loc *time.Location) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(dateFormat, raw, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid %s, expected YYYY-MM-DD", key)
	}
	return &parsed, nil
}

// parseMonth 解析 YYYY-MM，缺省时取 now 所在月份
func parseMonth(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	parsed, err := time.ParseInLocation(monthFormat, raw, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month, expected YYYY-MM")
	}
	return parsed, nil
}

// isDegraded 区分“确实为零”与“存储失败后的默认值”
func (a *API) isDegraded(c *gin.Context, op string, err error) bool {
	if err == nil {
		return false
	}
	if !errors.Is(err, streak.ErrDegraded) {
		a.log.WithField("op", op).WithError(err).Error("unexpected streak engine error")
	}
	c.Header("X-Streak-Degraded", "1")
	return true
}
