package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/streaklog/internal/db"
	"github.com/streaklog/internal/service"
)

type registrationResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
	Approved  bool   `json:"approved"`
}

func toRegistrationResponse(user db.User) registrationResponse {
	return registrationResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
		Approved:  user.Approved,
	}
}

// ListRegistrations 返回待审批注册
func (a *API) ListRegistrations(c *gin.Context) {
	users, err := a.users.ListPending(c.Request.Context())
	if err != nil {
		a.log.WithError(err).Error("list registrations failed")
		respondError(c, http.StatusInternalServerError, "failed to list registrations")
		return
	}

	items := make([]registrationResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toRegistrationResponse(user))
	}
	c.JSON(http.StatusOK, gin.H{"registrations": items})
}

// ApproveRegistration 审批通过
func (a *API) ApproveRegistration(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.users.Approve(c.Request.Context(), id)
	if errors.Is(err, service.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		a.log.WithError(err).Error("approve registration failed")
		respondError(c, http.StatusInternalServerError, "failed to approve registration")
		return
	}

	a.log.WithField("user_id", user.ID).Info("registration approved")
	c.JSON(http.StatusOK, toRegistrationResponse(*user))
}

// RejectRegistration 拒绝并删除待审批注册
func (a *API) RejectRegistration(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.users.Reject(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		a.log.WithError(err).Error("reject registration failed")
		respondError(c, http.StatusInternalServerError, "failed to reject registration")
		return
	}
	c.Status(http.StatusNoContent)
}

// ShowStats 返回后台统计，limit 控制连胜排行长度
func (a *API) ShowStats(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit <= 0 || limit > 50 {
		respondError(c, http.StatusBadRequest, "limit must be between 1 and 50")
		return
	}

	overview, err := a.analytics.Overview(c.Request.Context(), a.engine.Now(), limit)
	if err != nil {
		a.log.WithError(err).Error("load stats failed")
		respondError(c, http.StatusInternalServerError, "failed to load stats")
		return
	}
	c.JSON(http.StatusOK, overview)
}
