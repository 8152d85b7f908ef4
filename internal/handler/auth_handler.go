package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/streaklog/internal/service"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
	contextUserIDKey   = "streaklog.user_id"
)

type credentialsPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 创建待审批账号
func (a *API) Register(c *gin.Context) {
	var payload credentialsPayload
	if !bindJSON(c, &payload, "username and password are required") {
		return
	}

	user, err := a.users.Register(c.Request.Context(), payload.Username, payload.Password)
	switch {
	case errors.Is(err, service.ErrUserExists):
		respondError(c, http.StatusConflict, err.Error())
		return
	case errors.Is(err, service.ErrInvalidRegistration):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		a.log.WithError(err).Error("register failed")
		respondError(c, http.StatusInternalServerError, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"approved": user.Approved,
	})
}

// Login 校验凭据、写入会话，并在会话开始时审计漏练
func (a *API) Login(c *gin.Context) {
	var payload credentialsPayload
	if !bindJSON(c, &payload, "username and password are required") {
		return
	}

	ctx := c.Request.Context()
	user, err := a.users.Authenticate(ctx, payload.Username, payload.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, service.ErrNotApproved):
		respondError(c, http.StatusForbidden, err.Error())
		return
	case err != nil:
		a.log.WithError(err).Error("login failed")
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	auditErr := a.engine.CheckAndResetStreakIfMissed(ctx, user.ID)
	data, dataErr := a.engine.GetStreakData(ctx, user.ID)

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"is_admin": user.IsAdmin,
		"streak":   data,
		"degraded": a.isDegraded(c, "login_audit", errors.Join(auditErr, dataErr)),
	})
}

// Logout 清空会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to clear session")
		return
	}
	c.Status(http.StatusNoContent)
}

// AuthRequired 要求已登录会话，并把用户 ID 放入请求上下文
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := sessionUserID(session.Get(sessionUserIDKey))
		if !ok {
			respondError(c, http.StatusUnauthorized, "login required")
			c.Abort()
			return
		}
		c.Set(contextUserIDKey, userID)
		c.Next()
	}
}

// AdminRequired 必须在 AuthRequired 之后使用
func (a *API) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := a.users.Get(c.Request.Context(), currentUserID(c))
		if err != nil || !user.IsAdmin {
			respondError(c, http.StatusForbidden, "admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}

func sessionUserID(value interface{}) (uint, bool) {
	switch v := value.(type) {
	case uint:
		return v, v > 0
	case int:
		return uint(v), v > 0
	case int64:
		return uint(v), v > 0
	case uint64:
		return uint(v), v > 0
	case float64:
		return uint(v), v > 0
	default:
		return 0, false
	}
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(contextUserIDKey)
}
