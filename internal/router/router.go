package router

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streaklog/internal/handler"
	"github.com/streaklog/internal/metrics"
)

const (
	sessionName          = "streaklog_session"
	defaultSessionSecret = "streaklog-secret"
	sessionMaxAge        = 30 * 24 * 60 * 60
)

// Options 路由可选依赖，Metrics 与 Gatherer 为空时不暴露 /metrics
type Options struct {
	SessionSecret string
	SecureCookie  bool
	Metrics       *metrics.Manager
	Gatherer      prometheus.Gatherer
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.Default()

	if opts.Metrics != nil {
		r.Use(opts.Metrics.GinMiddleware())
	}

	// 配置会话中间件
	secret := strings.TrimSpace(opts.SessionSecret)
	if secret == "" {
		secret = defaultSessionSecret
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   opts.SecureCookie,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/healthz", api.HealthCheck)
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	public := r.Group("/api")
	{
		public.POST("/register", api.Register)
		public.POST("/login", api.Login)
		public.POST("/logout", api.Logout)
	}

	// 需要登录的接口
	auth := r.Group("/api")
	auth.Use(handler.AuthRequired())
	{
		auth.GET("/workouts", api.ListWorkouts)
		auth.POST("/workouts", api.CreateWorkout)
		auth.POST("/workouts/complete", api.CompleteWorkout)
		auth.PUT("/workouts/:id", api.UpdateWorkout)
		auth.DELETE("/workouts/:id", api.DeleteWorkout)
		auth.GET("/workouts/:id/exercises", api.ListExercises)
		auth.POST("/workouts/:id/exercises", api.CreateExercise)
		auth.PUT("/workouts/:id/exercises/:exerciseId", api.UpdateExercise)
		auth.DELETE("/workouts/:id/exercises/:exerciseId", api.DeleteExercise)

		auth.GET("/completions", api.ListCompletions)
		auth.POST("/completions", api.RecordCompletion)

		auth.GET("/streak", api.GetStreak)
		auth.GET("/streak/calendar", api.GetCalendar)
		auth.GET("/streak/events", api.StreamStreakEvents)
		auth.POST("/streak/schedule", api.RefreshSchedule)
	}

	// 后台管理接口
	admin := r.Group("/admin/api")
	admin.Use(handler.AuthRequired(), api.AdminRequired())
	{
		admin.GET("/registrations", api.ListRegistrations)
		admin.POST("/registrations/:id/approve", api.ApproveRegistration)
		admin.DELETE("/registrations/:id", api.RejectRegistration)
		admin.GET("/stats", api.ShowStats)
	}

	return r
}
