package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"oragh/backend/config"
	"oragh/backend/internal/access"
	"oragh/backend/internal/api/handler"
	"oragh/backend/internal/api/middleware"
	"oragh/backend/pkg/jwt"
	"oragh/backend/pkg/redis"
)

// Setup builds the gin engine. rdb may be nil, which disables the token
// blacklist and rate limiting.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	var (
		limiter   middleware.Limiter
		blacklist middleware.TokenChecker
	)
	if rdb != nil {
		limiter, blacklist = rdb, rdb
	}

	r := gin.New()

	// ── Global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	loginLimit := middleware.RateLimit(limiter, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow, logger)
	board := middleware.RequirePerm(access.PermManageSeasons)
	marker := middleware.RequirePerm(access.PermMarkAttendance)

	v1 := r.Group("/api/v1")
	{
		// Public
		auth := v1.Group("/auth")
		{
			auth.POST("/token", loginLimit, h.Auth.Login)
			auth.POST("/token/refresh", loginLimit, h.Auth.Refresh)
		}
		public := v1.Group("/users")
		{
			public.POST("/register", loginLimit, h.Activation.Register)
			public.GET("/activate/:token", h.Activation.Preview)
			public.POST("/activate/:token", h.Activation.Activate)
			public.POST("/activate/:token/reject", h.Activation.Reject)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.Me)
				users.PUT("/me", h.User.UpdateMe)
				users.GET("/permissions", h.User.Permissions)
				users.POST("/change-password", h.User.ChangePassword)
				users.GET("/musicians", h.User.ListMusicians)
				users.GET("/pending-activations", middleware.RequirePerm(access.PermApproveAccounts), h.Activation.Pending)
				users.PUT("/:id/groups", middleware.RequirePerm(access.PermManageGroups), h.User.SetGroups)
			}

			seasons := authorized.Group("/seasons")
			{
				seasons.GET("", h.Season.List)
				seasons.GET("/current", h.Season.Current)
				seasons.GET("/:id", h.Season.Get)
				seasons.GET("/:id/musicians", h.Season.Musicians)
				seasons.GET("/:id/available_musicians", h.Season.AvailableMusicians)
				seasons.GET("/:id/events", h.Season.Events)
				seasons.GET("/:id/attendance_grid", h.Season.Grid)
				seasons.GET("/:id/attendance_grid/export", h.Season.ExportGrid)
				seasons.GET("/:id/calendar.ics", h.Season.Calendar)
				seasons.GET("/:id/stats", h.Season.Stats)

				seasons.POST("", board, h.Season.Create)
				seasons.PATCH("/:id", board, h.Season.Update)
				seasons.PUT("/:id", board, h.Season.Update)
				seasons.DELETE("/:id", board, h.Season.Delete)
				seasons.POST("/:id/set_current", board, h.Season.SetCurrent)
				seasons.POST("/:id/add_musicians", board, h.Season.AddMusicians)
				seasons.POST("/:id/remove_musicians", board, h.Season.RemoveMusicians)
			}

			events := authorized.Group("/events")
			{
				events.GET("", h.Event.List)
				events.GET("/:id", h.Event.Get)
				events.GET("/:id/attendances", h.Event.Attendances)
				events.GET("/:id/stats", h.Event.Stats)

				events.POST("", board, h.Event.Create)
				events.PATCH("/:id", board, h.Event.Update)
				events.DELETE("/:id", board, h.Event.Delete)
				events.POST("/:id/mark_attendance", marker, h.Event.MarkAttendance)
			}

			authorized.GET("/attendances", h.Attendance.List)

			// Per object checks live in the forum service.
			forum := authorized.Group("/forum")
			{
				forum.GET("/directories/tree", h.Forum.Tree)
				forum.GET("/directories", h.Forum.ListDirectories)
				forum.POST("/directories", h.Forum.CreateDirectory)
				forum.GET("/directories/:id", h.Forum.GetDirectory)
				forum.PUT("/directories/:id", h.Forum.UpdateDirectory)
				forum.DELETE("/directories/:id", h.Forum.DeleteDirectory)
				forum.POST("/directories/:id/move", h.Forum.MoveDirectory)

				forum.GET("/posts", h.Forum.ListPosts)
				forum.POST("/posts", h.Forum.CreatePost)
				forum.GET("/posts/:id", h.Forum.GetPost)
				forum.PUT("/posts/:id", h.Forum.UpdatePost)
				forum.DELETE("/posts/:id", h.Forum.DeletePost)
				forum.POST("/posts/:id/move", h.Forum.MovePost)
				forum.GET("/posts/:id/comments", h.Forum.ListComments)
				forum.POST("/posts/:id/comments", h.Forum.CreateComment)

				forum.GET("/comments/:id", h.Forum.GetComment)
				forum.PUT("/comments/:id", h.Forum.UpdateComment)
				forum.DELETE("/comments/:id", h.Forum.DeleteComment)

				forum.GET("/stats", h.Forum.Stats)
			}

			concertsManage := middleware.RequirePerm(access.PermManageConcerts)
			concerts := authorized.Group("/concerts")
			{
				concerts.GET("", h.Concert.List)
				concerts.GET("/permissions", h.Concert.Permissions)
				concerts.GET("/:id", h.Concert.Get)
				concerts.GET("/:id/participants", h.Concert.Participants)
				concerts.POST("/:id/register", h.Concert.Register)

				concerts.POST("", concertsManage, h.Concert.Create)
				concerts.PATCH("/:id", concertsManage, h.Concert.Update)
				concerts.DELETE("/:id", concertsManage, h.Concert.Delete)
			}
		}
	}

	return r
}
