package handler

import (
	"net/http"

	"immo/backend/internal/auth"
	"immo/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the health check and every /api/v1 route on router.
func RegisterRoutes(router *gin.Engine) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", Register)
			authRoutes.POST("/login", Login)
			authRoutes.POST("/otp", SendCode)
			authRoutes.POST("/verify", VerifyCode)
			authRoutes.POST("/logout", auth.AuthMiddleware(), Logout)
			authRoutes.PUT("/password", auth.AuthMiddleware(), UpdatePassword)
			authRoutes.GET("/me", auth.AuthMiddleware(), GetMe)
		}

		// Public reads; a token, when present, personalises the answer.
		public := apiV1.Group("")
		public.Use(auth.OptionalAuthMiddleware())
		{
			public.GET("/annonces", ListAnnonces)
			public.GET("/annonces/:id", GetAnnonce)
			public.GET("/annonces/:id/likes", GetLikes)
			public.GET("/annonces/:id/avis", ListAnnonceAvis)
			public.GET("/courtiers", ListCourtiers)
			public.GET("/courtiers/:id/annonces", ListCourtierAnnonces)
			public.GET("/courtiers/:id/avis", ListCourtierAvis)
			public.GET("/profiles/:id", GetProfile)
			public.GET("/profiles/:id/followers", GetFollowers)
			public.GET("/profiles/:id/following", GetFollowing)
			public.GET("/profiles/:id/counts", GetFollowCounts)
		}

		protected := apiV1.Group("")
		protected.Use(auth.AuthMiddleware())
		{
			protected.PUT("/profiles/me", UpdateMyProfile)
			protected.GET("/profiles/:id/mutual", GetMutualFollow)
			protected.POST("/profiles/:id/follow", FollowProfile)
			protected.DELETE("/profiles/:id/follow", UnfollowProfile)

			protected.POST("/annonces", auth.RoleMiddleware(models.RoleCourtier, models.RoleAdmin), CreateAnnonce)
			protected.PUT("/annonces/:id", UpdateAnnonce)
			protected.DELETE("/annonces/:id", DeleteAnnonce)
			protected.POST("/annonces/:id/like", ToggleLike)
			protected.POST("/annonces/:id/avis", CreateAvis)
			protected.DELETE("/avis/:id", DeleteAvis)
			protected.GET("/me/favoris", ListFavoris)

			protected.POST("/messages", SendMessage)
			protected.GET("/notifications", ListNotifications)
			protected.GET("/notifications/sent", ListSentNotifications)
			protected.GET("/notifications/unread-count", GetUnreadCount)
			protected.GET("/notifications/stream", StreamNotifications)
			protected.POST("/notifications/:id/read", MarkNotificationRead)
			protected.POST("/notifications/:id/reply", ReplyNotification)
			protected.PUT("/notifications/:id", EditNotification)
			protected.DELETE("/notifications/:id", DeleteNotification)

			protected.GET("/dashboard/stats", auth.RoleMiddleware(models.RoleCourtier, models.RoleAdmin), GetDashboardStats)
		}

		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			adminRoutes.GET("/users", ListUsers)
			adminRoutes.PUT("/users/:id/role", UpdateUserRole)
			adminRoutes.GET("/annonces", ListAllAnnonces)
			adminRoutes.PUT("/annonces/:id/status", UpdateAnnonceStatus)
			adminRoutes.GET("/stats", GetAdminStats)
		}
	}
}
