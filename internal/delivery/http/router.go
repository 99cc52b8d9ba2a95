package http

import (
	"net/http"

	"github.com/gdugdh24/heartmatch-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/heartmatch-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Router struct {
	authHandler      *handler.AuthHandler
	profileHandler   *handler.ProfileHandler
	candidateHandler *handler.CandidateHandler
	likeHandler      *handler.LikeHandler
	matchHandler     *handler.MatchHandler
	authMiddleware   *middleware.AuthMiddleware

	// Optional; likes are not throttled when nil.
	limiter  middleware.Limiter
	likeRule ratelimit.Rule

	log zerolog.Logger
}

type RouterDeps struct {
	AuthHandler      *handler.AuthHandler
	ProfileHandler   *handler.ProfileHandler
	CandidateHandler *handler.CandidateHandler
	LikeHandler      *handler.LikeHandler
	MatchHandler     *handler.MatchHandler
	AuthMiddleware   *middleware.AuthMiddleware
	Limiter          middleware.Limiter
	LikeRule         ratelimit.Rule
	Logger           zerolog.Logger
}

func NewRouter(deps RouterDeps) *Router {
	return &Router{
		authHandler:      deps.AuthHandler,
		profileHandler:   deps.ProfileHandler,
		candidateHandler: deps.CandidateHandler,
		likeHandler:      deps.LikeHandler,
		matchHandler:     deps.MatchHandler,
		authMiddleware:   deps.AuthMiddleware,
		limiter:          deps.Limiter,
		likeRule:         deps.LikeRule,
		log:              deps.Logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(r.log))

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API v1
	v1 := router.Group("/api/v1")
	v1.Use(r.authMiddleware.RequireAuth())
	{
		v1.GET("/auth/me", r.authHandler.Me)

		profile := v1.Group("/profile")
		{
			profile.GET("/me", r.profileHandler.GetMyProfile)
			profile.POST("/me", r.profileHandler.CreateMyProfile)
			profile.PUT("/me", r.profileHandler.UpdateMyProfile)
			profile.GET("/:user_id", r.profileHandler.GetProfileByUserID)
		}

		v1.GET("/candidates", r.candidateHandler.GetCandidates)

		likeChain := []gin.HandlerFunc{}
		if r.limiter != nil {
			likeChain = append(likeChain, middleware.RateLimit(r.limiter, r.likeRule))
		}
		likeChain = append(likeChain, r.likeHandler.CreateLike)
		v1.POST("/likes", likeChain...)

		v1.GET("/matches", r.matchHandler.ListMatches)
	}

	return router
}
