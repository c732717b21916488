package router

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"teaminsight/internal/assessment"
	"teaminsight/internal/config"
	"teaminsight/internal/handlers"
	"teaminsight/internal/metrics"
	"teaminsight/internal/models"
	"teaminsight/internal/persistence"
	"teaminsight/internal/repository"
)

// SessionCookieName is the browser session carrying identity, the CSRF
// token and the guest's last result.
const SessionCookieName = "teaminsight_session"

// Deps is everything the HTTP layer needs.
type Deps struct {
	Log      *zap.Logger
	Config   *config.Manager
	Bank     *models.QuestionBank
	Registry *assessment.Registry
	Scores   persistence.ScoreStore
	Users    *repository.UserRepository
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	// AuthRateLimit caps login and register attempts per client per minute.
	AuthRateLimit uint
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": gin.H{"message": "Too many requests. Try again later."}})
}

func Setup(d Deps) *gin.Engine {
	conf := d.Config.Get()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(d.Log, d.Metrics))
	if err := router.SetTrustedProxies(conf.Server.TrustedProxies); err != nil {
		d.Log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	store := cookie.NewStore([]byte(conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   conf.Server.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions(SessionCookieName, store))

	// Everything below can use the session.
	router.Use(CSRFProtection())
	router.Use(UserLoaderMiddleware(d.Log, d.Users))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		IsDevelopment:         !conf.Server.SecureCookies,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	})

	historyLimit := func() int {
		if n := d.Config.Get().Assessment.HistoryLimit; n > 0 {
			return n
		}
		return repository.DefaultHistoryLimit
	}

	authHandler := handlers.NewAuthHandler(d.Log, d.Users, d.Registry)
	assessmentHandler := handlers.NewAssessmentHandler(d.Log, d.Bank, d.Registry, d.Scores, d.Metrics)
	displayLocation := func() *time.Location {
		return d.Config.Get().Assessment.DisplayLocation()
	}
	resultsHandler := handlers.NewResultsHandler(d.Log, d.Scores, historyLimit, displayLocation)
	userHandler := handlers.NewUserHandler(d.Log, d.Users, d.Registry)

	limit := d.AuthRateLimit
	if limit == 0 {
		limit = 5
	}
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: limit,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	authRoutes := router.Group("/auth")
	{
		authRoutes.GET("/me", authHandler.Me)
		authRoutes.POST("/register", limiter, authHandler.Register)
		authRoutes.POST("/login", limiter, authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
	}

	api := router.Group("/api")
	{
		api.GET("/questions", assessmentHandler.Questions)

		assessmentRoutes := api.Group("/assessment")
		{
			assessmentRoutes.GET("", assessmentHandler.State)
			assessmentRoutes.POST("/answer", assessmentHandler.Answer)
			assessmentRoutes.POST("/next", assessmentHandler.Next)
			assessmentRoutes.POST("/prev", assessmentHandler.Previous)
			assessmentRoutes.POST("/finish", assessmentHandler.Finish)
			assessmentRoutes.POST("/reset", assessmentHandler.Reset)
			assessmentRoutes.POST("/notification/dismiss", assessmentHandler.DismissNotification)
		}

		api.GET("/scores/latest", resultsHandler.Latest)
		api.GET("/results", resultsHandler.Results)
		api.GET("/history", resultsHandler.History)
		api.GET("/dashboard", resultsHandler.Dashboard)
		api.GET("/compare", resultsHandler.Compare)

		profileRoutes := api.Group("/profile")
		profileRoutes.Use(AuthRequired())
		{
			profileRoutes.GET("", userHandler.ShowProfile)
			profileRoutes.POST("/update-info", userHandler.UpdateInfo)
			profileRoutes.POST("/update-password", userHandler.UpdatePassword)
			profileRoutes.POST("/delete", userHandler.DeleteAccount)
		}
	}

	return router
}
