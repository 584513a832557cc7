package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"inkpost/internal/auth"
	"inkpost/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	logger *zap.Logger,
	jwtService *auth.JWTService,
	postHandler *handler.PostHandler,
	profileHandler *handler.ProfileHandler,
	summaryHandler *handler.SummaryHandler,
	eventHandler *handler.EventHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.GET("/posts", postHandler.ListPosts)
	api.GET("/posts/:id", postHandler.GetPost)
	api.GET("/authors/:id/posts", postHandler.ListAuthorPosts)
	api.GET("/search", postHandler.SearchPosts)
	api.GET("/profiles/:id", profileHandler.GetProfile)
	api.GET("/events", eventHandler.Stream)

	// Secured routes (require a bearer token from the identity provider)
	secured := api.Group("", jwtService.Middleware())
	secured.POST("/posts", postHandler.CreatePost)
	secured.POST("/posts/:id/comments", postHandler.AddComment)
	secured.POST("/summaries", summaryHandler.DraftSummary)
	secured.PUT("/me/profile", profileHandler.SyncMyProfile)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
