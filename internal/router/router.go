package router

import (
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"stockresearch/internal/errors"
	"stockresearch/internal/handler"
	"stockresearch/internal/model"
	"stockresearch/internal/service"
)

// SessionContextKey is the echo.Context key holding the resolved *model.Session.
const SessionContextKey = "session"

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	log zerolog.Logger,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	researchHandler *handler.ResearchHandler,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler(log)
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.RequestID())
	e.Use(RequestLogger(log))
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/login", authHandler.Login)
	api.POST("/verify", authHandler.Verify)
	api.GET("/session", authHandler.Session)
	api.POST("/logout", authHandler.Logout)

	// Secured routes (require a live session)
	secured := api.Group("", RequireSession(authService))
	secured.GET("/stock-of-day", researchHandler.StockOfDay)
	secured.GET("/search", researchHandler.Search)
	secured.GET("/research/:ticker", researchHandler.Research)
}

// sessionLookupError marks a session store failure, as opposed to a missing
// or invalid session.
type sessionLookupError struct {
	err error
}

func (e *sessionLookupError) Error() string { return e.err.Error() }
func (e *sessionLookupError) Unwrap() error { return e.err }

// RequireSession rejects requests without a live session with 401. The
// session cookie token is resolved against the session store and the session
// is stored in the context under SessionContextKey.
func RequireSession(authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + handler.SessionCookieName,
		ContextKey:  SessionContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			session, err := authService.ResolveSession(c.Request().Context(), token)
			if err != nil {
				if stderrors.Is(err, errors.ErrAuthRequired) {
					return nil, err
				}
				return nil, &sessionLookupError{err: err}
			}
			return session, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var lookupErr *sessionLookupError
			if stderrors.As(err, &lookupErr) {
				httpErr := errors.MapErrorToHTTP(lookupErr.err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(lookupErr.err)
			}
			httpErr := errors.MapErrorToHTTP(errors.ErrAuthRequired)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

// CurrentSession returns the session resolved by RequireSession.
func CurrentSession(c echo.Context) (*model.Session, bool) {
	session, ok := c.Get(SessionContextKey).(*model.Session)
	return session, ok
}

// RequestLogger logs one line per request through zerolog. Requests that
// passed RequireSession also carry the session email.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID)
			if session, ok := CurrentSession(c); ok {
				event.Str("email", session.Email)
			}
			event.Msg("request")
			return nil
		},
	})
}

// ErrorHandler renders every error as an ErrorResponse. Internal causes are
// logged, never returned to the client.
func ErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := errors.MapErrorToHTTP(err).ToErrorResponse()

		var he *echo.HTTPError
		if stderrors.As(err, &he) {
			status = he.Code
			switch msg := he.Message.(type) {
			case errors.ErrorResponse:
				body = msg
			case string:
				body = errors.ErrorResponse{Error: msg}
			default:
				body = errors.ErrorResponse{Error: http.StatusText(status)}
			}
			if status >= http.StatusInternalServerError && he.Internal != nil {
				log.Error().Err(he.Internal).Str("uri", c.Request().RequestURI).Msg("request failed")
			}
		} else {
			httpErr := errors.MapErrorToHTTP(err)
			status = httpErr.StatusCode
			if status >= http.StatusInternalServerError {
				log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("request failed")
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
