package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/EpicMandM/reservation-system/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type requestValidator struct {
	v *validator.Validate
}

func (rv *requestValidator) Validate(i interface{}) error {
	return rv.v.Struct(i)
}

// NewServer builds the echo instance serving the reservation API.
func NewServer(h *APIHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{v: validator.New()}
	e.HTTPErrorHandler = h.handleHTTPError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(requestLogger(h.logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	h.Register(e)

	return e
}

func requestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Render now so the logged status is the one sent.
				c.Error(err)
			}

			log.Info("HTTP request",
				logger.Method(c.Request().Method),
				logger.Path(c.Path()),
				logger.HTTPStatus(c.Response().Status),
				logger.Latency(time.Since(start).Milliseconds()),
				logger.RequestID(c.Response().Header().Get(echo.HeaderXRequestID)))
			return nil
		}
	}
}

// handleHTTPError renders router and binding errors in the same shape as
// service failures.
func (h *APIHandler) handleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	detail := "unexpected error while processing the request"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		detail = fmt.Sprint(he.Message)
	} else {
		h.logger.Error("Unhandled error", logger.Path(c.Path()), logger.Error(err))
	}

	body := h.errorResponse(http.StatusText(status), detail)
	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		h.logger.Error("Failed to write error response", logger.Error(werr))
	}
}
