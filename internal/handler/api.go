package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/EpicMandM/reservation-system/internal/logger"
	"github.com/EpicMandM/reservation-system/internal/models"
	"github.com/EpicMandM/reservation-system/internal/service"
	"github.com/labstack/echo/v4"
)

// ReservationService is the workflow the handler drives.
type ReservationService interface {
	GetReservationByID(ctx context.Context, id int64) (models.Reservation, error)
	FindAllReservations(ctx context.Context) ([]models.Reservation, error)
	CreateReservation(ctx context.Context, input models.Reservation) (models.Reservation, error)
	UpdateReservation(ctx context.Context, id int64, input models.Reservation) (models.Reservation, error)
	ApproveReservation(ctx context.Context, id int64) (models.Reservation, error)
	CancelReservation(ctx context.Context, id int64) error
	DeleteReservation(ctx context.Context, id int64) error
}

type APIHandler struct {
	reservations ReservationService
	logger       *logger.Logger
	now          func() time.Time
}

func NewAPIHandler(reservations ReservationService, log *logger.Logger) *APIHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &APIHandler{
		reservations: reservations,
		logger:       log,
		now:          time.Now,
	}
}

// Register mounts the reservation routes on e.
func (h *APIHandler) Register(e *echo.Echo) {
	g := e.Group("/reservation")
	g.GET("", h.ListReservations)
	g.GET("/:id", h.GetReservation)
	g.POST("", h.CreateReservation)
	g.PUT("/:id", h.UpdateReservation)
	g.POST("/:id/approve", h.ApproveReservation)
	g.DELETE("/:id/cancel", h.CancelReservation)
	g.DELETE("/:id", h.DeleteReservation)
}

// reservationRequest is the body of create and update calls. id and status
// are decoded so the service can reject them on create.
type reservationRequest struct {
	ID        int64                    `json:"id"`
	UserID    *int64                   `json:"userId" validate:"required,gt=0"`
	RoomID    *int64                   `json:"roomId" validate:"required,gt=0"`
	StartDate *models.Date             `json:"startDate" validate:"required"`
	EndDate   *models.Date             `json:"endDate" validate:"required"`
	Status    models.ReservationStatus `json:"status"`
}

func (r reservationRequest) toModel() models.Reservation {
	return models.Reservation{
		ID:        r.ID,
		UserID:    *r.UserID,
		RoomID:    *r.RoomID,
		StartDate: *r.StartDate,
		EndDate:   *r.EndDate,
		Status:    r.Status,
	}
}

// GET /reservation/:id
func (h *APIHandler) GetReservation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	h.logger.Info("Called getReservationById", logger.Reservation(id))

	r, err := h.reservations.GetReservationByID(c.Request().Context(), id)
	if err != nil {
		return h.failure(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// GET /reservation
func (h *APIHandler) ListReservations(c echo.Context) error {
	h.logger.Info("Called getAllReservations")

	all, err := h.reservations.FindAllReservations(c.Request().Context())
	if err != nil {
		return h.failure(c, err)
	}
	return c.JSON(http.StatusOK, all)
}

// POST /reservation
func (h *APIHandler) CreateReservation(c echo.Context) error {
	req, err := bindReservation(c)
	if err != nil {
		return err
	}
	h.logger.Info("Called createReservation", logger.Room(*req.RoomID), logger.User(*req.UserID))

	created, err := h.reservations.CreateReservation(c.Request().Context(), req.toModel())
	if err != nil {
		return h.failure(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// PUT /reservation/:id
func (h *APIHandler) UpdateReservation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	req, err := bindReservation(c)
	if err != nil {
		return err
	}
	h.logger.Info("Called updateReservation", logger.Reservation(id), logger.Room(*req.RoomID))

	updated, err := h.reservations.UpdateReservation(c.Request().Context(), id, req.toModel())
	if err != nil {
		return h.failure(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// POST /reservation/:id/approve
func (h *APIHandler) ApproveReservation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	h.logger.Info("Called approveReservation", logger.Reservation(id))

	approved, err := h.reservations.ApproveReservation(c.Request().Context(), id)
	if err != nil {
		return h.failure(c, err)
	}
	return c.JSON(http.StatusOK, approved)
}

// DELETE /reservation/:id/cancel
func (h *APIHandler) CancelReservation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	h.logger.Info("Called cancelReservation", logger.Reservation(id))

	if err := h.reservations.CancelReservation(c.Request().Context(), id); err != nil {
		return h.failure(c, err)
	}
	return c.NoContent(http.StatusOK)
}

// DELETE /reservation/:id
func (h *APIHandler) DeleteReservation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	h.logger.Info("Called deleteReservation", logger.Reservation(id))

	if err := h.reservations.DeleteReservation(c.Request().Context(), id); err != nil {
		return h.failure(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid reservation id").SetInternal(err)
	}
	return id, nil
}

func bindReservation(c echo.Context) (reservationRequest, error) {
	var req reservationRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body").SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return req, nil
}

// failure renders a service error as an ErrorResponse.
func (h *APIHandler) failure(c echo.Context, err error) error {
	status, message := classify(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", logger.Path(c.Path()), logger.Error(err))
		detail = "unexpected error while processing the request"
	} else {
		h.logger.Warn("Request rejected", logger.Path(c.Path()), logger.HTTPStatus(status), logger.Reason(detail))
	}
	return c.JSON(status, h.errorResponse(message, detail))
}

func (h *APIHandler) errorResponse(message, detail string) models.ErrorResponse {
	return models.ErrorResponse{
		Message:         message,
		DetailedMessage: detail,
		ErrorTime:       h.now(),
	}
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Entity not found"
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "Bad request"
	case errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict, "Invalid reservation state"
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "Reservation conflict"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
