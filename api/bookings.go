package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

// UserHeader carries the caller's user id.
const UserHeader = "X-User-ID"

type BookingHandler struct {
	service booking.BookingUseCase
}

type passengerRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DocumentNumber string `json:"document_number"`
	DateOfBirth    string `json:"date_of_birth"`
}

type createBookingRequest struct {
	FlightID        string             `json:"flight_id" binding:"required"`
	Passengers      []passengerRequest `json:"passengers" binding:"required"`
	SeatIDs         []string           `json:"seat_ids" binding:"required"`
	TotalPriceCents int64              `json:"total_price_cents"`
}

type paymentRequest struct {
	AmountCents   int64  `json:"amount_cents"`
	Method        string `json:"method" binding:"required"`
	CardNumber    string `json:"card_number"`
	CardHolder    string `json:"card_holder"`
	AccountNumber string `json:"account_number"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
	router.POST("/:id/payments", h.pay)
	router.GET("/:id/payment", h.paymentStatus)
	router.POST("/:id/refund", h.refund)
	router.POST("/:id/complete", h.complete)
	router.GET("/:id/expired", h.expired)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	passengers := make([]domain.Passenger, 0, len(req.Passengers))
	for i, p := range req.Passengers {
		dob, err := time.Parse(dateLayout, p.DateOfBirth)
		if err != nil {
			badRequest(c, fmt.Errorf("passenger %d: date_of_birth must be YYYY-MM-DD", i+1))
			return
		}
		passengers = append(passengers, domain.Passenger{
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			DocumentNumber: p.DocumentNumber,
			DateOfBirth:    dob,
		})
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		FlightID:        req.FlightID,
		UserID:          c.GetHeader(UserHeader),
		Passengers:      passengers,
		SeatIDs:         req.SeatIDs,
		TotalPriceCents: req.TotalPriceCents,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(*created))
}

func (h *BookingHandler) get(c *gin.Context) {
	details, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingDetailsResponse(details))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	h.transition(c, h.service.CancelBooking)
}

func (h *BookingHandler) refund(c *gin.Context) {
	h.transition(c, h.service.RefundBooking)
}

func (h *BookingHandler) complete(c *gin.Context) {
	h.transition(c, h.service.CompleteBooking)
}

func (h *BookingHandler) transition(c *gin.Context, apply func(ctx context.Context, id string) (*domain.Booking, error)) {
	updated, err := apply(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(*updated))
}

func (h *BookingHandler) pay(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.service.ProcessPayment(c.Request.Context(), booking.ProcessPaymentInput{
		BookingID:   c.Param("id"),
		AmountCents: req.AmountCents,
		Method:      domain.PaymentMethod(req.Method),
		Details: domain.PaymentDetails{
			CardNumber:    req.CardNumber,
			CardHolder:    req.CardHolder,
			AccountNumber: req.AccountNumber,
		},
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPaymentResultResponse(result))
}

func (h *BookingHandler) paymentStatus(c *gin.Context) {
	summary, err := h.service.PaymentStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentStatusResponse(summary))
}

func (h *BookingHandler) expired(c *gin.Context) {
	id := c.Param("id")
	expired, err := h.service.IsExpired(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking_id": id, "expired": expired})
}
