package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/airline-booking/internal/service/booking"
	"github.com/Domenick1991/airline-booking/internal/service/loyalty"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	bookings booking.BookingUseCase
	loyalty  loyalty.LoyaltyUseCase
	now      func() time.Time
}

func NewUserHandler(bookings booking.BookingUseCase, loyalty loyalty.LoyaltyUseCase) *UserHandler {
	return &UserHandler{bookings: bookings, loyalty: loyalty, now: time.Now}
}

func (h *UserHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id/bookings", h.bookingHistory)
	router.GET("/:id/loyalty-points", h.loyaltyPoints)
}

func (h *UserHandler) bookingHistory(c *gin.Context) {
	list, err := h.bookings.ListUserBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(list))
}

func (h *UserHandler) loyaltyPoints(c *gin.Context) {
	summary, err := h.loyalty.Balance(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLoyaltyResponse(summary, h.now()))
}
