package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/seats", h.seats)
}

func (h *FlightHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lo.Map(list, func(f domain.Flight, _ int) flightResponse {
		return toFlightResponse(f)
	}))
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(*flight))
}

// seats accepts ?available=true to hide reserved and occupied seats.
func (h *FlightHandler) seats(c *gin.Context) {
	onlyAvailable := false
	if raw := c.Query("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, fmt.Errorf("invalid available flag %q", raw))
			return
		}
		onlyAvailable = v
	}

	seats, err := h.service.Seats(c.Request.Context(), c.Param("id"), onlyAvailable)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSeatResponses(seats))
}
