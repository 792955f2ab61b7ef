package domain

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "AVAILABLE"
	SeatStatusReserved  SeatStatus = "RESERVED"
	SeatStatusOccupied  SeatStatus = "OCCUPIED"
)

type SeatClass string

const (
	SeatClassEconomy  SeatClass = "ECONOMY"
	SeatClassBusiness SeatClass = "BUSINESS"
	SeatClassFirst    SeatClass = "FIRST"
)

type Seat struct {
	ID              string
	FlightID        string
	SeatNumber      string // row + letter, e.g. 12A
	Class           SeatClass
	Status          SeatStatus
	PriceDeltaCents int64
	BookingID       *string
}
