package dto

import (
	"fmt"
	"time"

	"ghumakad/internal/domains/booking/model"
	"ghumakad/internal/domains/listing"
	"ghumakad/shared"
	"ghumakad/shared/constant"
	gDto "ghumakad/shared/dto"
	gModel "ghumakad/shared/model"
	"ghumakad/shared/timezone"

	"github.com/google/uuid"
)

type CheckAvailabilityRequest struct {
	Type        string `json:"type"         validate:"required,oneof=hotel service experience"`
	ReferenceID string `json:"reference_id" validate:"required,uuid"`
	CheckIn     string `json:"check_in"     validate:"omitempty,datetime=2006-01-02"`
	CheckOut    string `json:"check_out"    validate:"omitempty,datetime=2006-01-02"`
	Date        string `json:"date"         validate:"omitempty,datetime=2006-01-02"`
	Guests      int    `json:"guests"       validate:"omitempty,min=1"`
	Rooms       int    `json:"rooms"        validate:"omitempty,min=1"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
	Remaining int  `json:"remaining"`
}

type CreateHotelBookingRequest struct {
	HotelID    string `json:"hotel_id"    validate:"required,uuid"`
	CheckIn    string `json:"check_in"    validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out"   validate:"required,datetime=2006-01-02"`
	Guests     int    `json:"guests"      validate:"required,min=1"`
	Rooms      int    `json:"rooms"       validate:"required,min=1"`
	TotalPrice int64  `json:"total_price" validate:"required,min=0"`
}

func (c *CreateHotelBookingRequest) Dates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = ParseDate(c.CheckIn)
	if err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = ParseDate(c.CheckOut)

	return checkIn, checkOut, err
}

func (c *CreateHotelBookingRequest) ToModel(user string, checkIn, checkOut time.Time) model.Booking {
	return model.Booking{
		ID:          uuid.NewString(),
		UserID:      user,
		Type:        listing.KindHotel,
		ReferenceID: c.HotelID,
		CheckIn:     &checkIn,
		CheckOut:    &checkOut,
		Guests:      c.Guests,
		Rooms:       c.Rooms,
		TotalPrice:  c.TotalPrice,
		Status:      constant.BookingStatusConfirmed,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// ConfirmBookingRequest carries a verified payment into a reservation. It is
// built by the payment flow after the gateway signature has been checked.
type ConfirmBookingRequest struct {
	Type        listing.Kind
	ReferenceID string
	UserID      string
	CheckIn     *time.Time
	CheckOut    *time.Time
	DateTime    *time.Time
	Guests      int
	Rooms       int
	TotalPrice  int64
	PaymentID   string
	OrderID     string
}

func (c *ConfirmBookingRequest) ToModel() model.Booking {
	return model.Booking{
		ID:          uuid.NewString(),
		UserID:      c.UserID,
		Type:        c.Type,
		ReferenceID: c.ReferenceID,
		CheckIn:     c.CheckIn,
		CheckOut:    c.CheckOut,
		DateTime:    c.DateTime,
		Guests:      c.Guests,
		Rooms:       c.Rooms,
		TotalPrice:  c.TotalPrice,
		Status:      constant.BookingStatusConfirmed,
		PaymentID:   c.PaymentID,
		OrderID:     c.OrderID,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  c.UserID,
			ModifiedBy: c.UserID,
		},
	}
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// CancelBookingResponse reports a completed cancellation. Warnings carry
// refund or notification follow-ups that failed after the booking state
// change was already durable.
type CancelBookingResponse struct {
	BookingID string   `json:"booking_id"`
	RefundID  string   `json:"refund_id,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

type ListingSummaryResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Kind     string `json:"kind"`
}

func (r *ListingSummaryResponse) FromSummary(summary listing.Summary) {
	r.ID = summary.ID
	r.Title = summary.Title
	r.Location = summary.Location
	r.Kind = string(summary.Kind)
}

type BookingResponse struct {
	ID           string                 `json:"id"`
	UserID       string                 `json:"user_id"`
	Type         string                 `json:"type"`
	ReferenceID  string                 `json:"reference_id"`
	CheckIn      *time.Time             `json:"check_in,omitempty"`
	CheckOut     *time.Time             `json:"check_out,omitempty"`
	DateTime     *time.Time             `json:"date_time,omitempty"`
	Guests       int                    `json:"guests"`
	Rooms        int                    `json:"rooms"`
	TotalPrice   int64                  `json:"total_price"`
	Status       string                 `json:"status"`
	CancelReason string                 `json:"cancel_reason,omitempty"`
	Listing      ListingSummaryResponse `json:"listing"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.Type = string(model.Type)
	r.ReferenceID = model.ReferenceID
	r.CheckIn = model.CheckIn
	r.CheckOut = model.CheckOut
	r.DateTime = model.DateTime
	r.Guests = model.Guests
	r.Rooms = model.Rooms
	r.TotalPrice = model.TotalPrice
	r.Status = model.Status
	r.CancelReason = model.CancelReason
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type DashboardResponse struct {
	TotalListings int     `json:"total_listings"`
	TotalBookings int     `json:"total_bookings"`
	TotalEarnings int64   `json:"total_earnings"`
	AverageRating float64 `json:"average_rating"`
}

type ListingStatsResponse struct {
	ReferenceID   string `json:"reference_id"`
	TotalBookings int    `json:"total_bookings"`
	TotalEarnings int64  `json:"total_earnings"`
	Range         string `json:"range,omitempty"`
}

func ParseDate(value string) (time.Time, error) {
	parsed, err := timezone.Parse(constant.DateOnlyFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", value, err)
	}

	return parsed, nil
}
