package model

import (
	"time"

	"ghumakad/internal/domains/listing"
	"ghumakad/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID           = "id"
	FieldUserID       = "user_id"
	FieldType         = "type"
	FieldReferenceID  = "reference_id"
	FieldCheckIn      = "check_in"
	FieldCheckOut     = "check_out"
	FieldDateTime     = "date_time"
	FieldGuests       = "guests"
	FieldRooms        = "rooms"
	FieldTotalPrice   = "total_price"
	FieldStatus       = "status"
	FieldCancelReason = "cancel_reason"
	FieldPaymentID    = "payment_id"
	FieldOrderID      = "order_id"
)

// Booking rows are never deleted, cancellation mutates status only.
type Booking struct {
	ID           string       `db:"id"`
	UserID       string       `db:"user_id"`
	Type         listing.Kind `db:"type"`
	ReferenceID  string       `db:"reference_id"`
	CheckIn      *time.Time   `db:"check_in"`
	CheckOut     *time.Time   `db:"check_out"`
	DateTime     *time.Time   `db:"date_time"`
	Guests       int          `db:"guests"`
	Rooms        int          `db:"rooms"`
	TotalPrice   int64        `db:"total_price"`
	Status       string       `db:"status"`
	CancelReason string       `db:"cancel_reason"`
	PaymentID    string       `db:"payment_id"`
	OrderID      string       `db:"order_id"`
	model.Metadata
}

// EventTime is the moment the cancellation lead-time rule is measured
// against: check-in for hotel stays, the scheduled date for the rest.
func (b *Booking) EventTime() time.Time {
	if b.Type == listing.KindHotel {
		if b.CheckIn != nil {
			return *b.CheckIn
		}

		return time.Time{}
	}

	if b.DateTime != nil {
		return *b.DateTime
	}

	return time.Time{}
}

// Units is the share of listing capacity the booking consumes.
func (b *Booking) Units() int {
	if b.Type == listing.KindHotel {
		return b.Rooms
	}

	return b.Guests
}
