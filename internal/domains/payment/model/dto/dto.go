package dto

import (
	"time"

	"ghumakad/infras/razorpay"
	bookingDto "ghumakad/internal/domains/booking/model/dto"
	"ghumakad/internal/domains/listing"
)

type CreateOrderRequest struct {
	Amount int64 `json:"amount" validate:"required,min=1"`
}

type OrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

func (r *OrderResponse) FromOrder(order razorpay.Order) {
	r.OrderID = order.ID
	r.Amount = order.Amount
	r.Currency = order.Currency
	r.Receipt = order.Receipt
}

// BookingDetails describes the reservation a verified payment should create.
type BookingDetails struct {
	Type        string `json:"type"         validate:"required,oneof=hotel service experience"`
	ReferenceID string `json:"reference_id" validate:"required,uuid"`
	CheckIn     string `json:"check_in"     validate:"omitempty,datetime=2006-01-02"`
	CheckOut    string `json:"check_out"    validate:"omitempty,datetime=2006-01-02"`
	DateTime    string `json:"date_time"    validate:"omitempty"`
	Guests      int    `json:"guests"       validate:"omitempty,min=1"`
	Rooms       int    `json:"rooms"        validate:"omitempty,min=1"`
	TotalPrice  int64  `json:"total_price"  validate:"required,min=0"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string          `json:"razorpay_order_id"   validate:"required"`
	RazorpayPaymentID string          `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string          `json:"razorpay_signature"  validate:"required"`
	BookingDetails    *BookingDetails `json:"booking_details"     validate:"required"`
}

func (v *VerifyPaymentRequest) ToConfirmRequest(user string, checkIn, checkOut, dateTime *time.Time) bookingDto.ConfirmBookingRequest {
	details := v.BookingDetails

	return bookingDto.ConfirmBookingRequest{
		Type:        listing.Kind(details.Type),
		ReferenceID: details.ReferenceID,
		UserID:      user,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		DateTime:    dateTime,
		Guests:      details.Guests,
		Rooms:       details.Rooms,
		TotalPrice:  details.TotalPrice,
		PaymentID:   v.RazorpayPaymentID,
		OrderID:     v.RazorpayOrderID,
	}
}

type VerifyPaymentResponse struct {
	Booking  bookingDto.BookingResponse `json:"booking"`
	Warnings []string                   `json:"warnings,omitempty"`
}
