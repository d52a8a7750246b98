package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"ghumakad/infras/otel"
	"ghumakad/infras/razorpay"
	bookingDto "ghumakad/internal/domains/booking/model/dto"
	bookingService "ghumakad/internal/domains/booking/service"
	"ghumakad/internal/domains/listing"
	"ghumakad/internal/domains/payment/model/dto"
	"ghumakad/shared/constant"
	"ghumakad/shared/failure"
	"ghumakad/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Payment interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (dto.OrderResponse, error)
	VerifyPayment(ctx context.Context, req dto.VerifyPaymentRequest) (dto.VerifyPaymentResponse, error)
}

type serviceImpl struct {
	gateway razorpay.Gateway
	booking bookingService.Booking
	otel    otel.Otel
}

func New(gateway razorpay.Gateway, booking bookingService.Booking, otel otel.Otel) Payment {
	return &serviceImpl{
		gateway: gateway,
		booking: booking,
		otel:    otel,
	}
}

func (s *serviceImpl) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (res dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateOrder")
	defer scope.End()
	defer scope.TraceIfError(err)

	receipt := fmt.Sprintf("rcpt_%d", timezone.Now().UnixNano())

	order, err := s.gateway.CreateOrder(ctx, req.Amount, receipt)
	if err != nil {
		log.Error().Err(err).Msg("failed to create payment order")

		return res, failure.UpstreamFailure("failed to create payment order") // nolint:wrapcheck
	}

	res.FromOrder(order)

	return res, nil
}

// VerifyPayment authenticates the gateway callback and turns it into a
// reservation. The signature is recomputed locally and compared in constant
// time; only then is the booking reserved.
func (s *serviceImpl) VerifyPayment(ctx context.Context, req dto.VerifyPaymentRequest) (res dto.VerifyPaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".VerifyPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !s.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		log.Warn().Str("order", req.RazorpayOrderID).Msg("payment signature mismatch")

		return res, failure.InvalidSignatureError // nolint:wrapcheck
	}

	checkIn, checkOut, dateTime, err := parseBookingDates(req.BookingDetails)
	if err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, warnings, err := s.booking.ConfirmPaid(ctx, req.ToConfirmRequest(user, checkIn, checkOut, dateTime))
	if err != nil {
		return res, err
	}

	res.Booking = booking
	res.Warnings = warnings

	return res, nil
}

func parseBookingDates(details *dto.BookingDetails) (checkIn, checkOut, dateTime *time.Time, err error) {
	if listing.Kind(details.Type) == listing.KindHotel {
		if details.CheckIn == constant.Empty || details.CheckOut == constant.Empty {
			return nil, nil, nil, failure.BadRequestFromString("check_in and check_out are required for hotel bookings")
		}

		in, parseErr := bookingDto.ParseDate(details.CheckIn)
		if parseErr != nil {
			return nil, nil, nil, failure.BadRequestFromString("invalid check_in date")
		}

		out, parseErr := bookingDto.ParseDate(details.CheckOut)
		if parseErr != nil {
			return nil, nil, nil, failure.BadRequestFromString("invalid check_out date")
		}

		if !in.Before(out) {
			return nil, nil, nil, failure.BadRequestFromString("check_out must be after check_in")
		}

		return &in, &out, nil, nil
	}

	if details.DateTime == constant.Empty {
		return nil, nil, nil, failure.BadRequestFromString("date_time is required")
	}

	at, parseErr := timezone.Parse(time.RFC3339, details.DateTime)
	if parseErr != nil {
		if at, parseErr = bookingDto.ParseDate(details.DateTime); parseErr != nil {
			return nil, nil, nil, failure.BadRequestFromString("invalid date_time")
		}
	}

	return nil, nil, &at, nil
}
