package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"ghumakad/config"
	kafkaMocks "ghumakad/infras/kafka/mocks"
	mailerMocks "ghumakad/infras/mailer/mocks"
	"ghumakad/infras/otel/mocks"
	"ghumakad/infras/razorpay"
	razorpayMocks "ghumakad/infras/razorpay/mocks"
	bookingMocks "ghumakad/internal/domains/booking/mocks"
	bookingService "ghumakad/internal/domains/booking/service"
	"ghumakad/internal/domains/listing"
	listingMocks "ghumakad/internal/domains/listing/mocks"
	"ghumakad/internal/domains/payment/model/dto"
	"ghumakad/internal/domains/payment/service"
	reviewMocks "ghumakad/internal/domains/review/mocks"
	userMocks "ghumakad/internal/domains/user/mocks"
	userModel "ghumakad/internal/domains/user/model"
	"ghumakad/shared/constant"
	"ghumakad/shared/failure"
)

type paymentFixture struct {
	gateway      *razorpayMocks.MockGateway
	bookingRepo  *bookingMocks.MockBooking
	userRepo     *userMocks.MockUser
	mailer       *mailerMocks.MockMailer
	serviceStore *listingMocks.MockStore
	svc          service.Payment
}

// The fixture wires the payment service to a real booking service so a
// verified payment exercises the whole reservation path.
func newPaymentFixture(ctrl *gomock.Controller) *paymentFixture {
	f := &paymentFixture{
		gateway:      razorpayMocks.NewMockGateway(ctrl),
		bookingRepo:  bookingMocks.NewMockBooking(ctrl),
		userRepo:     userMocks.NewMockUser(ctrl),
		mailer:       mailerMocks.NewMockMailer(ctrl),
		serviceStore: listingMocks.NewMockStore(ctrl),
	}

	resolver := listing.NewResolver(
		listingMocks.NewMockStore(ctrl),
		f.serviceStore,
		listingMocks.NewMockStore(ctrl),
	)

	booking := bookingService.New(
		f.bookingRepo,
		f.userRepo,
		reviewMocks.NewMockReview(ctrl),
		resolver,
		f.gateway,
		f.mailer,
		kafkaMocks.NewMockClient(ctrl),
		&config.Config{},
		mocks.NewOtel(),
	)

	f.svc = service.New(f.gateway, booking, mocks.NewOtel())

	return f
}

func TestPaymentService_CreateOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newPaymentFixture(ctrl)

	tests := []struct {
		name      string
		req       dto.CreateOrderRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful order",
			req:  dto.CreateOrderRequest{Amount: 12000},
			setupMock: func() {
				f.gateway.EXPECT().
					CreateOrder(gomock.Any(), int64(12000), gomock.Any()).
					Return(razorpay.Order{
						ID:       "order_abc123",
						Amount:   12000,
						Currency: "INR",
						Receipt:  "rcpt_1",
					}, nil)
			},
		},
		{
			name: "gateway failure",
			req:  dto.CreateOrderRequest{Amount: 12000},
			setupMock: func() {
				f.gateway.EXPECT().
					CreateOrder(gomock.Any(), int64(12000), gomock.Any()).
					Return(razorpay.Order{}, errors.New("gateway unavailable"))
			},
			wantErr:  true,
			wantCode: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := f.svc.CreateOrder(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "order_abc123", result.OrderID)
			assert.Equal(t, "INR", result.Currency)
		})
	}
}

func TestPaymentService_VerifyPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newPaymentFixture(ctrl)

	serviceSummary := listing.Summary{
		ID:       "service-id-123",
		HostID:   "host-id-123",
		Title:    "Ayurvedic Massage",
		Capacity: 10,
		Kind:     listing.KindService,
	}

	serviceLock := listing.Lock{
		Kind:           listing.KindService,
		Table:          "services",
		CapacityColumn: "max_guests",
		ID:             "service-id-123",
	}

	validReq := dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_abc123",
		RazorpayPaymentID: "pay_abc123",
		RazorpaySignature: "valid-signature",
		BookingDetails: &dto.BookingDetails{
			Type:        "service",
			ReferenceID: "service-id-123",
			DateTime:    "2026-06-10",
			Guests:      2,
			TotalPrice:  4000,
		},
	}

	tests := []struct {
		name         string
		req          dto.VerifyPaymentRequest
		setupMock    func()
		wantErr      bool
		wantCode     int
		wantWarnings int
	}{
		{
			name: "verified payment creates the booking",
			req:  validReq,
			setupMock: func() {
				f.gateway.EXPECT().
					VerifySignature("order_abc123", "pay_abc123", "valid-signature").
					Return(true)

				f.serviceStore.EXPECT().
					Summary(gomock.Any(), "service-id-123").
					Return(serviceSummary, nil)

				f.serviceStore.EXPECT().
					Lock("service-id-123").
					Return(serviceLock)

				f.bookingRepo.EXPECT().
					Reserve(gomock.Any(), gomock.Any(), serviceLock).
					Return(2, nil)

				f.userRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{
						ID:       "user-id-123",
						Username: "traveller",
						Email:    "traveller@example.com",
					}, nil)

				f.mailer.EXPECT().
					SendBookingConfirmation(gomock.Any(), "traveller@example.com", gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "confirmation email failure is a warning",
			req:  validReq,
			setupMock: func() {
				f.gateway.EXPECT().
					VerifySignature("order_abc123", "pay_abc123", "valid-signature").
					Return(true)

				f.serviceStore.EXPECT().
					Summary(gomock.Any(), "service-id-123").
					Return(serviceSummary, nil)

				f.serviceStore.EXPECT().
					Lock("service-id-123").
					Return(serviceLock)

				f.bookingRepo.EXPECT().
					Reserve(gomock.Any(), gomock.Any(), serviceLock).
					Return(2, nil)

				f.userRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{
						ID:       "user-id-123",
						Username: "traveller",
						Email:    "traveller@example.com",
					}, nil)

				f.mailer.EXPECT().
					SendBookingConfirmation(gomock.Any(), "traveller@example.com", gomock.Any()).
					Return(errors.New("smtp timeout"))
			},
			wantWarnings: 1,
		},
		{
			name: "tampered signature",
			req: dto.VerifyPaymentRequest{
				RazorpayOrderID:   "order_abc123",
				RazorpayPaymentID: "pay_abc123",
				RazorpaySignature: "forged-signature",
				BookingDetails:    validReq.BookingDetails,
			},
			setupMock: func() {
				f.gateway.EXPECT().
					VerifySignature("order_abc123", "pay_abc123", "forged-signature").
					Return(false)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "missing date for a service booking",
			req: dto.VerifyPaymentRequest{
				RazorpayOrderID:   "order_abc123",
				RazorpayPaymentID: "pay_abc123",
				RazorpaySignature: "valid-signature",
				BookingDetails: &dto.BookingDetails{
					Type:        "service",
					ReferenceID: "service-id-123",
					Guests:      2,
					TotalPrice:  4000,
				},
			},
			setupMock: func() {
				f.gateway.EXPECT().
					VerifySignature("order_abc123", "pay_abc123", "valid-signature").
					Return(true)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "hotel details without check out",
			req: dto.VerifyPaymentRequest{
				RazorpayOrderID:   "order_abc123",
				RazorpayPaymentID: "pay_abc123",
				RazorpaySignature: "valid-signature",
				BookingDetails: &dto.BookingDetails{
					Type:        "hotel",
					ReferenceID: "hotel-id-123",
					CheckIn:     "2026-06-05",
					Rooms:       1,
					TotalPrice:  6000,
				},
			},
			setupMock: func() {
				f.gateway.EXPECT().
					VerifySignature("order_abc123", "pay_abc123", "valid-signature").
					Return(true)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-id-123")
			result, err := f.svc.VerifyPayment(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, result.Booking.ID)
			assert.Equal(t, constant.BookingStatusConfirmed, result.Booking.Status)
			assert.Equal(t, serviceSummary.Title, result.Booking.Listing.Title)
			assert.Len(t, result.Warnings, tt.wantWarnings)
		})
	}
}
