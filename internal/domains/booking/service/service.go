package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"ghumakad/config"
	"ghumakad/infras/kafka"
	"ghumakad/infras/mailer"
	"ghumakad/infras/otel"
	"ghumakad/infras/razorpay"
	"ghumakad/internal/domains/booking/model"
	"ghumakad/internal/domains/booking/model/dto"
	"ghumakad/internal/domains/booking/repository"
	"ghumakad/internal/domains/listing"
	reviewRepository "ghumakad/internal/domains/review/repository"
	userModel "ghumakad/internal/domains/user/model"
	userRepository "ghumakad/internal/domains/user/repository"
	"ghumakad/shared"
	"ghumakad/shared/constant"
	gDto "ghumakad/shared/dto"
	"ghumakad/shared/failure"
	"ghumakad/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	eventBookingConfirmed = "booking.confirmed"
	eventBookingCancelled = "booking.cancelled"
)

// BookingEvent is the payload published to the booking events topic.
type BookingEvent struct {
	Event       string    `json:"event"`
	BookingID   string    `json:"booking_id"`
	Type        string    `json:"type"`
	ReferenceID string    `json:"reference_id"`
	UserID      string    `json:"user_id"`
	TotalPrice  int64     `json:"total_price"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Booking interface {
	CheckAvailability(ctx context.Context, req dto.CheckAvailabilityRequest) (dto.AvailabilityResponse, error)
	CreateHotelBooking(ctx context.Context, req dto.CreateHotelBookingRequest) (dto.BookingResponse, error)
	ConfirmPaid(ctx context.Context, req dto.ConfirmBookingRequest) (dto.BookingResponse, []string, error)
	MyBookings(ctx context.Context, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	CancelByHost(ctx context.Context, kind listing.Kind, bookingID, reason string) (dto.CancelBookingResponse, error)
	Dashboard(ctx context.Context, kind listing.Kind) (dto.DashboardResponse, error)
	ListingStats(ctx context.Context, kind listing.Kind, referenceID, lookback string) (dto.ListingStatsResponse, error)
}

type serviceImpl struct {
	repo       repository.Booking
	userRepo   userRepository.User
	reviewRepo reviewRepository.Review
	resolver   *listing.Resolver
	gateway    razorpay.Gateway
	mailer     mailer.Mailer
	kafka      kafka.Client
	cfg        *config.Config
	otel       otel.Otel
}

func New(
	repo repository.Booking,
	userRepo userRepository.User,
	reviewRepo reviewRepository.Review,
	resolver *listing.Resolver,
	gateway razorpay.Gateway,
	mailer mailer.Mailer,
	kafka kafka.Client,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		resolver:   resolver,
		gateway:    gateway,
		mailer:     mailer,
		kafka:      kafka,
		cfg:        cfg,
		otel:       otel,
	}
}

func (s *serviceImpl) CheckAvailability(ctx context.Context, req dto.CheckAvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	kind := listing.Kind(req.Type)

	summary, err := s.resolver.Summary(ctx, kind, req.ReferenceID)
	if err != nil {
		return res, err
	}

	if summary.ID == constant.Empty {
		return res, failure.NotFound("listing not found") // nolint:wrapcheck
	}

	units := req.Rooms
	if kind != listing.KindHotel {
		units = req.Guests
	}

	if units <= 0 {
		return res, failure.BadRequestFromString("requested units must be a positive number")
	}

	remaining, err := s.remainingCapacity(ctx, summary, req)
	if err != nil {
		return res, err
	}

	res.Remaining = remaining
	res.Available = remaining >= units

	return res, nil
}

func (s *serviceImpl) remainingCapacity(ctx context.Context, summary listing.Summary, req dto.CheckAvailabilityRequest) (int, error) {
	if summary.Kind == listing.KindHotel {
		if req.CheckIn == constant.Empty || req.CheckOut == constant.Empty {
			return 0, failure.BadRequestFromString("check_in and check_out are required for hotel availability")
		}

		checkIn, err := dto.ParseDate(req.CheckIn)
		if err != nil {
			return 0, failure.BadRequestFromString("invalid check_in date")
		}

		checkOut, err := dto.ParseDate(req.CheckOut)
		if err != nil {
			return 0, failure.BadRequestFromString("invalid check_out date")
		}

		if !checkIn.Before(checkOut) {
			return 0, failure.BadRequestFromString("check_out must be after check_in")
		}

		booked, err := s.repo.SumOverlappingRooms(ctx, summary.ID, checkIn, checkOut)
		if err != nil {
			log.Error().Err(err).Msg("failed to sum overlapping rooms")

			return 0, fmt.Errorf("failed to sum overlapping rooms: %w", err)
		}

		return summary.Capacity - booked, nil
	}

	if req.Date == constant.Empty {
		return 0, failure.BadRequestFromString("date is required for availability")
	}

	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return 0, failure.BadRequestFromString("invalid date")
	}

	booked, err := s.repo.SumGuestsOn(ctx, summary.Kind, summary.ID, date)
	if err != nil {
		log.Error().Err(err).Msg("failed to sum booked guests")

		return 0, fmt.Errorf("failed to sum booked guests: %w", err)
	}

	return summary.Capacity - booked, nil
}

// CreateHotelBooking reserves rooms for the caller. The capacity check and
// the insert run in one transaction so concurrent requests for the same
// hotel cannot oversell.
func (s *serviceImpl) CreateHotelBooking(ctx context.Context, req dto.CreateHotelBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateHotelBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	checkIn, checkOut, err := req.Dates()
	if err != nil {
		return res, failure.BadRequestFromString("invalid check-in or check-out date")
	}

	if !checkIn.Before(checkOut) {
		return res, failure.BadRequestFromString("check_out must be after check_in")
	}

	store, err := s.resolver.Store(listing.KindHotel)
	if err != nil {
		return res, err
	}

	summary, err := store.Summary(ctx, req.HotelID)
	if err != nil {
		return res, err
	}

	if summary.ID == constant.Empty {
		return res, failure.NotFound("hotel not found") // nolint:wrapcheck
	}

	booking := req.ToModel(user, checkIn, checkOut)

	if _, err = s.repo.Reserve(ctx, booking, store.Lock(req.HotelID)); err != nil {
		return res, s.mapReserveError(err, summary.Kind)
	}

	s.publishEvent(ctx, eventBookingConfirmed, booking)

	res.FromModel(booking)
	res.Listing.FromSummary(summary)

	return res, nil
}

// ConfirmPaid persists a booking whose payment has already been verified.
// The returned warnings report notification follow-ups that failed after
// the reservation was committed.
func (s *serviceImpl) ConfirmPaid(ctx context.Context, req dto.ConfirmBookingRequest) (res dto.BookingResponse, warnings []string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ConfirmPaid")
	defer scope.End()
	defer scope.TraceIfError(err)

	store, err := s.resolver.Store(req.Type)
	if err != nil {
		return res, nil, err
	}

	summary, err := store.Summary(ctx, req.ReferenceID)
	if err != nil {
		return res, nil, err
	}

	if summary.ID == constant.Empty {
		return res, nil, failure.NotFound("listing not found") // nolint:wrapcheck
	}

	booking := req.ToModel()

	if _, err = s.repo.Reserve(ctx, booking, store.Lock(req.ReferenceID)); err != nil {
		return res, nil, s.mapReserveError(err, summary.Kind)
	}

	// The reservation is durable from here on. Email and event delivery
	// failures are reported, never rolled back.
	if warning := s.sendConfirmation(ctx, booking, summary); warning != constant.Empty {
		warnings = append(warnings, warning)
	}

	s.publishEvent(ctx, eventBookingConfirmed, booking)

	res.FromModel(booking)
	res.Listing.FromSummary(summary)

	return res, warnings, nil
}

func (s *serviceImpl) mapReserveError(err error, kind listing.Kind) error {
	var capacityErr *repository.CapacityExceededError

	switch {
	case errors.As(err, &capacityErr):
		unit := "guest slots"
		if kind == listing.KindHotel {
			unit = "rooms"
		}

		return failure.CapacityExceeded(capacityErr.Available, unit) // nolint:wrapcheck
	case errors.Is(err, repository.ErrListingGone):
		return failure.NotFound("listing not found") // nolint:wrapcheck
	default:
		log.Error().Err(err).Msg("failed to reserve booking")

		return fmt.Errorf("failed to reserve booking: %w", err)
	}
}

func (s *serviceImpl) sendConfirmation(ctx context.Context, booking model.Booking, summary listing.Summary) string {
	user, err := s.userRepo.Get(ctx, shared.FilterByID(booking.UserID, userModel.FieldID, userModel.TableName))
	if err != nil || user.Email == constant.Empty {
		log.Warn().Str("user", booking.UserID).Msg("no contact email for booking confirmation")

		return "confirmation email skipped: no contact email"
	}

	if err := s.mailer.SendBookingConfirmation(ctx, user.Email, bookingEmail(booking, summary, user.Username, constant.Empty)); err != nil {
		log.Error().Err(err).Str("booking", booking.ID).Msg("failed to send booking confirmation")

		return "confirmation email failed"
	}

	return constant.Empty
}

func bookingEmail(booking model.Booking, summary listing.Summary, username, reason string) mailer.BookingEmail {
	email := mailer.BookingEmail{
		Username:   username,
		Title:      summary.Title,
		Type:       string(booking.Type),
		Location:   summary.Location,
		Guests:     booking.Guests,
		Rooms:      booking.Rooms,
		TotalPrice: booking.TotalPrice,
		Reason:     reason,
	}

	if booking.CheckIn != nil {
		email.CheckIn = *booking.CheckIn
	}

	if booking.CheckOut != nil {
		email.CheckOut = *booking.CheckOut
	}

	if booking.DateTime != nil {
		email.DateTime = *booking.DateTime
	}

	return email
}

func (s *serviceImpl) publishEvent(ctx context.Context, event string, booking model.Booking) {
	if s.cfg.Kafka.Topics.BookingEvents == constant.Empty {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		payload := BookingEvent{
			Event:       event,
			BookingID:   booking.ID,
			Type:        string(booking.Type),
			ReferenceID: booking.ReferenceID,
			UserID:      booking.UserID,
			TotalPrice:  booking.TotalPrice,
			OccurredAt:  timezone.Now(),
		}

		message := kafka.Message{Key: booking.ID, Value: payload}

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.BookingEvents, message); err != nil {
			log.Error().Err(err).Str("booking", booking.ID).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) MyBookings(ctx context.Context, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MyBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	params.SortBy = fmt.Sprintf("%s.%s", model.TableName, constant.FieldCreatedAt)
	params.SortDir = gDto.SortDirDesc

	filter := shared.FilterByID(user, model.FieldUserID, model.TableName)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	// Listing summaries are resolved per booking; listings deleted since
	// the booking keep only their reference id.
	for i, booking := range models {
		summary, summaryErr := s.resolver.Summary(ctx, booking.Type, booking.ReferenceID)
		if summaryErr != nil || summary.ID == constant.Empty {
			res.Bookings[i].Listing = dto.ListingSummaryResponse{ID: booking.ReferenceID, Kind: string(booking.Type)}

			continue
		}

		res.Bookings[i].Listing.FromSummary(summary)
	}

	return res, nil
}

// CancelByHost cancels a booking on the owning host's behalf. The checks run
// strictly in order: existence, ownership, current status, lead time. Refund
// and notification failures surface as warnings on a successful result.
func (s *serviceImpl) CancelByHost(ctx context.Context, kind listing.Kind, bookingID, reason string) (res dto.CancelBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelByHost")
	defer scope.End()
	defer scope.TraceIfError(err)

	host, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.repo.Get(ctx, shared.FilterByID(bookingID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty || booking.Type != kind {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	summary, err := s.resolver.Summary(ctx, booking.Type, booking.ReferenceID)
	if err != nil {
		return res, err
	}

	if summary.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if summary.HostID != host {
		return res, failure.Forbidden("booking does not belong to this host") // nolint:wrapcheck
	}

	if booking.Status == constant.BookingStatusCancelled {
		return res, failure.BadRequestFromString("booking is already cancelled")
	}

	// Cancellation right at the lead-time boundary is still allowed.
	if booking.EventTime().Sub(timezone.Now()) < constant.CancellationLeadTime {
		return res, failure.BadRequestFromString("bookings can only be cancelled at least 24 hours in advance")
	}

	updatedFields := map[string]any{
		model.FieldStatus:        constant.BookingStatusCancelled,
		model.FieldCancelReason:  reason,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: host,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(bookingID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return res, fmt.Errorf("failed to cancel booking: %w", err)
	}

	res.BookingID = bookingID

	if booking.PaymentID != constant.Empty {
		refundID, refundErr := s.gateway.Refund(ctx, booking.PaymentID, booking.TotalPrice)
		if refundErr != nil {
			log.Error().Err(refundErr).Str("booking", bookingID).Msg("failed to refund cancelled booking")
			res.Warnings = append(res.Warnings, "refund failed, follow up with the payment gateway")
		} else {
			res.RefundID = refundID
		}
	}

	if warning := s.sendCancellation(ctx, booking, summary, reason); warning != constant.Empty {
		res.Warnings = append(res.Warnings, warning)
	}

	booking.Status = constant.BookingStatusCancelled
	s.publishEvent(ctx, eventBookingCancelled, booking)

	return res, nil
}

func (s *serviceImpl) sendCancellation(ctx context.Context, booking model.Booking, summary listing.Summary, reason string) string {
	user, err := s.userRepo.Get(ctx, shared.FilterByID(booking.UserID, userModel.FieldID, userModel.TableName))
	if err != nil || user.Email == constant.Empty {
		log.Warn().Str("user", booking.UserID).Msg("no contact email for cancellation notice")

		return "cancellation email skipped: no contact email"
	}

	if err := s.mailer.SendBookingCancellation(ctx, user.Email, bookingEmail(booking, summary, user.Username, reason)); err != nil {
		log.Error().Err(err).Str("booking", booking.ID).Msg("failed to send cancellation email")

		return "cancellation email failed"
	}

	return constant.Empty
}

func (s *serviceImpl) Dashboard(ctx context.Context, kind listing.Kind) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Dashboard")
	defer scope.End()
	defer scope.TraceIfError(err)

	host, _ := ctx.Value(constant.ContextKeyUserID).(string)

	store, err := s.resolver.Store(kind)
	if err != nil {
		return res, err
	}

	res.TotalListings, err = store.CountByHost(ctx, host)
	if err != nil {
		log.Error().Err(err).Msg("failed to count host listings")

		return res, fmt.Errorf("failed to count host listings: %w", err)
	}

	ids, err := store.IDsByHost(ctx, host)
	if err != nil {
		log.Error().Err(err).Msg("failed to get host listing ids")

		return res, fmt.Errorf("failed to get host listing ids: %w", err)
	}

	res.TotalBookings, res.TotalEarnings, err = s.repo.StatsByReferences(ctx, kind, ids, time.Time{})
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate host bookings")

		return res, fmt.Errorf("failed to aggregate host bookings: %w", err)
	}

	average, err := s.reviewRepo.AverageByReferences(ctx, kind, ids)
	if err != nil {
		log.Error().Err(err).Msg("failed to average host ratings")

		return res, fmt.Errorf("failed to average host ratings: %w", err)
	}

	res.AverageRating = roundRating(average)

	return res, nil
}

func (s *serviceImpl) ListingStats(ctx context.Context, kind listing.Kind, referenceID, lookback string) (res dto.ListingStatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListingStats")
	defer scope.End()
	defer scope.TraceIfError(err)

	host, _ := ctx.Value(constant.ContextKeyUserID).(string)

	summary, err := s.resolver.Summary(ctx, kind, referenceID)
	if err != nil {
		return res, err
	}

	if summary.ID == constant.Empty {
		return res, failure.NotFound("listing not found") // nolint:wrapcheck
	}

	if summary.HostID != host {
		return res, failure.Forbidden("listing does not belong to this host") // nolint:wrapcheck
	}

	since, err := lookbackCutoff(lookback)
	if err != nil {
		return res, err
	}

	res.ReferenceID = referenceID
	res.Range = lookback

	res.TotalBookings, res.TotalEarnings, err = s.repo.StatsByReferences(ctx, kind, []string{referenceID}, since)
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate listing stats")

		return res, fmt.Errorf("failed to aggregate listing stats: %w", err)
	}

	return res, nil
}

// lookbackCutoff turns a range like "7d" or "30d" into an absolute cutoff.
// An empty range means all time.
func lookbackCutoff(lookback string) (time.Time, error) {
	if lookback == constant.Empty {
		return time.Time{}, nil
	}

	days, err := strconv.Atoi(strings.TrimSuffix(lookback, "d"))
	if err != nil || days <= 0 {
		return time.Time{}, failure.BadRequestFromString("invalid range, expected a value like 7d or 30d")
	}

	return timezone.Now().AddDate(0, 0, -days), nil
}

func roundRating(average float64) float64 {
	return math.Round(average*10) / 10
}
