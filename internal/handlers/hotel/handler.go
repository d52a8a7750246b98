package hotel

import (
	"net/http"

	"ghumakad/infras/otel"
	bookingDto "ghumakad/internal/domains/booking/model/dto"
	bookingService "ghumakad/internal/domains/booking/service"
	"ghumakad/internal/domains/hotel/model"
	"ghumakad/internal/domains/hotel/model/dto"
	"ghumakad/internal/domains/hotel/service"
	"ghumakad/internal/domains/listing"
	"ghumakad/shared"
	"ghumakad/shared/constant"
	gDto "ghumakad/shared/dto"
	"ghumakad/shared/timezone"
	"ghumakad/shared/validator"
	"ghumakad/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Hotel
	booking bookingService.Booking
	otel    otel.Otel
}

func New(service service.Hotel, booking bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		booking: booking,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/hotels", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateHotel)
		routerGroup.Get("/", handler.GetHotels)
		routerGroup.Get("/dashboard", handler.Dashboard)
		routerGroup.Get("/{id}", handler.GetHotelByID)
		routerGroup.Get("/{id}/stats", handler.GetListingStats)
		routerGroup.Patch("/{id}", handler.UpdateHotel)
		routerGroup.Delete("/{id}", handler.DeleteHotel)
		routerGroup.Put("/bookings/{id}/cancel-by-host", handler.CancelBooking)
	})
}

// CreateHotel handles the creation of a new hotel listing.
// @Summary Create a new hotel
// @Description Create a new hotel listing with images for the authenticated host.
// @Tags Hotel
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Hotel title"
// @Param description formData string false "Description"
// @Param state formData string false "State"
// @Param area formData string false "Area"
// @Param location formData string true "Location"
// @Param amenities formData []string false "Amenities"
// @Param price_per_night formData integer true "Price per night"
// @Param available_rooms formData integer true "Total rooms"
// @Param images formData file false "Hotel images"
// @Success 201 {object} response.Message "Hotel created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hotels [post]
// @Security BearerAuth
func (handler *Handler) CreateHotel(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateHotel")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, err)

		return
	}

	req := dto.CreateHotelRequest{
		Title:       request.FormValue(model.FieldTitle),
		Description: request.FormValue(model.FieldDescription),
		State:       request.FormValue(model.FieldState),
		Area:        request.FormValue(model.FieldArea),
		Location:    request.FormValue(model.FieldLocation),
		Amenities:   request.MultipartForm.Value[model.FieldAmenities],
	}

	if priceStr := request.FormValue(model.FieldPricePerNight); priceStr != "" {
		if price, err := shared.ConvertStringToInt64(priceStr); err == nil {
			req.PricePerNight = price
		}
	}

	if roomsStr := request.FormValue(model.FieldAvailableRooms); roomsStr != "" {
		if rooms, err := shared.ConvertStringToInt(roomsStr); err == nil {
			req.AvailableRooms = rooms
		}
	}

	for _, header := range request.MultipartForm.File[constant.FormFile] {
		file, err := header.Open()
		if err != nil {
			continue
		}

		req.Images = append(req.Images, header)
		req.ImageFiles = append(req.ImageFiles, file)

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create hotel")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Hotel created successfully by host " + user)

	response.WithMessage(writer, http.StatusCreated, "Hotel created successfully")
}

// GetHotels retrieves hotel listings with optional availability filtering.
// @Summary Search hotels
// @Description Retrieve hotels filtered by place and, when a date range and room count are given, by remaining room availability over that range.
// @Tags Hotel
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param place query string false "Filter by location or area"
// @Param state query string false "Filter by state"
// @Param check_in query string false "Availability range start (YYYY-MM-DD)"
// @Param check_out query string false "Availability range end (YYYY-MM-DD)"
// @Param rooms query integer false "Rooms required over the range"
// @Success 200 {object} response.Data[dto.GetHotelsResponse] "List of hotels"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hotels [get]
func (handler *Handler) GetHotels(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHotels")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	place := r.URL.Query().Get(constant.RequestParamPlace)
	state := r.URL.Query().Get(model.FieldState)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if place != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldLocation,
					Operator: gDto.FilterOperatorLike,
					Value:    place,
					Table:    model.TableName,
				},
				gDto.Filter{
					Field:    model.FieldArea,
					Operator: gDto.FilterOperatorLike,
					Value:    place,
					Table:    model.TableName,
				},
			},
		})
	}

	if state != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldState,
			Operator: gDto.FilterOperatorLike,
			Value:    state,
			Table:    model.TableName,
		})
	}

	avail := dto.AvailabilityFilter{}

	if checkIn, err := timezone.Parse(constant.DateOnlyFormat, r.URL.Query().Get(constant.RequestParamCheckIn)); err == nil {
		avail.CheckIn = checkIn
	}

	if checkOut, err := timezone.Parse(constant.DateOnlyFormat, r.URL.Query().Get(constant.RequestParamCheckOut)); err == nil {
		avail.CheckOut = checkOut
	}

	if rooms, err := shared.ConvertStringToInt(r.URL.Query().Get(constant.RequestParamRooms)); err == nil {
		avail.Rooms = rooms
	}

	hotels, err := handler.service.GetAll(ctx, queryParams, filterGroup, avail)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hotels")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Hotels retrieved successfully")

	response.WithJSON(w, http.StatusOK, hotels)
}

// GetHotelByID retrieves a hotel by its ID.
// @Summary Get a hotel by ID
// @Description Retrieve a hotel listing by its unique identifier.
// @Tags Hotel
// @Accept json
// @Produce json
// @Param id path string true "Hotel ID"
// @Success 200 {object} response.Data[dto.HotelResponse] "Hotel details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hotels/{id} [get]
func (handler *Handler) GetHotelByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHotelByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	hotel, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hotel by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Hotel retrieved successfully")

	response.WithJSON(w, http.StatusOK, hotel)
}

// UpdateHotel updates an existing hotel listing.
// @Summary Update a hotel by ID
// @Description Update a hotel listing owned by the authenticated host.
// @Tags Hotel
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Hotel ID"
// @Param title formData string false "Hotel title"
// @Param description formData string false "Description"
// @Param state formData string false "State"
// @Param area formData string false "Area"
// @Param location formData string false "Location"
// @Param price_per_night formData integer false "Price per night"
// @Param available_rooms formData integer false "Total rooms"
// @Param images formData file false "Replacement images"
// @Success 200 {object} response.Message "Hotel updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/hotels/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateHotel(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateHotel")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, err)

		return
	}

	req := dto.UpdateHotelRequest{
		Title:       r.FormValue(model.FieldTitle),
		Description: r.FormValue(model.FieldDescription),
		State:       r.FormValue(model.FieldState),
		Area:        r.FormValue(model.FieldArea),
		Location:    r.FormValue(model.FieldLocation),
	}

	if priceStr := r.FormValue(model.FieldPricePerNight); priceStr != "" {
		if price, err := shared.ConvertStringToInt64(priceStr); err == nil {
			req.PricePerNight = &price
		}
	}

	if roomsStr := r.FormValue(model.FieldAvailableRooms); roomsStr != "" {
		if rooms, err := shared.ConvertStringToInt(roomsStr); err == nil {
			req.AvailableRooms = &rooms
		}
	}

	for _, header := range r.MultipartForm.File[constant.FormFile] {
		file, err := header.Open()
		if err != nil {
			continue
		}

		req.Images = append(req.Images, header)
		req.ImageFiles = append(req.ImageFiles, file)

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update hotel")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Hotel updated successfully by host " + user)

	response.WithMessage(w, http.StatusOK, "Hotel updated successfully")
}

// DeleteHotel deletes a hotel listing.
// @Summary Delete a hotel by ID
// @Description Delete a hotel listing owned by the authenticated host.
// @Tags Hotel
// @Accept json
// @Produce json
// @Param id path string true "Hotel ID"
// @Success 200 {object} response.Message "Hotel deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/hotels/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteHotel(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteHotel")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete hotel")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Hotel deleted successfully by host " + user)

	response.WithMessage(w, http.StatusOK, "Hotel deleted successfully")
}

// CancelBooking cancels a hotel booking on behalf of the host.
// @Summary Cancel a hotel booking as host
// @Description Cancel a confirmed hotel booking at least 24 hours before check-in, refunding the guest.
// @Tags Hotel
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body bookingDto.CancelBookingRequest true "Cancel Booking Request"
// @Success 200 {object} response.Data[bookingDto.CancelBookingResponse] "Booking cancelled"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/hotels/bookings/{id}/cancel-by-host [put]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := bookingDto.CancelBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.booking.CancelByHost(ctx, listing.KindHotel, id, req.Reason)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel hotel booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking cancelled by host " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// Dashboard returns aggregate figures for the host's hotels.
// @Summary Hotel host dashboard
// @Description Aggregate listings, confirmed bookings, earnings, and mean rating across the host's hotels.
// @Tags Hotel
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[bookingDto.DashboardResponse] "Dashboard figures"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/hotels/dashboard [get]
// @Security BearerAuth
func (handler *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Dashboard")
	defer scope.End()

	res, err := handler.booking.Dashboard(ctx, listing.KindHotel)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hotel dashboard")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Dashboard retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetListingStats returns booking stats for one of the host's hotels.
// @Summary Hotel booking stats
// @Description Confirmed bookings and earnings for one hotel, optionally limited to a lookback window such as 7d or 30d.
// @Tags Hotel
// @Accept json
// @Produce json
// @Param id path string true "Hotel ID"
// @Param range query string false "Lookback window (7d, 30d)"
// @Success 200 {object} response.Data[bookingDto.ListingStatsResponse] "Listing stats"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/hotels/{id}/stats [get]
// @Security BearerAuth
func (handler *Handler) GetListingStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingStats")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	lookback := r.URL.Query().Get(constant.RequestParamRange)

	res, err := handler.booking.ListingStats(ctx, listing.KindHotel, id, lookback)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hotel stats")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listing stats retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}
