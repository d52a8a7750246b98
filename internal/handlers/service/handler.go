package service

import (
	"net/http"

	"ghumakad/infras/otel"
	bookingDto "ghumakad/internal/domains/booking/model/dto"
	bookingService "ghumakad/internal/domains/booking/service"
	"ghumakad/internal/domains/listing"
	"ghumakad/internal/domains/service/model"
	"ghumakad/internal/domains/service/model/dto"
	"ghumakad/internal/domains/service/service"
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
	service service.Service
	booking bookingService.Booking
	otel    otel.Otel
}

func New(service service.Service, booking bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		booking: booking,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/services", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateService)
		routerGroup.Get("/", handler.GetServices)
		routerGroup.Get("/dashboard", handler.Dashboard)
		routerGroup.Get("/{id}", handler.GetServiceByID)
		routerGroup.Get("/{id}/stats", handler.GetListingStats)
		routerGroup.Patch("/{id}", handler.UpdateService)
		routerGroup.Delete("/{id}", handler.DeleteService)
		routerGroup.Put("/bookings/{id}/cancel-by-host", handler.CancelBooking)
	})
}

// CreateService handles the creation of a new service listing.
// @Summary Create a new service
// @Description Create a new service listing with images for the authenticated host.
// @Tags Service
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Service title"
// @Param category formData string true "Category (photography, spa, food, trainer, dancer)"
// @Param location formData string true "Location"
// @Param state formData string false "State"
// @Param description formData string false "Description"
// @Param duration formData string false "Duration"
// @Param price_per_head formData integer true "Price per head"
// @Param max_guests formData integer true "Guest capacity per date"
// @Param about_host formData string false "About the host"
// @Param highlights formData []string false "Highlights"
// @Param images formData file false "Service images"
// @Success 201 {object} response.Message "Service created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/services [post]
// @Security BearerAuth
func (handler *Handler) CreateService(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateService")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, err)

		return
	}

	req := dto.CreateServiceRequest{
		Title:       request.FormValue(model.FieldTitle),
		Category:    request.FormValue(model.FieldCategory),
		Location:    request.FormValue(model.FieldLocation),
		State:       request.FormValue(model.FieldState),
		Description: request.FormValue(model.FieldDescription),
		Duration:    request.FormValue(model.FieldDuration),
		AboutHost:   request.FormValue(model.FieldAboutHost),
		Highlights:  request.MultipartForm.Value[model.FieldHighlights],
	}

	if priceStr := request.FormValue(model.FieldPricePerHead); priceStr != "" {
		if price, err := shared.ConvertStringToInt64(priceStr); err == nil {
			req.PricePerHead = price
		}
	}

	if guestsStr := request.FormValue(model.FieldMaxGuests); guestsStr != "" {
		if guests, err := shared.ConvertStringToInt(guestsStr); err == nil {
			req.MaxGuests = guests
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
		log.Error().Err(err).Msg("failed to create service")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Service created successfully by host " + user)

	response.WithMessage(writer, http.StatusCreated, "Service created successfully")
}

// GetServices retrieves service listings with optional availability filtering.
// @Summary Search services
// @Description Retrieve services filtered by place and category and, when a date and guest count are given, by remaining guest capacity on that date.
// @Tags Service
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param place query string false "Filter by location"
// @Param category query string false "Filter by category"
// @Param date query string false "Availability date (YYYY-MM-DD)"
// @Param guests query integer false "Guests required on the date"
// @Success 200 {object} response.Data[dto.GetServicesResponse] "List of services"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/services [get]
func (handler *Handler) GetServices(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServices")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	place := r.URL.Query().Get(constant.RequestParamPlace)
	category := r.URL.Query().Get(constant.RequestParamCategory)

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
					Field:    model.FieldState,
					Operator: gDto.FilterOperatorLike,
					Value:    place,
					Table:    model.TableName,
				},
			},
		})
	}

	if category != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCategory,
			Operator: gDto.FilterOperatorEq,
			Value:    category,
			Table:    model.TableName,
		})
	}

	avail := dto.AvailabilityFilter{}

	if date, err := timezone.Parse(constant.DateOnlyFormat, r.URL.Query().Get(constant.RequestParamDate)); err == nil {
		avail.Date = date
	}

	if guests, err := shared.ConvertStringToInt(r.URL.Query().Get(constant.RequestParamGuests)); err == nil {
		avail.Guests = guests
	}

	services, err := handler.service.GetAll(ctx, queryParams, filterGroup, avail)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get services")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Services retrieved successfully")

	response.WithJSON(w, http.StatusOK, services)
}

// GetServiceByID retrieves a service by its ID.
// @Summary Get a service by ID
// @Description Retrieve a service listing by its unique identifier.
// @Tags Service
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Data[dto.ServiceResponse] "Service details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/services/{id} [get]
func (handler *Handler) GetServiceByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServiceByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	svc, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get service by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service retrieved successfully")

	response.WithJSON(w, http.StatusOK, svc)
}

// UpdateService updates an existing service listing.
// @Summary Update a service by ID
// @Description Update a service listing owned by the authenticated host.
// @Tags Service
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Service ID"
// @Param title formData string false "Service title"
// @Param category formData string false "Category"
// @Param location formData string false "Location"
// @Param state formData string false "State"
// @Param description formData string false "Description"
// @Param duration formData string false "Duration"
// @Param price_per_head formData integer false "Price per head"
// @Param max_guests formData integer false "Guest capacity per date"
// @Param about_host formData string false "About the host"
// @Param images formData file false "Replacement images"
// @Success 200 {object} response.Message "Service updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/services/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, err)

		return
	}

	req := dto.UpdateServiceRequest{
		Title:       r.FormValue(model.FieldTitle),
		Category:    r.FormValue(model.FieldCategory),
		Location:    r.FormValue(model.FieldLocation),
		State:       r.FormValue(model.FieldState),
		Description: r.FormValue(model.FieldDescription),
		Duration:    r.FormValue(model.FieldDuration),
		AboutHost:   r.FormValue(model.FieldAboutHost),
	}

	if priceStr := r.FormValue(model.FieldPricePerHead); priceStr != "" {
		if price, err := shared.ConvertStringToInt64(priceStr); err == nil {
			req.PricePerHead = &price
		}
	}

	if guestsStr := r.FormValue(model.FieldMaxGuests); guestsStr != "" {
		if guests, err := shared.ConvertStringToInt(guestsStr); err == nil {
			req.MaxGuests = &guests
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
		log.Error().Err(err).Msg("failed to update service")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Service updated successfully by host " + user)

	response.WithMessage(w, http.StatusOK, "Service updated successfully")
}

// DeleteService deletes a service listing.
// @Summary Delete a service by ID
// @Description Delete a service listing owned by the authenticated host.
// @Tags Service
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Message "Service deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/services/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete service")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Service deleted successfully by host " + user)

	response.WithMessage(w, http.StatusOK, "Service deleted successfully")
}

// CancelBooking cancels a service booking on behalf of the host.
// @Summary Cancel a service booking as host
// @Description Cancel a confirmed service booking at least 24 hours before the booked date, refunding the guest.
// @Tags Service
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body bookingDto.CancelBookingRequest true "Cancel Booking Request"
// @Success 200 {object} response.Data[bookingDto.CancelBookingResponse] "Booking cancelled"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/services/bookings/{id}/cancel-by-host [put]
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

	res, err := handler.booking.CancelByHost(ctx, listing.KindService, id, req.Reason)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel service booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking cancelled by host " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// Dashboard returns aggregate figures for the host's services.
// @Summary Service host dashboard
// @Description Aggregate listings, confirmed bookings, earnings, and mean rating across the host's services.
// @Tags Service
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[bookingDto.DashboardResponse] "Dashboard figures"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/services/dashboard [get]
// @Security BearerAuth
func (handler *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Dashboard")
	defer scope.End()

	res, err := handler.booking.Dashboard(ctx, listing.KindService)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get service dashboard")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Dashboard retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetListingStats returns booking stats for one of the host's services.
// @Summary Service booking stats
// @Description Confirmed bookings and earnings for one service, optionally limited to a lookback window such as 7d or 30d.
// @Tags Service
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param range query string false "Lookback window (7d, 30d)"
// @Success 200 {object} response.Data[bookingDto.ListingStatsResponse] "Listing stats"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/services/{id}/stats [get]
// @Security BearerAuth
func (handler *Handler) GetListingStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingStats")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	lookback := r.URL.Query().Get(constant.RequestParamRange)

	res, err := handler.booking.ListingStats(ctx, listing.KindService, id, lookback)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get service stats")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listing stats retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}
