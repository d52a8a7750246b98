package experience

import (
	"net/http"

	"ghumakad/infras/otel"
	bookingDto "ghumakad/internal/domains/booking/model/dto"
	bookingService "ghumakad/internal/domains/booking/service"
	"ghumakad/internal/domains/experience/model"
	"ghumakad/internal/domains/experience/model/dto"
	"ghumakad/internal/domains/experience/service"
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
	service service.Experience
	booking bookingService.Booking
	otel    otel.Otel
}

func New(service service.Experience, booking bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		booking: booking,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/experiences", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateExperience)
		routerGroup.Get("/", handler.GetExperiences)
		routerGroup.Get("/dashboard", handler.Dashboard)
		routerGroup.Get("/{id}", handler.GetExperienceByID)
		routerGroup.Get("/{id}/stats", handler.GetListingStats)
		routerGroup.Patch("/{id}", handler.UpdateExperience)
		routerGroup.Delete("/{id}", handler.DeleteExperience)
		routerGroup.Put("/bookings/{id}/cancel-by-host", handler.CancelBooking)
	})
}

// CreateExperience handles the creation of a new experience listing.
// @Summary Create a new experience
// @Description Create a new experience listing with images for the authenticated host.
// @Tags Experience
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Experience title"
// @Param category formData string true "Category"
// @Param location formData string true "Location"
// @Param state formData string false "State"
// @Param description formData string false "Description"
// @Param duration formData string false "Duration"
// @Param price_per_head formData integer true "Price per head"
// @Param max_guests formData integer true "Guest capacity per date"
// @Param about_host formData string false "About the host"
// @Param highlights formData []string false "Highlights"
// @Param images formData file false "Experience images"
// @Success 201 {object} response.Message "Experience created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/experiences [post]
// @Security BearerAuth
func (handler *Handler) CreateExperience(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateExperience")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, err)

		return
	}

	req := dto.CreateExperienceRequest{
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
		log.Error().Err(err).Msg("failed to create experience")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Experience created successfully by host " + user)

	response.WithMessage(writer, http.StatusCreated, "Experience created successfully")
}

// GetExperiences retrieves experience listings with optional availability filtering.
// @Summary Search experiences
// @Description Retrieve experiences filtered by place and category and, when a date and guest count are given, by remaining guest capacity on that date.
// @Tags Experience
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param place query string false "Filter by location"
// @Param category query string false "Filter by category"
// @Param date query string false "Availability date (YYYY-MM-DD)"
// @Param guests query integer false "Guests required on the date"
// @Success 200 {object} response.Data[dto.GetExperiencesResponse] "List of experiences"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/experiences [get]
func (handler *Handler) GetExperiences(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetExperiences")
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

	experiences, err := handler.service.GetAll(ctx, queryParams, filterGroup, avail)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get experiences")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Experiences retrieved successfully")

	response.WithJSON(w, http.StatusOK, experiences)
}

// GetExperienceByID retrieves an experience by its ID.
// @Summary Get an experience by ID
// @Description Retrieve an experience listing by its unique identifier.
// @Tags Experience
// @Accept json
// @Produce json
// @Param id path string true "Experience ID"
// @Success 200 {object} response.Data[dto.ExperienceResponse] "Experience details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/experiences/{id} [get]
func (handler *Handler) GetExperienceByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetExperienceByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	exp, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get experience by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Experience retrieved successfully")

	response.WithJSON(w, http.StatusOK, exp)
}

// UpdateExperience updates an existing experience listing.
// @Summary Update an experience by ID
// @Description Update an experience listing owned by the authenticated host.
// @Tags Experience
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Experience ID"
// @Param title formData string false "Experience title"
// @Param category formData string false "Category"
// @Param location formData string false "Location"
// @Param state formData string false "State"
// @Param description formData string false "Description"
// @Param duration formData string false "Duration"
// @Param price_per_head formData integer false "Price per head"
// @Param max_guests formData integer false "Guest capacity per date"
// @Param about_host formData string false "About the host"
// @Param images formData file false "Replacement images"
// @Success 200 {object} response.Message "Experience updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/experiences/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateExperience")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, err)

		return
	}

	req := dto.UpdateExperienceRequest{
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
		log.Error().Err(err).Msg("failed to update experience")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Experience updated successfully by host " + user)

	response.WithMessage(w, http.StatusOK, "Experience updated successfully")
}

// DeleteExperience deletes an experience listing.
// @Summary Delete an experience by ID
// @Description Delete an experience listing owned by the authenticated host.
// @Tags Experience
// @Accept json
// @Produce json
// @Param id path string true "Experience ID"
// @Success 200 {object} response.Message "Experience deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/experiences/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteExperience")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete experience")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Experience deleted successfully by host " + user)

	response.WithMessage(w, http.StatusOK, "Experience deleted successfully")
}

// CancelBooking cancels an experience booking on behalf of the host.
// @Summary Cancel an experience booking as host
// @Description Cancel a confirmed experience booking at least 24 hours before the booked date, refunding the guest.
// @Tags Experience
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body bookingDto.CancelBookingRequest true "Cancel Booking Request"
// @Success 200 {object} response.Data[bookingDto.CancelBookingResponse] "Booking cancelled"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/experiences/bookings/{id}/cancel-by-host [put]
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

	res, err := handler.booking.CancelByHost(ctx, listing.KindExperience, id, req.Reason)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel experience booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking cancelled by host " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// Dashboard returns aggregate figures for the host's experiences.
// @Summary Experience host dashboard
// @Description Aggregate listings, confirmed bookings, earnings, and mean rating across the host's experiences.
// @Tags Experience
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[bookingDto.DashboardResponse] "Dashboard figures"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/experiences/dashboard [get]
// @Security BearerAuth
func (handler *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Dashboard")
	defer scope.End()

	res, err := handler.booking.Dashboard(ctx, listing.KindExperience)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get experience dashboard")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Dashboard retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetListingStats returns booking stats for one of the host's experiences.
// @Summary Experience booking stats
// @Description Confirmed bookings and earnings for one experience, optionally limited to a lookback window such as 7d or 30d.
// @Tags Experience
// @Accept json
// @Produce json
// @Param id path string true "Experience ID"
// @Param range query string false "Lookback window (7d, 30d)"
// @Success 200 {object} response.Data[bookingDto.ListingStatsResponse] "Listing stats"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/experiences/{id}/stats [get]
// @Security BearerAuth
func (handler *Handler) GetListingStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingStats")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	lookback := r.URL.Query().Get(constant.RequestParamRange)

	res, err := handler.booking.ListingStats(ctx, listing.KindExperience, id, lookback)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get experience stats")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listing stats retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}
