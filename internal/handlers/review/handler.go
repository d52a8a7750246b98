package review

import (
	"net/http"

	"ghumakad/infras/otel"
	"ghumakad/internal/domains/listing"
	"ghumakad/internal/domains/review/model/dto"
	"ghumakad/internal/domains/review/service"
	"ghumakad/shared/constant"
	gDto "ghumakad/shared/dto"
	"ghumakad/shared/validator"
	"ghumakad/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Review
	otel    otel.Otel
}

func New(service service.Review, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reviews", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReview)
		routerGroup.Get("/host/{type}", handler.GetHostReviews)
		routerGroup.Get("/{type}/{id}", handler.GetListingReviews)
	})
}

// CreateReview creates a review for a listing.
// @Summary Create a review
// @Description Leave a rating and comment on a hotel, service, or experience.
// @Tags Review
// @Accept json
// @Produce json
// @Param request body dto.CreateReviewRequest true "Create Review Request"
// @Success 201 {object} response.Message "Review created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/reviews [post]
// @Security BearerAuth
func (handler *Handler) CreateReview(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReview")
	defer scope.End()

	req := dto.CreateReviewRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create review")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Review created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Review created successfully")
}

// GetListingReviews retrieves reviews on a single listing.
// @Summary Get reviews for a listing
// @Description Retrieve reviews on a hotel, service, or experience by listing type and ID.
// @Tags Review
// @Accept json
// @Produce json
// @Param type path string true "Listing type (hotel, service, experience)"
// @Param id path string true "Listing ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetReviewsResponse] "List of reviews"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews/{type}/{id} [get]
func (handler *Handler) GetListingReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingReviews")
	defer scope.End()

	kind := listing.Kind(chi.URLParam(r, constant.RequestParamType))
	id := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	reviews, err := handler.service.ListByListing(ctx, kind, id, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reviews")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reviews retrieved successfully")

	response.WithJSON(w, http.StatusOK, reviews)
}

// GetHostReviews retrieves reviews across the caller's own listings.
// @Summary Get reviews on own listings
// @Description Retrieve reviews left on any of the authenticated host's listings of the given type.
// @Tags Review
// @Accept json
// @Produce json
// @Param type path string true "Listing type (hotel, service, experience)"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetReviewsResponse] "List of reviews"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/reviews/host/{type} [get]
// @Security BearerAuth
func (handler *Handler) GetHostReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHostReviews")
	defer scope.End()

	kind := listing.Kind(chi.URLParam(r, constant.RequestParamType))

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	reviews, err := handler.service.ListByHost(ctx, kind, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get host reviews")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Host reviews retrieved successfully")

	response.WithJSON(w, http.StatusOK, reviews)
}
