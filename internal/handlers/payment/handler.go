package payment

import (
	"net/http"

	"ghumakad/infras/otel"
	"ghumakad/internal/domains/payment/model/dto"
	"ghumakad/internal/domains/payment/service"
	"ghumakad/shared/constant"
	"ghumakad/shared/validator"
	"ghumakad/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/order", handler.CreateOrder)
		routerGroup.Post("/verify", handler.VerifyPayment)
	})
}

// CreateOrder creates a payment gateway order.
// @Summary Create a payment order
// @Description Create a gateway order for the given amount ahead of checkout.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.CreateOrderRequest true "Create Order Request"
// @Success 201 {object} response.Data[dto.OrderResponse] "Order created"
// @Failure 400 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/payments/order [post]
// @Security BearerAuth
func (handler *Handler) CreateOrder(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateOrder")
	defer scope.End()

	req := dto.CreateOrderRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.CreateOrder(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create payment order")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Payment order created by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// VerifyPayment verifies a gateway signature and confirms the booking.
// @Summary Verify a payment
// @Description Verify the gateway signature and, when valid, reserve the paid booking.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.VerifyPaymentRequest true "Verify Payment Request"
// @Success 201 {object} response.Data[dto.VerifyPaymentResponse] "Payment verified and booking confirmed"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/payments/verify [post]
// @Security BearerAuth
func (handler *Handler) VerifyPayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".VerifyPayment")
	defer scope.End()

	req := dto.VerifyPaymentRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.VerifyPayment(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to verify payment")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Payment verified for user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}
