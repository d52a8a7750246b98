package router

import (
	"ghumakad/internal/handlers/auth"
	"ghumakad/internal/handlers/booking"
	"ghumakad/internal/handlers/experience"
	"ghumakad/internal/handlers/hotel"
	"ghumakad/internal/handlers/payment"
	"ghumakad/internal/handlers/review"
	"ghumakad/internal/handlers/service"
	"ghumakad/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth       auth.Handler
	User       user.Handler
	Hotel      hotel.Handler
	Service    service.Handler
	Experience experience.Handler
	Booking    booking.Handler
	Payment    payment.Handler
	Review     review.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Hotel.Router(routerGroup)
		r.DomainHandlers.Service.Router(routerGroup)
		r.DomainHandlers.Experience.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Review.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
