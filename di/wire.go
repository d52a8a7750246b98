//go:build wireinject
// +build wireinject

package di

import (
	"ghumakad/config"
	"ghumakad/infras/jwt"
	"ghumakad/infras/kafka"
	"ghumakad/infras/mailer"
	"ghumakad/infras/otel"
	"ghumakad/infras/postgres"
	"ghumakad/infras/razorpay"
	"ghumakad/infras/redis"
	"ghumakad/infras/s3"
	"ghumakad/permissions"
	"ghumakad/shared/cache"
	"ghumakad/transport/http"
	"ghumakad/transport/http/middleware"
	"ghumakad/transport/http/router"

	authRepository "ghumakad/internal/domains/auth/repository"
	authService "ghumakad/internal/domains/auth/service"
	bookingRepository "ghumakad/internal/domains/booking/repository"
	bookingService "ghumakad/internal/domains/booking/service"
	experienceRepository "ghumakad/internal/domains/experience/repository"
	experienceService "ghumakad/internal/domains/experience/service"
	hotelRepository "ghumakad/internal/domains/hotel/repository"
	hotelService "ghumakad/internal/domains/hotel/service"
	paymentService "ghumakad/internal/domains/payment/service"
	reviewRepository "ghumakad/internal/domains/review/repository"
	reviewService "ghumakad/internal/domains/review/service"
	serviceRepository "ghumakad/internal/domains/service/repository"
	serviceService "ghumakad/internal/domains/service/service"
	userRepository "ghumakad/internal/domains/user/repository"
	userService "ghumakad/internal/domains/user/service"

	authHandler "ghumakad/internal/handlers/auth"
	bookingHandler "ghumakad/internal/handlers/booking"
	experienceHandler "ghumakad/internal/handlers/experience"
	hotelHandler "ghumakad/internal/handlers/hotel"
	paymentHandler "ghumakad/internal/handlers/payment"
	reviewHandler "ghumakad/internal/handlers/review"
	serviceHandler "ghumakad/internal/handlers/service"
	userHandler "ghumakad/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	razorpay.New,
	mailer.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
	permissions.Get,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authRepository.New,
	authService.New,
	userService.New,
)

var listingDomains = wire.NewSet(
	hotelRepository.New,
	serviceRepository.New,
	experienceRepository.New,
	ProvideResolver,
	hotelService.New,
	serviceService.New,
	experienceService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
	paymentService.New,
)

var reviewDomain = wire.NewSet(
	reviewRepository.New,
	reviewService.New,
)

var domains = wire.NewSet(
	authDomain,
	listingDomains,
	bookingDomain,
	reviewDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	hotelHandler.New,
	serviceHandler.New,
	experienceHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	reviewHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
