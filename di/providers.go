package di

import (
	experienceRepository "ghumakad/internal/domains/experience/repository"
	hotelRepository "ghumakad/internal/domains/hotel/repository"
	"ghumakad/internal/domains/listing"
	serviceRepository "ghumakad/internal/domains/service/repository"
)

// ProvideResolver binds each booking type discriminant to the repository
// owning its table.
func ProvideResolver(hotel hotelRepository.Hotel, service serviceRepository.Service, experience experienceRepository.Experience) *listing.Resolver {
	return listing.NewResolver(hotel, service, experience)
}
