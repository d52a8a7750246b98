package model

import (
	"ghumakad/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "hotels"
	EntityName = "hotel"

	FieldID             = "id"
	FieldHostID         = "host_id"
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldState          = "state"
	FieldArea           = "area"
	FieldLocation       = "location"
	FieldImages         = "images"
	FieldAmenities      = "amenities"
	FieldPricePerNight  = "price_per_night"
	FieldAvailableRooms = "available_rooms"
	FieldRating         = "rating"
)

type Hotel struct {
	ID             string         `db:"id"`
	HostID         string         `db:"host_id"`
	Title          string         `db:"title"`
	Description    string         `db:"description"`
	State          string         `db:"state"`
	Area           string         `db:"area"`
	Location       string         `db:"location"`
	Images         pq.StringArray `db:"images"`
	Amenities      pq.StringArray `db:"amenities"`
	PricePerNight  int64          `db:"price_per_night"`
	AvailableRooms int            `db:"available_rooms"`
	Rating         float64        `db:"rating"`
	model.Metadata
}
