package model

import (
	"ghumakad/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "experiences"
	EntityName = "experience"

	FieldID           = "id"
	FieldHostID       = "host_id"
	FieldTitle        = "title"
	FieldCategory     = "category"
	FieldLocation     = "location"
	FieldState        = "state"
	FieldDescription  = "description"
	FieldDuration     = "duration"
	FieldPricePerHead = "price_per_head"
	FieldMaxGuests    = "max_guests"
	FieldImages       = "images"
	FieldAboutHost    = "about_host"
	FieldHighlights   = "highlights"
	FieldRating       = "rating"
)

type Experience struct {
	ID           string         `db:"id"`
	HostID       string         `db:"host_id"`
	Title        string         `db:"title"`
	Category     string         `db:"category"`
	Location     string         `db:"location"`
	State        string         `db:"state"`
	Description  string         `db:"description"`
	Duration     string         `db:"duration"`
	PricePerHead int64          `db:"price_per_head"`
	MaxGuests    int            `db:"max_guests"`
	Images       pq.StringArray `db:"images"`
	AboutHost    string         `db:"about_host"`
	Highlights   pq.StringArray `db:"highlights"`
	Rating       float64        `db:"rating"`
	model.Metadata
}
