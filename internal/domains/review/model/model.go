package model

import (
	"ghumakad/internal/domains/listing"
	"ghumakad/shared/model"
)

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID          = "id"
	FieldUserID      = "user_id"
	FieldType        = "type"
	FieldReferenceID = "reference_id"
	FieldRating      = "rating"
	FieldComment     = "comment"
)

type Review struct {
	ID          string       `db:"id"`
	UserID      string       `db:"user_id"`
	Type        listing.Kind `db:"type"`
	ReferenceID string       `db:"reference_id"`
	Rating      int          `db:"rating"`
	Comment     string       `db:"comment"`
	model.Metadata
}
