package model

import (
	"ghumakad/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID           = "id"
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldPhone        = "phone"
	FieldAddress      = "address"
	FieldProfileImage = "profile_image"
	FieldRole         = "role"
	FieldHostTypes    = "host_types"
)

type User struct {
	ID           string         `db:"id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	Password     string         `db:"password"`
	Phone        string         `db:"phone"`
	Address      string         `db:"address"`
	ProfileImage string         `db:"profile_image"`
	Role         string         `db:"role"`
	HostTypes    pq.StringArray `db:"host_types"`
	model.Metadata
}
