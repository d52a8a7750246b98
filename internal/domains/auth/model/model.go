package model

import (
	"time"

	"ghumakad/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "pending_registrations"
	EntityName = "pending_registration"

	FieldID        = "id"
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldPhone     = "phone"
	FieldAddress   = "address"
	FieldRole      = "role"
	FieldHostTypes = "host_types"
	FieldOTP       = "otp"
	FieldExpiresAt = "expires_at"
)

// PendingRegistration stages a signup until its OTP is verified. The row is
// replaced on re-registration and removed on verification or expiry.
type PendingRegistration struct {
	ID        string         `db:"id"`
	Username  string         `db:"username"`
	Email     string         `db:"email"`
	Password  string         `db:"password"`
	Phone     string         `db:"phone"`
	Address   string         `db:"address"`
	Role      string         `db:"role"`
	HostTypes pq.StringArray `db:"host_types"`
	OTP       string         `db:"otp"`
	ExpiresAt time.Time      `db:"expires_at"`
	model.Metadata
}

func (p *PendingRegistration) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
