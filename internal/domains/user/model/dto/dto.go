package dto

import (
	"ghumakad/internal/domains/user/model"
	gDto "ghumakad/shared/dto"
)

type UpdateProfileRequest struct {
	Username     string `db:"username"      json:"username"      validate:"omitempty,max=100"`
	Phone        string `db:"phone"         json:"phone"         validate:"omitempty,max=20"`
	Address      string `db:"address"       json:"address"       validate:"omitempty,max=300"`
	ProfileImage string `db:"profile_image" json:"profile_image" validate:"omitempty,url"`
}

type UserResponse struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address"`
	ProfileImage string   `json:"profile_image"`
	Role         string   `json:"role"`
	HostTypes    []string `json:"host_types"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Username = model.Username
	r.Email = model.Email
	r.Phone = model.Phone
	r.Address = model.Address
	r.ProfileImage = model.ProfileImage
	r.Role = model.Role
	r.HostTypes = model.HostTypes
	r.Metadata.FromModel(model.Metadata)
}
