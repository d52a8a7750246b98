package dto

import (
	"ghumakad/internal/domains/listing"
	"ghumakad/internal/domains/review/model"
	"ghumakad/shared"
	gDto "ghumakad/shared/dto"
	gModel "ghumakad/shared/model"
	"ghumakad/shared/timezone"

	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	Type        string `json:"type"         validate:"required,oneof=hotel service experience"`
	ReferenceID string `json:"reference_id" validate:"required,uuid"`
	Rating      int    `json:"rating"       validate:"required,min=1,max=5"`
	Comment     string `json:"comment"      validate:"omitempty,max=2000"`
}

func (c *CreateReviewRequest) ToModel(user string) model.Review {
	return model.Review{
		ID:          uuid.NewString(),
		UserID:      user,
		Type:        listing.Kind(c.Type),
		ReferenceID: c.ReferenceID,
		Rating:      c.Rating,
		Comment:     c.Comment,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type ReviewResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Type        string `json:"type"`
	ReferenceID string `json:"reference_id"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(model model.Review) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.Type = string(model.Type)
	r.ReferenceID = model.ReferenceID
	r.Rating = model.Rating
	r.Comment = model.Comment
	r.Metadata.FromModel(model.Metadata)
}

type GetReviewsResponse struct {
	Reviews   []ReviewResponse `json:"reviews"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetReviewsResponse) FromModels(models []model.Review, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reviews = make([]ReviewResponse, len(models))
	for i, mod := range models {
		r.Reviews[i].FromModel(mod)
	}
}
