package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
)

// AddReviewRequest is the JSON body for posting a review.
type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,min=3"`
}

// ReviewList is a cursor page of reviews for one product.
type ReviewList struct {
	Reviews    []models.Review
	NextCursor *string
}

// ReviewDTO is the wire representation of a review.
type ReviewDTO struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// FromModel maps the persistence model to its DTO.
func FromModel(review *models.Review) *ReviewDTO {
	if review == nil {
		return nil
	}
	return &ReviewDTO{
		ID:         review.ID,
		ProductID:  review.ProductID,
		CustomerID: review.CustomerID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}
}
