package repositories

import (
	"context"

	"github.com/shashiranjanraj/bookstore/app/models"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit("User").Create(review).Error
}

// ListByGoogleID returns the local reviews of a catalog volume, newest first.
func (r *ReviewRepository) ListByGoogleID(ctx context.Context, googleID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("google_book_id = ?", googleID).
		Order("created_at DESC, review_id DESC").
		Find(&reviews).Error
	return reviews, err
}
