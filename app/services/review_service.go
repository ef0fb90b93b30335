package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/bookstore/app/models"
	"github.com/shashiranjanraj/bookstore/app/repositories"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type CreateReviewInput struct {
	GoogleBookID string `json:"google_book_id" validate:"required,max=64"`
	Rating       *int   `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Comment      string `json:"comment" validate:"max=5000"`
}

// CombinedReviews puts the catalog's rating next to the local reviews.
type CombinedReviews struct {
	GoogleBookID          string          `json:"google_book_id"`
	BookTitle             string          `json:"book_title"`
	ExternalAverageRating *float64        `json:"external_average_rating"`
	ExternalRatingsCount  int             `json:"external_ratings_count"`
	LocalReviewsCount     int             `json:"local_reviews_count"`
	LocalReviews          []models.Review `json:"local_reviews"`
}

// VolumeLookup is satisfied by *CatalogService.
type VolumeLookup interface {
	ByGoogleID(ctx context.Context, googleID string) (*CatalogBook, error)
}

type ReviewService struct {
	reviews *repositories.ReviewRepository
	catalog VolumeLookup
}

func NewReviewService(db *gorm.DB, catalog VolumeLookup) *ReviewService {
	return &ReviewService{reviews: repositories.NewReviewRepository(db), catalog: catalog}
}

func (s *ReviewService) Create(ctx context.Context, userID uint, in CreateReviewInput) (*models.Review, error) {
	if in.Rating != nil && (*in.Rating < 0 || *in.Rating > 5) {
		return nil, ErrInvalidRating
	}

	review := models.Review{
		GoogleBookID: strings.TrimSpace(in.GoogleBookID),
		UserID:       userID,
		Rating:       in.Rating,
		Comment:      in.Comment,
	}
	if err := s.reviews.Create(ctx, &review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return &review, nil
}

// Combined fetches the catalog volume and the local reviews concurrently.
func (s *ReviewService) Combined(ctx context.Context, googleID string) (*CombinedReviews, error) {
	var (
		book  *CatalogBook
		local []models.Review
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		book, err = s.catalog.ByGoogleID(gctx, googleID)
		return err
	})
	g.Go(func() error {
		var err error
		local, err = s.reviews.ListByGoogleID(gctx, googleID)
		if err != nil {
			return fmt.Errorf("list reviews: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if local == nil {
		local = []models.Review{}
	}
	return &CombinedReviews{
		GoogleBookID:          googleID,
		BookTitle:             book.Title,
		ExternalAverageRating: book.AverageRating,
		ExternalRatingsCount:  book.RatingsCount,
		LocalReviewsCount:     len(local),
		LocalReviews:          local,
	}, nil
}
