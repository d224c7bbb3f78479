package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gaf135/ivegan-versao-atual/config"
	"github.com/gaf135/ivegan-versao-atual/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewService keeps restaurant ratings in step with their reviews.
type ReviewService struct {
	DB *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{DB: db}
}

func validRating(n int) bool {
	return n >= models.MinRating && n <= models.MaxRating
}

// Create stores a review and refreshes the restaurant average.
func (s *ReviewService) Create(ctx context.Context, review *models.Review) error {
	if review.UserID == 0 || review.RestaurantID == 0 {
		return fmt.Errorf("%w: usuario_id e restaurante_id são obrigatórios", ErrValidation)
	}
	if !validRating(review.Rating) {
		return fmt.Errorf("%w: nota deve ser entre %d e %d", ErrValidation, models.MinRating, models.MaxRating)
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(review).Error; err != nil {
			return err
		}
		return recomputeRating(tx, review.RestaurantID)
	})
	if config.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: %v", ErrUnknownReference, err)
	}
	return err
}

// Delete removes a review and refreshes the restaurant average.
func (s *ReviewService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return err
		}
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return recomputeRating(tx, review.RestaurantID)
	})
}

// Recompute refreshes the averages of the given restaurants, used after a
// review was patched.
func (s *ReviewService) Recompute(ctx context.Context, restaurantIDs ...uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := map[uint]bool{}
		for _, id := range restaurantIDs {
			if id == 0 || seen[id] {
				continue
			}
			seen[id] = true
			if err := recomputeRating(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// ValidRating reports whether n is an accepted review score.
func (s *ReviewService) ValidRating(n int) bool {
	return validRating(n)
}

func recomputeRating(tx *gorm.DB, restaurantID uint) error {
	err := tx.Exec(`
UPDATE restaurants
SET rating = COALESCE((SELECT ROUND(AVG(rating), 2) FROM reviews WHERE restaurant_id = ?), 0)
WHERE id = ?`, restaurantID, restaurantID).Error
	if err != nil {
		return fmt.Errorf("recompute rating for restaurant %d: %w", restaurantID, err)
	}
	return nil
}
