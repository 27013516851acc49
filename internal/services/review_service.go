package services

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/AnshRaj112/recipe-finder-backend/internal/apperr"
	"github.com/AnshRaj112/recipe-finder-backend/internal/database"
	"github.com/AnshRaj112/recipe-finder-backend/internal/models"
)

const defaultReviewsPerPage = 10

type ReviewInput struct {
	RecipeID   string `json:"recipe_id"`
	SourceType string `json:"source_type"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
}

type ReviewService struct {
	store database.ReviewStore
	guard *Guard
	now   func() time.Time
}

func NewReviewService(stores database.Stores, guard *Guard) *ReviewService {
	return &ReviewService{store: stores.Reviews, guard: guard, now: time.Now}
}

func (s *ReviewService) Create(ctx context.Context, userID string, in ReviewInput) (*models.Review, error) {
	source, ok := models.ParseSourceType(in.SourceType)
	if !ok {
		return nil, apperr.Invalid("source_type must be spoonacular or community")
	}
	if in.RecipeID == "" {
		return nil, apperr.Invalid("recipe_id is required")
	}
	if in.Rating < models.MinRating || in.Rating > models.MaxRating {
		return nil, apperr.Invalid("rating must be between 1 and 5")
	}
	if utf8.RuneCountInString(in.Comment) > models.MaxCommentLength {
		return nil, apperr.Invalid("comment must be at most 100 characters")
	}

	if err := s.guard.CheckReview(ctx, userID, in.RecipeID, source); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	review := &models.Review{
		CreatedAt:  now,
		UpdatedAt:  now,
		UserID:     userID,
		RecipeID:   in.RecipeID,
		SourceType: source,
		Rating:     in.Rating,
		Comment:    in.Comment,
	}
	if err := s.store.Insert(ctx, review); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, apperr.Conflict("You have already reviewed this recipe")
		}
		return nil, apperr.Internal("Failed to create review", err)
	}
	return review, nil
}

// List returns reviews of one recipe reference, newest first.
func (s *ReviewService) List(ctx context.Context, recipeID, sourceType string, page, perPage int) (*PageResult[models.Review], error) {
	source, ok := models.ParseSourceType(sourceType)
	if !ok {
		return nil, apperr.Invalid("source_type must be spoonacular or community")
	}
	if recipeID == "" {
		return nil, apperr.Invalid("recipe_id is required")
	}
	page, perPage = clampPage(page, perPage, defaultReviewsPerPage)

	reviews, err := s.store.List(ctx, recipeID, source, database.PageFor(page, perPage))
	if err != nil {
		return nil, apperr.Internal("Failed to load reviews", err)
	}
	total, err := s.store.Count(ctx, recipeID, source)
	if err != nil {
		return nil, apperr.Internal("Failed to count reviews", err)
	}
	return &PageResult[models.Review]{Results: reviews, TotalResults: total, Page: page, PerPage: perPage}, nil
}
