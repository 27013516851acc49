package services

import (
	"context"
	"errors"
	"time"

	"github.com/AnshRaj112/recipe-finder-backend/internal/apperr"
	"github.com/AnshRaj112/recipe-finder-backend/internal/database"
	"github.com/AnshRaj112/recipe-finder-backend/internal/models"
)

const (
	DefaultPerPage = 12
	MaxPerPage     = 100
)

type SaveRecipeInput struct {
	RecipeID       string   `json:"recipe_id"`
	SourceType     string   `json:"source_type"`
	Title          string   `json:"title"`
	Image          string   `json:"image,omitempty"`
	ReadyInMinutes *int     `json:"readyInMinutes,omitempty"`
	Calories       *float64 `json:"calories,omitempty"`
}

// PageResult is the listing envelope shared by paged endpoints.
type PageResult[T any] struct {
	Results      []T   `json:"results"`
	TotalResults int64 `json:"total_results"`
	Page         int   `json:"page"`
	PerPage      int   `json:"per_page"`
}

type SavedRecipeService struct {
	store database.SavedRecipeStore
	guard *Guard
	now   func() time.Time
}

func NewSavedRecipeService(stores database.Stores, guard *Guard) *SavedRecipeService {
	return &SavedRecipeService{store: stores.SavedRecipes, guard: guard, now: time.Now}
}

// Save is idempotent. created is false when the row already existed,
// including when a concurrent save won the insert.
func (s *SavedRecipeService) Save(ctx context.Context, userID string, in SaveRecipeInput) (row *models.SavedRecipe, created bool, err error) {
	source, ok := models.ParseSourceType(in.SourceType)
	if !ok {
		return nil, false, apperr.Invalid("source_type must be spoonacular or community")
	}
	if in.RecipeID == "" || in.Title == "" {
		return nil, false, apperr.Invalid("recipe_id and title are required")
	}

	existing, err := s.guard.FindSaved(ctx, userID, in.RecipeID, source)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	row = &models.SavedRecipe{
		SavedAt:        s.now().UTC(),
		UserID:         userID,
		RecipeID:       in.RecipeID,
		SourceType:     source,
		Title:          in.Title,
		Image:          in.Image,
		ReadyInMinutes: in.ReadyInMinutes,
		Calories:       in.Calories,
	}
	err = s.store.Insert(ctx, row)
	if errors.Is(err, database.ErrDuplicate) {
		existing, ferr := s.guard.FindSaved(ctx, userID, in.RecipeID, source)
		if ferr != nil {
			return nil, false, ferr
		}
		if existing == nil {
			// Saved and unsaved again by a concurrent request.
			return row, false, nil
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, apperr.Internal("Failed to save recipe", err)
	}
	return row, true, nil
}

// Unsave succeeds whether or not the row existed.
func (s *SavedRecipeService) Unsave(ctx context.Context, userID, recipeID, sourceType string) error {
	source, err := sourceOrDefault(sourceType)
	if err != nil {
		return err
	}
	if _, err := s.store.Delete(ctx, userID, recipeID, source); err != nil {
		return apperr.Internal("Failed to unsave recipe", err)
	}
	return nil
}

func (s *SavedRecipeService) IsSaved(ctx context.Context, userID, recipeID, sourceType string) (bool, error) {
	source, err := sourceOrDefault(sourceType)
	if err != nil {
		return false, err
	}
	row, err := s.guard.FindSaved(ctx, userID, recipeID, source)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

// List pages through saved recipes, newest first.
func (s *SavedRecipeService) List(ctx context.Context, userID string, page, perPage int) (*PageResult[models.SavedRecipe], error) {
	page, perPage = clampPage(page, perPage, DefaultPerPage)

	rows, err := s.store.List(ctx, userID, database.PageFor(page, perPage))
	if err != nil {
		return nil, apperr.Internal("Failed to load saved recipes", err)
	}
	total, err := s.store.Count(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to count saved recipes", err)
	}
	return &PageResult[models.SavedRecipe]{Results: rows, TotalResults: total, Page: page, PerPage: perPage}, nil
}

// ListAll returns every saved recipe, newest first.
func (s *SavedRecipeService) ListAll(ctx context.Context, userID string) ([]models.SavedRecipe, error) {
	rows, err := s.store.List(ctx, userID, database.Page{})
	if err != nil {
		return nil, apperr.Internal("Failed to load saved recipes", err)
	}
	return rows, nil
}

func sourceOrDefault(s string) (models.SourceType, error) {
	if s == "" {
		return models.SourceSpoonacular, nil
	}
	source, ok := models.ParseSourceType(s)
	if !ok {
		return "", apperr.Invalid("source_type must be spoonacular or community")
	}
	return source, nil
}

// clampPage applies defaults to 1-based paging values and caps both.
func clampPage(page, perPage, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > database.MaxPage {
		page = database.MaxPage
	}
	if perPage < 1 {
		perPage = def
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}
