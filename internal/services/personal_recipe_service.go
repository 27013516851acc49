package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/recipe-finder-backend/internal/apperr"
	"github.com/AnshRaj112/recipe-finder-backend/internal/database"
	"github.com/AnshRaj112/recipe-finder-backend/internal/models"
)

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, r io.Reader) (string, error)
}

type PersonalRecipeInput struct {
	Title          string
	Description    string
	ReadyInMinutes *int
	Servings       *int
	Calories       *float64
	Ingredients    []models.Ingredient
	Steps          []models.Step
	// Image is optional; nil means no upload.
	Image io.Reader
}

type PersonalRecipeService struct {
	store    database.PersonalRecipeStore
	guard    *Guard
	uploader ImageUploader
	now      func() time.Time
}

// NewPersonalRecipeService accepts a nil uploader; recipes with images are
// then rejected as a server misconfiguration.
func NewPersonalRecipeService(stores database.Stores, guard *Guard, uploader ImageUploader) *PersonalRecipeService {
	return &PersonalRecipeService{store: stores.PersonalRecipes, guard: guard, uploader: uploader, now: time.Now}
}

func (s *PersonalRecipeService) Create(ctx context.Context, userID string, in PersonalRecipeInput) (*models.PersonalRecipe, error) {
	if err := validateRecipeInput(&in); err != nil {
		return nil, err
	}

	recipe := &models.PersonalRecipe{
		CreatedAt:      s.now().UTC(),
		UserID:         userID,
		Title:          in.Title,
		Description:    in.Description,
		ReadyInMinutes: in.ReadyInMinutes,
		Servings:       in.Servings,
		Calories:       in.Calories,
		Ingredients:    in.Ingredients,
		Steps:          in.Steps,
	}

	if in.Image != nil {
		if s.uploader == nil {
			return nil, apperr.Misconfigured("Image upload is not configured on server")
		}
		url, err := s.uploader.UploadImage(ctx, in.Image)
		if errors.Is(err, ErrImageTooLarge) {
			return nil, apperr.Invalid("Image must be at most 10MB")
		}
		if err != nil {
			return nil, apperr.Upstream("Failed to upload image", nil, err)
		}
		recipe.Image = url
	}

	if err := s.store.Insert(ctx, recipe); err != nil {
		return nil, apperr.Internal("Failed to create recipe", err)
	}
	return recipe, nil
}

func (s *PersonalRecipeService) ListMine(ctx context.Context, userID string) ([]models.PersonalRecipe, error) {
	recipes, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to load recipes", err)
	}
	return recipes, nil
}

// Get returns any user's recipe; community recipes are readable by all.
func (s *PersonalRecipeService) Get(ctx context.Context, id string) (*models.PersonalRecipe, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, apperr.Invalid("Invalid recipe ID format")
	}
	recipe, err := s.store.FindByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound("Recipe not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to load recipe", err)
	}
	return recipe, nil
}

// Community pages through every user's recipes, newest first.
func (s *PersonalRecipeService) Community(ctx context.Context, page, perPage int) (*PageResult[models.PersonalRecipe], error) {
	page, perPage = clampPage(page, perPage, DefaultPerPage)

	recipes, err := s.store.List(ctx, database.PageFor(page, perPage))
	if err != nil {
		return nil, apperr.Internal("Failed to load community recipes", err)
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to count community recipes", err)
	}
	return &PageResult[models.PersonalRecipe]{Results: recipes, TotalResults: total, Page: page, PerPage: perPage}, nil
}

func (s *PersonalRecipeService) Delete(ctx context.Context, userID, id string) error {
	if !primitive.IsValidObjectID(id) {
		return apperr.Invalid("Invalid recipe ID format")
	}
	if _, err := s.guard.AuthorizePersonalRecipe(ctx, id, userID); err != nil {
		return err
	}
	err := s.store.Delete(ctx, id, userID)
	if errors.Is(err, database.ErrNotFound) {
		return apperr.NotFound("Recipe not found")
	}
	if err != nil {
		return apperr.Internal("Failed to delete recipe", err)
	}
	return nil
}

func validateRecipeInput(in *PersonalRecipeInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperr.Invalid("title is required")
	}
	if in.ReadyInMinutes != nil && *in.ReadyInMinutes < 0 {
		return apperr.Invalid("readyInMinutes must not be negative")
	}
	if in.Servings != nil && *in.Servings < 0 {
		return apperr.Invalid("servings must not be negative")
	}
	if in.Calories != nil && *in.Calories < 0 {
		return apperr.Invalid("calories must not be negative")
	}
	for _, ing := range in.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return apperr.Invalid("every ingredient needs a name")
		}
	}
	if in.Ingredients == nil {
		in.Ingredients = []models.Ingredient{}
	}
	if in.Steps == nil {
		in.Steps = []models.Step{}
	}
	return nil
}
