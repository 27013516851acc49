package database

import (
	"context"
	"errors"

	"github.com/AnshRaj112/recipe-finder-backend/internal/models"
)

var (
	// ErrNotFound is returned when no document matches the filter.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write violates a unique key.
	ErrDuplicate = errors.New("duplicate key")
)

// Page selects a window of a sorted result set. Limit 0 means no limit.
type Page struct {
	Skip  int64
	Limit int64
}

// MaxPage bounds 1-based page numbers so skip offsets cannot overflow.
const MaxPage = 100000

// PageFor converts 1-based page/per_page query values into a Page.
func PageFor(page, perPage int) Page {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if perPage < 1 {
		perPage = 1
	}
	return Page{Skip: int64(page-1) * int64(perPage), Limit: int64(perPage)}
}

// Ids are hex ObjectIDs. A malformed id never matches anything.

type AccountStore interface {
	Insert(ctx context.Context, a *models.Account) error
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}

type MealPlanStore interface {
	Insert(ctx context.Context, e *models.MealPlanEntry) error
	FindByID(ctx context.Context, id string) (*models.MealPlanEntry, error)
	FindBySlot(ctx context.Context, userID, date, mealType string) (*models.MealPlanEntry, error)
	// ListByDateRange returns entries with start <= date <= end, ascending by date.
	ListByDateRange(ctx context.Context, userID, start, end string) ([]models.MealPlanEntry, error)
	// Update applies patch to the entry matching both id and userID.
	Update(ctx context.Context, id, userID string, patch models.MealPlanPatch) (*models.MealPlanEntry, error)
	Delete(ctx context.Context, id, userID string) error
}

type SavedRecipeStore interface {
	Insert(ctx context.Context, s *models.SavedRecipe) error
	Find(ctx context.Context, userID, recipeID string, source models.SourceType) (*models.SavedRecipe, error)
	// List returns the user's saved recipes, newest first.
	List(ctx context.Context, userID string, page Page) ([]models.SavedRecipe, error)
	Count(ctx context.Context, userID string) (int64, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, userID, recipeID string, source models.SourceType) (bool, error)
}

type PersonalRecipeStore interface {
	Insert(ctx context.Context, r *models.PersonalRecipe) error
	FindByID(ctx context.Context, id string) (*models.PersonalRecipe, error)
	ListByUser(ctx context.Context, userID string) ([]models.PersonalRecipe, error)
	// List pages through every user's recipes, newest first.
	List(ctx context.Context, page Page) ([]models.PersonalRecipe, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id, userID string) error
}

type ReviewStore interface {
	Insert(ctx context.Context, r *models.Review) error
	Find(ctx context.Context, userID, recipeID string, source models.SourceType) (*models.Review, error)
	// List returns reviews of one recipe reference, newest first.
	List(ctx context.Context, recipeID string, source models.SourceType, page Page) ([]models.Review, error)
	Count(ctx context.Context, recipeID string, source models.SourceType) (int64, error)
}

// Stores bundles one implementation of every collection.
type Stores struct {
	Accounts        AccountStore
	MealPlans       MealPlanStore
	SavedRecipes    SavedRecipeStore
	PersonalRecipes PersonalRecipeStore
	Reviews         ReviewStore
}
