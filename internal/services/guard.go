package services

import (
	"context"
	"errors"

	"github.com/AnshRaj112/recipe-finder-backend/internal/apperr"
	"github.com/AnshRaj112/recipe-finder-backend/internal/database"
	"github.com/AnshRaj112/recipe-finder-backend/internal/models"
)

// Guard holds the uniqueness and ownership rules checked before each write.
// The checks give friendly errors; the stores' unique keys stay authoritative
// when two writers pass a check at the same time.
type Guard struct {
	stores database.Stores
}

func NewGuard(stores database.Stores) *Guard {
	return &Guard{stores: stores}
}

// CheckRegistration: email free first, then password confirmation.
func (g *Guard) CheckRegistration(ctx context.Context, email, password, confirm string) error {
	_, err := g.stores.Accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return apperr.Conflict("Email already registered")
	case !errors.Is(err, database.ErrNotFound):
		return apperr.Internal("Failed to check email", err)
	}

	if password != confirm {
		return apperr.Invalid("Passwords do not match")
	}
	return nil
}

// CheckMealSlotFree fails with Conflict when userID already has an entry for
// (date, mealType) other than exceptID. Pass "" when creating.
func (g *Guard) CheckMealSlotFree(ctx context.Context, userID, date, mealType, exceptID string) error {
	existing, err := g.stores.MealPlans.FindBySlot(ctx, userID, date, mealType)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return nil
	case err != nil:
		return apperr.Internal("Failed to check meal slot", err)
	case existing.ID.Hex() == exceptID:
		return nil
	}
	return apperr.Conflict("Meal slot already booked for this date and time")
}

// AuthorizeMealPlan loads the entry and checks it belongs to userID.
func (g *Guard) AuthorizeMealPlan(ctx context.Context, id, userID string) (*models.MealPlanEntry, error) {
	entry, err := g.stores.MealPlans.FindByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound("Meal plan entry not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to load meal plan entry", err)
	}
	if entry.UserID != userID {
		return nil, apperr.Forbidden("Not allowed to modify this meal plan entry")
	}
	return entry, nil
}

// FindSaved returns the caller's saved row for the reference, or nil.
// Absence is not an error: saves and unsaves are idempotent.
func (g *Guard) FindSaved(ctx context.Context, userID, recipeID string, source models.SourceType) (*models.SavedRecipe, error) {
	row, err := g.stores.SavedRecipes.Find(ctx, userID, recipeID, source)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal("Failed to check saved recipe", err)
	}
	return row, nil
}

// AuthorizePersonalRecipe loads the recipe and checks it belongs to userID.
func (g *Guard) AuthorizePersonalRecipe(ctx context.Context, id, userID string) (*models.PersonalRecipe, error) {
	recipe, err := g.stores.PersonalRecipes.FindByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound("Recipe not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to load recipe", err)
	}
	if recipe.UserID != userID {
		return nil, apperr.Forbidden("Not allowed to delete this recipe")
	}
	return recipe, nil
}

// CheckReview resolves a community target before looking for a duplicate,
// so a review of a missing recipe is NotFound even if one was left earlier.
func (g *Guard) CheckReview(ctx context.Context, userID, recipeID string, source models.SourceType) error {
	if source == models.SourceCommunity {
		_, err := g.stores.PersonalRecipes.FindByID(ctx, recipeID)
		if errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound("Recipe not found")
		}
		if err != nil {
			return apperr.Internal("Failed to load recipe", err)
		}
	}

	_, err := g.stores.Reviews.Find(ctx, userID, recipeID, source)
	switch {
	case err == nil:
		return apperr.Conflict("You have already reviewed this recipe")
	case !errors.Is(err, database.ErrNotFound):
		return apperr.Internal("Failed to check review", err)
	}
	return nil
}
