package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/recipe-finder-backend/internal/apperr"
	"github.com/AnshRaj112/recipe-finder-backend/internal/database"
	"github.com/AnshRaj112/recipe-finder-backend/internal/models"
	"github.com/AnshRaj112/recipe-finder-backend/pkg/utils"
)

type MealPlanInput struct {
	SourceID   string `json:"source_id"`
	SourceType string `json:"source_type"`
	Date       string `json:"date"`
	MealType   string `json:"meal_type"`
	Title      string `json:"title"`
	Image      string `json:"image,omitempty"`
}

type MealPlanService struct {
	store database.MealPlanStore
	guard *Guard
	now   func() time.Time
}

func NewMealPlanService(stores database.Stores, guard *Guard) *MealPlanService {
	return &MealPlanService{store: stores.MealPlans, guard: guard, now: time.Now}
}

func (s *MealPlanService) Create(ctx context.Context, userID string, in MealPlanInput) (*models.MealPlanEntry, error) {
	source, ok := models.ParseSourceType(in.SourceType)
	if !ok {
		return nil, apperr.Invalid("source_type must be spoonacular or community")
	}
	in.MealType = strings.TrimSpace(in.MealType)
	if in.SourceID == "" || in.Title == "" || in.MealType == "" {
		return nil, apperr.Invalid("source_id, meal_type and title are required")
	}
	if err := firstInvalid(utils.ValidateDate("date", in.Date)); err != nil {
		return nil, err
	}

	if err := s.guard.CheckMealSlotFree(ctx, userID, in.Date, in.MealType, ""); err != nil {
		return nil, err
	}

	entry := &models.MealPlanEntry{
		CreatedAt:  s.now().UTC(),
		UserID:     userID,
		Date:       in.Date,
		MealType:   in.MealType,
		SourceID:   in.SourceID,
		SourceType: source,
		Title:      in.Title,
		Image:      in.Image,
	}
	if err := s.store.Insert(ctx, entry); err != nil {
		return nil, slotWriteErr(err, "Failed to create meal plan entry")
	}
	return entry, nil
}

// List returns entries with start <= date <= end, ascending by date.
func (s *MealPlanService) List(ctx context.Context, userID, start, end string) ([]models.MealPlanEntry, error) {
	if err := firstInvalid(utils.ValidateDate("start_date", start), utils.ValidateDate("end_date", end)); err != nil {
		return nil, err
	}
	entries, err := s.store.ListByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, apperr.Internal("Failed to load meal plan", err)
	}
	return entries, nil
}

// Update moves an entry to another date and/or slot.
func (s *MealPlanService) Update(ctx context.Context, userID, id string, patch models.MealPlanPatch) (*models.MealPlanEntry, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, apperr.Invalid("Invalid meal ID format")
	}
	if patch.Empty() {
		return nil, apperr.Invalid("No fields provided")
	}
	if patch.Date != nil {
		if err := firstInvalid(utils.ValidateDate("date", *patch.Date)); err != nil {
			return nil, err
		}
	}
	if patch.MealType != nil {
		trimmed := strings.TrimSpace(*patch.MealType)
		if trimmed == "" {
			return nil, apperr.Invalid("meal_type must not be empty")
		}
		patch.MealType = &trimmed
	}

	current, err := s.guard.AuthorizeMealPlan(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	date, mealType := current.Date, current.MealType
	if patch.Date != nil {
		date = *patch.Date
	}
	if patch.MealType != nil {
		mealType = *patch.MealType
	}
	if err := s.guard.CheckMealSlotFree(ctx, userID, date, mealType, id); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, userID, patch)
	if errors.Is(err, database.ErrNotFound) {
		// Deleted between the check and the write.
		return nil, apperr.NotFound("Meal plan entry not found")
	}
	if err != nil {
		return nil, slotWriteErr(err, "Failed to update meal plan entry")
	}
	return updated, nil
}

func (s *MealPlanService) Delete(ctx context.Context, userID, id string) error {
	if !primitive.IsValidObjectID(id) {
		return apperr.Invalid("Invalid meal ID format")
	}
	if _, err := s.guard.AuthorizeMealPlan(ctx, id, userID); err != nil {
		return err
	}
	err := s.store.Delete(ctx, id, userID)
	if errors.Is(err, database.ErrNotFound) {
		return apperr.NotFound("Meal plan entry not found")
	}
	if err != nil {
		return apperr.Internal("Failed to delete meal plan entry", err)
	}
	return nil
}

func slotWriteErr(err error, msg string) error {
	if errors.Is(err, database.ErrDuplicate) {
		return apperr.Conflict("Meal slot already booked for this date and time")
	}
	return apperr.Internal(msg, err)
}
