package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/recipe-finder-backend/internal/apperr"
	"github.com/AnshRaj112/recipe-finder-backend/internal/database"
	"github.com/AnshRaj112/recipe-finder-backend/internal/models"
)

func newTestMealPlans() *MealPlanService {
	stores := database.NewMemoryStores()
	return NewMealPlanService(stores, NewGuard(stores))
}

func meal(date, slot string) MealPlanInput {
	return MealPlanInput{SourceID: "716429", SourceType: "spoonacular", Date: date, MealType: slot, Title: "Pasta"}
}

func strPtr(s string) *string { return &s }

func TestMealPlanService_SlotUniqueness(t *testing.T) {
	svc := newTestMealPlans()
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", meal("2024-05-01", "dinner"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, "u1", meal("2024-05-01", "dinner"))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = svc.Create(ctx, "u1", meal("2024-05-01", "lunch"))
	assert.NoError(t, err)

	_, err = svc.Create(ctx, "u2", meal("2024-05-01", "dinner"))
	assert.NoError(t, err, "slots are per owner")
}

func TestMealPlanService_CreateValidation(t *testing.T) {
	svc := newTestMealPlans()
	ctx := context.Background()

	bad := meal("2024-05-01", "dinner")
	bad.SourceType = "allrecipes"
	_, err := svc.Create(ctx, "u1", bad)
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	_, err = svc.Create(ctx, "u1", meal("2024-13-01", "dinner"))
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	_, err = svc.Create(ctx, "u1", meal("2024-05-01", "  "))
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestMealPlanService_ListInclusiveAscending(t *testing.T) {
	svc := newTestMealPlans()
	ctx := context.Background()

	for _, d := range []string{"2024-05-03", "2024-04-30", "2024-05-01", "2024-05-07", "2024-05-08"} {
		_, err := svc.Create(ctx, "u1", meal(d, "dinner"))
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "u2", meal("2024-05-02", "dinner"))
	require.NoError(t, err)

	entries, err := svc.List(ctx, "u1", "2024-05-01", "2024-05-07")
	require.NoError(t, err)

	var dates []string
	for _, e := range entries {
		dates = append(dates, e.Date)
	}
	assert.Equal(t, []string{"2024-05-01", "2024-05-03", "2024-05-07"}, dates)

	_, err = svc.List(ctx, "u1", "May 1", "2024-05-07")
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestMealPlanService_Update(t *testing.T) {
	svc := newTestMealPlans()
	ctx := context.Background()

	dinner, err := svc.Create(ctx, "u1", meal("2024-05-01", "dinner"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", meal("2024-05-02", "lunch"))
	require.NoError(t, err)

	moved, err := svc.Update(ctx, "u1", dinner.ID.Hex(), models.MealPlanPatch{MealType: strPtr("breakfast")})
	require.NoError(t, err)
	assert.Equal(t, "breakfast", moved.MealType)
	assert.Equal(t, "2024-05-01", moved.Date)

	_, err = svc.Update(ctx, "u1", dinner.ID.Hex(), models.MealPlanPatch{Date: strPtr("2024-05-02"), MealType: strPtr("lunch")})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err), "target slot is taken")

	same, err := svc.Update(ctx, "u1", dinner.ID.Hex(), models.MealPlanPatch{MealType: strPtr("breakfast")})
	require.NoError(t, err, "re-applying the current slot is not a conflict")
	assert.Equal(t, "breakfast", same.MealType)
}

func TestMealPlanService_UpdateErrors(t *testing.T) {
	svc := newTestMealPlans()
	ctx := context.Background()

	entry, err := svc.Create(ctx, "owner", meal("2024-05-01", "dinner"))
	require.NoError(t, err)
	id := entry.ID.Hex()

	_, err = svc.Update(ctx, "owner", "not-an-id", models.MealPlanPatch{MealType: strPtr("lunch")})
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	_, err = svc.Update(ctx, "owner", id, models.MealPlanPatch{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
	assert.Equal(t, "No fields provided", err.Error())

	_, err = svc.Update(ctx, "owner", id, models.MealPlanPatch{Date: strPtr("tomorrow")})
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	_, err = svc.Update(ctx, "intruder", id, models.MealPlanPatch{MealType: strPtr("lunch")})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.Update(ctx, "owner", "64b7f0c2a1b2c3d4e5f60718", models.MealPlanPatch{MealType: strPtr("lunch")})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestMealPlanService_Delete(t *testing.T) {
	svc := newTestMealPlans()
	ctx := context.Background()

	entry, err := svc.Create(ctx, "owner", meal("2024-05-01", "dinner"))
	require.NoError(t, err)
	id := entry.ID.Hex()

	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(svc.Delete(ctx, "intruder", id)))
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(svc.Delete(ctx, "owner", "xyz")))
	require.NoError(t, svc.Delete(ctx, "owner", id))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.Delete(ctx, "owner", id)))

	_, err = svc.Create(ctx, "owner", meal("2024-05-01", "dinner"))
	assert.NoError(t, err, "slot is free again after delete")
}
