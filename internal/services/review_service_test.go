package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/recipe-finder-backend/internal/apperr"
	"github.com/AnshRaj112/recipe-finder-backend/internal/database"
	"github.com/AnshRaj112/recipe-finder-backend/internal/models"
)

func newTestReviews() (*ReviewService, database.Stores) {
	stores := database.NewMemoryStores()
	svc := NewReviewService(stores, NewGuard(stores))
	svc.now = tickingClock(testIssuedAt)
	return svc, stores
}

func TestReviewService_RatingBounds(t *testing.T) {
	svc, _ := newTestReviews()
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(ctx, "u1", ReviewInput{RecipeID: "716429", SourceType: "spoonacular", Rating: rating})
		assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err), "rating %d", rating)
	}

	r, err := svc.Create(ctx, "u1", ReviewInput{RecipeID: "716429", SourceType: "spoonacular", Rating: 3})
	require.NoError(t, err, "comment is optional")
	assert.Equal(t, 3, r.Rating)
	assert.Equal(t, r.CreatedAt, r.UpdatedAt)

	_, err = svc.Create(ctx, "u1", ReviewInput{RecipeID: "716429", SourceType: "spoonacular", Rating: 5})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = svc.Create(ctx, "u2", ReviewInput{RecipeID: "716429", SourceType: "spoonacular", Rating: 5})
	assert.NoError(t, err)
}

func TestReviewService_CommentLength(t *testing.T) {
	svc, _ := newTestReviews()
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", ReviewInput{RecipeID: "1", SourceType: "spoonacular", Rating: 4, Comment: strings.Repeat("a", 101)})
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	_, err = svc.Create(ctx, "u1", ReviewInput{RecipeID: "1", SourceType: "spoonacular", Rating: 4, Comment: strings.Repeat("é", 100)})
	assert.NoError(t, err, "length counts characters, not bytes")
}

func TestReviewService_CommunityTarget(t *testing.T) {
	svc, stores := newTestReviews()
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", ReviewInput{RecipeID: "64b7f0c2a1b2c3d4e5f60718", SourceType: "community", Rating: 4})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	recipe := &models.PersonalRecipe{UserID: "author", Title: "Stew"}
	require.NoError(t, stores.PersonalRecipes.Insert(ctx, recipe))

	_, err = svc.Create(ctx, "u1", ReviewInput{RecipeID: recipe.ID.Hex(), SourceType: "community", Rating: 4})
	require.NoError(t, err)
}

func TestReviewService_List(t *testing.T) {
	svc, _ := newTestReviews()
	ctx := context.Background()

	for _, user := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, user, ReviewInput{RecipeID: "9", SourceType: "spoonacular", Rating: 4})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "a", ReviewInput{RecipeID: "10", SourceType: "spoonacular", Rating: 1})
	require.NoError(t, err)

	page, err := svc.List(ctx, "9", "spoonacular", 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalResults)
	assert.Equal(t, 10, page.PerPage)
	require.Len(t, page.Results, 3)
	assert.Equal(t, "c", page.Results[0].UserID)
	assert.Equal(t, "a", page.Results[2].UserID)

	empty, err := svc.List(ctx, "9", "community", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, empty.Results)
	assert.EqualValues(t, 0, empty.TotalResults)

	_, err = svc.List(ctx, "9", "", 1, 10)
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}
