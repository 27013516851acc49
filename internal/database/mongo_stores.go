package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnshRaj112/recipe-finder-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoStores binds every collection of db.
func NewMongoStores(db *mongo.Database) Stores {
	return Stores{
		Accounts:        &mongoAccounts{col: db.Collection(CollectionUsers)},
		MealPlans:       &mongoMealPlans{col: db.Collection(CollectionMealPlans)},
		SavedRecipes:    &mongoSavedRecipes{col: db.Collection(CollectionSavedRecipes)},
		PersonalRecipes: &mongoPersonalRecipes{col: db.Collection(CollectionMyRecipes)},
		Reviews:         &mongoReviews{col: db.Collection(CollectionRecipeReviews)},
	}
}

// bsonKeys builds an ordered key document from name/direction pairs.
func bsonKeys(pairs ...any) bson.D {
	keys := make(bson.D, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		keys = append(keys, bson.E{Key: pairs[i].(string), Value: pairs[i+1]})
	}
	return keys
}

func insertErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.M) (*T, error) {
	var doc T
	err := col.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func findMany[T any](ctx context.Context, col *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func pageOptions(sort bson.D, page Page) *options.FindOptions {
	opts := options.Find().SetSort(sort)
	if page.Skip > 0 {
		opts.SetSkip(page.Skip)
	}
	if page.Limit > 0 {
		opts.SetLimit(page.Limit)
	}
	return opts
}

// --- accounts ---

type mongoAccounts struct{ col *mongo.Collection }

func (s *mongoAccounts) Insert(ctx context.Context, a *models.Account) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if _, err := s.col.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert account: %w", insertErr(err))
	}
	return nil
}

func (s *mongoAccounts) FindByID(ctx context.Context, id string) (*models.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return findOne[models.Account](ctx, s.col, bson.M{"_id": oid})
}

func (s *mongoAccounts) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return findOne[models.Account](ctx, s.col, bson.M{"email": email})
}

// --- meal plans ---

type mongoMealPlans struct{ col *mongo.Collection }

func (s *mongoMealPlans) Insert(ctx context.Context, e *models.MealPlanEntry) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if _, err := s.col.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert meal plan: %w", insertErr(err))
	}
	return nil
}

func (s *mongoMealPlans) FindByID(ctx context.Context, id string) (*models.MealPlanEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return findOne[models.MealPlanEntry](ctx, s.col, bson.M{"_id": oid})
}

func (s *mongoMealPlans) FindBySlot(ctx context.Context, userID, date, mealType string) (*models.MealPlanEntry, error) {
	return findOne[models.MealPlanEntry](ctx, s.col, bson.M{
		"user_id":   userID,
		"date":      date,
		"meal_type": mealType,
	})
}

func (s *mongoMealPlans) ListByDateRange(ctx context.Context, userID, start, end string) ([]models.MealPlanEntry, error) {
	filter := bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": start, "$lte": end},
	}
	return findMany[models.MealPlanEntry](ctx, s.col, filter, pageOptions(bsonKeys("date", 1, "_id", 1), Page{}))
}

func (s *mongoMealPlans) Update(ctx context.Context, id, userID string, patch models.MealPlanPatch) (*models.MealPlanEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	if patch.MealType != nil {
		set["meal_type"] = *patch.MealType
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.MealPlanEntry
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid, "user_id": userID}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update meal plan: %w", insertErr(err))
	}
	return &updated, nil
}

func (s *mongoMealPlans) Delete(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete meal plan: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- saved recipes ---

type mongoSavedRecipes struct{ col *mongo.Collection }

func (s *mongoSavedRecipes) Insert(ctx context.Context, r *models.SavedRecipe) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if _, err := s.col.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert saved recipe: %w", insertErr(err))
	}
	return nil
}

func (s *mongoSavedRecipes) Find(ctx context.Context, userID, recipeID string, source models.SourceType) (*models.SavedRecipe, error) {
	return findOne[models.SavedRecipe](ctx, s.col, bson.M{
		"user_id":     userID,
		"recipe_id":   recipeID,
		"source_type": source,
	})
}

func (s *mongoSavedRecipes) List(ctx context.Context, userID string, page Page) ([]models.SavedRecipe, error) {
	return findMany[models.SavedRecipe](ctx, s.col, bson.M{"user_id": userID}, pageOptions(bsonKeys("saved_at", -1, "_id", -1), page))
}

func (s *mongoSavedRecipes) Count(ctx context.Context, userID string) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"user_id": userID})
}

func (s *mongoSavedRecipes) Delete(ctx context.Context, userID, recipeID string, source models.SourceType) (bool, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{
		"user_id":     userID,
		"recipe_id":   recipeID,
		"source_type": source,
	})
	if err != nil {
		return false, fmt.Errorf("delete saved recipe: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// --- personal recipes ---

type mongoPersonalRecipes struct{ col *mongo.Collection }

func (s *mongoPersonalRecipes) Insert(ctx context.Context, r *models.PersonalRecipe) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if _, err := s.col.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert personal recipe: %w", insertErr(err))
	}
	return nil
}

func (s *mongoPersonalRecipes) FindByID(ctx context.Context, id string) (*models.PersonalRecipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return findOne[models.PersonalRecipe](ctx, s.col, bson.M{"_id": oid})
}

func (s *mongoPersonalRecipes) ListByUser(ctx context.Context, userID string) ([]models.PersonalRecipe, error) {
	return findMany[models.PersonalRecipe](ctx, s.col, bson.M{"user_id": userID}, pageOptions(bsonKeys("created_at", -1, "_id", -1), Page{}))
}

func (s *mongoPersonalRecipes) List(ctx context.Context, page Page) ([]models.PersonalRecipe, error) {
	return findMany[models.PersonalRecipe](ctx, s.col, bson.M{}, pageOptions(bsonKeys("created_at", -1, "_id", -1), page))
}

func (s *mongoPersonalRecipes) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}

func (s *mongoPersonalRecipes) Delete(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete personal recipe: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- reviews ---

type mongoReviews struct{ col *mongo.Collection }

func (s *mongoReviews) Insert(ctx context.Context, r *models.Review) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if _, err := s.col.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert review: %w", insertErr(err))
	}
	return nil
}

func (s *mongoReviews) Find(ctx context.Context, userID, recipeID string, source models.SourceType) (*models.Review, error) {
	return findOne[models.Review](ctx, s.col, bson.M{
		"user_id":     userID,
		"recipe_id":   recipeID,
		"source_type": source,
	})
}

func (s *mongoReviews) List(ctx context.Context, recipeID string, source models.SourceType, page Page) ([]models.Review, error) {
	filter := bson.M{"recipe_id": recipeID, "source_type": source}
	return findMany[models.Review](ctx, s.col, filter, pageOptions(bsonKeys("created_at", -1, "_id", -1), page))
}

func (s *mongoReviews) Count(ctx context.Context, recipeID string, source models.SourceType) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"recipe_id": recipeID, "source_type": source})
}
