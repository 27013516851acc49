package database

import (
	"context"
	"sort"
	"sync"

	"github.com/AnshRaj112/recipe-finder-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewMemoryStores returns process-local stores that enforce the same unique
// keys as the Mongo indexes. Used for DATABASE_DRIVER=memory and in tests.
func NewMemoryStores() Stores {
	return Stores{
		Accounts:        &memoryAccounts{byID: map[primitive.ObjectID]models.Account{}},
		MealPlans:       &memoryMealPlans{byID: map[primitive.ObjectID]models.MealPlanEntry{}},
		SavedRecipes:    &memorySavedRecipes{byKey: map[ownedRef]models.SavedRecipe{}},
		PersonalRecipes: &memoryPersonalRecipes{byID: map[primitive.ObjectID]models.PersonalRecipe{}},
		Reviews:         &memoryReviews{byKey: map[ownedRef]models.Review{}},
	}
}

type ownedRef struct {
	userID   string
	recipeID string
	source   models.SourceType
}

type slotKey struct {
	userID, date, mealType string
}

func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

func window[T any](items []T, page Page) []T {
	if page.Skip < 0 || page.Skip >= int64(len(items)) {
		return []T{}
	}
	items = items[page.Skip:]
	if page.Limit > 0 && page.Limit < int64(len(items)) {
		items = items[:page.Limit]
	}
	return items
}

// newestFirst orders by timestamp then id, both descending, matching the Mongo sort.
func newestFirst[T any](items []T, key func(T) (int64, primitive.ObjectID)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti != tj {
			return ti > tj
		}
		return idi.Hex() > idj.Hex()
	})
}

// --- accounts ---

type memoryAccounts struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]models.Account
}

func (s *memoryAccounts) Insert(_ context.Context, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if existing.Email == a.Email {
			return ErrDuplicate
		}
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	s.byID[a.ID] = *a
	return nil
}

func (s *memoryAccounts) FindByID(_ context.Context, id string) (*models.Account, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byID[oid]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *memoryAccounts) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.byID {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

// --- meal plans ---

type memoryMealPlans struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]models.MealPlanEntry
}

func (s *memoryMealPlans) slotTakenLocked(key slotKey, except primitive.ObjectID) bool {
	for id, e := range s.byID {
		if id != except && e.UserID == key.userID && e.Date == key.date && e.MealType == key.mealType {
			return true
		}
	}
	return false
}

func (s *memoryMealPlans) Insert(_ context.Context, e *models.MealPlanEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slotTakenLocked(slotKey{e.UserID, e.Date, e.MealType}, primitive.NilObjectID) {
		return ErrDuplicate
	}
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	s.byID[e.ID] = *e
	return nil
}

func (s *memoryMealPlans) FindByID(_ context.Context, id string) (*models.MealPlanEntry, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byID[oid]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (s *memoryMealPlans) FindBySlot(_ context.Context, userID, date, mealType string) (*models.MealPlanEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.byID {
		if e.UserID == userID && e.Date == date && e.MealType == mealType {
			return &e, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryMealPlans) ListByDateRange(_ context.Context, userID, start, end string) ([]models.MealPlanEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.MealPlanEntry{}
	for _, e := range s.byID {
		if e.UserID == userID && e.Date >= start && e.Date <= end {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out, nil
}

func (s *memoryMealPlans) Update(_ context.Context, id, userID string, patch models.MealPlanPatch) (*models.MealPlanEntry, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[oid]
	if !ok || e.UserID != userID {
		return nil, ErrNotFound
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.MealType != nil {
		e.MealType = *patch.MealType
	}
	if s.slotTakenLocked(slotKey{e.UserID, e.Date, e.MealType}, oid) {
		return nil, ErrDuplicate
	}
	s.byID[oid] = e
	return &e, nil
}

func (s *memoryMealPlans) Delete(_ context.Context, id, userID string) error {
	oid, ok := parseID(id)
	if !ok {
		return ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[oid]
	if !ok || e.UserID != userID {
		return ErrNotFound
	}
	delete(s.byID, oid)
	return nil
}

// --- saved recipes ---

type memorySavedRecipes struct {
	mu    sync.RWMutex
	byKey map[ownedRef]models.SavedRecipe
}

func (s *memorySavedRecipes) Insert(_ context.Context, r *models.SavedRecipe) error {
	key := ownedRef{r.UserID, r.RecipeID, r.SourceType}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byKey[key]; exists {
		return ErrDuplicate
	}
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	s.byKey[key] = *r
	return nil
}

func (s *memorySavedRecipes) Find(_ context.Context, userID, recipeID string, source models.SourceType) (*models.SavedRecipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byKey[ownedRef{userID, recipeID, source}]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *memorySavedRecipes) List(_ context.Context, userID string, page Page) ([]models.SavedRecipe, error) {
	s.mu.RLock()
	out := []models.SavedRecipe{}
	for _, r := range s.byKey {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	newestFirst(out, func(r models.SavedRecipe) (int64, primitive.ObjectID) { return r.SavedAt.UnixNano(), r.ID })
	return window(out, page), nil
}

func (s *memorySavedRecipes) Count(_ context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.byKey {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *memorySavedRecipes) Delete(_ context.Context, userID, recipeID string, source models.SourceType) (bool, error) {
	key := ownedRef{userID, recipeID, source}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[key]; !ok {
		return false, nil
	}
	delete(s.byKey, key)
	return true, nil
}

// --- personal recipes ---

type memoryPersonalRecipes struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]models.PersonalRecipe
}

func (s *memoryPersonalRecipes) Insert(_ context.Context, r *models.PersonalRecipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	s.byID[r.ID] = *r
	return nil
}

func (s *memoryPersonalRecipes) FindByID(_ context.Context, id string) (*models.PersonalRecipe, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[oid]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *memoryPersonalRecipes) ListByUser(_ context.Context, userID string) ([]models.PersonalRecipe, error) {
	s.mu.RLock()
	out := []models.PersonalRecipe{}
	for _, r := range s.byID {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	newestFirst(out, func(r models.PersonalRecipe) (int64, primitive.ObjectID) { return r.CreatedAt.UnixNano(), r.ID })
	return out, nil
}

func (s *memoryPersonalRecipes) List(_ context.Context, page Page) ([]models.PersonalRecipe, error) {
	s.mu.RLock()
	out := make([]models.PersonalRecipe, 0, len(s.byID))
	for _, r := range s.byID {
		out = append(out, r)
	}
	s.mu.RUnlock()

	newestFirst(out, func(r models.PersonalRecipe) (int64, primitive.ObjectID) { return r.CreatedAt.UnixNano(), r.ID })
	return window(out, page), nil
}

func (s *memoryPersonalRecipes) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byID)), nil
}

func (s *memoryPersonalRecipes) Delete(_ context.Context, id, userID string) error {
	oid, ok := parseID(id)
	if !ok {
		return ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[oid]
	if !ok || r.UserID != userID {
		return ErrNotFound
	}
	delete(s.byID, oid)
	return nil
}

// --- reviews ---

type memoryReviews struct {
	mu    sync.RWMutex
	byKey map[ownedRef]models.Review
}

func (s *memoryReviews) Insert(_ context.Context, r *models.Review) error {
	key := ownedRef{r.UserID, r.RecipeID, r.SourceType}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byKey[key]; exists {
		return ErrDuplicate
	}
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	s.byKey[key] = *r
	return nil
}

func (s *memoryReviews) Find(_ context.Context, userID, recipeID string, source models.SourceType) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byKey[ownedRef{userID, recipeID, source}]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *memoryReviews) List(_ context.Context, recipeID string, source models.SourceType, page Page) ([]models.Review, error) {
	s.mu.RLock()
	out := []models.Review{}
	for _, r := range s.byKey {
		if r.RecipeID == recipeID && r.SourceType == source {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	newestFirst(out, func(r models.Review) (int64, primitive.ObjectID) { return r.CreatedAt.UnixNano(), r.ID })
	return window(out, page), nil
}

func (s *memoryReviews) Count(_ context.Context, recipeID string, source models.SourceType) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.byKey {
		if r.RecipeID == recipeID && r.SourceType == source {
			n++
		}
	}
	return n, nil
}
