// Package handlers adapts HTTP requests to the services layer.
package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/recipe-finder-backend/internal/services"
)

// Handler holds the services the HTTP endpoints delegate to.
type Handler struct {
	Auth      *services.AuthService
	MealPlans *services.MealPlanService
	Saved     *services.SavedRecipeService
	Personal  *services.PersonalRecipeService
	Reviews   *services.ReviewService
	Catalog   *services.Catalog

	Log logrus.FieldLogger
}
