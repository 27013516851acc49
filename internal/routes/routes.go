package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/recipe-finder-backend/internal/handlers"
	"github.com/AnshRaj112/recipe-finder-backend/internal/middleware"
)

func SetupRoutes(r chi.Router, h *handlers.Handler, resolver middleware.Resolver, log logrus.FieldLogger) {
	// Public routes
	r.Post("/api/auth/register", h.Register)
	r.Post("/api/auth/login", h.Login)
	r.Get("/api/recipes/search", h.SearchRecipes)
	r.Get("/api/reviews", h.ListReviews)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(resolver, log))

		r.Get("/api/users/me", h.Me)

		// Meal plan routes
		r.Post("/api/meal-plans", h.CreateMealPlan)
		r.Get("/api/meal-plans", h.ListMealPlans)
		r.Patch("/api/meal-plans/{id}", h.UpdateMealPlan)
		r.Delete("/api/meal-plans/{id}", h.DeleteMealPlan)

		// Saved recipe routes
		r.Post("/api/recipes/save", h.SaveRecipe)
		r.Delete("/api/recipes/unsave/{id}", h.UnsaveRecipe)
		r.Get("/api/recipes/saved", h.ListSaved)
		r.Get("/api/recipes/saved_recipes", h.ListAllSaved)
		r.Get("/api/recipes/is-saved/{id}", h.IsSaved)

		// Personal recipe routes
		r.Post("/api/my-recipes", h.CreateMyRecipe)
		r.Get("/api/my-recipes", h.ListMyRecipes)
		r.Get("/api/my-recipes/community", h.CommunityRecipes)
		r.Get("/api/my-recipes/{id}", h.GetMyRecipe)
		r.Delete("/api/my-recipes/{id}", h.DeleteMyRecipe)

		// Review routes
		r.Post("/api/reviews", h.CreateReview)
	})

	// Public; chi matches the static /api/recipes/* siblings before {id}.
	r.Get("/api/recipes/{id}", h.GetRecipe)
}
