package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oneshift/catalog"
	"oneshift/services"
	"oneshift/storage"
)

// Deps holds everything the route handlers need.
type Deps struct {
	Catalog *catalog.Catalog
	Store   storage.FavoritesStore
	Gemini  *services.GeminiService // nil when no API key is configured
}

// SetupRoutes registers all "/api/*" endpoints plus the health root.
func SetupRoutes(r *gin.Engine, deps Deps) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "oneshift API is running")
	})

	api := r.Group("/api")
	{
		api.GET("/favorites", GetFavorites(deps.Store))
		api.POST("/favorites/add", AddFavorite(deps.Store))
		api.POST("/favorites/remove", RemoveFavorite(deps.Store))

		cat := api.Group("/catalog")
		{
			cat.GET("", GetListings(deps.Catalog))
			cat.POST("", AddListing(deps.Catalog))
			cat.GET("/:id", GetListing(deps.Catalog))
			cat.GET("/:id/edit", GetListingEditForm(deps.Catalog))
			cat.PUT("/:id", UpdateListing(deps.Catalog))
			cat.DELETE("/:id", DeleteListing(deps.Catalog))
		}

		api.POST("/recommendations", GetRecommendations(deps.Gemini))
		api.POST("/listings", SearchUsedCars(deps.Gemini))
		api.POST("/generate-image", GenerateImage(deps.Gemini))
	}
}
