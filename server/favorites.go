package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"oneshift/models"
	"oneshift/storage"
)

type addFavoriteRequest struct {
	UserID string          `json:"userId"`
	CarID  string          `json:"carId"`
	IsNew  bool            `json:"isNew"`
	Data   json.RawMessage `json:"data"`
}

type removeFavoriteRequest struct {
	UserID string `json:"userId"`
	CarID  string `json:"carId"`
}

// GetFavorites returns all favorites for the user given in ?userId=.
func GetFavorites(store storage.FavoritesStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}

		favs, err := store.ListFavorites(c.Request.Context(), userID)
		if err != nil {
			log.Printf("Error fetching favorites for %s: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch favorites"})
			return
		}
		if favs == nil {
			favs = []models.Favorite{}
		}
		c.JSON(http.StatusOK, favs)
	}
}

// AddFavorite saves a favorite, upserting on (userId, carId), and returns
// the stored row.
func AddFavorite(store storage.FavoritesStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addFavoriteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.UserID == "" || req.CarID == "" || len(req.Data) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId, carId and data are required"})
			return
		}

		fav := models.Favorite{
			UserID: req.UserID,
			CarID:  req.CarID,
			IsNew:  req.IsNew,
			Data:   req.Data,
		}
		if err := store.AddFavorite(c.Request.Context(), &fav); err != nil {
			log.Printf("Error adding favorite %s for %s: %v", req.CarID, req.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
			return
		}
		c.JSON(http.StatusOK, fav)
	}
}

// RemoveFavorite deletes the user's favorite for a car. Removing a favorite
// that no longer exists still succeeds.
func RemoveFavorite(store storage.FavoritesStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req removeFavoriteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.UserID == "" || req.CarID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId and carId are required"})
			return
		}

		count, err := store.RemoveFavorites(c.Request.Context(), req.UserID, req.CarID)
		if err != nil {
			log.Printf("Error removing favorite %s for %s: %v", req.CarID, req.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
	}
}
