package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"oneshift/models"
	"oneshift/services"
)

type generateImageRequest struct {
	MakeModel string `json:"makeModel"`
	Variant   string `json:"variant"`
	CarType   string `json:"carType"`
	Year      int    `json:"year"`
	CarTitle  string `json:"carTitle"`
	FuelType  string `json:"fuelType"`
	IsListing bool   `json:"isListing"`
}

func assistUnavailable(c *gin.Context, gemini *services.GeminiService) bool {
	if gemini == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assistant is not configured"})
		return true
	}
	return false
}

// GetRecommendations asks the model for new cars matching the buyer's form.
func GetRecommendations(gemini *services.GeminiService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if assistUnavailable(c, gemini) {
			return
		}
		var form models.NewCarFormData
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		recs, err := gemini.Recommendations(c.Request.Context(), form)
		if err != nil {
			log.Printf("Error generating recommendations: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recommendations"})
			return
		}
		c.JSON(http.StatusOK, recs)
	}
}

// SearchUsedCars asks the model for plausible used-car listings.
func SearchUsedCars(gemini *services.GeminiService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if assistUnavailable(c, gemini) {
			return
		}
		var form models.UsedCarFormData
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		listings, err := gemini.UsedCarSearch(c.Request.Context(), form)
		if err != nil {
			log.Printf("Error searching used cars: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search listings"})
			return
		}
		c.JSON(http.StatusOK, listings)
	}
}

// GenerateImage renders a studio shot of a car, either for a catalog
// listing (title + fuel type) or a recommendation (make, variant, year).
func GenerateImage(gemini *services.GeminiService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if assistUnavailable(c, gemini) {
			return
		}
		var req generateImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		var (
			url string
			err error
		)
		if req.IsListing {
			url, err = gemini.ListingImage(c.Request.Context(), req.CarTitle, req.FuelType)
		} else {
			carType := req.CarType
			if carType == "" {
				carType = services.CarTypeFromTitle(req.MakeModel)
			}
			url, err = gemini.CarImage(c.Request.Context(), req.MakeModel, req.Variant, carType, req.Year)
		}
		if err != nil {
			log.Printf("Error generating image: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate image"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"imageUrl": url})
	}
}
