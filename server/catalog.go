package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"oneshift/catalog"
	"oneshift/models"
	"oneshift/services"
)

// listingView wraps a catalog record with the image a client should
// actually render: the generated one, then the user-supplied one, then a
// stock fallback matched on the title.
type listingView struct {
	models.CarListing
	DisplayImage string `json:"displayImage"`
}

func viewOf(rec models.CarListing) listingView {
	view := listingView{CarListing: rec}
	switch {
	case rec.GeneratedImage != "":
		view.DisplayImage = rec.GeneratedImage
	case rec.Image != "":
		view.DisplayImage = rec.Image
	default:
		if url, ok := services.FindFallbackImage(rec.Title); ok {
			view.DisplayImage = url
		}
	}
	return view
}

func listingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return 0, false
	}
	return id, true
}

// GetListings returns the catalog, filtered by ?q= when present.
func GetListings(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var records []models.CarListing
		if q := c.Query("q"); q != "" {
			records = cat.Search(q)
		} else {
			records = cat.Listings()
		}

		views := make([]listingView, 0, len(records))
		for _, rec := range records {
			views = append(views, viewOf(rec))
		}
		c.JSON(http.StatusOK, views)
	}
}

func GetListing(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := listingID(c)
		if !ok {
			return
		}
		rec, found := cat.Find(id)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusOK, viewOf(rec))
	}
}

// GetListingEditForm reverses a record back into form fields for editing.
func GetListingEditForm(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := listingID(c)
		if !ok {
			return
		}
		rec, found := cat.Find(id)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusOK, catalog.EditForm(rec))
	}
}

func AddListing(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.ListingInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if in.Brand == "" || in.Model == "" || in.Price == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "brand, model and price are required"})
			return
		}
		rec := cat.Add(in)
		c.JSON(http.StatusCreated, viewOf(rec))
	}
}

func UpdateListing(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := listingID(c)
		if !ok {
			return
		}
		var in catalog.ListingInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		rec, found := cat.Update(id, in)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusOK, viewOf(rec))
	}
}

func DeleteListing(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := listingID(c)
		if !ok {
			return
		}
		if !cat.Remove(id) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
