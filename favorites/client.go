package favorites

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"oneshift/models"
)

// Client talks to the favorites HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// Fetch returns all saved favorites for the user.
func (c *Client) Fetch(ctx context.Context, userID string) ([]models.Favorite, error) {
	endpoint := c.baseURL + "/api/favorites?userId=" + url.QueryEscape(userID)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("favorites fetch error %d: %s", resp.StatusCode, string(body))
	}

	var favs []models.Favorite
	if err := json.NewDecoder(resp.Body).Decode(&favs); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}
	return favs, nil
}

// Add saves a favorite remotely and returns the stored row with the
// authoritative id and timestamp.
func (c *Client) Add(ctx context.Context, fav models.Favorite) (models.Favorite, error) {
	payload := map[string]interface{}{
		"userId": fav.UserID,
		"carId":  fav.CarID,
		"isNew":  fav.IsNew,
		"data":   fav.Data,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return models.Favorite{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/favorites/add", bytes.NewReader(data))
	if err != nil {
		return models.Favorite{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Favorite{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return models.Favorite{}, fmt.Errorf("favorites add error %d: %s", resp.StatusCode, string(body))
	}

	var saved models.Favorite
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		return models.Favorite{}, fmt.Errorf("failed to decode saved favorite: %w", err)
	}
	return saved, nil
}

// Remove deletes the user's favorite for the given car id. Removing a
// favorite that does not exist remotely is not an error.
func (c *Client) Remove(ctx context.Context, userID, carID string) error {
	data, err := json.Marshal(map[string]string{
		"userId": userID,
		"carId":  carID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/favorites/remove", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("favorites remove error %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
