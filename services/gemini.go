package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"oneshift/models"
)

const (
	textModel  = "gemini-2.5-flash"
	imageModel = "gemini-2.5-flash-image"
)

// GeminiService talks to the Gemini API for car recommendations, used-car
// search aggregation, and listing image generation.
type GeminiService struct {
	client *genai.Client
}

// NewGeminiService creates a new GeminiService.
func NewGeminiService(ctx context.Context, apiKey string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiService{client: client}, nil
}

var recommendationSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"makeModel":   {Type: genai.TypeString},
			"variant":     {Type: genai.TypeString},
			"price":       {Type: genai.TypeString},
			"mileage":     {Type: genai.TypeString},
			"reasons":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"link":        {Type: genai.TypeString},
			"topFeatures": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"matchScore":  {Type: genai.TypeNumber},
			"fuelType":    {Type: genai.TypeString},
			"bodyType":    {Type: genai.TypeString},
		},
		Required: []string{"makeModel", "variant", "price", "mileage", "reasons", "link", "topFeatures", "matchScore", "fuelType", "bodyType"},
	},
}

var usedCarSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"makeModel":  {Type: genai.TypeString},
			"variant":    {Type: genai.TypeString},
			"price":      {Type: genai.TypeString},
			"platform":   {Type: genai.TypeString},
			"year":       {Type: genai.TypeInteger},
			"kmsDriven":  {Type: genai.TypeString},
			"matchScore": {Type: genai.TypeNumber},
			"link":       {Type: genai.TypeString},
			"fuelType":   {Type: genai.TypeString},
		},
		Required: []string{"makeModel", "variant", "price", "platform", "year", "kmsDriven", "matchScore", "link", "fuelType"},
	},
}

func anyOrJoined(values []string) string {
	if len(values) == 0 {
		return "Any"
	}
	return strings.Join(values, ", ")
}

func anyOrValue(value string) string {
	if value == "" {
		return "Any"
	}
	return value
}

// Recommendations asks Gemini for the top new cars matching the filters.
func (s *GeminiService) Recommendations(ctx context.Context, form models.NewCarFormData) ([]models.NewCarRecommendation, error) {
	features := "None"
	if len(form.Features) > 0 {
		features = strings.Join(form.Features, ", ")
	}

	prompt := fmt.Sprintf(`You are an expert car consultant for the Indian new car market.
Based on the following filters, suggest the top 3 best new car models in India.
Be highly contextual. For high yearly running (>15,000 km), strongly consider diesel/hybrids/EVs. For low running, prioritize petrol, features, and cost.

User Filters:
- Budget: Up to ₹%.0f
- Brands: %s
- Model: %s
- Fuel Type(s): %s
- Transmission: %s
- Yearly Running: %d km
- Body Type(s): %s
- Color(s): %s
- Must-have Features: %s

For each car, provide:
1. make/model and variant.
2. Estimated on-road price (in INR, formatted with "₹" and lakh/crore units).
3. Mileage.
4. Two compelling reasons referencing user needs.
5. An array of 2-3 top features/highlights.
6. A "match score" (0-100) of how well it fits ALL criteria.
7. A valid link to the manufacturer or a major car portal.
8. The primary fuel type (e.g., "Petrol", "Diesel", "Electric", "CNG").
9. The primary body type (e.g., "SUV", "Sedan", "Hatchback").

Output a JSON array of objects. If no matches, return an empty array.`,
		form.Budget, anyOrJoined(form.Brands), anyOrValue(form.Model),
		anyOrJoined(form.FuelTypes), anyOrJoined(form.Transmission),
		form.YearlyRunning, anyOrJoined(form.BodyTypes),
		anyOrJoined(form.Colors), features)

	var out []models.NewCarRecommendation
	if err := s.generateJSON(ctx, prompt, recommendationSchema, &out); err != nil {
		return nil, fmt.Errorf("new car recommendations: %w", err)
	}
	return out, nil
}

// UsedCarSearch asks Gemini for real used-car listings matching the filters.
func (s *GeminiService) UsedCarSearch(ctx context.Context, form models.UsedCarFormData) ([]models.UsedCarListing, error) {
	prompt := fmt.Sprintf(`You are a used car search aggregator for the Indian market.
Find 3-5 real used car listings from platforms like Cars24, CarDekho, Spinny, and OLX based on these filters.
If a filter is blank or has an empty array, consider all options for it. Be strict with the filters that are provided.
It is critical that the listed price for every result falls strictly within the provided price range.

User Filters:
- Price Range (INR): %d to %d
- Brands: %s
- Model: %s
- Year Range: %d to %d
- Fuel Type(s): %s
- Transmission: %s
- Max Kilometers Driven: Up to %d km
- Owner Count: %s
- Location/City: %s
- Registration State: %s
- Features: %s

For each listing, provide: make/model, variant, listed price (INR), platform, year, and kms driven.
Also provide the primary fuel type, a strict "match score" (0-100%%) of how well it fits ALL criteria, and a URL.
The listed price for each car MUST be within the user's specified range.
Output a JSON array of objects. Format price with "₹" and lakh/crore units. If no matches, return an empty array.`,
		form.Price[0], form.Price[1], anyOrJoined(form.Brands), anyOrValue(form.Model),
		form.Year[0], form.Year[1], anyOrJoined(form.FuelTypes), anyOrJoined(form.Transmission),
		form.KmsDriven, anyOrJoined(form.OwnerCount), anyOrValue(form.Location),
		anyOrValue(form.RegistrationState), anyOrJoined(form.Features))

	var out []models.UsedCarListing
	if err := s.generateJSON(ctx, prompt, usedCarSchema, &out); err != nil {
		return nil, fmt.Errorf("used car search: %w", err)
	}
	return out, nil
}

func (s *GeminiService) generateJSON(ctx context.Context, prompt string, schema *genai.Schema, out any) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := s.client.Models.GenerateContent(ctx, textModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		text = "[]"
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// ListingImage generates a showroom-quality image for a catalog listing,
// returned as a data URI.
func (s *GeminiService) ListingImage(ctx context.Context, title, fuelType string) (string, error) {
	background := "daylight, in a modern city setting."
	switch CarTypeFromTitle(title) {
	case "SUV":
		background = "on a clean city road with a slightly elevated view, showing its SUV stance."
	case "Sedan":
		background = "on a premium showroom floor with elegant posture and studio lighting."
	case "Hatchback":
		background = "parked in a modern driveway with soft, natural lighting."
	}
	if strings.EqualFold(fuelType, models.FuelElectric) {
		background = "in a futuristic setting with soft, ambient lighting."
	}

	prompt := fmt.Sprintf("Generate a high-quality, photo-realistic front three-quarter view image of a %s. The car should be placed %s The image must be professional and suitable for a car listings website.", title, background)
	return s.generateImage(ctx, prompt)
}

// CarImage generates a promotional image for a recommended new car, returned
// as a data URI.
func (s *GeminiService) CarImage(ctx context.Context, makeModel, variant, carType string, year int) (string, error) {
	if year == 0 {
		year = time.Now().Year()
	}

	background := "showroom background, premium lighting, ¾ front angle."
	lower := strings.ToLower(carType)
	switch {
	case strings.Contains(lower, "suv"):
		background = "with an SUV stance, in a realistic showroom with studio lighting, ¾ front angle."
	case strings.Contains(lower, "sedan"):
		background = "with a sedan style, on a premium showroom floor with daylight reflection, ¾ front angle."
	case strings.Contains(lower, "hatchback"):
		background = "in a modern city driveway with soft, natural lighting, ¾ front angle."
	}
	if strings.Contains(strings.ToLower(makeModel), "ev") || strings.Contains(strings.ToLower(variant), "ev") {
		background = "in a futuristic setting with soft, ambient lighting, ¾ front angle."
	}

	prompt := fmt.Sprintf("Generate a realistic image of a %d %s %s, %s", year, makeModel, variant, background)
	return s.generateImage(ctx, prompt)
}

func (s *GeminiService) generateImage(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 90*time.Second)
	defer cancel()

	resp, err := s.client.Models.GenerateContent(ctx, imageModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	})
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return fmt.Sprintf("data:%s;base64,%s",
					part.InlineData.MIMEType,
					base64.StdEncoding.EncodeToString(part.InlineData.Data)), nil
			}
		}
	}
	return "", fmt.Errorf("no image in response")
}

var (
	sedanModels = []string{"virtus", "slavia", "verna", "city", "amaze", "dzire", "aura", "camry"}
	hatchModels = []string{"baleno", "swift", "i20", "altroz", "tiago", "glanza", "celerio", "ignis", "wagon r", "alto"}
	muvModels   = []string{"carens", "ertiga", "xl6", "triber"}
	suvModels   = []string{"creta", "seltos", "harrier", "nexon", "thar", "xuv700", "punch", "hector", "ecosport",
		"fortuner", "innova", "brezza", "venue", "kushaq", "taigun", "kiger", "magnite", "hyryder",
		"grand vitara", "exter", "jimny", "sonet", "scorpio", "bolero", "compass", "c3", "safari",
		"fronx", "xuv300", "xuv400"}
)

// CarTypeFromTitle infers the body type from a listing title by model-name
// keywords, for better image prompts.
func CarTypeFromTitle(title string) string {
	lower := strings.ToLower(title)
	contains := func(names []string) bool {
		for _, name := range names {
			if strings.Contains(lower, name) {
				return true
			}
		}
		return false
	}

	switch {
	case contains(sedanModels):
		return "Sedan"
	case contains(hatchModels):
		return "Hatchback"
	case contains(muvModels):
		return "MUV"
	case contains(suvModels):
		return "SUV"
	case strings.Contains(lower, "suv"):
		return "SUV"
	case strings.Contains(lower, "sedan"):
		return "Sedan"
	case strings.Contains(lower, "hatchback"):
		return "Hatchback"
	}
	return "car"
}
