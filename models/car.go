package models

import (
	"encoding/json"
	"fmt"
)

// Fuel types
const (
	FuelPetrol   = "Petrol"
	FuelDiesel   = "Diesel"
	FuelCNG      = "CNG"
	FuelElectric = "Electric"
)

// Transmission types
const (
	TransmissionManual    = "Manual"
	TransmissionAutomatic = "Automatic"
)

// CarListing is a sellable used-car entry in the catalog, either seeded at
// startup or user-submitted. RawPrice and RawKms are the source of truth;
// Price and Kms are display strings re-derived on every write.
type CarListing struct {
	ID             int64   `json:"id"`
	Brand          string  `json:"brand,omitempty"`
	Model          string  `json:"model,omitempty"`
	Year           int     `json:"year,omitempty"`
	Title          string  `json:"title"`
	RawPrice       float64 `json:"rawPrice,omitempty"`
	Price          string  `json:"price"`
	RawKms         int     `json:"rawKms,omitempty"`
	Kms            string  `json:"kms"`
	Fuel           string  `json:"fuel"`
	Transmission   string  `json:"transmission,omitempty"`
	Location       string  `json:"location"`
	Owner          string  `json:"owner"`
	Image          string  `json:"image"`
	GeneratedImage string  `json:"generatedImage,omitempty"`
	IsGenerating   bool    `json:"isGenerating"`
}

// NewCarRecommendation is an assistant-produced new car suggestion.
type NewCarRecommendation struct {
	MakeModel   string   `json:"makeModel"`
	Variant     string   `json:"variant"`
	Price       string   `json:"price"`
	Mileage     string   `json:"mileage"`
	Reasons     []string `json:"reasons"`
	Link        string   `json:"link"`
	Image       string   `json:"image,omitempty"`
	TopFeatures []string `json:"topFeatures"`
	MatchScore  float64  `json:"matchScore"`
	FuelType    string   `json:"fuelType"`
	BodyType    string   `json:"bodyType"`
}

// UsedCarListing is an assistant-found used car result from an external
// platform. Link points at the platform's own listing page.
type UsedCarListing struct {
	MakeModel  string  `json:"makeModel"`
	Variant    string  `json:"variant"`
	Price      string  `json:"price"`
	Platform   string  `json:"platform"`
	Year       int     `json:"year"`
	KmsDriven  string  `json:"kmsDriven"`
	MatchScore float64 `json:"matchScore"`
	Link       string  `json:"link"`
	Image      string  `json:"image,omitempty"`
	FuelType   string  `json:"fuelType"`
}

// CarItemKind discriminates the two favoritable item shapes.
type CarItemKind string

const (
	CarItemNew  CarItemKind = "new"
	CarItemUsed CarItemKind = "used"
)

// CarItem is the tagged favorite payload: exactly one of New or Used is set,
// matching Kind.
type CarItem struct {
	Kind CarItemKind
	New  *NewCarRecommendation
	Used *UsedCarListing
}

func NewCarItem(r NewCarRecommendation) CarItem {
	return CarItem{Kind: CarItemNew, New: &r}
}

func UsedCarItem(l UsedCarListing) CarItem {
	return CarItem{Kind: CarItemUsed, Used: &l}
}

func (i CarItem) IsNew() bool {
	return i.Kind == CarItemNew
}

// Payload serializes the underlying item for storage.
func (i CarItem) Payload() (json.RawMessage, error) {
	switch i.Kind {
	case CarItemNew:
		return json.Marshal(i.New)
	case CarItemUsed:
		return json.Marshal(i.Used)
	}
	return nil, fmt.Errorf("car item has no kind")
}

// NewCarFormData carries the new-car search filters.
type NewCarFormData struct {
	Budget        float64  `json:"budget"`
	Brands        []string `json:"brands"`
	Model         string   `json:"model"`
	FuelTypes     []string `json:"fuelTypes"`
	Transmission  []string `json:"transmission"`
	YearlyRunning int      `json:"yearlyRunning"`
	BodyTypes     []string `json:"bodyTypes"`
	Colors        []string `json:"colors"`
	Features      []string `json:"features"`
}

// UsedCarFormData carries the used-car search filters. Price and Year are
// inclusive [min, max] ranges.
type UsedCarFormData struct {
	Price             [2]int   `json:"price"`
	Brands            []string `json:"brands"`
	Model             string   `json:"model"`
	Year              [2]int   `json:"year"`
	FuelTypes         []string `json:"fuelTypes"`
	Transmission      []string `json:"transmission"`
	KmsDriven         int      `json:"kmsDriven"`
	OwnerCount        []string `json:"ownerCount"`
	Location          string   `json:"location"`
	RegistrationState string   `json:"registrationState"`
	Features          []string `json:"features"`
}
