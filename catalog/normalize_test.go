package catalog

import (
	"testing"
	"time"

	"oneshift/models"
)

func TestToCanonical_Basic(t *testing.T) {
	in := ListingInput{
		Brand:        "maruti suzuki",
		Model:        "swift VXI",
		Year:         2021,
		Price:        "650000",
		Kms:          "32000",
		Fuel:         models.FuelPetrol,
		Transmission: models.TransmissionManual,
		Location:     "new delhi",
	}

	rec := ToCanonical(in, 42)
	if rec.ID != 42 {
		t.Fatalf("expected id 42, got %d", rec.ID)
	}
	if rec.Brand != "Maruti Suzuki" {
		t.Fatalf("expected brand Maruti Suzuki, got %q", rec.Brand)
	}
	if rec.Model != "Swift Vxi" {
		t.Fatalf("expected model Swift Vxi, got %q", rec.Model)
	}
	if rec.Title != "2021 Maruti Suzuki Swift Vxi" {
		t.Fatalf("unexpected title %q", rec.Title)
	}
	if rec.RawPrice != 650000 {
		t.Fatalf("expected raw price 650000, got %v", rec.RawPrice)
	}
	if rec.Price != "₹6.50 Lakh" {
		t.Fatalf("expected price ₹6.50 Lakh, got %q", rec.Price)
	}
	if rec.RawKms != 32000 {
		t.Fatalf("expected raw kms 32000, got %d", rec.RawKms)
	}
	if rec.Kms != "32000 km" {
		t.Fatalf("expected kms \"32000 km\", got %q", rec.Kms)
	}
	if rec.Location != "New Delhi" {
		t.Fatalf("expected location New Delhi, got %q", rec.Location)
	}
	if rec.Owner != "1st Owner" {
		t.Fatalf("expected owner \"1st Owner\", got %q", rec.Owner)
	}
	if rec.Image != defaultListingImage {
		t.Fatalf("expected default image, got %q", rec.Image)
	}
}

func TestToCanonical_MalformedPricePassesThrough(t *testing.T) {
	rec := ToCanonical(ListingInput{Brand: "tata", Model: "nexon", Year: 2022, Price: "negotiable"}, 1)
	if rec.Price != "negotiable" {
		t.Fatalf("expected price to pass through, got %q", rec.Price)
	}
	if rec.RawPrice != 0 {
		t.Fatalf("expected no raw price, got %v", rec.RawPrice)
	}
}

func TestToCanonical_KeepsUserImage(t *testing.T) {
	rec := ToCanonical(ListingInput{Brand: "honda", Model: "city", Year: 2020, Price: "900000", Image: "https://example.com/car.jpg"}, 1)
	if rec.Image != "https://example.com/car.jpg" {
		t.Fatalf("expected user image kept, got %q", rec.Image)
	}
}

func TestEditForm_RoundTrip(t *testing.T) {
	in := ListingInput{
		Brand:        "hyundai",
		Model:        "creta",
		Year:         2022,
		Price:        "1430000",
		Kms:          "18000",
		Fuel:         models.FuelDiesel,
		Transmission: models.TransmissionAutomatic,
		Location:     "mumbai",
	}

	got := EditForm(ToCanonical(in, 7))
	if got.Brand != "Hyundai" || got.Model != "Creta" {
		t.Fatalf("unexpected brand/model %q %q", got.Brand, got.Model)
	}
	if got.Year != 2022 {
		t.Fatalf("expected year 2022, got %d", got.Year)
	}
	if got.Price != "1430000" {
		t.Fatalf("expected price 1430000, got %q", got.Price)
	}
	if got.Kms != "18000" {
		t.Fatalf("expected kms 18000, got %q", got.Kms)
	}
	if got.Fuel != models.FuelDiesel {
		t.Fatalf("expected fuel %q, got %q", models.FuelDiesel, got.Fuel)
	}
	if got.Transmission != models.TransmissionAutomatic {
		t.Fatalf("expected transmission %q, got %q", models.TransmissionAutomatic, got.Transmission)
	}
}

func TestEditForm_ReverseParsesDisplayStrings(t *testing.T) {
	// Legacy seeded record: display strings only, no raw fields.
	rec := models.CarListing{
		ID:    3,
		Title: "2021 Maruti Swift VXI",
		Price: "₹14.30 Lakh",
		Kms:   "22,000 km",
	}

	got := EditForm(rec)
	if got.Price != "1430000" {
		t.Fatalf("expected price 1430000, got %q", got.Price)
	}
	if got.Kms != "22000" {
		t.Fatalf("expected kms 22000, got %q", got.Kms)
	}
	if got.Year != 2021 {
		t.Fatalf("expected year 2021 from title, got %d", got.Year)
	}
	if got.Brand != "Maruti" {
		t.Fatalf("expected brand Maruti from title, got %q", got.Brand)
	}
	if got.Model != "Swift VXI" {
		t.Fatalf("expected model \"Swift VXI\" from title, got %q", got.Model)
	}
}

func TestEditForm_TitleWithoutYear(t *testing.T) {
	rec := models.CarListing{ID: 4, Title: "Honda City ZX", Price: "₹9.00 Lakh", Kms: "10,500 km"}

	got := EditForm(rec)
	if got.Brand != "Honda" {
		t.Fatalf("expected brand Honda, got %q", got.Brand)
	}
	if got.Model != "City ZX" {
		t.Fatalf("expected model \"City ZX\", got %q", got.Model)
	}
	if got.Year != time.Now().Year() {
		t.Fatalf("expected current year default, got %d", got.Year)
	}
}

func TestEditForm_Defaults(t *testing.T) {
	got := EditForm(models.CarListing{ID: 5, Title: "Tata Nexon"})
	if got.Fuel != models.FuelPetrol {
		t.Fatalf("expected default fuel %q, got %q", models.FuelPetrol, got.Fuel)
	}
	if got.Transmission != models.TransmissionManual {
		t.Fatalf("expected default transmission %q, got %q", models.TransmissionManual, got.Transmission)
	}
}

func TestEditForm_UnparseablePricePassesThrough(t *testing.T) {
	got := EditForm(models.CarListing{ID: 6, Title: "Tata Nexon", Price: "Call for price", Kms: "driven daily"})
	if got.Price != "Call for price" {
		t.Fatalf("expected price to pass through, got %q", got.Price)
	}
	if got.Kms != "driven daily" {
		t.Fatalf("expected kms to pass through, got %q", got.Kms)
	}
}

func TestCapitalizeWords(t *testing.T) {
	if got := CapitalizeWords("maruti  SUZUKI swift"); got != "Maruti Suzuki Swift" {
		t.Fatalf("unexpected capitalization %q", got)
	}
	if got := CapitalizeWords("   "); got != "" {
		t.Fatalf("expected empty string for blank input, got %q", got)
	}
}
