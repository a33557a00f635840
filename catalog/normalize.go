package catalog

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"oneshift/models"
)

// Stock photo used when a seller submits no image of their own.
const defaultListingImage = "https://imgd.aeplcdn.com/664x374/n/cw/ec/141115/creta-exterior-right-front-three-quarter-16.jpeg"

// ListingInput is the editable form state for a listing: raw fields the way
// the seller enters them. Price and Kms are strings so malformed numeric
// input degrades to pass-through instead of failing.
type ListingInput struct {
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Price        string `json:"price"`
	Kms          string `json:"kms"`
	Fuel         string `json:"fuel"`
	Transmission string `json:"transmission"`
	Location     string `json:"location"`
	Image        string `json:"image"`
}

var (
	priceNumberRegex = regexp.MustCompile(`([\d.]+)`)
	kmsNumberRegex   = regexp.MustCompile(`([\d,]+)`)
)

// CapitalizeWords uppercases the first letter of each whitespace-separated
// token, lowercases the rest, and rejoins with single spaces. Blank input
// yields an empty string.
func CapitalizeWords(s string) string {
	fields := strings.Fields(s)
	for i, word := range fields {
		runes := []rune(strings.ToLower(word))
		fields[i] = strings.ToUpper(string(runes[0])) + string(runes[1:])
	}
	return strings.Join(fields, " ")
}

// ToCanonical normalizes form input into a stored CarListing. The id is the
// caller's to supply: a fresh one for new records, the existing one for
// edits. Never fails; a price or kms value that does not parse as a number
// is carried through as the display string unchanged.
func ToCanonical(in ListingInput, id int64) models.CarListing {
	brand := CapitalizeWords(in.Brand)
	model := CapitalizeWords(in.Model)

	rec := models.CarListing{
		ID:           id,
		Brand:        brand,
		Model:        model,
		Year:         in.Year,
		Title:        fmt.Sprintf("%d %s %s", in.Year, brand, model),
		Fuel:         in.Fuel,
		Transmission: in.Transmission,
		Location:     CapitalizeWords(in.Location),
		Owner:        "1st Owner",
		Image:        in.Image,
	}
	if rec.Image == "" {
		rec.Image = defaultListingImage
	}

	if raw, err := strconv.ParseFloat(strings.TrimSpace(in.Price), 64); err == nil {
		rec.RawPrice = raw
		rec.Price = fmt.Sprintf("₹%.2f Lakh", raw/100000)
	} else {
		rec.Price = in.Price
	}

	if raw, err := strconv.Atoi(strings.TrimSpace(in.Kms)); err == nil {
		rec.RawKms = raw
	}
	rec.Kms = strings.TrimSpace(in.Kms) + " km"

	return rec
}

// EditForm recovers editable raw values from a stored record, the inverse of
// ToCanonical. Raw fields win when present; otherwise formatted display
// strings are reverse-parsed ("₹14.30 Lakh" -> 1430000, "22,000 km" ->
// 22000), and legacy records lacking brand/model get them split out of the
// title. The title heuristic is best effort and lossy for non-standard
// titles; it never fails outright.
func EditForm(rec models.CarListing) ListingInput {
	in := ListingInput{
		Brand:        rec.Brand,
		Model:        rec.Model,
		Year:         rec.Year,
		Fuel:         rec.Fuel,
		Transmission: rec.Transmission,
		Location:     rec.Location,
		Image:        rec.Image,
	}
	if in.Fuel == "" {
		in.Fuel = models.FuelPetrol
	}
	if in.Transmission == "" {
		in.Transmission = models.TransmissionManual
	}
	if in.Year == 0 {
		in.Year = time.Now().Year()
	}

	if in.Brand == "" && rec.Title != "" {
		parts := strings.Fields(rec.Title)
		if len(parts) >= 2 {
			if year, err := strconv.Atoi(parts[0]); err == nil {
				in.Year = year
				in.Brand = parts[1]
				in.Model = strings.Join(parts[2:], " ")
			} else {
				in.Brand = parts[0]
				in.Model = strings.Join(parts[1:], " ")
			}
		}
	}

	in.Price = rawPrice(rec)
	in.Kms = rawKms(rec)
	return in
}

func rawPrice(rec models.CarListing) string {
	if rec.RawPrice != 0 {
		return strconv.FormatFloat(rec.RawPrice, 'f', -1, 64)
	}
	if strings.Contains(rec.Price, "Lakh") {
		if m := priceNumberRegex.FindStringSubmatch(rec.Price); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return strconv.FormatFloat(math.Round(v*100000), 'f', -1, 64)
			}
		}
	}
	return rec.Price
}

func rawKms(rec models.CarListing) string {
	if rec.RawKms != 0 {
		return strconv.Itoa(rec.RawKms)
	}
	if strings.Contains(rec.Kms, "km") {
		if m := kmsNumberRegex.FindStringSubmatch(rec.Kms); m != nil {
			return strings.ReplaceAll(m[1], ",", "")
		}
	}
	return rec.Kms
}
