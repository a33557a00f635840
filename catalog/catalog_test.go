package catalog

import (
	"testing"

	"oneshift/models"
)

func seedRecords() []models.CarListing {
	return []models.CarListing{
		{ID: 1, Title: "2021 Maruti Swift VXI", Price: "₹6.50 Lakh", Kms: "32,000 km"},
		{ID: 2, Title: "2022 Hyundai Creta SX", Price: "₹14.30 Lakh", Kms: "18,000 km"},
		{ID: 3, Title: "2020 Honda City ZX", Price: "₹9.00 Lakh", Kms: "41,000 km"},
	}
}

func TestSeed_MarksRecordsEligibleForFill(t *testing.T) {
	c := New()
	records := seedRecords()
	records[0].GeneratedImage = "https://example.com/stale.png"
	c.Seed(records)

	for _, rec := range c.Listings() {
		if rec.GeneratedImage != "" {
			t.Fatalf("expected seeded record %d to have no generated image", rec.ID)
		}
		if !rec.IsGenerating {
			t.Fatalf("expected seeded record %d to be generating", rec.ID)
		}
	}
}

func TestAdd_PrependsWithUniqueIDs(t *testing.T) {
	c := New()
	c.Seed(seedRecords())

	first := c.Add(ListingInput{Brand: "tata", Model: "nexon", Year: 2023, Price: "1100000", Kms: "5000"})
	second := c.Add(ListingInput{Brand: "kia", Model: "seltos", Year: 2023, Price: "1500000", Kms: "8000"})
	third := c.Add(ListingInput{Brand: "mg", Model: "astor", Year: 2022, Price: "1200000", Kms: "12000"})

	if second.ID <= first.ID || third.ID <= second.ID {
		t.Fatalf("expected strictly increasing ids, got %d, %d, %d", first.ID, second.ID, third.ID)
	}
	if first.IsGenerating || second.IsGenerating {
		t.Fatalf("expected user submissions to skip image generation")
	}

	listings := c.Listings()
	if len(listings) != 6 {
		t.Fatalf("expected 6 listings, got %d", len(listings))
	}
	if listings[0].ID != third.ID {
		t.Fatalf("expected newest listing first, got id %d", listings[0].ID)
	}
}

func TestUpdate_PreservesIDAndImages(t *testing.T) {
	c := New()
	c.Seed(seedRecords())
	c.CompleteFill(2, "https://example.com/generated.png")

	updated, ok := c.Update(2, ListingInput{Brand: "hyundai", Model: "creta facelift", Year: 2022, Price: "1500000", Kms: "19000"})
	if !ok {
		t.Fatalf("expected update to find record 2")
	}
	if updated.ID != 2 {
		t.Fatalf("expected id preserved, got %d", updated.ID)
	}
	if updated.GeneratedImage != "https://example.com/generated.png" {
		t.Fatalf("expected generated image preserved, got %q", updated.GeneratedImage)
	}
	if updated.Price != "₹15.00 Lakh" {
		t.Fatalf("expected re-normalized price, got %q", updated.Price)
	}

	if _, ok := c.Update(999, ListingInput{Brand: "x", Model: "y"}); ok {
		t.Fatalf("expected update of unknown id to report false")
	}
}

func TestRemove(t *testing.T) {
	c := New()
	c.Seed(seedRecords())

	if !c.Remove(2) {
		t.Fatalf("expected remove of existing record to succeed")
	}
	if c.Remove(2) {
		t.Fatalf("expected second remove to report false")
	}
	if _, ok := c.Find(2); ok {
		t.Fatalf("expected record 2 gone")
	}
	if len(c.Listings()) != 2 {
		t.Fatalf("expected 2 listings left, got %d", len(c.Listings()))
	}
}

func TestSearch(t *testing.T) {
	c := New()
	c.Seed(seedRecords())

	hits := c.Search("swift")
	if len(hits) != 1 || hits[0].ID != 1 {
		t.Fatalf("expected one swift hit, got %v", hits)
	}
	if got := c.Search(" HONDA "); len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("expected case-insensitive trimmed match, got %v", got)
	}
	if got := c.Search(""); len(got) != 3 {
		t.Fatalf("expected empty query to match everything, got %d", len(got))
	}
}

func TestPendingFills_FiresOnce(t *testing.T) {
	c := New()
	c.Seed(seedRecords())

	pending := c.PendingFills()
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending fills, got %d", len(pending))
	}
	if again := c.PendingFills(); again != nil {
		t.Fatalf("expected second call to return nil, got %d records", len(again))
	}

	// Completing fills does not re-arm the guard.
	c.CompleteFill(1, "https://example.com/one.png")
	if again := c.PendingFills(); again != nil {
		t.Fatalf("expected guard to stay set, got %d records", len(again))
	}
}

func TestCompleteFill_UpdatesOnlyTargetRecord(t *testing.T) {
	c := New()
	c.Seed(seedRecords())
	c.PendingFills()

	c.CompleteFill(2, "https://example.com/creta.png")

	rec, _ := c.Find(2)
	if rec.GeneratedImage != "https://example.com/creta.png" || rec.IsGenerating {
		t.Fatalf("expected record 2 filled, got %+v", rec)
	}
	other, _ := c.Find(1)
	if other.GeneratedImage != "" || !other.IsGenerating {
		t.Fatalf("expected record 1 untouched, got %+v", other)
	}
}

func TestFailFill_Terminal(t *testing.T) {
	c := New()
	c.Seed(seedRecords())
	c.PendingFills()

	c.FailFill(3)
	rec, _ := c.Find(3)
	if rec.IsGenerating {
		t.Fatalf("expected record 3 settled")
	}
	if rec.GeneratedImage != "" {
		t.Fatalf("expected no generated image, got %q", rec.GeneratedImage)
	}
}

func TestFillAfterRemoveIsNoOp(t *testing.T) {
	c := New()
	c.Seed(seedRecords())
	c.PendingFills()

	c.Remove(1)
	c.CompleteFill(1, "https://example.com/late.png")
	c.FailFill(1)

	if len(c.Listings()) != 2 {
		t.Fatalf("expected removed record to stay gone, got %d listings", len(c.Listings()))
	}
}
