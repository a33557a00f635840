package workers

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"oneshift/catalog"
	"oneshift/models"
)

// ImageGenerator produces a rendered listing image keyed by title and fuel
// type.
type ImageGenerator interface {
	ListingImage(ctx context.Context, title, fuelType string) (string, error)
}

// ImageFillWorker backfills generated images for seeded catalog listings.
// The catalog hands out its eligible records exactly once, so starting the
// worker twice is harmless.
type ImageFillWorker struct {
	catalog   *catalog.Catalog
	generator ImageGenerator
}

func NewImageFillWorker(cat *catalog.Catalog, generator ImageGenerator) *ImageFillWorker {
	return &ImageFillWorker{
		catalog:   cat,
		generator: generator,
	}
}

// Run generates an image per pending record, one goroutine each, and waits
// for all of them. Completions land in any order; each touches only its own
// record. A failed generation leaves the record without a generated image
// for good, no retries.
func (w *ImageFillWorker) Run(ctx context.Context) {
	pending := w.catalog.PendingFills()
	if len(pending) == 0 {
		return
	}

	if w.generator == nil {
		log.Printf("Image fill: no generator configured, settling %d listings without images", len(pending))
		for _, rec := range pending {
			w.catalog.FailFill(rec.ID)
		}
		return
	}

	log.Printf("Image fill: generating images for %d listings", len(pending))

	var failed atomic.Int64
	var wg sync.WaitGroup
	for _, rec := range pending {
		wg.Add(1)
		go func(rec models.CarListing) {
			defer wg.Done()
			url, err := w.generator.ListingImage(ctx, rec.Title, rec.Fuel)
			if err != nil || url == "" {
				failed.Add(1)
				w.catalog.FailFill(rec.ID)
				return
			}
			w.catalog.CompleteFill(rec.ID, url)
		}(rec)
	}
	wg.Wait()

	log.Printf("Image fill: done, %d generated, %d failed", int64(len(pending))-failed.Load(), failed.Load())
}
