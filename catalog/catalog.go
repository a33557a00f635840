package catalog

import (
	"strings"
	"sync"
	"time"

	"oneshift/models"
)

// Catalog owns the ordered collection of car listings, newest first. Every
// mutation builds a fresh slice and swaps it in under the lock, so readers
// only ever observe complete states and in-flight image fills can never
// clobber a concurrent edit.
type Catalog struct {
	mu            sync.Mutex
	listings      []models.CarListing
	fillScheduled bool
	lastID        int64
}

func New() *Catalog {
	return &Catalog{}
}

// Seed loads the startup dataset. Every seeded record starts with no
// generated image and IsGenerating set, making it eligible for exactly one
// fill attempt.
func (c *Catalog) Seed(records []models.CarListing) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seeded := make([]models.CarListing, len(records))
	for i, rec := range records {
		rec.GeneratedImage = ""
		rec.IsGenerating = true
		seeded[i] = rec
		if rec.ID > c.lastID {
			c.lastID = rec.ID
		}
	}
	c.listings = seeded
}

// nextID allocates a time-based id, bumped past the previous one so rapid
// successive creates stay unique. Caller holds the lock.
func (c *Catalog) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}

// Add normalizes the input and prepends it to the collection. User
// submissions carry their own image, so no fill is scheduled for them.
func (c *Catalog) Add(in ListingInput) models.CarListing {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := ToCanonical(in, c.nextID())
	rec.IsGenerating = false

	next := make([]models.CarListing, 0, len(c.listings)+1)
	next = append(next, rec)
	next = append(next, c.listings...)
	c.listings = next

	return rec
}

// Update re-normalizes the input preserving the record's id and replaces the
// matching record, leaving every other record untouched. Returns false when
// no record has that id.
func (c *Catalog) Update(id int64, in ListingInput) (models.CarListing, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var updated models.CarListing
	ok := c.replace(id, func(prev models.CarListing) models.CarListing {
		rec := ToCanonical(in, prev.ID)
		rec.GeneratedImage = prev.GeneratedImage
		rec.IsGenerating = prev.IsGenerating
		if in.Image == "" && prev.Image != "" {
			rec.Image = prev.Image
		}
		updated = rec
		return rec
	})
	return updated, ok
}

// Find returns the record with the given id.
func (c *Catalog) Find(id int64) (models.CarListing, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, rec := range c.listings {
		if rec.ID == id {
			return rec, true
		}
	}
	return models.CarListing{}, false
}

// Remove deletes the record with the given id.
func (c *Catalog) Remove(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, rec := range c.listings {
		if rec.ID == id {
			next := make([]models.CarListing, 0, len(c.listings)-1)
			next = append(next, c.listings[:i]...)
			next = append(next, c.listings[i+1:]...)
			c.listings = next
			return true
		}
	}
	return false
}

// Listings returns a copy of the current collection.
func (c *Catalog) Listings() []models.CarListing {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CarListing, len(c.listings))
	copy(out, c.listings)
	return out
}

// Search returns listings whose title contains the query,
// case-insensitively. An empty query matches everything.
func (c *Catalog) Search(query string) []models.CarListing {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c.Listings()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var out []models.CarListing
	for _, rec := range c.listings {
		if strings.Contains(strings.ToLower(rec.Title), query) {
			out = append(out, rec)
		}
	}
	return out
}

// PendingFills returns the records awaiting an image fill, exactly once per
// Catalog lifetime: the first call takes the snapshot and sets the guard,
// every later call returns nil. The guard is a field on the instance (not
// derived from record state, which changes as fills complete) so repeated
// scheduling passes can never issue duplicate fills.
func (c *Catalog) PendingFills() []models.CarListing {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fillScheduled {
		return nil
	}
	c.fillScheduled = true

	var pending []models.CarListing
	for _, rec := range c.listings {
		if rec.GeneratedImage == "" && rec.IsGenerating {
			pending = append(pending, rec)
		}
	}
	return pending
}

// CompleteFill records a successful image fill for the given record, leaving
// all its other fields unchanged. A fill that resolves after the record was
// removed is a silent no-op.
func (c *Catalog) CompleteFill(id int64, imageURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.replace(id, func(rec models.CarListing) models.CarListing {
		rec.GeneratedImage = imageURL
		rec.IsGenerating = false
		return rec
	})
}

// FailFill marks a record's fill attempt as over with no image: a terminal
// state, not retried. Unknown ids are silently ignored.
func (c *Catalog) FailFill(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.replace(id, func(rec models.CarListing) models.CarListing {
		rec.IsGenerating = false
		return rec
	})
}

// replace swaps in a new slice with fn applied to the matching record.
// Caller holds the lock.
func (c *Catalog) replace(id int64, fn func(models.CarListing) models.CarListing) bool {
	found := false
	next := make([]models.CarListing, len(c.listings))
	for i, rec := range c.listings {
		if rec.ID == id {
			rec = fn(rec)
			found = true
		}
		next[i] = rec
	}
	if found {
		c.listings = next
	}
	return found
}
