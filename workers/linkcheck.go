package workers

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"oneshift/storage"
)

// LinkCheckWorker verifies that saved used-car favorites still point at a
// live listing page. New-car favorites have no external link and are never
// checked.
type LinkCheckWorker struct {
	store      storage.FavoritesStore
	httpClient *http.Client
	triggerCh  chan struct{}
}

// NewLinkCheckWorker creates a link check worker. The client must not
// follow redirects: marketplaces redirect dead listings back to search.
func NewLinkCheckWorker(store storage.FavoritesStore, client *http.Client) *LinkCheckWorker {
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	return &LinkCheckWorker{
		store:      store,
		httpClient: client,
		triggerCh:  make(chan struct{}, 1),
	}
}

// Trigger causes the worker to run immediately
func (w *LinkCheckWorker) Trigger() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

// CheckResult contains the outcome of checking a listing link
type CheckResult struct {
	IsLive     bool
	StatusCode int
	Error      error
}

// Check fetches a listing URL and determines if it's still live. It tries a
// cheap HEAD first and only downloads the page when the status alone is
// not conclusive.
func (w *LinkCheckWorker) Check(ctx context.Context, listingURL string) CheckResult {
	result := w.checkWithHEAD(ctx, listingURL)
	if result.Error == nil && !result.inconclusive() {
		return result
	}
	return w.checkWithGET(ctx, listingURL)
}

// inconclusive reports whether a 200 still needs a body inspection: some
// sites serve a "listing removed" page with a 200 status.
func (r CheckResult) inconclusive() bool {
	return r.StatusCode == 200 && r.IsLive
}

func (w *LinkCheckWorker) checkWithHEAD(ctx context.Context, listingURL string) CheckResult {
	req, err := http.NewRequestWithContext(ctx, "HEAD", listingURL, nil)
	if err != nil {
		return CheckResult{Error: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return CheckResult{Error: err}
	}
	resp.Body.Close()

	return classifyStatus(resp)
}

func (w *LinkCheckWorker) checkWithGET(ctx context.Context, listingURL string) CheckResult {
	req, err := http.NewRequestWithContext(ctx, "GET", listingURL, nil)
	if err != nil {
		return CheckResult{Error: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return CheckResult{Error: err}
	}
	defer resp.Body.Close()

	result := classifyStatus(resp)
	if !result.inconclusive() {
		return result
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 500*1024))
	if err != nil {
		// Could not parse, assume live
		return result
	}
	if isDelistedPage(doc) {
		result.IsLive = false
	}
	return result
}

func classifyStatus(resp *http.Response) CheckResult {
	result := CheckResult{StatusCode: resp.StatusCode}

	switch resp.StatusCode {
	case 200:
		result.IsLive = true
	case 404, 410:
		result.IsLive = false
	case 301, 302:
		result.IsLive = !isDelistRedirect(resp.Header.Get("Location"))
	default:
		// For other codes, assume still live
		result.IsLive = true
	}
	return result
}

// isDelistedPage checks the parsed page for signs the listing was removed
func isDelistedPage(doc *goquery.Document) bool {
	delistIndicators := []string{
		"no longer available",
		"listing has been removed",
		"this ad has expired",
		"car has been sold",
		"listing not found",
	}

	title := strings.ToLower(doc.Find("title").Text())
	body := strings.ToLower(doc.Find("body").Text())
	for _, indicator := range delistIndicators {
		if strings.Contains(title, indicator) || strings.Contains(body, indicator) {
			return true
		}
	}
	return false
}

// isDelistRedirect checks if a redirect URL indicates delisting
func isDelistRedirect(location string) bool {
	delistPatterns := []string{
		"/search",
		"/buy-used-car",
		"notfound",
		"error",
	}

	loc := strings.ToLower(location)
	for _, pattern := range delistPatterns {
		if strings.Contains(loc, pattern) {
			return true
		}
	}
	return false
}

// Run starts the link check worker loop
func (w *LinkCheckWorker) Run(ctx context.Context, staleDuration time.Duration, batchSize int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Link check worker stopping")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx, staleDuration, batchSize)
		case <-w.triggerCh:
			log.Println("Link check worker triggered manually")
			w.ProcessBatch(ctx, staleDuration, batchSize)
		}
	}
}

// ProcessBatch checks one batch of stale favorites and records the results.
func (w *LinkCheckWorker) ProcessBatch(ctx context.Context, staleDuration time.Duration, batchSize int) {
	favorites, err := w.store.StaleUsedFavorites(ctx, staleDuration, batchSize)
	if err != nil {
		log.Printf("Link check: query error: %v", err)
		return
	}
	if len(favorites) == 0 {
		return
	}

	runID := uuid.NewString()
	log.Printf("Link check [%s]: checking %d stale favorites", runID, len(favorites))

	var checked, dead int
	for _, fav := range favorites {
		listing := fav.UsedListing()
		if listing == nil || listing.Link == "" {
			continue
		}

		result := w.Check(ctx, listing.Link)
		checked++

		if result.Error != nil {
			log.Printf("Link check [%s]: error checking %s: %v", runID, listing.Link, result.Error)
			continue
		}

		if !result.IsLive {
			log.Printf("Link check [%s]: listing gone (status %d): %s", runID, result.StatusCode, listing.Link)
			dead++
		}
		if err := w.store.MarkLinkChecked(ctx, fav.ID, result.IsLive); err != nil {
			log.Printf("Link check [%s]: failed to record result: %v", runID, err)
		}

		// Rate limit between requests
		time.Sleep(500 * time.Millisecond)
	}

	log.Printf("Link check [%s]: checked %d, dead %d", runID, checked, dead)
}
