package jobs

import (
	"context"
	"fmt"
	"log"
)

// Refresher fills in missing computed fields on knowledge entries.
type Refresher interface {
	RefreshMissing(ctx context.Context) (int, error)
}

// RefreshWorker backfills embeddings and token counts for entries that
// were added or edited without them, so questions never hit an entry
// that cannot be ranked.
type RefreshWorker struct {
	refresher Refresher
}

func NewRefreshWorker(refresher Refresher) *RefreshWorker {
	return &RefreshWorker{refresher: refresher}
}

// ProcessJobs implements the JobProcessor interface
func (w *RefreshWorker) ProcessJobs(ctx context.Context) error {
	n, err := w.refresher.RefreshMissing(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh entries: %w", err)
	}
	if n > 0 {
		log.Printf("refreshed %d entries", n)
	}
	return nil
}
