package worker

import (
	"context"
	"time"

	"github.com/gaganrajn/urban-company-backend/internal/domain"
)

// RunFullSync periodically rewrites the Users and Bookings sheets from
// the database. The incremental upsert path keeps the sheet fresh;
// this pass repairs drift from lost tasks or manual edits.
func (w *SheetsWorker) RunFullSync(ctx context.Context, sheets domain.SheetsWriter, interval time.Duration) {
	if sheets == nil {
		return
	}
	if interval <= 0 {
		interval = time.Hour
	}

	log := w.logger.With().Str("job", "full_sync").Logger()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("stopped")
			return
		case <-ticker.C:
			if err := w.fullSyncOnce(ctx, sheets); err != nil {
				log.Error().Err(err).Msg("full sync failed")
			}
		}
	}
}

func (w *SheetsWorker) fullSyncOnce(ctx context.Context, sheets domain.SheetsWriter) error {
	users, err := w.db.GetAllUsers(ctx)
	if err != nil {
		return err
	}
	if err := sheets.ReplaceUsersSheet(ctx, users); err != nil {
		return err
	}

	bookings, err := w.db.GetAllBookings(ctx)
	if err != nil {
		return err
	}
	return sheets.ReplaceBookingsSheet(ctx, bookings)
}
