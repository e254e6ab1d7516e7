package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ExportClient produces one export snapshot.
type ExportClient interface {
	ExportBookings(ctx context.Context) (string, error)
}

// ExportWorker coalesces export requests and writes snapshots in the
// background. Bursts of booking changes collapse into a single export.
type ExportWorker struct {
	client      ExportClient
	retryPolicy RetryPolicy
	requests    chan struct{}
	debounce    time.Duration
	logger      zerolog.Logger
}

func NewExportWorker(client ExportClient, retry RetryPolicy, logger *zerolog.Logger) *ExportWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &ExportWorker{
		client:      client,
		retryPolicy: retry,
		requests:    make(chan struct{}, 1),
		debounce:    2 * time.Second,
		logger:      logger.With().Str("component", "export_worker").Logger(),
	}
}

// EnqueueExport schedules a snapshot. Non-blocking: if one is already
// pending the request merges into it.
func (w *ExportWorker) EnqueueExport(ctx context.Context) error {
	select {
	case w.requests <- struct{}{}:
	default:
	}
	return nil
}

// Start runs the worker loop until ctx is cancelled.
func (w *ExportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("export worker started")
	defer w.logger.Info().Msg("export worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.requests:
		}

		// Let a burst of changes settle before snapshotting
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.debounce):
		}

		w.runExport(ctx)
	}
}

func (w *ExportWorker) runExport(ctx context.Context) {
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		path, err := w.client.ExportBookings(ctx)
		if err == nil {
			w.logger.Info().Str("path", path).Msg("export completed")
			return
		}

		w.logger.Warn().Err(err).Int("attempt", attempt).Msg("export failed")
		if attempt == w.retryPolicy.MaxRetries {
			w.logger.Error().Err(err).Msg("export abandoned after retries")
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryPolicy.NextDelay(attempt)):
		}
	}
}
