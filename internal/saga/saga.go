// Package saga implements the resource-compensation pattern shared by order
// attachments and review images: acquire external media first, commit the
// owning record, and unwind the acquired media when any later step fails.
// Compensation is synchronous; a saga is fully resolved before control
// returns to the caller.
package saga

import (
	"context"
	"fmt"

	"shopkart/internal/media"
	"shopkart/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Saga acquires media-store resources and compensates them on failure.
type Saga struct {
	store  media.Store
	logger zerolog.Logger
}

// New creates a saga over the given media store.
func New(store media.Store, logger zerolog.Logger) *Saga {
	return &Saga{
		store:  store,
		logger: logger.With().Str("component", "media-saga").Logger(),
	}
}

// Report records the outcome of a compensation pass. Deletions are
// best-effort: failures are reported and logged, never escalated, because
// the owning record's write already settled independently.
type Report struct {
	Attempted []string
	Failed    []FailedDelete
}

// FailedDelete names a ref whose compensating delete did not succeed.
type FailedDelete struct {
	ID  string
	Err error
}

// Acquire uploads all files concurrently and returns their refs in file
// order. If any upload fails, Acquire waits for every outstanding upload to
// settle, deletes the refs that did succeed, and returns the first error.
// A partially-failed batch never leaves orphaned media behind.
func (s *Saga) Acquire(ctx context.Context, files []media.File) ([]model.MediaRef, error) {
	if len(files) == 0 {
		return nil, nil
	}

	refs := make([]model.MediaRef, len(files))
	uploaded := make([]bool, len(files))

	// No shared cancellation: each upload runs to completion so the
	// compensation decision is made over settled results only.
	var g errgroup.Group
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			ref, err := s.store.Upload(ctx, f)
			if err != nil {
				return fmt.Errorf("upload %q: %w", f.Name, err)
			}
			refs[i] = ref
			uploaded[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var acquired []model.MediaRef
		for i, ok := range uploaded {
			if ok {
				acquired = append(acquired, refs[i])
			}
		}
		report := s.Compensate(ctx, acquired)
		s.logger.Warn().
			Err(err).
			Int("file_count", len(files)).
			Int("compensated", len(report.Attempted)).
			Int("delete_failures", len(report.Failed)).
			Msg("media batch upload failed, acquired refs compensated")
		return nil, err
	}

	return refs, nil
}

// Run acquires the files, invokes commit with the acquired refs, and deletes
// every acquired ref if commit fails. The commit callback persists the
// owning entity.
func (s *Saga) Run(ctx context.Context, files []media.File, commit func(context.Context, []model.MediaRef) error) ([]model.MediaRef, error) {
	refs, err := s.Acquire(ctx, files)
	if err != nil {
		return nil, err
	}

	if err := commit(ctx, refs); err != nil {
		report := s.Compensate(ctx, refs)
		s.logger.Warn().
			Err(err).
			Int("compensated", len(report.Attempted)).
			Int("delete_failures", len(report.Failed)).
			Msg("commit failed, acquired refs compensated")
		return nil, err
	}

	return refs, nil
}

// Compensate issues a best-effort delete for every ref and reports which
// deletes were attempted and which failed.
func (s *Saga) Compensate(ctx context.Context, refs []model.MediaRef) Report {
	report := Report{}
	for _, ref := range refs {
		report.Attempted = append(report.Attempted, ref.ID)
		if err := s.store.Delete(ctx, ref.ID); err != nil {
			s.logger.Error().
				Err(err).
				Str("media_id", ref.ID).
				Msg("compensating media delete failed, orphaned object left behind")
			report.Failed = append(report.Failed, FailedDelete{ID: ref.ID, Err: err})
		}
	}
	return report
}
