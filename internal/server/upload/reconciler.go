package upload

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lumeshot/lumeshot/internal/common"
	"github.com/lumeshot/lumeshot/internal/dbx"
	"github.com/lumeshot/lumeshot/internal/logging"
	"github.com/lumeshot/lumeshot/internal/server/images"
	"github.com/lumeshot/lumeshot/internal/server/repomanager"
	"github.com/lumeshot/lumeshot/internal/server/storage"
)

// maxConcurrentChecks bounds the object-existence fan-out per report.
const maxConcurrentChecks = 16

// Reconciler processes completion reports: it verifies each claimed object
// against storage and persists image records for the ones that exist.
type Reconciler struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	store  storage.ObjectStorage
	logger logging.Logger
}

func NewReconciler(db *sql.DB, repos repomanager.RepositoryManager, store storage.ObjectStorage, logger logging.Logger) *Reconciler {
	return &Reconciler{db: db, repos: repos, store: store, logger: logger}
}

// Complete reconciles a completion report against storage and the database.
//
// The session must exist and be unexpired. Identifier coercion failures are
// batch-fatal: a malformed category or project id means the client corrupted
// the manifest, so nothing is persisted. A missing object only fails its own
// entry; verified siblings are still recorded. All database writes happen in
// one transaction.
func (r *Reconciler) Complete(ctx context.Context, sessionID string, files []*CompletedFile) (*CompletionResult, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", common.ErrValidation)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files in completion report", common.ErrValidation)
	}

	sess, err := r.repos.Sessions(r.db).GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := timeNow().UTC()
	if sess.Expired(now) {
		return nil, fmt.Errorf("%w: session %s expired at %s", common.ErrSessionExpired, sessionID, sess.ExpiresAt.Format(time.RFC3339))
	}

	for _, f := range files {
		if _, err := uuid.Parse(f.CategoryID); err != nil {
			return nil, fmt.Errorf("%w: bad category id %q", common.ErrIdentifier, f.CategoryID)
		}
		if _, err := uuid.Parse(f.ProjectID); err != nil {
			return nil, fmt.Errorf("%w: bad project id %q", common.ErrIdentifier, f.ProjectID)
		}
		if f.ProjectID != sess.ProjectID {
			return nil, fmt.Errorf("%w: file project %s does not match session project", common.ErrValidation, f.ProjectID)
		}
	}

	verified := make([]*VerifiedFile, len(files))
	failures := make([]*FileFailure, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentChecks)
	for i, f := range files {
		g.Go(func() error {
			if f.Key == "" {
				failures[i] = &FileFailure{OriginalName: f.OriginalName, Error: "missing storage key"}
				return nil
			}
			info, err := r.store.CheckObject(gctx, f.Key)
			if err != nil {
				failures[i] = &FileFailure{OriginalName: f.OriginalName, Error: err.Error()}
				return nil
			}
			v := &VerifiedFile{
				CompletedFile: *f,
				ActualSize:    info.Size,
				LastModified:  info.LastModified,
			}
			if info.ETag != "" {
				v.ETag = info.ETag
			}
			verified[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var rows []*images.Image
		var owners []*VerifiedFile
		for _, v := range verified {
			if v == nil {
				continue
			}
			rows = append(rows, &images.Image{
				CategoryID:   v.CategoryID,
				ProjectID:    v.ProjectID,
				StorageKey:   v.Key,
				OriginalName: v.OriginalName,
				FolderPath:   v.FolderPath,
				Size:         v.ActualSize,
				UploadedAt:   v.LastModified,
			})
			owners = append(owners, v)
		}
		if len(rows) == 0 {
			return nil
		}

		inserted, err := r.repos.Images(tx).InsertMany(ctx, rows)
		if err != nil {
			return err
		}
		// Replayed duplicates resolve to their existing row, so every
		// verified entry carries an image id even on a retried report.
		for i, img := range inserted {
			owners[i].ImageID = img.ID
		}

		// Reassert category membership; the image set has set semantics,
		// so ids from a replayed report are absorbed.
		byCategory := make(map[string][]string)
		for _, img := range inserted {
			byCategory[img.CategoryID] = append(byCategory[img.CategoryID], img.ID)
		}
		catRepo := r.repos.Categories(tx)
		for catID, ids := range byCategory {
			if err := catRepo.LinkImages(ctx, catID, ids); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error persisting completion: %w", err)
	}

	result := &CompletionResult{
		SessionID: sessionID,
		Data: CompletionData{
			Successful: []*VerifiedFile{},
			Failed:     []*FileFailure{},
		},
		CompletedAt: now,
	}
	for i := range files {
		if verified[i] != nil {
			result.Data.Successful = append(result.Data.Successful, verified[i])
			result.TotalSize += verified[i].ActualSize
			continue
		}
		result.Data.Failed = append(result.Data.Failed, failures[i])
	}
	result.Stats = BatchStats{
		Total:      len(files),
		Successful: len(result.Data.Successful),
		Failed:     len(result.Data.Failed),
	}

	r.logger.Info(ctx, "upload session reconciled",
		"session", sessionID,
		"verified", result.Stats.Successful,
		"missing", result.Stats.Failed,
		"total_size", humanize.Bytes(uint64(result.TotalSize)))

	return result, nil
}
