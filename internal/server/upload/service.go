package upload

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/lumeshot/lumeshot/internal/common"
	"github.com/lumeshot/lumeshot/internal/logging"
	sc "github.com/lumeshot/lumeshot/internal/server/config"
	"github.com/lumeshot/lumeshot/internal/server/projects"
	"github.com/lumeshot/lumeshot/internal/server/repomanager"
	"github.com/lumeshot/lumeshot/internal/server/sessions"
	"github.com/lumeshot/lumeshot/internal/server/storage"
)

// maxConcurrentIssues bounds the credential-issuance fan-out per batch.
const maxConcurrentIssues = 16

// timeNow is a seam for tests.
var timeNow = time.Now

// Service generates upload manifests: it resolves the project, derives the
// folder taxonomy, builds storage keys and issues direct-upload credentials
// for a declared batch of files.
type Service struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	store  storage.ObjectStorage
	config *sc.Config
	logger logging.Logger
}

func NewService(db *sql.DB, repos repomanager.RepositoryManager, store storage.ObjectStorage, cfg *sc.Config, logger logging.Logger) *Service {
	return &Service{db: db, repos: repos, store: store, config: cfg, logger: logger}
}

// GenerateParams is one batch-upload generation request.
type GenerateParams struct {
	Project ProjectMeta
	Files   []FileMeta
	// PreserveFolders keeps the client-side directory nesting in storage
	// keys and derives categories from leaf folders. When false the batch
	// is flattened and every file lands in the root category.
	PreserveFolders bool
	// ExpiresIn overrides the configured credential lifetime for this
	// batch. Zero means the configured default.
	ExpiresIn time.Duration
}

// Generate produces the upload manifest for a batch.
//
// Batch-level validation happens before any side effect: an empty or
// oversized batch leaves no project, category or session rows behind.
// Per-file problems (missing fields, disallowed type, oversized file) only
// fail that file; its siblings still get credentials. A credential-backend
// failure aborts the whole batch since no issued credential would work.
func (s *Service) Generate(ctx context.Context, params GenerateParams) (*Manifest, error) {
	if len(params.Files) == 0 {
		return nil, fmt.Errorf("%w: no files in batch", common.ErrValidation)
	}
	if len(params.Files) > s.config.MaxBatchFiles {
		return nil, fmt.Errorf("%w: %d files, limit %d", common.ErrBatchTooLarge, len(params.Files), s.config.MaxBatchFiles)
	}
	if params.Project.Name == "" || params.Project.Contact == "" {
		return nil, fmt.Errorf("%w: project name and contact are required", common.ErrValidation)
	}

	now := timeNow().UTC()

	key := projects.NaturalKey{
		Name:    strings.TrimSpace(params.Project.Name),
		Contact: params.Project.Contact,
		Package: params.Project.Package,
	}
	if key.Package == "" {
		key.Package = projects.PackageFree
	}
	proj, err := s.repos.Projects(s.db).Upsert(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("error resolving project: %w", err)
	}

	paths := make([]string, len(params.Files))
	if params.PreserveFolders {
		for i, f := range params.Files {
			paths[i] = f.RelativePath
		}
	}
	catMap, err := EnsureCategories(ctx, s.repos.Categories(s.db), proj.ID, paths)
	if err != nil {
		return nil, fmt.Errorf("error resolving categories: %w", err)
	}

	sessionNS := NewSessionNamespace(now)
	projectRoot := ProjectRoot(params.Project.Name, params.Project.Contact)

	expiry := s.config.UploadURLExpiry
	if params.ExpiresIn > 0 {
		expiry = params.ExpiresIn
	}
	expiresAt := now.Add(expiry)

	results := make([]*FileDescriptor, len(params.Files))
	failures := make([]*FileFailure, len(params.Files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentIssues)
	for i, f := range params.Files {
		g.Go(func() error {
			sanitized, err := ValidateFile(f, s.config.MaxFileSize)
			if err != nil {
				failures[i] = &FileFailure{OriginalName: f.Name, Error: err.Error()}
				return nil
			}

			objKey, originalPath, folderPath := BuildKey(projectRoot, sessionNS, f.RelativePath, sanitized, i, now, params.PreserveFolders)

			leaf := RootCategory
			if params.PreserveFolders {
				leaf = LeafFolder(f.RelativePath)
			}

			cred, err := s.store.IssueUploadCredential(gctx, storage.CredentialRequest{
				Key:           objKey,
				ContentType:   f.Type,
				OriginalName:  f.Name,
				SanitizedName: sanitized,
				OriginalPath:  originalPath,
				SessionID:     sessionNS,
				CategoryID:    catMap[leaf],
				FileIndex:     i,
				MaxSize:       s.config.MaxFileSize,
				Expiry:        expiry,
			})
			if err != nil {
				if errors.Is(err, common.ErrCredentials) {
					return err
				}
				failures[i] = &FileFailure{OriginalName: f.Name, Error: err.Error()}
				return nil
			}

			results[i] = &FileDescriptor{
				OriginalName:  f.Name,
				SanitizedName: sanitized,
				Key:           objKey,
				UploadURL:     cred.UploadURL,
				Fields:        cred.Fields,
				FinalURL:      cred.FinalURL,
				OriginalPath:  originalPath,
				FolderPath:    folderPath,
				SessionID:     sessionNS,
				Size:          f.Size,
				Type:          f.Type,
				CategoryID:    catMap[leaf],
				ProjectID:     proj.ID,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sess := &sessions.UploadSession{
		ID:         sessionNS,
		ProjectID:  proj.ID,
		TotalFiles: len(params.Files),
		CreatedAt:  now,
		ExpiresAt:  expiresAt,
	}
	if err := s.repos.Sessions(s.db).Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("error persisting upload session: %w", err)
	}

	manifest := &Manifest{
		SessionID: sessionNS,
		ProjectID: proj.ID,
		ExpiresAt: expiresAt,
		Data: ManifestData{
			Successful: []*FileDescriptor{},
			Failed:     []*FileFailure{},
		},
		Categories: catMap,
	}
	var declared int64
	for i := range params.Files {
		if results[i] != nil {
			manifest.Data.Successful = append(manifest.Data.Successful, results[i])
			declared += params.Files[i].Size
			continue
		}
		manifest.Data.Failed = append(manifest.Data.Failed, failures[i])
	}
	manifest.Stats = BatchStats{
		Total:      len(params.Files),
		Successful: len(manifest.Data.Successful),
		Failed:     len(manifest.Data.Failed),
	}

	s.logger.Info(ctx, "upload manifest generated",
		"session", sessionNS,
		"project", proj.ID,
		"files", manifest.Stats.Total,
		"failed", manifest.Stats.Failed,
		"declared_size", humanize.Bytes(uint64(declared)))

	return manifest, nil
}

// SessionStatus reports the persisted state of an upload session.
func (s *Service) SessionStatus(ctx context.Context, sessionID string) (*sessions.UploadSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", common.ErrValidation)
	}
	return s.repos.Sessions(s.db).GetByID(ctx, sessionID)
}
