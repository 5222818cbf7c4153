// Package gallery assembles the client-facing view of a project: unlock
// states per category and presigned read URLs for the images a client is
// allowed to see.
package gallery

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lumeshot/lumeshot/internal/logging"
	"github.com/lumeshot/lumeshot/internal/server/repomanager"
	"github.com/lumeshot/lumeshot/internal/server/storage"
	"github.com/lumeshot/lumeshot/internal/server/unlock"
)

// maxConcurrentPresigns bounds the read-URL fan-out per request.
const maxConcurrentPresigns = 16

// ImageView is one presigned, viewable image.
type ImageView struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalName"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// CategoryView couples a category's unlock status with its images. Images
// are only populated for unlocked categories.
type CategoryView struct {
	unlock.CategoryStatus
	Images []*ImageView `json:"images"`
}

// View is the whole gallery for one client.
type View struct {
	ProjectID  string          `json:"projectId"`
	Categories []*CategoryView `json:"categories"`
}

type Service struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	store     storage.ObjectStorage
	logger    logging.Logger
	urlExpiry time.Duration
}

func NewService(db *sql.DB, repos repomanager.RepositoryManager, store storage.ObjectStorage, logger logging.Logger, urlExpiry time.Duration) *Service {
	return &Service{db: db, repos: repos, store: store, logger: logger, urlExpiry: urlExpiry}
}

// View builds the gallery for the given client user. Locked categories come
// back with their unlock status but no image URLs; the server, not the
// client, decides what is visible.
func (s *Service) View(ctx context.Context, clientUserID string) (*View, error) {
	client, err := s.repos.Clients(s.db).GetByID(ctx, clientUserID)
	if err != nil {
		return nil, err
	}

	cats, err := s.repos.Categories(s.db).GetByProject(ctx, client.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("error loading categories: %w", err)
	}

	counts, err := s.repos.Clients(s.db).CountInteractions(ctx, clientUserID)
	if err != nil {
		return nil, fmt.Errorf("error loading interactions: %w", err)
	}

	statuses := unlock.Evaluate(cats, counts)

	view := &View{ProjectID: client.ProjectID, Categories: make([]*CategoryView, len(statuses))}
	imgRepo := s.repos.Images(s.db)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPresigns)
	for i, st := range statuses {
		cv := &CategoryView{CategoryStatus: *st, Images: []*ImageView{}}
		view.Categories[i] = cv
		if st.State != unlock.StateUnlocked {
			continue
		}

		imgs, err := imgRepo.GetByCategory(ctx, st.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("error loading images: %w", err)
		}

		cv.Images = make([]*ImageView, len(imgs))
		for j, img := range imgs {
			cv.Images[j] = &ImageView{
				ID:           img.ID,
				OriginalName: img.OriginalName,
				Size:         img.Size,
				UploadedAt:   img.UploadedAt,
			}
			key := img.StorageKey
			target := cv.Images[j]
			g.Go(func() error {
				url, err := s.store.PresignGet(gctx, key, s.urlExpiry)
				if err != nil {
					return err
				}
				target.URL = url
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error presigning image urls: %w", err)
	}

	return view, nil
}
