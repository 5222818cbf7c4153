package upload

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/lumeshot/lumeshot/internal/common"
	"github.com/lumeshot/lumeshot/internal/dbx"
	"github.com/lumeshot/lumeshot/internal/logging"
	"github.com/lumeshot/lumeshot/internal/server/access"
	"github.com/lumeshot/lumeshot/internal/server/admins"
	"github.com/lumeshot/lumeshot/internal/server/categories"
	"github.com/lumeshot/lumeshot/internal/server/clients"
	"github.com/lumeshot/lumeshot/internal/server/images"
	"github.com/lumeshot/lumeshot/internal/server/projects"
	"github.com/lumeshot/lumeshot/internal/server/sessions"
	"github.com/lumeshot/lumeshot/internal/server/storage"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeProjectRepo struct {
	upserts int
	project *projects.Project
}

func (f *fakeProjectRepo) Upsert(ctx context.Context, key projects.NaturalKey) (*projects.Project, error) {
	f.upserts++
	if f.project == nil {
		f.project = &projects.Project{ID: "proj-1", Name: key.Name, Contact: key.Contact, Package: key.Package}
	}
	return f.project, nil
}

func (f *fakeProjectRepo) Create(ctx context.Context, p *projects.Project) (*projects.Project, error) {
	p.ID = "proj-1"
	return p, nil
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id string) (*projects.Project, error) {
	if f.project == nil || f.project.ID != id {
		return nil, common.ErrNotFound
	}
	return f.project, nil
}

type fakeSessionRepo struct {
	mu   sync.Mutex
	rows map[string]*sessions.UploadSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{rows: map[string]*sessions.UploadSession{}}
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *sessions.UploadSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*sessions.UploadSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return s, nil
}

type fakeImagesRepo struct {
	mu       sync.Mutex
	inserted []*images.Image
	byKey    map[string]*images.Image
}

func newFakeImagesRepo() *fakeImagesRepo {
	return &fakeImagesRepo{byKey: map[string]*images.Image{}}
}

func (f *fakeImagesRepo) InsertMany(ctx context.Context, imgs []*images.Image) ([]*images.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*images.Image, 0, len(imgs))
	for _, img := range imgs {
		if existing, dup := f.byKey[img.StorageKey]; dup {
			img.ID = existing.ID
			out = append(out, existing)
			continue
		}
		img.ID = fmt.Sprintf("img-%d", len(f.inserted)+1)
		f.byKey[img.StorageKey] = img
		f.inserted = append(f.inserted, img)
		out = append(out, img)
	}
	return out, nil
}

func (f *fakeImagesRepo) GetByCategory(ctx context.Context, categoryID string) ([]*images.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*images.Image
	for _, img := range f.inserted {
		if img.CategoryID == categoryID {
			out = append(out, img)
		}
	}
	return out, nil
}

type linkingCategoryRepo struct {
	*fakeCategoryRepo
	mu    sync.Mutex
	links map[string][]string
}

func newLinkingCategoryRepo() *linkingCategoryRepo {
	return &linkingCategoryRepo{fakeCategoryRepo: newFakeCategoryRepo(), links: map[string][]string{}}
}

func (f *linkingCategoryRepo) LinkImages(ctx context.Context, categoryID string, imageIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links[categoryID] = append(f.links[categoryID], imageIDs...)
	return nil
}

// fakeManager hands the same fake repositories back regardless of the DBTX
// handle, mirroring how the real manager binds repos to a connection or tx.
type fakeManager struct {
	projects *fakeProjectRepo
	cats     *linkingCategoryRepo
	imgs     *fakeImagesRepo
	sess     *fakeSessionRepo
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		projects: &fakeProjectRepo{},
		cats:     newLinkingCategoryRepo(),
		imgs:     newFakeImagesRepo(),
		sess:     newFakeSessionRepo(),
	}
}

func (m *fakeManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func (m *fakeManager) Projects(db dbx.DBTX) projects.Repository      { return m.projects }
func (m *fakeManager) Categories(db dbx.DBTX) categories.Repository  { return m.cats }
func (m *fakeManager) Images(db dbx.DBTX) images.Repository          { return m.imgs }
func (m *fakeManager) Sessions(db dbx.DBTX) sessions.Repository      { return m.sess }
func (m *fakeManager) Access(db dbx.DBTX) access.Repository          { return nil }
func (m *fakeManager) Clients(db dbx.DBTX) clients.Repository        { return nil }
func (m *fakeManager) Admins(db dbx.DBTX) admins.Repository          { return nil }

// fakeStorage is a scriptable ObjectStorage.
type fakeStorage struct {
	mu          sync.Mutex
	issueCalls  int
	issueReqs   []storage.CredentialRequest
	checkCalls  int
	credErr     bool
	issueErrFor map[string]error               // original name -> error
	objects     map[string]*storage.ObjectInfo // key -> object
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		issueErrFor: map[string]error{},
		objects:     map[string]*storage.ObjectInfo{},
	}
}

func (f *fakeStorage) IssueUploadCredential(ctx context.Context, req storage.CredentialRequest) (*storage.UploadCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issueCalls++
	f.issueReqs = append(f.issueReqs, req)
	if f.credErr {
		return nil, fmt.Errorf("%w: trust misconfigured", common.ErrCredentials)
	}
	if err, ok := f.issueErrFor[req.OriginalName]; ok {
		return nil, err
	}
	return &storage.UploadCredential{
		UploadURL: "https://storage.test/" + req.Key,
		Fields:    map[string]string{"key": req.Key, "Content-Type": req.ContentType},
		FinalURL:  "https://storage.test/final/" + req.Key,
		ExpiresAt: time.Now().Add(req.Expiry),
	}, nil
}

func (f *fakeStorage) CheckObject(ctx context.Context, key string) (*storage.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkCalls++
	info, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrNotFound, key)
	}
	return info, nil
}

func (f *fakeStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://storage.test/get/" + key, nil
}
