package upload

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/lumeshot/lumeshot/internal/common"
	"github.com/lumeshot/lumeshot/internal/server/sessions"
	"github.com/lumeshot/lumeshot/internal/server/storage"
)

const (
	testProjectID  = "11111111-1111-1111-1111-111111111111"
	testCategoryID = "22222222-2222-2222-2222-222222222222"
)

func newTestReconciler(t *testing.T) (*Reconciler, *fakeManager, *fakeStorage, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	repos := newFakeManager()
	store := newFakeStorage()
	return NewReconciler(db, repos, store, testLogger()), repos, store, mock, db
}

func seedSession(repos *fakeManager, id string, expiresAt time.Time) {
	repos.sess.rows[id] = &sessions.UploadSession{
		ID:         id,
		ProjectID:  testProjectID,
		TotalFiles: 2,
		CreatedAt:  time.Now().Add(-time.Minute),
		ExpiresAt:  expiresAt,
	}
}

func completedFile(key, name string) *CompletedFile {
	return &CompletedFile{
		Key:          key,
		OriginalName: name,
		FinalURL:     "https://storage.test/final/" + key,
		Size:         1000,
		FolderPath:   "uploads/Test_999/ns1",
		CategoryID:   testCategoryID,
		ProjectID:    testProjectID,
	}
}

func TestComplete_EmptyReport(t *testing.T) {
	t.Parallel()

	rec, _, _, _, db := newTestReconciler(t)
	defer db.Close()

	_, err := rec.Complete(context.Background(), "s1", nil)
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestComplete_UnknownSession(t *testing.T) {
	t.Parallel()

	rec, _, _, _, db := newTestReconciler(t)
	defer db.Close()

	_, err := rec.Complete(context.Background(), "ghost", []*CompletedFile{completedFile("k", "a.png")})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestComplete_ExpiredSession(t *testing.T) {
	t.Parallel()

	rec, repos, store, _, db := newTestReconciler(t)
	defer db.Close()

	seedSession(repos, "s1", time.Now().Add(-time.Hour))

	_, err := rec.Complete(context.Background(), "s1", []*CompletedFile{completedFile("k", "a.png")})
	if !errors.Is(err, common.ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired, got %v", err)
	}
	if store.checkCalls != 0 {
		t.Fatalf("expired session must not hit storage")
	}
}

func TestComplete_MalformedIdentifierIsBatchFatal(t *testing.T) {
	t.Parallel()

	rec, repos, store, _, db := newTestReconciler(t)
	defer db.Close()

	seedSession(repos, "s1", time.Now().Add(time.Hour))

	bad := completedFile("k1", "a.png")
	bad.CategoryID = "not-a-uuid"

	_, err := rec.Complete(context.Background(), "s1", []*CompletedFile{
		completedFile("k0", "ok.png"),
		bad,
	})
	if !errors.Is(err, common.ErrIdentifier) {
		t.Fatalf("want ErrIdentifier, got %v", err)
	}
	if store.checkCalls != 0 {
		t.Fatalf("corrupt payload must not hit storage")
	}
	if len(repos.imgs.inserted) != 0 {
		t.Fatalf("corrupt payload must not persist images")
	}
}

func TestComplete_ForeignProjectRejected(t *testing.T) {
	t.Parallel()

	rec, repos, _, _, db := newTestReconciler(t)
	defer db.Close()

	seedSession(repos, "s1", time.Now().Add(time.Hour))

	foreign := completedFile("k1", "a.png")
	foreign.ProjectID = "33333333-3333-3333-3333-333333333333"

	_, err := rec.Complete(context.Background(), "s1", []*CompletedFile{foreign})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation for project mismatch, got %v", err)
	}
}

func TestComplete_PartialVerification(t *testing.T) {
	t.Parallel()

	rec, repos, store, mock, db := newTestReconciler(t)
	defer db.Close()

	seedSession(repos, "s1", time.Now().Add(time.Hour))

	uploaded := time.Now().Add(-time.Minute).Truncate(time.Second)
	store.objects["k-exists"] = &storage.ObjectInfo{Size: 2048, LastModified: uploaded, ETag: `"abc"`}

	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := rec.Complete(context.Background(), "s1", []*CompletedFile{
		completedFile("k-exists", "real.png"),
		completedFile("k-ghost", "fake.png"),
	})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}

	if result.Stats.Total != 2 || result.Stats.Successful != 1 || result.Stats.Failed != 1 {
		t.Fatalf("unexpected stats: %+v", result.Stats)
	}
	if result.Data.Failed[0].OriginalName != "fake.png" {
		t.Fatalf("wrong failed entry: %+v", result.Data.Failed[0])
	}

	v := result.Data.Successful[0]
	if v.Key != "k-exists" || v.ActualSize != 2048 || v.ETag != `"abc"` {
		t.Fatalf("verified entry not enriched from storage: %+v", v)
	}
	if v.ImageID == "" {
		t.Fatalf("verified entry should carry the persisted image id")
	}
	if result.TotalSize != 2048 {
		t.Fatalf("TotalSize = %d, want 2048", result.TotalSize)
	}

	// the verified file was persisted and linked, the ghost was not
	if len(repos.imgs.inserted) != 1 {
		t.Fatalf("expected 1 image row, got %d", len(repos.imgs.inserted))
	}
	img := repos.imgs.inserted[0]
	if img.StorageKey != "k-exists" || img.Size != 2048 || !img.UploadedAt.Equal(uploaded) {
		t.Fatalf("unexpected image row: %+v", img)
	}
	if got := repos.cats.links[testCategoryID]; len(got) != 1 || got[0] != img.ID {
		t.Fatalf("image not linked to category: %v", repos.cats.links)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("tx expectations: %v", err)
	}
}

func TestComplete_ReplayedReportIsIdempotent(t *testing.T) {
	t.Parallel()

	rec, repos, store, mock, db := newTestReconciler(t)
	defer db.Close()

	seedSession(repos, "s1", time.Now().Add(time.Hour))
	store.objects["k1"] = &storage.ObjectInfo{Size: 100, LastModified: time.Now()}

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	report := []*CompletedFile{completedFile("k1", "a.png")}
	first, err := rec.Complete(context.Background(), "s1", report)
	if err != nil {
		t.Fatalf("first Complete error: %v", err)
	}
	replayed, err := rec.Complete(context.Background(), "s1", report)
	if err != nil {
		t.Fatalf("replayed Complete error: %v", err)
	}

	if len(repos.imgs.inserted) != 1 {
		t.Fatalf("replay must not duplicate image rows, got %d", len(repos.imgs.inserted))
	}

	// the replay resolves to the existing row, not an empty id
	got := replayed.Data.Successful[0].ImageID
	if got == "" || got != first.Data.Successful[0].ImageID {
		t.Fatalf("replayed entry should carry the original image id, got %q", got)
	}
}
