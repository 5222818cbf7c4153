package repomanager

import (
	"context"
	"database/sql"

	"github.com/lumeshot/lumeshot/internal/dbx"
	"github.com/lumeshot/lumeshot/internal/server/access"
	"github.com/lumeshot/lumeshot/internal/server/admins"
	"github.com/lumeshot/lumeshot/internal/server/categories"
	"github.com/lumeshot/lumeshot/internal/server/clients"
	"github.com/lumeshot/lumeshot/internal/server/images"
	"github.com/lumeshot/lumeshot/internal/server/projects"
	"github.com/lumeshot/lumeshot/internal/server/sessions"
)

// RepositoryManager vends repository implementations bound to a DBTX, so the
// same repository code runs against *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Projects(db dbx.DBTX) projects.Repository
	Categories(db dbx.DBTX) categories.Repository
	Images(db dbx.DBTX) images.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Access(db dbx.DBTX) access.Repository
	Clients(db dbx.DBTX) clients.Repository
	Admins(db dbx.DBTX) admins.Repository
}
