package cli

import (
	"bufio"
	"context"
	"database/sql"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mkraev/carelink/internal/client/api"
	"github.com/mkraev/carelink/internal/client/config"
	"github.com/mkraev/carelink/internal/client/conversation"
	"github.com/mkraev/carelink/internal/client/models"
	"github.com/mkraev/carelink/internal/client/repositories/directory"
	"github.com/mkraev/carelink/internal/client/repositories/sessionstate"
	"github.com/mkraev/carelink/internal/client/services"
	"github.com/mkraev/carelink/internal/client/session"
	"github.com/mkraev/carelink/internal/client/storage"
	"github.com/mkraev/carelink/internal/cryptox"
	"github.com/mkraev/carelink/internal/logging"
	"github.com/mkraev/carelink/internal/signalx"

	_ "modernc.org/sqlite"
)

type App struct {
	config *config.Config
	log    logging.Logger

	db    *sql.DB
	store *session.Store

	auth      services.AuthService
	providers services.ProviderService
	messages  services.MessageService
	profile   services.ProfileService
	forms     services.FormService
	billing   services.BillingService
	documents services.DocumentService

	// care team listing from the last `providers` call; numeric command
	// arguments (inbox 2, send 2) index into it.
	careTeam []models.Provider

	// one synchronizer per provider, created lazily and kept so a
	// placeholder from a failed send survives leaving the inbox.
	syncs map[int64]*conversation.Synchronizer

	reader *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	secret, salt, err := storage.LoadOrCreateSecret(filepath.Dir(c.DatabasePath))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	sealKey := cryptox.DeriveSealKey(secret, salt)

	invalidated := signalx.NewBus()

	pipeline, err := api.NewPipeline(c.BaseURL, &http.Client{Timeout: c.RequestTimeout}, invalidated, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := session.NewStore(ctx, sessionstate.NewSQLiteRepository(db), sealKey, invalidated, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		config:    c,
		log:       log,
		db:        db,
		store:     store,
		auth:      services.NewAuthService(pipeline, store, log),
		providers: services.NewProviderService(pipeline, store, directory.NewSQLiteRepository(db), log),
		messages:  services.NewMessageService(pipeline, store),
		profile:   services.NewProfileService(pipeline, store),
		forms:     services.NewFormService(pipeline, store),
		billing:   services.NewBillingService(pipeline, store),
		documents: services.NewDocumentService(pipeline),
		syncs:     make(map[int64]*conversation.Synchronizer),
		reader:    bufio.NewReader(os.Stdin),
	}
	return a, nil
}

// Run starts the REPL and blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

// Close releases the session store subscription and the database handle.
func (a *App) Close() {
	a.store.Close()
	_ = a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.store.Current().Authenticated()
}

// status renders the prompt suffix, e.g. "(Ada Osei)".
func (a *App) status() string {
	cur := a.store.Current()
	if !cur.Authenticated() {
		return ""
	}
	return "(" + cur.DisplayName + ")"
}

// synchronizer returns the conversation synchronizer for p, creating it on
// first use.
func (a *App) synchronizer(p models.Provider) *conversation.Synchronizer {
	if s, ok := a.syncs[p.ID]; ok {
		return s
	}
	s := conversation.NewSynchronizer(p, a.messages, a.store, a.log)
	a.syncs[p.ID] = s
	return s
}
