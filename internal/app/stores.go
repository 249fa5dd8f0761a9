package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/tebeka/atexit"
	"github.com/vk/tamigo/internal/config"
	"github.com/vk/tamigo/internal/ctxlog"
	"github.com/vk/tamigo/internal/filestore"
	"github.com/vk/tamigo/internal/inmemorystore"
	"github.com/vk/tamigo/internal/savestore"
	"github.com/vk/tamigo/internal/sqlstore"
)

// openStore opens the configured save backend. The returned close function
// is idempotent and also runs on atexit.Exit.
func (a *App) openStore(ctx context.Context) (savestore.Store, func(), error) {
	logger := ctxlog.FromContext(ctx)
	p := a.project

	var store savestore.Store
	var err error
	switch p.Saves.Backend {
	case config.BackendMemory:
		store = inmemorystore.New()
	case config.BackendFile:
		store, err = filestore.New(p.SavesLocation())
	case config.BackendSQLite, config.BackendMySQL, config.BackendPostgres:
		store, err = sqlstore.Open(ctx, p.Saves.Backend, p.SavesLocation())
	default:
		err = fmt.Errorf("unknown saves backend %q", p.Saves.Backend)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open save store: %w", err)
	}
	logger.Debug("Save store opened.", "backend", p.Saves.Backend)

	closeStore := sync.OnceFunc(func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close save store.", "error", err)
			return
		}
		logger.Debug("Save store closed.")
	})
	atexit.Register(closeStore)
	return store, closeStore, nil
}
