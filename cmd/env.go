// Package cmd holds the tabtray subcommands that work on the tab database
// without starting the TUI.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kastheco/tabtray/config"
	"github.com/kastheco/tabtray/config/auditlog"
	"github.com/kastheco/tabtray/config/tabstore"
	"github.com/kastheco/tabtray/log"
	"github.com/kastheco/tabtray/panel"
)

// Env is an open tab database with a panel on top of it.
type Env struct {
	DBPath string
	Store  *tabstore.SQLiteStore
	Audit  *auditlog.SQLiteLogger
	Panel  *panel.Panel
}

// EnvOptions tweaks how OpenEnv builds the panel.
type EnvOptions struct {
	// Private overrides the persisted browsing mode without saving it.
	Private *bool
}

// OpenEnv opens the database cfg points at, creating it when missing.
func OpenEnv(cfg *config.Config, opts EnvOptions) (*Env, error) {
	dbPath, err := cfg.ResolveDatabasePath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	return openEnvAt(dbPath, cfg, opts)
}

func openEnvAt(dbPath string, cfg *config.Config, opts EnvOptions) (*Env, error) {
	store, err := tabstore.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open tab store: %w", err)
	}
	audit, err := auditlog.NewSQLiteLogger(dbPath)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	p, err := panel.Open(panel.Options{
		Store:         store,
		Audit:         audit,
		InactiveAfter: cfg.InactiveAfter(),
		Private:       opts.Private,
	})
	if err != nil {
		audit.Close()
		store.Close()
		return nil, fmt.Errorf("open panel: %w", err)
	}
	return &Env{DBPath: dbPath, Store: store, Audit: audit, Panel: p}, nil
}

// Close shuts the panel down and releases the database.
func (e *Env) Close() {
	e.Panel.Close()
	if err := e.Audit.Close(); err != nil {
		log.WarningLog.Printf("close audit log: %v", err)
	}
	if err := e.Store.Close(); err != nil {
		log.WarningLog.Printf("close tab store: %v", err)
	}
}
