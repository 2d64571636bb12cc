package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/slconnect/safeguard/internal/audit"
	"github.com/slconnect/safeguard/internal/config"
	"github.com/slconnect/safeguard/internal/gate"
	"github.com/slconnect/safeguard/internal/grants"
	"github.com/slconnect/safeguard/internal/storage/sqlite"
	"github.com/slconnect/safeguard/internal/topics"
	"github.com/slconnect/safeguard/internal/vault"
)

// app wires together the components a command needs. Each CLI invocation
// builds a fresh app; durable state lives in the grant store, the sqlite
// database, and the audit log.
type app struct {
	cfg      *config.Config
	auditLog *audit.Log
	gate     *gate.Gate
	db       *sqlite.Store
	vault    *vault.Store
	grants   *grants.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.AuditLogPath), 0700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	auditLog, err := audit.Open(cfg.AuditLogPath)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	set, err := topics.Load(cfg.TopicsPath)
	if err != nil {
		auditLog.Close()
		return nil, fmt.Errorf("load topics: %w", err)
	}

	g := gate.New(gate.WithTopics(set), gate.WithAuditLog(auditLog))

	grantStore, err := grants.NewStore(grants.DefaultDir())
	if err != nil {
		auditLog.Close()
		return nil, fmt.Errorf("open grant store: %w", err)
	}
	granted, err := grantStore.List()
	if err != nil {
		auditLog.Close()
		return nil, fmt.Errorf("list grants: %w", err)
	}
	for _, gr := range granted {
		g.Seed(gr.UserID)
	}

	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		auditLog.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	v := vault.New(g, db,
		vault.WithTimeout(cfg.BackendTimeout),
		vault.WithAuditLog(auditLog),
	)

	return &app{
		cfg:      cfg,
		auditLog: auditLog,
		gate:     g,
		db:       db,
		vault:    v,
		grants:   grantStore,
	}, nil
}

func (a *app) Close() {
	a.db.Close()
	a.auditLog.Close()
}
