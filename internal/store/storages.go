package store

import (
	"context"
	"strings"

	"github.com/churchkit/church-ops/internal/config"
	"github.com/churchkit/church-ops/internal/logger"
)

// Storages aggregates every persistence-layer dependency the service
// layer consumes.
type Storages struct {
	AccountRepository AccountRepository
	SessionRepository SessionRepository
	MemberRepository  MemberRepository

	// AuthBuckets and APIBuckets back the two rate limiters. They are
	// separate stores because each limiter sweeps stale buckets by its
	// own window length.
	AuthBuckets BucketStore
	APIBuckets  BucketStore
}

// NewStorages connects the configured database, runs migrations, and
// wires all repositories plus the in-memory rate-limit bucket store.
//
// A DSN ending in ".db" selects the SQLite driver for local runs;
// anything else is treated as a PostgreSQL DSN.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	var db *DB
	var err error

	if strings.HasSuffix(cfg.DB.DSN, ".db") {
		db, err = NewConnectSQLite(ctx, cfg.DB, log)
	} else {
		db, err = NewConnectPostgres(ctx, cfg.DB, log)
	}
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		return nil, err
	}

	return &Storages{
		AccountRepository: NewAccountRepository(db, log),
		SessionRepository: NewSessionRepository(db, log),
		MemberRepository:  NewMemberRepository(db, log),
		AuthBuckets:       NewMemoryBucketStore(),
		APIBuckets:        NewMemoryBucketStore(),
	}, nil
}
