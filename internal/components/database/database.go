package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"

	"github.com/goliatone/go-appkit/internal/registry"
	"github.com/goliatone/go-appkit/pkg/interfaces"
)

// TypeName is the descriptor type key for the db component.
const TypeName = "appkit.db"

// Connection wraps the bun handle for the db component. The sqlite driver is
// opened from the DSN directly; postgres connections must be injected by the
// host since the kernel carries no postgres driver.
type Connection struct {
	db      *bun.DB
	ownsSQL bool
}

var (
	_ interfaces.Closable      = (*Connection)(nil)
	_ interfaces.Initializable = (*Connection)(nil)
)

// Config selects the driver and DSN for a managed connection.
type Config struct {
	Driver string
	DSN    string
}

// New opens a managed connection per cfg.
func New(cfg Config) (*Connection, error) {
	switch cfg.Driver {
	case "", "sqlite3":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("database: open sqlite %q: %w", dsn, err)
		}
		bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
		bunDB.SetMaxOpenConns(1)
		return &Connection{db: bunDB, ownsSQL: true}, nil
	case "postgres":
		return nil, errors.New("database: postgres requires an injected *sql.DB, use FromSQL")
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", cfg.Driver)
	}
}

// FromSQL wraps a host-provided handle with the dialect matching driver.
func FromSQL(sqlDB *sql.DB, driver string) (*Connection, error) {
	if sqlDB == nil {
		return nil, errors.New("database: sql handle is required")
	}
	switch driver {
	case "", "sqlite3":
		return &Connection{db: bun.NewDB(sqlDB, sqlitedialect.New())}, nil
	case "postgres":
		return &Connection{db: bun.NewDB(sqlDB, pgdialect.New())}, nil
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}
}

// Factory builds the db component from its descriptor. Properties mirror
// Config: driver, dsn.
func Factory(_ context.Context, _ interfaces.AppContext, cfg registry.Config) (interfaces.Component, error) {
	dbCfg := Config{}
	if v, ok := cfg.Properties["driver"].(string); ok {
		dbCfg.Driver = v
	}
	if v, ok := cfg.Properties["dsn"].(string); ok {
		dbCfg.DSN = v
	}
	return New(dbCfg)
}

// DB returns the bun handle.
func (c *Connection) DB() *bun.DB {
	return c.db
}

// Init verifies connectivity once the component is constructed.
func (c *Connection) Init(ctx context.Context, _ interfaces.AppContext) error {
	return c.Ping(ctx)
}

// Ping verifies the connection is usable.
func (c *Connection) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close releases the underlying handle when this component opened it.
func (c *Connection) Close() error {
	if !c.ownsSQL {
		return nil
	}
	return c.db.Close()
}
