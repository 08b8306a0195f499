// Package database provisions database connection handles for the database
// registry. Handles are opened lazily through database/sql: provisioning never
// dials, so connection problems surface on first use.
package database

import (
	"database/sql"
	"errors"
	"strings"
	"sync"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/bft-labs/linehost/internal/domain"
	"github.com/bft-labs/linehost/internal/ports"
)

// ErrDisposed is returned when a disposed handle is used.
var ErrDisposed = errors.New("database: connection disposed")

// Driver names registered by the imported drivers.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Provider implements ports.DatabaseProvider.
type Provider struct {
	logger ports.Logger
}

// NewProvider creates a provider.
func NewProvider(logger ports.Logger) *Provider {
	return &Provider{logger: logger}
}

// Provision returns a handle for the connection string. It never fails;
// an open error is kept on the handle and returned on use.
func (p *Provider) Provision(connectionString string) domain.Resource {
	driver, dsn := driverFor(connectionString)
	db, err := sql.Open(driver, dsn)
	if err != nil && p.logger != nil {
		p.logger.Warn("database handle deferred error",
			ports.String("driver", driver),
			ports.Err(err))
	}
	return &Conn{db: db, openErr: err, driver: driver}
}

// driverFor picks a driver from the connection string.
// "sqlite:" prefixed, file: and :memory: strings go to SQLite; everything
// else is treated as a PostgreSQL URL or keyword/value DSN.
func driverFor(conn string) (driver, dsn string) {
	s := strings.TrimSpace(conn)
	switch {
	case strings.HasPrefix(s, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(s, "sqlite://")
	case strings.HasPrefix(s, "sqlite:"):
		return DriverSQLite, strings.TrimPrefix(s, "sqlite:")
	case strings.HasPrefix(s, "file:"), s == ":memory:", strings.HasSuffix(s, ".db"):
		return DriverSQLite, s
	default:
		return DriverPostgres, s
	}
}

// Conn is a lazily connected database handle.
type Conn struct {
	mu       sync.Mutex
	db       *sql.DB
	openErr  error
	driver   string
	disposed bool
}

// Driver returns the driver name backing the handle.
func (c *Conn) Driver() string {
	return c.driver
}

// DB returns the underlying pool.
func (c *Conn) DB() (*sql.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return nil, ErrDisposed
	}
	if c.openErr != nil {
		return nil, c.openErr
	}
	return c.db, nil
}

// Close closes the pool and its idle connections.
func (c *Conn) Close() error {
	c.mu.Lock()
	db := c.db
	c.mu.Unlock()
	if db == nil {
		return c.openErr
	}
	return db.Close()
}

// Dispose drops the pool reference. The handle is unusable afterwards.
func (c *Conn) Dispose() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.db = nil
	c.disposed = true
	return nil
}
