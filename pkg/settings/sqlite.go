package settings

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/taigrr/lodviz/pkg/coloration"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	kindInt    = "int"
	kindString = "string"
)

type entry struct {
	kind  string
	value string
}

// SQLitePrefs is a Prefs backed by a SQLite file. All rows are read at open;
// setters update the cache and Save writes the pending keys in one
// transaction.
type SQLitePrefs struct {
	db *sql.DB

	mu      sync.RWMutex
	cache   map[string]entry
	pending map[string]*entry // nil value deletes the row
}

// OpenSQLite opens or creates the store at path and migrates its schema.
func OpenSQLite(path string) (*SQLitePrefs, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open prefs %s: %w", path, err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}

	p := &SQLitePrefs{
		db:      db,
		cache:   make(map[string]entry),
		pending: make(map[string]*entry),
	}
	if err := p.load(); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load prefs migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	m.Log = migrateLogger{}

	// m is not closed: that would close db.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate prefs: %w", err)
	}
	return nil
}

// migrateLogger routes migrate output to the package logger.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...any) {
	coloration.Logger().Debug(fmt.Sprintf("migrate: "+format, v...))
}

func (migrateLogger) Verbose() bool { return false }

func (p *SQLitePrefs) load() error {
	rows, err := p.db.Query(`SELECT key, kind, value FROM prefs`)
	if err != nil {
		return fmt.Errorf("read prefs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var e entry
		if err := rows.Scan(&key, &e.kind, &e.value); err != nil {
			return fmt.Errorf("scan prefs: %w", err)
		}
		p.cache[key] = e
	}
	return rows.Err()
}

// Close releases the database. Unsaved writes are lost.
func (p *SQLitePrefs) Close() error {
	return p.db.Close()
}

func (p *SQLitePrefs) get(key, kind string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.cache[key]
	if !ok || e.kind != kind {
		return "", false
	}
	return e.value, true
}

func (p *SQLitePrefs) set(key, kind, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e := entry{kind: kind, value: value}
	p.cache[key] = e
	p.pending[key] = &e
}

func (p *SQLitePrefs) HasKey(key string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.cache[key]
	return ok
}

func (p *SQLitePrefs) Int(key string, def int) int {
	s, ok := p.get(key, kindInt)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func (p *SQLitePrefs) SetInt(key string, v int) {
	p.set(key, kindInt, strconv.Itoa(v))
}

func (p *SQLitePrefs) String(key string, def string) string {
	if s, ok := p.get(key, kindString); ok {
		return s
	}
	return def
}

func (p *SQLitePrefs) SetString(key string, v string) {
	p.set(key, kindString, v)
}

func (p *SQLitePrefs) DeleteKey(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cache, key)
	p.pending[key] = nil
}

// Save writes pending changes. On failure they stay pending.
func (p *SQLitePrefs) Save() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pending) == 0 {
		return nil
	}

	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	defer tx.Rollback()

	for key, e := range p.pending {
		if e == nil {
			_, err = tx.Exec(`DELETE FROM prefs WHERE key = ?`, key)
		} else {
			_, err = tx.Exec(`
				INSERT INTO prefs (key, kind, value) VALUES (?, ?, ?)
				ON CONFLICT(key) DO UPDATE SET
					kind = excluded.kind,
					value = excluded.value,
					updated_at = CURRENT_TIMESTAMP`,
				key, e.kind, e.value)
		}
		if err != nil {
			return fmt.Errorf("save pref %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit prefs: %w", err)
	}
	clear(p.pending)
	return nil
}
