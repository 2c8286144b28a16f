package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/ValentinKolb/dStruct/lib/db"
	"github.com/ValentinKolb/dStruct/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	_ "github.com/mattn/go-sqlite3"
)

var log = logger.GetLogger("sqlstore")

// gcEvery is the number of writes between two sweeps of expired rows
const gcEvery = 1024

// SQLStore keeps all entries in a single SQLite table.
//
// Tables:
//
//	entries(key, value, delete_at, write_idx)  PRIMARY KEY (key)
//
// Writes are serialized by a mutex, so every operation is atomic with respect to
// other callers of the same SQLStore.
type SQLStore struct {
	mu    sync.RWMutex
	db    *sql.DB
	index atomic.Uint64
}

// NewSQLStore opens (or creates) the SQLite database at dbPath.
// ":memory:" creates a private in-memory database.
func NewSQLStore(dbPath string) (*SQLStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, err
		}
	}
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases intact and matches the mutex anyway
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS entries (
		key BLOB PRIMARY KEY,
		value BLOB NOT NULL,
		delete_at INTEGER NOT NULL DEFAULT 0,
		write_idx INTEGER NOT NULL
	)`); err != nil {
		conn.Close()
		return nil, err
	}

	s := &SQLStore{db: conn}

	var maxIdx int64
	if err := conn.QueryRow("SELECT COALESCE(MAX(write_idx), 0) FROM entries").Scan(&maxIdx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to read write index: %w", err)
	}
	s.index.Store(uint64(maxIdx))

	log.Infof("opened %s at write index %d", dbPath, maxIdx)
	return s, nil
}

// Close closes the underlying database
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// nextIndex advances the write index and runs a sweep every gcEvery writes.
// Must be called with s.mu held.
func (s *SQLStore) nextIndex() (uint64, error) {
	idx := s.index.Add(1)
	if idx%gcEvery == 0 {
		if _, err := s.db.Exec("DELETE FROM entries WHERE delete_at != 0 AND delete_at <= ?", int64(idx)); err != nil {
			return 0, internalError("gc", err)
		}
	}
	return idx, nil
}

func internalError(op string, err error) error {
	return store.NewError(store.RetCInternalError, fmt.Sprintf("sqlite %s failed: %v", op, err))
}

func nonNil(value []byte) []byte {
	if value == nil {
		return []byte{}
	}
	return value
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *SQLStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.nextIndex()
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO entries (key, value, delete_at, write_idx) VALUES (?, ?, 0, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, delete_at = 0, write_idx = excluded.write_idx`,
		[]byte(key), nonNil(value), int64(idx),
	)
	if err != nil {
		return internalError("set", err)
	}
	return nil
}

func (s *SQLStore) SetIfUnset(key string, value []byte, deleteIn uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.nextIndex()
	if err != nil {
		return false, err
	}
	var deleteAt uint64
	if deleteIn > 0 {
		deleteAt = idx + deleteIn
	}

	// an existing row only gets replaced if its lease ran out
	res, err := s.db.Exec(
		`INSERT INTO entries (key, value, delete_at, write_idx) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, delete_at = excluded.delete_at, write_idx = excluded.write_idx
		 WHERE entries.delete_at != 0 AND entries.delete_at <= excluded.write_idx`,
		[]byte(key), nonNil(value), int64(deleteAt), int64(idx),
	)
	if err != nil {
		return false, internalError("set if unset", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, internalError("set if unset", err)
	}
	return n > 0, nil
}

func (s *SQLStore) Delete(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.nextIndex()
	if err != nil {
		return false, err
	}
	res, err := s.db.Exec(
		"DELETE FROM entries WHERE key = ? AND (delete_at = 0 OR delete_at > ?)",
		[]byte(key), int64(idx),
	)
	if err != nil {
		return false, internalError("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, internalError("delete", err)
	}
	if n == 0 {
		// drop an expired row that the sweep did not get to yet
		if _, err := s.db.Exec("DELETE FROM entries WHERE key = ?", []byte(key)); err != nil {
			return false, internalError("delete", err)
		}
	}
	return n > 0, nil
}

func (s *SQLStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value []byte
	err := s.db.QueryRow(
		"SELECT value FROM entries WHERE key = ? AND (delete_at = 0 OR delete_at > ?)",
		[]byte(key), int64(s.index.Load()),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, internalError("get", err)
	}
	return nonNil(value), true, nil
}

func (s *SQLStore) Has(key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRow(
		"SELECT 1 FROM entries WHERE key = ? AND (delete_at = 0 OR delete_at > ?)",
		[]byte(key), int64(s.index.Load()),
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, internalError("has", err)
	}
	return true, nil
}

func (s *SQLStore) GetDBInfo() (db.DatabaseInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	writeIdx := s.index.Load()
	var live, total int
	if err := s.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(delete_at = 0 OR delete_at > ?), 0) FROM entries",
		int64(writeIdx),
	).Scan(&total, &live); err != nil {
		return db.DatabaseInfo{}, internalError("info", err)
	}

	return db.DatabaseInfo{
		Entries: live,
		DbType:  db.ImplSQLite,
		SupportedFeatures: []db.Feature{
			db.FeatureSet, db.FeatureSetIfUnset,
			db.FeatureGet, db.FeatureHas, db.FeatureDelete,
			db.FeatureGarbageCollect,
		},
		Metadata: &struct {
			CurrentWriteIndex uint64 `json:"current_write_index"`
			PendingExpired    int    `json:"pending_expired"`
		}{
			CurrentWriteIndex: writeIdx,
			PendingExpired:    total - live,
		},
	}, nil
}

var _ store.IStore = (*SQLStore)(nil)
