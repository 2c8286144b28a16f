package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ValentinKolb/dStruct/lib/db"
	"github.com/ValentinKolb/dStruct/lib/db/engines/maple"
	"github.com/ValentinKolb/dStruct/lib/ds"
	"github.com/ValentinKolb/dStruct/lib/ds/common"
	"github.com/ValentinKolb/dStruct/lib/store"
	"github.com/ValentinKolb/dStruct/lib/store/dstore"
	"github.com/ValentinKolb/dStruct/lib/store/lstore"
	"github.com/ValentinKolb/dStruct/lib/store/sqlstore"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/viper"
)

var log = logger.GetLogger("dstruct")

// Backend is an opened store together with the data structures on top of it
type Backend struct {
	DS    *ds.DS
	close func() error
}

// Close flushes and closes the store
func (b *Backend) Close() error {
	if b == nil || b.close == nil {
		return nil
	}
	err := b.close()
	b.close = nil
	return err
}

// OpenBackend opens the store selected by the backend flag and creates the data
// structures with the configuration from viper
func OpenBackend() (*Backend, error) {
	conf := GetConfig()
	if err := common.InitLoggers(conf.LogLevel); err != nil {
		return nil, err
	}

	var (
		s       store.IStore
		closeFn func() error
		err     error
	)
	path := viper.GetString("path")
	switch backend := viper.GetString("backend"); backend {
	case "maple":
		s, closeFn, err = openMaple(path)
	case "sqlite":
		if path == "" {
			path = "dstruct.db"
		}
		var sq *sqlstore.SQLStore
		sq, err = sqlstore.NewSQLStore(path)
		if err == nil {
			s, closeFn = sq, sq.Close
		}
	case "raft":
		if path == "" {
			path = "data"
		}
		nodeConf := dstore.DefaultNodeConfig(path)
		nodeConf.RaftAddress = viper.GetString("raft-address")
		nh, raftStore, startErr := dstore.StartNode(nodeConf, func() db.KVDB { return maple.NewMapleDB(nil) })
		if startErr == nil {
			s, closeFn = raftStore, func() error { nh.Close(); return nil }
		}
		err = startErr
	default:
		return nil, fmt.Errorf("invalid backend %s (expected one of: maple, sqlite, raft)", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open backend: %w", err)
	}

	d, err := ds.New(s, conf)
	if err != nil {
		return nil, errors.Join(err, closeFn())
	}
	return &Backend{DS: d, close: closeFn}, nil
}

// openMaple creates an in-memory store. With a path the snapshot at path is loaded
// (if it exists) and written back on close.
func openMaple(path string) (store.IStore, func() error, error) {
	database := maple.NewMapleDB(nil)

	if path == "" {
		return lstore.NewLocalStore(func() db.KVDB { return database }), database.Close, nil
	}

	f, err := os.Open(path)
	switch {
	case err == nil:
		err = database.Load(f)
		f.Close()
		if err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to load snapshot %s: %w", path, err)
		}
		log.Infof("loaded snapshot %s (%d entries)", path, database.GetInfo().Entries)
	case !os.IsNotExist(err):
		database.Close()
		return nil, nil, err
	}

	closeFn := func() error {
		defer database.Close()
		return saveSnapshot(database, path)
	}
	return lstore.NewLocalStore(func() db.KVDB { return database }), closeFn, nil
}

// saveSnapshot writes the snapshot to a temporary file and renames it over path, so
// an interrupted save never leaves a truncated snapshot behind
func saveSnapshot(database db.KVDB, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := database.Save(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	log.Infof("saved snapshot %s (%d entries)", path, database.GetInfo().Entries)
	return nil
}
