package pkmapping

import (
	"sync"

	"github.com/shibukawa/wbcommand"
)

var (
	defaultOnce  sync.Once
	defaultStore *Store
	defaultMu    sync.Mutex
	defaultFile  = wbcommand.DefaultPkMappingFile
)

// SetDefaultFile sets the file the process-wide store is loaded from.
// It has no effect once Default has been called.
func SetDefaultFile(path string) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultFile = path
}

// Default returns the process-wide store, creating it on first use and
// seeding it from the default file. A missing file yields an empty store.
func Default() *Store {
	defaultOnce.Do(func() {
		defaultMu.Lock()
		path := defaultFile
		defaultMu.Unlock()

		defaultStore = NewStore()

		if path == "" {
			return
		}

		if err := defaultStore.Load(path); err != nil {
			if !isNotExist(err) {
				wbcommand.Logger().Warn("could not load primary key mapping", "file", path, "error", err)
			}

			defaultStore.Clear()

			return
		}

		wbcommand.Logger().Debug("loaded primary key mapping", "file", path, "entries", defaultStore.Len())
	})

	return defaultStore
}
