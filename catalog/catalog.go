package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
)

var extensions = []string{".yaml", ".yml", ".json"}

type entry struct {
	doc  *Document
	hash uint64
}

// Catalog is the set of chart documents found in a directory, keyed by
// id. Documents are replaced wholesale on reload and must not be
// modified by callers.
type Catalog struct {
	dir      string
	logger   *slog.Logger
	mutex    sync.RWMutex
	entries  map[string]entry
	onChange []func(ids []string)
	watcher  *fsnotify.Watcher
	wg       sync.WaitGroup
}

// Open loads every document in dir. Invalid documents are logged and
// skipped.
func Open(dir string, logger *slog.Logger) (*Catalog, error) {
	c := &Catalog{
		dir:     dir,
		logger:  logger.With(slog.String("module", "catalog")),
		entries: map[string]entry{},
	}
	if _, err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) Dir() string {
	return c.dir
}

// OnChange registers fn to be called after a reload changed, added or
// removed documents.
func (c *Catalog) OnChange(fn func(ids []string)) {
	c.mutex.Lock()
	c.onChange = append(c.onChange, fn)
	c.mutex.Unlock()
}

func (c *Catalog) Get(id string) (*Document, error) {
	c.mutex.RLock()
	e, ok := c.entries[id]
	c.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return e.doc, nil
}

// List returns the documents sorted by id.
func (c *Catalog) List() []*Document {
	c.mutex.RLock()
	docs := make([]*Document, 0, len(c.entries))
	for _, e := range c.entries {
		docs = append(docs, e.doc)
	}
	c.mutex.RUnlock()

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}

// Reload reads the directory again and returns the ids of the documents
// that changed.
func (c *Catalog) Reload() ([]string, error) {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", c.dir, err)
	}

	loaded := map[string]entry{}
	for _, f := range files {
		if f.IsDir() || !slices.Contains(extensions, strings.ToLower(filepath.Ext(f.Name()))) {
			continue
		}

		path := filepath.Join(c.dir, f.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			c.logger.Error("failed to read chart document", slog.String("file", path), slog.Any("error", err))
			continue
		}
		doc, err := ParseDocument(f.Name(), data)
		if err != nil {
			c.logger.Warn("skipping chart document", slog.String("file", path), slog.Any("error", err))
			continue
		}
		doc.Path = path

		if prev, dup := loaded[doc.ID]; dup {
			c.logger.Warn("duplicate chart id", slog.String("id", doc.ID),
				slog.String("file", path), slog.String("kept", prev.doc.Path))
			continue
		}
		loaded[doc.ID] = entry{doc: doc, hash: xxhash.Sum64(data)}
	}

	c.mutex.Lock()
	var changed []string
	for id, e := range loaded {
		if prev, ok := c.entries[id]; !ok || prev.hash != e.hash {
			changed = append(changed, id)
		}
	}
	for id := range c.entries {
		if _, ok := loaded[id]; !ok {
			changed = append(changed, id)
		}
	}
	c.entries = loaded
	listeners := slices.Clone(c.onChange)
	c.mutex.Unlock()

	sort.Strings(changed)
	c.logger.Debug("catalog loaded", slog.Int("charts", len(loaded)), slog.Int("changed", len(changed)))

	if len(changed) > 0 {
		for _, fn := range listeners {
			fn(changed)
		}
	}

	return changed, nil
}

// Watch reloads the catalog whenever a file in its directory changes,
// until Close is called.
func (c *Catalog) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	if err := watcher.Add(c.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch catalog: %w", err)
	}

	c.mutex.Lock()
	c.watcher = watcher
	c.mutex.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if _, err := c.Reload(); err != nil {
					c.logger.Error("error reloading catalog", slog.Any("error", err))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.logger.Debug("error watching catalog", slog.Any("error", err))
			}
		}
	}()

	return nil
}

func (c *Catalog) Close() error {
	c.mutex.Lock()
	watcher := c.watcher
	c.watcher = nil
	c.mutex.Unlock()

	if watcher == nil {
		return nil
	}
	err := watcher.Close()
	c.wg.Wait()
	return err
}
