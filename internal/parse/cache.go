package parse

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"scopelint/internal/ast"
	"scopelint/internal/source"
)

// bump when cachedTree changes shape
const cacheSchemaVersion uint16 = 1

// DiskCache stores parser results on disk, keyed by file content and parser
// fingerprint. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type cachedTree struct {
	Schema uint16
	Root   ast.NodeID
	Nodes  []ast.Node
	// Failure holds a cached syntax error; Nodes is empty then.
	Failure *SyntaxError
}

// OpenDiskCache opens the cache in dir, or under the user cache directory
// when dir is empty.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "scopelint")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string { return c.dir }

// Key derives the cache key of file under a parser fingerprint.
func Key(fingerprint string, file *source.File) string {
	h := sha256.New()
	_, _ = h.Write([]byte(fingerprint))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(file.Hash[:])
	return hex.EncodeToString(h.Sum(nil))
}

func (c *DiskCache) pathFor(key string) string {
	return filepath.Join(c.dir, "trees", key+".mp")
}

func (c *DiskCache) put(key string, payload *cachedTree) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), p)
}

func (c *DiskCache) get(key string) (*cachedTree, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() { _ = f.Close() }()

	var out cachedTree
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, err
	}
	if out.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &out, true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "trees"))
}

// CachingParser consults a DiskCache before delegating to Inner. Syntax
// errors are cached too; other failures are not.
type CachingParser struct {
	Inner Parser
	Cache *DiskCache
	// OnError receives cache read and write failures; they never fail Parse.
	OnError func(error)
}

func (p *CachingParser) fail(err error) {
	if p.OnError != nil {
		p.OnError(err)
	}
}

func (p *CachingParser) fingerprint() string {
	if fp, ok := p.Inner.(Fingerprinter); ok {
		return fp.Fingerprint()
	}
	return fmt.Sprintf("%T", p.Inner)
}

func (p *CachingParser) Parse(ctx context.Context, file *source.File) (*ast.Tree, error) {
	key := Key(p.fingerprint(), file)
	entry, ok, err := p.Cache.get(key)
	if err != nil {
		// a corrupt entry is a miss; it is overwritten below
		p.fail(fmt.Errorf("read cache for %s: %w", file.Path, err))
	}
	if ok {
		if entry.Failure != nil {
			failure := *entry.Failure
			failure.Path = file.Path
			return nil, &failure
		}
		for i := range entry.Nodes {
			entry.Nodes[i].Span.File = file.ID
		}
		return &ast.Tree{File: file.ID, Root: entry.Root, Nodes: ast.ArenaFrom(entry.Nodes)}, nil
	}

	tree, err := p.Inner.Parse(ctx, file)
	payload := &cachedTree{Schema: cacheSchemaVersion}
	var syntaxErr *SyntaxError
	switch {
	case err == nil:
		payload.Root = tree.Root
		payload.Nodes = tree.Nodes.Slice()
	case errors.As(err, &syntaxErr):
		payload.Failure = syntaxErr
	default:
		return nil, err
	}
	if putErr := p.Cache.put(key, payload); putErr != nil {
		p.fail(fmt.Errorf("write cache for %s: %w", file.Path, putErr))
	}
	return tree, err
}
