package builder

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/spigell/talentgraph/internal/graph"
)

// Cache keeps built graphs on disk as snapshots, one file per key.
// A key must identify every input of the build: records and lookups.
type Cache struct {
	dir    string
	logger *zap.Logger
}

// NewCache creates a cache in dir. The directory is created on first Store.
func NewCache(dir string, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{dir: dir, logger: logger}
}

// CacheKey hashes the build inputs into a file-safe key.
func CacheKey(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:", len(p))
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Load returns the graphs stored under key. A missing, unreadable or invalid
// entry is a miss.
func (c *Cache) Load(key string) ([]*graph.Graph, bool) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("reading graph cache", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var snapshots []graph.Snapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		c.logger.Warn("decoding graph cache", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	graphs := make([]*graph.Graph, 0, len(snapshots))
	for _, s := range snapshots {
		g := graph.FromSnapshot(s)
		if err := g.Validate(); err != nil {
			c.logger.Warn("discarding invalid graph cache entry", zap.String("key", key), zap.Error(err))
			return nil, false
		}
		graphs = append(graphs, g)
	}

	c.logger.Debug("graph cache hit", zap.String("key", key), zap.Int("graphs", len(graphs)))
	return graphs, true
}

// Store writes graphs under key, replacing any previous entry.
func (c *Cache) Store(key string, graphs []*graph.Graph) error {
	snapshots := make([]graph.Snapshot, 0, len(graphs))
	for _, g := range graphs {
		snapshots = append(snapshots, g.Snapshot())
	}

	data, err := json.Marshal(snapshots)
	if err != nil {
		return fmt.Errorf("encoding graphs: %w", err)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing cache file: %w", err)
	}

	return os.Rename(tmp.Name(), c.path(key))
}
