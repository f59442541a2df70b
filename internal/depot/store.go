package depot

import (
	"encoding/json/v2"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/flyerforge/flyerforge-server/internal/domain"
	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
)

const (
	imageFilename = "product.png"
	metaFilename  = "metadata.json"
)

// StoredRef identifies a persisted image within a tier.
type StoredRef struct {
	Tier domain.Tier `json:"tier"`
	Key  string      `json:"key"`
	Path string      `json:"-"`
	URL  string      `json:"url"`
}

// Store owns the physical bytes for one storage tier.
// Thread-safe for concurrent operations.
type Store struct {
	tier     domain.Tier
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStore creates a Store for one tier rooted at {basePath}/{tier}.
func NewStore(basePath string, tier domain.Tier) (*Store, error) {
	if basePath == "" {
		return nil, domainerrors.Validation("depot base path cannot be empty")
	}
	if !tier.Valid() {
		return nil, domainerrors.Validationf("invalid tier: %q", tier)
	}

	root := filepath.Join(basePath, string(tier))
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, domainerrors.IOf("create %s tier directory", tier).WithCause(err)
	}

	return &Store{
		tier:     tier,
		basePath: root,
	}, nil
}

// Tier returns the tier this store owns.
func (s *Store) Tier() domain.Tier {
	return s.tier
}

// Write persists image bytes and their metadata sidecar under a key.
func (s *Store) Write(key string, data []byte, meta *domain.ImageMeta) (StoredRef, error) {
	if key == "" {
		return StoredRef{}, domainerrors.Validation("key cannot be empty")
	}
	if len(data) == 0 {
		return StoredRef{}, domainerrors.Validation("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.keyDir(key)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return StoredRef{}, domainerrors.IOf("create image directory %s", key).WithCause(err)
	}

	imagePath := filepath.Join(dir, imageFilename)
	if err := os.WriteFile(imagePath, data, 0644); err != nil {
		return StoredRef{}, domainerrors.IOf("write image %s", key).WithCause(err)
	}

	if meta != nil {
		if err := s.writeMetaLocked(key, meta); err != nil {
			return StoredRef{}, err
		}
	}

	return s.ref(key), nil
}

// Read returns the image bytes stored under a key.
// A missing key is a normal-path result reported as a NotFound error.
func (s *Store) Read(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.keyDir(key), imageFilename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domainerrors.NotFoundf("image not found in %s tier: %s", s.tier, key)
		}
		return nil, domainerrors.IOf("read image %s", key).WithCause(err)
	}
	return data, nil
}

// ReadMeta returns the metadata sidecar stored under a key.
func (s *Store) ReadMeta(key string) (*domain.ImageMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.keyDir(key), metaFilename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domainerrors.NotFoundf("image metadata not found in %s tier: %s", s.tier, key)
		}
		return nil, domainerrors.IOf("read metadata %s", key).WithCause(err)
	}

	var meta domain.ImageMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, domainerrors.IOf("decode metadata %s", key).WithCause(err)
	}
	return &meta, nil
}

// WriteMeta rewrites only the metadata sidecar for a key (status updates).
func (s *Store) WriteMeta(key string, meta *domain.ImageMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeMetaLocked(key, meta)
}

func (s *Store) writeMetaLocked(key string, meta *domain.ImageMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return domainerrors.IOf("encode metadata %s", key).WithCause(err)
	}
	if err := os.WriteFile(filepath.Join(s.keyDir(key), metaFilename), data, 0644); err != nil {
		return domainerrors.IOf("write metadata %s", key).WithCause(err)
	}
	return nil
}

// Delete removes an image and its metadata.
// Returns false when the key was already absent; absence is not an error.
func (s *Store) Delete(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.keyDir(key)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return false, domainerrors.IOf("delete image %s", key).WithCause(err)
	}

	// Prune now-empty parent directories up to the tier root.
	parent := filepath.Dir(dir)
	for parent != s.basePath && len(parent) > len(s.basePath) {
		if err := os.Remove(parent); err != nil {
			break // not empty or not removable, stop pruning
		}
		parent = filepath.Dir(parent)
	}

	return true, nil
}

// Exists checks if an image is stored under a key.
func (s *Store) Exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(filepath.Join(s.keyDir(key), imageFilename))
	return err == nil
}

// List returns all keys under a prefix that hold an image, in lexicographic
// order. An empty prefix lists the whole tier.
func (s *Store) List(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	root := s.basePath
	if prefix != "" {
		root = s.keyDir(prefix)
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var keys []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != imageFilename {
			return nil
		}
		rel, err := filepath.Rel(s.basePath, filepath.Dir(p))
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, domainerrors.IOf("list %s tier", s.tier).WithCause(err)
	}

	sort.Strings(keys)
	return keys, nil
}

// URL returns the public URL for a stored key.
func (s *Store) URL(key string) string {
	return "/" + path.Join("uploads", string(s.tier), key, imageFilename)
}

// ImagePath returns the filesystem path of the stored image for a key.
func (s *Store) ImagePath(key string) string {
	return filepath.Join(s.keyDir(key), imageFilename)
}

func (s *Store) ref(key string) StoredRef {
	return StoredRef{
		Tier: s.tier,
		Key:  key,
		Path: s.ImagePath(key),
		URL:  s.URL(key),
	}
}

// keyDir maps a slash-separated key to its directory inside the tier root.
func (s *Store) keyDir(key string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(strings.TrimPrefix(key, "/")))
}
