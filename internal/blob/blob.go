// Package blob stores uploaded assets and exported artifacts by content hash.
package blob

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// ErrNotFound is returned when no object is stored under a key or hash
var ErrNotFound = errors.New("blob not found")

// Backend is the raw key/value storage behind a Client
type Backend interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Metadata describes a stored asset or artifact.
// Files is set for artifacts only and maps file names to content hashes.
type Metadata struct {
	Name        string            `json:"name"`
	Size        int64             `json:"size"`
	ContentType string            `json:"contentType"`
	Files       map[string]string `json:"files,omitempty"`
}

// IsArtifact reports whether the metadata describes a multi-file artifact
func (m *Metadata) IsArtifact() bool {
	return m.Files != nil
}

// Client uploads and fetches content-addressed blobs
type Client struct {
	backend Backend
	logger  *zap.Logger

	mu      sync.Mutex
	pending []*Artifact
}

// NewClient creates a client over backend
func NewClient(backend Backend, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{backend: backend, logger: logger}
}

// Hash returns the hex BLAKE2b-256 digest of data
func Hash(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func objectKey(hash string) string { return "objects/" + hash }
func metaKey(hash string) string   { return "meta/" + hash }

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// PutFile stores content as a single-file asset and returns its hash
func (c *Client) PutFile(ctx context.Context, name string, content []byte) (string, error) {
	hash := Hash(content)
	if err := c.backend.Put(ctx, objectKey(hash), content); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", name, err)
	}

	meta := Metadata{
		Name:        name,
		Size:        int64(len(content)),
		ContentType: contentType(name),
	}
	if err := c.putMetadata(ctx, hash, &meta); err != nil {
		return "", err
	}

	c.logger.Debug("asset stored",
		zap.String("name", name),
		zap.String("hash", hash),
		zap.Int("size", len(content)))
	return hash, nil
}

func (c *Client) putMetadata(ctx context.Context, hash string, meta *Metadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := c.backend.Put(ctx, metaKey(hash), data); err != nil {
		return fmt.Errorf("failed to store metadata for %s: %w", meta.Name, err)
	}
	return nil
}

// GetMetadata returns the metadata stored for hash
func (c *Client) GetMetadata(ctx context.Context, hash string) (*Metadata, error) {
	data, err := c.backend.Get(ctx, metaKey(hash))
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata %s: %w", hash, err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata %s: %w", hash, err)
	}
	return &meta, nil
}

// GetObject returns the content stored for hash
func (c *Client) GetObject(ctx context.Context, hash string) ([]byte, error) {
	data, err := c.backend.Get(ctx, objectKey(hash))
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", hash, err)
	}
	return data, nil
}

// GetFile returns the content of one file inside an artifact
func (c *Client) GetFile(ctx context.Context, artifactHash, name string) ([]byte, error) {
	meta, err := c.GetMetadata(ctx, artifactHash)
	if err != nil {
		return nil, err
	}
	hash, ok := meta.Files[name]
	if !ok {
		return nil, fmt.Errorf("file %q in artifact %s: %w", name, artifactHash, ErrNotFound)
	}
	return c.GetObject(ctx, hash)
}

// Artifact collects files to be saved together
type Artifact struct {
	name  string
	mu    sync.Mutex
	files map[string][]byte
}

// Name returns the artifact name
func (a *Artifact) Name() string { return a.name }

// AddFile adds a file. Adding the same name twice is an error.
func (a *Artifact) AddFile(name string, content []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, dup := a.files[name]; dup {
		return fmt.Errorf("artifact %s already contains %s", a.name, name)
	}
	a.files[name] = content
	return nil
}

// FileNames returns the names of the files added so far, sorted
func (a *Artifact) FileNames() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := make([]string, 0, len(a.files))
	for name := range a.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateArtifact starts a new artifact saved by the next SaveAllArtifacts
func (c *Client) CreateArtifact(name string) *Artifact {
	a := &Artifact{name: name, files: make(map[string][]byte)}
	c.mu.Lock()
	c.pending = append(c.pending, a)
	c.mu.Unlock()
	return a
}

// SaveAllArtifacts stores every pending artifact and returns their hashes
// in creation order. Pending artifacts are cleared even on failure.
func (c *Client) SaveAllArtifacts(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	hashes := make([]string, 0, len(pending))
	for _, a := range pending {
		hash, err := c.saveArtifact(ctx, a)
		if err != nil {
			return hashes, err
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

func (c *Client) saveArtifact(ctx context.Context, a *Artifact) (string, error) {
	meta := Metadata{
		Name:        a.name,
		ContentType: "application/zip",
		Files:       make(map[string]string),
	}
	for _, name := range a.FileNames() {
		hash, err := c.PutFile(ctx, name, a.files[name])
		if err != nil {
			return "", fmt.Errorf("failed to save artifact %s: %w", a.name, err)
		}
		meta.Files[name] = hash
		meta.Size += int64(len(a.files[name]))
	}

	// json.Marshal sorts map keys, so the digest is stable
	descriptor, err := json.Marshal(&meta)
	if err != nil {
		return "", fmt.Errorf("failed to marshal artifact %s: %w", a.name, err)
	}
	hash := Hash(descriptor)
	if err := c.putMetadata(ctx, hash, &meta); err != nil {
		return "", err
	}

	c.logger.Info("artifact saved",
		zap.String("name", a.name),
		zap.String("hash", hash),
		zap.Int("files", len(meta.Files)))
	return hash, nil
}
