// ABOUTME: Charm KV client wrapper for athlete and performance storage.
// ABOUTME: Holds the process-wide KV handle, prefix lookups and push-after-write sync.
package charm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/harperreed/scout/internal/storage"
)

const (
	// DBName is the Charm KV database holding scout data.
	DBName = "scout"

	// DefaultHost is used when CHARM_HOST is not set.
	DefaultHost = "charm.2389.dev"

	AthletePrefix     = "athlete:"
	PerformancePrefix = "performance:"
)

// ErrReadOnly is returned for writes while another process holds the database lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// store is the subset of *kv.KV the client relies on.
type store interface {
	Keys() ([][]byte, error)
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Sync() error
	IsReadOnly() bool
	Reset() error
	Close() error
}

// Client stores profiles and records in Charm KV.
type Client struct {
	kv       store
	autoSync bool
	mu       sync.RWMutex
}

// InitClient opens the scout KV database once per process and returns the
// shared client on every later call.
func InitClient() (*Client, error) {
	clientOnce.Do(func() {
		if os.Getenv("CHARM_HOST") == "" {
			if err := os.Setenv("CHARM_HOST", DefaultHost); err != nil {
				clientErr = err
				return
			}
		}

		db, err := kv.OpenWithDefaultsFallback(DBName)
		if err != nil {
			clientErr = err
			return
		}

		globalClient = newClient(db, true)

		// Read-only handles cannot apply a pull.
		if !db.IsReadOnly() {
			_ = db.Sync()
		}
	})

	return globalClient, clientErr
}

// GetClient is InitClient under the name callers outside setup use.
func GetClient() (*Client, error) {
	return InitClient()
}

func newClient(s store, autoSync bool) *Client {
	return &Client{kv: s, autoSync: autoSync}
}

// Close releases the KV handle and its lock.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly reports whether another scout process held the lock at open time.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync pushes local writes and pulls remote ones. It is a no-op when read-only.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

func (c *Client) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// SetAutoSync controls whether each write is pushed immediately.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the linked Charm account ID.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Reset drops the local copy and restores it from the cloud.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

func (c *Client) set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}

	if err := c.kv.Set([]byte(key), data); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

// listByPrefix returns the values of every key under prefix.
func (c *Client) listByPrefix(prefix string) ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var results [][]byte
	prefixBytes := []byte(prefix)

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if bytes.HasPrefix(key, prefixBytes) {
			val, err := c.kv.Get(key)
			if err != nil {
				return nil, err
			}
			results = append(results, val)
		}
	}

	return results, nil
}

// matchKeys returns the keys starting with typePrefix+idPrefix, or the exact
// key when idPrefix is a full ID. Caller must hold the lock.
func (c *Client) matchKeys(typePrefix, idPrefix string) ([][]byte, error) {
	if idPrefix == "" {
		return nil, fmt.Errorf("%w: empty id", storage.ErrNotFound)
	}

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}

	search := []byte(typePrefix + idPrefix)
	exact := storage.IsFullID(idPrefix)

	var matches [][]byte
	for _, key := range keys {
		if (exact && bytes.Equal(key, search)) || (!exact && bytes.HasPrefix(key, search)) {
			matches = append(matches, key)
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, idPrefix)
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("%w %s: matches %d records", storage.ErrAmbiguousPrefix, idPrefix, len(matches))
	}
	return matches, nil
}

// getByIDPrefix returns the one value whose key matches typePrefix+idPrefix.
func (c *Client) getByIDPrefix(typePrefix, idPrefix string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matches, err := c.matchKeys(typePrefix, idPrefix)
	if err != nil {
		return nil, err
	}
	return c.kv.Get(matches[0])
}

// deleteByIDPrefix removes the one key matching typePrefix+idPrefix.
func (c *Client) deleteByIDPrefix(typePrefix, idPrefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}

	matches, err := c.matchKeys(typePrefix, idPrefix)
	if err != nil {
		return err
	}

	if err := c.kv.Delete(matches[0]); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
