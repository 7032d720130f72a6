// internal/blobstore/blobstore.go
package blobstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/vendora/vendora-backend/internal/config"
)

// ErrKeyNotFound is returned by Load when no blob exists under the key.
var ErrKeyNotFound = errors.New("blobstore: key not found")

// Store is the only persistence primitive in the system: a flat string-keyed
// JSON blob store. Every write replaces the whole blob; the last writer wins.
// There is no versioning and no partial update, matching the storage contract
// the services are written against.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Well-known keys and key builders. Per-user keys embed the user ID, which is
// a prefixed UUID, so buyer, seller and admin streams can never collide.
const (
	KeyCatalog            = "catalog"
	KeyUsers              = "users"
	KeyAdminNotifications = "notifications:admin"
)

func CartKey(userID string) string          { return "cart:" + userID }
func OrdersKey(userID string) string        { return "orders:" + userID }
func NotificationsKey(userID string) string { return "notifications:" + userID }

// Open constructs the store selected by configuration.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(cfg.Store.FileDir)
	case "postgres":
		return NewPostgresStore(cfg.Postgres)
	case "redis":
		return NewRedisStore(cfg.Redis)
	default:
		return nil, fmt.Errorf("blobstore: unknown driver %q", cfg.Store.Driver)
	}
}
