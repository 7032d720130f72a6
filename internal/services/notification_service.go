// internal/services/notification_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vendora/vendora-backend/internal/blobstore"
	"github.com/vendora/vendora-backend/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService owns the notification streams. Each recipient has its
// own blob: the admin console reads "notifications:admin", every other user
// reads "notifications:<userID>". New entries are prepended so streams read
// newest first.
type NotificationService struct {
	store blobstore.Store
	mu    sync.Mutex
}

func NewNotificationService(store blobstore.Store) *NotificationService {
	return &NotificationService{store: store}
}

// AddRequest describes a notification to append to a stream.
type AddRequest struct {
	Type     models.NotificationType
	Title    string
	Message  string
	Link     string
	Metadata models.Metadata
}

// NotifyUser appends a notification to a user's stream.
func (s *NotificationService) NotifyUser(ctx context.Context, userID string, req AddRequest) (*models.Notification, error) {
	return s.add(ctx, blobstore.NotificationsKey(userID), req)
}

// NotifyAdmin appends a notification to the shared moderation stream.
func (s *NotificationService) NotifyAdmin(ctx context.Context, req AddRequest) (*models.Notification, error) {
	return s.add(ctx, blobstore.KeyAdminNotifications, req)
}

func (s *NotificationService) add(ctx context.Context, key string, req AddRequest) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.loadStream(ctx, key)

	notification := models.Notification{
		ID:        models.NewNotificationID(),
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		Link:      req.Link,
		Metadata:  req.Metadata,
		Read:      false,
		CreatedAt: time.Now(),
	}

	stream = append([]models.Notification{notification}, stream...)
	if err := s.saveStream(ctx, key, stream); err != nil {
		return nil, err
	}
	return &notification, nil
}

// List returns a user's stream, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadStream(ctx, blobstore.NotificationsKey(userID))
}

// ListAdmin returns the moderation stream, newest first.
func (s *NotificationService) ListAdmin(ctx context.Context) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadStream(ctx, blobstore.KeyAdminNotifications)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.loadStream(ctx, blobstore.NotificationsKey(userID)) {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead flips a single notification to read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.markRead(ctx, blobstore.NotificationsKey(userID), notificationID)
}

func (s *NotificationService) MarkReadAdmin(ctx context.Context, notificationID string) error {
	return s.markRead(ctx, blobstore.KeyAdminNotifications, notificationID)
}

func (s *NotificationService) markRead(ctx context.Context, key, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.loadStream(ctx, key)
	for i := range stream {
		if stream[i].ID == notificationID {
			stream[i].Read = true
			return s.saveStream(ctx, key, stream)
		}
	}
	return ErrNotificationNotFound
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := blobstore.NotificationsKey(userID)
	stream := s.loadStream(ctx, key)
	for i := range stream {
		stream[i].Read = true
	}
	return s.saveStream(ctx, key, stream)
}

func (s *NotificationService) Delete(ctx context.Context, userID, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := blobstore.NotificationsKey(userID)
	stream := s.loadStream(ctx, key)
	for i := range stream {
		if stream[i].ID == notificationID {
			stream = append(stream[:i], stream[i+1:]...)
			return s.saveStream(ctx, key, stream)
		}
	}
	return ErrNotificationNotFound
}

func (s *NotificationService) ClearAll(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Delete(ctx, blobstore.NotificationsKey(userID))
}

// loadStream decodes a stream blob. A missing key is an empty stream; a
// corrupt blob is logged and treated as empty rather than failing the caller.
func (s *NotificationService) loadStream(ctx context.Context, key string) []models.Notification {
	blob, err := s.store.Load(ctx, key)
	if errors.Is(err, blobstore.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to load notification stream")
		return nil
	}

	var stream []models.Notification
	if err := json.Unmarshal(blob, &stream); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Corrupt notification stream, resetting")
		return nil
	}
	return stream
}

func (s *NotificationService) saveStream(ctx context.Context, key string, stream []models.Notification) error {
	blob, err := json.Marshal(stream)
	if err != nil {
		return fmt.Errorf("marshal notification stream: %w", err)
	}
	if err := s.store.Save(ctx, key, blob); err != nil {
		return fmt.Errorf("persist notification stream: %w", err)
	}
	return nil
}
