package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/restohub/resto-cli/internal/api"
	iface "github.com/restohub/resto-cli/internal/service/interface"
)

// notificationService implements iface.NotificationService
type notificationService struct {
	client *api.Client
}

// NewNotificationService creates a new notification service
func NewNotificationService(client *api.Client) iface.NotificationService {
	return &notificationService{
		client: client,
	}
}

// Unread returns the notifications not yet read
func (s *notificationService) Unread(ctx context.Context) ([]iface.Record, error) {
	query := url.Values{"read": {"false"}}
	return NewResourceService(s.client).List(ctx, iface.Notifications, query)
}

// MarkRead marks a notification as read
func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	payload := map[string]bool{"read": true}
	if err := s.client.Patch(ctx, itemPath(iface.Notifications, id), payload, nil); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	return nil
}
