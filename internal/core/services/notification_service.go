package services

import (
	"context"
	"encoding/json"

	"github.com/asistoya/shared-services/internal/core/apperr"
	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/mapper"
	"github.com/asistoya/shared-services/internal/core/ports"
	"github.com/asistoya/shared-services/internal/logger"
)

const defaultNotificationLimit = 50

type NotificationService struct {
	store ports.Store
	feed  ports.ChangeFeed
	clock domain.Clock
}

func NewNotificationService(store ports.Store, feed ports.ChangeFeed, clock domain.Clock) *NotificationService {
	return &NotificationService{store: store, feed: feed, clock: clock}
}

func (s *NotificationService) CreateNotification(ctx context.Context, in domain.CreateNotificationInput) (*domain.Notification, error) {
	if err := firstMissing(
		[2]string{"userId", in.UserID},
		[2]string{"title", in.Title},
		[2]string{"message", in.Message},
	); err != nil {
		return nil, err
	}

	raw, err := s.store.Insert(ctx, tableNotifications, mapper.NewNotificationRow(in))
	if err != nil {
		return nil, fail("NotificationService.CreateNotification", err, "userId", in.UserID)
	}
	n, err := mapRow(raw, s.clock.Now(), mapper.NotificationFromRow)
	if err != nil {
		return nil, fail("NotificationService.CreateNotification", err)
	}

	logger.Success("NotificationService", "Notification created", "id", n.ID, "userId", n.UserID)
	return n, nil
}

// GetUserNotifications returns the newest notifications of userID. A
// non-positive limit means 50.
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	return s.list(ctx, "NotificationService.GetUserNotifications", ports.Query{
		Where:   []ports.Filter{ports.Eq("user_id", userID)},
		OrderBy: []ports.Order{{Column: "created_at", Descending: true}},
		Limit:   limit,
	})
}

// PendingPushNotifications returns undelivered notifications routed through
// push, oldest first.
func (s *NotificationService) PendingPushNotifications(ctx context.Context, limit int) ([]domain.Notification, error) {
	return s.list(ctx, "NotificationService.PendingPushNotifications", ports.Query{
		Where: []ports.Filter{
			ports.Eq("delivered", false),
			ports.Contains("delivery_method", string(domain.DeliveryPush)),
		},
		OrderBy: []ports.Order{{Column: "created_at"}},
		Limit:   limit,
	})
}

func (s *NotificationService) list(ctx context.Context, tag string, q ports.Query) ([]domain.Notification, error) {
	raws, err := s.store.Select(ctx, tableNotifications, q)
	if err != nil {
		return nil, fail(tag, err)
	}
	out, err := mapRows(raws, s.clock.Now(), mapper.NotificationFromRow)
	if err != nil {
		return nil, fail(tag, err)
	}
	return out, nil
}

// GetUnreadCount counts unread notifications of userID, 0 on failure.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID string) int {
	n, err := s.store.Count(ctx, tableNotifications, ports.Query{
		Where: []ports.Filter{ports.Eq("user_id", userID), ports.Eq("read", false)},
	})
	if err != nil {
		apperr.Log("NotificationService.GetUnreadCount", apperr.Classify(err), "userId", userID)
		return 0
	}
	return n
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id string) error {
	if err := required("id", id); err != nil {
		return err
	}
	return s.markRead(ctx, "NotificationService.MarkAsRead", ports.Eq("id", id))
}

// MarkAllAsRead marks every unread notification of userID as read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	if err := required("userId", userID); err != nil {
		return err
	}
	return s.markRead(ctx, "NotificationService.MarkAllAsRead", ports.Eq("user_id", userID), ports.Eq("read", false))
}

func (s *NotificationService) markRead(ctx context.Context, tag string, where ...ports.Filter) error {
	patch := domain.Patch{"read": true, "read_at": timestamp(s.clock.Now())}
	if _, err := s.store.Update(ctx, tableNotifications, patch, ports.Query{Where: where}); err != nil {
		return fail(tag, err)
	}
	return nil
}

// MarkDelivered flags a notification as handed to the push broker.
func (s *NotificationService) MarkDelivered(ctx context.Context, id string) error {
	if err := required("id", id); err != nil {
		return err
	}
	_, err := s.store.Update(ctx, tableNotifications, domain.Patch{"delivered": true}, ports.Query{
		Where: []ports.Filter{ports.Eq("id", id)},
	})
	if err != nil {
		return fail("NotificationService.MarkDelivered", err, "id", id)
	}
	return nil
}

func (s *NotificationService) DeleteNotification(ctx context.Context, id string) error {
	if err := required("id", id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, tableNotifications, ports.Query{Where: []ports.Filter{ports.Eq("id", id)}}); err != nil {
		return fail("NotificationService.DeleteNotification", err, "id", id)
	}
	return nil
}

// RegisterDeviceToken upserts token by its value. A known token is moved to
// userID and reactivated.
func (s *NotificationService) RegisterDeviceToken(ctx context.Context, userID, token string, platform domain.Platform, info domain.DeviceInfo) (*domain.DeviceToken, error) {
	if err := firstMissing([2]string{"userId", userID}, [2]string{"token", token}); err != nil {
		return nil, err
	}

	byToken := ports.Query{Where: []ports.Filter{ports.Eq("token", token)}, Limit: 1}
	existing, err := s.store.Select(ctx, tableDeviceTokens, byToken)
	if err != nil {
		return nil, fail("NotificationService.RegisterDeviceToken", err, "userId", userID)
	}

	now := s.clock.Now()
	var raw json.RawMessage
	if len(existing) > 0 {
		byToken.Limit = 0
		raws, err := s.store.Update(ctx, tableDeviceTokens, mapper.DeviceTokenPatch(userID, platform, info, now), byToken)
		if err != nil {
			return nil, fail("NotificationService.RegisterDeviceToken", err, "userId", userID)
		}
		if len(raws) == 0 {
			return nil, fail("NotificationService.RegisterDeviceToken", apperr.NotFound("Device token", ""))
		}
		raw = raws[0]
	} else {
		raw, err = s.store.Insert(ctx, tableDeviceTokens, mapper.NewDeviceTokenRow(userID, token, platform, info))
		if err != nil {
			return nil, fail("NotificationService.RegisterDeviceToken", err, "userId", userID)
		}
	}

	dt, err := mapRow(raw, now, mapper.DeviceTokenFromRow)
	if err != nil {
		return nil, fail("NotificationService.RegisterDeviceToken", err)
	}
	logger.Success("NotificationService", "Device token registered", "userId", userID, "platform", platform)
	return dt, nil
}

func (s *NotificationService) RemoveDeviceToken(ctx context.Context, token string) error {
	if err := required("token", token); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, tableDeviceTokens, ports.Query{Where: []ports.Filter{ports.Eq("token", token)}}); err != nil {
		return fail("NotificationService.RemoveDeviceToken", err)
	}
	return nil
}

// GetUserDeviceTokens returns the active device tokens of userID.
func (s *NotificationService) GetUserDeviceTokens(ctx context.Context, userID string) ([]domain.DeviceToken, error) {
	raws, err := s.store.Select(ctx, tableDeviceTokens, ports.Query{
		Where: []ports.Filter{ports.Eq("user_id", userID), ports.Eq("is_active", true)},
	})
	if err != nil {
		return nil, fail("NotificationService.GetUserDeviceTokens", err, "userId", userID)
	}
	out, err := mapRows(raws, s.clock.Now(), mapper.DeviceTokenFromRow)
	if err != nil {
		return nil, fail("NotificationService.GetUserDeviceTokens", err)
	}
	return out, nil
}

// SubscribeToNotifications calls fn with every notification inserted for
// userID.
func (s *NotificationService) SubscribeToNotifications(ctx context.Context, userID string, fn func(domain.Notification)) (ports.Subscription, error) {
	filter := ports.Eq("user_id", userID)
	spec := ports.ChannelSpec{
		Name:   "notifications-" + userID,
		Table:  tableNotifications,
		Event:  ports.ChangeInsert,
		Filter: &filter,
	}
	sub, err := s.feed.Subscribe(ctx, spec, func(ev ports.ChangeEvent) {
		n, err := mapRow(ev.New, s.clock.Now(), mapper.NotificationFromRow)
		if err != nil {
			apperr.Log("NotificationService.SubscribeToNotifications", err, "channel", spec.Name)
			return
		}
		fn(*n)
	})
	if err != nil {
		return nil, fail("NotificationService.SubscribeToNotifications", err, "channel", spec.Name)
	}
	return sub, nil
}
