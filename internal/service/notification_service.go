package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx/types"
	"github.com/vouchervault/server/internal/metrics"
	"github.com/vouchervault/server/internal/models"
)

// Notification categories matching the per-user preference flags.
const (
	categoryVoucherExpiry      = "voucher_expiry"
	categoryFamilyInvitation   = "family_invitation"
	categoryInvitationResponse = "invitation_response"
	categoryVoucherNew         = "voucher_new"
	categoryVoucherTransfer    = "voucher_transfer"
)

// notifyParams describes one notification to fan out.
type notifyParams struct {
	Category string
	Type     string
	Title    string
	Body     string
	Metadata map[string]interface{}
}

// notifyUser writes an in-app notification for the recipient and additionally
// pushes it when the recipient has push set up and the category preference
// allows it. Notification failures are logged, never propagated: they must
// not fail the operation that triggered them.
func (s *DefaultService) notifyUser(ctx context.Context, recipient *models.User, p notifyParams) {
	notification := &models.AppNotification{
		UserID: recipient.ID,
		Title:  p.Title,
		Body:   p.Body,
		Type:   p.Type,
	}
	if p.Metadata != nil {
		metadata, err := json.Marshal(p.Metadata)
		if err == nil {
			notification.Metadata = types.JSONText(metadata)
		}
	}

	if err := s.repo.CreateNotification(ctx, notification); err != nil {
		s.logger.WithError(err).Warn("could not store notification")
		return
	}

	if !recipient.NotificationsEnabled || recipient.PushToken == "" || !prefAllows(recipient.Preferences, p.Category) {
		return
	}

	data := map[string]interface{}{"type": p.Category}
	for k, v := range p.Metadata {
		data[k] = v
	}

	if err := s.dispatcher.Send(recipient.PushToken, p.Title, p.Body, data); err != nil {
		s.logger.WithError(err).Warn("could not dispatch push notification")
		return
	}

	metrics.PushesSentTotal.Inc()
}

// notifyFamily fans a notification out to every family member with an
// account, skipping the actor.
func (s *DefaultService) notifyFamily(ctx context.Context, family *models.Family, actorID string, p notifyParams) {
	for _, member := range family.Members {
		recipient, err := s.repo.GetUserByEmail(ctx, member.Email)
		if err != nil {
			s.logger.WithError(err).Warn("could not look up family member for notification")
			continue
		}
		if recipient == nil || recipient.ID == actorID {
			continue
		}
		s.notifyUser(ctx, recipient, p)
	}
}

func prefAllows(prefs models.NotificationPreferences, category string) bool {
	switch category {
	case categoryVoucherExpiry:
		return prefs.VoucherExpiry
	case categoryFamilyInvitation:
		return prefs.FamilyInvitation
	case categoryInvitationResponse:
		return prefs.InvitationResponse
	case categoryVoucherNew:
		return prefs.VoucherNew
	case categoryVoucherTransfer:
		return prefs.VoucherTransfer
	default:
		return true
	}
}

// Profile operations
func (s *DefaultService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.actingUser(ctx, userID)
}

func (s *DefaultService) UpdateProfile(
	ctx context.Context,
	userID string,
	req models.UpdateProfileRequest,
) (*models.User, error) {
	user, err := s.actingUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.NotificationsEnabled != nil {
		user.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.Preferences != nil {
		user.Preferences = *req.Preferences
	}
	if req.PushToken != nil {
		user.PushToken = *req.PushToken
	}
	if req.Language != "" {
		user.Language = req.Language
	}
	if req.DefaultCurrency != "" {
		user.DefaultCurrency = req.DefaultCurrency
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	return user, nil
}

// Notification operations
func (s *DefaultService) ListNotifications(ctx context.Context, userID string) ([]models.AppNotification, error) {
	notifications, err := s.repo.ListNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}

	return notifications, nil
}

func (s *DefaultService) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	if err := s.repo.MarkAllNotificationsRead(ctx, userID); err != nil {
		return fmt.Errorf("error marking notifications read: %w", err)
	}
	return nil
}

func (s *DefaultService) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	if err := s.repo.MarkNotificationRead(ctx, userID, notificationID); err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	return nil
}
