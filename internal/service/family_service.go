package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vouchervault/server/internal/metrics"
	"github.com/vouchervault/server/internal/models"
	"github.com/vouchervault/server/internal/repository"
)

// Family operations
func (s *DefaultService) CreateFamily(
	ctx context.Context,
	userID string,
	req models.CreateFamilyRequest,
) (*models.Family, error) {
	if _, err := s.actingUser(ctx, userID); err != nil {
		return nil, err
	}

	family := &models.Family{
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
	}

	if err := s.repo.CreateFamily(ctx, family); err != nil {
		return nil, fmt.Errorf("error creating family: %w", err)
	}

	return family, nil
}

func (s *DefaultService) ListFamilies(ctx context.Context, userID string) ([]models.Family, error) {
	user, err := s.actingUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	families, err := s.repo.ListFamilies(ctx, userID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error listing families: %w", err)
	}

	return families, nil
}

func (s *DefaultService) UpdateFamily(
	ctx context.Context,
	userID string,
	familyID string,
	req models.UpdateFamilyRequest,
) (*models.Family, error) {
	family, err := s.ownedFamily(ctx, userID, familyID)
	if err != nil {
		return nil, err
	}

	family.Name = strings.TrimSpace(req.Name)

	if err := s.repo.UpdateFamily(ctx, family); err != nil {
		return nil, fmt.Errorf("error updating family: %w", err)
	}

	return family, nil
}

func (s *DefaultService) DeleteFamily(ctx context.Context, userID, familyID string) error {
	if _, err := s.ownedFamily(ctx, userID, familyID); err != nil {
		return err
	}

	if err := s.repo.DeleteFamily(ctx, familyID); err != nil {
		return fmt.Errorf("error deleting family: %w", err)
	}

	return nil
}

func (s *DefaultService) RemoveFamilyMember(
	ctx context.Context,
	userID string,
	familyID string,
	memberID string,
) (*models.Family, error) {
	if _, err := s.ownedFamily(ctx, userID, familyID); err != nil {
		return nil, err
	}

	if err := s.repo.RemoveFamilyMember(ctx, familyID, memberID); err != nil {
		return nil, fmt.Errorf("error removing family member: %w", err)
	}

	return s.repo.GetFamily(ctx, familyID)
}

// Invite operations

// CreateInvite starts the invitation lifecycle. Ownership is re-validated
// here: only the family owner may invite, whatever the client claims.
func (s *DefaultService) CreateInvite(
	ctx context.Context,
	userID string,
	familyID string,
	inviteeEmail string,
) (*models.FamilyInvite, error) {
	inviter, err := s.actingUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	family, err := s.ownedFamily(ctx, userID, familyID)
	if err != nil {
		return nil, err
	}

	inviteeEmail = strings.ToLower(strings.TrimSpace(inviteeEmail))
	if !strings.Contains(inviteeEmail, "@") {
		return nil, ErrInvalidEmail
	}

	invite := &models.FamilyInvite{
		FamilyID:     family.ID,
		InviterID:    userID,
		InviteeEmail: inviteeEmail,
		Status:       models.InviteStatusPending,
		FamilyName:   family.Name,
		InviterName:  inviter.Name,
	}

	if err := s.repo.CreateInvite(ctx, invite); err != nil {
		return nil, fmt.Errorf("error creating invite: %w", err)
	}

	// Queue the invitation notification if the invitee has an account
	invitee, err := s.repo.GetUserByEmail(ctx, inviteeEmail)
	if err != nil {
		s.logger.WithError(err).Warn("could not look up invitee for notification")
	} else if invitee != nil {
		s.notifyUser(ctx, invitee, notifyParams{
			Category: categoryFamilyInvitation,
			Type:     models.NotificationTypeInfo,
			Title:    "Family invitation",
			Body:     fmt.Sprintf("%s invited you to join %s", inviter.Name, family.Name),
			Metadata: map[string]interface{}{"invite_id": invite.ID, "family_id": family.ID},
		})
	}

	return invite, nil
}

func (s *DefaultService) ListInvites(ctx context.Context, userID string) ([]models.FamilyInvite, error) {
	user, err := s.actingUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	invites, err := s.repo.ListPendingInvites(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error listing invites: %w", err)
	}

	return invites, nil
}

// RespondToInvite resolves a pending invite. Acceptance runs as one atomic
// repository transaction so that concurrent responses cannot both succeed;
// rejection changes only the invite status. Either way the inviter is
// notified if their preferences permit it.
func (s *DefaultService) RespondToInvite(
	ctx context.Context,
	userID string,
	inviteID string,
	response string,
) (*models.FamilyInvite, error) {
	responder, err := s.actingUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetInvite(ctx, inviteID)
	if err != nil {
		return nil, fmt.Errorf("error getting invite: %w", err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if !strings.EqualFold(existing.InviteeEmail, responder.Email) {
		return nil, ErrForbidden
	}

	var invite *models.FamilyInvite
	switch response {
	case models.InviteStatusAccepted:
		member := &models.FamilyMember{
			Email: responder.Email,
			Name:  responder.Name,
		}
		invite, err = s.repo.AcceptInvite(ctx, inviteID, member)
	case models.InviteStatusRejected:
		invite, err = s.repo.RejectInvite(ctx, inviteID)
	default:
		return nil, fmt.Errorf("invalid invite response %q", response)
	}

	if err != nil {
		if errors.Is(err, repository.ErrInviteResolved) {
			return nil, ErrInviteAlreadyResolved
		}
		return nil, fmt.Errorf("error responding to invite: %w", err)
	}

	metrics.InviteResponsesTotal.WithLabelValues(invite.Status).Inc()

	s.notifyInviteResponse(ctx, invite, responder)

	return invite, nil
}

// DeleteInvite withdraws a pending invite; only the inviter may do this.
func (s *DefaultService) DeleteInvite(ctx context.Context, userID, inviteID string) error {
	invite, err := s.repo.GetInvite(ctx, inviteID)
	if err != nil {
		return fmt.Errorf("error getting invite: %w", err)
	}
	if invite == nil {
		return ErrNotFound
	}
	if invite.InviterID != userID {
		return ErrForbidden
	}

	if err := s.repo.DeleteInvite(ctx, inviteID); err != nil {
		if errors.Is(err, repository.ErrInviteResolved) {
			return ErrInviteAlreadyResolved
		}
		return fmt.Errorf("error deleting invite: %w", err)
	}

	return nil
}

func (s *DefaultService) notifyInviteResponse(
	ctx context.Context,
	invite *models.FamilyInvite,
	responder *models.User,
) {
	inviter, err := s.repo.GetUserByID(ctx, invite.InviterID)
	if err != nil {
		s.logger.WithError(err).Warn("could not look up inviter for notification")
		return
	}
	if inviter == nil {
		return
	}

	notifType := models.NotificationTypeSuccess
	verb := "accepted"
	if invite.Status == models.InviteStatusRejected {
		notifType = models.NotificationTypeInfo
		verb = "declined"
	}

	s.notifyUser(ctx, inviter, notifyParams{
		Category: categoryInvitationResponse,
		Type:     notifType,
		Title:    "Invitation " + verb,
		Body:     fmt.Sprintf("%s %s your invitation to %s", responder.Name, verb, invite.FamilyName),
		Metadata: map[string]interface{}{"family_id": invite.FamilyID},
	})
}

// ownedFamily loads a family and requires the caller to be its owner.
func (s *DefaultService) ownedFamily(ctx context.Context, userID, familyID string) (*models.Family, error) {
	family, err := s.repo.GetFamily(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("error getting family: %w", err)
	}
	if family == nil {
		return nil, ErrNotFound
	}
	if family.UserID != userID {
		return nil, ErrForbidden
	}

	return family, nil
}

// accessibleFamily loads a family and requires the caller to be its owner or
// one of its members.
func (s *DefaultService) accessibleFamily(ctx context.Context, user *models.User, familyID string) (*models.Family, error) {
	family, err := s.repo.GetFamily(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("error getting family: %w", err)
	}
	if family == nil {
		return nil, ErrNotFound
	}
	if !familyIncludes(family, user) {
		return nil, ErrForbidden
	}

	return family, nil
}

// familyIncludes reports whether the user is the family's owner or one of
// its members (matched by email).
func familyIncludes(family *models.Family, user *models.User) bool {
	if family.UserID == user.ID {
		return true
	}
	for _, m := range family.Members {
		if strings.EqualFold(m.Email, user.Email) {
			return true
		}
	}
	return false
}
