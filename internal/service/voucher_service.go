package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vouchervault/server/internal/ledger"
	"github.com/vouchervault/server/internal/metrics"
	"github.com/vouchervault/server/internal/models"
	"github.com/vouchervault/server/internal/repository"
)

// Voucher operations
func (s *DefaultService) CreateVoucher(
	ctx context.Context,
	userID string,
	req models.CreateVoucherRequest,
) (*models.Voucher, error) {
	user, err := s.actingUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := ledger.ValidateEdit(req.Title, req.Store, req.InitialAmount); err != nil {
		return nil, err
	}

	voucher := &models.Voucher{
		UserID:          userID,
		Title:           strings.TrimSpace(req.Title),
		Store:           strings.TrimSpace(req.Store),
		Type:            req.Type,
		InitialAmount:   req.InitialAmount,
		RemainingAmount: req.InitialAmount,
		Currency:        req.Currency,
		Code:            req.Code,
		Pin:             req.Pin,
		Website:         req.Website,
		Notes:           req.Notes,
		Category:        req.Category,
		ImageURL:        req.ImageURL,
		ImageURL2:       req.ImageURL2,
	}
	if req.ExpiryDate != nil {
		voucher.ExpiryDate = sql.NullString{String: *req.ExpiryDate, Valid: true}
	}
	if req.MinOrderValue != nil {
		voucher.MinOrderValue = sql.NullFloat64{Float64: *req.MinOrderValue, Valid: true}
	}
	if req.TripID != nil {
		voucher.TripID = sql.NullInt64{Int64: *req.TripID, Valid: true}
	}

	// Sharing requires a family the creator can access
	var family *models.Family
	if req.FamilyID != nil && *req.FamilyID != "" {
		family, err = s.accessibleFamily(ctx, user, *req.FamilyID)
		if err != nil {
			return nil, err
		}
		voucher.FamilyID = sql.NullString{String: family.ID, Valid: true}
	}

	if err := s.repo.CreateVoucher(ctx, voucher, req.CodePool); err != nil {
		return nil, fmt.Errorf("error creating voucher: %w", err)
	}

	if family != nil {
		s.notifyFamily(ctx, family, userID, notifyParams{
			Category: categoryVoucherNew,
			Type:     models.NotificationTypeInfo,
			Title:    "New shared voucher",
			Body:     fmt.Sprintf("%s added \"%s\" to %s", user.Name, voucher.Title, family.Name),
			Metadata: map[string]interface{}{"voucher_id": voucher.ID, "family_id": family.ID},
		})
	}

	return s.repo.GetVoucher(ctx, voucher.ID)
}

func (s *DefaultService) GetVoucher(ctx context.Context, userID, voucherID string) (*models.Voucher, error) {
	_, voucher, err := s.visibleVoucher(ctx, userID, voucherID)
	return voucher, err
}

func (s *DefaultService) ListVouchers(ctx context.Context, userID string) ([]models.Voucher, error) {
	user, err := s.actingUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	vouchers, err := s.repo.ListVouchers(ctx, userID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error listing vouchers: %w", err)
	}

	return vouchers, nil
}

// UpdateVoucher applies a free-form edit. The remaining amount may be set
// directly, even above the initial amount, and no history entry is written.
func (s *DefaultService) UpdateVoucher(
	ctx context.Context,
	userID string,
	voucherID string,
	req models.UpdateVoucherRequest,
) (*models.Voucher, error) {
	user, voucher, err := s.ownedVoucher(ctx, userID, voucherID)
	if err != nil {
		return nil, err
	}

	remaining := voucher.RemainingAmount
	if req.RemainingAmount != nil {
		remaining = *req.RemainingAmount
	}

	if err := ledger.ValidateEdit(req.Title, req.Store, remaining); err != nil {
		return nil, err
	}

	voucher.Title = strings.TrimSpace(req.Title)
	voucher.Store = strings.TrimSpace(req.Store)
	voucher.RemainingAmount = remaining
	voucher.Currency = req.Currency
	voucher.Code = req.Code
	voucher.Pin = req.Pin
	voucher.Website = req.Website
	voucher.Notes = req.Notes
	voucher.Category = req.Category
	voucher.ImageURL = req.ImageURL
	voucher.ImageURL2 = req.ImageURL2
	if req.Type != "" {
		voucher.Type = req.Type
	}

	voucher.ExpiryDate = sql.NullString{}
	if req.ExpiryDate != nil {
		voucher.ExpiryDate = sql.NullString{String: *req.ExpiryDate, Valid: true}
	}
	voucher.MinOrderValue = sql.NullFloat64{}
	if req.MinOrderValue != nil {
		voucher.MinOrderValue = sql.NullFloat64{Float64: *req.MinOrderValue, Valid: true}
	}
	voucher.TripID = sql.NullInt64{}
	if req.TripID != nil {
		voucher.TripID = sql.NullInt64{Int64: *req.TripID, Valid: true}
	}

	voucher.FamilyID = sql.NullString{}
	if req.FamilyID != nil && *req.FamilyID != "" {
		family, err := s.accessibleFamily(ctx, user, *req.FamilyID)
		if err != nil {
			return nil, err
		}
		voucher.FamilyID = sql.NullString{String: family.ID, Valid: true}
	}

	if err := s.repo.UpdateVoucher(ctx, voucher); err != nil {
		return nil, fmt.Errorf("error updating voucher: %w", err)
	}

	return voucher, nil
}

func (s *DefaultService) DeleteVoucher(ctx context.Context, userID, voucherID string) error {
	_, _, err := s.ownedVoucher(ctx, userID, voucherID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteVoucher(ctx, voucherID); err != nil {
		return fmt.Errorf("error deleting voucher: %w", err)
	}

	return nil
}

// Redeem applies the strict redemption policy: over-redemption is rejected.
// Code-pool vouchers must name the pool code to consume.
func (s *DefaultService) Redeem(
	ctx context.Context,
	userID string,
	voucherID string,
	req models.RedeemRequest,
) (*models.Voucher, *models.Redemption, error) {
	user, voucher, err := s.visibleVoucher(ctx, userID, voucherID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()

	var outcome *ledger.Outcome
	var mode string
	if ledger.HasCodePool(voucher) {
		outcome, err = ledger.RedeemCode(voucher, req.Code, user.Name, now)
		mode = metrics.ModeCode
	} else {
		outcome, err = ledger.RedeemStrict(voucher, req.Amount, user.Name, now)
		mode = metrics.ModeStrict
	}
	if err != nil {
		return nil, nil, err
	}

	return s.applyOutcome(ctx, voucher, outcome, mode)
}

// QuickRedeem applies the dashboard's clamped policy: the balance floors at
// zero instead of rejecting over-redemption. Pool-backed vouchers cannot be
// quick-redeemed; consuming a code requires selecting one.
func (s *DefaultService) QuickRedeem(
	ctx context.Context,
	userID string,
	voucherID string,
	req models.RedeemRequest,
) (*models.Voucher, *models.Redemption, error) {
	user, voucher, err := s.visibleVoucher(ctx, userID, voucherID)
	if err != nil {
		return nil, nil, err
	}

	if ledger.HasCodePool(voucher) {
		return nil, nil, ledger.ErrNoCodeSelected
	}

	outcome, err := ledger.RedeemClamped(voucher, req.Amount, user.Name, time.Now().UTC())
	if err != nil {
		return nil, nil, err
	}

	return s.applyOutcome(ctx, voucher, outcome, metrics.ModeClamped)
}

func (s *DefaultService) applyOutcome(
	ctx context.Context,
	voucher *models.Voucher,
	outcome *ledger.Outcome,
	mode string,
) (*models.Voucher, *models.Redemption, error) {
	err := s.repo.ApplyRedemption(ctx, voucher.ID, outcome.NewRemaining, &outcome.Redemption)
	if err != nil {
		if errors.Is(err, repository.ErrCodeAlreadyUsed) {
			// Lost the race for the code; nothing was written
			return nil, nil, ledger.ErrNoCodeSelected
		}
		return nil, nil, fmt.Errorf("error applying redemption: %w", err)
	}

	metrics.RedemptionsTotal.WithLabelValues(mode).Inc()

	updated, err := s.repo.GetVoucher(ctx, voucher.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("error reloading voucher: %w", err)
	}

	return updated, &outcome.Redemption, nil
}

// TransferVoucher reassigns a voucher to the recipient account. The whole
// reassignment happens server-side in one transaction; on failure nothing is
// mutated and the error is surfaced as a transfer failure.
func (s *DefaultService) TransferVoucher(ctx context.Context, userID, voucherID, recipientEmail string) error {
	user, voucher, err := s.ownedVoucher(ctx, userID, voucherID)
	if err != nil {
		return err
	}

	recipientEmail = strings.TrimSpace(recipientEmail)
	if !strings.Contains(recipientEmail, "@") {
		return ErrInvalidEmail
	}

	recipient, err := s.repo.TransferVoucher(ctx, voucherID, recipientEmail)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	s.notifyUser(ctx, recipient, notifyParams{
		Category: categoryVoucherTransfer,
		Type:     models.NotificationTypeSuccess,
		Title:    "Voucher received",
		Body:     fmt.Sprintf("%s transferred \"%s\" to you", user.Name, voucher.Title),
		Metadata: map[string]interface{}{"voucher_id": voucher.ID},
	})

	return nil
}

// ownedVoucher loads a voucher and requires the caller to be its owner.
func (s *DefaultService) ownedVoucher(ctx context.Context, userID, voucherID string) (*models.User, *models.Voucher, error) {
	user, err := s.actingUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	voucher, err := s.repo.GetVoucher(ctx, voucherID)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting voucher: %w", err)
	}
	if voucher == nil {
		return nil, nil, ErrNotFound
	}
	if voucher.UserID != userID {
		return nil, nil, ErrForbidden
	}

	return user, voucher, nil
}

// visibleVoucher loads a voucher and requires the caller to be its owner or a
// member of the family it is shared into. Family sharing grants redemption
// but never ownership.
func (s *DefaultService) visibleVoucher(ctx context.Context, userID, voucherID string) (*models.User, *models.Voucher, error) {
	user, err := s.actingUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	voucher, err := s.repo.GetVoucher(ctx, voucherID)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting voucher: %w", err)
	}
	if voucher == nil {
		return nil, nil, ErrNotFound
	}

	if voucher.UserID == userID {
		return user, voucher, nil
	}

	if voucher.FamilyID.Valid {
		family, err := s.repo.GetFamily(ctx, voucher.FamilyID.String)
		if err != nil {
			return nil, nil, fmt.Errorf("error getting family: %w", err)
		}
		if family != nil && familyIncludes(family, user) {
			return user, voucher, nil
		}
	}

	return nil, nil, ErrForbidden
}
