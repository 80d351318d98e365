// Package ledger holds the balance rules for vouchers: how a redemption
// changes the remaining amount, which pool codes are selectable, and what
// makes an edit valid. It never touches storage; callers persist the
// outcome through the repository.
package ledger

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vouchervault/server/internal/models"
)

var (
	// ErrInvalidAmount means the redemption amount is not a positive number.
	ErrInvalidAmount = errors.New("redemption amount must be a positive number")
	// ErrAmountExceedsBalance means a strict redemption asked for more than remains.
	ErrAmountExceedsBalance = errors.New("redemption amount exceeds remaining balance")
	// ErrNoCodeSelected means no unused pool code matched the request.
	ErrNoCodeSelected = errors.New("no unused code selected")
	// ErrMissingRequiredField means title or store is blank after trimming.
	ErrMissingRequiredField = errors.New("title and store are required")
)

// fallbackUserName is recorded on redemptions when the acting user has no
// display name.
const fallbackUserName = "User"

// Outcome describes the state change produced by one successful redemption:
// the new remaining amount and the single history entry to append.
// For code-pool redemptions CodeUsed names the consumed pool code.
type Outcome struct {
	NewRemaining float64
	Redemption   models.Redemption
	CodeUsed     string
}

// RedeemStrict applies an amount-mode redemption that rejects over-redemption
// outright. This is the full redemption flow's policy.
func RedeemStrict(v *models.Voucher, amount float64, actor string, now time.Time) (*Outcome, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if amount > v.RemainingAmount {
		return nil, ErrAmountExceedsBalance
	}
	return amountOutcome(v, amount, actor, now), nil
}

// RedeemClamped applies an amount-mode redemption that floors the balance at
// zero instead of rejecting over-redemption. This is the quick-deduct policy.
// The recorded redemption carries the requested amount, not the clamped delta.
func RedeemClamped(v *models.Voucher, amount float64, actor string, now time.Time) (*Outcome, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return amountOutcome(v, amount, actor, now), nil
}

func amountOutcome(v *models.Voucher, amount float64, actor string, now time.Time) *Outcome {
	remaining := v.RemainingAmount - amount
	if remaining < 0 {
		remaining = 0
	}
	return &Outcome{
		NewRemaining: remaining,
		Redemption:   newRedemption(v.ID, amount, actor, now),
	}
}

// RedeemCode consumes one unused code from the voucher's pool. The selectable
// set is exactly the codes with used=false; anything else fails with
// ErrNoCodeSelected. Quantity semantics: the balance drops by exactly 1.
func RedeemCode(v *models.Voucher, code string, actor string, now time.Time) (*Outcome, error) {
	if code == "" {
		return nil, ErrNoCodeSelected
	}
	selectable := false
	for _, item := range v.CodePool {
		if item.Code == code && !item.Used {
			selectable = true
			break
		}
	}
	if !selectable {
		return nil, ErrNoCodeSelected
	}

	remaining := v.RemainingAmount - 1
	if remaining < 0 {
		remaining = 0
	}

	r := newRedemption(v.ID, 1, actor, now)
	r.CodeUsed = sql.NullString{String: code, Valid: true}

	return &Outcome{
		NewRemaining: remaining,
		Redemption:   r,
		CodeUsed:     code,
	}, nil
}

// HasCodePool reports whether redemptions against this voucher must go
// through the code pool.
func HasCodePool(v *models.Voucher) bool {
	return len(v.CodePool) > 0
}

// UnusedCodes returns the currently selectable pool codes.
func UnusedCodes(v *models.Voucher) []models.CodePoolItem {
	var unused []models.CodePoolItem
	for _, item := range v.CodePool {
		if !item.Used {
			unused = append(unused, item)
		}
	}
	return unused
}

// ValidateEdit checks the invariants a free-form edit must keep: non-blank
// title and store, non-negative remaining amount. Edits may otherwise set the
// remaining amount to any value, including above the initial amount.
func ValidateEdit(title, store string, remaining float64) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(store) == "" {
		return ErrMissingRequiredField
	}
	if remaining < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Progress returns the remaining share of the voucher in percent, clamped to
// [0, 100].
func Progress(v *models.Voucher) float64 {
	if v.InitialAmount <= 0 {
		return 0
	}
	p := v.RemainingAmount / v.InitialAmount * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Exhausted reports whether the voucher has no balance left.
func Exhausted(v *models.Voucher) bool {
	return v.RemainingAmount <= 0
}

func newRedemption(voucherID string, amount float64, actor string, now time.Time) models.Redemption {
	if actor == "" {
		actor = fallbackUserName
	}
	return models.Redemption{
		ID:        uuid.New().String(),
		VoucherID: voucherID,
		Amount:    amount,
		Timestamp: now.UTC(),
		UserName:  actor,
	}
}
