package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vouchervault/server/internal/models"
)

func valueVoucher(initial, remaining float64) *models.Voucher {
	return &models.Voucher{
		ID:              "voucher-1",
		Type:            models.VoucherTypeValue,
		InitialAmount:   initial,
		RemainingAmount: remaining,
		Currency:        "CHF",
	}
}

func poolVoucher(codes ...models.CodePoolItem) *models.Voucher {
	return &models.Voucher{
		ID:              "voucher-2",
		Type:            models.VoucherTypeQuantity,
		InitialAmount:   float64(len(codes)),
		RemainingAmount: float64(len(codes)),
		CodePool:        codes,
	}
}

func TestRedeemStrict(t *testing.T) {
	now := time.Now()

	t.Run("SequentialRedemptions", func(t *testing.T) {
		v := valueVoucher(100, 100)

		outcome, err := RedeemStrict(v, 30, "Alice", now)
		assert.NoError(t, err)
		assert.Equal(t, 70.0, outcome.NewRemaining)
		assert.Equal(t, 30.0, outcome.Redemption.Amount)
		assert.Equal(t, "Alice", outcome.Redemption.UserName)
		assert.NotEmpty(t, outcome.Redemption.ID)

		v.RemainingAmount = outcome.NewRemaining

		outcome, err = RedeemStrict(v, 50, "Alice", now)
		assert.NoError(t, err)
		assert.Equal(t, 20.0, outcome.NewRemaining)
		assert.Equal(t, 50.0, outcome.Redemption.Amount)
	})

	t.Run("RejectsNonPositiveAmount", func(t *testing.T) {
		v := valueVoucher(100, 100)

		_, err := RedeemStrict(v, 0, "Alice", now)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = RedeemStrict(v, -5, "Alice", now)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		// Voucher untouched
		assert.Equal(t, 100.0, v.RemainingAmount)
	})

	t.Run("RejectsOverRedemption", func(t *testing.T) {
		v := valueVoucher(100, 20)

		_, err := RedeemStrict(v, 20.01, "Alice", now)
		assert.ErrorIs(t, err, ErrAmountExceedsBalance)

		// Exactly the remaining balance is allowed
		outcome, err := RedeemStrict(v, 20, "Alice", now)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, outcome.NewRemaining)
	})

	t.Run("FallbackActorName", func(t *testing.T) {
		outcome, err := RedeemStrict(valueVoucher(10, 10), 1, "", now)
		assert.NoError(t, err)
		assert.Equal(t, "User", outcome.Redemption.UserName)
	})
}

func TestRedeemClamped(t *testing.T) {
	now := time.Now()

	t.Run("ClampsAtZero", func(t *testing.T) {
		v := valueVoucher(100, 20)

		outcome, err := RedeemClamped(v, 50, "Bob", now)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, outcome.NewRemaining)
		// The record keeps the requested amount
		assert.Equal(t, 50.0, outcome.Redemption.Amount)
	})

	t.Run("RejectsNonPositiveAmount", func(t *testing.T) {
		_, err := RedeemClamped(valueVoucher(100, 100), 0, "Bob", now)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("NormalDeduction", func(t *testing.T) {
		outcome, err := RedeemClamped(valueVoucher(100, 100), 5, "Bob", now)
		assert.NoError(t, err)
		assert.Equal(t, 95.0, outcome.NewRemaining)
	})
}

func TestRedeemCode(t *testing.T) {
	now := time.Now()

	t.Run("ConsumesUnusedCode", func(t *testing.T) {
		v := poolVoucher(
			models.CodePoolItem{Code: "A"},
			models.CodePoolItem{Code: "B"},
		)

		outcome, err := RedeemCode(v, "A", "Carol", now)
		assert.NoError(t, err)
		assert.Equal(t, 1.0, outcome.NewRemaining)
		assert.Equal(t, "A", outcome.CodeUsed)
		assert.Equal(t, 1.0, outcome.Redemption.Amount)
		assert.True(t, outcome.Redemption.CodeUsed.Valid)
		assert.Equal(t, "A", outcome.Redemption.CodeUsed.String)
	})

	t.Run("UsedCodeIsNotSelectable", func(t *testing.T) {
		v := poolVoucher(
			models.CodePoolItem{Code: "A", Used: true},
			models.CodePoolItem{Code: "B"},
		)
		v.RemainingAmount = 1

		_, err := RedeemCode(v, "A", "Carol", now)
		assert.ErrorIs(t, err, ErrNoCodeSelected)
	})

	t.Run("UnknownCode", func(t *testing.T) {
		v := poolVoucher(models.CodePoolItem{Code: "A"})

		_, err := RedeemCode(v, "X", "Carol", now)
		assert.ErrorIs(t, err, ErrNoCodeSelected)
	})

	t.Run("EmptyCode", func(t *testing.T) {
		v := poolVoucher(models.CodePoolItem{Code: "A"})

		_, err := RedeemCode(v, "", "Carol", now)
		assert.ErrorIs(t, err, ErrNoCodeSelected)
	})

	t.Run("FloorsAtZero", func(t *testing.T) {
		v := poolVoucher(models.CodePoolItem{Code: "A"})
		v.RemainingAmount = 0

		outcome, err := RedeemCode(v, "A", "Carol", now)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, outcome.NewRemaining)
	})
}

func TestUnusedCodes(t *testing.T) {
	v := poolVoucher(
		models.CodePoolItem{Code: "A", Used: true},
		models.CodePoolItem{Code: "B"},
		models.CodePoolItem{Code: "C"},
	)

	unused := UnusedCodes(v)
	assert.Len(t, unused, 2)
	assert.Equal(t, "B", unused[0].Code)
	assert.Equal(t, "C", unused[1].Code)

	assert.True(t, HasCodePool(v))
	assert.False(t, HasCodePool(valueVoucher(10, 10)))
}

func TestValidateEdit(t *testing.T) {
	assert.NoError(t, ValidateEdit("Coffee card", "Starbucks", 0))

	assert.ErrorIs(t, ValidateEdit("", "Starbucks", 10), ErrMissingRequiredField)
	assert.ErrorIs(t, ValidateEdit("   ", "Starbucks", 10), ErrMissingRequiredField)
	assert.ErrorIs(t, ValidateEdit("Coffee card", " \t", 10), ErrMissingRequiredField)
	assert.ErrorIs(t, ValidateEdit("Coffee card", "Starbucks", -1), ErrInvalidAmount)

	// Edits may raise remaining above the initial amount
	assert.NoError(t, ValidateEdit("Coffee card", "Starbucks", 10000))
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 50.0, Progress(valueVoucher(100, 50)))
	assert.Equal(t, 0.0, Progress(valueVoucher(100, 0)))
	assert.Equal(t, 100.0, Progress(valueVoucher(100, 150)))
	assert.Equal(t, 0.0, Progress(valueVoucher(0, 0)))
}

func TestExhausted(t *testing.T) {
	assert.False(t, Exhausted(valueVoucher(100, 0.01)))
	assert.True(t, Exhausted(valueVoucher(100, 0)))
}

func TestRedemptionIDsAreUnique(t *testing.T) {
	now := time.Now()
	v := valueVoucher(1000, 1000)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		outcome, err := RedeemStrict(v, 1, "Alice", now)
		assert.NoError(t, err)
		assert.False(t, seen[outcome.Redemption.ID], "redemption id reused")
		seen[outcome.Redemption.ID] = true
	}
}
