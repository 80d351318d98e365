package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vouchervault/server/internal/api/testutils"
	"github.com/vouchervault/server/internal/models"
)

func createTestVoucher(t *testing.T, testCtx *testutils.TestContext, req models.CreateVoucherRequest) *models.Voucher {
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/vouchers",
		req,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.VoucherResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.NotNil(t, resp.Voucher)

	return resp.Voucher
}

func TestCreateVoucher(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	t.Run("ValueVoucher", func(t *testing.T) {
		voucher := createTestVoucher(t, testCtx, models.CreateVoucherRequest{
			Title:         "Birthday gift card",
			Store:         "Globus",
			Type:          models.VoucherTypeValue,
			InitialAmount: 100,
			Currency:      "CHF",
		})

		assert.NotEmpty(t, voucher.ID)
		assert.Equal(t, testCtx.TestUserID, voucher.UserID)
		assert.Equal(t, 100.0, voucher.InitialAmount)
		assert.Equal(t, 100.0, voucher.RemainingAmount)
		assert.Empty(t, voucher.History)
	})

	t.Run("QuantityVoucherWithCodePool", func(t *testing.T) {
		voucher := createTestVoucher(t, testCtx, models.CreateVoucherRequest{
			Title:         "Coffee card",
			Store:         "Starbucks",
			Type:          models.VoucherTypeQuantity,
			InitialAmount: 3,
			CodePool:      []string{"CODE-1", "CODE-2", "CODE-3"},
		})

		assert.Equal(t, 3.0, voucher.RemainingAmount)
		assert.Len(t, voucher.CodePool, 3)
		for _, item := range voucher.CodePool {
			assert.False(t, item.Used)
		}
	})

	t.Run("MissingTitle", func(t *testing.T) {
		w := testutils.PerformRequest(
			testCtx.Router,
			http.MethodPost,
			"/api/vouchers",
			models.CreateVoucherRequest{
				Store:         "Globus",
				Type:          models.VoucherTypeValue,
				InitialAmount: 100,
			},
			testutils.AuthHeaders(testCtx.TestUserJWT),
		)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("BlankTitle", func(t *testing.T) {
		w := testutils.PerformRequest(
			testCtx.Router,
			http.MethodPost,
			"/api/vouchers",
			models.CreateVoucherRequest{
				Title:         "   ",
				Store:         "Globus",
				Type:          models.VoucherTypeValue,
				InitialAmount: 100,
			},
			testutils.AuthHeaders(testCtx.TestUserJWT),
		)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var errResp models.ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &errResp)
		assert.NoError(t, err)
		assert.Equal(t, "MISSING_REQUIRED_FIELD", errResp.Code)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		w := testutils.PerformRequest(
			testCtx.Router,
			http.MethodPost,
			"/api/vouchers",
			models.CreateVoucherRequest{
				Title:         "Gift card",
				Store:         "Globus",
				Type:          models.VoucherTypeValue,
				InitialAmount: 100,
			},
			nil,
		)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestListVouchers(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Empty list comes back as an empty array, not null
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/vouchers",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var listResp models.VoucherListResponse
	err := json.Unmarshal(w.Body.Bytes(), &listResp)
	assert.NoError(t, err)
	assert.NotNil(t, listResp.Vouchers)
	assert.Len(t, listResp.Vouchers, 0)

	createTestVoucher(t, testCtx, models.CreateVoucherRequest{
		Title:         "Gift card",
		Store:         "Globus",
		Type:          models.VoucherTypeValue,
		InitialAmount: 50,
	})
	createTestVoucher(t, testCtx, models.CreateVoucherRequest{
		Title:         "Coffee card",
		Store:         "Starbucks",
		Type:          models.VoucherTypeQuantity,
		InitialAmount: 10,
	})

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/vouchers",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &listResp)
	assert.NoError(t, err)
	assert.Len(t, listResp.Vouchers, 2)

	// Another user's list stays empty
	_, otherJWT := testutils.CreateTestUser(
		t, testCtx.Repository, string(testCtx.JWTSecret), "other@example.com", "Other User")

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/vouchers",
		nil,
		testutils.AuthHeaders(otherJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &listResp)
	assert.NoError(t, err)
	assert.Len(t, listResp.Vouchers, 0)
}

func TestGetVoucher(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	voucher := createTestVoucher(t, testCtx, models.CreateVoucherRequest{
		Title:         "Gift card",
		Store:         "Globus",
		Type:          models.VoucherTypeValue,
		InitialAmount: 50,
	})

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/vouchers/%s", voucher.ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.VoucherResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, voucher.ID, resp.Voucher.ID)

	// Unknown id
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/vouchers/00000000-0000-0000-0000-000000000000",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusNotFound, w.Code)

	// A stranger cannot read it
	_, strangerJWT := testutils.CreateTestUser(
		t, testCtx.Repository, string(testCtx.JWTSecret), "stranger@example.com", "Stranger")

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/vouchers/%s", voucher.ID),
		nil,
		testutils.AuthHeaders(strangerJWT),
	)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateVoucher(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	voucher := createTestVoucher(t, testCtx, models.CreateVoucherRequest{
		Title:         "Gift card",
		Store:         "Globus",
		Type:          models.VoucherTypeValue,
		InitialAmount: 50,
	})

	t.Run("EditFields", func(t *testing.T) {
		newRemaining := 75.0
		w := testutils.PerformRequest(
			testCtx.Router,
			http.MethodPut,
			fmt.Sprintf("/api/vouchers/%s", voucher.ID),
			models.UpdateVoucherRequest{
				Title:           "Gift card (topped up)",
				Store:           "Globus",
				RemainingAmount: &newRemaining,
				Notes:           "Top-up in March",
			},
			testutils.AuthHeaders(testCtx.TestUserJWT),
		)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp models.VoucherResponse
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, "Gift card (topped up)", resp.Voucher.Title)
		// Edits may push remaining above the initial amount
		assert.Equal(t, 75.0, resp.Voucher.RemainingAmount)
		assert.Equal(t, "Top-up in March", resp.Voucher.Notes)
	})

	t.Run("BlankStoreRejected", func(t *testing.T) {
		w := testutils.PerformRequest(
			testCtx.Router,
			http.MethodPut,
			fmt.Sprintf("/api/vouchers/%s", voucher.ID),
			models.UpdateVoucherRequest{
				Title: "Gift card",
				Store: "  ",
			},
			testutils.AuthHeaders(testCtx.TestUserJWT),
		)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NegativeRemainingRejected", func(t *testing.T) {
		negative := -1.0
		w := testutils.PerformRequest(
			testCtx.Router,
			http.MethodPut,
			fmt.Sprintf("/api/vouchers/%s", voucher.ID),
			models.UpdateVoucherRequest{
				Title:           "Gift card",
				Store:           "Globus",
				RemainingAmount: &negative,
			},
			testutils.AuthHeaders(testCtx.TestUserJWT),
		)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("OnlyOwnerMayEdit", func(t *testing.T) {
		_, strangerJWT := testutils.CreateTestUser(
			t, testCtx.Repository, string(testCtx.JWTSecret), "editor@example.com", "Editor")

		w := testutils.PerformRequest(
			testCtx.Router,
			http.MethodPut,
			fmt.Sprintf("/api/vouchers/%s", voucher.ID),
			models.UpdateVoucherRequest{
				Title: "Hijacked",
				Store: "Globus",
			},
			testutils.AuthHeaders(strangerJWT),
		)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestFamilySharedVoucherVisibility(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	_, memberJWT := testutils.CreateTestUser(
		t, testCtx.Repository, string(testCtx.JWTSecret), "member@example.com", "Member")

	family := createTestFamily(t, testCtx, "Smith Household")
	invite := createTestInvite(t, testCtx, family.ID, "member@example.com")

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/invites/%s/respond", invite.ID),
		models.RespondInviteRequest{Response: models.InviteStatusAccepted},
		testutils.AuthHeaders(memberJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	voucher := createTestVoucher(t, testCtx, models.CreateVoucherRequest{
		Title:         "Shared gift card",
		Store:         "Globus",
		Type:          models.VoucherTypeValue,
		InitialAmount: 100,
		FamilyID:      &family.ID,
	})

	// The member sees the shared voucher in their list
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/vouchers",
		nil,
		testutils.AuthHeaders(memberJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var listResp models.VoucherListResponse
	err := json.Unmarshal(w.Body.Bytes(), &listResp)
	assert.NoError(t, err)
	assert.Len(t, listResp.Vouchers, 1)
	assert.Equal(t, voucher.ID, listResp.Vouchers[0].ID)

	// And can open it directly
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/vouchers/%s", voucher.ID),
		nil,
		testutils.AuthHeaders(memberJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	// Members may redeem; the record names the actual redeemer
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/vouchers/%s/redeem", voucher.ID),
		models.RedeemRequest{Amount: 10},
		testutils.AuthHeaders(memberJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var redeemResp models.RedeemResponse
	err = json.Unmarshal(w.Body.Bytes(), &redeemResp)
	assert.NoError(t, err)
	assert.Equal(t, 90.0, redeemResp.Voucher.RemainingAmount)
	assert.Equal(t, "Member", redeemResp.Redemption.UserName)

	// Sharing grants reading and redeeming, not editing
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		fmt.Sprintf("/api/vouchers/%s", voucher.ID),
		models.UpdateVoucherRequest{
			Title: "Hijacked",
			Store: "Globus",
		},
		testutils.AuthHeaders(memberJWT),
	)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteVoucher(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	voucher := createTestVoucher(t, testCtx, models.CreateVoucherRequest{
		Title:         "Gift card",
		Store:         "Globus",
		Type:          models.VoucherTypeValue,
		InitialAmount: 50,
	})

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodDelete,
		fmt.Sprintf("/api/vouchers/%s", voucher.ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	// Gone afterwards
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/vouchers/%s", voucher.ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
