package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vouchervault/server/internal/api/testutils"
	"github.com/vouchervault/server/internal/models"
)

// TestConcurrentInviteAcceptance fires many simultaneous responses at one
// pending invite. The row lock taken during acceptance must let exactly one
// of them through; everyone else sees the invite as already resolved.
func TestConcurrentInviteAcceptance(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	_, inviteeJWT := testutils.CreateTestUser(
		t, testCtx.Repository, string(testCtx.JWTSecret), "invitee@example.com", "Invitee")

	family := createTestFamily(t, testCtx, "Concurrent Household")
	invite := createTestInvite(t, testCtx, family.ID, "invitee@example.com")

	const numGoroutines = 10

	// Channel to collect response codes
	codesChan := make(chan int, numGoroutines)
	var wg sync.WaitGroup

	// Start multiple goroutines responding to the same invite simultaneously
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := testutils.PerformRequest(
				testCtx.Router,
				http.MethodPost,
				fmt.Sprintf("/api/invites/%s/respond", invite.ID),
				models.RespondInviteRequest{Response: models.InviteStatusAccepted},
				testutils.AuthHeaders(inviteeJWT),
			)

			codesChan <- w.Code
		}()
	}

	// Wait for all goroutines to complete
	wg.Wait()
	close(codesChan)

	var accepted, conflicted, other int
	for code := range codesChan {
		switch code {
		case http.StatusOK:
			accepted++
		case http.StatusConflict:
			conflicted++
		default:
			other++
		}
	}

	assert.Equal(t, 1, accepted, "Exactly one response should win")
	assert.Equal(t, numGoroutines-1, conflicted, "All other responses should conflict")
	assert.Equal(t, 0, other, "No response should fail in any other way")

	// Membership reflects a single acceptance
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/families",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var listResp models.FamilyListResponse
	err := json.Unmarshal(w.Body.Bytes(), &listResp)
	assert.NoError(t, err)
	assert.Len(t, listResp.Families, 1)
	assert.Equal(t, 2, listResp.Families[0].MemberCount)
	assert.Len(t, listResp.Families[0].Members, 1)
}

// TestConcurrentCodeRedemption races several redemptions of the same pool
// code. The used-flag guard inside the redemption transaction must let only
// one of them consume it.
func TestConcurrentCodeRedemption(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	voucher := createTestVoucher(t, testCtx, models.CreateVoucherRequest{
		Title:         "Coffee card",
		Store:         "Starbucks",
		Type:          models.VoucherTypeQuantity,
		InitialAmount: 5,
		CodePool:      []string{"A", "B", "C", "D", "E"},
	})

	const numGoroutines = 8

	codesChan := make(chan int, numGoroutines)
	var wg sync.WaitGroup

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := testutils.PerformRequest(
				testCtx.Router,
				http.MethodPost,
				fmt.Sprintf("/api/vouchers/%s/redeem", voucher.ID),
				models.RedeemRequest{Code: "A"},
				testutils.AuthHeaders(testCtx.TestUserJWT),
			)

			codesChan <- w.Code
		}()
	}

	wg.Wait()
	close(codesChan)

	var succeeded int
	for code := range codesChan {
		if code == http.StatusOK {
			succeeded++
		}
	}

	assert.Equal(t, 1, succeeded, "Only one redemption should consume the code")

	// The pool shows exactly one used code and one history entry
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

	var used int
	for _, item := range resp.Voucher.CodePool {
		if item.Used {
			used++
		}
	}
	assert.Equal(t, 1, used)
	assert.Len(t, resp.Voucher.History, 1)
	assert.Equal(t, 4.0, resp.Voucher.RemainingAmount)
}
