package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// VoucherType classifies how a voucher tracks its balance.
type VoucherType string

const (
	// VoucherTypeValue tracks a currency amount.
	VoucherTypeValue VoucherType = "VALUE"
	// VoucherTypeQuantity tracks a count of discrete uses.
	VoucherTypeQuantity VoucherType = "QUANTITY"
)

// Invite status values. Accepted and rejected are terminal.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusRejected = "rejected"
)

// Notification display types.
const (
	NotificationTypeInfo    = "info"
	NotificationTypeSuccess = "success"
	NotificationTypeWarning = "warning"
)

// NotificationPreferences holds the per-category opt-in flags for a user.
// Stored as a JSONB column on users.
type NotificationPreferences struct {
	VoucherExpiry      bool `json:"voucher_expiry"`
	FamilyInvitation   bool `json:"family_invitation"`
	InvitationResponse bool `json:"invitation_response"`
	VoucherNew         bool `json:"voucher_new"`
	VoucherTransfer    bool `json:"voucher_transfer"`
}

// DefaultNotificationPreferences returns the preferences assigned at signup:
// every category enabled.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		VoucherExpiry:      true,
		FamilyInvitation:   true,
		InvitationResponse: true,
		VoucherNew:         true,
		VoucherTransfer:    true,
	}
}

// Value implements driver.Valuer so preferences can be written as JSONB.
func (p NotificationPreferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for reading the JSONB column back.
func (p *NotificationPreferences) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = DefaultNotificationPreferences()
		return nil
	default:
		return fmt.Errorf("unsupported type %T for notification preferences", src)
	}
}

// User represents a user profile in the system
type User struct {
	ID                   string                  `db:"id" json:"id"`
	Email                string                  `db:"email" json:"email"`
	Name                 string                  `db:"name" json:"name"`
	Password             string                  `db:"password" json:"-"` // Password hash, not returned in JSON
	NotificationsEnabled bool                    `db:"notifications_enabled" json:"notificationsEnabled"`
	Preferences          NotificationPreferences `db:"notification_preferences" json:"notificationPreferences"`
	PushToken            string                  `db:"push_token" json:"pushToken,omitempty"`
	Language             string                  `db:"language" json:"language,omitempty"`
	DefaultCurrency      string                  `db:"default_currency" json:"defaultCurrency,omitempty"`
	CreatedAt            time.Time               `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time               `db:"updated_at" json:"updatedAt"`
}

// Voucher represents one tracked coupon owned by a user and optionally
// shared into a family.
type Voucher struct {
	ID              string          `db:"id" json:"id"`
	UserID          string          `db:"user_id" json:"userId"`
	Title           string          `db:"title" json:"title"`
	Store           string          `db:"store" json:"store"`
	Type            VoucherType     `db:"type" json:"type"`
	InitialAmount   float64         `db:"initial_amount" json:"initialAmount"`
	RemainingAmount float64         `db:"remaining_amount" json:"remainingAmount"`
	Currency        string          `db:"currency" json:"currency,omitempty"`
	ExpiryDate      sql.NullString  `db:"expiry_date" json:"expiryDate,omitempty"`
	FamilyID        sql.NullString  `db:"family_id" json:"familyId,omitempty"`
	Code            string          `db:"code" json:"code,omitempty"`
	Pin             string          `db:"pin" json:"pin,omitempty"`
	Website         string          `db:"website" json:"website,omitempty"`
	MinOrderValue   sql.NullFloat64 `db:"min_order_value" json:"minOrderValue,omitempty"`
	Notes           string          `db:"notes" json:"notes,omitempty"`
	Category        string          `db:"category" json:"category,omitempty"`
	TripID          sql.NullInt64   `db:"trip_id" json:"tripId,omitempty"`
	ImageURL        string          `db:"image_url" json:"imageUrl,omitempty"`
	ImageURL2       string          `db:"image_url_2" json:"imageUrl2,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`

	// Loaded separately; not columns on the vouchers table.
	History  []Redemption   `db:"-" json:"history,omitempty"`
	CodePool []CodePoolItem `db:"-" json:"codePool,omitempty"`
}

// Redemption is an immutable record of one balance-decrementing event.
// Rows are append-only; seq gives a stable newest-first ordering even when
// two redemptions land within the same timestamp tick.
type Redemption struct {
	ID        string         `db:"id" json:"id"`
	VoucherID string         `db:"voucher_id" json:"voucherId"`
	Seq       int64          `db:"seq" json:"-"`
	Amount    float64        `db:"amount" json:"amount"`
	Timestamp time.Time      `db:"timestamp" json:"timestamp"`
	UserName  string         `db:"user_name" json:"userName"`
	CodeUsed  sql.NullString `db:"code_used" json:"codeUsed,omitempty"`
}

// CodePoolItem is one discrete code within a quantity voucher's code pool.
// Once used it is never unmarked by normal flow.
type CodePoolItem struct {
	VoucherID string         `db:"voucher_id" json:"-"`
	Code      string         `db:"code" json:"code"`
	Used      bool           `db:"used" json:"used"`
	UsedAt    sql.NullTime   `db:"used_at" json:"usedAt,omitempty"`
	UsedBy    sql.NullString `db:"used_by" json:"usedBy,omitempty"`
}

// Family is a named sharing group. The owner is implicit and never stored in
// the members list; MemberCount is maintained as len(members)+1 to account
// for it.
type Family struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Name        string    `db:"name" json:"name"`
	MemberCount int       `db:"member_count" json:"memberCount"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`

	Members []FamilyMember `db:"-" json:"members,omitempty"`
}

// FamilyMember is one non-owner member of a family, identified by email.
type FamilyMember struct {
	ID        string    `db:"id" json:"id"`
	FamilyID  string    `db:"family_id" json:"familyId"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// FamilyInvite represents an invitation into a family. Family and inviter
// names are denormalized for display.
type FamilyInvite struct {
	ID           string    `db:"id" json:"id"`
	FamilyID     string    `db:"family_id" json:"familyId"`
	InviterID    string    `db:"inviter_id" json:"inviterId"`
	InviteeEmail string    `db:"invitee_email" json:"inviteeEmail"`
	Status       string    `db:"status" json:"status"`
	FamilyName   string    `db:"family_name" json:"familyName"`
	InviterName  string    `db:"inviter_name" json:"inviterName"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// AppNotification is an in-app notification entry. Metadata may carry an
// invite_id linking it to a pending FamilyInvite.
type AppNotification struct {
	ID        string         `db:"id" json:"id"`
	UserID    string         `db:"user_id" json:"userId"`
	Title     string         `db:"title" json:"title"`
	Body      string         `db:"body" json:"body"`
	Type      string         `db:"type" json:"type"`
	Read      bool           `db:"read" json:"read"`
	Metadata  types.JSONText `db:"metadata" json:"metadata,omitempty"`
	Timestamp time.Time      `db:"timestamp" json:"timestamp"`
}
