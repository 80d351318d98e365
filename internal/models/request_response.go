package models

// Request models
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateVoucherRequest struct {
	Title         string      `json:"title" binding:"required"`
	Store         string      `json:"store" binding:"required"`
	Type          VoucherType `json:"type" binding:"required,oneof=VALUE QUANTITY"`
	InitialAmount float64     `json:"initialAmount" binding:"required,gt=0"`
	Currency      string      `json:"currency"`
	ExpiryDate    *string     `json:"expiryDate"`
	FamilyID      *string     `json:"familyId"`
	Code          string      `json:"code"`
	Pin           string      `json:"pin"`
	Website       string      `json:"website"`
	MinOrderValue *float64    `json:"minOrderValue"`
	Notes         string      `json:"notes"`
	Category      string      `json:"category"`
	TripID        *int64      `json:"tripId"`
	ImageURL      string      `json:"imageUrl"`
	ImageURL2     string      `json:"imageUrl2"`
	CodePool      []string    `json:"codePool"`
}

// UpdateVoucherRequest replaces the editable fields of a voucher. Unlike a
// redemption it may set remainingAmount directly and leaves history untouched.
type UpdateVoucherRequest struct {
	Title           string      `json:"title"`
	Store           string      `json:"store"`
	Type            VoucherType `json:"type" binding:"omitempty,oneof=VALUE QUANTITY"`
	RemainingAmount *float64    `json:"remainingAmount"`
	Currency        string      `json:"currency"`
	ExpiryDate      *string     `json:"expiryDate"`
	FamilyID        *string     `json:"familyId"`
	Code            string      `json:"code"`
	Pin             string      `json:"pin"`
	Website         string      `json:"website"`
	MinOrderValue   *float64    `json:"minOrderValue"`
	Notes           string      `json:"notes"`
	Category        string      `json:"category"`
	TripID          *int64      `json:"tripId"`
	ImageURL        string      `json:"imageUrl"`
	ImageURL2       string      `json:"imageUrl2"`
}

// RedeemRequest carries either an amount (amount mode) or the specific pool
// code to consume (code-pool mode).
type RedeemRequest struct {
	Amount float64 `json:"amount"`
	Code   string  `json:"code"`
}

type TransferVoucherRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type CreateFamilyRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateFamilyRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateInviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RespondInviteRequest struct {
	Response string `json:"response" binding:"required,oneof=accepted rejected"`
}

type UpdateProfileRequest struct {
	Name                 string                   `json:"name"`
	NotificationsEnabled *bool                    `json:"notificationsEnabled"`
	Preferences          *NotificationPreferences `json:"notificationPreferences"`
	PushToken            *string                  `json:"pushToken"`
	Language             string                   `json:"language"`
	DefaultCurrency      string                   `json:"defaultCurrency"`
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type VoucherResponse struct {
	Status  string   `json:"status"`
	Voucher *Voucher `json:"voucher,omitempty"`
}

type VoucherListResponse struct {
	Status   string    `json:"status"`
	Vouchers []Voucher `json:"vouchers"`
}

// RedeemResponse returns the voucher after a successful redemption together
// with the redemption record that was appended.
type RedeemResponse struct {
	Status     string      `json:"status"`
	Voucher    *Voucher    `json:"voucher"`
	Redemption *Redemption `json:"redemption"`
}

type FamilyResponse struct {
	Status string  `json:"status"`
	Family *Family `json:"family,omitempty"`
}

type FamilyListResponse struct {
	Status   string   `json:"status"`
	Families []Family `json:"families"`
}

type InviteResponse struct {
	Status string        `json:"status"`
	Invite *FamilyInvite `json:"invite,omitempty"`
}

type InviteListResponse struct {
	Status  string         `json:"status"`
	Invites []FamilyInvite `json:"invites"`
}

type ProfileResponse struct {
	Status string `json:"status"`
	User   *User  `json:"user,omitempty"`
}

type NotificationListResponse struct {
	Status        string            `json:"status"`
	Notifications []AppNotification `json:"notifications"`
}

type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
