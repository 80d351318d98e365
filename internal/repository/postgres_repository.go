package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vouchervault/server/internal/models"
)

// Sentinel errors for conflicts that only the database can detect reliably.
var (
	// ErrCodeAlreadyUsed means the pool code was consumed between read and write.
	ErrCodeAlreadyUsed = errors.New("code already used")
	// ErrInviteResolved means the invite left the pending state before this response.
	ErrInviteResolved = errors.New("invite already resolved")
	// ErrRecipientNotFound means no account exists for the transfer recipient email.
	ErrRecipientNotFound = errors.New("recipient not found")
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// Voucher operations
	CreateVoucher(ctx context.Context, voucher *models.Voucher, codes []string) error
	GetVoucher(ctx context.Context, voucherID string) (*models.Voucher, error)
	ListVouchers(ctx context.Context, userID, email string) ([]models.Voucher, error)
	UpdateVoucher(ctx context.Context, voucher *models.Voucher) error
	DeleteVoucher(ctx context.Context, voucherID string) error
	ApplyRedemption(ctx context.Context, voucherID string, newRemaining float64, redemption *models.Redemption) error
	TransferVoucher(ctx context.Context, voucherID, recipientEmail string) (*models.User, error)

	// Family operations
	CreateFamily(ctx context.Context, family *models.Family) error
	GetFamily(ctx context.Context, familyID string) (*models.Family, error)
	ListFamilies(ctx context.Context, userID, email string) ([]models.Family, error)
	UpdateFamily(ctx context.Context, family *models.Family) error
	DeleteFamily(ctx context.Context, familyID string) error
	RemoveFamilyMember(ctx context.Context, familyID, memberID string) error

	// Invite operations
	CreateInvite(ctx context.Context, invite *models.FamilyInvite) error
	GetInvite(ctx context.Context, inviteID string) (*models.FamilyInvite, error)
	ListPendingInvites(ctx context.Context, inviteeEmail string) ([]models.FamilyInvite, error)
	AcceptInvite(ctx context.Context, inviteID string, member *models.FamilyMember) (*models.FamilyInvite, error)
	RejectInvite(ctx context.Context, inviteID string) (*models.FamilyInvite, error)
	DeleteInvite(ctx context.Context, inviteID string) error

	// Notification operations
	CreateNotification(ctx context.Context, notification *models.AppNotification) error
	ListNotifications(ctx context.Context, userID string) ([]models.AppNotification, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
}

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, password, notifications_enabled,
			notification_preferences, push_token, language, default_currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	// Generate a new UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Password, user.NotificationsEnabled,
		user.Preferences, user.PushToken, user.Language, user.DefaultCurrency,
		user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $1, notifications_enabled = $2, notification_preferences = $3,
			push_token = $4, language = $5, default_currency = $6, updated_at = $7
		WHERE id = $8
	`

	user.UpdatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		user.Name, user.NotificationsEnabled, user.Preferences,
		user.PushToken, user.Language, user.DefaultCurrency, user.UpdatedAt, user.ID)

	return err
}

// Voucher repository methods
func (r *PostgresRepository) CreateVoucher(ctx context.Context, voucher *models.Voucher, codes []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	query := `
		INSERT INTO vouchers (id, user_id, title, store, type, initial_amount, remaining_amount,
			currency, expiry_date, family_id, code, pin, website, min_order_value, notes,
			category, trip_id, image_url, image_url_2, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	// Generate a new UUID if not provided
	if voucher.ID == "" {
		voucher.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	voucher.CreatedAt = now
	voucher.UpdatedAt = now

	_, err = tx.ExecContext(ctx, query,
		voucher.ID, voucher.UserID, voucher.Title, voucher.Store, voucher.Type,
		voucher.InitialAmount, voucher.RemainingAmount, voucher.Currency,
		voucher.ExpiryDate, voucher.FamilyID, voucher.Code, voucher.Pin, voucher.Website,
		voucher.MinOrderValue, voucher.Notes, voucher.Category, voucher.TripID,
		voucher.ImageURL, voucher.ImageURL2, voucher.CreatedAt, voucher.UpdatedAt)
	if err != nil {
		return err
	}

	for _, code := range codes {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO voucher_codes (voucher_id, code) VALUES ($1, $2)`,
			voucher.ID, code)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetVoucher(ctx context.Context, voucherID string) (*models.Voucher, error) {
	query := `SELECT * FROM vouchers WHERE id = $1`

	var voucher models.Voucher
	err := r.db.GetContext(ctx, &voucher, query, voucherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Voucher not found
		}
		return nil, err
	}

	if err := r.loadVoucherRelations(ctx, &voucher); err != nil {
		return nil, err
	}

	return &voucher, nil
}

// ListVouchers returns the user's own vouchers plus vouchers shared into
// families the user belongs to (matched by membership email), newest first.
func (r *PostgresRepository) ListVouchers(ctx context.Context, userID, email string) ([]models.Voucher, error) {
	query := `
		SELECT DISTINCT v.* FROM vouchers v
		LEFT JOIN family_members fm ON v.family_id = fm.family_id
		WHERE v.user_id = $1 OR fm.email = $2
		ORDER BY v.created_at DESC
	`

	var vouchers []models.Voucher
	err := r.db.SelectContext(ctx, &vouchers, query, userID, email)
	if err != nil {
		return nil, err
	}

	for i := range vouchers {
		if err := r.loadVoucherRelations(ctx, &vouchers[i]); err != nil {
			return nil, err
		}
	}

	return vouchers, nil
}

// loadVoucherRelations attaches the redemption history (newest first) and the
// code pool to a voucher.
func (r *PostgresRepository) loadVoucherRelations(ctx context.Context, voucher *models.Voucher) error {
	historyQuery := `SELECT * FROM redemptions WHERE voucher_id = $1 ORDER BY seq DESC`
	if err := r.db.SelectContext(ctx, &voucher.History, historyQuery, voucher.ID); err != nil {
		return err
	}

	poolQuery := `SELECT * FROM voucher_codes WHERE voucher_id = $1 ORDER BY code`
	return r.db.SelectContext(ctx, &voucher.CodePool, poolQuery, voucher.ID)
}

func (r *PostgresRepository) UpdateVoucher(ctx context.Context, voucher *models.Voucher) error {
	query := `
		UPDATE vouchers
		SET title = $1, store = $2, type = $3, remaining_amount = $4, currency = $5,
			expiry_date = $6, family_id = $7, code = $8, pin = $9, website = $10,
			min_order_value = $11, notes = $12, category = $13, trip_id = $14,
			image_url = $15, image_url_2 = $16, updated_at = $17
		WHERE id = $18
	`

	voucher.UpdatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		voucher.Title, voucher.Store, voucher.Type, voucher.RemainingAmount, voucher.Currency,
		voucher.ExpiryDate, voucher.FamilyID, voucher.Code, voucher.Pin, voucher.Website,
		voucher.MinOrderValue, voucher.Notes, voucher.Category, voucher.TripID,
		voucher.ImageURL, voucher.ImageURL2, voucher.UpdatedAt, voucher.ID)

	return err
}

func (r *PostgresRepository) DeleteVoucher(ctx context.Context, voucherID string) error {
	// Redemptions and pool codes cascade
	_, err := r.db.ExecContext(ctx, `DELETE FROM vouchers WHERE id = $1`, voucherID)
	return err
}

// ApplyRedemption persists one successful ledger outcome as a single
// transaction: the consumed pool code (if any), the new balance, and the
// appended history entry. The used = FALSE guard makes a raced duplicate
// code redemption fail instead of double-consuming.
func (r *PostgresRepository) ApplyRedemption(
	ctx context.Context,
	voucherID string,
	newRemaining float64,
	redemption *models.Redemption,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	if redemption.CodeUsed.Valid {
		var res sql.Result
		res, err = tx.ExecContext(ctx,
			`UPDATE voucher_codes
			SET used = TRUE, used_at = $1, used_by = $2
			WHERE voucher_id = $3 AND code = $4 AND used = FALSE`,
			redemption.Timestamp, redemption.UserName, voucherID, redemption.CodeUsed.String)
		if err != nil {
			return err
		}

		var affected int64
		affected, err = res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			err = ErrCodeAlreadyUsed
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE vouchers SET remaining_amount = $1, updated_at = $2 WHERE id = $3`,
		newRemaining, time.Now().UTC(), voucherID)
	if err != nil {
		return err
	}

	if redemption.ID == "" {
		redemption.ID = uuid.New().String()
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO redemptions (id, voucher_id, amount, timestamp, user_name, code_used)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq`,
		redemption.ID, voucherID, redemption.Amount, redemption.Timestamp,
		redemption.UserName, redemption.CodeUsed).Scan(&redemption.Seq)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// TransferVoucher reassigns a voucher to the user behind recipientEmail as one
// atomic operation and detaches it from the sender's family. Returns the
// recipient so the caller can notify them.
func (r *PostgresRepository) TransferVoucher(ctx context.Context, voucherID, recipientEmail string) (*models.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	var recipient models.User
	err = tx.QueryRowContext(ctx,
		`SELECT id, email, name, notifications_enabled, notification_preferences, push_token
		FROM users WHERE email = $1`,
		recipientEmail).Scan(&recipient.ID, &recipient.Email, &recipient.Name,
		&recipient.NotificationsEnabled, &recipient.Preferences, &recipient.PushToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrRecipientNotFound
		}
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE vouchers SET user_id = $1, family_id = NULL, updated_at = $2 WHERE id = $3`,
		recipient.ID, time.Now().UTC(), voucherID)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &recipient, nil
}

// Family repository methods
func (r *PostgresRepository) CreateFamily(ctx context.Context, family *models.Family) error {
	query := `
		INSERT INTO families (id, user_id, name, member_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if family.ID == "" {
		family.ID = uuid.New().String()
	}

	// The owner is implicit, so a fresh family counts one person.
	family.MemberCount = 1

	now := time.Now().UTC()
	family.CreatedAt = now
	family.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		family.ID, family.UserID, family.Name, family.MemberCount,
		family.CreatedAt, family.UpdatedAt)

	return err
}

func (r *PostgresRepository) GetFamily(ctx context.Context, familyID string) (*models.Family, error) {
	query := `SELECT * FROM families WHERE id = $1`

	var family models.Family
	err := r.db.GetContext(ctx, &family, query, familyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Family not found
		}
		return nil, err
	}

	membersQuery := `SELECT * FROM family_members WHERE family_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &family.Members, membersQuery, familyID); err != nil {
		return nil, err
	}

	return &family, nil
}

// ListFamilies returns families the user owns plus families the user has been
// accepted into (matched by membership email).
func (r *PostgresRepository) ListFamilies(ctx context.Context, userID, email string) ([]models.Family, error) {
	query := `
		SELECT DISTINCT f.* FROM families f
		LEFT JOIN family_members fm ON f.id = fm.family_id
		WHERE f.user_id = $1 OR fm.email = $2
		ORDER BY f.created_at
	`

	var families []models.Family
	err := r.db.SelectContext(ctx, &families, query, userID, email)
	if err != nil {
		return nil, err
	}

	membersQuery := `SELECT * FROM family_members WHERE family_id = $1 ORDER BY created_at`
	for i := range families {
		if err := r.db.SelectContext(ctx, &families[i].Members, membersQuery, families[i].ID); err != nil {
			return nil, err
		}
	}

	return families, nil
}

func (r *PostgresRepository) UpdateFamily(ctx context.Context, family *models.Family) error {
	query := `UPDATE families SET name = $1, updated_at = $2 WHERE id = $3`

	family.UpdatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query, family.Name, family.UpdatedAt, family.ID)
	return err
}

func (r *PostgresRepository) DeleteFamily(ctx context.Context, familyID string) error {
	// Members and invites cascade; shared vouchers fall back to private
	_, err := r.db.ExecContext(ctx, `DELETE FROM families WHERE id = $1`, familyID)
	return err
}

// RemoveFamilyMember deletes a member and recomputes the stored member count
// in the same transaction.
func (r *PostgresRepository) RemoveFamilyMember(ctx context.Context, familyID, memberID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM family_members WHERE family_id = $1 AND id = $2`, familyID, memberID)
	if err != nil {
		return err
	}

	err = r.recountMembersTx(ctx, tx, familyID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// recountMembersTx refreshes member_count as stored members plus the implicit
// owner. Display code relies on this offset-by-one convention.
func (r *PostgresRepository) recountMembersTx(ctx context.Context, tx *sql.Tx, familyID string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE families
		SET member_count = (SELECT COUNT(*) FROM family_members WHERE family_id = $1) + 1,
			updated_at = $2
		WHERE id = $1`,
		familyID, time.Now().UTC())
	return err
}

// Invite repository methods
func (r *PostgresRepository) CreateInvite(ctx context.Context, invite *models.FamilyInvite) error {
	query := `
		INSERT INTO family_invites (id, family_id, inviter_id, invitee_email, status,
			family_name, inviter_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if invite.ID == "" {
		invite.ID = uuid.New().String()
	}
	if invite.Status == "" {
		invite.Status = models.InviteStatusPending
	}

	now := time.Now().UTC()
	invite.CreatedAt = now
	invite.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		invite.ID, invite.FamilyID, invite.InviterID, invite.InviteeEmail, invite.Status,
		invite.FamilyName, invite.InviterName, invite.CreatedAt, invite.UpdatedAt)

	return err
}

func (r *PostgresRepository) GetInvite(ctx context.Context, inviteID string) (*models.FamilyInvite, error) {
	query := `SELECT * FROM family_invites WHERE id = $1`

	var invite models.FamilyInvite
	err := r.db.GetContext(ctx, &invite, query, inviteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Invite not found
		}
		return nil, err
	}

	return &invite, nil
}

func (r *PostgresRepository) ListPendingInvites(ctx context.Context, inviteeEmail string) ([]models.FamilyInvite, error) {
	query := `
		SELECT * FROM family_invites
		WHERE invitee_email = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`

	var invites []models.FamilyInvite
	err := r.db.SelectContext(ctx, &invites, query, inviteeEmail)
	if err != nil {
		return nil, err
	}

	return invites, nil
}

// AcceptInvite performs the whole acceptance as one transaction: lock the
// invite row, verify it is still pending, add the responder as a member,
// refresh the member count, and mark the invite accepted. A concurrent
// second acceptance blocks on the row lock, re-reads a resolved invite and
// fails with ErrInviteResolved.
func (r *PostgresRepository) AcceptInvite(
	ctx context.Context,
	inviteID string,
	member *models.FamilyMember,
) (*models.FamilyInvite, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	invite, err := r.lockPendingInviteTx(ctx, tx, inviteID)
	if err != nil {
		return nil, err
	}

	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	member.FamilyID = invite.FamilyID
	member.CreatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO family_members (id, family_id, email, name, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		member.ID, member.FamilyID, member.Email, member.Name, member.CreatedAt)
	if err != nil {
		return nil, err
	}

	err = r.recountMembersTx(ctx, tx, invite.FamilyID)
	if err != nil {
		return nil, err
	}

	invite.Status = models.InviteStatusAccepted
	err = r.setInviteStatusTx(ctx, tx, invite)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return invite, nil
}

// RejectInvite marks a pending invite rejected. Membership is untouched.
func (r *PostgresRepository) RejectInvite(ctx context.Context, inviteID string) (*models.FamilyInvite, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	invite, err := r.lockPendingInviteTx(ctx, tx, inviteID)
	if err != nil {
		return nil, err
	}

	invite.Status = models.InviteStatusRejected
	err = r.setInviteStatusTx(ctx, tx, invite)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return invite, nil
}

// lockPendingInviteTx reads the invite under a row lock and enforces that
// pending is the only state a response may leave.
func (r *PostgresRepository) lockPendingInviteTx(
	ctx context.Context,
	tx *sql.Tx,
	inviteID string,
) (*models.FamilyInvite, error) {
	var invite models.FamilyInvite
	err := tx.QueryRowContext(ctx,
		`SELECT id, family_id, inviter_id, invitee_email, status, family_name, inviter_name, created_at, updated_at
		FROM family_invites WHERE id = $1 FOR UPDATE`,
		inviteID).Scan(&invite.ID, &invite.FamilyID, &invite.InviterID, &invite.InviteeEmail,
		&invite.Status, &invite.FamilyName, &invite.InviterName, &invite.CreatedAt, &invite.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInviteResolved // Deleted mid-flight counts as resolved
		}
		return nil, err
	}

	if invite.Status != models.InviteStatusPending {
		return nil, ErrInviteResolved
	}

	return &invite, nil
}

func (r *PostgresRepository) setInviteStatusTx(ctx context.Context, tx *sql.Tx, invite *models.FamilyInvite) error {
	invite.UpdatedAt = time.Now().UTC()
	_, err := tx.ExecContext(ctx,
		`UPDATE family_invites SET status = $1, updated_at = $2 WHERE id = $3`,
		invite.Status, invite.UpdatedAt, invite.ID)
	return err
}

// DeleteInvite withdraws an invite; only pending invites can be withdrawn.
func (r *PostgresRepository) DeleteInvite(ctx context.Context, inviteID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM family_invites WHERE id = $1 AND status = 'pending'`, inviteID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInviteResolved
	}

	return nil
}

// Notification repository methods
func (r *PostgresRepository) CreateNotification(ctx context.Context, notification *models.AppNotification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, body, type, read, metadata, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.Type == "" {
		notification.Type = models.NotificationTypeInfo
	}
	if notification.Timestamp.IsZero() {
		notification.Timestamp = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		notification.ID, notification.UserID, notification.Title, notification.Body,
		notification.Type, notification.Read, notification.Metadata, notification.Timestamp)

	return err
}

func (r *PostgresRepository) ListNotifications(ctx context.Context, userID string) ([]models.AppNotification, error) {
	query := `SELECT * FROM notifications WHERE user_id = $1 ORDER BY timestamp DESC`

	var notifications []models.AppNotification
	err := r.db.SelectContext(ctx, &notifications, query, userID)
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *PostgresRepository) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1`, userID)
	return err
}

func (r *PostgresRepository) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`,
		notificationID, userID)
	return err
}
