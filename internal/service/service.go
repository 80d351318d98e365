package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vouchervault/server/internal/models"
	"github.com/vouchervault/server/internal/push"
	"github.com/vouchervault/server/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Errors surfaced by service operations beyond the ledger's own validation
// errors. Handlers map these to HTTP status codes.
var (
	ErrNotFound              = errors.New("resource not found")
	ErrForbidden             = errors.New("permission denied")
	ErrInviteAlreadyResolved = errors.New("invite already resolved")
	ErrTransferFailed        = errors.New("voucher transfer failed")
	ErrInvalidEmail          = errors.New("invalid email address")
)

// Service defines all the business logic operations
type Service interface {
	// Authentication
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)

	// Voucher operations
	CreateVoucher(ctx context.Context, userID string, req models.CreateVoucherRequest) (*models.Voucher, error)
	GetVoucher(ctx context.Context, userID, voucherID string) (*models.Voucher, error)
	ListVouchers(ctx context.Context, userID string) ([]models.Voucher, error)
	UpdateVoucher(ctx context.Context, userID, voucherID string, req models.UpdateVoucherRequest) (*models.Voucher, error)
	DeleteVoucher(ctx context.Context, userID, voucherID string) error

	// Voucher ledger operations
	Redeem(ctx context.Context, userID, voucherID string, req models.RedeemRequest) (*models.Voucher, *models.Redemption, error)
	QuickRedeem(ctx context.Context, userID, voucherID string, req models.RedeemRequest) (*models.Voucher, *models.Redemption, error)
	TransferVoucher(ctx context.Context, userID, voucherID, recipientEmail string) error

	// Family operations
	CreateFamily(ctx context.Context, userID string, req models.CreateFamilyRequest) (*models.Family, error)
	ListFamilies(ctx context.Context, userID string) ([]models.Family, error)
	UpdateFamily(ctx context.Context, userID, familyID string, req models.UpdateFamilyRequest) (*models.Family, error)
	DeleteFamily(ctx context.Context, userID, familyID string) error
	RemoveFamilyMember(ctx context.Context, userID, familyID, memberID string) (*models.Family, error)

	// Invite operations
	CreateInvite(ctx context.Context, userID, familyID, inviteeEmail string) (*models.FamilyInvite, error)
	ListInvites(ctx context.Context, userID string) ([]models.FamilyInvite, error)
	RespondToInvite(ctx context.Context, userID, inviteID, response string) (*models.FamilyInvite, error)
	DeleteInvite(ctx context.Context, userID, inviteID string) error

	// Profile and notifications
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error)
	ListNotifications(ctx context.Context, userID string) ([]models.AppNotification, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	dispatcher    push.Dispatcher
	logger        *logrus.Logger
	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(
	repo repository.Repository,
	dispatcher push.Dispatcher,
	logger *logrus.Logger,
	jwtSecret string,
) Service {
	return &DefaultService{
		repo:          repo,
		dispatcher:    dispatcher,
		logger:        logger,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour, // 24 hours token validity
	}
}

// Authentication methods
func (s *DefaultService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	// Check if user already exists
	existingUser, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existingUser != nil {
		return nil, errors.New("user with this email already exists")
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	// Create the user
	user := &models.User{
		ID:                   uuid.New().String(),
		Email:                req.Email,
		Name:                 req.Name,
		Password:             string(hashedPassword),
		NotificationsEnabled: true,
		Preferences:          models.DefaultNotificationPreferences(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return &models.AuthResponse{
		Status: "success",
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	// Get the user
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, errors.New("invalid email or password")
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	// Generate JWT token
	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

// actingUser resolves the authenticated user behind an operation. Every
// mutating operation needs the caller's email and display name.
func (s *DefaultService) actingUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// Helper methods
func (s *DefaultService) generateJWT(user *models.User) (string, error) {
	expirationTime := time.Now().Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub": user.ID, // subject
		"exp": expirationTime.Unix(),
		"iat": time.Now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
