package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/atelmoda/storefront-backend/internal/config"
	"github.com/atelmoda/storefront-backend/internal/dto"
	"github.com/atelmoda/storefront-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRateLimited        = errors.New("too many login attempts, please try again later")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
)

// Compared against when the username is unknown so both branches always
// cost one bcrypt verification.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

const dobLayout = "2006-01-02"

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Register creates a new account. It does not log the user in; the login
// flow always goes through the one-time-code gate.
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, errors.New("username, email and password are required")
	}
	if len(req.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	dob, err := parseDOB(req.DOB)
	if err != nil {
		return nil, err
	}
	if err := validatePhone(req.PhoneNumber); err != nil {
		return nil, err
	}
	if err := validateGender(req.Gender); err != nil {
		return nil, err
	}

	var existing models.User
	if err := s.db.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error; err == nil {
		if existing.Username == req.Username {
			return nil, ErrUsernameTaken
		}
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		DOB:      dob,
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = &req.PhoneNumber
	}
	if req.Gender != "" {
		user.Gender = &req.Gender
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return userResponse(&user), nil
}

// VerifyCredentials is the password gate of the login flow. The attempt
// count is checked before the password so a flooded account stays closed
// even when the password is correct.
func (s *AuthService) VerifyCredentials(req *dto.LoginRequest, ip string) (*models.User, error) {
	var user models.User
	found := s.db.Where("username = ?", req.Username).First(&user).Error == nil

	if found {
		var recent int64
		cutoff := time.Now().Add(-s.cfg.LoginWindow)
		if err := s.db.Model(&models.LoginAttempt{}).
			Where("user_id = ? AND attempted_at > ?", user.ID, cutoff).
			Count(&recent).Error; err != nil {
			return nil, fmt.Errorf("failed to count login attempts: %w", err)
		}
		if recent >= int64(s.cfg.LoginMaxAttempts) {
			return nil, ErrRateLimited
		}
	}

	hash := dummyHash
	if found {
		hash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password))

	if !found || compareErr != nil {
		attempt := models.LoginAttempt{Username: req.Username, IP: ip}
		if found {
			attempt.UserID = &user.ID
		}
		if err := s.db.Create(&attempt).Error; err != nil {
			return nil, fmt.Errorf("failed to record login attempt: %w", err)
		}
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	s.db.Model(&stored).Update("revoked", true)

	var user models.User
	if err := s.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

func (s *AuthService) GetProfile(userID uuid.UUID) (*dto.UserResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return userResponse(&user), nil
}

func (s *AuthService) UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	updates := map[string]interface{}{}

	if req.Email != nil && *req.Email != user.Email {
		var existing models.User
		if err := s.db.Where("email = ? AND id <> ?", *req.Email, userID).First(&existing).Error; err == nil {
			return nil, ErrEmailTaken
		}
		updates["email"] = *req.Email
	}
	if req.DOB != nil {
		dob, err := parseDOB(*req.DOB)
		if err != nil {
			return nil, err
		}
		updates["dob"] = dob
	}
	if req.PhoneNumber != nil {
		if err := validatePhone(*req.PhoneNumber); err != nil {
			return nil, err
		}
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.Gender != nil {
		if err := validateGender(*req.Gender); err != nil {
			return nil, err
		}
		updates["gender"] = *req.Gender
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return s.GetProfile(userID)
}

func (s *AuthService) ChangePassword(userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if len(req.NewPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.Model(&user).Update("password", string(hash)).Error
}

// CheckUsername reports whether a username is already taken.
func (s *AuthService) CheckUsername(username string) (bool, error) {
	if username == "" {
		return false, nil
	}
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *AuthService) generateTokenPair(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *userResponse(user),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"email":    user.Email,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	tokenHash := hashToken(rawToken)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}

func userResponse(user *models.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
	if user.DOB != nil {
		resp.DOB = user.DOB.Format(dobLayout)
	}
	if user.PhoneNumber != nil {
		resp.PhoneNumber = *user.PhoneNumber
	}
	if user.Gender != nil {
		resp.Gender = *user.Gender
	}
	return resp
}

func parseDOB(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dobLayout, s)
	if err != nil {
		return nil, errors.New("invalid date of birth format, use YYYY-MM-DD")
	}
	return &t, nil
}

func validatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if len(phone) > 15 {
		return errors.New("phone number must be numeric and up to 15 digits")
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return errors.New("phone number must be numeric and up to 15 digits")
		}
	}
	return nil
}

func validateGender(gender string) error {
	switch gender {
	case "", "Male", "Female", "Other":
		return nil
	}
	return errors.New("invalid gender selection")
}
