package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"time"

	"github.com/atelmoda/storefront-backend/internal/config"
	"github.com/atelmoda/storefront-backend/internal/dto"
	"github.com/atelmoda/storefront-backend/internal/mailer"
	"github.com/atelmoda/storefront-backend/internal/models"
	"github.com/atelmoda/storefront-backend/internal/session"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrOtpExpired  = errors.New("code expired, please log in again")
	ErrOtpMismatch = errors.New("invalid code, please try again")
)

// OtpService runs the two-step login: password check first, then a mailed
// one-time code bound to a challenge ID.
type OtpService struct {
	db    *gorm.DB
	cfg   *config.Config
	store *session.Store
	mail  mailer.Sender
	auth  *AuthService
}

func NewOtpService(db *gorm.DB, cfg *config.Config, store *session.Store, mail mailer.Sender, auth *AuthService) *OtpService {
	return &OtpService{db: db, cfg: cfg, store: store, mail: mail, auth: auth}
}

// BeginLogin verifies the password and, when it checks out, parks a pending
// login and mails the code. The returned challenge ID names that pending
// state on the verify step. A failed mail send is reported to the caller
// but does not discard the pending state; it simply ages out.
func (s *OtpService) BeginLogin(ctx context.Context, req *dto.LoginRequest, ip string) (*dto.LoginChallengeResponse, error) {
	user, err := s.auth.VerifyCredentials(req, ip)
	if err != nil {
		return nil, err
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	challenge := uuid.NewString()
	pending := &session.PendingLogin{
		UserID:   user.ID,
		Code:     code,
		IssuedAt: time.Now().UTC(),
	}
	if err := s.store.Put(ctx, challenge, pending); err != nil {
		return nil, fmt.Errorf("failed to store pending login: %w", err)
	}

	if err := s.mail.SendLoginCode(ctx, user.Email, user.Username, code); err != nil {
		slog.Error("failed to send login code", "error", err, "user_id", user.ID.String())
		return nil, fmt.Errorf("failed to send login code: %w", err)
	}

	return &dto.LoginChallengeResponse{
		Challenge: challenge,
		Message:   "A one-time code has been sent to your email.",
	}, nil
}

// VerifyCode completes the login. The window is checked against IssuedAt
// even though Redis also expires the key. A mismatched code leaves the
// pending state in place so the user can retry; a match burns the
// challenge and mints the token pair.
func (s *OtpService) VerifyCode(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.AuthResponse, error) {
	pending, err := s.store.Get(ctx, req.Challenge)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrOtpExpired
		}
		return nil, fmt.Errorf("failed to load pending login: %w", err)
	}

	if time.Since(pending.IssuedAt) > s.cfg.OTPExpiry {
		if err := s.store.Delete(ctx, req.Challenge); err != nil {
			slog.Error("failed to discard expired login", "error", err)
		}
		return nil, ErrOtpExpired
	}

	if subtle.ConstantTimeCompare([]byte(req.Code), []byte(pending.Code)) != 1 {
		return nil, ErrOtpMismatch
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", pending.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if err := s.store.Delete(ctx, req.Challenge); err != nil {
		return nil, fmt.Errorf("failed to purge pending login: %w", err)
	}

	return s.auth.generateTokenPair(&user)
}

// generateCode draws a uniform 6-digit code in 100000..999999.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
