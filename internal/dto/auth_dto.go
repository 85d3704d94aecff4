package dto

import "github.com/google/uuid"

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DOB         string `json:"dob,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginChallengeResponse is returned when the password checks out and a
// one-time code has been mailed. The challenge ID identifies the pending
// login on the verify step.
type LoginChallengeResponse struct {
	Challenge string `json:"challenge"`
	Message   string `json:"message"`
}

type VerifyOTPRequest struct {
	Challenge string `json:"challenge"`
	Code      string `json:"code"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DOB         string    `json:"dob,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Gender      string    `json:"gender,omitempty"`
}

type UpdateProfileRequest struct {
	Email       *string `json:"email,omitempty"`
	DOB         *string `json:"dob,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Gender      *string `json:"gender,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Redis     string `json:"redis"`
}
