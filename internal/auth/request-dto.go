package auth

// login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// asks for a code to be mailed
type OTPRequest struct {
	Email   string     `json:"email" validate:"required,email"`
	Purpose OTPPurpose `json:"purpose" validate:"required,oneof=register reset_password"`
}

// submits the 6 digit code
type OTPVerifyRequest struct {
	Email   string     `json:"email" validate:"required,email"`
	Purpose OTPPurpose `json:"purpose" validate:"required,oneof=register reset_password"`
	Code    string     `json:"code" validate:"required,len=6,numeric"`
}

// finishes registration after the email was verified
type CompleteRegistrationRequest struct {
	VerificationToken string `json:"verification_token" validate:"required,uuid"`
	FirstName         string `json:"first_name" validate:"required,min=2,max=100"`
	LastName          string `json:"last_name" validate:"required,min=2,max=100"`
	Password          string `json:"password" validate:"required,min=6"`
}

// sets a new password after the email was verified
type ResetPasswordRequest struct {
	VerificationToken string `json:"verification_token" validate:"required,uuid"`
	NewPassword       string `json:"new_password" validate:"required,min=6"`
}

// represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// represents change password request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}
