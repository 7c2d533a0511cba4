package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinebook/internal/auth"

	"github.com/go-playground/validator/v10"
)

const (
	CodeLength       = 6
	OTPCountdown     = 300 * time.Second
	MinPasswordChars = 6
)

type OTPState int

const (
	OTPForm OTPState = iota
	OTPCodeRequested
	OTPCodeVerified
	OTPComplete
)

func (s OTPState) String() string {
	switch s {
	case OTPForm:
		return "form"
	case OTPCodeRequested:
		return "code_requested"
	case OTPCodeVerified:
		return "code_verified"
	case OTPComplete:
		return "complete"
	default:
		return "unknown"
	}
}

var (
	ErrResendNotAllowed = errors.New("a new code can not be requested yet")
	ErrIncompleteCode   = errors.New("enter all 6 digits")
	ErrInvalidDigit     = errors.New("each field takes a single digit")
	ErrInvalidPaste     = errors.New("pasted code must be exactly 6 digits")
)

// FormError carries one message per invalid form field
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "invalid form: " + strings.Join(parts, ", ")
}

// OTPFormInput is what the user fills in before a code is sent
type OTPFormInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	// registration only
	FirstName string
	LastName  string
}

type OTPAPI interface {
	RequestOTP(ctx context.Context, email string, purpose auth.OTPPurpose) (*auth.OTPRequestResponse, error)
	VerifyOTP(ctx context.Context, email string, purpose auth.OTPPurpose, code string) (*auth.OTPVerifyResponse, error)
	CompleteRegistration(ctx context.Context, req auth.CompleteRegistrationRequest) (*auth.UserResponse, error)
	ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error
	Login(ctx context.Context, email, password string) (*auth.AuthResponse, error)
}

// OTPFlow walks registration or password reset through
// Form → CodeRequested → CodeVerified → Complete.
type OTPFlow struct {
	api       OTPAPI
	session   *Session
	purpose   auth.OTPPurpose
	validate  *validator.Validate
	wasSignIn bool

	state     OTPState
	form      OTPFormInput
	digits    [CodeLength]string
	remaining time.Duration
	token     string
}

// NewOTPFlow records whether the session was signed in when the flow began;
// a password reset only signs back in for that case.
func NewOTPFlow(api OTPAPI, session *Session, purpose auth.OTPPurpose) *OTPFlow {
	return &OTPFlow{
		api:       api,
		session:   session,
		purpose:   purpose,
		validate:  validator.New(),
		wasSignIn: session != nil && session.IsAuthenticated(),
		state:     OTPForm,
	}
}

func (f *OTPFlow) State() OTPState { return f.state }

func (f *OTPFlow) SetForm(in OTPFormInput) error {
	if f.state != OTPForm {
		return fmt.Errorf("%w: form is locked once a code was requested", ErrInvalidTransition)
	}
	f.form = in
	return nil
}

// checkForm is a local guard; the backend stays authoritative
func (f *OTPFlow) checkForm() error {
	fields := map[string]string{}
	if err := f.validate.Var(f.form.Email, "required,email"); err != nil {
		fields["email"] = "enter a valid email address"
	}
	if len(f.form.Password) < MinPasswordChars {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", MinPasswordChars)
	}
	if f.form.Password != f.form.ConfirmPassword {
		fields["confirm_password"] = "passwords do not match"
	}
	if f.purpose == auth.OTPPurposeRegister {
		if strings.TrimSpace(f.form.FirstName) == "" {
			fields["first_name"] = "first name is required"
		}
		if strings.TrimSpace(f.form.LastName) == "" {
			fields["last_name"] = "last name is required"
		}
	}
	if len(fields) > 0 {
		return &FormError{Fields: fields}
	}
	return nil
}

// RequestCode checks the form, asks for a code and starts the countdown
func (f *OTPFlow) RequestCode(ctx context.Context) error {
	if f.state != OTPForm {
		return fmt.Errorf("%w: cannot request a code while %s", ErrInvalidTransition, f.state)
	}
	if err := f.checkForm(); err != nil {
		return err
	}
	if err := f.sendCode(ctx); err != nil {
		return err
	}
	f.state = OTPCodeRequested
	return nil
}

func (f *OTPFlow) sendCode(ctx context.Context) error {
	resp, err := f.api.RequestOTP(ctx, f.form.Email, f.purpose)
	if err != nil {
		return err
	}
	f.remaining = OTPCountdown
	if resp != nil && resp.ExpiresIn > 0 {
		f.remaining = time.Duration(resp.ExpiresIn) * time.Second
	}
	f.digits = [CodeLength]string{}
	return nil
}

// Tick advances the countdown
func (f *OTPFlow) Tick(elapsed time.Duration) {
	f.remaining -= elapsed
	if f.remaining < 0 {
		f.remaining = 0
	}
}

func (f *OTPFlow) Remaining() time.Duration { return f.remaining }

func (f *OTPFlow) CanResend() bool {
	return f.state == OTPCodeRequested && f.remaining == 0
}

// Resend supersedes the previous code once the countdown ran out
func (f *OTPFlow) Resend(ctx context.Context) error {
	if f.state != OTPCodeRequested {
		return fmt.Errorf("%w: cannot resend while %s", ErrInvalidTransition, f.state)
	}
	if !f.CanResend() {
		return ErrResendNotAllowed
	}
	return f.sendCode(ctx)
}

// SetDigit fills field i with d ("" clears it) and returns the field to focus next
func (f *OTPFlow) SetDigit(i int, d string) (int, error) {
	if f.state != OTPCodeRequested {
		return i, fmt.Errorf("%w: no code was requested", ErrInvalidTransition)
	}
	if i < 0 || i >= CodeLength {
		return i, fmt.Errorf("%w: field %d out of range", ErrInvalidDigit, i)
	}
	if d == "" {
		f.digits[i] = ""
		return i, nil
	}
	if len(d) != 1 || d[0] < '0' || d[0] > '9' {
		return i, ErrInvalidDigit
	}
	f.digits[i] = d
	if i == CodeLength-1 {
		return i, nil
	}
	return i + 1, nil
}

// Paste spreads a 6 digit code over all fields; anything else leaves them as they were
func (f *OTPFlow) Paste(s string) error {
	if f.state != OTPCodeRequested {
		return fmt.Errorf("%w: no code was requested", ErrInvalidTransition)
	}
	s = strings.TrimSpace(s)
	if len(s) != CodeLength {
		return ErrInvalidPaste
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return ErrInvalidPaste
		}
	}
	for i := 0; i < CodeLength; i++ {
		f.digits[i] = s[i : i+1]
	}
	return nil
}

func (f *OTPFlow) Digits() [CodeLength]string { return f.digits }

func (f *OTPFlow) Code() string { return strings.Join(f.digits[:], "") }

// Verify hands the entered code to the backend
func (f *OTPFlow) Verify(ctx context.Context) error {
	if f.state != OTPCodeRequested {
		return fmt.Errorf("%w: cannot verify while %s", ErrInvalidTransition, f.state)
	}
	code := f.Code()
	if len(code) != CodeLength {
		return ErrIncompleteCode
	}
	resp, err := f.api.VerifyOTP(ctx, f.form.Email, f.purpose, code)
	if err != nil {
		return err
	}
	f.token = resp.VerificationToken
	f.state = OTPCodeVerified
	return nil
}

// Complete finishes registration or sets the new password.
// Registration always ends signed out.
func (f *OTPFlow) Complete(ctx context.Context) error {
	if f.state != OTPCodeVerified {
		return fmt.Errorf("%w: cannot complete while %s", ErrInvalidTransition, f.state)
	}

	switch f.purpose {
	case auth.OTPPurposeRegister:
		_, err := f.api.CompleteRegistration(ctx, auth.CompleteRegistrationRequest{
			VerificationToken: f.token,
			FirstName:         strings.TrimSpace(f.form.FirstName),
			LastName:          strings.TrimSpace(f.form.LastName),
			Password:          f.form.Password,
		})
		if err != nil {
			return err
		}
		if f.session != nil {
			f.session.SignOut()
		}

	case auth.OTPPurposeResetPassword:
		err := f.api.ResetPassword(ctx, auth.ResetPasswordRequest{
			VerificationToken: f.token,
			NewPassword:       f.form.Password,
		})
		if err != nil {
			return err
		}
		if f.wasSignIn {
			if _, err := f.api.Login(ctx, f.form.Email, f.form.Password); err != nil {
				// the token is spent, so the flow is done either way
				f.token = ""
				f.state = OTPComplete
				return fmt.Errorf("password changed but signing back in failed: %w", err)
			}
		}

	default:
		return fmt.Errorf("unknown purpose %q", f.purpose)
	}

	f.token = ""
	f.state = OTPComplete
	return nil
}
