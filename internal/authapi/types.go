package authapi

// User is the admin account record issued by the backend on login.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Company  string `json:"company,omitempty"`
	Role     string `json:"role"`
}

// Session is a fully authenticated session payload.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RememberedSession struct {
	Success   bool   `json:"success"`
	AutoLogin bool   `json:"autoLogin"`
	Token     string `json:"token,omitempty"`
	User      *User  `json:"user,omitempty"`
}

type VerifyLoginRequest struct {
	Email      string `json:"email"`
	Code       string `json:"code"`
	RememberMe bool   `json:"rememberMe"`
}

// LoginResult is the answer to a verified login code. The backend decides
// which second factor step comes next.
type LoginResult struct {
	RequiresTwoFactorSetup bool   `json:"requiresTwoFactorSetup"`
	RequiresTwoFactor      bool   `json:"requiresTwoFactor"`
	SetupToken             string `json:"setupToken,omitempty"`
	Token                  string `json:"token,omitempty"`
	User                   *User  `json:"user,omitempty"`
}

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Company  string `json:"company,omitempty"`
	Role     string `json:"role"`
}

type EmailVerification struct {
	SetupToken string `json:"setupToken,omitempty"`
}

type TwoFactorSecret struct {
	Secret string `json:"secret"`
	QRCode string `json:"qrCode"`
}

type TwoFactorSetupResult struct {
	RecoveryCodes []string `json:"recoveryCodes"`
	Token         string   `json:"token,omitempty"`
	User          *User    `json:"user,omitempty"`
}

// TwoFactorLoginRequest carries exactly one of Code or RecoveryCode.
type TwoFactorLoginRequest struct {
	Email        string `json:"email"`
	Code         string `json:"code,omitempty"`
	RecoveryCode string `json:"recoveryCode,omitempty"`
	RememberMe   bool   `json:"rememberMe"`
}

type TwoFactorLoginResult struct {
	Session
	DeviceToken string `json:"deviceToken,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
