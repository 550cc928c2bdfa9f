package render

// AuthPageData is everything the auth modal needs for one render. Fields
// that do not apply to the current view are left zero.
type AuthPageData struct {
	CSRFToken    string
	View         string
	Title        string
	CanGoBack    bool
	Errors       map[string]string
	Notice       string
	RefreshAfter int

	// login
	Email         string
	RememberMe    bool
	CodeRequested bool
	ResendIn      int

	// register
	FullName         string
	Organization     string
	AgreeToTerms     bool
	TurnstileSiteKey string

	// verification
	Digits   []string
	Focus    int
	Verified bool
	Resumed  bool

	// 2fa-setup
	SetupStep     int
	Secret        string
	QRCode        string
	RecoveryCodes []string

	// 2fa-login
	Mode string
}

type HomePageData struct {
	CSRFToken string
	FullName  string
	Email     string
	Company   string
	Role      string
}
