package devbackend

import (
	"context"
	"encoding/base64"
	"errors"
	"image/png"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/khanghh/admin-portal/internal/authapi"
	"github.com/khanghh/admin-portal/internal/mail"
	"github.com/khanghh/admin-portal/internal/store"
	"github.com/khanghh/admin-portal/params"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/valyala/bytebufferpool"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCode = errors.New("invalid code")

const (
	qrCodeSize    = 200
	defaultIssuer = "Admin Portal"
)

type Options struct {
	SigningKey string
	Issuer     string
	NodeID     int64
	HashCost   int
}

// Service is an in-process stand-in for the production auth backend.
type Service struct {
	mu       sync.Mutex
	accounts store.Store[Account]
	codes    store.Store[CodeRecord]
	mailer   mail.MailSender
	node     *snowflake.Node
	tokens   *tokenIssuer
	hashKey  []byte
	issuer   string
	hashCost int
	now      func() time.Time
}

func (s *Service) getAccount(ctx context.Context, email string) (*Account, error) {
	account, err := s.accounts.Get(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	return account, err
}

func (s *Service) saveAccount(ctx context.Context, account *Account) error {
	return s.accounts.Set(ctx, account.Email, *account, 0)
}

func codeKey(purpose codePurpose, email string) string {
	return string(purpose) + ":" + email
}

func (s *Service) issueCode(ctx context.Context, purpose codePurpose, email string, expiresIn time.Duration) (string, error) {
	key := codeKey(purpose, email)
	serial := int64(1)
	if prev, err := s.codes.Get(ctx, key); err == nil {
		serial = prev.Serial + 1
	}
	code := generateOTP(params.DigitCodeLength)
	rec := CodeRecord{
		Hash:      calculateHash(s.hashKey, purpose, email, serial, code),
		Serial:    serial,
		ExpiresAt: s.now().Add(expiresIn),
	}
	if err := s.codes.Set(ctx, key, rec, expiresIn); err != nil {
		return "", err
	}
	return code, nil
}

func (s *Service) getCode(ctx context.Context, key string) (*CodeRecord, error) {
	rec, err := s.codes.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	if !s.now().Before(rec.ExpiresAt) {
		s.codes.Del(ctx, key)
		return nil, ErrCodeNotFound
	}
	return rec, nil
}

// recordFailure counts a wrong answer against rec and drops it once the
// attempts are used up.
func (s *Service) recordFailure(ctx context.Context, key string, rec *CodeRecord) error {
	rec.Attempts++
	attemptsLeft := params.DevCodeMaxAttempts - rec.Attempts
	if attemptsLeft <= 0 {
		if err := s.codes.Del(ctx, key); err != nil {
			return err
		}
		return ErrTooManyAttempts
	}
	if err := s.codes.Set(ctx, key, *rec, rec.ExpiresAt.Sub(s.now())); err != nil {
		return err
	}
	return NewVerifyFailError(attemptsLeft)
}

func (s *Service) verifyCode(ctx context.Context, purpose codePurpose, email string, code string) error {
	key := codeKey(purpose, email)
	rec, err := s.getCode(ctx, key)
	if err != nil {
		return err
	}
	if rec.Hash != calculateHash(s.hashKey, purpose, email, rec.Serial, code) {
		return s.recordFailure(ctx, key, rec)
	}
	return s.codes.Del(ctx, key)
}

func (s *Service) validateTOTP(code string, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, s.now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

func (s *Service) newSession(account *Account) (*authapi.Session, error) {
	token, err := s.tokens.issue(tokenSession, account.Email, params.DevSessionTokenExpiration)
	if err != nil {
		return nil, err
	}
	return &authapi.Session{Token: token, User: account.User()}, nil
}

func (s *Service) RegisterAdmin(ctx context.Context, req authapi.RegisterRequest) error {
	email := normalizeEmail(req.Email)
	fullName := strings.TrimSpace(req.FullName)
	if email == "" || fullName == "" {
		return ErrInvalidRequest
	}
	role := req.Role
	if role == "" {
		role = params.AdminRole
	}
	if role != params.AdminRole {
		return ErrInvalidRequest
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.getAccount(ctx, email)
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return err
	}
	if existing != nil && existing.EmailVerified {
		return ErrAccountExists
	}

	account := &Account{
		ID:        s.node.Generate().String(),
		Email:     email,
		FullName:  fullName,
		Company:   strings.TrimSpace(req.Company),
		Role:      role,
		CreatedAt: s.now(),
	}
	if existing != nil {
		account.ID = existing.ID
		account.CreatedAt = existing.CreatedAt
	}
	if err := s.saveAccount(ctx, account); err != nil {
		return err
	}
	slog.Info("Admin registered", "id", account.ID, "email", email)
	return s.sendVerificationCode(ctx, account)
}

func (s *Service) sendVerificationCode(ctx context.Context, account *Account) error {
	code, err := s.issueCode(ctx, purposeVerify, account.Email, params.DevVerifyCodeExpiration)
	if err != nil {
		return err
	}
	return mail.SendVerificationCode(s.mailer, account.Email, account.FullName, code, params.DevVerifyCodeExpiration)
}

func (s *Service) VerifyEmail(ctx context.Context, email string, code string) (*authapi.EmailVerification, error) {
	email = normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.getAccount(ctx, email)
	if err != nil {
		return nil, err
	}
	if account.EmailVerified {
		return nil, ErrAlreadyVerified
	}
	if err := s.verifyCode(ctx, purposeVerify, email, code); err != nil {
		return nil, err
	}
	account.EmailVerified = true
	if err := s.saveAccount(ctx, account); err != nil {
		return nil, err
	}
	setupToken, err := s.tokens.issue(tokenSetup, email, params.DevSetupTokenExpiration)
	if err != nil {
		return nil, err
	}
	return &authapi.EmailVerification{SetupToken: setupToken}, nil
}

func (s *Service) ResendVerificationCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.getAccount(ctx, email)
	if err != nil {
		return err
	}
	if account.EmailVerified {
		return ErrAlreadyVerified
	}
	return s.sendVerificationCode(ctx, account)
}

func (s *Service) RequestLoginCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.getAccount(ctx, email)
	if err != nil {
		return err
	}
	if !account.EmailVerified {
		return ErrEmailNotVerified
	}
	code, err := s.issueCode(ctx, purposeLogin, email, params.DevLoginCodeExpiration)
	if err != nil {
		return err
	}
	return mail.SendLoginCode(s.mailer, email, account.FullName, code, params.DevLoginCodeExpiration)
}

// VerifyLoginCode checks the emailed code and tells the caller which second
// factor step comes next.
func (s *Service) VerifyLoginCode(ctx context.Context, email string, code string) (*authapi.LoginResult, error) {
	email = normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.getAccount(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.verifyCode(ctx, purposeLogin, email, code); err != nil {
		return nil, err
	}

	if account.TOTPSecret == "" {
		setupToken, err := s.tokens.issue(tokenSetup, email, params.DevSetupTokenExpiration)
		if err != nil {
			return nil, err
		}
		return &authapi.LoginResult{RequiresTwoFactorSetup: true, SetupToken: setupToken}, nil
	}

	pass := CodeRecord{ExpiresAt: s.now().Add(params.DevLoginCodeExpiration)}
	if err := s.codes.Set(ctx, codeKey(purposeTwoFactor, email), pass, params.DevLoginCodeExpiration); err != nil {
		return nil, err
	}
	return &authapi.LoginResult{RequiresTwoFactor: true}, nil
}

func (s *Service) CheckRememberedSession(ctx context.Context, email string, deviceToken string) (*authapi.RememberedSession, error) {
	email = normalizeEmail(email)
	subject, err := s.tokens.parse(tokenDevice, deviceToken)
	if err != nil {
		return nil, err
	}
	if subject != email {
		return nil, ErrTokenInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.getAccount(ctx, email)
	if err != nil {
		return nil, err
	}
	if account.TOTPSecret == "" {
		return nil, ErrTwoFactorNotEnrolled
	}
	session, err := s.newSession(account)
	if err != nil {
		return nil, err
	}
	user := session.User
	return &authapi.RememberedSession{
		Success:   true,
		AutoLogin: true,
		Token:     session.Token,
		User:      &user,
	}, nil
}

func (s *Service) accountForSetup(ctx context.Context, setupToken string) (*Account, error) {
	email, err := s.tokens.parse(tokenSetup, setupToken)
	if err != nil {
		return nil, err
	}
	account, err := s.getAccount(ctx, email)
	if err != nil {
		return nil, err
	}
	if account.TOTPSecret != "" {
		return nil, ErrTwoFactorEnrolled
	}
	return account, nil
}

// GenerateTwoFactorSecret issues a new TOTP secret. Any secret issued before
// it can no longer be confirmed.
func (s *Service) GenerateTwoFactorSecret(ctx context.Context, setupToken string) (*authapi.TwoFactorSecret, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.accountForSetup(ctx, setupToken)
	if err != nil {
		return nil, err
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: account.Email,
	})
	if err != nil {
		return nil, err
	}
	qrCode, err := qrCodeDataURL(key)
	if err != nil {
		return nil, err
	}
	account.PendingSecret = key.Secret()
	if err := s.saveAccount(ctx, account); err != nil {
		return nil, err
	}
	return &authapi.TwoFactorSecret{Secret: key.Secret(), QRCode: qrCode}, nil
}

func qrCodeDataURL(key *otp.Key) (string, error) {
	img, err := key.Image(qrCodeSize, qrCodeSize)
	if err != nil {
		return "", err
	}
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := png.Encode(buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.B), nil
}

func (s *Service) VerifyTwoFactorSetup(ctx context.Context, setupToken string, code string) (*authapi.TwoFactorSetupResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.accountForSetup(ctx, setupToken)
	if err != nil {
		return nil, err
	}
	if account.PendingSecret == "" {
		return nil, ErrNoPendingSecret
	}
	if !s.validateTOTP(code, account.PendingSecret) {
		return nil, ErrInvalidCode
	}

	recoveryCodes := make([]string, params.DevRecoveryCodeCount)
	hashes := make([]string, params.DevRecoveryCodeCount)
	for i := range recoveryCodes {
		recoveryCodes[i] = generateRecoveryCode()
		hash, err := bcrypt.GenerateFromPassword([]byte(recoveryCodes[i]), s.hashCost)
		if err != nil {
			return nil, err
		}
		hashes[i] = string(hash)
	}

	account.TOTPSecret = account.PendingSecret
	account.PendingSecret = ""
	account.RecoveryCodes = hashes
	if err := s.saveAccount(ctx, account); err != nil {
		return nil, err
	}
	slog.Info("Two-factor enrolled", "id", account.ID, "email", account.Email)

	session, err := s.newSession(account)
	if err != nil {
		return nil, err
	}
	user := session.User
	return &authapi.TwoFactorSetupResult{
		RecoveryCodes: recoveryCodes,
		Token:         session.Token,
		User:          &user,
	}, nil
}

// useRecoveryCode removes the matching code so it cannot be used again.
func (s *Service) useRecoveryCode(account *Account, code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	for i, hash := range account.RecoveryCodes {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil {
			account.RecoveryCodes = append(account.RecoveryCodes[:i], account.RecoveryCodes[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Service) VerifyTwoFactorLogin(ctx context.Context, req authapi.TwoFactorLoginRequest) (*authapi.TwoFactorLoginResult, error) {
	email := normalizeEmail(req.Email)
	if (req.Code == "") == (req.RecoveryCode == "") {
		return nil, ErrInvalidRequest
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.getAccount(ctx, email)
	if err != nil {
		return nil, err
	}
	if account.TOTPSecret == "" {
		return nil, ErrTwoFactorNotEnrolled
	}
	key := codeKey(purposeTwoFactor, email)
	pass, err := s.getCode(ctx, key)
	if errors.Is(err, ErrCodeNotFound) {
		return nil, ErrLoginNotVerified
	}
	if err != nil {
		return nil, err
	}

	var ok bool
	if req.Code != "" {
		ok = s.validateTOTP(req.Code, account.TOTPSecret)
	} else if ok = s.useRecoveryCode(account, req.RecoveryCode); ok {
		if err := s.saveAccount(ctx, account); err != nil {
			return nil, err
		}
	}
	if !ok {
		return nil, s.recordFailure(ctx, key, pass)
	}
	if err := s.codes.Del(ctx, key); err != nil {
		return nil, err
	}

	session, err := s.newSession(account)
	if err != nil {
		return nil, err
	}
	result := &authapi.TwoFactorLoginResult{Session: *session}
	if req.RememberMe {
		result.DeviceToken, err = s.tokens.issue(tokenDevice, email, params.RememberDeviceMaxAge)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func NewService(accounts store.Store[Account], codes store.Store[CodeRecord], mailer mail.MailSender, opts Options) (*Service, error) {
	if opts.SigningKey == "" {
		return nil, errors.New("signing key is required")
	}
	node, err := snowflake.NewNode(opts.NodeID)
	if err != nil {
		return nil, err
	}
	if opts.Issuer == "" {
		opts.Issuer = defaultIssuer
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	svc := &Service{
		accounts: accounts,
		codes:    codes,
		mailer:   mailer,
		node:     node,
		hashKey:  []byte(opts.SigningKey),
		issuer:   opts.Issuer,
		hashCost: opts.HashCost,
		now:      time.Now,
	}
	svc.tokens = &tokenIssuer{
		signingKey: []byte(opts.SigningKey),
		issuer:     opts.Issuer,
		now:        func() time.Time { return svc.now() },
	}
	return svc, nil
}
