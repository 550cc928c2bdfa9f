package params

import (
	"fmt"
	"time"
)

const (
	ServerBodyLimit    = 1048576
	ServerIdleTimeout  = 30 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 10 * time.Second
)

const (
	DigitCodeLength       = 6
	ResendCooldown        = 60 * time.Second
	SuccessRedirectDelay  = 2 * time.Second
	EmailVerifiedDelay    = 1500 * time.Millisecond
	CSRFTokenExpiration   = 1 * time.Hour
	BackendTimeout        = 10 * time.Second
	RememberDeviceMaxAge  = 30 * 24 * time.Hour
	SetupSecretExpiration = 30 * time.Minute
	AdminRole             = "admin"
)

const (
	RecoveryCodesFilename = "recovery-codes.txt"
	RecoveryCodesHeader   = "Two-Factor Authentication Recovery Codes\n" +
		"Keep these codes in a safe place. Each code can be used only once.\n" +
		"If you lose access to your authenticator app, these codes are the only way to sign in."
)

// dev backend
const (
	DevLoginCodeExpiration    = 10 * time.Minute
	DevVerifyCodeExpiration   = 30 * time.Minute
	DevCodeMaxAttempts        = 5
	DevSessionTokenExpiration = 24 * time.Hour
	DevSetupTokenExpiration   = 30 * time.Minute
	DevRecoveryCodeCount      = 8
)

var (
	VersionMajor = 0
	VersionMinor = 3
	VersionPatch = 0
	VersionMeta  = "dev"
)

func Version() string {
	v := fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
	if VersionMeta != "" {
		v += "-" + VersionMeta
	}
	return v
}

func VersionWithCommit(gitCommit, gitDate string) string {
	v := Version()
	if len(gitCommit) >= 8 {
		v += "-" + gitCommit[:8]
	}
	if gitDate != "" {
		v += "-" + gitDate
	}
	return v
}
