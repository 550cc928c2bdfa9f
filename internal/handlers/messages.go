package handlers

var (
	MsgCodeResent          = "A new code has been sent."
	MsgCaptchaFailed       = "Captcha verification failed. Please try again."
	MsgSignInAfterSetup    = "Two-factor authentication is enabled. Please sign in to continue."
	MsgRequestInProgress   = "Your previous request is still being processed."
	MsgTooManyCodeRequests = "Too many code requests. Please wait a moment and try again."
)
