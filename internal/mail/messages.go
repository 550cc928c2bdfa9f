package mail

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const codeTemplate = "mail-code"

func sendCode(sender MailSender, email string, subject string, vars fiber.Map) error {
	body, err := renderHTML(codeTemplate, vars)
	if err != nil {
		return err
	}
	return sender.Send(&Message{
		To:      []string{email},
		Subject: subject,
		Body:    body,
		IsHTML:  true,
	})
}

func SendLoginCode(sender MailSender, email string, name string, code string, expiresIn time.Duration) error {
	return sendCode(sender, email, "Your admin login code", fiber.Map{
		"name":      name,
		"intro":     "Use this code to sign in to the admin portal:",
		"code":      code,
		"expiresIn": expiresIn.String(),
	})
}

func SendVerificationCode(sender MailSender, email string, name string, code string, expiresIn time.Duration) error {
	return sendCode(sender, email, "Verify your email address", fiber.Map{
		"name":      name,
		"intro":     "Use this code to verify the email address of your new admin account:",
		"code":      code,
		"expiresIn": expiresIn.String(),
	})
}
