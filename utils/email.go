package utils

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService handles sending emails using SendGrid. It is the notification
// side channel for OTPs and listing confirmations.
type EmailService struct {
	client *sendgrid.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		panic("SENDGRID_API_KEY is not set in environment variables")
	}
	return &EmailService{
		client: sendgrid.NewSendClient(apiKey),
		sender: os.Getenv("EMAIL_SENDER"),
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	from := mail.NewEmail("RentMart", es.sender)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, htmlContent, htmlContent)

	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("failed to send email: status %d", resp.StatusCode)
	}
	return nil
}

// SendOTPEmail sends a PIN-reset one-time passcode to the user
func (es *EmailService) SendOTPEmail(toEmail, otp string) error {
	subject := "Your RentMart PIN Reset Code"
	htmlContent := fmt.Sprintf(
		"<strong>Your one-time passcode is %s.</strong><br>It expires in 5 minutes. If you did not request a PIN reset, ignore this email.",
		otp,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendListingConfirmationEmail confirms that an item was listed
func (es *EmailService) SendListingConfirmationEmail(toEmail, itemName string, paid bool) error {
	subject := "Your Item Is Listed"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Your item <strong>%s</strong> is now listed on RentMart and visible to renters.",
		itemName,
	)
	if paid {
		htmlContent += "<br>Your listing fee payment has been received."
	}
	return es.SendEmail(toEmail, subject, htmlContent)
}
