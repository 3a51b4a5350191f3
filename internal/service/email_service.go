package service

import (
	"context"
	"fmt"
	"time"

	"swiftcare/internal/model"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// EmailSender delivers a single email. Implementations must be safe for
// concurrent use.
type EmailSender interface {
	Send(subject, plainText, htmlContent, toEmail string) error
}

// EmailService sends transactional emails. Delivery is best-effort: every
// failure is logged and swallowed so the triggering operation never fails
// because of email.
type EmailService interface {
	SendWelcome(user *model.User)
	SendBookingConfirmation(recipient *model.User, booking *model.Booking)
}

type emailService struct {
	sender EmailSender
}

// NewEmailService creates an EmailService. When apiKey is empty the service
// degrades to logged simulation instead of failing at startup.
func NewEmailService(apiKey, from string) EmailService {
	if apiKey == "" {
		logrus.Warn("SENDGRID_API_KEY is not set, email sending will be simulated")
		return &emailService{sender: &simulatedSender{}}
	}
	return &emailService{sender: &sendGridSender{apiKey: apiKey, from: from}}
}

// NewEmailServiceWithSender wires a custom sender, used in tests
func NewEmailServiceWithSender(sender EmailSender) EmailService {
	return &emailService{sender: sender}
}

func (s *emailService) SendWelcome(user *model.User) {
	subject := "Welcome to SwiftCare"
	plain := fmt.Sprintf("Hi %s,\n\nYour SwiftCare account is ready. You can now book appointments with our doctors.\n", user.FirstName)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your SwiftCare account is ready. You can now book appointments with our doctors.</p>", user.FirstName)

	if err := s.sender.Send(subject, plain, html, user.Email); err != nil {
		logrus.WithError(err).WithField("recipient", user.Email).Error("Failed to send welcome email")
	}
}

func (s *emailService) SendBookingConfirmation(recipient *model.User, booking *model.Booking) {
	subject := "Your SwiftCare booking"
	when := booking.ScheduledTime.Format("2006-01-02 15:04 MST")
	plain := fmt.Sprintf("Hi %s,\n\nYour booking %s is %s for %s.\n", recipient.FirstName, booking.ID, booking.Status, when)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your booking <strong>%s</strong> is %s for %s.</p>", recipient.FirstName, booking.ID, booking.Status, when)
	if booking.MeetLink != nil {
		plain += fmt.Sprintf("\nJoin here: %s\n", *booking.MeetLink)
		html += fmt.Sprintf("<p>Join here: <a href=%q>%s</a></p>", *booking.MeetLink, *booking.MeetLink)
	}

	if err := s.sender.Send(subject, plain, html, recipient.Email); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"recipient":  recipient.Email,
			"booking_id": booking.ID,
		}).Error("Failed to send booking confirmation email")
	}
}

// sendGridSender delivers through the SendGrid API
type sendGridSender struct {
	apiKey string
	from   string
}

func (s *sendGridSender) Send(subject, plainText, htmlContent, toEmail string) error {
	from := mail.NewEmail("SwiftCare", s.from)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}
	return nil
}

// simulatedSender logs instead of delivering; used when no provider
// credential is configured
type simulatedSender struct{}

func (s *simulatedSender) Send(subject, plainText, _ string, toEmail string) error {
	logrus.WithFields(logrus.Fields{
		"to":      toEmail,
		"subject": subject,
	}).Infof("[simulated email] %s", plainText)
	return nil
}
