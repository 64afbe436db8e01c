package mail

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/travelapp/config"
	"github.com/joy095/travelapp/logger"
	gomail "gopkg.in/gomail.v2"
)

// Email template paths
const (
	bookingConfirmationTemplate = "templates/email/booking_confirmation.html"
	paymentConfirmationTemplate = "templates/email/payment_confirmation.html"
)

var emailTemplates embed.FS

func init() {
	config.LoadEnv()
}

// InitTemplates wires the embedded email templates into the mail package.
// Must be called once at startup before any email is sent.
func InitTemplates(fs embed.FS) {
	emailTemplates = fs
}

// Notifier is the notification collaborator: it accepts a booking id and a
// recipient and delivers out-of-band. Delivery failures are logged, never
// surfaced to callers.
type Notifier interface {
	SendBookingConfirmation(bookingID uuid.UUID, toEmail string)
	SendPaymentConfirmation(bookingID uuid.UUID, toEmail string)
}

// template kinds handled by the queue worker
const (
	kindBookingConfirmation = "booking_confirmation"
	kindPaymentConfirmation = "payment_confirmation"
)

type message struct {
	bookingID uuid.UUID
	toEmail   string
	kind      string
}

// Queue is a best-effort background mail dispatcher. Enqueue is the whole
// contract: completion is never awaited by the request that enqueued, and
// a full queue drops the message with a warning rather than blocking.
type Queue struct {
	ch   chan message
	done chan struct{}
}

// NewQueue starts the background worker and returns the queue.
func NewQueue(buffer int) *Queue {
	q := &Queue{
		ch:   make(chan message, buffer),
		done: make(chan struct{}),
	}
	go q.worker()
	return q
}

// SendBookingConfirmation enqueues a booking confirmation email.
func (q *Queue) SendBookingConfirmation(bookingID uuid.UUID, toEmail string) {
	q.enqueue(message{bookingID: bookingID, toEmail: toEmail, kind: kindBookingConfirmation})
}

// SendPaymentConfirmation enqueues a payment confirmation email.
func (q *Queue) SendPaymentConfirmation(bookingID uuid.UUID, toEmail string) {
	q.enqueue(message{bookingID: bookingID, toEmail: toEmail, kind: kindPaymentConfirmation})
}

func (q *Queue) enqueue(msg message) {
	select {
	case q.ch <- msg:
	default:
		logger.WarnLogger.Warnf("Mail queue full, dropping %s email for booking %s", msg.kind, msg.bookingID)
	}
}

// Close stops the worker after draining queued messages.
func (q *Queue) Close() {
	close(q.ch)
	<-q.done
}

func (q *Queue) worker() {
	defer close(q.done)
	for msg := range q.ch {
		var err error
		switch msg.kind {
		case kindBookingConfirmation:
			err = sendBookingConfirmation(msg.bookingID, msg.toEmail)
		case kindPaymentConfirmation:
			err = sendPaymentConfirmation(msg.bookingID, msg.toEmail)
		}
		if err != nil {
			logger.ErrorLogger.Errorf("Failed to deliver %s email for booking %s: %v", msg.kind, msg.bookingID, err)
		}
	}
}

func sendBookingConfirmation(bookingID uuid.UUID, toEmail string) error {
	logger.InfoLogger.Infof("Sending booking confirmation to %s for booking %s", toEmail, bookingID)
	data := struct {
		BookingID string
		Year      int
	}{
		BookingID: bookingID.String(),
		Year:      time.Now().Year(),
	}
	return sendEmail(toEmail, "Booking Confirmation", bookingConfirmationTemplate, data)
}

func sendPaymentConfirmation(bookingID uuid.UUID, toEmail string) error {
	logger.InfoLogger.Infof("Sending payment confirmation to %s for booking %s", toEmail, bookingID)
	data := struct {
		BookingID string
		Year      int
	}{
		BookingID: bookingID.String(),
		Year:      time.Now().Year(),
	}
	return sendEmail(toEmail, "Payment Successful - Booking Confirmation", paymentConfirmationTemplate, data)
}

// --- Helper function to send email using gomail ---
func sendEmail(toEmail, subject, templatePath string, data interface{}) error {
	mailer := gomail.NewMessage()
	mailer.SetHeader("From", os.Getenv("FROM_EMAIL"))
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)

	t, err := template.ParseFS(emailTemplates, templatePath)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to parse email template %s: %v", templatePath, err)
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		logger.ErrorLogger.Errorf("Failed to execute email template %s: %v", templatePath, err)
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	mailer.SetBody("text/html", body.String())

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		logger.ErrorLogger.Errorf("Invalid SMTP port: %v", err)
		return fmt.Errorf("invalid SMTP port: %w", err)
	}

	smtpHost := os.Getenv("SMTP_HOST")
	smtpUsername := os.Getenv("SMTP_USERNAME")
	smtpPassword := os.Getenv("SMTP_PASSWORD")

	dialer := gomail.NewDialer(smtpHost, port, smtpUsername, smtpPassword)
	dialer.TLSConfig = &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         smtpHost,
	}

	if err := dialer.DialAndSend(mailer); err != nil {
		logger.ErrorLogger.Errorf("Failed to send email to %s: %v", toEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.InfoLogger.Printf("Successfully sent email to %s", toEmail)
	return nil
}
