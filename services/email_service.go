package services

import (
	"fmt"
	"log"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"

	"github.com/akkervarken/webshop-api/config"
)

// sendTimeout bounds a single SMTP delivery so a slow relay cannot stall
// the order placement response.
const sendTimeout = 10 * time.Second

// OrderEmailItem is one order line as rendered in notification emails
type OrderEmailItem struct {
	Name     string
	Quantity int
	Subtotal float64
}

// Mailer defines the interface for order notification delivery.
// Implementations report whether the message was actually sent; delivery
// failures are converted to a false outcome, never to an error that could
// fail the enclosing order placement.
type Mailer interface {
	// SendOrderConfirmation sends the confirmation email to the customer
	SendOrderConfirmation(toEmail, customerName string, orderID uint, batchName, pickupInfo string, items []OrderEmailItem, total float64) bool

	// SendOrderNotification sends the new-order notification to the admin
	SendOrderNotification(orderID uint, customerName, customerPhone, customerEmail, batchName, pickupInfo string, items []OrderEmailItem, total float64, notes string) bool
}

// EmailService sends order emails through the configured SMTP relay
type EmailService struct {
	host       string
	port       int
	user       string
	password   string
	fromEmail  string
	adminEmail string
	enabled    bool
}

var mailerInstance Mailer

// InitEmailService initializes the email service from configuration.
// When the relay is not configured, sends are skipped and reported as
// disabled rather than attempted.
func InitEmailService(cfg *config.Config) Mailer {
	service := &EmailService{
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		user:       cfg.SMTPUser,
		password:   cfg.SMTPPassword,
		fromEmail:  cfg.FromEmail,
		adminEmail: cfg.AdminEmail,
		enabled:    cfg.MailConfigured(),
	}

	if !service.enabled {
		log.Println("Email service not configured - emails will not be sent")
	}

	mailerInstance = service
	return mailerInstance
}

// GetEmailService returns the initialized email service instance
func GetEmailService() Mailer {
	return mailerInstance
}

// SetEmailService sets the email service instance (primarily for testing)
func SetEmailService(m Mailer) {
	mailerInstance = m
}

// SendOrderConfirmation sends the order confirmation email to the customer
func (s *EmailService) SendOrderConfirmation(toEmail, customerName string, orderID uint, batchName, pickupInfo string, items []OrderEmailItem, total float64) bool {
	subject := fmt.Sprintf("Bevestiging bestelling #%d - Akkervarken.be", orderID)

	data := confirmationData{
		Name:    customerName,
		OrderID: orderID,
		Batch:   batchName,
		Pickup:  pickupInfo,
		Items:   items,
		Total:   total,
	}

	htmlBody, err := renderTemplate(customerConfirmationHTML, data)
	if err != nil {
		log.Printf("Failed to render customer confirmation email: %v", err)
		return false
	}
	textBody, err := renderTemplate(customerConfirmationText, data)
	if err != nil {
		log.Printf("Failed to render customer confirmation email: %v", err)
		return false
	}

	return s.send(toEmail, subject, htmlBody, textBody)
}

// SendOrderNotification sends the new-order notification email to the admin
func (s *EmailService) SendOrderNotification(orderID uint, customerName, customerPhone, customerEmail, batchName, pickupInfo string, items []OrderEmailItem, total float64, notes string) bool {
	subject := fmt.Sprintf("Nieuwe bestelling #%d - %s", orderID, customerName)

	data := notificationData{
		OrderID: orderID,
		Name:    customerName,
		Phone:   customerPhone,
		Email:   customerEmail,
		Batch:   batchName,
		Pickup:  pickupInfo,
		Items:   items,
		Total:   total,
		Notes:   notes,
	}

	htmlBody, err := renderTemplate(adminNotificationHTML, data)
	if err != nil {
		log.Printf("Failed to render admin notification email: %v", err)
		return false
	}
	textBody, err := renderTemplate(adminNotificationText, data)
	if err != nil {
		log.Printf("Failed to render admin notification email: %v", err)
		return false
	}

	return s.send(s.adminEmail, subject, htmlBody, textBody)
}

// send delivers one multipart message through the SMTP relay with a bounded
// timeout. Any failure is logged and converted to a false outcome.
func (s *EmailService) send(toEmail, subject, htmlBody, textBody string) bool {
	if !s.enabled {
		log.Printf("Email not sent (service disabled): %s to %s", subject, toEmail)
		return false
	}

	msg := email.NewEmail()
	msg.From = s.fromEmail
	msg.To = []string{toEmail}
	msg.Subject = subject
	msg.Text = []byte(textBody)
	msg.HTML = []byte(htmlBody)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.user, s.password, s.host)

	pool, err := email.NewPool(addr, 1, auth)
	if err != nil {
		log.Printf("Failed to connect to mail relay %s: %v", addr, err)
		return false
	}
	defer pool.Close()

	if err := pool.Send(msg, sendTimeout); err != nil {
		log.Printf("Failed to send email to %s: %v", toEmail, err)
		return false
	}

	log.Printf("Email sent successfully to %s: %s", toEmail, subject)
	return true
}
