package utils

import (
	"fmt"
	"log"
	"os"

	"github.com/keighl/postmark"

	"go-sweetshop/models"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
	inbox  string
}

// NewEmailService initializes and returns a new EmailService instance.
// Returns nil when POSTMARK_API_TOKEN is unset; callers treat a nil service
// as "notifications disabled".
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		log.Println("POSTMARK_API_TOKEN not set, email notifications disabled")
		return nil
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: os.Getenv("EMAIL_SENDER"),
		inbox:  os.Getenv("SHOP_INBOX"),
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NotifyOrderConfirmed sends an order confirmation to the customer. Safe to
// call on a nil service.
func (es *EmailService) NotifyOrderConfirmed(toEmail string, order models.Order) {
	if es == nil {
		return
	}
	subject := fmt.Sprintf("Order %s confirmed", order.OrderID)
	htmlContent := fmt.Sprintf(
		"<strong>Thank you for your order!</strong><br><br>Order ID: <strong>%s</strong><br>Total Amount: <strong>₹%.2f</strong><br>Payment Method: <strong>%s</strong><br><br>We will reach out on delivery day.",
		order.OrderID,
		order.TotalAmount,
		order.PaymentMethod,
	)
	if err := es.SendEmail(toEmail, subject, htmlContent); err != nil {
		log.Printf("Failed to send order confirmation to %s: %v", toEmail, err)
	}
}

// NotifyEnquiryReceived forwards a new enquiry to the shop inbox. Safe to
// call on a nil service.
func (es *EmailService) NotifyEnquiryReceived(enquiry models.Enquiry) {
	if es == nil || es.inbox == "" {
		return
	}
	subject := fmt.Sprintf("New enquiry from %s", enquiry.Name)
	htmlContent := fmt.Sprintf(
		"<strong>%s</strong> (%s, %s) asked about <strong>%s</strong>.<br><br>%s",
		enquiry.Name,
		enquiry.Email,
		enquiry.Phone,
		enquiry.Product,
		enquiry.Message,
	)
	if err := es.SendEmail(es.inbox, subject, htmlContent); err != nil {
		log.Printf("Failed to forward enquiry to %s: %v", es.inbox, err)
	}
}
