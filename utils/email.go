// utils/email.go
package utils

import (
	"fmt"
	"html"
	"strings"

	"supermarket-erp/models"

	"github.com/keighl/postmark"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client    *postmark.Client
	sender    string
	recipient string
}

// NewEmailService initializes an EmailService that sends from sender to recipient
func NewEmailService(apiToken, sender, recipient string) *EmailService {
	return &EmailService{
		client:    postmark.NewClient(apiToken, ""),
		sender:    sender,
		recipient: recipient,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent, textContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: textContent,
		Tag:      "stock-alert",
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendLowStockAlert notifies the store manager about products at or below their minimum
func (es *EmailService) SendLowStockAlert(items []models.StockItem) error {
	if len(items) == 0 {
		return nil
	}
	subject, htmlBody, textBody := lowStockMessage(items)
	return es.SendEmail(es.recipient, subject, htmlBody, textBody)
}

func lowStockMessage(items []models.StockItem) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Alerte stock : %d produit(s) à réapprovisionner", len(items))

	var h, t strings.Builder
	h.WriteString("<strong>Les produits suivants sont en stock faible ou en rupture :</strong><ul>")
	for _, it := range items {
		fmt.Fprintf(&h, "<li>%s (%s) : %d en stock, minimum %d</li>",
			html.EscapeString(it.Name), html.EscapeString(it.SKU), it.CurrentStock, it.MinStock)
		fmt.Fprintf(&t, "- %s (%s): %d en stock, minimum %d\n", it.Name, it.SKU, it.CurrentStock, it.MinStock)
	}
	h.WriteString("</ul>")
	return subject, h.String(), t.String()
}
