package utils

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// BillEmailData is the subset of bill fields the email needs.
type BillEmailData struct {
	ReferenceCode string
	GuestName     string
	Subtotal      string
	Tax           string
	Discount      string
	Total         string
	Paid          string
	Balance       string
	Currency      string
}

// SendBillEmail sends the current bill summary to the guest. Failure is
// reported to the caller but never rolls back billing state. When SMTP
// env vars are missing the email is mock-logged instead (useful in dev).
func SendBillEmail(recipientEmail string, data BillEmailData) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")
	fromName := EnvOrDefault("SMTP_FROM_NAME", "Horizon Hotel")

	if smtpUser == "" || smtpPass == "" || smtpHost == "" || smtpPort == "" {
		log.WithFields(log.Fields{
			"to":        recipientEmail,
			"reference": data.ReferenceCode,
			"balance":   data.Balance,
		}).Info("[MOCK EMAIL] bill summary")
		return nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}

	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)
	to := []string{recipientEmail}
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	subject := fmt.Sprintf("Your bill for reservation %s", safe(data.ReferenceCode))
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Here is the current bill for your stay (reservation %s):\n\n"+
			"  Subtotal: %s %s\n"+
			"  Tax:      %s %s\n"+
			"  Discount: %s %s\n"+
			"  Total:    %s %s\n"+
			"  Paid:     %s %s\n"+
			"  Balance:  %s %s\n\n"+
			"Thank you for staying with us.\n",
		safe(data.GuestName), safe(data.ReferenceCode),
		data.Subtotal, data.Currency,
		data.Tax, data.Currency,
		data.Discount, data.Currency,
		data.Total, data.Currency,
		data.Paid, data.Currency,
		data.Balance, data.Currency,
	)

	msg := strings.Join([]string{
		"From: " + from,
		"To: " + recipientEmail,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, smtpUser, to, []byte(msg)); err != nil {
		return fmt.Errorf("send bill email: %w", err)
	}
	return nil
}
