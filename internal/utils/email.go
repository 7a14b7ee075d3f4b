package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"velora_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

func SendConfirmationEmail(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@velora.shop"
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("facture_velora.pdf", bytes.NewReader(pdfAttachment))
	}

	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "ssl0.ovh.net"
	}

	client, err := mail.NewClient(host,
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

// GenerateInvoicePDF génère la facture PDF d'une commande
func GenerateInvoicePDF(order models.Order) ([]byte, error) {
	orderID := order.ID.String()
	frontURL := GetFrontendInvoiceBaseURL()

	iban := os.Getenv("COMPANY_IBAN")
	if iban == "" {
		iban = "BE12345678901234"
	}
	bic := os.Getenv("COMPANY_BIC")
	if bic == "" {
		bic = "KREDBEBB"
	}
	companyName := os.Getenv("COMPANY_NAME")
	if companyName == "" {
		companyName = "Velora SRL"
	}
	ref := fmt.Sprintf("FACT-%s", order.OrderNumber)

	qrBase64, err := GenerateSepaQR(iban, bic, companyName, ref, order.Total)
	if err != nil {
		return nil, fmt.Errorf("erreur génération QR: %v", err)
	}

	return RenderInvoicePDF(frontURL, orderID, qrBase64)
}
