package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"
)

// GenerateSepaQR génère un QR SEPA (EPC) en base64 prêt à mettre dans <img src="...">
func GenerateSepaQR(iban, bic, name, ref string, amount float64) (string, error) {
	// format EPC basique
	sepa := fmt.Sprintf(`BCD
001
1
SCT
%s
%s
%s
EUR%.2f
%s`, bic, name, iban, amount, ref)

	png, err := qrcode.Encode(sepa, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// RenderInvoicePDF charge la page facture du front et l'imprime en PDF
// frontendURL doit ressembler à: http://localhost:3000/invoice
func RenderInvoicePDF(frontendURL, invoiceID, qrBase64 string) ([]byte, error) {
	q := url.Values{}
	q.Set("id", invoiceID)
	q.Set("qr", qrBase64)

	fullURL := fmt.Sprintf("%s?%s", frontendURL, q.Encode())

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	// timeout pour éviter de bloquer
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		chromedp.Navigate(fullURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4
				WithPaperHeight(11.69).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}

// Helper: récupère l'URL de la page facture du front depuis l'env
func GetFrontendInvoiceBaseURL() string {
	u := os.Getenv("FRONTEND_INVOICE_URL")
	if u == "" {
		// fallback local dev
		return "http://localhost:3000/invoice"
	}
	return u
}
