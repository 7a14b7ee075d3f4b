package utils

import (
	"fmt"
	"os"

	"velora_back_end/internal/models"
)

// SendWelcomeEmail envoie un email de bienvenue après inscription
func SendWelcomeEmail(userEmail, userName string) error {
	subject := "🎉 Bienvenue sur Velora !"

	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:3000"
	}

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Bienvenue sur Velora</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f5f5f5;">
    <table role="presentation" style="width: 100%%; border-collapse: collapse; background-color: #f5f5f5;">
        <tr>
            <td style="padding: 40px 20px;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px;">
                    <tr>
                        <td style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); padding: 50px 30px; text-align: center; border-radius: 12px 12px 0 0;">
                            <h1 style="margin: 0; color: #ffffff; font-size: 32px; font-weight: 700;">
                                🎉 Bienvenue sur Velora !
                            </h1>
                            <p style="margin: 15px 0 0 0; color: #ffffff; font-size: 18px; opacity: 0.95;">
                                Bonjour %s
                            </p>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 40px 30px;">
                            <p style="margin: 0 0 25px 0; color: #333333; font-size: 16px; line-height: 1.6;">
                                Merci de vous être inscrit sur <strong>Velora</strong>, votre nouvelle destination shopping en ligne ! 🛍️
                            </p>
                            <table role="presentation" style="width: 100%%; margin: 30px 0;">
                                <tr>
                                    <td style="text-align: center;">
                                        <a href="%s/products" style="display: inline-block; padding: 16px 40px; background-color: #667eea; color: #ffffff; text-decoration: none; border-radius: 8px; font-weight: 600; font-size: 16px;">
                                            🛍️ Commencer mes achats
                                        </a>
                                    </td>
                                </tr>
                            </table>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 20px 30px; text-align: center; color: #999999; font-size: 13px;">
                            L'équipe Velora
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>`, userName, frontend)

	return SendConfirmationEmail(userEmail, subject, html, nil)
}

// GenerateOrderConfirmationHTML génère le HTML de confirmation de commande
func GenerateOrderConfirmationHTML(order models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td style="padding: 10px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%d</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%.2f€</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%.2f€</td>
			</tr>`, item.Name, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	shippingLabel := fmt.Sprintf("%.2f€", order.Shipping)
	if order.Shipping == 0 {
		shippingLabel = "Offerte"
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmation de votre commande %s</h2>
		<p>Bonjour,</p>
		<p>Votre paiement a bien été reçu et votre commande est en cours de préparation.</p>

		<h3>Détails de la commande</h3>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Produit</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Quantité</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Prix unitaire</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
			<tfoot>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right;">Sous-total:</td>
					<td style="padding: 10px;">%.2f€</td>
				</tr>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right;">TVA:</td>
					<td style="padding: 10px;">%.2f€</td>
				</tr>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right;">Livraison:</td>
					<td style="padding: 10px;">%s</td>
				</tr>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right; font-weight: bold;">Total:</td>
					<td style="padding: 10px; font-weight: bold;">%.2f€</td>
				</tr>
			</tfoot>
		</table>

		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe Velora</strong>
		</p>
	</div>
</body>
</html>`, order.OrderNumber, itemsHTML, order.Subtotal, order.Tax, shippingLabel, order.Total)
}
