package services

import (
	"fmt"
	"log"
	"os"

	"github.com/wneessen/go-mail"

	"vastra_back_end/internal/models"
)

// Mailer envoie les e-mails transactionnels (OTP, confirmations de commande)
type Mailer struct {
	host     string
	username string
	password string
	from     string
}

func NewMailer() *Mailer {
	return &Mailer{
		host:     os.Getenv("SMTP_HOST"),
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("SMTP_FROM"),
	}
}

var _ OrderMailer = (*Mailer)(nil)

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := mail.NewMsg()

	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(m.host,
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

// SendOTP envoie un code de vérification à 6 chiffres
func (m *Mailer) SendOTP(to string, otp int) error {
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Votre code de vérification</h2>
		<p>Bonjour,</p>
		<p>Voici votre code de vérification Vastra :</p>
		<p style="font-size: 32px; font-weight: bold; letter-spacing: 6px;">%06d</p>
		<p>Ce code expire dans 10 minutes.</p>
	</div>
</body>
</html>`, otp)

	return m.send(to, "Votre code de vérification Vastra", body)
}

// SendOrderConfirmation envoie le récapitulatif de commande
func (m *Mailer) SendOrderConfirmation(order *models.Order, email string) error {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%.2f€</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%.2f€</td>
			</tr>`, item.ProductName, item.Quantity, item.ProductPrice,
			item.ProductPrice*float64(item.Quantity))
	}

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmation de votre commande</h2>
		<p>Bonjour,</p>
		<p>Votre commande <b>%s</b> a bien été enregistrée.</p>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Produit</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Quantité</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Prix unitaire</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>%s</tbody>
		</table>
		<p style="font-size: 18px;"><b>Total : %.2f€</b></p>
		<p>Livraison : %s, %s %s, %s</p>
	</div>
</body>
</html>`, order.ID, itemsHTML, order.TotalPrice,
		order.ShippingAddress, order.PostalCode, order.City, order.Country)

	return m.send(email, "Confirmation de votre commande Vastra", body)
}
