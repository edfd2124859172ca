package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"strconv"

	"lunea_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

// sendEmail envoie un e-mail HTML via le SMTP configuré. Best effort :
// sans SMTP_HOST on logge et on abandonne, jamais d'erreur remontée au
// parcours d'achat.
func sendEmail(to, subject, htmlBody string, attachName string, attachment []byte) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("⚠️ SMTP_HOST non configuré — e-mail ignoré:", subject)
		return nil
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@lunea.shop"
	}

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if attachment != nil {
		msg.AttachReader(attachName, bytes.NewReader(attachment))
	}

	client, err := mail.NewClient(host,
		mail.WithPort(port),
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

// SendOrderConfirmation envoie la confirmation de commande au client.
// Appelée en goroutine, l'échec est loggé et n'annule jamais la commande.
func SendOrderConfirmation(order models.Order) {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%d€</td>
				<td>%d€</td>
			</tr>`, item.Title, item.Quantity, item.Price, item.Price*item.Quantity)
	}

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Confirmation de commande</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Merci pour votre commande !</h2>
		<p>Bonjour %s,</p>
		<p>Votre commande <strong>%s</strong> a bien été enregistrée.</p>
		<table width="100%%" cellpadding="8" style="border-collapse: collapse;">
			<tr style="background-color: #f0f0f0;">
				<th align="left">Article</th><th>Qté</th><th>Prix</th><th>Total</th>
			</tr>
			%s
		</table>
		<p style="font-size: 18px;"><strong>Total : %d€</strong></p>
		<p style="color: #2e7d32;">Vous avez économisé %d€ grâce aux remises en cours.</p>
		<p>L'équipe Lunéa</p>
	</div>
</body>
</html>`, order.Name, order.Reference, itemsHTML, order.AmountTotal, order.Savings)

	if err := sendEmail(order.Email, "Confirmation de votre commande "+order.Reference, body, "", nil); err != nil {
		log.Printf("❌ Envoi confirmation commande %s échoué: %v", order.Reference, err)
	}
}

// SendContactNotification prévient la boutique qu'un message de contact
// vient d'arriver.
func SendContactNotification(msg models.ContactMessage) {
	to := os.Getenv("SHOP_CONTACT_EMAIL")
	if to == "" {
		return
	}

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif;">
	<h3>Nouveau message de contact</h3>
	<p><strong>De :</strong> %s (%s)</p>
	<p><strong>Sujet :</strong> %s</p>
	<p>%s</p>
</body>
</html>`, msg.Name, msg.Email, msg.Subject, msg.Message)

	if err := sendEmail(to, "Nouveau message: "+msg.Subject, body, "", nil); err != nil {
		log.Printf("❌ Notification contact échouée: %v", err)
	}
}
