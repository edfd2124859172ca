package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"time"

	"lunea_back_end/internal/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"
)

// OrderQRPNG encode la référence de commande en QR (retrait en boutique,
// scan par l'admin).
func OrderQRPNG(reference string) ([]byte, error) {
	return qrcode.Encode(reference, qrcode.Medium, 256)
}

// OrderQRBase64 retourne le QR prêt à mettre dans un <img src="...">
func OrderQRBase64(reference string) (string, error) {
	png, err := OrderQRPNG(reference)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// RenderInvoicePDF rend la facture HTML dans un Chrome headless et
// l'imprime en PDF. Le QR de retrait est incrusté dans l'en-tête.
func RenderInvoicePDF(order models.Order) ([]byte, error) {
	qr, err := OrderQRBase64(order.Reference)
	if err != nil {
		return nil, err
	}

	html := invoiceHTML(order, qr)
	dataURL := "data:text/html;charset=utf-8," + url.PathEscape(html)

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	// timeout pour éviter de bloquer
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte
	err = chromedp.Run(ctx,
		chromedp.Navigate(dataURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
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

func invoiceHTML(order models.Order, qrBase64 string) string {
	rows := ""
	for _, item := range order.Items {
		variant := ""
		if item.Variation != nil {
			variant += " · " + *item.Variation
		}
		if item.Size != nil {
			variant += " · " + *item.Size
		}
		rows += fmt.Sprintf(`
			<tr>
				<td>%s%s</td>
				<td align="center">%d</td>
				<td align="right">%d€</td>
				<td align="right">%d€</td>
			</tr>`, item.Title, variant, item.Quantity, item.Price, item.Price*item.Quantity)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Facture %s</title></head>
<body style="font-family: Arial, sans-serif; padding: 40px;">
	<table width="100%%"><tr>
		<td><h1>Lunéa</h1><p>Facture <strong>%s</strong><br>%s</p></td>
		<td align="right"><img src="%s" width="120" height="120"></td>
	</tr></table>
	<p>%s<br>%s<br>%s</p>
	<table width="100%%" cellpadding="8" style="border-collapse: collapse; border-top: 1px solid #ccc;">
		<tr style="background-color: #f0f0f0;">
			<th align="left">Article</th><th>Qté</th><th align="right">Prix unitaire</th><th align="right">Total</th>
		</tr>
		%s
	</table>
	<h3 align="right">Total : %d€</h3>
	<p align="right" style="color: #2e7d32;">Remises appliquées : -%d€</p>
</body>
</html>`,
		order.Reference, order.Reference, order.CreatedAt.Format("02/01/2006"),
		qrBase64, order.Name, order.Email, order.Address, rows,
		order.AmountTotal, order.Savings)
}
