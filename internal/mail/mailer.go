package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// SMTPMailer sends order confirmation emails over plain SMTP. With an empty
// address the mailer is disabled and sends become no-ops, so local setups
// work without a mail server.
type SMTPMailer struct {
	addr     string
	from     string
	storeURL string
	logger   *zap.Logger
}

// NewSMTPMailer creates a new mailer
func NewSMTPMailer(addr, from, storeURL string) *SMTPMailer {
	return &SMTPMailer{
		addr:     addr,
		from:     from,
		storeURL: storeURL,
		logger:   util.GetLogger(),
	}
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Helvetica, Arial, sans-serif; background-color: #000; color: #fff; margin: 0; padding: 0;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #111; padding: 40px 20px;">
    <h1 style="font-size: 24px;">&iexcl;Gracias por tu compra!</h1>
    <p>Hola {{.CustomerName}},</p>
    <p>Hemos recibido tu pedido y lo estamos procesando. Aqu&iacute; est&aacute;n los detalles:</p>
    <p style="font-size: 12px; color: #888; text-transform: uppercase;">Orden #</p>
    <p style="font-size: 18px; font-weight: bold;">{{.OrderID}}</p>
    <table style="width: 100%; border-collapse: collapse;">
      <thead>
        <tr>
          <th style="text-align: left; padding: 10px; border-bottom: 1px solid #555;">Producto</th>
          <th style="text-align: center; padding: 10px; border-bottom: 1px solid #555;">Cant.</th>
          <th style="text-align: right; padding: 10px; border-bottom: 1px solid #555;">Precio</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td style="padding: 10px; border-bottom: 1px solid #333;">{{.Name}}{{if .Size}}<br><span style="font-size: 12px; color: #888;">Talla: {{.Size}}</span>{{end}}</td>
          <td style="padding: 10px; border-bottom: 1px solid #333; text-align: center;">{{.Quantity}}</td>
          <td style="padding: 10px; border-bottom: 1px solid #333; text-align: right;">${{.Price}}</td>
        </tr>
        {{end}}
      </tbody>
      <tfoot>
        <tr>
          <td colspan="2" style="padding: 15px 10px; text-align: right; font-weight: bold;">Total</td>
          <td style="padding: 15px 10px; text-align: right; font-weight: bold;">${{.Total}}</td>
        </tr>
      </tfoot>
    </table>
    {{if .Address}}
    <p>Enviaremos tus productos a:</p>
    <p>{{.Address}}{{if .City}}<br>{{.City}}{{if .Zip}}, {{.Zip}}{{end}}{{end}}</p>
    {{end}}
    <p style="text-align: center;"><a href="{{.StoreURL}}/account/orders" style="display: inline-block; padding: 15px 30px; background-color: #fff; color: #000; text-decoration: none; font-weight: bold;">Ver mi Pedido</a></p>
  </div>
</body>
</html>`))

type confirmationData struct {
	OrderID      int64
	CustomerName string
	Items        []models.OrderItemData
	Total        string
	Address      string
	City         string
	Zip          string
	StoreURL     string
}

// SendOrderConfirmation sends the purchase confirmation for one order.
func (m *SMTPMailer) SendOrderConfirmation(ctx context.Context, event *models.OrderCreatedEvent) error {
	if m.addr == "" {
		m.logger.Debug("Mailer disabled, skipping confirmation email",
			zap.Int64("order_id", event.OrderID))
		return nil
	}
	if event.CustomerEmail == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	name := event.CustomerName
	if name == "" {
		name = "cliente"
	}
	zip := event.ShippingDetails.String("zip")
	if zip == "" {
		zip = event.ShippingDetails.String("postalCode")
	}

	var body bytes.Buffer
	err := confirmationTmpl.Execute(&body, confirmationData{
		OrderID:      event.OrderID,
		CustomerName: name,
		Items:        event.Items,
		Total:        event.Total,
		Address:      event.ShippingDetails.String("address"),
		City:         event.ShippingDetails.String("city"),
		Zip:          zip,
		StoreURL:     m.storeURL,
	})
	if err != nil {
		return fmt.Errorf("render confirmation email: %w", err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", event.CustomerEmail)
	fmt.Fprintf(&msg, "Subject: Confirmacion de Orden #%d\r\n", event.OrderID)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	if err := smtp.SendMail(m.addr, nil, m.from, []string{event.CustomerEmail}, msg.Bytes()); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}

	m.logger.Info("Order confirmation email sent",
		zap.Int64("order_id", event.OrderID))
	return nil
}
