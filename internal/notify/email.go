package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"cardwatch/pkg/models"
	"cardwatch/pkg/utils"
)

// Mailer sends restock and test emails over SMTP with the credentials from
// the stored settings. The server address is deployment config; the account
// is user data.
type Mailer struct {
	cfg utils.SMTPConfig

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg utils.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// SendRestock emails the current alert set. Callers gate on
// settings.Enabled and settings.Configured before calling.
func (m *Mailer) SendRestock(settings models.EmailSettings, items []models.TrackedItem) error {
	if len(items) == 0 {
		return nil
	}

	subject := fmt.Sprintf("RESTOCK ALERT: %d items back in stock!", len(items))
	if len(items) == 1 {
		subject = "RESTOCK ALERT: " + items[0].Name
	}

	return m.deliver(settings, subject, restockBody(items))
}

// SendTest verifies the given settings end to end; the SMTP error comes back
// verbatim so the caller can show the user why authentication failed.
func (m *Mailer) SendTest(settings models.EmailSettings) error {
	return m.deliver(settings, "Card Watch - Test Email", testBody())
}

func (m *Mailer) deliver(settings models.EmailSettings, subject, html string) error {
	if !settings.Configured() {
		return fmt.Errorf("email settings incomplete")
	}

	auth := smtp.PlainAuth("", settings.SenderEmail, settings.SenderPassword, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: \"Card Watch\" <%s>\r\n", settings.SenderEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", settings.RecipientEmail)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(html)

	if err := m.send(addr, auth, settings.SenderEmail, []string{settings.RecipientEmail}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func restockBody(items []models.TrackedItem) string {
	var rows strings.Builder
	for _, item := range items {
		img := ""
		if item.ImageURL != nil {
			img = fmt.Sprintf(`<img src="%s" alt="%s" style="width: 60px; height: 60px; object-fit: cover; border-radius: 8px;" />`, *item.ImageURL, item.Name)
		}
		price := "Check price"
		if item.Price != nil {
			price = fmt.Sprintf("$%.2f", *item.Price)
		}
		fmt.Fprintf(&rows, `
      <tr>
        <td style="padding: 12px; border-bottom: 1px solid #333;">%s</td>
        <td style="padding: 12px; border-bottom: 1px solid #333;">
          <strong style="color: #fff;">%s</strong><br/>
          <span style="color: #aaa; font-size: 12px;">%s</span>
        </td>
        <td style="padding: 12px; border-bottom: 1px solid #333; color: #22c55e; font-weight: bold;">%s</td>
        <td style="padding: 12px; border-bottom: 1px solid #333;">
          <a href="%s" style="background: #22c55e; color: #000; padding: 8px 16px; border-radius: 6px; text-decoration: none; font-weight: bold; font-size: 13px;">BUY NOW</a>
        </td>
      </tr>`, img, item.Name, strings.ToUpper(item.Source), price, item.URL)
	}

	plural := ""
	if len(items) > 1 {
		plural = "s"
	}

	return fmt.Sprintf(`
    <div style="background: #0a0a0a; padding: 32px; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;">
      <div style="max-width: 600px; margin: 0 auto; background: #18181b; border-radius: 12px; overflow: hidden; border: 1px solid #27272a;">
        <div style="background: linear-gradient(135deg, #22c55e 0%%, #16a34a 100%%); padding: 24px; text-align: center;">
          <h1 style="margin: 0; color: #000; font-size: 24px;">RESTOCK ALERT!</h1>
          <p style="margin: 4px 0 0; color: #052e16; font-size: 14px;">%d item%s back in stock at MSRP</p>
        </div>
        <div style="padding: 24px;">
          <table style="width: 100%%; border-collapse: collapse;">%s</table>
          <p style="color: #71717a; font-size: 12px; text-align: center; margin-top: 24px;">
            Sent by Card Watch - Pokemon &amp; One Piece MSRP Restock Tracker
          </p>
        </div>
      </div>
    </div>`, len(items), plural, rows.String())
}

func testBody() string {
	return `
    <div style="background: #0a0a0a; padding: 32px; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;">
      <div style="max-width: 600px; margin: 0 auto; background: #18181b; border-radius: 12px; overflow: hidden; border: 1px solid #27272a;">
        <div style="background: linear-gradient(135deg, #eab308 0%, #ca8a04 100%); padding: 24px; text-align: center;">
          <h1 style="margin: 0; color: #000; font-size: 24px;">Test Email</h1>
          <p style="margin: 4px 0 0; color: #422006; font-size: 14px;">Your email notifications are working!</p>
        </div>
        <div style="padding: 24px; text-align: center;">
          <p style="color: #d4d4d8; font-size: 16px;">
            You'll receive emails like this whenever a tracked item restocks at MSRP.
          </p>
          <p style="color: #71717a; font-size: 12px; margin-top: 24px;">
            Sent by Card Watch - Pokemon &amp; One Piece MSRP Restock Tracker
          </p>
        </div>
      </div>
    </div>`
}
