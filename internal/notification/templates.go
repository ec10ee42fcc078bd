package notification

import (
	"fmt"
	"html"
)

func confirmationSubject(confirmation OrderConfirmation) string {
	return fmt.Sprintf("Your order %s is confirmed", confirmation.OrderID)
}

func renderConfirmationHTML(confirmation OrderConfirmation) string {
	name := confirmation.CustomerName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>This is a confirmation of your order <strong>%s</strong>.</p>
<p>Order total: <strong>%s</strong></p>
<p>If you did not expect this message, please contact the restaurant.</p>
</body></html>`,
		html.EscapeString(name),
		html.EscapeString(confirmation.OrderID),
		formatCents(confirmation.TotalCents),
	)
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
