package services

import (
	"bytes"
	"html/template"
	"io"
	texttemplate "text/template"
)

// confirmationData parameterizes the customer confirmation templates
type confirmationData struct {
	Name    string
	OrderID uint
	Batch   string
	Pickup  string
	Items   []OrderEmailItem
	Total   float64
}

// notificationData parameterizes the admin notification templates
type notificationData struct {
	OrderID uint
	Name    string
	Phone   string
	Email   string
	Batch   string
	Pickup  string
	Items   []OrderEmailItem
	Total   float64
	Notes   string
}

var customerConfirmationHTML = template.Must(template.New("customer-confirmation.html").Parse(`<html>
<body style="font-family: sans-serif; color: #333;">
  <h2>Bedankt voor je bestelling, {{.Name}}!</h2>
  <p>We hebben je bestelling <strong>#{{.OrderID}}</strong> goed ontvangen.</p>
  <p><strong>Afhaalmoment:</strong> {{.Batch}}<br>
     <strong>Afhaalinfo:</strong> {{.Pickup}}</p>
  <table cellpadding="6" cellspacing="0" border="0">
    <tr><th align="left">Product</th><th align="right">Aantal</th><th align="right">Subtotaal</th></tr>
    {{range .Items}}<tr><td>{{.Name}}</td><td align="right">{{.Quantity}}</td><td align="right">€{{printf "%.2f" .Subtotal}}</td></tr>
    {{end}}
    <tr><td><strong>Totaal</strong></td><td></td><td align="right"><strong>€{{printf "%.2f" .Total}}</strong></td></tr>
  </table>
  <p>Tot binnenkort!<br>Akkervarken.be</p>
</body>
</html>
`))

var customerConfirmationText = texttemplate.Must(texttemplate.New("customer-confirmation.txt").Parse(`Bedankt voor je bestelling, {{.Name}}!

We hebben je bestelling #{{.OrderID}} goed ontvangen.

Afhaalmoment: {{.Batch}}
Afhaalinfo: {{.Pickup}}

Bestelling:
{{range .Items}}  {{.Quantity}}x {{.Name}} - €{{printf "%.2f" .Subtotal}}
{{end}}
Totaal: €{{printf "%.2f" .Total}}

Tot binnenkort!
Akkervarken.be
`))

var adminNotificationHTML = template.Must(template.New("admin-notification.html").Parse(`<html>
<body style="font-family: sans-serif; color: #333;">
  <h2>Nieuwe bestelling #{{.OrderID}}</h2>
  <p><strong>Klant:</strong> {{.Name}}<br>
     <strong>Telefoon:</strong> {{.Phone}}<br>
     <strong>E-mail:</strong> {{.Email}}</p>
  <p><strong>Afhaalmoment:</strong> {{.Batch}}<br>
     <strong>Afhaalinfo:</strong> {{.Pickup}}</p>
  <table cellpadding="6" cellspacing="0" border="0">
    <tr><th align="left">Product</th><th align="right">Aantal</th><th align="right">Subtotaal</th></tr>
    {{range .Items}}<tr><td>{{.Name}}</td><td align="right">{{.Quantity}}</td><td align="right">€{{printf "%.2f" .Subtotal}}</td></tr>
    {{end}}
    <tr><td><strong>Totaal</strong></td><td></td><td align="right"><strong>€{{printf "%.2f" .Total}}</strong></td></tr>
  </table>
  {{if .Notes}}<p><strong>Opmerkingen:</strong> {{.Notes}}</p>{{end}}
</body>
</html>
`))

var adminNotificationText = texttemplate.Must(texttemplate.New("admin-notification.txt").Parse(`Nieuwe bestelling #{{.OrderID}}

Klant: {{.Name}}
Telefoon: {{.Phone}}
E-mail: {{.Email}}

Afhaalmoment: {{.Batch}}
Afhaalinfo: {{.Pickup}}

Bestelling:
{{range .Items}}  {{.Quantity}}x {{.Name}} - €{{printf "%.2f" .Subtotal}}
{{end}}
Totaal: €{{printf "%.2f" .Total}}
{{if .Notes}}
Opmerkingen: {{.Notes}}
{{end}}`))

// executer is satisfied by both html and text templates
type executer interface {
	Execute(wr io.Writer, data any) error
}

// renderTemplate executes a parsed template against data
func renderTemplate(t executer, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
