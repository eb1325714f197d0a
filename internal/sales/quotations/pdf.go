package quotations

import (
	"bytes"
	"html/template"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// clp formats whole-peso amounts with es-CL digit grouping ($1.234.567).
func clp(amount decimal.Decimal) string {
	printer := message.NewPrinter(language.MustParse("es-CL"))
	return printer.Sprintf("$%d", amount.Round(0).IntPart())
}

var quotationTemplate = template.Must(template.New("quotation").Funcs(template.FuncMap{
	"clp": clp,
}).Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 40px; color: #222; }
h1 { font-size: 20px; }
.meta { margin-bottom: 24px; }
.meta td { padding: 2px 12px 2px 0; }
table.lines { width: 100%; border-collapse: collapse; }
table.lines th, table.lines td { border-bottom: 1px solid #ccc; padding: 6px 8px; text-align: left; }
table.lines td.amount, table.lines th.amount { text-align: right; }
.totals { margin-top: 16px; float: right; }
.totals td { padding: 3px 8px; text-align: right; }
.notes { clear: both; padding-top: 24px; font-size: 12px; color: #555; }
</style>
</head>
<body>
<h1>Cotización N° {{.SmartCode}}</h1>
<table class="meta">
<tr><td>Cliente</td><td>{{.ClientName}}</td></tr>
<tr><td>Fecha emisión</td><td>{{.IssueDate.Format "02-01-2006"}}</td></tr>
<tr><td>Válida hasta</td><td>{{.ValidUntil.Format "02-01-2006"}}</td></tr>
</table>
<table class="lines">
<tr><th>Descripción</th><th class="amount">Cantidad</th><th class="amount">Precio unitario</th><th class="amount">Total</th></tr>
{{range .Lines}}
<tr><td>{{.Description}}</td><td class="amount">{{.Quantity}}</td><td class="amount">{{clp .UnitPrice}}</td><td class="amount">{{clp .LineTotal}}</td></tr>
{{end}}
</table>
<table class="totals">
<tr><td>Neto</td><td>{{clp .NetAmount}}</td></tr>
<tr><td>IVA</td><td>{{clp .TaxAmount}}</td></tr>
<tr><td><strong>Total</strong></td><td><strong>{{clp .GrossAmount}}</strong></td></tr>
</table>
{{if .Notes}}<p class="notes">{{.Notes}}</p>{{end}}
</body>
</html>`))

// RenderHTML produces the printable document Gotenberg converts to PDF.
func RenderHTML(quotation Quotation) (string, error) {
	var buf bytes.Buffer
	if err := quotationTemplate.Execute(&buf, quotation); err != nil {
		return "", err
	}
	return buf.String(), nil
}
