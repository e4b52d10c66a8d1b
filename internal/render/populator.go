// Package render fills the invoice presentation template from an invoice
// document. Population is a pure function of the invoice and run state, so
// re-populating identical inputs yields byte-identical output.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"github.com/jkeller/invoicegen/internal/billing"
	"go.uber.org/zap"
)

// LineView is one rendered item row.
type LineView struct {
	Name        string
	Description string
	UnitPrice   string
	Quantity    int
	Subtotal    string
}

// InvoiceView is the data handed to the presentation template. Every field
// fills a uniquely-keyed slot.
type InvoiceView struct {
	Title         string
	IssueDate     string
	DueDate       string
	Number        string
	Lines         []LineView
	Subtotal      string
	Tax           string
	TaxPercent    int
	GrandTotal    string
	BrandName     string
	PayTo         string
	Account       string
	Bank          string
	Email         string
	Phone         string
	ClientName    string
	ClientAddress string
	ClientLoc     string
	Terms         string
	Style         template.CSS
}

// Populator executes the invoice template against invoice documents.
type Populator struct {
	tmpl   *template.Template
	style  template.CSS
	logger *zap.Logger
}

// New parses the template and stylesheet text. The stylesheet is inlined
// into every rendered document so the HTML output is self-contained.
func New(templateHTML, style string, logger *zap.Logger) (*Populator, error) {
	tmpl, err := template.New("invoice").Parse(templateHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	return &Populator{
		tmpl:   tmpl,
		style:  template.CSS(style),
		logger: logger,
	}, nil
}

// Load reads the template and stylesheet from disk.
func Load(templatePath, stylePath string, logger *zap.Logger) (*Populator, error) {
	tmplText, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice template: %w", err)
	}
	style, err := os.ReadFile(stylePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read stylesheet: %w", err)
	}
	return New(string(tmplText), string(style), logger)
}

// Populate renders one invoice. The run must have its issuer and terms
// bound, and the invoice must carry a due date.
func (p *Populator) Populate(inv *billing.Invoice, run *billing.Run) ([]byte, error) {
	if err := run.RequireConfigured(); err != nil {
		return nil, err
	}
	if inv.Due.IsZero() {
		return nil, billing.ErrDueNotSet
	}

	view := p.buildView(inv, run)

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to populate invoice %d: %w", inv.ID, err)
	}

	p.logger.Debug("Populated invoice template",
		zap.Int64("invoice", inv.ID),
		zap.Int("lines", len(inv.Lines)),
		zap.String("grand_total", FormatPrice(inv.GrandTotal())))

	return buf.Bytes(), nil
}

func (p *Populator) buildView(inv *billing.Invoice, run *billing.Run) InvoiceView {
	issuer := run.Issuer()

	lines := make([]LineView, 0, len(inv.Lines))
	for _, li := range inv.Lines {
		lines = append(lines, LineView{
			Name:        li.Name,
			Description: li.Description,
			UnitPrice:   FormatPrice(li.UnitPrice),
			Quantity:    li.Quantity,
			Subtotal:    FormatPrice(li.Subtotal()),
		})
	}

	return InvoiceView{
		Title:         fmt.Sprintf("Invoice %d", inv.ID),
		IssueDate:     fmt.Sprintf("Date of issue: %s", billing.FormatDate(inv.Created)),
		DueDate:       fmt.Sprintf("Due by: %s", billing.FormatDate(inv.Due)),
		Number:        fmt.Sprintf("Invoice #%d", inv.ID),
		Lines:         lines,
		Subtotal:      FormatPrice(inv.Subtotal()),
		Tax:           FormatPrice(inv.Tax()),
		TaxPercent:    inv.TaxPercent(),
		GrandTotal:    FormatPrice(inv.GrandTotal()),
		BrandName:     issuer.Name,
		PayTo:         fmt.Sprintf("Pay to: %s", issuer.Name),
		Account:       fmt.Sprintf("Account: %s", issuer.AccountName),
		Bank:          issuer.Bank,
		Email:         issuer.Email,
		Phone:         FormatPhone(issuer.Phone),
		ClientName:    inv.Client.Name,
		ClientAddress: inv.Client.Address,
		ClientLoc:     inv.Client.Location,
		Terms:         run.Terms(),
		Style:         p.style,
	}
}
