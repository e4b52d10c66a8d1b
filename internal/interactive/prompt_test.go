package interactive

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jkeller/invoicegen/internal/billing"
)

func configuredRun(t *testing.T) *billing.Run {
	t.Helper()
	run := billing.NewRun()
	issuer, err := billing.NewIssuer("Foobar Labs", "John Keller", "ABC Bank", "billing@example.com", 4165551234)
	require.NoError(t, err)
	run.SetIssuer(issuer)
	run.SetTerms("Net 30.")
	return run
}

func TestBuildInvoiceFromScriptedInput(t *testing.T) {
	input := strings.Join([]string{
		"Acme Corp",     // client name
		"1 Main St",     // address
		"Toronto, ON",   // location
		"Widget",        // item name
		"a widget",      // description
		"10.00",         // unit price
		"3",             // quantity
		"",              // blank name ends the item loop
		"2022-09-14",    // due date
		"",              // tax, blank takes the default
	}, "\n") + "\n"

	var out bytes.Buffer
	session := NewSession(strings.NewReader(input), &out, zap.NewNop())

	inv, err := session.BuildInvoice(configuredRun(t))
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", inv.Client.Name)
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, "Widget", inv.Lines[0].Name)
	assert.Equal(t, 3, inv.Lines[0].Quantity)
	assert.Equal(t, billing.DefaultTaxPercent, inv.TaxPercent())
	assert.Equal(t, "2022-09-14", billing.FormatDate(inv.Due))
}

func TestBuildInvoiceRepromptsOnBadDate(t *testing.T) {
	input := strings.Join([]string{
		"Acme Corp",
		"1 Main St",
		"Toronto, ON",
		"Widget",
		"a widget",
		"10.00",
		"1",
		"",
		"14/09/2022", // rejected
		"2022-09-14", // accepted on retry
		"13",
	}, "\n") + "\n"

	var out bytes.Buffer
	session := NewSession(strings.NewReader(input), &out, zap.NewNop())

	inv, err := session.BuildInvoice(configuredRun(t))
	require.NoError(t, err)
	assert.Equal(t, "2022-09-14", billing.FormatDate(inv.Due))
	assert.Contains(t, out.String(), "try again")
}

// Input ending mid-dialog must abort, not reprompt forever against a closed
// stream.
func TestBuildInvoiceAbortsWhenInputEnds(t *testing.T) {
	input := "Acme Corp\n1 Main St\nToronto, ON\n" // stream ends before any item

	var out bytes.Buffer
	session := NewSession(strings.NewReader(input), &out, zap.NewNop())

	inv, err := session.BuildInvoice(configuredRun(t))
	assert.Nil(t, inv)
	require.Error(t, err)
	assert.ErrorIs(t, err, io.EOF)
}

func TestBuildInvoiceAbortsWhenInputEmpty(t *testing.T) {
	var out bytes.Buffer
	session := NewSession(strings.NewReader(""), &out, zap.NewNop())

	inv, err := session.BuildInvoice(configuredRun(t))
	assert.Nil(t, inv)
	assert.ErrorIs(t, err, io.EOF)
}
