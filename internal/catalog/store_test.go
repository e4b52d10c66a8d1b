package catalog

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/jkeller/invoicegen/internal/billing"
)

const itemsCSV = `name,description,price,quantity
Widget,A sturdy widget,10.00,7
Gadget,A shiny gadget,5.00,2
`

const clientsCSV = `name,address,location
Acme Corp,1 Main St,"Toronto, ON"
Globex,9 Side Ave,"Ottawa, ON"
`

func TestLoadItemsCSV(t *testing.T) {
	store := NewStore(zap.NewNop())
	require.NoError(t, store.LoadItemsCSV(strings.NewReader(itemsCSV)))

	item, err := store.FindItem("Widget")
	require.NoError(t, err)
	assert.Equal(t, "A sturdy widget", item.Description)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("10.00")))
	// Catalog quantities are reset on load; batch assignment supplies them.
	assert.Equal(t, 0, item.Quantity)

	assert.Len(t, store.Items(), 2)
}

func TestLoadClientsCSV(t *testing.T) {
	store := NewStore(zap.NewNop())
	require.NoError(t, store.LoadClientsCSV(strings.NewReader(clientsCSV)))

	client, err := store.FindClient("Globex")
	require.NoError(t, err)
	assert.Equal(t, "9 Side Ave", client.Address)
	assert.Equal(t, "Ottawa, ON", client.Location)
}

func TestFindMisses(t *testing.T) {
	store := NewStore(zap.NewNop())

	_, err := store.FindItem("Nothing")
	assert.True(t, errors.Is(err, ErrItemNotFound))
	assert.Contains(t, err.Error(), "Nothing")

	_, err = store.FindClient("Nobody")
	assert.True(t, errors.Is(err, ErrClientNotFound))
}

func TestDuplicateNamesFirstRegistrationWins(t *testing.T) {
	store := NewStore(zap.NewNop())

	first, err := billing.NewItem("Widget", "first", decimal.NewFromInt(1), 0)
	require.NoError(t, err)
	second, err := billing.NewItem("Widget", "second", decimal.NewFromInt(2), 0)
	require.NoError(t, err)

	store.AddItem(first)
	store.AddItem(second)

	got, err := store.FindItem("Widget")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Description)
}

func TestBadPriceAbortsWholeLoad(t *testing.T) {
	store := NewStore(zap.NewNop())

	bad := "name,description,price,quantity\nWidget,ok,10.00,1\nGadget,bad,ten dollars,1\n"
	err := store.LoadItemsCSV(strings.NewReader(bad))
	assert.True(t, billing.IsValidation(err))

	// No partial-entity state: the valid first row must not be registered.
	assert.Empty(t, store.Items())
}

func TestReset(t *testing.T) {
	store := NewStore(zap.NewNop())
	require.NoError(t, store.LoadItemsCSV(strings.NewReader(itemsCSV)))
	require.NoError(t, store.LoadClientsCSV(strings.NewReader(clientsCSV)))

	store.Reset()
	assert.Empty(t, store.Items())
	assert.Empty(t, store.Clients())
}

func TestLoadFileRejectsUnknownExtension(t *testing.T) {
	store := NewStore(zap.NewNop())
	err := store.LoadItemsFile("items.json")
	assert.True(t, errors.Is(err, billing.ErrFileFormat))
}

func TestLoadItemsXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"name", "description", "price", "quantity"},
		{"Widget", "A sturdy widget", "10.00", 7},
		{"Gadget", "A shiny gadget", "5.00", 2},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	store := NewStore(zap.NewNop())
	require.NoError(t, store.LoadItemsFile(path))

	item, err := store.FindItem("Gadget")
	require.NoError(t, err)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("5.00")))
	assert.Equal(t, 0, item.Quantity)
}
