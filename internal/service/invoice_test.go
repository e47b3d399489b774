package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"nagapos/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id, name string, qty int, price string) domain.LineItem {
	return domain.LineItem{
		ProductID:   id,
		ProductName: name,
		Quantity:    qty,
		Price:       decimal.RequireFromString(price),
	}
}

func TestCreateInvoiceComputesExactTotal(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name  string
		items []domain.LineItem
		want  string
	}{
		{
			name:  "single line",
			items: []domain.LineItem{item("1", "Charger", 2, "199.50")},
			want:  "399.00",
		},
		{
			name: "cents that drift as floats",
			items: []domain.LineItem{
				item("1", "Pouch", 3, "0.10"),
				item("2", "Temper", 1, "0.20"),
			},
			want: "0.50",
		},
		{
			name: "many lines",
			items: []domain.LineItem{
				item("1", "Mobile", 1, "12999.99"),
				item("2", "Remote", 7, "149.95"),
				item("3", "Charger", 10, "0.01"),
			},
			want: "14049.74",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoice, err := svc.CreateInvoice(context.Background(), tt.items)
			require.NoError(t, err)
			assert.Equal(t, tt.want, invoice.Total.StringFixed(2))

			expected := decimal.Zero
			for _, it := range tt.items {
				expected = expected.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
			}
			assert.True(t, expected.Equal(invoice.Total))
		})
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name  string
		items []domain.LineItem
		field string
	}{
		{name: "empty cart", items: []domain.LineItem{}, field: "items"},
		{name: "nil cart", items: nil, field: "items"},
		{name: "missing product id", items: []domain.LineItem{item("", "Charger", 1, "10")}, field: "items[0].productId"},
		{name: "blank product name", items: []domain.LineItem{item("1", "   ", 1, "10")}, field: "items[0].productName"},
		{name: "zero quantity", items: []domain.LineItem{item("1", "Charger", 0, "10")}, field: "items[0].quantity"},
		{name: "negative quantity", items: []domain.LineItem{item("1", "Charger", -2, "10")}, field: "items[0].quantity"},
		{name: "zero price", items: []domain.LineItem{item("1", "Charger", 1, "0")}, field: "items[0].price"},
		{
			name: "negative price on second line",
			items: []domain.LineItem{
				item("1", "Charger", 1, "10"),
				item("2", "Pouch", 1, "-5"),
			},
			field: "items[1].price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateInvoice(context.Background(), tt.items)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	doc, err := svc.store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Invoices)
	assert.Empty(t, doc.Sales)
}

func TestCreateInvoiceAcceptsTinyPositivePrice(t *testing.T) {
	svc := newTestService(t)

	invoice, err := svc.CreateInvoice(context.Background(), []domain.LineItem{item("1", "Sticker", 3, "1e-400")})
	require.NoError(t, err)
	assert.True(t, invoice.Total.IsPositive())
	assert.True(t, invoice.Total.Equal(decimal.RequireFromString("3e-400")))
}

func TestCreateInvoiceAppendsMatchingSalesRecord(t *testing.T) {
	svc := newTestService(t)

	invoice, err := svc.CreateInvoice(context.Background(), []domain.LineItem{
		{ProductID: " 5 ", ProductName: " Charger ", Quantity: 2, Price: decimal.RequireFromString("199.50"), ImageURL: "https://example.com/c.png"},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^INV-\d+-[0-9a-f]{8}$`, invoice.ID)
	assert.Equal(t, "5", invoice.Items[0].ProductID)
	assert.Equal(t, "Charger", invoice.Items[0].ProductName)

	doc, err := svc.store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Invoices, 1)
	require.Len(t, doc.Sales, 1)
	assert.Equal(t, invoice.ID, doc.Sales[0].InvoiceID)
	assert.True(t, doc.Sales[0].Date.Equal(invoice.Date))
	assert.True(t, doc.Sales[0].Total.Equal(invoice.Total))
	assert.Equal(t, invoice.Items, doc.Sales[0].Items)
}

func TestInvoicesInQuickSuccessionGetDistinctIDs(t *testing.T) {
	now := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(t, WithClock(func() time.Time { return now }))

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		invoice, err := svc.CreateInvoice(context.Background(), []domain.LineItem{item("1", "Remote", 1, "99")})
		require.NoError(t, err)
		require.False(t, seen[invoice.ID], "duplicate id %s", invoice.ID)
		seen[invoice.ID] = true
	}
}

func TestInvoiceIDCollisionIsRetried(t *testing.T) {
	now := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	ids := []string{"aaaaaaaa", "aaaaaaaa", "bbbbbbbb"}
	next := 0
	svc := newTestService(t,
		WithClock(func() time.Time { return now }),
		WithIDSource(func() string {
			id := ids[next%len(ids)]
			next++
			return id
		}),
	)

	first, err := svc.CreateInvoice(context.Background(), []domain.LineItem{item("1", "Remote", 1, "99")})
	require.NoError(t, err)
	second, err := svc.CreateInvoice(context.Background(), []domain.LineItem{item("1", "Remote", 1, "99")})
	require.NoError(t, err)

	assert.Equal(t, "INV-1770026400000-aaaaaaaa", first.ID)
	assert.Equal(t, "INV-1770026400000-bbbbbbbb", second.ID)
}

func TestInvoiceIDAllocationGivesUp(t *testing.T) {
	now := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(t,
		WithClock(func() time.Time { return now }),
		WithIDSource(func() string { return "cccccccc" }),
	)

	_, err := svc.CreateInvoice(context.Background(), []domain.LineItem{item("1", "Remote", 1, "99")})
	require.NoError(t, err)
	_, err = svc.CreateInvoice(context.Background(), []domain.LineItem{item("1", "Remote", 1, "99")})
	require.Error(t, err)

	invoices, err := svc.ListInvoices(context.Background())
	require.NoError(t, err)
	assert.Len(t, invoices, 1)
}

func TestListAndGetInvoices(t *testing.T) {
	clock := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	svc := newTestService(t, WithClock(func() time.Time { return clock }))

	older, err := svc.CreateInvoice(context.Background(), []domain.LineItem{item("1", "Remote", 1, "99")})
	require.NoError(t, err)
	clock = clock.Add(time.Hour)
	newer, err := svc.CreateInvoice(context.Background(), []domain.LineItem{item("2", "Pouch", 2, "49")})
	require.NoError(t, err)

	invoices, err := svc.ListInvoices(context.Background())
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, newer.ID, invoices[0].ID)
	assert.Equal(t, older.ID, invoices[1].ID)

	got, err := svc.GetInvoice(context.Background(), older.ID)
	require.NoError(t, err)
	assert.Equal(t, older.ID, got.ID)

	_, err = svc.GetInvoice(context.Background(), "INV-missing")
	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestDecodeLineItems(t *testing.T) {
	items, err := DecodeLineItems([]json.RawMessage{
		json.RawMessage(`{"productId":"5","productName":"Charger","quantity":2,"price":199.50,"imageUrl":"x"}`),
		json.RawMessage(`{"productId":"7","productName":"Pouch","quantity":1,"price":"49.99"}`),
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "199.5", items[0].Price.String())
	assert.Equal(t, "49.99", items[1].Price.String())

	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{name: "text price", raw: `{"productId":"1","productName":"Remote","quantity":1,"price":"abc"}`, field: "items[0].price"},
		{name: "boolean price", raw: `{"productId":"1","productName":"Remote","quantity":1,"price":true}`, field: "items[0].price"},
		{name: "fractional quantity", raw: `{"productId":"1","productName":"Remote","quantity":1.5,"price":1}`, field: "items[0].quantity"},
		{name: "not an object", raw: `"Remote"`, field: "items[0]"},
		{name: "unknown field", raw: `{"productId":"1","discount":2}`, field: "items[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLineItems([]json.RawMessage{json.RawMessage(tt.raw)})
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}
