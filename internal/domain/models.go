package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentVersion is the static schema tag written into every persisted document.
const DocumentVersion = 1

type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// LineItem carries a snapshot of the product name and image taken when the
// cart was built, so later catalog edits never rewrite history.
type LineItem struct {
	ProductID   string          `json:"productId" validate:"required"`
	ProductName string          `json:"productName" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	Price       decimal.Decimal `json:"price" validate:"positive_amount"`
	ImageURL    string          `json:"imageUrl"`
}

func (l LineItem) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Invoice struct {
	ID    string          `json:"id"`
	Date  time.Time       `json:"date"`
	Items []LineItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type SalesRecord struct {
	InvoiceID string          `json:"invoiceId"`
	Date      time.Time       `json:"date"`
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
}

type Document struct {
	Version   int           `json:"version"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Products  []Product     `json:"products"`
	Invoices  []Invoice     `json:"invoices"`
	Sales     []SalesRecord `json:"sales"`
}

// Normalize replaces nil collections so they serialize as empty arrays.
func (d *Document) Normalize() {
	if d.Version == 0 {
		d.Version = DocumentVersion
	}
	if d.Products == nil {
		d.Products = []Product{}
	}
	if d.Invoices == nil {
		d.Invoices = []Invoice{}
	}
	if d.Sales == nil {
		d.Sales = []SalesRecord{}
	}
}

// Clone copies the top-level collections. Invoices and sales are never
// mutated after creation, so their item slices are shared.
func (d Document) Clone() Document {
	out := d
	out.Products = append([]Product(nil), d.Products...)
	out.Invoices = append([]Invoice(nil), d.Invoices...)
	out.Sales = append([]SalesRecord(nil), d.Sales...)
	out.Normalize()
	return out
}

func (d *Document) FindProduct(id string) int {
	for idx, product := range d.Products {
		if product.ID == id {
			return idx
		}
	}
	return -1
}

func (d *Document) HasInvoice(id string) bool {
	for _, invoice := range d.Invoices {
		if invoice.ID == id {
			return true
		}
	}
	return false
}

type ReportItem struct {
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type DailyReport struct {
	Date         string          `json:"date"`
	Items        []ReportItem    `json:"items"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

type MonthlyReport struct {
	Month        string          `json:"month"`
	Year         int             `json:"year"`
	Items        []ReportItem    `json:"items"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

type CatalogRow struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

type CatalogImportResult struct {
	TotalRows int `json:"totalRows"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
}
