package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"nagapos/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const invoiceIDAttempts = 5

// CreateInvoice validates the cart, computes its total and appends the
// invoice together with its sales record in a single store update.
func (s *Service) CreateInvoice(ctx context.Context, items []domain.LineItem) (domain.Invoice, error) {
	lines, err := s.validateLineItems(items)
	if err != nil {
		return domain.Invoice{}, err
	}

	var invoice domain.Invoice
	err = s.store.Update(ctx, func(doc *domain.Document) error {
		now := s.now().UTC().Truncate(time.Millisecond)
		id, err := s.uniqueInvoiceID(doc, now)
		if err != nil {
			return err
		}
		invoice = BuildInvoice(id, now, lines)
		doc.Invoices = append(doc.Invoices, invoice)
		doc.Sales = append(doc.Sales, SalesRecordFor(invoice))
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.log.WithFields(logrus.Fields{
		"invoice_id": invoice.ID,
		"lines":      len(invoice.Items),
		"total":      domain.FormatMoney(invoice.Total),
	}).Info("invoice created")
	return invoice, nil
}

func (s *Service) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	invoices := doc.Invoices
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].Date.After(invoices[j].Date)
	})
	return invoices, nil
}

func (s *Service) GetInvoice(ctx context.Context, id string) (domain.Invoice, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return domain.Invoice{}, err
	}
	for _, invoice := range doc.Invoices {
		if invoice.ID == id {
			return invoice, nil
		}
	}
	return domain.Invoice{}, &domain.NotFoundError{Entity: "invoice", ID: id}
}

// BuildInvoice assembles an invoice from already validated lines.
func BuildInvoice(id string, date time.Time, lines []domain.LineItem) domain.Invoice {
	return domain.Invoice{
		ID:    id,
		Date:  date,
		Items: lines,
		Total: InvoiceTotal(lines),
	}
}

func InvoiceTotal(lines []domain.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

func SalesRecordFor(invoice domain.Invoice) domain.SalesRecord {
	return domain.SalesRecord{
		InvoiceID: invoice.ID,
		Date:      invoice.Date,
		Items:     invoice.Items,
		Total:     invoice.Total,
	}
}

func (s *Service) validateLineItems(items []domain.LineItem) ([]domain.LineItem, error) {
	if len(items) == 0 {
		return nil, domain.NewValidationError("items", "must contain at least one item")
	}
	lines := make([]domain.LineItem, 0, len(items))
	for idx, item := range items {
		item.ProductID = strings.TrimSpace(item.ProductID)
		item.ProductName = strings.TrimSpace(item.ProductName)
		item.ImageURL = strings.TrimSpace(item.ImageURL)
		if err := s.validateStruct(lineField(idx, ""), item); err != nil {
			return nil, err
		}
		lines = append(lines, item)
	}
	return lines, nil
}

func (s *Service) uniqueInvoiceID(doc *domain.Document, now time.Time) (string, error) {
	for attempt := 0; attempt < invoiceIDAttempts; attempt++ {
		id := fmt.Sprintf("INV-%d-%s", now.UnixMilli(), s.randomSuffix())
		if !doc.HasInvoice(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique invoice id after %d attempts", invoiceIDAttempts)
}

func (s *Service) randomSuffix() string {
	suffix := strings.ReplaceAll(s.newID(), "-", "")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return suffix
}

func indexedField(list string, idx int, field string) string {
	return fmt.Sprintf("%s[%d].%s", list, idx, field)
}
