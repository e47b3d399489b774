package service

import (
	"context"
	"time"

	"nagapos/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	minReportYear = 2000
	maxReportYear = 2100
	dayLayout     = "2006-01-02"
)

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// DateFilter selects sales records by their UTC timestamp.
type DateFilter interface {
	Contains(t time.Time) bool
	Validate() error
}

// ExactDay matches the UTC calendar day that contains Date.
type ExactDay struct {
	Date time.Time
}

func (d ExactDay) Contains(t time.Time) bool {
	y1, m1, d1 := d.Date.UTC().Date()
	y2, m2, d2 := t.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (d ExactDay) Validate() error {
	if d.Date.IsZero() {
		return domain.NewValidationError("date", "is required")
	}
	return nil
}

func (d ExactDay) String() string {
	return d.Date.UTC().Format(dayLayout)
}

type YearMonth struct {
	Year  int
	Month int
}

func (ym YearMonth) Contains(t time.Time) bool {
	utc := t.UTC()
	return utc.Year() == ym.Year && int(utc.Month()) == ym.Month
}

func (ym YearMonth) Validate() error {
	if ym.Year < minReportYear || ym.Year > maxReportYear {
		return domain.NewValidationError("year", "must be between 2000 and 2100")
	}
	if ym.Month < 1 || ym.Month > 12 {
		return domain.NewValidationError("month", "must be between 1 and 12")
	}
	return nil
}

// MonthName resolves 1-12 to its English name.
func MonthName(month int) (string, error) {
	if month < 1 || month > 12 {
		return "", domain.NewValidationError("month", "must be between 1 and 12")
	}
	return monthNames[month-1], nil
}

type ReportResult struct {
	Items        []domain.ReportItem
	TotalRevenue decimal.Decimal
}

// Aggregate groups the line items of every matching sales record by product
// name, keeping the order in which names are first seen.
func Aggregate(sales []domain.SalesRecord, filter DateFilter) (ReportResult, error) {
	if err := filter.Validate(); err != nil {
		return ReportResult{}, err
	}

	items := make([]domain.ReportItem, 0)
	index := make(map[string]int)
	for _, sale := range sales {
		if !filter.Contains(sale.Date) {
			continue
		}
		for _, line := range sale.Items {
			pos, ok := index[line.ProductName]
			if !ok {
				pos = len(items)
				index[line.ProductName] = pos
				items = append(items, domain.ReportItem{ProductName: line.ProductName, Revenue: decimal.Zero})
			}
			items[pos].Quantity += line.Quantity
			items[pos].Revenue = items[pos].Revenue.Add(line.LineTotal())
		}
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Revenue)
	}
	return ReportResult{Items: items, TotalRevenue: total}, nil
}

func (s *Service) DailyReport(ctx context.Context, day time.Time) (domain.DailyReport, error) {
	var filter ExactDay
	if !day.IsZero() {
		utc := day.UTC()
		filter.Date = time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	}
	doc, err := s.store.Load(ctx)
	if err != nil {
		return domain.DailyReport{}, err
	}
	result, err := Aggregate(doc.Sales, filter)
	if err != nil {
		return domain.DailyReport{}, err
	}
	return domain.DailyReport{
		Date:         filter.String(),
		Items:        result.Items,
		TotalRevenue: result.TotalRevenue,
	}, nil
}

func (s *Service) MonthlyReport(ctx context.Context, year, month int) (domain.MonthlyReport, error) {
	filter := YearMonth{Year: year, Month: month}
	if err := filter.Validate(); err != nil {
		return domain.MonthlyReport{}, err
	}
	name, err := MonthName(month)
	if err != nil {
		return domain.MonthlyReport{}, err
	}
	doc, err := s.store.Load(ctx)
	if err != nil {
		return domain.MonthlyReport{}, err
	}
	result, err := Aggregate(doc.Sales, filter)
	if err != nil {
		return domain.MonthlyReport{}, err
	}
	return domain.MonthlyReport{
		Month:        name,
		Year:         year,
		Items:        result.Items,
		TotalRevenue: result.TotalRevenue,
	}, nil
}
