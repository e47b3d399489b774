package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"nagapos/internal/domain"
	"nagapos/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%06d", n)
	}
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	store, err := repository.Open(context.Background(), repository.NewFileBackend(filepath.Join(t.TempDir(), "db.json")))
	require.NoError(t, err)
	return New(store, quietLogger(), opts...)
}

func TestCreateProductRequiresNameAndImage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateProduct(context.Background(), ProductInput{Name: "  ", ImageURL: "https://example.com/a.png"})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)

	_, err = svc.CreateProduct(context.Background(), ProductInput{Name: "Case", ImageURL: ""})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "imageUrl", vErr.Field)
}

func TestProductLifecycle(t *testing.T) {
	svc := newTestService(t, WithIDSource(sequentialIDs()))
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, ProductInput{Name: " Back Cover ", ImageURL: " https://example.com/cover.png "})
	require.NoError(t, err)
	assert.Equal(t, "id000001", created.ID)
	assert.Equal(t, "Back Cover", created.Name)
	assert.Equal(t, "https://example.com/cover.png", created.ImageURL)

	blank := "   "
	renamed := "Silicone Cover"
	updated, err := svc.UpdateProduct(ctx, created.ID, ProductPatch{Name: &renamed, ImageURL: &blank})
	require.NoError(t, err)
	assert.Equal(t, "Silicone Cover", updated.Name)
	assert.Equal(t, "https://example.com/cover.png", updated.ImageURL)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 8)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	products, err = svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 7)
}

func TestUpdateAndDeleteUnknownProduct(t *testing.T) {
	svc := newTestService(t)
	name := "x"

	_, err := svc.UpdateProduct(context.Background(), "missing", ProductPatch{Name: &name})
	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "product", nfErr.Entity)

	err = svc.DeleteProduct(context.Background(), "missing")
	require.ErrorAs(t, err, &nfErr)
}

func TestImportProductsUpsertsByName(t *testing.T) {
	svc := newTestService(t, WithIDSource(sequentialIDs()))
	ctx := context.Background()

	result, err := svc.ImportProducts(ctx, []domain.CatalogRow{
		{Name: "charger", ImageURL: "https://example.com/new-charger.png"},
		{Name: "Power Bank", ImageURL: "https://example.com/power.png"},
		{Name: "POWER BANK", ImageURL: "https://example.com/power-2.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CatalogImportResult{TotalRows: 3, Created: 1, Updated: 2}, result)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 8)
	assert.Equal(t, "https://example.com/new-charger.png", products[4].ImageURL)
	assert.Equal(t, "Power Bank", products[7].Name)
	assert.Equal(t, "https://example.com/power-2.png", products[7].ImageURL)
}

func TestImportProductsRejectsIncompleteRows(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ImportProducts(context.Background(), nil)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "rows", vErr.Field)

	_, err = svc.ImportProducts(context.Background(), []domain.CatalogRow{{Name: "Case"}})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "rows[0].imageUrl", vErr.Field)
}

func TestServiceClockIsUsedForInvoiceDates(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 123456789, time.FixedZone("IST", 5*3600+1800))
	svc := newTestService(t, WithClock(func() time.Time { return now }))

	invoice, err := svc.CreateInvoice(context.Background(), []domain.LineItem{item("1", "Wired Earphones", 1, "150")})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, invoice.Date.Location())
	assert.True(t, invoice.Date.Equal(now.Truncate(time.Millisecond)))
}
