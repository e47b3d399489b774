package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the JSON API under /api. When staticDir is set, other GET
// requests are served from it with index.html as the fallback page.
func NewRouter(handler *Handler, staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(Logger(handler.log))
	r.Use(Recoverer(handler.log))
	r.Use(Timeout)
	r.Use(CORS)
	r.Use(LimitBody)

	r.NotFound(staticFallback(staticDir))
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.Health)

		r.Get("/products", handler.ListProducts)
		r.Post("/products", handler.CreateProduct)
		r.Post("/products/import-excel", handler.ImportProductsExcel)
		r.Put("/products/{id}", handler.UpdateProduct)
		r.Delete("/products/{id}", handler.DeleteProduct)

		r.Get("/invoices", handler.ListInvoices)
		r.Post("/invoices", handler.CreateInvoice)
		r.Get("/invoices/{id}", handler.GetInvoice)

		r.Get("/reports/daily", handler.DailyReport)
		r.Get("/reports/daily/export", handler.ExportDailyReport)
		r.Get("/reports/monthly", handler.MonthlyReport)
		r.Get("/reports/monthly/export", handler.ExportMonthlyReport)
	})

	return r
}
