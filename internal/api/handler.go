// Package api implements the browser-facing resource endpoints. Each
// handler translates a REST-ish request into one or more RPC calls,
// reshapes the raw records into flat frontend DTOs and wraps the result in
// the uniform response envelope.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/seej007/SIA-ERP-INVENTORY/internal/mockstore"
	"github.com/seej007/SIA-ERP-INVENTORY/odoo"
)

// Backend is the subset of the RPC client the endpoints use. *odoo.Client
// satisfies it; tests substitute a fake ERP.
type Backend interface {
	Search(ctx context.Context, model odoo.Model, domain odoo.Domain, offset, limit int) ([]int64, error)
	Read(ctx context.Context, model odoo.Model, ids []int64, fields odoo.Fields) ([]odoo.Record, error)
	SearchRead(ctx context.Context, model odoo.Model, domain odoo.Domain, fields odoo.Fields, offset, limit int, order string) ([]odoo.Record, error)
	SearchCount(ctx context.Context, model odoo.Model, domain odoo.Domain) (int64, error)
	Create(ctx context.Context, model odoo.Model, data odoo.Data) (int64, error)
	Write(ctx context.Context, model odoo.Model, ids []int64, data odoo.Data) (bool, error)
	Unlink(ctx context.Context, model odoo.Model, ids []int64) (bool, error)
	FieldsGet(ctx context.Context, model odoo.Model) (map[string]odoo.Record, error)
	Execute(ctx context.Context, model odoo.Model, method string, args ...interface{}) (interface{}, error)
}

// Handler carries the endpoint dependencies.
type Handler struct {
	erp   Backend
	mocks mockstore.Store
	log   *zap.Logger
}

// NewHandler builds the endpoint set.
func NewHandler(erp Backend, mocks mockstore.Store, log *zap.Logger) *Handler {
	return &Handler{erp: erp, mocks: mocks, log: log}
}

// Routes registers every endpoint on the router.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/products", h.GetProducts).Methods(http.MethodGet)
	r.HandleFunc("/products", h.CreateProduct).Methods(http.MethodPost)
	r.HandleFunc("/products", h.UpdateProduct).Methods(http.MethodPut)
	r.HandleFunc("/products", h.DeleteProduct).Methods(http.MethodDelete)
	r.HandleFunc("/products", methodNotAllowed)

	r.HandleFunc("/categories", h.GetCategories).Methods(http.MethodGet)
	r.HandleFunc("/categories", methodNotAllowed)

	r.HandleFunc("/stock", h.GetStock).Methods(http.MethodGet)
	r.HandleFunc("/stock", h.UpdateStock).Methods(http.MethodPost)
	r.HandleFunc("/stock", methodNotAllowed)

	r.HandleFunc("/purchase", h.PurchaseGet).Methods(http.MethodGet)
	r.HandleFunc("/purchase", h.PurchasePost).Methods(http.MethodPost)
	r.HandleFunc("/purchase", methodNotAllowed)

	r.HandleFunc("/dashboard", h.GetDashboard).Methods(http.MethodGet)
	r.HandleFunc("/dashboard", methodNotAllowed)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
}
