package api

import (
	"net/http"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/seej007/SIA-ERP-INVENTORY/odoo"
)

// productDTO is the flat projection the frontend tables consume.
type productDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Cost        float64 `json:"cost"`
	Stock       float64 `json:"stock"`
	CategoryID  int64   `json:"category_id"`
	Category    string  `json:"category"`
}

type paginationDTO struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

var productListFields = odoo.Fields{
	"id", "name", "description", "list_price", "standard_price",
	"qty_available", "categ_id",
}

// GetProducts lists products with optional name search and pagination.
// Upstream failures degrade to an empty successful listing so the tables
// render instead of erroring out.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	var domain odoo.Domain
	if search := r.URL.Query().Get("search"); search != "" {
		domain = odoo.Domain{{"name", "ilike", search}}
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(r, "limit", 100)
	if limit < 1 {
		respondError(w, "Limit must be a positive integer", http.StatusBadRequest)
		return
	}
	offset := (page - 1) * limit

	emptyListing := map[string]interface{}{
		"products":   []productDTO{},
		"pagination": paginationDTO{Page: page, Limit: limit},
	}

	products, err := h.erp.SearchRead(r.Context(), odoo.ModelProductProduct, domain, productListFields, offset, limit, "")
	if err != nil {
		h.log.Error("product listing failed, degrading to empty result", zap.Error(err))
		respondSuccess(w, emptyListing, "")
		return
	}

	total, err := h.erp.SearchCount(r.Context(), odoo.ModelProductProduct, domain)
	if err != nil {
		h.log.Warn("product count failed, falling back to page size", zap.Error(err))
		total = int64(len(products))
	}

	dtos := make([]productDTO, 0, len(products))
	for _, p := range products {
		categ := p.Rel("categ_id")
		dtos = append(dtos, productDTO{
			ID:          p.Int("id"),
			Name:        p.Str("name"),
			Description: p.Str("description"),
			Price:       p.Float("list_price"),
			Cost:        p.Float("standard_price"),
			Stock:       p.Float("qty_available"),
			CategoryID:  categ.ID,
			Category:    categ.LabelOr("Uncategorized"),
		})
	}

	respondSuccess(w, map[string]interface{}{
		"products": dtos,
		"pagination": paginationDTO{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: totalPages(total, limit),
		},
	}, "")
}

// CreateProduct creates a product template plus its variant. Validation
// happens entirely before the first RPC call.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	data := decodeBody(r)

	if data.str("name") == "" {
		respondError(w, "Product name is required", http.StatusBadRequest)
		return
	}
	price, ok := data.number("price")
	if !ok {
		respondError(w, "Please enter a valid sale price", http.StatusBadRequest)
		return
	}
	if price < 0 {
		respondError(w, "Sale price cannot be negative", http.StatusBadRequest)
		return
	}
	cost, ok := data.number("cost")
	if !ok {
		respondError(w, "Please enter a valid cost price", http.StatusBadRequest)
		return
	}
	if cost < 0 {
		respondError(w, "Cost price cannot be negative", http.StatusBadRequest)
		return
	}

	categoryID, ok := data.integer("category_id")
	if !ok || categoryID == 0 {
		categoryID = 1
	}
	trackInventory := data.boolean("track_inventory", true)

	productData := odoo.Data{
		"name":           data.str("name"),
		"categ_id":       categoryID,
		"list_price":     price,
		"standard_price": cost,
		"sale_ok":        true,
		"purchase_ok":    true,
	}
	if trackInventory {
		productData["tracking"] = "none"
	}
	if desc := data.str("description"); desc != "" {
		productData["description"] = desc
	}

	templateID, err := h.erp.Create(r.Context(), odoo.ModelProductTemplate, productData)
	if err != nil {
		respondError(w, "Failed to create product: "+err.Error(), http.StatusInternalServerError)
		return
	}

	variantIDs, err := h.erp.Search(r.Context(), odoo.ModelProductProduct,
		odoo.Domain{{"product_tmpl_id", "=", templateID}}, 0, 0)
	if err != nil || len(variantIDs) == 0 {
		respondError(w, "Product template created but failed to find product variant", http.StatusInternalServerError)
		return
	}
	productID := variantIDs[0]

	// Initial stock is best effort: the product exists either way.
	if initial, ok := data.number("initial_stock"); ok && trackInventory && initial > 0 {
		if _, err := h.erp.Write(r.Context(), odoo.ModelProductProduct,
			[]int64{productID}, odoo.Data{"qty_available": initial}); err != nil {
			h.log.Warn("initial stock write failed",
				zap.Int64("product_id", productID),
				zap.Float64("initial_stock", initial),
				zap.Error(err),
			)
		}
	}

	respondSuccess(w, map[string]interface{}{"product_id": productID}, "Product created successfully")
}

// UpdateProduct performs a partial field merge: only the supplied keys are
// written, omitted fields are never touched.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	data := decodeBody(r)

	productID, ok := data.integer("id")
	if !ok || productID == 0 {
		respondError(w, "Product ID is required", http.StatusBadRequest)
		return
	}

	update := odoo.Data{}
	if name := data.str("name"); name != "" {
		update["name"] = name
	}
	if categoryID, ok := data.integer("category_id"); ok && categoryID != 0 {
		update["categ_id"] = categoryID
	}
	if price, ok := data.number("price"); ok && data.has("price") {
		update["list_price"] = price
	}
	if cost, ok := data.number("cost"); ok && data.has("cost") {
		update["standard_price"] = cost
	}
	if data.has("description") {
		update["description"] = data.str("description")
	}

	if len(update) == 0 {
		respondError(w, "No fields to update", http.StatusBadRequest)
		return
	}

	if _, err := h.erp.Write(r.Context(), odoo.ModelProductProduct, []int64{productID}, update); err != nil {
		respondError(w, "Failed to update product: "+err.Error(), http.StatusInternalServerError)
		return
	}

	respondSuccess(w, nil, "Product updated successfully")
}

// DeleteProduct prefers archiving over hard deletion. Three tiers, each
// attempted only when the previous one errored:
//  1. archive the parent template (soft delete),
//  2. hard-delete the variant,
//  3. archive the variant itself.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := int64(queryInt(r, "id", 0))
	if productID == 0 {
		respondError(w, "Product ID is required", http.StatusBadRequest)
		return
	}

	var chain error

	records, err := h.erp.Read(r.Context(), odoo.ModelProductProduct,
		[]int64{productID}, odoo.Fields{"product_tmpl_id"})
	if err == nil && len(records) > 0 {
		if tmpl := records[0].Rel("product_tmpl_id"); tmpl.Set {
			ok, err := h.erp.Write(r.Context(), odoo.ModelProductTemplate,
				[]int64{tmpl.ID}, odoo.Data{"active": false})
			if err == nil && ok {
				respondSuccess(w, nil, "Product archived successfully")
				return
			}
			chain = multierr.Append(chain, err)
		}
	} else {
		chain = multierr.Append(chain, err)
	}

	if ok, err := h.erp.Unlink(r.Context(), odoo.ModelProductProduct, []int64{productID}); err == nil && ok {
		respondSuccess(w, nil, "Product deleted successfully")
		return
	} else {
		chain = multierr.Append(chain, err)
	}

	if ok, err := h.erp.Write(r.Context(), odoo.ModelProductProduct,
		[]int64{productID}, odoo.Data{"active": false}); err == nil && ok {
		respondSuccess(w, nil, "Product archived successfully")
		return
	} else {
		chain = multierr.Append(chain, err)
	}

	h.log.Error("all delete tiers failed",
		zap.Int64("product_id", productID),
		zap.Error(chain),
	)
	respondError(w, "Failed to delete product: "+chain.Error(), http.StatusInternalServerError)
}
