package api

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seej007/SIA-ERP-INVENTORY/odoo"
)

const defaultMinStock = 5

type stockItemDTO struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Category    string  `json:"category"`
	CategoryID  int64   `json:"category_id"`
	MinStock    float64 `json:"min_stock"`
	LastUpdated string  `json:"last_updated"`
}

type movementDTO struct {
	Date      string  `json:"date"`
	Product   string  `json:"product"`
	ProductID int64   `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	Type      string  `json:"type"`
	Reference string  `json:"reference"`
	User      string  `json:"user"`
}

// GetStock serves three shapes from one endpoint: the full stock snapshot,
// a single product snapshot (?product_id=), and the movement history
// (?history=1).
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("history") == "1" {
		h.getStockHistory(w, r)
		return
	}
	if r.URL.Query().Get("product_id") != "" {
		h.getProductStock(w, r, int64(queryInt(r, "product_id", 0)))
		return
	}

	empty := map[string]interface{}{"stock": []stockItemDTO{}}

	ids, err := h.erp.Search(r.Context(), odoo.ModelProductProduct, nil, 0, 0)
	if err != nil {
		h.log.Error("stock product search failed, degrading to empty result", zap.Error(err))
		respondSuccess(w, empty, "")
		return
	}
	if len(ids) == 0 {
		respondSuccess(w, empty, "")
		return
	}

	products, err := h.erp.Read(r.Context(), odoo.ModelProductProduct, ids,
		odoo.Fields{"id", "name", "categ_id", "qty_available"})
	if err != nil {
		h.log.Error("stock product read failed, degrading to empty result", zap.Error(err))
		respondSuccess(w, empty, "")
		return
	}

	now := time.Now().Format("2006-01-02 15:04:05")
	items := make([]stockItemDTO, 0, len(products))
	for _, p := range products {
		categ := p.Rel("categ_id")
		items = append(items, stockItemDTO{
			ProductID:   p.Int("id"),
			ProductName: p.Str("name"),
			Quantity:    p.Float("qty_available"),
			Category:    categ.LabelOr("N/A"),
			CategoryID:  categ.ID,
			MinStock:    defaultMinStock,
			LastUpdated: now,
		})
	}

	respondSuccess(w, map[string]interface{}{"stock": items}, "")
}

// getProductStock is a point lookup; unlike the listings it reports a
// failure envelope when the read fails.
func (h *Handler) getProductStock(w http.ResponseWriter, r *http.Request, productID int64) {
	records, err := h.erp.Read(r.Context(), odoo.ModelProductProduct, []int64{productID},
		odoo.Fields{"name", "default_code", "categ_id", "qty_available"})
	if err != nil || len(records) == 0 {
		msg := "Failed to get product information"
		if err != nil {
			msg += ": " + err.Error()
		}
		respondError(w, msg, http.StatusInternalServerError)
		return
	}

	respondSuccess(w, map[string]interface{}{
		"product": records[0],
		"stock": map[string]interface{}{
			"quantity": records[0].Float("qty_available"),
		},
	}, "")
}

func (h *Handler) getStockHistory(w http.ResponseWriter, r *http.Request) {
	productID := int64(queryInt(r, "product_id", 0))

	productName := "Unknown Product"
	if productID != 0 {
		if records, err := h.erp.Read(r.Context(), odoo.ModelProductProduct,
			[]int64{productID}, odoo.Fields{"name"}); err == nil && len(records) > 0 {
			productName = records[0].Str("name")
		}
	}

	var domain odoo.Domain
	if productID != 0 {
		domain = odoo.Domain{{"product_id", "=", productID}}
	}

	history := []movementDTO{}
	moveIDs, err := h.erp.Search(r.Context(), odoo.ModelStockMove, domain, 0, 20)
	if err == nil && len(moveIDs) > 0 {
		moves, err := h.erp.Read(r.Context(), odoo.ModelStockMove, moveIDs, odoo.Fields{
			"date", "product_id", "product_uom_qty", "state", "reference",
			"create_uid", "location_id", "location_dest_id",
		})
		if err == nil {
			for _, move := range moves {
				if move.Str("state") != "done" {
					continue
				}
				entry := movementDTO{
					Date:      move.Str("date"),
					Product:   productName,
					ProductID: productID,
					Quantity:  move.Float("product_uom_qty"),
					Type:      movementType(move.Str("reference")),
					Reference: move.Str("reference"),
					User:      move.Rel("create_uid").LabelOr("System"),
				}
				if product := move.Rel("product_id"); product.Set {
					entry.Product = product.Label
					entry.ProductID = product.ID
				}
				history = append(history, entry)
			}
		}
	}

	sort.SliceStable(history, func(i, j int) bool {
		return newerDate(history[i].Date, history[j].Date)
	})

	respondSuccess(w, map[string]interface{}{"history": history}, "")
}

// movementType infers in/out from the movement reference text.
func movementType(reference string) string {
	if strings.Contains(strings.ToLower(reference), "out") {
		return "out"
	}
	return "in"
}

// UpdateStock applies a stock in/out mutation. The quantity write and the
// audit movement are two separate calls with no transaction between them;
// a failed audit record is logged but never rolls back the quantity.
func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	data := decodeBody(r)

	productID, ok := data.integer("product_id")
	if !ok || productID == 0 {
		respondError(w, "Field 'product_id' is required", http.StatusBadRequest)
		return
	}
	quantity, ok := data.number("quantity")
	if !ok {
		respondError(w, "Field 'quantity' is required", http.StatusBadRequest)
		return
	}
	action := data.str("action")
	if action == "" {
		respondError(w, "Field 'action' is required", http.StatusBadRequest)
		return
	}
	if quantity <= 0 {
		respondError(w, "Quantity must be greater than zero", http.StatusBadRequest)
		return
	}
	if action != "in" && action != "out" {
		respondError(w, "Action must be 'in' or 'out'", http.StatusBadRequest)
		return
	}

	records, err := h.erp.Read(r.Context(), odoo.ModelProductProduct, []int64{productID},
		odoo.Fields{"name", "qty_available"})
	if err != nil || len(records) == 0 {
		msg := "Failed to get product information"
		if err != nil {
			msg += ": " + err.Error()
		}
		respondError(w, msg, http.StatusInternalServerError)
		return
	}

	currentQty := records[0].Float("qty_available")
	newQty := currentQty + quantity
	if action == "out" {
		// Floor at zero, never negative.
		newQty = currentQty - quantity
		if newQty < 0 {
			newQty = 0
		}
	}

	reference := data.str("reference")
	if notes := data.str("notes"); notes != "" {
		if reference == "" {
			reference = notes
		} else {
			reference += " - " + notes
		}
	}
	if reference == "" {
		if action == "in" {
			reference = "Stock In"
		} else {
			reference = "Stock Out"
		}
	}

	moveName := "Stock Out"
	if action == "in" {
		moveName = "Stock In"
	}
	moveData := odoo.Data{
		"name":            moveName,
		"product_id":      productID,
		"product_uom_qty": quantity,
		"state":           "done",
		"reference":       reference + " (Admin)",
	}

	if _, err := h.erp.Write(r.Context(), odoo.ModelProductProduct, []int64{productID},
		odoo.Data{"qty_available": newQty}); err != nil {
		h.log.Warn("quantity write failed, attempting movement fallback",
			zap.Int64("product_id", productID),
			zap.Error(err),
		)

		moveID, moveErr := h.erp.Create(r.Context(), odoo.ModelStockMove, moveData)
		if moveErr != nil {
			respondError(w, "Failed to update stock: "+moveErr.Error(), http.StatusInternalServerError)
			return
		}
		respondSuccess(w, map[string]interface{}{"move_id": moveID},
			"Stock updated successfully via stock movement")
		return
	}

	// Audit trail only; quantity is already committed.
	var moveID interface{}
	if id, err := h.erp.Create(r.Context(), odoo.ModelStockMove, moveData); err != nil {
		h.log.Warn("audit movement creation failed",
			zap.Int64("product_id", productID),
			zap.Error(err),
		)
	} else {
		moveID = id
	}

	respondSuccess(w, map[string]interface{}{
		"product_id":   productID,
		"old_quantity": currentQty,
		"new_quantity": newQty,
		"move_id":      moveID,
	}, "Stock updated successfully")
}
