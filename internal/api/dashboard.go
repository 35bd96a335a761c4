package api

import (
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/seej007/SIA-ERP-INVENTORY/odoo"
)

const lowStockThreshold = 5

type lowStockDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Stock int64  `json:"stock"`
}

type activityDTO struct {
	Date     string  `json:"date"`
	Product  string  `json:"product"`
	Action   string  `json:"action"`
	Quantity float64 `json:"quantity"`
	User     string  `json:"user"`
}

// GetDashboard aggregates product, stock, order and activity metrics.
// Every sub-aggregate degrades independently: a failed count becomes a
// zero, a failed listing becomes empty, and the dashboard as a whole
// always renders.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard := map[string]interface{}{}

	productIDs, err := h.erp.Search(r.Context(), odoo.ModelProductProduct, nil, 0, 0)
	if err != nil {
		h.log.Warn("dashboard product search failed", zap.Error(err))
		productIDs = nil
	}
	dashboard["totalProducts"] = len(productIDs)

	totalStock := int64(0)
	lowStockItems := 0
	lowStockProducts := []lowStockDTO{}

	if len(productIDs) > 0 {
		products, err := h.erp.Read(r.Context(), odoo.ModelProductProduct, productIDs,
			odoo.Fields{"id", "name", "qty_available", "type"})
		if err != nil {
			h.log.Warn("dashboard product read failed", zap.Error(err))
		} else {
			for _, p := range products {
				qty := int64(p.Float("qty_available"))
				totalStock += qty
				if qty > 0 && qty <= lowStockThreshold {
					lowStockItems++
					lowStockProducts = append(lowStockProducts, lowStockDTO{
						ID:    p.Int("id"),
						Name:  p.Str("name"),
						Stock: qty,
					})
				}
			}
		}
	}

	dashboard["totalStock"] = totalStock
	dashboard["lowStockItems"] = lowStockItems
	dashboard["lowStockProducts"] = lowStockProducts
	dashboard["pendingOrders"] = h.pendingOrderCount(r)
	dashboard["recentActivities"] = h.recentActivities(r)

	respondSuccess(w, dashboard, "")
}

// pendingOrderCount counts open sales orders, falling back to purchase
// orders on databases without the sales module.
func (h *Handler) pendingOrderCount(r *http.Request) int {
	if count, ok := h.countOrders(r, odoo.ModelSaleOrder, []string{"draft", "sent", "sale"}); ok {
		return count
	}
	if count, ok := h.countOrders(r, odoo.ModelPurchaseOrder, []string{"draft", "sent", "purchase"}); ok {
		return count
	}
	return 0
}

func (h *Handler) countOrders(r *http.Request, model odoo.Model, pendingStates []string) (int, bool) {
	ids, err := h.erp.Search(r.Context(), model, nil, 0, 0)
	if err != nil {
		return 0, false
	}
	orders, err := h.erp.Read(r.Context(), model, ids, odoo.Fields{"id", "state"})
	if err != nil {
		return 0, false
	}

	count := 0
	for _, order := range orders {
		state := order.Str("state")
		for _, pending := range pendingStates {
			if state == pending {
				count++
				break
			}
		}
	}
	return count, true
}

// recentActivities returns up to 10 completed stock movements, falling
// back to picking records when no movements exist. Sorted newest first by
// parsed timestamp.
func (h *Handler) recentActivities(r *http.Request) []activityDTO {
	activities := h.movementActivities(r)
	if len(activities) == 0 {
		activities = h.pickingActivities(r)
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return newerDate(activities[i].Date, activities[j].Date)
	})
	if len(activities) > 10 {
		activities = activities[:10]
	}
	return activities
}

func (h *Handler) movementActivities(r *http.Request) []activityDTO {
	activities := []activityDTO{}

	moveIDs, err := h.erp.Search(r.Context(), odoo.ModelStockMove, nil, 0, 10)
	if err != nil || len(moveIDs) == 0 {
		return activities
	}
	moves, err := h.erp.Read(r.Context(), odoo.ModelStockMove, moveIDs, odoo.Fields{
		"date", "product_id", "product_uom_qty", "reference", "create_uid", "state", "origin",
	})
	if err != nil {
		return activities
	}

	for _, move := range moves {
		if move.Str("state") != "done" {
			continue
		}
		activities = append(activities, activityDTO{
			Date:     move.Str("date"),
			Product:  move.Rel("product_id").LabelOr("Unknown Product"),
			Action:   activityAction(move.Str("reference")),
			Quantity: move.Float("product_uom_qty"),
			User:     move.Rel("create_uid").LabelOr("System"),
		})
	}
	return activities
}

func (h *Handler) pickingActivities(r *http.Request) []activityDTO {
	activities := []activityDTO{}

	pickingIDs, err := h.erp.Search(r.Context(), odoo.ModelStockPicking, nil, 0, 10)
	if err != nil || len(pickingIDs) == 0 {
		return activities
	}
	pickings, err := h.erp.Read(r.Context(), odoo.ModelStockPicking, pickingIDs, odoo.Fields{
		"date", "name", "partner_id", "state", "scheduled_date", "origin", "create_uid",
	})
	if err != nil {
		return activities
	}

	for _, picking := range pickings {
		if picking.Str("state") != "done" {
			continue
		}
		date := picking.Str("date")
		if date == "" {
			date = picking.Str("scheduled_date")
		}
		product := picking.Str("origin")
		if product == "" {
			product = picking.Str("name")
		}
		if product == "" {
			product = "Stock Movement"
		}
		activities = append(activities, activityDTO{
			Date:    date,
			Product: product,
			Action:  activityAction(picking.Str("name")),
			User:    picking.Rel("create_uid").LabelOr("System"),
		})
	}
	return activities
}

// activityAction labels a movement from its reference text.
func activityAction(reference string) string {
	lower := strings.ToLower(reference)
	switch {
	case strings.Contains(lower, "out"):
		return "Stock Out"
	case strings.Contains(lower, "in"):
		return "Stock In"
	default:
		return "Stock Movement"
	}
}
