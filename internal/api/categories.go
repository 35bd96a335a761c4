package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/seej007/SIA-ERP-INVENTORY/odoo"
)

type categoryDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ParentID   int64  `json:"parent_id"`
	ParentName string `json:"parent_name"`
}

// GetCategories returns the flat category list with parent linkage.
// Upstream failures degrade to an empty successful listing.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	empty := map[string]interface{}{"categories": []categoryDTO{}}

	ids, err := h.erp.Search(r.Context(), odoo.ModelProductCategory, nil, 0, 0)
	if err != nil {
		h.log.Error("category search failed, degrading to empty result", zap.Error(err))
		respondSuccess(w, empty, "")
		return
	}
	if len(ids) == 0 {
		respondSuccess(w, empty, "")
		return
	}

	categories, err := h.erp.Read(r.Context(), odoo.ModelProductCategory, ids,
		odoo.Fields{"id", "name", "parent_id"})
	if err != nil {
		h.log.Error("category read failed, degrading to empty result", zap.Error(err))
		respondSuccess(w, empty, "")
		return
	}

	dtos := make([]categoryDTO, 0, len(categories))
	for _, c := range categories {
		parent := c.Rel("parent_id")
		dtos = append(dtos, categoryDTO{
			ID:         c.Int("id"),
			Name:       c.Str("name"),
			ParentID:   parent.ID,
			ParentName: parent.Label,
		})
	}

	respondSuccess(w, map[string]interface{}{"categories": dtos}, "")
}
