package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seej007/SIA-ERP-INVENTORY/odoo"
)

func TestUpdateStockIn(t *testing.T) {
	var writtenQty odoo.Data
	erp := &fakeERP{
		readFn: func(model odoo.Model, ids []int64, fields odoo.Fields) ([]odoo.Record, error) {
			return []odoo.Record{{"name": "Bolt", "qty_available": 10.0}}, nil
		},
		writeFn: func(model odoo.Model, ids []int64, data odoo.Data) (bool, error) {
			writtenQty = data
			return true, nil
		},
		createFn: func(model odoo.Model, data odoo.Data) (int64, error) {
			assert.Equal(t, odoo.ModelStockMove, model)
			return 55, nil
		},
	}
	h, _ := newTestHandler(erp)

	code, env := doRequest(t, h.UpdateStock, http.MethodPost, "/api/stock", map[string]interface{}{
		"product_id": 7,
		"quantity":   5,
		"action":     "in",
	})
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success)

	assert.Equal(t, odoo.Data{"qty_available": 15.0}, writtenQty)
	data := dataMap(t, env)
	assert.Equal(t, 10.0, data["old_quantity"])
	assert.Equal(t, 15.0, data["new_quantity"])
	assert.Equal(t, 55.0, data["move_id"])
}

func TestUpdateStockOutFloorsAtZero(t *testing.T) {
	var writtenQty odoo.Data
	erp := &fakeERP{
		readFn: func(model odoo.Model, ids []int64, fields odoo.Fields) ([]odoo.Record, error) {
			return []odoo.Record{{"name": "Bolt", "qty_available": 3.0}}, nil
		},
		writeFn: func(model odoo.Model, ids []int64, data odoo.Data) (bool, error) {
			writtenQty = data
			return true, nil
		},
		createFn: func(model odoo.Model, data odoo.Data) (int64, error) { return 56, nil },
	}
	h, _ := newTestHandler(erp)

	code, env := doRequest(t, h.UpdateStock, http.MethodPost, "/api/stock", map[string]interface{}{
		"product_id": 7,
		"quantity":   5,
		"action":     "out",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, odoo.Data{"qty_available": 0.0}, writtenQty)
	assert.Equal(t, 0.0, dataMap(t, env)["new_quantity"])
}

func TestUpdateStockValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]interface{}
		message string
	}{
		{"missing product", map[string]interface{}{"quantity": 5, "action": "in"}, "Field 'product_id' is required"},
		{"missing action", map[string]interface{}{"product_id": 7, "quantity": 5}, "Field 'action' is required"},
		{"zero quantity", map[string]interface{}{"product_id": 7, "quantity": 0, "action": "in"}, "Quantity must be greater than zero"},
		{"negative quantity", map[string]interface{}{"product_id": 7, "quantity": -4, "action": "in"}, "Quantity must be greater than zero"},
		{"bad action", map[string]interface{}{"product_id": 7, "quantity": 5, "action": "sideways"}, "Action must be 'in' or 'out'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			erp := &fakeERP{}
			h, _ := newTestHandler(erp)

			code, env := doRequest(t, h.UpdateStock, http.MethodPost, "/api/stock", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tt.message, env.Message)
			assert.Zero(t, erp.calls)
		})
	}
}

func TestUpdateStockFallsBackToMovement(t *testing.T) {
	erp := &fakeERP{
		readFn: func(model odoo.Model, ids []int64, fields odoo.Fields) ([]odoo.Record, error) {
			return []odoo.Record{{"name": "Bolt", "qty_available": 10.0}}, nil
		},
		writeFn: func(model odoo.Model, ids []int64, data odoo.Data) (bool, error) {
			return false, errors.New("qty_available is readonly")
		},
		createFn: func(model odoo.Model, data odoo.Data) (int64, error) {
			assert.Equal(t, odoo.ModelStockMove, model)
			assert.Equal(t, "done", data["state"])
			return 90, nil
		},
	}
	h, _ := newTestHandler(erp)

	code, env := doRequest(t, h.UpdateStock, http.MethodPost, "/api/stock", map[string]interface{}{
		"product_id": 7,
		"quantity":   5,
		"action":     "in",
	})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, "Stock updated successfully via stock movement", env.Message)
	assert.Equal(t, 90.0, dataMap(t, env)["move_id"])
}

func TestUpdateStockAuditFailureIsNotFatal(t *testing.T) {
	erp := &fakeERP{
		readFn: func(model odoo.Model, ids []int64, fields odoo.Fields) ([]odoo.Record, error) {
			return []odoo.Record{{"name": "Bolt", "qty_available": 10.0}}, nil
		},
		writeFn: func(model odoo.Model, ids []int64, data odoo.Data) (bool, error) {
			return true, nil
		},
		createFn: func(model odoo.Model, data odoo.Data) (int64, error) {
			return 0, errors.New("move model locked")
		},
	}
	h, _ := newTestHandler(erp)

	code, env := doRequest(t, h.UpdateStock, http.MethodPost, "/api/stock", map[string]interface{}{
		"product_id": 7,
		"quantity":   2,
		"action":     "in",
	})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, 12.0, dataMap(t, env)["new_quantity"])
}

func TestGetStockSnapshot(t *testing.T) {
	erp := &fakeERP{
		searchFn: func(model odoo.Model, domain odoo.Domain, offset, limit int) ([]int64, error) {
			return []int64{1, 2}, nil
		},
		readFn: func(model odoo.Model, ids []int64, fields odoo.Fields) ([]odoo.Record, error) {
			return []odoo.Record{
				{"id": 1.0, "name": "Bolt", "qty_available": 8.0, "categ_id": []interface{}{4.0, "Hardware"}},
				{"id": 2.0, "name": "Misc", "qty_available": 0.0, "categ_id": false},
			}, nil
		},
	}
	h, _ := newTestHandler(erp)

	code, env := doRequest(t, h.GetStock, http.MethodGet, "/api/stock", nil)
	require.Equal(t, http.StatusOK, code)

	stock := dataMap(t, env)["stock"].([]interface{})
	require.Len(t, stock, 2)

	first := stock[0].(map[string]interface{})
	assert.Equal(t, "Hardware", first["category"])
	assert.Equal(t, 8.0, first["quantity"])
	assert.Equal(t, 5.0, first["min_stock"])

	second := stock[1].(map[string]interface{})
	assert.Equal(t, "N/A", second["category"])
}

func TestGetStockHistoryFiltersAndSorts(t *testing.T) {
	erp := &fakeERP{
		readFn: func(model odoo.Model, ids []int64, fields odoo.Fields) ([]odoo.Record, error) {
			if model == odoo.ModelProductProduct {
				return []odoo.Record{{"name": "Bolt"}}, nil
			}
			return []odoo.Record{
				{"date": "2025-01-01 08:00:00", "state": "done", "reference": "WH/IN/0001",
					"product_uom_qty": 5.0, "product_id": []interface{}{7.0, "Bolt"}},
				{"date": "2025-02-01 08:00:00", "state": "done", "reference": "WH/OUT/0002",
					"product_uom_qty": 2.0, "product_id": []interface{}{7.0, "Bolt"}},
				{"date": "2025-03-01 08:00:00", "state": "draft", "reference": "WH/IN/0003",
					"product_uom_qty": 9.0, "product_id": []interface{}{7.0, "Bolt"}},
			}, nil
		},
		searchFn: func(model odoo.Model, domain odoo.Domain, offset, limit int) ([]int64, error) {
			assert.Equal(t, odoo.ModelStockMove, model)
			require.Len(t, domain, 1)
			assert.Equal(t, odoo.Condition{"product_id", "=", int64(7)}, domain[0])
			assert.Equal(t, 20, limit)
			return []int64{1, 2, 3}, nil
		},
	}
	h, _ := newTestHandler(erp)

	code, env := doRequest(t, h.GetStock, http.MethodGet, "/api/stock?history=1&product_id=7", nil)
	require.Equal(t, http.StatusOK, code)

	history := dataMap(t, env)["history"].([]interface{})
	require.Len(t, history, 2, "draft moves are excluded")

	newest := history[0].(map[string]interface{})
	assert.Equal(t, "2025-02-01 08:00:00", newest["date"])
	assert.Equal(t, "out", newest["type"])

	oldest := history[1].(map[string]interface{})
	assert.Equal(t, "in", oldest["type"])
	assert.Equal(t, "System", oldest["user"])
}

func TestMovementType(t *testing.T) {
	assert.Equal(t, "out", movementType("WH/OUT/0001"))
	assert.Equal(t, "out", movementType("Stock Out (Admin)"))
	assert.Equal(t, "in", movementType("WH/IN/0001"))
	assert.Equal(t, "in", movementType("adjustment"))
}
