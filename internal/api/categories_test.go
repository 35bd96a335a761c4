package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seej007/SIA-ERP-INVENTORY/odoo"
)

func TestGetCategories(t *testing.T) {
	erp := &fakeERP{
		searchFn: func(model odoo.Model, domain odoo.Domain, offset, limit int) ([]int64, error) {
			assert.Equal(t, odoo.ModelProductCategory, model)
			return []int64{1, 2}, nil
		},
		readFn: func(model odoo.Model, ids []int64, fields odoo.Fields) ([]odoo.Record, error) {
			return []odoo.Record{
				{"id": 1.0, "name": "All", "parent_id": false},
				{"id": 2.0, "name": "Hardware", "parent_id": []interface{}{1.0, "All"}},
			}, nil
		},
	}
	h, _ := newTestHandler(erp)

	code, env := doRequest(t, h.GetCategories, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success)

	categories := dataMap(t, env)["categories"].([]interface{})
	require.Len(t, categories, 2)

	root := categories[0].(map[string]interface{})
	assert.Equal(t, 0.0, root["parent_id"])
	assert.Equal(t, "", root["parent_name"])

	child := categories[1].(map[string]interface{})
	assert.Equal(t, 1.0, child["parent_id"])
	assert.Equal(t, "All", child["parent_name"])
}

func TestGetCategoriesDegradesToEmpty(t *testing.T) {
	erp := &fakeERP{
		searchFn: func(model odoo.Model, domain odoo.Domain, offset, limit int) ([]int64, error) {
			return nil, errors.New("connection refused")
		},
	}
	h, _ := newTestHandler(erp)

	code, env := doRequest(t, h.GetCategories, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Empty(t, dataMap(t, env)["categories"])
}
