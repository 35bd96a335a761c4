package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seej007/SIA-ERP-INVENTORY/internal/mockstore"
	"github.com/seej007/SIA-ERP-INVENTORY/odoo"
)

var errUnexpectedCall = errors.New("unexpected backend call")

// fakeERP implements Backend with per-method function hooks. Unhooked
// methods fail, so a test only sees the calls it planned for. calls counts
// every backend invocation, hooked or not.
type fakeERP struct {
	calls int

	searchFn      func(model odoo.Model, domain odoo.Domain, offset, limit int) ([]int64, error)
	readFn        func(model odoo.Model, ids []int64, fields odoo.Fields) ([]odoo.Record, error)
	searchReadFn  func(model odoo.Model, domain odoo.Domain, fields odoo.Fields, offset, limit int, order string) ([]odoo.Record, error)
	searchCountFn func(model odoo.Model, domain odoo.Domain) (int64, error)
	createFn      func(model odoo.Model, data odoo.Data) (int64, error)
	writeFn       func(model odoo.Model, ids []int64, data odoo.Data) (bool, error)
	unlinkFn      func(model odoo.Model, ids []int64) (bool, error)
	fieldsGetFn   func(model odoo.Model) (map[string]odoo.Record, error)
	executeFn     func(model odoo.Model, method string, args ...interface{}) (interface{}, error)
}

func (f *fakeERP) Search(_ context.Context, model odoo.Model, domain odoo.Domain, offset, limit int) ([]int64, error) {
	f.calls++
	if f.searchFn == nil {
		return nil, errUnexpectedCall
	}
	return f.searchFn(model, domain, offset, limit)
}

func (f *fakeERP) Read(_ context.Context, model odoo.Model, ids []int64, fields odoo.Fields) ([]odoo.Record, error) {
	f.calls++
	if f.readFn == nil {
		return nil, errUnexpectedCall
	}
	return f.readFn(model, ids, fields)
}

func (f *fakeERP) SearchRead(_ context.Context, model odoo.Model, domain odoo.Domain, fields odoo.Fields, offset, limit int, order string) ([]odoo.Record, error) {
	f.calls++
	if f.searchReadFn == nil {
		return nil, errUnexpectedCall
	}
	return f.searchReadFn(model, domain, fields, offset, limit, order)
}

func (f *fakeERP) SearchCount(_ context.Context, model odoo.Model, domain odoo.Domain) (int64, error) {
	f.calls++
	if f.searchCountFn == nil {
		return 0, errUnexpectedCall
	}
	return f.searchCountFn(model, domain)
}

func (f *fakeERP) Create(_ context.Context, model odoo.Model, data odoo.Data) (int64, error) {
	f.calls++
	if f.createFn == nil {
		return 0, errUnexpectedCall
	}
	return f.createFn(model, data)
}

func (f *fakeERP) Write(_ context.Context, model odoo.Model, ids []int64, data odoo.Data) (bool, error) {
	f.calls++
	if f.writeFn == nil {
		return false, errUnexpectedCall
	}
	return f.writeFn(model, ids, data)
}

func (f *fakeERP) Unlink(_ context.Context, model odoo.Model, ids []int64) (bool, error) {
	f.calls++
	if f.unlinkFn == nil {
		return false, errUnexpectedCall
	}
	return f.unlinkFn(model, ids)
}

func (f *fakeERP) FieldsGet(_ context.Context, model odoo.Model) (map[string]odoo.Record, error) {
	f.calls++
	if f.fieldsGetFn == nil {
		return nil, errUnexpectedCall
	}
	return f.fieldsGetFn(model)
}

func (f *fakeERP) Execute(_ context.Context, model odoo.Model, method string, args ...interface{}) (interface{}, error) {
	f.calls++
	if f.executeFn == nil {
		return nil, errUnexpectedCall
	}
	return f.executeFn(model, method, args...)
}

func newTestHandler(erp *fakeERP) (*Handler, *mockstore.InMemory) {
	store := mockstore.NewInMemory()
	return NewHandler(erp, store, zap.NewNop()), store
}

// doRequest runs one handler func and decodes the response envelope.
func doRequest(t *testing.T, handler http.HandlerFunc, method, target string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

// dataMap casts the envelope payload to the object form.
func dataMap(t *testing.T, env envelope) map[string]interface{} {
	t.Helper()
	m, ok := env.Data.(map[string]interface{})
	require.True(t, ok, "envelope data is not an object: %T", env.Data)
	return m
}
