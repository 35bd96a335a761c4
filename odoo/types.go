package odoo

import "math"

// Model names an Odoo model. Using a dedicated type keeps call sites honest
// and lets the model constants below double as documentation of the ERP
// surface this service touches.
type Model string

// Models used by the inventory/purchasing endpoints.
const (
	ModelProductProduct  Model = "product.product"
	ModelProductTemplate Model = "product.template"
	ModelProductCategory Model = "product.category"

	ModelStockMove      Model = "stock.move"
	ModelStockPicking   Model = "stock.picking"
	ModelStockQuant     Model = "stock.quant"
	ModelStockWarehouse Model = "stock.warehouse"

	ModelSaleOrder     Model = "sale.order"
	ModelPurchaseOrder Model = "purchase.order"
	ModelResPartner    Model = "res.partner"

	// Invoicing models. account.move is the modern schema, account.invoice
	// the legacy one; a given database has one or the other (or neither).
	ModelAccountMove        Model = "account.move"
	ModelAccountMoveLine    Model = "account.move.line"
	ModelAccountInvoice     Model = "account.invoice"
	ModelAccountInvoiceLine Model = "account.invoice.line"
	ModelAccountJournal     Model = "account.journal"

	ModelIrModel Model = "ir.model"
)

// Condition is a single element of a domain filter: either a
// [field, operator, value] triple or a bare logical operator such as "|".
type Condition []interface{}

// Domain is an Odoo domain filter.
//
//	odoo.Domain{{"name", "ilike", "bolt"}, {"active", "=", true}}
type Domain []Condition

// ToRPC converts the domain to the generic list structure the RPC layer
// expects. Single-element conditions holding a string are flattened into
// bare operators, matching the server-side domain grammar.
func (d Domain) ToRPC() []interface{} {
	out := make([]interface{}, 0, len(d))
	for _, cond := range d {
		if len(cond) == 1 {
			if op, ok := cond[0].(string); ok {
				out = append(out, op)
				continue
			}
		}
		out = append(out, []interface{}(cond))
	}
	return out
}

// Fields is a list of field names to fetch.
type Fields []string

// Data holds field values for create and write calls.
type Data map[string]interface{}

// Record is a single ERP record as returned by read/search_read.
type Record map[string]interface{}

// Int returns the named field as an int64, or 0 when absent or of an
// unexpected type. JSON numbers arrive as float64.
func (r Record) Int(field string) int64 {
	switch v := r[field].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// Float returns the named field as a float64, or 0.
func (r Record) Float(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// Str returns the named field as a string. Odoo reports empty text fields
// as boolean false; those come back as "".
func (r Record) Str(field string) string {
	if v, ok := r[field].(string); ok {
		return v
	}
	return ""
}

// IDs returns the named field as a list of record IDs (one2many/many2many
// fields arrive as a plain number list).
func (r Record) IDs(field string) []int64 {
	list, ok := r[field].([]interface{})
	if !ok {
		return nil
	}
	ids := make([]int64, 0, len(list))
	for _, v := range list {
		if f, ok := v.(float64); ok {
			ids = append(ids, int64(f))
		}
	}
	return ids
}

// Relation is a decomposed many2one value. The ERP returns these as
// [id, displayLabel] pairs, or boolean false when unset.
type Relation struct {
	ID    int64
	Label string
	Set   bool
}

// Rel decomposes the named many2one field. Absent or false-valued fields
// yield the zero Relation with Set=false so callers can apply their own
// defaults (0 / "" / "Uncategorized").
func (r Record) Rel(field string) Relation {
	tuple, ok := r[field].([]interface{})
	if !ok || len(tuple) < 2 {
		return Relation{}
	}
	id, ok := tuple[0].(float64)
	if !ok {
		return Relation{}
	}
	label, _ := tuple[1].(string)
	return Relation{ID: int64(id), Label: label, Set: true}
}

// LabelOr returns the relation label, or def when the field is unset.
func (rel Relation) LabelOr(def string) string {
	if !rel.Set {
		return def
	}
	return rel.Label
}

// recordsFromResult coerces a raw RPC result into a record slice.
func recordsFromResult(result interface{}) ([]Record, error) {
	list, ok := result.([]interface{})
	if !ok {
		return nil, ErrInvalidResponse
	}
	records := make([]Record, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, ErrInvalidResponse
		}
		records = append(records, Record(m))
	}
	return records, nil
}

// idsFromResult coerces a raw RPC result into an ID slice.
func idsFromResult(result interface{}) ([]int64, error) {
	list, ok := result.([]interface{})
	if !ok {
		return nil, ErrInvalidResponse
	}
	ids := make([]int64, 0, len(list))
	for _, item := range list {
		f, ok := item.(float64)
		if !ok {
			return nil, ErrInvalidResponse
		}
		ids = append(ids, int64(f))
	}
	return ids, nil
}

// intFromResult coerces a raw RPC result into an int64, rejecting
// non-integral values.
func intFromResult(result interface{}) (int64, error) {
	f, ok := result.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, ErrInvalidResponse
	}
	return int64(f), nil
}
