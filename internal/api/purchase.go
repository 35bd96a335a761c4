package api

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/seej007/SIA-ERP-INVENTORY/internal/mockstore"
	"github.com/seej007/SIA-ERP-INVENTORY/odoo"
)

// invoiceSchema is the field-mapping record for whichever invoicing model
// a database carries. It is detected once per request and threaded through
// the whole workflow so every call in one request agrees on field names.
type invoiceSchema struct {
	Model      odoo.Model
	LineModel  odoo.Model
	DateField  string
	TypeField  string
	TypeValue  string
	LineLink   string
	QtyField   string
	TaxField   string
	LinesField string
}

var (
	// modernSchema matches account.move (Odoo 13 and later).
	modernSchema = invoiceSchema{
		Model:      odoo.ModelAccountMove,
		LineModel:  odoo.ModelAccountMoveLine,
		DateField:  "invoice_date",
		TypeField:  "move_type",
		TypeValue:  "out_invoice",
		LineLink:   "move_id",
		QtyField:   "quantity",
		TaxField:   "tax_ids",
		LinesField: "invoice_line_ids",
	}

	// legacySchema matches account.invoice (Odoo 12 and earlier).
	legacySchema = invoiceSchema{
		Model:      odoo.ModelAccountInvoice,
		LineModel:  odoo.ModelAccountInvoiceLine,
		DateField:  "date_invoice",
		TypeField:  "type",
		TypeValue:  "out_invoice",
		LineLink:   "invoice_id",
		QtyField:   "quantity",
		TaxField:   "invoice_line_tax_ids",
		LinesField: "invoice_line_ids",
	}
)

// detectInvoiceSchema probes which invoicing model is installed. It checks
// the modern schema first, then the legacy one; nil means neither exists
// and callers must take the mock path. Probe errors are treated as "model
// absent" — a database without accounting installed answers exactly that
// way.
func (h *Handler) detectInvoiceSchema(r *http.Request) *invoiceSchema {
	for _, candidate := range []invoiceSchema{modernSchema, legacySchema} {
		fields, err := h.erp.FieldsGet(r.Context(), candidate.Model)
		if err != nil {
			if !odoo.IsMissingModel(err) {
				h.log.Warn("invoice schema probe failed",
					zap.String("model", string(candidate.Model)),
					zap.Error(err),
				)
			}
			continue
		}
		if _, ok := fields[candidate.TypeField]; !ok {
			continue
		}
		if _, ok := fields[candidate.DateField]; !ok {
			continue
		}

		registered, err := h.erp.SearchRead(r.Context(), odoo.ModelIrModel,
			odoo.Domain{{"model", "=", string(candidate.Model)}},
			odoo.Fields{"id", "name", "model"}, 0, 0, "")
		if err != nil || len(registered) == 0 {
			continue
		}

		schema := candidate
		h.log.Debug("invoice schema detected", zap.String("model", string(schema.Model)))
		return &schema
	}
	return nil
}

// PurchaseGet dispatches the read actions of the purchase endpoint.
func (h *Handler) PurchaseGet(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case "getSuppliers":
		h.getSuppliers(w, r)
	case "getProducts":
		h.getPurchaseProducts(w, r)
	case "getPurchaseOrders":
		h.getPurchaseOrders(w, r)
	case "getPurchaseOrderDetails":
		orderID := int64(queryInt(r, "orderId", 0))
		if orderID == 0 {
			respondError(w, "Order ID is required", http.StatusBadRequest)
			return
		}
		h.getPurchaseOrderDetails(w, r, orderID)
	default:
		respondError(w, "Invalid action", http.StatusBadRequest)
	}
}

// getSuppliers lists partners. No supplier-flag filter: the flag's field
// name varies between ERP versions, so the frontend filters instead.
func (h *Handler) getSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.erp.SearchRead(r.Context(), odoo.ModelResPartner, nil,
		odoo.Fields{"id", "name", "email", "phone", "street", "city", "zip"}, 0, 100, "")
	if err != nil {
		respondError(w, "Failed to get suppliers: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondSuccess(w, suppliers, "")
}

func (h *Handler) getPurchaseProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.erp.SearchRead(r.Context(), odoo.ModelProductProduct, nil,
		odoo.Fields{"id", "name", "description", "description_purchase",
			"list_price", "standard_price", "qty_available"}, 0, 100, "")
	if err != nil {
		respondError(w, "Failed to get products: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondSuccess(w, products, "")
}

// getPurchaseOrders lists customer invoices through the detected schema
// and appends the session's mock invoices so they stay visible.
func (h *Handler) getPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	mocks := h.mocks.List(sessionToken(r))

	schema := h.detectInvoiceSchema(r)
	if schema == nil {
		if len(mocks) > 0 {
			respondSuccess(w, mocks, "")
			return
		}
		respondError(w, "Failed to get invoices: No suitable invoice model found", http.StatusInternalServerError)
		return
	}

	orders, err := h.erp.SearchRead(r.Context(), schema.Model,
		odoo.Domain{{schema.TypeField, "=", schema.TypeValue}},
		odoo.Fields{"id", "name", "partner_id", "amount_total", "state", schema.DateField},
		0, 100, schema.DateField+" DESC")
	if err != nil {
		respondError(w, "Failed to get invoices: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// The frontend expects date_order regardless of schema.
	listing := make([]interface{}, 0, len(orders)+len(mocks))
	for _, order := range orders {
		order["date_order"] = order[schema.DateField]
		listing = append(listing, order)
	}
	for _, mock := range mocks {
		listing = append(listing, mock)
	}

	respondSuccess(w, listing, "")
}

func (h *Handler) getPurchaseOrderDetails(w http.ResponseWriter, r *http.Request, orderID int64) {
	schema := h.detectInvoiceSchema(r)
	if schema == nil {
		respondError(w, "Failed to get invoice details: No suitable invoice model found", http.StatusInternalServerError)
		return
	}

	orders, err := h.erp.Read(r.Context(), schema.Model, []int64{orderID}, odoo.Fields{
		"id", "name", "partner_id", schema.DateField, "amount_total", "state",
		schema.LinesField, "currency_id", "journal_id",
	})
	if err != nil || len(orders) == 0 {
		respondError(w, "Invoice not found or access denied", http.StatusNotFound)
		return
	}

	order := orders[0]
	order["date_order"] = order[schema.DateField]

	lineIDs := order.IDs(schema.LinesField)
	if len(lineIDs) == 0 {
		order["order_line"] = []odoo.Record{}
		respondSuccess(w, order, "")
		return
	}

	lines, err := h.erp.Read(r.Context(), schema.LineModel, lineIDs, odoo.Fields{
		"id", "product_id", schema.QtyField, "price_unit", "price_subtotal",
		"name", schema.TaxField,
	})
	if err != nil {
		respondError(w, "Failed to get invoice line details", http.StatusInternalServerError)
		return
	}
	for _, line := range lines {
		line["product_qty"] = line[schema.QtyField]
	}
	order["order_line"] = lines

	respondSuccess(w, order, "")
}

// PurchasePost dispatches the write actions. Payloads arrive either as a
// form field holding a JSON string (legacy frontend) or as a raw JSON body.
func (h *Handler) PurchasePost(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)

	switch body.str("action") {
	case "createPurchaseOrder":
		orderData := nestedPayload(body, "orderData")
		if orderData == nil && body.has("partner_id") {
			orderData = body
		}
		if orderData == nil {
			respondError(w, "Order data is required", http.StatusBadRequest)
			return
		}
		h.createPurchaseOrder(w, r, orderData)
	case "createSupplier":
		supplierData := nestedPayload(body, "supplierData")
		if supplierData == nil && body.has("name") {
			supplierData = body
		}
		if supplierData == nil {
			respondError(w, "Supplier data is required", http.StatusBadRequest)
			return
		}
		h.createSupplier(w, r, supplierData)
	default:
		respondError(w, "Invalid action", http.StatusBadRequest)
	}
}

// nestedPayload extracts a sub-payload that may be a JSON string or an
// already-decoded object.
func nestedPayload(body payload, key string) payload {
	switch v := body[key].(type) {
	case string:
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(v), &data); err == nil {
			return payload(data)
		}
	case map[string]interface{}:
		return payload(v)
	}
	return nil
}

// createPurchaseOrder creates a customer invoice with its lines. Any
// schema, journal or create failure falls back to a session-local mock
// record: the workflow reports success rather than blocking the user.
func (h *Handler) createPurchaseOrder(w http.ResponseWriter, r *http.Request, orderData payload) {
	partnerID, ok := orderData.integer("partner_id")
	if !ok || partnerID == 0 {
		respondError(w, "Customer (partner_id) is required", http.StatusBadRequest)
		return
	}

	dateOrder := orderData.str("date_order")
	if dateOrder == "" {
		respondError(w, "Invoice date is required", http.StatusBadRequest)
		return
	}
	if parsed, err := time.Parse("2006-01-02", dateOrder); err != nil || parsed.Format("2006-01-02") != dateOrder {
		respondError(w, "Invalid date format. Please use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	rawLines, _ := orderData["order_line"].([]interface{})
	if len(rawLines) == 0 {
		respondError(w, "Invoice lines are required", http.StatusBadRequest)
		return
	}
	lines := make([]payload, 0, len(rawLines))
	for _, raw := range rawLines {
		m, ok := raw.(map[string]interface{})
		if !ok {
			respondError(w, "Invoice lines are invalid", http.StatusBadRequest)
			return
		}
		lines = append(lines, payload(m))
	}

	schema := h.detectInvoiceSchema(r)
	if schema == nil {
		h.log.Warn("no invoice model installed, creating mock invoice")
		h.createMockOrder(w, r, orderData, lines)
		return
	}

	journals, err := h.erp.SearchRead(r.Context(), odoo.ModelAccountJournal,
		odoo.Domain{{"type", "=", "sale"}}, odoo.Fields{"id"}, 0, 1, "")
	if err != nil || len(journals) == 0 {
		h.log.Warn("no sale journal found, creating mock invoice", zap.Error(err))
		h.createMockOrder(w, r, orderData, lines)
		return
	}
	journalID := journals[0].Int("id")

	invoiceValues := odoo.Data{
		"partner_id":     partnerID,
		schema.DateField: dateOrder,
		schema.TypeField: schema.TypeValue,
		"journal_id":     journalID,
		"state":          "draft",
	}
	if currencyID, ok := orderData.integer("currency_id"); ok && currencyID != 0 {
		invoiceValues["currency_id"] = currencyID
	}

	invoiceID, err := h.erp.Create(r.Context(), schema.Model, invoiceValues)
	if err != nil {
		h.log.Warn("invoice creation failed, creating mock invoice", zap.Error(err))
		h.createMockOrder(w, r, orderData, lines)
		return
	}

	for _, line := range lines {
		lineProductID, _ := line.integer("product_id")
		lineQty, _ := line.number("product_qty")
		linePrice, _ := line.number("price_unit")

		lineValues := odoo.Data{
			schema.LineLink: invoiceID,
			"product_id":    lineProductID,
			schema.QtyField: lineQty,
			"price_unit":    linePrice,
		}

		// Name and taxes are copied from the product when readable.
		if products, err := h.erp.Read(r.Context(), odoo.ModelProductProduct,
			[]int64{lineProductID}, odoo.Fields{"name", "taxes_id"}); err == nil && len(products) > 0 {
			lineValues["name"] = products[0].Str("name")
			if taxIDs := products[0].IDs("taxes_id"); len(taxIDs) > 0 {
				lineValues[schema.TaxField] = []interface{}{[]interface{}{6, 0, taxIDs}}
			}
		}

		if _, err := h.erp.Create(r.Context(), schema.LineModel, lineValues); err != nil {
			// The partially created invoice is left for debugging.
			h.log.Warn("invoice line creation failed, creating mock invoice",
				zap.Int64("invoice_id", invoiceID),
				zap.Error(err),
			)
			h.createMockOrder(w, r, orderData, lines)
			return
		}
	}

	// Total computation is not critical; the draft invoice already exists.
	h.computeInvoiceTotals(r, schema, invoiceID)

	respondSuccess(w, map[string]interface{}{"invoice_id": invoiceID}, "")
}

func (h *Handler) computeInvoiceTotals(r *http.Request, schema *invoiceSchema, invoiceID int64) {
	if schema.Model == odoo.ModelAccountMove {
		if _, err := h.erp.Execute(r.Context(), schema.Model, "action_post", []int64{invoiceID}); err != nil {
			h.log.Warn("could not compute invoice totals", zap.Int64("invoice_id", invoiceID), zap.Error(err))
			return
		}
		// Back to draft so the state matches what was requested.
		if _, err := h.erp.Execute(r.Context(), schema.Model, "button_draft", []int64{invoiceID}); err != nil {
			h.log.Warn("could not reset invoice to draft", zap.Int64("invoice_id", invoiceID), zap.Error(err))
		}
		return
	}
	if _, err := h.erp.Execute(r.Context(), schema.Model, "button_reset_taxes", []int64{invoiceID}); err != nil {
		h.log.Warn("could not compute invoice taxes", zap.Int64("invoice_id", invoiceID), zap.Error(err))
	}
}

// createMockOrder builds the session-local stand-in invoice and reports
// success with the mock flag set.
func (h *Handler) createMockOrder(w http.ResponseWriter, r *http.Request, orderData payload, lines []payload) {
	partnerID, _ := orderData.integer("partner_id")

	total := 0.0
	mockLines := make([]map[string]interface{}, 0, len(lines))
	for _, line := range lines {
		qty, _ := line.number("product_qty")
		price, _ := line.number("price_unit")
		total += qty * price

		mockLine := make(map[string]interface{}, len(line)+1)
		for k, v := range line {
			mockLine[k] = v
		}
		mockLine["tax_ids"] = []interface{}{[]interface{}{1, "VAT 10%"}}
		mockLines = append(mockLines, mockLine)
	}

	now := time.Now()
	inv := mockstore.MockInvoice{
		ID:          now.Unix()*1000 + int64(rand.Intn(900)+100),
		Name:        "INV" + now.Format("20060102") + strconv.Itoa(rand.Intn(9000)+1000),
		DateOrder:   orderData.str("date_order") + " " + now.Format("15:04:05"),
		PartnerID:   []interface{}{partnerID, "Customer " + strconv.FormatInt(partnerID, 10)},
		AmountTotal: total,
		State:       "draft",
		Mock:        true,
		OrderLines:  mockLines,
	}

	h.mocks.Add(sessionToken(r), inv)
	h.log.Info("mock invoice created",
		zap.String("name", inv.Name),
		zap.Float64("amount_total", inv.AmountTotal),
	)

	respondSuccess(w, inv, "")
}

// createSupplier creates a partner flagged as a customer, probing which
// designation field this ERP version carries.
func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request, supplierData payload) {
	name := supplierData.str("name")
	if name == "" {
		respondError(w, "Partner name is required", http.StatusBadRequest)
		return
	}
	email := supplierData.str("email")

	if email != "" {
		existing, err := h.erp.SearchRead(r.Context(), odoo.ModelResPartner,
			odoo.Domain{{"email", "=", email}}, odoo.Fields{"id"}, 0, 0, "")
		if err == nil && len(existing) > 0 {
			respondError(w, "A partner with this email already exists", http.StatusBadRequest)
			return
		}
	}

	values := odoo.Data{
		"name":  name,
		"email": email,
	}

	// The customer designation field changed names across ERP versions.
	if fields, err := h.erp.FieldsGet(r.Context(), odoo.ModelResPartner); err == nil {
		if _, ok := fields["customer"]; ok {
			values["customer"] = true
		} else if _, ok := fields["is_customer"]; ok {
			values["is_customer"] = true
		} else if _, ok := fields["customer_rank"]; ok {
			values["customer_rank"] = 1
		}
	}

	if phone := supplierData.str("phone"); phone != "" {
		values["phone"] = phone
	}
	if street := supplierData.str("street"); street != "" {
		values["street"] = street
	}

	partnerID, err := h.erp.Create(r.Context(), odoo.ModelResPartner, values)
	if err != nil {
		respondError(w, "Failed to create customer: "+err.Error(), http.StatusInternalServerError)
		return
	}

	respondSuccess(w, map[string]interface{}{"partner_id": partnerID}, "")
}
