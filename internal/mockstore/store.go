// Package mockstore keeps session-local stand-in invoices for databases
// where no invoicing model is installed. Records here never reach the ERP;
// they exist so the purchase workflow can complete and the frontend can
// warn the user via the mock flag.
package mockstore

import "sync"

// MockInvoice mirrors the shape of a real invoice listing row, plus the
// Mock flag.
type MockInvoice struct {
	ID          int64                    `json:"id"`
	Name        string                   `json:"name"`
	DateOrder   string                   `json:"date_order"`
	PartnerID   []interface{}            `json:"partner_id"`
	AmountTotal float64                  `json:"amount_total"`
	State       string                   `json:"state"`
	Mock        bool                     `json:"mock"`
	OrderLines  []map[string]interface{} `json:"order_line"`
}

// Store holds mock invoices keyed by browser session token.
type Store interface {
	Add(token string, inv MockInvoice)
	List(token string) []MockInvoice
}

// InMemory is the default Store: a mutex-guarded map. Entries live for the
// process lifetime; tokens are per-browser-session cookies, so abandoned
// sessions simply stop being read.
type InMemory struct {
	mu       sync.Mutex
	invoices map[string][]MockInvoice
}

// NewInMemory returns an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{invoices: make(map[string][]MockInvoice)}
}

// Add appends an invoice to the session's list.
func (s *InMemory) Add(token string, inv MockInvoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[token] = append(s.invoices[token], inv)
}

// List returns a copy of the session's invoices, oldest first.
func (s *InMemory) List(token string) []MockInvoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.invoices[token]
	out := make([]MockInvoice, len(stored))
	copy(out, stored)
	return out
}
