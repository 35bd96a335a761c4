package api

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBodyJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Bolt","price":2.5,"active":true}`))
	p := decodeBody(req)

	assert.Equal(t, "Bolt", p.str("name"))
	price, ok := p.number("price")
	assert.True(t, ok)
	assert.Equal(t, 2.5, price)
	assert.True(t, p.boolean("active", false))
}

func TestDecodeBodyFormFallback(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader("name=Bolt+M8&price=9.5&track_inventory=1"))
	p := decodeBody(req)

	assert.Equal(t, "Bolt M8", p.str("name"))
	price, ok := p.number("price")
	assert.True(t, ok)
	assert.Equal(t, 9.5, price)
	assert.True(t, p.boolean("track_inventory", false))
}

func TestDecodeBodyEmpty(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(""))
	p := decodeBody(req)
	assert.Empty(t, p)
	assert.False(t, p.has("anything"))
}

func TestPayloadNumberFromString(t *testing.T) {
	p := payload{"qty": " 12.5 ", "bad": "abc"}

	qty, ok := p.number("qty")
	require.True(t, ok)
	assert.Equal(t, 12.5, qty)

	_, ok = p.number("bad")
	assert.False(t, ok)
	_, ok = p.number("missing")
	assert.False(t, ok)
}

func TestPayloadIntegerTruncates(t *testing.T) {
	p := payload{"id": 7.9}
	id, ok := p.integer("id")
	require.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?page=3&bad=x", nil)
	assert.Equal(t, 3, queryInt(req, "page", 1))
	assert.Equal(t, 1, queryInt(req, "bad", 1))
	assert.Equal(t, 1, queryInt(req, "missing", 1))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(3), totalPages(25, 10))
	assert.Equal(t, int64(1), totalPages(10, 10))
	assert.Equal(t, int64(0), totalPages(0, 10))
	assert.Equal(t, int64(1), totalPages(1, 100))
}
