package odoo

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Search returns the IDs matching the domain. Offset and limit are
// positional; limit 0 means no limit.
func (c *Client) Search(ctx context.Context, model Model, domain Domain, offset, limit int) ([]int64, error) {
	c.logger.Debug("search",
		zap.String("model", string(model)),
		zap.Any("domain", domain),
		zap.String("op", "Search"),
	)

	result, err := c.Execute(ctx, model, "search", domain.ToRPC(), offset, limit)
	if err != nil {
		return nil, err
	}
	ids, err := idsFromResult(result)
	if err != nil {
		return nil, fmt.Errorf("%w: search on %s returned %T", ErrInvalidResponse, model, result)
	}
	return ids, nil
}

// Read fetches the listed fields for the given record IDs. An empty ID
// slice short-circuits to an empty result without a round trip.
func (c *Client) Read(ctx context.Context, model Model, ids []int64, fields Fields) ([]Record, error) {
	if len(ids) == 0 {
		return []Record{}, nil
	}

	result, err := c.Execute(ctx, model, "read", ids, []string(fields))
	if err != nil {
		return nil, err
	}
	records, err := recordsFromResult(result)
	if err != nil {
		return nil, fmt.Errorf("%w: read on %s returned %T", ErrInvalidResponse, model, result)
	}
	return records, nil
}

// SearchRead combines search and read in a single round trip, with the
// canonical argument ordering: domain, fields, offset, limit, order.
func (c *Client) SearchRead(ctx context.Context, model Model, domain Domain, fields Fields, offset, limit int, order string) ([]Record, error) {
	c.logger.Debug("search_read",
		zap.String("model", string(model)),
		zap.Any("domain", domain),
		zap.Int("offset", offset),
		zap.Int("limit", limit),
		zap.String("op", "SearchRead"),
	)

	result, err := c.Execute(ctx, model, "search_read", domain.ToRPC(), []string(fields), offset, limit, order)
	if err != nil {
		return nil, err
	}
	records, err := recordsFromResult(result)
	if err != nil {
		return nil, fmt.Errorf("%w: search_read on %s returned %T", ErrInvalidResponse, model, result)
	}
	return records, nil
}

// SearchCount returns the number of records matching the domain.
func (c *Client) SearchCount(ctx context.Context, model Model, domain Domain) (int64, error) {
	result, err := c.Execute(ctx, model, "search_count", domain.ToRPC())
	if err != nil {
		return 0, err
	}
	count, err := intFromResult(result)
	if err != nil {
		return 0, fmt.Errorf("%w: search_count on %s returned %T", ErrInvalidResponse, model, result)
	}
	return count, nil
}

// Create inserts one record and returns its new ID.
func (c *Client) Create(ctx context.Context, model Model, data Data) (int64, error) {
	c.logger.Debug("create",
		zap.String("model", string(model)),
		zap.String("op", "Create"),
	)

	result, err := c.Execute(ctx, model, "create", map[string]interface{}(data))
	if err != nil {
		return 0, err
	}
	id, err := intFromResult(result)
	if err != nil {
		return 0, fmt.Errorf("%w: create on %s did not return an ID", ErrInvalidResponse, model)
	}

	c.logger.Info("record created",
		zap.String("model", string(model)),
		zap.Int64("id", id),
		zap.String("op", "Create"),
	)
	return id, nil
}

// Write updates the given fields on the listed records. Only the supplied
// keys are touched. The returned bool is the server's own result; false
// without an error is a legitimate outcome, not a failure.
func (c *Client) Write(ctx context.Context, model Model, ids []int64, data Data) (bool, error) {
	if len(ids) == 0 {
		return false, fmt.Errorf("odoo: no record IDs provided for write")
	}

	result, err := c.Execute(ctx, model, "write", ids, map[string]interface{}(data))
	if err != nil {
		return false, err
	}
	ok, isBool := result.(bool)
	if !isBool {
		return false, fmt.Errorf("%w: write on %s returned %T", ErrInvalidResponse, model, result)
	}

	c.logger.Info("records written",
		zap.String("model", string(model)),
		zap.Int64s("ids", ids),
		zap.Bool("result", ok),
		zap.String("op", "Write"),
	)
	return ok, nil
}

// Unlink deletes the listed records.
func (c *Client) Unlink(ctx context.Context, model Model, ids []int64) (bool, error) {
	if len(ids) == 0 {
		return false, fmt.Errorf("odoo: no record IDs provided for unlink")
	}

	result, err := c.Execute(ctx, model, "unlink", ids)
	if err != nil {
		return false, err
	}
	ok, isBool := result.(bool)
	if !isBool {
		return false, fmt.Errorf("%w: unlink on %s returned %T", ErrInvalidResponse, model, result)
	}

	c.logger.Info("records deleted",
		zap.String("model", string(model)),
		zap.Int64s("ids", ids),
		zap.String("op", "Unlink"),
	)
	return ok, nil
}

// FieldsGet returns the model's field definitions (name, help text and
// type only). Endpoints use this to probe which schema version a database
// carries before committing to field names.
func (c *Client) FieldsGet(ctx context.Context, model Model) (map[string]Record, error) {
	result, err := c.Execute(ctx, model, "fields_get", []interface{}{}, []string{"string", "help", "type"})
	if err != nil {
		return nil, err
	}

	raw, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: fields_get on %s returned %T", ErrInvalidResponse, model, result)
	}
	fields := make(map[string]Record, len(raw))
	for name, attrs := range raw {
		if m, ok := attrs.(map[string]interface{}); ok {
			fields[name] = Record(m)
		} else {
			fields[name] = Record{}
		}
	}
	return fields, nil
}
