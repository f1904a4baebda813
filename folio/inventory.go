package folio

import (
	"context"
	"encoding/json"
	"fmt"
)

// Inventory exposes both a business logic module and a storage module for
// items. The former applies business rules and dereferences UUIDs, the
// latter is closer to raw persistence and faster for bulk reads.
const (
	itemsPath       = "/inventory/items"
	itemStoragePath = "/item-storage/items"
)

// Items fetches every item matching the CQL query through the business
// logic module, paginating internally.
func (c *Client) Items(ctx context.Context, query string) ([]Item, error) {
	return collect[Item](c.IterItems(ctx, query))
}

// IterItems iterates items matching the CQL query one record at a time.
func (c *Client) IterItems(ctx context.Context, query string) *Iterator {
	return c.Iter(ctx, itemsPath, "items", query, 0)
}

// StorageItems fetches items through the storage module, which skips
// business rule processing.
func (c *Client) StorageItems(ctx context.Context, query string) ([]Item, error) {
	return collect[Item](c.IterStorageItems(ctx, query))
}

// IterStorageItems iterates storage-module items one record at a time.
func (c *Client) IterStorageItems(ctx context.Context, query string) *Iterator {
	return c.Iter(ctx, itemStoragePath, "items", query, 0)
}

// ItemByID fetches a single item by UUID through the business logic module.
func (c *Client) ItemByID(ctx context.Context, id string) (*Item, error) {
	body, err := c.Get(ctx, itemsPath+"/"+id, "", "", 0)
	if err != nil {
		return nil, err
	}
	var item Item
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("folio: failed to decode item: %w", err)
	}
	return &item, nil
}
