package listservice

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/thenoetrevino/listctl/internal/models"
)

// ItemDetail is the decoded result of an items.info call
type ItemDetail struct {
	Item models.Item
	// Raw is the full response; it may embed list metadata with the schema
	Raw map[string]any
}

// GetItem fetches one item with items.info
func GetItem(ctx context.Context, c Caller, listID, itemID string) (*ItemDetail, error) {
	resp, err := c.Call(ctx, MethodItemsInfo, map[string]any{"list_id": listID, "id": itemID})
	if err != nil {
		return nil, err
	}

	rawItem, ok := resp["item"]
	if !ok {
		rawItem, ok = resp["record"]
	}
	if !ok {
		return nil, fmt.Errorf("%s: response has no item", MethodItemsInfo)
	}

	var item models.Item
	if err := Decode(rawItem, &item); err != nil {
		return nil, fmt.Errorf("%s: %w", MethodItemsInfo, err)
	}
	if item.ListID == "" {
		item.ListID = listID
	}
	return &ItemDetail{Item: item, Raw: resp}, nil
}

// FetchItems fetches items concurrently, one request per id, and returns them
// in the order of ids. Concurrency is bounded by the batch size; the first
// failure cancels the rest.
func FetchItems(ctx context.Context, c Caller, listID string, ids []string) ([]models.Item, error) {
	items := make([]models.Item, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(len(ids))

	for i, id := range ids {
		eg.Go(func() error {
			detail, err := GetItem(egCtx, c, listID, id)
			if err != nil {
				return fmt.Errorf("item %s: %w", id, err)
			}
			items[i] = detail.Item
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItemField writes one field of an item
func UpdateItemField(ctx context.Context, c Caller, listID, itemID string, field models.Field) error {
	var encoded map[string]any
	if err := Decode(field, &encoded); err != nil {
		return fmt.Errorf("encode field: %w", err)
	}

	_, err := c.Call(ctx, MethodItemUpdate, map[string]any{
		"list_id": listID,
		"cells": []any{
			mergeMaps(map[string]any{"row_id": itemID}, encoded),
		},
	})
	return err
}

// Decode converts a JSON-like value into out by re-encoding it
func Decode(in any, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func mergeMaps(dst, src map[string]any) map[string]any {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
