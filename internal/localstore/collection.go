package localstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/localblog/internal/kvstore"
)

// Collection is an ordered list of T stored as one JSON array under key.
// Mutations work on the raw JSON objects, so fields T does not know about
// survive an Update.
type Collection[T any] struct {
	backend kvstore.Backend
	key     string
	prepend bool
	corrupt corruptFunc
}

func newCollection[T any](backend kvstore.Backend, key string, prepend bool, corrupt corruptFunc) *Collection[T] {
	return &Collection[T]{
		backend: backend,
		key:     key,
		prepend: prepend,
		corrupt: corrupt,
	}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// ReadAll never fails on missing or unparsable data. An unparsable blob reads
// as empty, single items that do not decode into T are skipped.
func (c *Collection[T]) ReadAll(ctx context.Context) ([]T, error) {
	stored, exists, err := c.backend.GetItem(ctx, c.key)
	if err != nil {
		return nil, wrapBackendErr("read", c.key, err)
	}

	items := make([]T, 0)
	if !exists {
		return items, nil
	}

	rawItems, err := decodeRawItems(stored)
	if err != nil {
		c.corrupt(c.key, err)
		return items, nil
	}

	for i, raw := range rawItems {
		item, err := decodeItem[T](raw)
		if err != nil {
			c.corrupt(c.key, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// Find returns the first item with the given id.
func (c *Collection[T]) Find(ctx context.Context, id string) (T, bool, error) {
	var found T

	stored, exists, err := c.backend.GetItem(ctx, c.key)
	if err != nil {
		return found, false, wrapBackendErr("read", c.key, err)
	}
	if !exists {
		return found, false, nil
	}

	items, err := decodeRawItems(stored)
	if err != nil {
		c.corrupt(c.key, err)
		return found, false, nil
	}

	for _, item := range items {
		if !idMatches(item, id) {
			continue
		}
		decoded, err := decodeItem[T](item)
		if err != nil {
			c.corrupt(c.key, err)
			return found, false, nil
		}
		return decoded, true, nil
	}

	return found, false, nil
}

// Append puts item at the front for prepend collections and at the end otherwise.
func (c *Collection[T]) Append(ctx context.Context, item T) error {
	encoded, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode %s item: %w", c.key, err)
	}

	return c.mutate(ctx, func(items []json.RawMessage) ([]json.RawMessage, bool, error) {
		if c.prepend {
			return append([]json.RawMessage{encoded}, items...), true, nil
		}
		return append(items, encoded), true, nil
	})
}

// AppendIf appends item only when allow accepts the current items. The check
// and the write happen in one atomic backend update. Items that do not decode
// into T are left out of what allow sees.
func (c *Collection[T]) AppendIf(ctx context.Context, item T, allow func(existing []T) error) error {
	encoded, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode %s item: %w", c.key, err)
	}

	return c.mutate(ctx, func(items []json.RawMessage) ([]json.RawMessage, bool, error) {
		existing := make([]T, 0, len(items))
		for _, raw := range items {
			if typed, err := decodeItem[T](raw); err == nil {
				existing = append(existing, typed)
			}
		}
		if err := allow(existing); err != nil {
			return nil, false, err
		}

		if c.prepend {
			return append([]json.RawMessage{encoded}, items...), true, nil
		}
		return append(items, encoded), true, nil
	})
}

// Update shallow-merges patch into the first item with the given id.
// patch must encode to a JSON object. A missing id is a no-op.
func (c *Collection[T]) Update(ctx context.Context, id string, patch any) error {
	patchFields, err := encodePatch(patch)
	if err != nil {
		return err
	}

	return c.mutate(ctx, func(items []json.RawMessage) ([]json.RawMessage, bool, error) {
		for i, item := range items {
			if !idMatches(item, id) {
				continue
			}

			fields := map[string]json.RawMessage{}
			if err := json.Unmarshal(item, &fields); err != nil {
				return nil, false, fmt.Errorf("decode %s item %s: %w", c.key, id, err)
			}
			for k, v := range patchFields {
				fields[k] = v
			}

			merged, err := json.Marshal(fields)
			if err != nil {
				return nil, false, fmt.Errorf("encode %s item %s: %w", c.key, id, err)
			}
			items[i] = merged
			return items, true, nil
		}
		return items, false, nil
	})
}

// Remove drops every item with the given id. Removing a missing id is a no-op.
func (c *Collection[T]) Remove(ctx context.Context, id string) error {
	return c.mutate(ctx, func(items []json.RawMessage) ([]json.RawMessage, bool, error) {
		kept := make([]json.RawMessage, 0, len(items))
		for _, item := range items {
			if !idMatches(item, id) {
				kept = append(kept, item)
			}
		}
		return kept, len(kept) != len(items), nil
	})
}

// RemoveWhere drops every item for which match returns true and reports how many went.
func (c *Collection[T]) RemoveWhere(ctx context.Context, match func(T) bool) (int, error) {
	removed := 0
	err := c.mutate(ctx, func(items []json.RawMessage) ([]json.RawMessage, bool, error) {
		removed = 0
		kept := make([]json.RawMessage, 0, len(items))
		for _, item := range items {
			if typed, err := decodeItem[T](item); err == nil && match(typed) {
				removed++
				continue
			}
			kept = append(kept, item)
		}
		return kept, removed > 0, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// InitIfEmpty stores items only when the collection holds nothing yet.
func (c *Collection[T]) InitIfEmpty(ctx context.Context, items []T) (bool, error) {
	initialized := false
	err := c.mutate(ctx, func(current []json.RawMessage) ([]json.RawMessage, bool, error) {
		if len(current) > 0 {
			return current, false, nil
		}

		next := make([]json.RawMessage, 0, len(items))
		for _, item := range items {
			encoded, err := json.Marshal(item)
			if err != nil {
				return nil, false, fmt.Errorf("encode %s item: %w", c.key, err)
			}
			next = append(next, encoded)
		}
		initialized = len(next) > 0
		return next, initialized, nil
	})
	if err != nil {
		return false, err
	}
	return initialized, nil
}

type mutateFunc func(items []json.RawMessage) (next []json.RawMessage, changed bool, err error)

func (c *Collection[T]) mutate(ctx context.Context, fn mutateFunc) error {
	err := c.backend.Update(ctx, c.key, func(current string, exists bool) (string, error) {
		items := make([]json.RawMessage, 0)
		if exists {
			decoded, err := decodeRawItems(current)
			if err != nil {
				c.corrupt(c.key, err)
			} else {
				items = decoded
			}
		}

		next, changed, err := fn(items)
		if err != nil {
			return "", err
		}
		if !changed {
			return "", kvstore.ErrUnchanged
		}

		encoded, err := json.Marshal(next)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", c.key, err)
		}
		return string(encoded), nil
	})
	return wrapBackendErr("write", c.key, err)
}

func decodeRawItems(stored string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(stored), &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = make([]json.RawMessage, 0)
	}
	return items, nil
}

// decodeItem decodes one stored object into T. Objects written by older
// clients with a numeric id or epoch millisecond timestamps are normalized first.
func decodeItem[T any](raw json.RawMessage) (T, error) {
	var item T
	err := json.Unmarshal(raw, &item)
	if err == nil {
		return item, nil
	}

	normalized, ok := normalizeLegacyItem(raw)
	if !ok {
		return *new(T), err
	}

	var retried T
	if retryErr := json.Unmarshal(normalized, &retried); retryErr != nil {
		return *new(T), err
	}
	return retried, nil
}

var legacyTimeFields = []string{"createdAt", "updatedAt"}

func normalizeLegacyItem(raw json.RawMessage) (json.RawMessage, bool) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}

	changed := false
	if id, found := fields["id"]; found {
		var num json.Number
		if err := json.Unmarshal(id, &num); err == nil {
			fields["id"], _ = json.Marshal(num.String())
			changed = true
		}
	}
	for _, name := range legacyTimeFields {
		value, found := fields[name]
		if !found {
			continue
		}
		var millis int64
		if err := json.Unmarshal(value, &millis); err == nil {
			fields[name], _ = json.Marshal(time.UnixMilli(millis).UTC())
			changed = true
		}
	}
	if !changed {
		return nil, false
	}

	normalized, err := json.Marshal(fields)
	if err != nil {
		return nil, false
	}
	return normalized, true
}

func encodePatch(patch any) (map[string]json.RawMessage, error) {
	encoded, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPatch, err)
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(encoded, &fields); err != nil || fields == nil {
		return nil, ErrInvalidPatch
	}
	return fields, nil
}

// idMatches compares the item's "id" with id. Numeric ids stored by older
// clients compare by their JSON text.
func idMatches(item json.RawMessage, id string) bool {
	var withID struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(item, &withID); err != nil || withID.ID == nil {
		return false
	}

	var strID string
	if err := json.Unmarshal(withID.ID, &strID); err == nil {
		return strID == id
	}
	return string(bytes.TrimSpace(withID.ID)) == id
}
