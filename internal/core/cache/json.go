package cache

import (
	"context"
	"encoding/json"
	"strconv"
)

var null = []byte("null")

// Entity caches the JSON form of one row type keyed by numeric id.
// A missing row is stored as null, so writers must Forget an id when its row appears.
type Entity[T any] struct {
	c      *Cache
	prefix string
}

// NewEntity returns a store whose keys are prefix followed by the id, e.g. "crm:customer:7".
func NewEntity[T any](c *Cache, prefix string) *Entity[T] {
	return &Entity[T]{c: c, prefix: prefix}
}

func (e *Entity[T]) Key(id int64) string { return e.prefix + strconv.FormatInt(id, 10) }

// Get returns the cached row for id, calling load on a miss. load returning (nil, nil)
// means the row does not exist.
func (e *Entity[T]) Get(ctx context.Context, id int64, load func(context.Context) (*T, error)) (*T, error) {
	b, err := e.c.GetOrLoad(ctx, e.Key(id), e.c.TTL, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return null, nil
		}
		return json.Marshal(v)
	})
	if err != nil {
		return nil, err
	}
	if string(b) == string(null) {
		return nil, nil
	}
	out := new(T)
	if err := json.Unmarshal(b, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Entity[T]) Forget(ctx context.Context, ids ...int64) error {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = e.Key(id)
	}
	return e.c.Delete(ctx, keys...)
}
