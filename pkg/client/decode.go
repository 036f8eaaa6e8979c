package client

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// Decode converts a loosely typed JSON value (as returned by Collect) into out,
// which must be a pointer. Field names come from json struct tags and scalar
// types are coerced, so numeric ids decode into string fields.
func Decode(in any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook:       jsonNumberHook,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("error decoding %T: %w", out, err)
	}
	return nil
}

// CollectInto is Collect followed by Decode of every item into T.
func CollectInto[T any](ctx context.Context, c *Client, initialURL string, all bool) ([]T, error) {
	items, err := c.Collect(ctx, initialURL, all)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := Decode(item, &v); err != nil {
			return nil, protocolError(initialURL, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// jsonNumberHook turns json.Number into the closest native type so that
// mapstructure can place it into int, float or string fields.
func jsonNumberHook(_ reflect.Type, _ reflect.Type, data any) (any, error) {
	n, ok := data.(json.Number)
	if !ok {
		return data, nil
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	if f, err := n.Float64(); err == nil {
		return f, nil
	}
	return n.String(), nil
}

// Str returns m[key] as a string. Numbers and booleans are formatted and
// anything else yields "".
func Str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Obj returns m[key] as an object, or nil.
func Obj(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}
