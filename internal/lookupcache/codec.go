package lookupcache

import (
	"encoding/json"
	"fmt"
	"time"
)

// Cached match fields keep their Go type next to the value. Plain JSON would
// turn int64 into float64 and time.Time into a string, so a cached answer
// would render differently from the live one.
type cachedValue struct {
	Kind  string          `json:"k"`
	Value json.RawMessage `json:"v,omitempty"`
}

const (
	kindNil    = "nil"
	kindString = "string"
	kindBool   = "bool"
	kindInt    = "int"
	kindInt64  = "int64"
	kindFloat  = "float64"
	kindTime   = "time"
	kindList   = "list"
	kindStruct = "struct"
)

func encodeMatches(matches []map[string]any) ([]byte, error) {
	if matches == nil {
		return []byte("null"), nil
	}
	rows := make([]map[string]cachedValue, 0, len(matches))
	for _, match := range matches {
		row, err := encodeStruct(match)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return json.Marshal(rows)
}

func decodeMatches(payload []byte) ([]map[string]any, error) {
	var rows []map[string]cachedValue
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		return nil, nil
	}
	matches := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		match, err := decodeStruct(row)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func encodeStruct(in map[string]any) (map[string]cachedValue, error) {
	out := make(map[string]cachedValue, len(in))
	for key, v := range in {
		cv, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		out[key] = cv
	}
	return out, nil
}

func decodeStruct(in map[string]cachedValue) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for key, cv := range in {
		v, err := decodeValue(cv)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

func encodeValue(v any) (cachedValue, error) {
	var (
		kind  string
		inner any
	)
	switch typed := v.(type) {
	case nil:
		return cachedValue{Kind: kindNil}, nil
	case string:
		kind, inner = kindString, typed
	case bool:
		kind, inner = kindBool, typed
	case int:
		kind, inner = kindInt, typed
	case int64:
		kind, inner = kindInt64, typed
	case float64:
		kind, inner = kindFloat, typed
	case time.Time:
		kind, inner = kindTime, typed
	case []any:
		list := make([]cachedValue, 0, len(typed))
		for i, item := range typed {
			cv, err := encodeValue(item)
			if err != nil {
				return cachedValue{}, fmt.Errorf("index %d: %w", i, err)
			}
			list = append(list, cv)
		}
		kind, inner = kindList, list
	case map[string]any:
		fields, err := encodeStruct(typed)
		if err != nil {
			return cachedValue{}, err
		}
		kind, inner = kindStruct, fields
	default:
		return cachedValue{}, fmt.Errorf("unsupported type %T", v)
	}
	raw, err := json.Marshal(inner)
	if err != nil {
		return cachedValue{}, err
	}
	return cachedValue{Kind: kind, Value: raw}, nil
}

func decodeValue(cv cachedValue) (any, error) {
	switch cv.Kind {
	case kindNil:
		return nil, nil
	case kindString:
		return unmarshalAs[string](cv.Value)
	case kindBool:
		return unmarshalAs[bool](cv.Value)
	case kindInt:
		return unmarshalAs[int](cv.Value)
	case kindInt64:
		return unmarshalAs[int64](cv.Value)
	case kindFloat:
		return unmarshalAs[float64](cv.Value)
	case kindTime:
		return unmarshalAs[time.Time](cv.Value)
	case kindList:
		items, err := unmarshalAs[[]cachedValue](cv.Value)
		if err != nil {
			return nil, err
		}
		list := make([]any, 0, len(items))
		for i, item := range items {
			v, err := decodeValue(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			list = append(list, v)
		}
		return list, nil
	case kindStruct:
		fields, err := unmarshalAs[map[string]cachedValue](cv.Value)
		if err != nil {
			return nil, err
		}
		return decodeStruct(fields)
	default:
		return nil, fmt.Errorf("unknown kind %q", cv.Kind)
	}
}

func unmarshalAs[T any](raw json.RawMessage) (T, error) {
	var v T
	err := json.Unmarshal(raw, &v)
	return v, err
}
