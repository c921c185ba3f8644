package client

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"
)

// encodeQuery converts q to url.Values, dropping nil entries.
// Slices and arrays become repeated parameters.
func encodeQuery(q Query) (url.Values, error) {
	if len(q) == 0 {
		return nil, nil
	}

	values := url.Values{}
	for key, value := range q {
		encoded, ok, err := formatQueryValue(value)
		if err != nil {
			return nil, fmt.Errorf("query parameter %q: %w", key, err)
		}
		if !ok {
			continue
		}
		values[key] = encoded
	}

	return values, nil
}

// formatQueryValue returns the string forms of v, or false when v is nil.
func formatQueryValue(v any) ([]string, bool, error) {
	if v == nil {
		return nil, false, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, false, nil
		}
		// []byte is a scalar, not a list.
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			s, ok, err := formatScalar(rv.Index(i))
			if err != nil {
				return nil, false, err
			}
			if ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil, false, nil
		}
		return out, true, nil
	case reflect.Map, reflect.Func, reflect.Chan, reflect.Struct:
		if _, ok := rv.Interface().(fmt.Stringer); !ok {
			if _, isTime := rv.Interface().(time.Time); !isTime {
				return nil, false, fmt.Errorf("unsupported type %s", rv.Type())
			}
		}
	}

	s, ok, err := formatScalar(rv)
	if err != nil || !ok {
		return nil, ok, err
	}
	return []string{s}, true, nil
}

func formatScalar(rv reflect.Value) (string, bool, error) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false, nil
		}
		rv = rv.Elem()
	}

	switch x := rv.Interface().(type) {
	case time.Time:
		return x.Format(time.RFC3339), true, nil
	case []byte:
		return string(x), true, nil
	case fmt.Stringer:
		return x.String(), true, nil
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true, nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true, nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true, nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true, nil
	default:
		return "", false, fmt.Errorf("unsupported type %s", rv.Type())
	}
}
