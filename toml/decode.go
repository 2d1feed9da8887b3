package toml

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Unmarshal parses TOML data and stores the result in the value pointed to by v
// Fields not present in data keep their current values, so v can carry defaults
func Unmarshal(data []byte, v any) error {
	parsed, err := NewParser(data).Parse()
	if err != nil {
		return err
	}
	return Decode(parsed, v)
}

// Decode maps a parsed table onto a struct using `toml` tags, falling back to
// lower-cased field names. time.Duration fields take strings like "60ms".
func Decode(data map[string]any, v any) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("toml: target must be a non-nil pointer")
	}
	return decodeValue(data, val.Elem(), "")
}

func decodeValue(data any, val reflect.Value, path string) error {
	if val.Type() == durationType {
		s, ok := data.(string)
		if !ok {
			return fmt.Errorf("toml: %s: expected duration string, got %T", path, data)
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("toml: %s: %w", path, err)
		}
		val.SetInt(int64(d))
		return nil
	}

	switch val.Kind() {
	case reflect.Ptr:
		if val.IsNil() {
			val.Set(reflect.New(val.Type().Elem()))
		}
		return decodeValue(data, val.Elem(), path)

	case reflect.Struct:
		table, ok := data.(map[string]any)
		if !ok {
			return fmt.Errorf("toml: %s: expected table, got %T", path, data)
		}
		return decodeStruct(table, val, path)

	case reflect.Slice:
		arr, ok := data.([]any)
		if !ok {
			return fmt.Errorf("toml: %s: expected array, got %T", path, data)
		}
		out := reflect.MakeSlice(val.Type(), len(arr), len(arr))
		for i, item := range arr {
			if err := decodeValue(item, out.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		val.Set(out)
		return nil

	case reflect.String:
		s, ok := data.(string)
		if !ok {
			return fmt.Errorf("toml: %s: expected string, got %T", path, data)
		}
		val.SetString(s)
		return nil

	case reflect.Bool:
		b, ok := data.(bool)
		if !ok {
			return fmt.Errorf("toml: %s: expected bool, got %T", path, data)
		}
		val.SetBool(b)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := data.(int64)
		if !ok {
			return fmt.Errorf("toml: %s: expected integer, got %T", path, data)
		}
		if val.OverflowInt(n) {
			return fmt.Errorf("toml: %s: %d overflows %s", path, n, val.Type())
		}
		val.SetInt(n)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := data.(int64)
		if !ok || n < 0 || val.OverflowUint(uint64(n)) {
			return fmt.Errorf("toml: %s: expected unsigned integer, got %v", path, data)
		}
		val.SetUint(uint64(n))
		return nil

	case reflect.Float32, reflect.Float64:
		switch f := data.(type) {
		case float64:
			val.SetFloat(f)
		case int64:
			val.SetFloat(float64(f))
		default:
			return fmt.Errorf("toml: %s: expected float, got %T", path, data)
		}
		if math.IsInf(val.Float(), 0) {
			return fmt.Errorf("toml: %s: float out of range", path)
		}
		return nil

	case reflect.Interface:
		val.Set(reflect.ValueOf(data))
		return nil
	}

	return fmt.Errorf("toml: %s: unsupported kind %s", path, val.Kind())
}

func decodeStruct(table map[string]any, val reflect.Value, path string) error {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		key := strings.ToLower(field.Name)
		if tag := field.Tag.Get("toml"); tag != "" {
			name, _, _ := strings.Cut(tag, ",")
			if name == "-" {
				continue
			}
			if name != "" {
				key = name
			}
		}

		data, ok := table[key]
		if !ok {
			continue
		}

		fieldPath := key
		if path != "" {
			fieldPath = path + "." + key
		}
		if err := decodeValue(data, val.Field(i), fieldPath); err != nil {
			return err
		}
	}
	return nil
}
