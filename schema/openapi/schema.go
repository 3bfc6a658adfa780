package openapi

import (
	"reflect"
	"time"

	props "github.com/goliatone/go-props"
)

const (
	extensionPath = "x-props-path"
	extensionLink = "x-props-link"
)

// hintKeywords are Hint metadata keys copied verbatim into a leaf schema.
var hintKeywords = []string{"minimum", "maximum", "enum", "pattern", "format", "example", "deprecated"}

var (
	durationType = reflect.TypeFor[time.Duration]()
	timeType     = reflect.TypeFor[time.Time]()
)

type schemaBuilder struct {
	registry *componentRegistry
}

func (b *schemaBuilder) composite(a *props.Ambassador, name string) map[string]any {
	properties := map[string]any{}
	order := make([]any, 0, len(a.Properties()))
	for _, child := range a.Properties() {
		order = append(order, child.Name())
		properties[child.Name()] = b.property(child, componentName(name, child.Name()))
	}
	schema := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
		"x-props-order":        order,
		extensionPath:          props.PathOf(a.Self()),
	}
	applyHint(schema, a.Hint())
	return schema
}

func (b *schemaBuilder) property(p props.Property, name string) map[string]any {
	if composite, ok := p.(props.Composite); ok {
		schema := b.composite(composite.AsAmbassador(), name)
		if b.registry == nil {
			return schema
		}
		return map[string]any{"$ref": b.registry.register(name, schema)}
	}
	if link, ok := p.(*props.Link); ok {
		return linkSchema(link)
	}
	schema := typeSchema(p.ValueType().Type())
	if def, ok := defaultValue(p); ok {
		schema["default"] = def
	}
	applyHint(schema, p.Hint())
	return schema
}

func linkSchema(link *props.Link) map[string]any {
	schema := map[string]any{}
	if target, err := link.Resolve(); err == nil {
		if _, composite := target.(props.Composite); composite {
			schema["type"] = "object"
		} else {
			schema = typeSchema(target.ValueType().Type())
		}
	}
	schema[extensionLink] = link.Path()
	applyHint(schema, link.Hint())
	return schema
}

func typeSchema(rt reflect.Type) map[string]any {
	if rt == nil {
		return map[string]any{}
	}
	switch rt {
	case durationType:
		return map[string]any{"type": "string", "format": "duration"}
	case timeType:
		return map[string]any{"type": "string", "format": "date-time"}
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	switch rt.Kind() {
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16:
		return map[string]any{"type": "integer", "format": "int32"}
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return map[string]any{"type": "integer", "format": "int64"}
	case reflect.Float32:
		return map[string]any{"type": "number", "format": "float"}
	case reflect.Float64:
		return map[string]any{"type": "number", "format": "double"}
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Slice, reflect.Array:
		return map[string]any{"type": "array", "items": typeSchema(rt.Elem())}
	case reflect.Map, reflect.Struct:
		return map[string]any{"type": "object"}
	default:
		return map[string]any{"type": "string", "format": "go:" + rt.String()}
	}
}

func defaultValue(p props.Property) (any, bool) {
	switch raw := p.Raw().(type) {
	case nil:
		return nil, false
	case time.Duration:
		return raw.String(), true
	case time.Time:
		return raw.Format(time.RFC3339Nano), true
	case bool, string, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return raw, true
	case []string:
		return append([]string(nil), raw...), true
	default:
		return nil, false
	}
}

func applyHint(schema map[string]any, hint props.Hint) {
	if hint.Label != "" {
		schema["title"] = hint.Label
	}
	if hint.Description != "" {
		schema["description"] = hint.Description
	}
	for _, key := range hintKeywords {
		if value, ok := hint.Lookup(key); ok {
			schema[key] = value
		}
	}
}
