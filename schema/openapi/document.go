// Package openapi describes a property tree as an OpenAPI document whose
// single operation accepts the tree's JSON payload.
package openapi

import (
	"errors"

	props "github.com/goliatone/go-props"
)

// ErrNilTree is returned when Generate receives no ambassador.
var ErrNilTree = errors.New("openapi: tree cannot be nil")

// Generate builds the OpenAPI document for the tree below a.
func Generate(a *props.Ambassador, opts ...GeneratorOption) (map[string]any, error) {
	if a == nil {
		return nil, ErrNilTree
	}
	cfg := newGeneratorConfig(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	builder := &schemaBuilder{}
	if cfg.components {
		builder.registry = newComponentRegistry()
	}
	root := builder.property(a.Self(), componentName(a.Name()))

	document := map[string]any{
		"openapi": cfg.version,
		"info":    infoObject(cfg.info),
		"paths": map[string]any{
			cfg.operation.Path: map[string]any{
				cfg.operation.Method: operationObject(cfg, root),
			},
		},
	}
	if builder.registry != nil && len(builder.registry.schemas) > 0 {
		document["components"] = map[string]any{"schemas": builder.registry.schemas}
	}
	return document, nil
}

// Schema returns the inline JSON schema of the tree below a.
func Schema(a *props.Ambassador) (map[string]any, error) {
	if a == nil {
		return nil, ErrNilTree
	}
	builder := &schemaBuilder{}
	return builder.composite(a, a.Name()), nil
}

func infoObject(info Info) map[string]any {
	out := map[string]any{"title": info.Title, "version": info.Version}
	if info.Description != "" {
		out["description"] = info.Description
	}
	return out
}

func operationObject(cfg generatorConfig, root map[string]any) map[string]any {
	responses := make(map[string]any, len(cfg.responses))
	for _, status := range cfg.statuses() {
		responses[status] = map[string]any{"description": cfg.responses[status]}
	}
	op := map[string]any{
		"operationId": cfg.operation.ID,
		"requestBody": map[string]any{
			"required": true,
			"content": map[string]any{
				cfg.contentType: map[string]any{"schema": root},
			},
		},
		"responses": responses,
	}
	if cfg.operation.Summary != "" {
		op["summary"] = cfg.operation.Summary
	}
	return op
}
