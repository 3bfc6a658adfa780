package openapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Info is the document info object.
type Info struct {
	Title       string
	Version     string
	Description string
}

// Operation is the endpoint that accepts the tree payload. An empty ID
// becomes "<method>:<path>".
type Operation struct {
	Method  string
	Path    string
	ID      string
	Summary string
}

// GeneratorOption configures Generate.
type GeneratorOption func(*generatorConfig)

type generatorConfig struct {
	version     string
	info        Info
	operation   Operation
	contentType string
	responses   map[string]string
	components  bool
}

func newGeneratorConfig(opts []GeneratorOption) generatorConfig {
	cfg := generatorConfig{
		version:     "3.0.3",
		info:        Info{Title: "Properties", Version: "1.0.0"},
		operation:   Operation{Method: "put", Path: "/properties"},
		contentType: "application/json",
		responses:   map[string]string{"204": "Applied"},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg.operation.Method = strings.ToLower(cfg.operation.Method)
	if cfg.operation.ID == "" {
		cfg.operation.ID = cfg.operation.Method + ":" + cfg.operation.Path
	}
	return cfg
}

func (cfg generatorConfig) validate() error {
	op := cfg.operation
	switch {
	case !strings.HasPrefix(op.Path, "/"):
		return fmt.Errorf("openapi: path %q must start with /", op.Path)
	case len(cfg.responses) == 0:
		return fmt.Errorf("openapi: %s %s declares no responses", op.Method, op.Path)
	case cfg.contentType == "":
		return errors.New("openapi: content type must be set")
	}
	return nil
}

func (cfg generatorConfig) statuses() []string {
	out := make([]string, 0, len(cfg.responses))
	for status := range cfg.responses {
		out = append(out, status)
	}
	sort.Strings(out)
	return out
}

// WithOpenAPIVersion overrides the openapi field (default 3.0.3).
func WithOpenAPIVersion(version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		override(&cfg.version, version)
	}
}

// WithInfo overrides the non-empty fields of the info object.
func WithInfo(info Info) GeneratorOption {
	return func(cfg *generatorConfig) {
		override(&cfg.info.Title, info.Title)
		override(&cfg.info.Version, info.Version)
		override(&cfg.info.Description, info.Description)
	}
}

// WithOperation overrides the non-empty fields of the operation. The
// default is PUT /properties.
func WithOperation(op Operation) GeneratorOption {
	return func(cfg *generatorConfig) {
		override(&cfg.operation.Method, op.Method)
		override(&cfg.operation.Path, op.Path)
		override(&cfg.operation.ID, op.ID)
		override(&cfg.operation.Summary, op.Summary)
	}
}

// WithContentType sets the request body media type.
func WithContentType(contentType string) GeneratorOption {
	return func(cfg *generatorConfig) {
		override(&cfg.contentType, contentType)
	}
}

// WithResponse declares the response for status. An empty description
// removes the status, which drops the default 204 when replacing it.
func WithResponse(status, description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		status = strings.TrimSpace(status)
		if status == "" {
			return
		}
		if description == "" {
			delete(cfg.responses, status)
			return
		}
		if cfg.responses == nil {
			cfg.responses = map[string]string{}
		}
		cfg.responses[status] = description
	}
}

// WithComponents publishes every model of the tree under
// components/schemas and references them with $ref instead of inlining.
func WithComponents() GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.components = true
	}
}

func override(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}
