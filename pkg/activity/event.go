// Package activity turns property tree changes into activity events and fans
// them out to hooks such as audit sinks and test captures.
package activity

import (
	"strings"
	"time"
)

// Verbs emitted for property trees.
const (
	VerbPropertyChanged     = "property.changed"
	VerbPropertiesCommitted = "properties.committed"
	VerbPropertiesSaved     = "properties.saved"
	VerbPropertiesLoaded    = "properties.loaded"
)

// Object types reported by Event.ObjectType.
const (
	ObjectTypeProperty = "property"
	ObjectTypeModel    = "properties.model"
)

// Event is one occurrence in a property tree. Path is empty for model wide
// events (commits, saves and loads).
type Event struct {
	Verb      string
	Model     string
	Path      string
	File      string
	ValueType string
	Value     any

	ActorID  string
	UserID   string
	TenantID string
	Channel  string

	Metadata   map[string]any
	OccurredAt time.Time
}

// Changed describes a change surfacing at model under path.
func Changed(model, path string) Event {
	return Event{Verb: VerbPropertyChanged, Model: model, Path: path}
}

// Committed describes a commit or clean of model.
func Committed(model string) Event {
	return Event{Verb: VerbPropertiesCommitted, Model: model}
}

// Saved describes model being written to file.
func Saved(model, file string) Event {
	return Event{Verb: VerbPropertiesSaved, Model: model, File: file}
}

// Loaded describes model being restored from file.
func Loaded(model, file string) Event {
	return Event{Verb: VerbPropertiesLoaded, Model: model, File: file}
}

// ObjectType is ObjectTypeProperty for path scoped events and
// ObjectTypeModel otherwise.
func (e Event) ObjectType() string {
	if strings.Trim(e.Path, "/ ") != "" {
		return ObjectTypeProperty
	}
	return ObjectTypeModel
}

// ObjectID is the model name joined with the path, "settings/network/port".
func (e Event) ObjectID() string {
	model := strings.TrimSpace(e.Model)
	path := strings.Trim(strings.TrimSpace(e.Path), "/")
	switch {
	case path == "":
		return model
	case model == "":
		return path
	}
	return model + "/" + path
}

// Valid reports whether the event names a verb and an object.
func (e Event) Valid() bool {
	return strings.TrimSpace(e.Verb) != "" && e.ObjectID() != ""
}

// Normalize trims identifiers, detaches Metadata from the caller and stamps
// OccurredAt when it is missing.
func (e Event) Normalize() Event {
	for _, field := range []*string{&e.Verb, &e.Model, &e.File, &e.ValueType, &e.ActorID, &e.UserID, &e.TenantID, &e.Channel} {
		*field = strings.TrimSpace(*field)
	}
	e.Path = strings.Trim(strings.TrimSpace(e.Path), "/")
	if len(e.Metadata) > 0 {
		meta := make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			meta[k] = v
		}
		e.Metadata = meta
	} else {
		e.Metadata = nil
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	return e
}

// Attributes flattens the property fields and Metadata into one map. The
// property fields win over Metadata keys of the same name.
func (e Event) Attributes() map[string]any {
	out := make(map[string]any, len(e.Metadata)+5)
	for k, v := range e.Metadata {
		out[k] = v
	}
	put := func(key string, value string) {
		if value != "" {
			out[key] = value
		}
	}
	put("model", strings.TrimSpace(e.Model))
	put("path", strings.Trim(strings.TrimSpace(e.Path), "/"))
	put("file", e.File)
	put("value_type", e.ValueType)
	if e.Value != nil {
		out["new_value"] = e.Value
	}
	return out
}
