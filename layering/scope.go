// Package layering composes configuration payloads contributed by several
// scopes (global defaults, group overrides, per-user settings) and applies
// the effective result to a property tree.
package layering

import (
	"fmt"
	"strings"
)

// Level identifies the precedence of a scope. Higher levels override lower
// ones.
type Level int

const (
	LevelUnknown Level = iota
	LevelGlobal
	LevelGroup
	LevelUser
)

func (l Level) String() string {
	switch l {
	case LevelGlobal:
		return "global"
	case LevelGroup:
		return "group"
	case LevelUser:
		return "user"
	default:
		return "unknown"
	}
}

// ParseLevel maps a level name to its Level, ignoring case.
func ParseLevel(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "global":
		return LevelGlobal
	case "group":
		return LevelGroup
	case "user":
		return LevelUser
	default:
		return LevelUnknown
	}
}

// Scope names the origin of a layer.
type Scope struct {
	Key   string `json:"key"`
	Level Level  `json:"level"`
	User  string `json:"user,omitempty"`
	Group string `json:"group,omitempty"`
}

// Identifier returns a stable slug suitable as a storage key, for example
// "user/123/notifications".
func (s Scope) Identifier() string {
	switch s.Level {
	case LevelUser:
		return fmt.Sprintf("user/%s/%s", s.User, s.Key)
	case LevelGroup:
		return fmt.Sprintf("group/%s/%s", s.Group, s.Key)
	case LevelGlobal:
		return fmt.Sprintf("global/%s", s.Key)
	default:
		return fmt.Sprintf("unknown/%s", s.Key)
	}
}
