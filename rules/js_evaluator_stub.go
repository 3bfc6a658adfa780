//go:build !js_eval

package rules

// NewJSEvaluator needs the js_eval build tag; without it there is no
// JavaScript engine and the result is nil.
func NewJSEvaluator(...EngineOption) Evaluator {
	return nil
}

// JSAvailable reports whether the binary was built with the js_eval tag.
func JSAvailable() bool {
	return false
}
