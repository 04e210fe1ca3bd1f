package model

// GeneratorOptions is the compilation-wide configuration. It participates
// in every cache key.
type GeneratorOptions struct {
	// AsyncExtensions turns on async helpers for every union.
	AsyncExtensions bool
	// RuntimeNamespace qualifies the shared Union interfaces in generated
	// code.
	RuntimeNamespace string
}

const DefaultRuntimeNamespace = "dotUnion"

// Runtime returns the runtime namespace, falling back to the default.
func (o GeneratorOptions) Runtime() string {
	if o.RuntimeNamespace == "" {
		return DefaultRuntimeNamespace
	}
	return o.RuntimeNamespace
}

func (o GeneratorOptions) Digest() Digest { return digestOf(o) }
