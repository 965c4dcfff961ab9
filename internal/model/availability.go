package model

// ContextAvailability describes whether the scope enclosing a reference can
// supply the BuildContext handle a themed lookup needs. It is recomputed
// whenever a tree is analyzed and never persisted.
type ContextAvailability int

const (
	// ContextAvailable means a BuildContext is already in scope, either as a
	// declared parameter or because the site is a build method.
	ContextAvailable ContextAvailability = iota

	// ContextCanInject means no BuildContext is in scope but a parameter
	// could be threaded in mechanically.
	ContextCanInject

	// ContextRequiresManual means a human has to restructure the code before
	// the rewritten expression can work.
	ContextRequiresManual

	// ContextUnavailable means no runtime lookup can ever happen at the
	// site, e.g. inside a const constructor or a static initializer.
	ContextUnavailable
)

// String returns a short human-readable name for the availability state.
func (a ContextAvailability) String() string {
	switch a {
	case ContextAvailable:
		return "available"
	case ContextCanInject:
		return "can-inject"
	case ContextRequiresManual:
		return "requires-manual"
	case ContextUnavailable:
		return "unavailable"
	}

	return "unknown"
}

// CanAutoInject reports whether the rewrite at this site compiles without
// human intervention.
func (a ContextAvailability) CanAutoInject() bool {
	return a == ContextAvailable || a == ContextCanInject
}
