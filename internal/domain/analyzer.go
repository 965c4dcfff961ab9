package domain

import (
	"fmt"

	"github.com/repaint-dev/repaint/internal/dart"
	m "github.com/repaint-dev/repaint/internal/model"
)

// Dart bindings for the context rules. A "UI-producing" type is one whose
// supertype chain names Widget or State; the runtime handle is BuildContext
// and by convention flows in as a parameter named "context".
const (
	handleType        = "BuildContext"
	renderMethodName  = "build"
	widgetMarker      = "Widget"
	stateMarker       = "State"
	defaultHandleName = "context"
)

// AnalyzeContext classifies the lexical scope enclosing node into one of the
// four availability states. It inspects only declaration structure, never
// runtime behavior, so the classification is deterministic for a given tree.
func AnalyzeContext(node dart.Node) m.ContextAvailability {
	availability, _ := analyzeScope(node)
	return availability
}

// ManualInterventionReasons explains a RequiresManual or Unavailable
// classification in terms of the rule that fired. Automatic states return
// no reasons.
func ManualInterventionReasons(node dart.Node) []string {
	_, reasons := analyzeScope(node)
	return reasons
}

// HandleName returns the identifier a synthesized target expression should
// use for the runtime handle: the enclosing scope's BuildContext parameter
// when one is declared, the conventional name otherwise.
func HandleName(node dart.Node) string {
	switch decl := enclosingCallable(node).(type) {
	case *dart.MethodDecl:
		if param, ok := decl.ParamOfType(handleType); ok && param.Name != "" {
			return param.Name
		}
	case *dart.FuncDecl:
		if param, ok := decl.ParamOfType(handleType); ok && param.Name != "" {
			return param.Name
		}
	}

	return defaultHandleName
}

func analyzeScope(node dart.Node) (m.ContextAvailability, []string) {
	switch decl := enclosingCallable(node).(type) {
	case *dart.MethodDecl:
		if decl.IsConstructor {
			return analyzeConstructor(decl)
		}

		return analyzeMethod(decl)
	case *dart.FuncDecl:
		return analyzeFunction(decl)
	default:
		return m.ContextUnavailable, []string{
			"reference sits in an initializer or other non-executable scope where no BuildContext can ever flow",
		}
	}
}

// enclosingCallable walks the parent chain to the nearest method, constructor,
// or function. References inside field or top-level variable initializers
// have no callable ancestor.
func enclosingCallable(node dart.Node) dart.Node {
	for n := node; n != nil; n = n.Parent() {
		switch n.(type) {
		case *dart.MethodDecl, *dart.FuncDecl:
			return n
		}
	}

	return nil
}

func analyzeMethod(decl *dart.MethodDecl) (m.ContextAvailability, []string) {
	if decl.IsStatic {
		return m.ContextRequiresManual, []string{
			fmt.Sprintf("static method %q has no instance scope to inject a BuildContext into", decl.Name),
		}
	}

	uiProducing := decl.Class != nil &&
		(decl.Class.HasSupertypeContaining(widgetMarker) || decl.Class.HasSupertypeContaining(stateMarker))

	if decl.Name == renderMethodName && uiProducing {
		return m.ContextAvailable, nil
	}

	if _, ok := decl.ParamOfType(handleType); ok {
		return m.ContextAvailable, nil
	}

	if uiProducing {
		return m.ContextCanInject, nil
	}

	return m.ContextRequiresManual, []string{
		fmt.Sprintf("method %q declares no BuildContext parameter", decl.Name),
		fmt.Sprintf("enclosing type %q does not extend a widget type", className(decl)),
	}
}

func analyzeConstructor(decl *dart.MethodDecl) (m.ContextAvailability, []string) {
	if decl.IsConst {
		return m.ContextUnavailable, []string{
			fmt.Sprintf("constructor %q is const; a runtime theme lookup can never be a compile-time constant", decl.Name),
		}
	}

	if _, ok := decl.ParamOfType(handleType); ok {
		return m.ContextAvailable, nil
	}

	return m.ContextRequiresManual, []string{
		fmt.Sprintf("constructor %q declares no BuildContext parameter", decl.Name),
	}
}

func analyzeFunction(decl *dart.FuncDecl) (m.ContextAvailability, []string) {
	if _, ok := decl.ParamOfType(handleType); ok {
		return m.ContextAvailable, nil
	}

	if decl.Body == dart.BodyBlock || decl.Body == dart.BodyExpression || decl.Body == dart.BodyEmpty {
		return m.ContextCanInject, nil
	}

	return m.ContextRequiresManual, []string{
		fmt.Sprintf("function %q has no body to thread a BuildContext through", decl.Name),
	}
}

func className(decl *dart.MethodDecl) string {
	if decl.Class == nil {
		return ""
	}

	return decl.Class.Name
}
