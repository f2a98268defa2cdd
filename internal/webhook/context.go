package webhook

import "strings"

// ContextKind identifies the purpose of a conversation context
type ContextKind int

const (
	ContextOther ContextKind = iota
	ContextRouteRequested
)

const contextPathMarker = "/contexts/"

var contextKinds = map[string]ContextKind{
	"route_requested": ContextRouteRequested,
}

// Context is a parsed conversation context
type Context struct {
	Name       string
	Kind       ContextKind
	Parameters map[string]any
}

// Contexts is the ordered list of active contexts of a request
type Contexts []Context

// ParseContexts classifies wire contexts by the id after "/contexts/"
func ParseContexts(raw []RawContext) Contexts {
	out := make(Contexts, 0, len(raw))
	for _, rc := range raw {
		out = append(out, Context{
			Name:       rc.Name,
			Kind:       contextKindOf(rc.Name),
			Parameters: rc.Parameters,
		})
	}
	return out
}

func contextKindOf(name string) ContextKind {
	idx := strings.LastIndex(name, contextPathMarker)
	if idx < 0 {
		return ContextOther
	}
	if kind, ok := contextKinds[name[idx+len(contextPathMarker):]]; ok {
		return kind
	}
	return ContextOther
}

// Find returns the first context of the given kind
func (cs Contexts) Find(kind ContextKind) (Context, bool) {
	for _, c := range cs {
		if c.Kind == kind {
			return c, true
		}
	}
	return Context{}, false
}
