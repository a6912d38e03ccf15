package events

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ErrNoHandlerFound reports an event type no registered prefix matches.
var ErrNoHandlerFound = fmt.Errorf("no handler found")

type registration struct {
	prefix  string
	handler Handler
}

// Router maps event-type prefixes to handlers. The longest matching prefix
// wins, so "candidate.application." can coexist with a broader "candidate."
// registration.
type Router struct {
	registrations []registration
}

func NewRouter() *Router {
	return &Router{}
}

func (r *Router) Register(prefix string, handler Handler) {
	r.registrations = append(r.registrations, registration{prefix: prefix, handler: handler})
	sort.SliceStable(r.registrations, func(i, j int) bool {
		return len(r.registrations[i].prefix) > len(r.registrations[j].prefix)
	})
}

func (r *Router) Route(ctx context.Context, event Event) error {
	for _, reg := range r.registrations {
		if strings.HasPrefix(event.Type, reg.prefix) {
			return reg.handler.Handle(ctx, event)
		}
	}
	return fmt.Errorf("%w for event type %q", ErrNoHandlerFound, event.Type)
}
