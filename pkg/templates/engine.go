package templates

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"
	"text/template/parse"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
)

// Store is the template lookup the engine renders from.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
}

// UndeclaredVariableError reports template content referencing variables not
// present in the declared variable list. Raised at create/update time so a
// bad template is rejected before it can ever be rendered.
type UndeclaredVariableError struct {
	Names []string
}

func (e *UndeclaredVariableError) Error() string {
	return fmt.Sprintf("template references undeclared variables: %s", strings.Join(e.Names, ", "))
}

// RenderError wraps a compile or execution failure for a stored template.
type RenderError struct {
	TemplateID uuid.UUID
	Err        error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render template %s: %v", e.TemplateID, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

type compiled struct {
	tmpl      *template.Template
	variables []string
}

// Engine compiles templates on first use and caches the result until the
// template is updated. Reads are lock-shared; only a cache miss or an
// explicit invalidation takes the write lock.
type Engine struct {
	store Store
	log   *zap.Logger

	mu    sync.RWMutex
	cache map[uuid.UUID]*compiled
}

func NewEngine(store Store, log *zap.Logger) *Engine {
	return &Engine{
		store: store,
		log:   log,
		cache: make(map[uuid.UUID]*compiled),
	}
}

// Render executes the template against data. Declared variables absent from
// data render as the empty string; notification payloads are best-effort.
func (e *Engine) Render(ctx context.Context, id uuid.UUID, data map[string]interface{}) (string, error) {
	e.mu.RLock()
	c := e.cache[id]
	e.mu.RUnlock()

	if c == nil {
		record, err := e.store.FindByID(ctx, id)
		if err != nil {
			return "", &RenderError{TemplateID: id, Err: err}
		}
		tmpl, err := template.New(record.Name).Parse(record.Content)
		if err != nil {
			return "", &RenderError{TemplateID: id, Err: err}
		}
		c = &compiled{tmpl: tmpl, variables: record.Variables}

		e.mu.Lock()
		e.cache[id] = c
		e.mu.Unlock()
	}

	merged := make(map[string]interface{}, len(data)+len(c.variables))
	for _, name := range c.variables {
		merged[name] = ""
	}
	for k, v := range data {
		merged[k] = v
	}

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, merged); err != nil {
		return "", &RenderError{TemplateID: id, Err: err}
	}
	return buf.String(), nil
}

// Validate parses content and checks that every variable it references is
// declared. Runs at template create/update time, never at render time.
func (e *Engine) Validate(content string, declared []string) error {
	tmpl, err := template.New("validate").Parse(content)
	if err != nil {
		return fmt.Errorf("invalid template syntax: %w", err)
	}

	used := make(map[string]struct{})
	collectVariables(tmpl.Root, used)

	declaredSet := make(map[string]struct{}, len(declared))
	for _, name := range declared {
		declaredSet[name] = struct{}{}
	}

	var undeclared []string
	for name := range used {
		if _, ok := declaredSet[name]; !ok {
			undeclared = append(undeclared, name)
		}
	}
	if len(undeclared) > 0 {
		sort.Strings(undeclared)
		return &UndeclaredVariableError{Names: undeclared}
	}
	return nil
}

// Invalidate drops the compiled entry so the next render recompiles from the
// store. Called whenever a template's content or variables change.
func (e *Engine) Invalidate(id uuid.UUID) {
	e.mu.Lock()
	delete(e.cache, id)
	e.mu.Unlock()
}

func collectVariables(node parse.Node, used map[string]struct{}) {
	if node == nil {
		return
	}
	switch n := node.(type) {
	case *parse.ListNode:
		if n != nil {
			for _, item := range n.Nodes {
				collectVariables(item, used)
			}
		}
	case *parse.ActionNode:
		collectPipe(n.Pipe, used)
	case *parse.IfNode:
		collectPipe(n.Pipe, used)
		collectVariables(n.List, used)
		collectVariables(n.ElseList, used)
	case *parse.RangeNode:
		collectPipe(n.Pipe, used)
		collectVariables(n.List, used)
		collectVariables(n.ElseList, used)
	case *parse.WithNode:
		collectPipe(n.Pipe, used)
		collectVariables(n.List, used)
		collectVariables(n.ElseList, used)
	case *parse.TemplateNode:
		collectPipe(n.Pipe, used)
	}
}

func collectPipe(pipe *parse.PipeNode, used map[string]struct{}) {
	if pipe == nil {
		return
	}
	for _, cmd := range pipe.Cmds {
		for _, arg := range cmd.Args {
			switch a := arg.(type) {
			case *parse.FieldNode:
				if len(a.Ident) > 0 {
					used[a.Ident[0]] = struct{}{}
				}
			case *parse.PipeNode:
				collectPipe(a, used)
			}
		}
	}
}
