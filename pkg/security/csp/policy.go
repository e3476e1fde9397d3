// Package csp builds Content-Security-Policy headers for the API server.
package csp

import (
	"net/http"
	"slices"
	"strings"
)

// Builder assembles a policy one directive at a time. Directives are
// rendered in the order they were first set.
type Builder struct {
	order      []string
	directives map[string][]string
	reportOnly bool
}

// NewBuilder returns an empty policy.
func NewBuilder() *Builder {
	return &Builder{directives: make(map[string][]string)}
}

// Directive appends sources to name. Duplicate sources are dropped.
func (b *Builder) Directive(name string, sources ...string) *Builder {
	if _, ok := b.directives[name]; !ok {
		b.order = append(b.order, name)
	}
	for _, s := range sources {
		if !slices.Contains(b.directives[name], s) {
			b.directives[name] = append(b.directives[name], s)
		}
	}
	return b
}

// ReportOnly switches the header to Content-Security-Policy-Report-Only.
func (b *Builder) ReportOnly(on bool) *Builder {
	b.reportOnly = on
	return b
}

// HeaderName is the header the policy is sent under.
func (b *Builder) HeaderName() string {
	if b.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// Build renders the policy, e.g. "default-src 'none'; frame-ancestors 'none'".
func (b *Builder) Build() string {
	parts := make([]string, 0, len(b.order))
	for _, name := range b.order {
		if srcs := b.directives[name]; len(srcs) > 0 {
			parts = append(parts, name+" "+strings.Join(srcs, " "))
		} else {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "; ")
}

// APIPolicy forbids everything; JSON responses never load subresources.
func APIPolicy() *Builder {
	return NewBuilder().
		Directive("default-src", "'none'").
		Directive("frame-ancestors", "'none'")
}

// DocsPolicy lets the Swagger UI run its bundled inline scripts and styles.
func DocsPolicy() *Builder {
	return NewBuilder().
		Directive("default-src", "'self'").
		Directive("script-src", "'self'", "'unsafe-inline'").
		Directive("style-src", "'self'", "'unsafe-inline'").
		Directive("img-src", "'self'", "data:").
		Directive("frame-ancestors", "'none'").
		Directive("object-src", "'none'")
}

// Route pairs a path prefix with the policy served under it.
type Route struct {
	Prefix string
	Policy *Builder
}

// Middleware sets the policy of the longest matching prefix, falling back to
// def, and adds nosniff and frame-deny headers to every response.
func Middleware(def *Builder, routes ...Route) func(http.Handler) http.Handler {
	type rendered struct{ prefix, name, value string }
	compiled := make([]rendered, 0, len(routes))
	for _, r := range routes {
		compiled = append(compiled, rendered{r.Prefix, r.Policy.HeaderName(), r.Policy.Build()})
	}
	slices.SortFunc(compiled, func(a, b rendered) int { return len(b.prefix) - len(a.prefix) })
	defName, defValue := def.HeaderName(), def.Build()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name, value := defName, defValue
			for _, c := range compiled {
				if strings.HasPrefix(r.URL.Path, c.prefix) {
					name, value = c.name, c.value
					break
				}
			}
			h := w.Header()
			h.Set(name, value)
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			next.ServeHTTP(w, r)
		})
	}
}
