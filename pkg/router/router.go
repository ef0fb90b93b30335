// Package router adds named, grouped routes on top of chi and keeps a
// table of everything registered for route:list.
package router

import (
	"fmt"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

type Middleware func(http.Handler) http.Handler

// RouteInfo is one row of the route table.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

type Router struct {
	mux chi.Router

	mu    sync.Mutex
	table []RouteInfo
	names map[string]string
}

// Group shares a path prefix and a middleware stack between routes.
type Group struct {
	router *Router
	prefix string
	stack  []Middleware
}

func New() *Router {
	return &Router{mux: chi.NewRouter(), names: map[string]string{}}
}

func (r *Router) Handler() http.Handler { return r.mux }

// Use installs global middleware. chi requires this before the first route.
func (r *Router) Use(mws ...Middleware) {
	for _, mw := range mws {
		r.mux.Use(mw)
	}
}

// HandleFunc mounts an unnamed, method-agnostic handler. It is left out of
// the route table.
func (r *Router) HandleFunc(p string, h http.HandlerFunc) {
	r.mux.HandleFunc(clean(p), h)
}

func (r *Router) Get(p, name string, h http.HandlerFunc, mws ...Middleware) {
	r.add(http.MethodGet, clean(p), name, wrap(h, mws))
}

func (r *Router) Group(prefix string, mws ...Middleware) *Group {
	return &Group{router: r, prefix: clean(prefix), stack: mws}
}

// Routes returns a copy of the route table in registration order.
func (r *Router) Routes() []RouteInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RouteInfo(nil), r.table...)
}

// add panics on a reused route name: that is a wiring bug caught at boot.
func (r *Router) add(method, p, name string, h http.Handler) {
	r.mu.Lock()
	if name != "" {
		if prev, dup := r.names[name]; dup {
			r.mu.Unlock()
			panic(fmt.Sprintf("router: route name %q already used by %s", name, prev))
		}
		r.names[name] = method + " " + p
	}
	r.table = append(r.table, RouteInfo{Method: method, Path: p, Name: name})
	r.mu.Unlock()

	r.mux.Method(method, p, h)
}

// Group nests a sub-group. The parent's middleware runs first.
func (g *Group) Group(prefix string, mws ...Middleware) *Group {
	return &Group{
		router: g.router,
		prefix: clean(g.prefix + "/" + prefix),
		stack:  concat(g.stack, mws),
	}
}

func (g *Group) Get(p, name string, h http.HandlerFunc, mws ...Middleware) {
	g.handle(http.MethodGet, p, name, h, mws)
}

func (g *Group) Post(p, name string, h http.HandlerFunc, mws ...Middleware) {
	g.handle(http.MethodPost, p, name, h, mws)
}

func (g *Group) Put(p, name string, h http.HandlerFunc, mws ...Middleware) {
	g.handle(http.MethodPut, p, name, h, mws)
}

func (g *Group) Delete(p, name string, h http.HandlerFunc, mws ...Middleware) {
	g.handle(http.MethodDelete, p, name, h, mws)
}

func (g *Group) handle(method, p, name string, h http.HandlerFunc, mws []Middleware) {
	g.router.add(method, clean(g.prefix+"/"+p), name, wrap(h, concat(g.stack, mws)))
}

// wrap applies mws so that mws[0] is the outermost handler.
func wrap(h http.Handler, mws []Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func concat(a, b []Middleware) []Middleware {
	out := make([]Middleware, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}

// clean collapses duplicate slashes and drops any trailing one, so "",
// "/" and "//" all map to the root.
func clean(p string) string {
	p = path.Clean("/" + strings.Trim(p, "/"))
	if p == "." {
		return "/"
	}
	return p
}
