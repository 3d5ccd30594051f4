package http

import (
	"reflect"
	"sort"

	"github.com/labstack/echo/v4"
)

// Handler mounts one group of routes on the shared echo instance.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}

// RouteFunc lets a bare function act as a Handler.
type RouteFunc func(e *echo.Echo)

func (f RouteFunc) RegisterRoutes(e *echo.Echo) { f(e) }

// mount registers handlers in order and returns the resulting "METHOD path"
// list, sorted. Nil handlers, including typed nil pointers from optional
// providers, are skipped.
func mount(e *echo.Echo, handlers []Handler) []string {
	for _, h := range handlers {
		if isNil(h) {
			continue
		}
		h.RegisterRoutes(e)
	}
	routes := make([]string, 0, len(e.Routes()))
	for _, r := range e.Routes() {
		routes = append(routes, r.Method+" "+r.Path)
	}
	sort.Strings(routes)
	return routes
}

func isNil(h Handler) bool {
	if h == nil {
		return true
	}
	v := reflect.ValueOf(h)
	switch v.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Interface:
		return v.IsNil()
	}
	return false
}
