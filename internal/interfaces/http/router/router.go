// Package router mounts the API handlers on a gin engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prodtrack/backend/internal/interfaces/http/dto"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	adminGuard gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAdminGuard sets the middleware placed in front of admin routes
func WithAdminGuard(guard gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.adminGuard = guard
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	// Create versioned API group
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.registrars {
		if dg, ok := registrar.(*DomainGroup); ok {
			dg.setAdminGuard(r.adminGuard)
		}
		registrar.RegisterRoutes(api)
	}
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// denyAdmin stands in for the admin guard when none is configured
func denyAdmin(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrCodeAdminKeyInvalid, "Admin actions are disabled"))
}

// DomainGroup creates a route group for a specific domain
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
	adminGuard gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
	admin    bool
}

// RouteInfo describes a registered route
type RouteInfo struct {
	Method string
	Path   string
	Admin  bool
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{
		name:       name,
		prefix:     prefix,
		routes:     make([]routeDefinition, 0),
		subgroups:  make([]*DomainGroup, 0),
		middleware: make([]gin.HandlerFunc, 0),
	}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodGet, path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPost, path, handlers)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPut, path, handlers)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodDelete, path, handlers)
}

// Admin marks the route added last as requiring the admin key
func (dg *DomainGroup) Admin() *DomainGroup {
	if n := len(dg.routes); n > 0 {
		dg.routes[n-1].admin = true
	}
	return dg
}

func (dg *DomainGroup) add(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{
		method:   method,
		path:     path,
		handlers: handlers,
	})
	return dg
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

func (dg *DomainGroup) setAdminGuard(guard gin.HandlerFunc) {
	dg.adminGuard = guard
	for _, sub := range dg.subgroups {
		sub.setAdminGuard(guard)
	}
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	// Create group with prefix
	group := rg.Group(dg.prefix)

	// Apply middleware
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}

	for _, route := range dg.routes {
		handlers := route.handlers
		if route.admin {
			guard := dg.adminGuard
			if guard == nil {
				guard = denyAdmin
			}
			handlers = append([]gin.HandlerFunc{guard}, handlers...)
		}
		group.Handle(route.method, route.path, handlers...)
	}

	// Register subgroups recursively
	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

// Routes lists the routes of the group and its subgroups, paths relative to the parent
func (dg *DomainGroup) Routes() []RouteInfo {
	var out []RouteInfo
	for _, route := range dg.routes {
		out = append(out, RouteInfo{Method: route.method, Path: joinPath(dg.prefix, route.path), Admin: route.admin})
	}
	for _, sub := range dg.subgroups {
		for _, info := range sub.Routes() {
			info.Path = joinPath(dg.prefix, info.Path)
			out = append(out, info)
		}
	}
	return out
}

func joinPath(prefix, path string) string {
	if path == "" || path == "/" {
		return prefix
	}
	return prefix + path
}
