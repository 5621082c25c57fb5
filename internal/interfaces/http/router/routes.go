package router

import "github.com/prodtrack/backend/internal/interfaces/http/handler"

// Handlers bundles every API handler
type Handlers struct {
	Health            *handler.HealthHandler
	Materials         *handler.MaterialHandler
	Places            *handler.PlaceHandler
	Labelers          *handler.LabelerHandler
	Orders            *handler.ProductionOrderHandler
	Plans             *handler.ProductionPlanHandler
	RawTransfers      *handler.TransferHandler
	FinishedTransfers *handler.TransferHandler
	Exports           *handler.ExportHandler
}

// RegisterAPI registers the API groups on r and the health probe at the engine root
func RegisterAPI(r *Router, h Handlers) {
	if h.Health != nil {
		r.Engine().GET("/health", h.Health.Health)
		r.Register(NewDomainGroup("health", "/health").GET("", h.Health.Health))
	}
	for _, group := range APIGroups(h) {
		r.Register(group)
	}
}

// APIGroups builds the domain groups of the API
func APIGroups(h Handlers) []*DomainGroup {
	var groups []*DomainGroup

	if h.Materials != nil {
		m := h.Materials
		groups = append(groups, NewDomainGroup("materials", "/materials").
			POST("", m.Create).
			GET("", m.List).
			GET("/code/:code", m.GetByCode).
			GET("/:id", m.GetByID).
			PUT("/:id", m.Update).
			POST("/:id/activate", m.Activate).
			POST("/:id/deactivate", m.Deactivate).
			DELETE("/:id", m.Delete).Admin())
	}

	if h.Places != nil {
		p := h.Places
		groups = append(groups, NewDomainGroup("production-places", "/production-places").
			POST("", p.Create).
			GET("", p.List).
			GET("/:id", p.GetByID).
			PUT("/:id", p.Update).
			POST("/:id/activate", p.Activate).
			POST("/:id/deactivate", p.Deactivate).
			DELETE("/:id", p.Delete).Admin())
	}

	if h.Labelers != nil {
		l := h.Labelers
		groups = append(groups, NewDomainGroup("labelers", "/labelers").
			POST("", l.Create).
			GET("", l.List).
			GET("/:id", l.GetByID).
			PUT("/:id", l.Update).
			POST("/:id/activate", l.Activate).
			POST("/:id/deactivate", l.Deactivate).
			DELETE("/:id", l.Delete).Admin())
	}

	if h.Orders != nil {
		o := h.Orders
		groups = append(groups, NewDomainGroup("production-orders", "/production-orders").
			POST("", o.Create).
			GET("", o.List).
			GET("/number/:number", o.GetByNumber).
			GET("/:id", o.GetByID).
			PUT("/:id", o.Update).
			PUT("/:id/items", o.ReplaceItems).
			POST("/:id/finalize", o.Finalize).
			POST("/:id/cancel", o.Cancel).Admin().
			DELETE("/:id", o.Delete).Admin())
	}

	if h.Plans != nil {
		p := h.Plans
		groups = append(groups, NewDomainGroup("production-plans", "/production-plans").
			POST("", p.Create).
			GET("", p.List).
			GET("/compliance", p.Compliance).
			GET("/:id", p.GetByID).
			PUT("/:id", p.Update).
			POST("/:id/complete", p.Complete).
			POST("/:id/cancel", p.Cancel).
			DELETE("/:id", p.Delete).Admin())
	}

	if h.RawTransfers != nil {
		groups = append(groups, transferGroup("raw-material-transfers", h.RawTransfers, false))
	}
	if h.FinishedTransfers != nil {
		groups = append(groups, transferGroup("finished-product-transfers", h.FinishedTransfers, true))
	}

	if h.Exports != nil {
		groups = append(groups, NewDomainGroup("exports", "/exports").
			GET("/:dataset", h.Exports.Export))
	}

	return groups
}

func transferGroup(name string, t *handler.TransferHandler, packaging bool) *DomainGroup {
	g := NewDomainGroup(name, "/"+name).
		POST("", t.Create).
		GET("", t.List).
		GET("/summary", t.Summary).
		GET("/:id", t.GetByID).
		PUT("/:id", t.Update).
		POST("/:id/receive", t.Receive).
		POST("/:id/reject", t.Reject).Admin()
	if packaging {
		g.POST("/:id/forward", t.Forward).
			POST("/:id/finalize", t.Finalize).Admin()
	}
	return g.DELETE("/:id", t.Delete).Admin()
}
