package router

import (
	"sort"

	"go-gin-gorm-crm/internal/transport/http/ez"
)

// Groups are the route groups a module mounts into, all under /api/v1.
type Groups struct {
	// Public needs no token.
	Public ez.EZ
	// Authed always requires a bearer token.
	Authed ez.EZ
	// Records serves customer/interaction/opportunity/user routes; it is Authed
	// when auth.protect_records is on, Public otherwise.
	Records ez.EZ
}

// APIModule mounts one resource's routes.
type APIModule interface{ MountAPI(Groups) }

// Modules may implement prioritizer to control mount order (lower first, default 100).
type prioritizer interface{ Priority() int }

// Registry collects modules for one engine.
type Registry struct {
	mods []APIModule
}

func (r *Registry) Register(mods ...APIModule) {
	r.mods = append(r.mods, mods...)
}

// MountAll mounts every registered module in priority order.
func (r *Registry) MountAll(g Groups) {
	mods := append([]APIModule(nil), r.mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(g)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
