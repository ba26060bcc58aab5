package helpnav

import (
	"context"
	"strings"
	"sync"

	"careportal/internal/models"
)

// RoleLookup resolves the viewer role for a client, usually against the
// organisation store. Implementations may hit the network.
type RoleLookup func(ctx context.Context, clientId string) (models.Role, error)

var managementPrefixes = []string{
	"/icon_dashboard",
	"/staff_list",
	"/staff_schedule",
	"/client_list",
	"/organisation_settings",
}

var familyPrefixes = []string{
	"/calendar",
	"/profile",
	"/family_dashboard",
}

// InferRoleFromPath guesses the viewer role from the path alone. Used when
// no hint is cached and the role lookup failed or returned nothing valid.
func InferRoleFromPath(path string) models.Role {
	p := normalizePath(path)

	for _, prefix := range managementPrefixes {
		if hasRoutePrefix(p, prefix) {
			return models.RoleManagement
		}
	}
	for _, prefix := range familyPrefixes {
		if hasRoutePrefix(p, prefix) {
			return models.RoleFamily
		}
	}
	if strings.Contains(p, "carer") {
		return models.RoleCarer
	}
	return models.RoleFamily
}

// Hints is the layered synchronous hint storage checked before any lookup:
// a durable per-browser hint and a session-scoped one.
type Hints struct {
	mu      sync.Mutex
	durable models.Role
	session models.Role
}

func (h *Hints) SetDurable(role models.Role) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.durable = role
}

func (h *Hints) SetSession(role models.Role) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = role
}

func (h *Hints) Durable() (models.Role, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.durable, models.ValidRole(h.durable)
}

func (h *Hints) Session() (models.Role, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session, models.ValidRole(h.session)
}

func (h *Hints) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.durable, h.session = "", ""
}

// RoleSession resolves the viewer role for one consuming view. The ambient
// process flag and storage hints of the original dashboard become explicit
// state here: hints are injected, and every navigation bumps a generation
// counter so a lookup completing late cannot clobber the role resolved for
// a newer path or a torn-down view.
type RoleSession struct {
	mu       sync.Mutex
	gen      uint64
	role     models.Role
	resolved bool

	hints  *Hints
	lookup RoleLookup
}

func NewRoleSession(hints *Hints, lookup RoleLookup) *RoleSession {
	if hints == nil {
		hints = &Hints{}
	}
	return &RoleSession{hints: hints, lookup: lookup}
}

// Resolve runs the full resolution protocol for one navigation: synchronous
// hints first, then the lookup, then path inference. Lookup failure is not
// an error, the inferred role stands.
func (s *RoleSession) Resolve(ctx context.Context, clientId, path string) models.Role {
	gen := s.begin(path)

	if s.lookup != nil {
		role, err := s.lookup(ctx, clientId)
		if err == nil && models.ValidRole(role) {
			s.complete(gen, role)
		}
	}
	return s.Current()
}

// ResolveAsync issues the lookup in the background, matching the original
// fire-and-forget behaviour. The return value is the hint- or inference-
// based role; the lookup result lands later, unless a newer navigation has
// started by then.
func (s *RoleSession) ResolveAsync(ctx context.Context, clientId, path string) models.Role {
	gen := s.begin(path)
	current := s.Current()

	if s.lookup != nil {
		go func() {
			role, err := s.lookup(ctx, clientId)
			if err != nil || !models.ValidRole(role) {
				return
			}
			s.complete(gen, role)
		}()
	}
	return current
}

// Current returns the last resolved role, defaulting to family.
func (s *RoleSession) Current() models.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if models.ValidRole(s.role) {
		return s.role
	}
	return models.RoleFamily
}

// Invalidate drops every cached signal so the next navigation resolves from
// scratch. Call on role change.
func (s *RoleSession) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.role = ""
	s.resolved = false
	s.hints.Clear()
}

// begin opens a new resolution generation: re-checks the synchronous hints
// in priority order and falls back to path inference for the provisional
// role.
func (s *RoleSession) begin(path string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.resolved && models.ValidRole(s.role) {
		return s.gen
	}
	if role, ok := s.hints.Durable(); ok {
		s.role = role
		return s.gen
	}
	if role, ok := s.hints.Session(); ok {
		s.role = role
		return s.gen
	}
	s.role = InferRoleFromPath(path)
	return s.gen
}

// complete applies a lookup result and caches it into the session hint.
// Results from a stale generation are dropped.
func (s *RoleSession) complete(gen uint64, role models.Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || !models.ValidRole(role) {
		return false
	}
	s.role = role
	s.resolved = true
	s.hints.SetSession(role)
	return true
}

// Sessions hands out one RoleSession per client identifier, creating them
// on first use.
type Sessions struct {
	mu       sync.Mutex
	lookup   RoleLookup
	sessions map[string]*RoleSession
}

func NewSessions(lookup RoleLookup) *Sessions {
	return &Sessions{
		lookup:   lookup,
		sessions: make(map[string]*RoleSession),
	}
}

func (s *Sessions) For(clientId string) *RoleSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[clientId]
	if !ok {
		session = NewRoleSession(nil, s.lookup)
		s.sessions[clientId] = session
	}
	return session
}
