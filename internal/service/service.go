package service

import (
	"context"
	"fmt"
	"net/url"

	"careportal/internal/helpnav"
	"careportal/internal/models"
	"careportal/internal/orgstore"
)

type Service struct {
	store    orgstore.Store
	sessions *helpnav.Sessions
}

func NewService(store orgstore.Store) *Service {
	s := &Service{store: store}
	s.sessions = helpnav.NewSessions(store.ClientRole)
	return s
}

//// Organisation access

func (s *Service) ListOrganisations(ctx context.Context, clientId string) ([]models.OrganisationAccess, error) {
	orgs, err := s.store.GetOrganisations(ctx, clientId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.ListOrganisations: %w", err)
	}
	return orgs, nil
}

func (s *Service) UpdateOrganisationAccess(ctx context.Context, clientId, orgId string, action models.OrgAction) ([]models.OrganisationAccess, error) {
	// Missing identifiers degrade to a plain list, matching the store
	// contract.
	if clientId == "" || orgId == "" {
		return s.ListOrganisations(ctx, clientId)
	}

	if !models.ValidOrgAction(action) {
		return nil, fmt.Errorf("service.Service.UpdateOrganisationAccess: %w: %s", models.ErrInvalidAction, action)
	}

	orgs, err := s.store.UpdateOrganisationAccess(ctx, clientId, orgId, action)
	if err != nil {
		return nil, fmt.Errorf("service.Service.UpdateOrganisationAccess: %w", err)
	}
	return orgs, nil
}

func (s *Service) ReplaceOrganisations(ctx context.Context, clientId string, orgs []models.OrganisationAccess) ([]models.OrganisationAccess, error) {
	orgs, err := s.store.SetOrganisations(ctx, clientId, orgs)
	if err != nil {
		return nil, fmt.Errorf("service.Service.ReplaceOrganisations: %w", err)
	}
	return orgs, nil
}

func (s *Service) ResetOrganisations(ctx context.Context, clientId string) ([]models.OrganisationAccess, error) {
	orgs, err := s.store.ResetOrganisations(ctx, clientId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.ResetOrganisations: %w", err)
	}
	return orgs, nil
}

//// Roles and help

func (s *Service) ClientRole(ctx context.Context, clientId string) (models.Role, error) {
	role, err := s.store.ClientRole(ctx, clientId)
	if err != nil {
		return "", fmt.Errorf("service.Service.ClientRole: %w", err)
	}
	return role, nil
}

func (s *Service) SetClientRole(ctx context.Context, clientId string, role models.Role) error {
	if !models.ValidRole(role) {
		return fmt.Errorf("service.Service.SetClientRole: %w: %s", models.ErrNoRole, role)
	}

	err := s.store.SetClientRole(ctx, clientId, role)
	if err != nil {
		return fmt.Errorf("service.Service.SetClientRole: %w", err)
	}

	// The cached resolution is stale the moment the role changes.
	s.sessions.For(clientId).Invalidate()
	return nil
}

// HelpFor resolves the help target for the view at path. Pre-login routes
// never consult the role; elsewhere an explicit roleHint wins, and without
// one the client's role session resolves it (hints, then lookup, then path
// inference).
func (s *Service) HelpFor(ctx context.Context, clientId, path string, query url.Values, roleHint models.Role) models.HelpTarget {
	if helpnav.Prelogin(path) {
		return helpnav.ResolveTarget("", path, query)
	}

	role := roleHint
	if !models.ValidRole(role) {
		role = s.sessions.For(clientId).Resolve(ctx, clientId, path)
	}
	return helpnav.ResolveTarget(role, path, query)
}
