package orgstore

import (
	"context"

	"careportal/internal/config"
	"careportal/internal/models"
)

// Store is the data-access contract for a client's organisation access
// records. Two client-side implementations exist, selected by MOCK_MODE:
// MockStore serves local SQLite-backed state, RemoteStore calls the
// dashboard API. The PostgreSQL repository satisfies the same contract on
// the server side.
type Store interface {
	// GetOrganisations lists the client's records. An empty client id
	// yields an empty list without touching storage or the network.
	GetOrganisations(ctx context.Context, clientId string) ([]models.OrganisationAccess, error)

	// UpdateOrganisationAccess applies an action to one record and returns
	// the resulting list. Empty identifiers degrade to a plain list call.
	UpdateOrganisationAccess(ctx context.Context, clientId, orgId string, action models.OrgAction) ([]models.OrganisationAccess, error)

	// SetOrganisations replaces the client's whole list and returns it.
	// Mock-only: the remote implementation leaves the upstream untouched.
	SetOrganisations(ctx context.Context, clientId string, orgs []models.OrganisationAccess) ([]models.OrganisationAccess, error)

	// ResetOrganisations restores the client's list to the seed. Mock-only,
	// like SetOrganisations.
	ResetOrganisations(ctx context.Context, clientId string) ([]models.OrganisationAccess, error)

	// ClientRole reports the role recorded for the client, or ErrNoRole.
	ClientRole(ctx context.Context, clientId string) (models.Role, error)

	// SetClientRole records the client's role.
	SetClientRole(ctx context.Context, clientId string, role models.Role) error

	Close() error
}

// NewStore picks the store implementation for the configured mode.
func NewStore(cfg *config.Config) (Store, error) {
	if cfg.MockMode {
		return NewMockStore(&cfg.MockConfig)
	}
	return NewRemoteStore(&cfg.RemoteConfig), nil
}

// SeedOrganisations returns the fixed reference list a client's records are
// seeded from, with backend statuses translated on the way in.
func SeedOrganisations() []models.OrganisationAccess {
	orgs := make([]models.OrganisationAccess, len(seedOrganisations))
	for i, org := range seedOrganisations {
		org.Status = models.TranslateOrgStatus(org.Status)
		orgs[i] = org
	}
	return orgs
}

// The reference list as the backend ships it, legacy "active" included.
var seedOrganisations = []models.OrganisationAccess{
	{Id: "org-sunrise", Name: "Sunrise Home Care", Status: "active"},
	{Id: "org-harbour", Name: "Harbour Support Services", Status: models.OrgPending},
	{Id: "org-fernhill", Name: "Fernhill Respite Centre", Status: models.OrgRevoked},
	{Id: "org-totara", Name: "Totara Community Trust", Status: "active"},
}
