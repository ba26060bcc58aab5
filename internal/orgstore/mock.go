package orgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"careportal/internal/config"
	"careportal/internal/models"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// MockStore serves organisation access data from a local SQLite file,
// letting the dashboard run without a backend. Lists are persisted as JSON
// payloads under a key derived from the client identifier and reseeded from
// the reference list when absent or unreadable. Operations sleep for a
// short randomised interval to pace like a network round-trip.
type MockStore struct {
	db  *sql.DB
	cfg *config.MockConfig
}

func NewMockStore(cfg *config.MockConfig) (*MockStore, error) {
	var err error

	if cfg == nil {
		cfg, err = config.NewMockConfig()
		if err != nil {
			return nil, fmt.Errorf("orgstore.NewMockStore: could not load mock config: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.MockDBPath)
	if err != nil {
		return nil, fmt.Errorf("orgstore.NewMockStore: could not open mock db: %w", err)
	}
	// Single connection keeps in-memory databases coherent.
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS org_access_lists (
		client_key TEXT PRIMARY KEY,
		payload    TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS client_roles (
		client_key TEXT PRIMARY KEY,
		role       TEXT NOT NULL
	);`
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("orgstore.NewMockStore: could not init schema: %w", err)
	}

	return &MockStore{db: db, cfg: cfg}, nil
}

func (s *MockStore) GetOrganisations(ctx context.Context, clientId string) ([]models.OrganisationAccess, error) {
	if clientId == "" {
		return []models.OrganisationAccess{}, nil
	}
	s.delay()

	orgs, ok, err := s.load(ctx, clientId)
	if err != nil {
		return nil, fmt.Errorf("orgstore.MockStore.GetOrganisations: %w", err)
	}
	if !ok {
		orgs = SeedOrganisations()
		if err = s.persist(ctx, clientId, orgs); err != nil {
			return nil, fmt.Errorf("orgstore.MockStore.GetOrganisations: %w", err)
		}
	}
	return orgs, nil
}

func (s *MockStore) UpdateOrganisationAccess(ctx context.Context, clientId, orgId string, action models.OrgAction) ([]models.OrganisationAccess, error) {
	if clientId == "" || orgId == "" {
		return s.GetOrganisations(ctx, clientId)
	}

	status, ok := action.Status()
	if !ok {
		return nil, fmt.Errorf("orgstore.MockStore.UpdateOrganisationAccess: %w: %s", models.ErrInvalidAction, action)
	}
	s.delay()

	orgs, found, err := s.load(ctx, clientId)
	if err != nil {
		return nil, fmt.Errorf("orgstore.MockStore.UpdateOrganisationAccess: %w", err)
	}
	if !found {
		orgs = SeedOrganisations()
	}

	updated := false
	for i := range orgs {
		if orgs[i].Id == orgId {
			orgs[i].Status = status
			updated = true
			break
		}
	}
	if !updated {
		return nil, fmt.Errorf("orgstore.MockStore.UpdateOrganisationAccess: %w: %s", models.ErrNoOrganisation, orgId)
	}

	if err = s.persist(ctx, clientId, orgs); err != nil {
		return nil, fmt.Errorf("orgstore.MockStore.UpdateOrganisationAccess: %w", err)
	}
	return orgs, nil
}

func (s *MockStore) SetOrganisations(ctx context.Context, clientId string, orgs []models.OrganisationAccess) ([]models.OrganisationAccess, error) {
	if clientId == "" {
		return s.GetOrganisations(ctx, clientId)
	}
	s.delay()

	if orgs == nil {
		orgs = []models.OrganisationAccess{}
	}
	for i := range orgs {
		if orgs[i].Id == "" {
			orgs[i].Id = uuid.NewString()
		}
		orgs[i].Status = models.TranslateOrgStatus(orgs[i].Status)
	}

	if err := s.persist(ctx, clientId, orgs); err != nil {
		return nil, fmt.Errorf("orgstore.MockStore.SetOrganisations: %w", err)
	}
	return orgs, nil
}

func (s *MockStore) ResetOrganisations(ctx context.Context, clientId string) ([]models.OrganisationAccess, error) {
	if clientId == "" {
		return s.GetOrganisations(ctx, clientId)
	}
	s.delay()

	orgs := SeedOrganisations()
	if err := s.persist(ctx, clientId, orgs); err != nil {
		return nil, fmt.Errorf("orgstore.MockStore.ResetOrganisations: %w", err)
	}
	return orgs, nil
}

func (s *MockStore) ClientRole(ctx context.Context, clientId string) (models.Role, error) {
	if clientId == "" {
		return "", models.ErrNoRole
	}
	s.delay()

	row := s.db.QueryRowContext(ctx, "SELECT role FROM client_roles WHERE client_key = ?", clientKey(clientId))
	var role models.Role
	err := row.Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrNoRole
	} else if err != nil {
		return "", fmt.Errorf("orgstore.MockStore.ClientRole: %w", err)
	}

	if !models.ValidRole(role) {
		return "", models.ErrNoRole
	}
	return role, nil
}

func (s *MockStore) SetClientRole(ctx context.Context, clientId string, role models.Role) error {
	if clientId == "" || !models.ValidRole(role) {
		return fmt.Errorf("orgstore.MockStore.SetClientRole: %w: %s", models.ErrNoRole, role)
	}
	s.delay()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO client_roles (client_key, role) VALUES (?, ?) ON CONFLICT (client_key) DO UPDATE SET role = excluded.role",
		clientKey(clientId), role)
	if err != nil {
		return fmt.Errorf("orgstore.MockStore.SetClientRole: %w", err)
	}
	return nil
}

func (s *MockStore) Close() error {
	return s.db.Close()
}

//// Service

// clientKey derives the persistence key for a client's list.
func clientKey(clientId string) string {
	return "org_access_" + clientId
}

// load reads a client's persisted list. Missing and unreadable payloads
// both count as absent; unreadable state is never surfaced, the caller
// reseeds over it.
func (s *MockStore) load(ctx context.Context, clientId string) ([]models.OrganisationAccess, bool, error) {
	row := s.db.QueryRowContext(ctx, "SELECT payload FROM org_access_lists WHERE client_key = ?", clientKey(clientId))

	var payload string
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	var orgs []models.OrganisationAccess
	if err = json.Unmarshal([]byte(payload), &orgs); err != nil || orgs == nil {
		return nil, false, nil
	}
	return orgs, true, nil
}

func (s *MockStore) persist(ctx context.Context, clientId string, orgs []models.OrganisationAccess) error {
	payload, err := json.Marshal(orgs)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO org_access_lists (client_key, payload) VALUES (?, ?) ON CONFLICT (client_key) DO UPDATE SET payload = excluded.payload",
		clientKey(clientId), string(payload))
	return err
}

func (s *MockStore) delay() {
	min, max := s.cfg.MockLatencyMinMs, s.cfg.MockLatencyMaxMs
	if max <= 0 || max < min {
		return
	}
	time.Sleep(time.Duration(min+rand.Intn(max-min+1)) * time.Millisecond)
}
