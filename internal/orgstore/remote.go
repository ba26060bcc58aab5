package orgstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"careportal/internal/config"
	"careportal/internal/models"
)

// RemoteStore is the real-mode shim: every operation is an HTTP call
// against the dashboard API. After an update the list is re-fetched and
// returned as the single source of truth, never merged optimistically.
// Mock-only operations leave the upstream untouched and just report its
// current state.
type RemoteStore struct {
	base   string
	client *http.Client
}

func NewRemoteStore(cfg *config.RemoteConfig) *RemoteStore {
	return &RemoteStore{
		base: strings.TrimRight(cfg.APIBaseURL, "/"),
		client: &http.Client{
			Timeout: time.Duration(cfg.APITimeoutSec) * time.Second,
		},
	}
}

func (s *RemoteStore) GetOrganisations(ctx context.Context, clientId string) ([]models.OrganisationAccess, error) {
	if clientId == "" {
		return []models.OrganisationAccess{}, nil
	}

	data, _, err := s.call(ctx, http.MethodGet, s.organisationsURL(clientId), nil)
	if err != nil {
		return nil, fmt.Errorf("orgstore.RemoteStore.GetOrganisations: %w", err)
	}

	var orgs []models.OrganisationAccess
	if err = json.Unmarshal(data, &orgs); err != nil || orgs == nil {
		// A body that is not a list of records counts as an empty list.
		return []models.OrganisationAccess{}, nil
	}
	return orgs, nil
}

func (s *RemoteStore) UpdateOrganisationAccess(ctx context.Context, clientId, orgId string, action models.OrgAction) ([]models.OrganisationAccess, error) {
	if clientId == "" || orgId == "" {
		return s.GetOrganisations(ctx, clientId)
	}
	if !models.ValidOrgAction(action) {
		return nil, fmt.Errorf("orgstore.RemoteStore.UpdateOrganisationAccess: %w: %s", models.ErrInvalidAction, action)
	}

	payload, err := json.Marshal(updatePayload{Action: action})
	if err != nil {
		return nil, fmt.Errorf("orgstore.RemoteStore.UpdateOrganisationAccess: %w", err)
	}

	endpoint := s.organisationsURL(clientId) + "/" + url.PathEscape(orgId)
	if _, _, err = s.call(ctx, http.MethodPost, endpoint, payload); err != nil {
		return nil, fmt.Errorf("orgstore.RemoteStore.UpdateOrganisationAccess: %w", err)
	}

	return s.GetOrganisations(ctx, clientId)
}

// SetOrganisations is a no-op in real mode.
func (s *RemoteStore) SetOrganisations(ctx context.Context, clientId string, orgs []models.OrganisationAccess) ([]models.OrganisationAccess, error) {
	return s.GetOrganisations(ctx, clientId)
}

// ResetOrganisations is a no-op in real mode.
func (s *RemoteStore) ResetOrganisations(ctx context.Context, clientId string) ([]models.OrganisationAccess, error) {
	return s.GetOrganisations(ctx, clientId)
}

func (s *RemoteStore) ClientRole(ctx context.Context, clientId string) (models.Role, error) {
	if clientId == "" {
		return "", models.ErrNoRole
	}

	data, status, err := s.call(ctx, http.MethodGet, s.clientURL(clientId)+"/role", nil)
	if status == http.StatusNotFound {
		return "", models.ErrNoRole
	}
	if err != nil {
		return "", fmt.Errorf("orgstore.RemoteStore.ClientRole: %w", err)
	}

	var resp rolePayload
	if err = json.Unmarshal(data, &resp); err != nil || !models.ValidRole(resp.Role) {
		return "", models.ErrNoRole
	}
	return resp.Role, nil
}

func (s *RemoteStore) SetClientRole(ctx context.Context, clientId string, role models.Role) error {
	if clientId == "" || !models.ValidRole(role) {
		return fmt.Errorf("orgstore.RemoteStore.SetClientRole: %w: %s", models.ErrNoRole, role)
	}

	payload, err := json.Marshal(rolePayload{Role: role})
	if err != nil {
		return fmt.Errorf("orgstore.RemoteStore.SetClientRole: %w", err)
	}

	if _, _, err = s.call(ctx, http.MethodPut, s.clientURL(clientId)+"/role", payload); err != nil {
		return fmt.Errorf("orgstore.RemoteStore.SetClientRole: %w", err)
	}
	return nil
}

func (s *RemoteStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

//// Service

type updatePayload struct {
	Action models.OrgAction `json:"action"`
}

type rolePayload struct {
	Role models.Role `json:"role"`
}

func (s *RemoteStore) clientURL(clientId string) string {
	return s.base + "/api/v1/clients/" + url.PathEscape(clientId)
}

func (s *RemoteStore) organisationsURL(clientId string) string {
	return s.clientURL(clientId) + "/organisations"
}

// call performs one request and reports the response status alongside the
// body. Transport failures and non-2xx statuses both collapse into the
// generic fetch-failure sentinel; callers that care about a specific status
// (the role read's 404) inspect it themselves.
func (s *RemoteStore) call(ctx context.Context, method, endpoint string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", models.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, fmt.Errorf("%w: status %d", models.ErrFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: %s", models.ErrFetchFailed, err)
	}
	return data, resp.StatusCode, nil
}
