package orgstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"careportal/internal/config"
	"careportal/internal/models"
)

// upstream is a recording stand-in for the dashboard API.
type upstream struct {
	mu       sync.Mutex
	requests []string

	handler http.HandlerFunc
	srv     *httptest.Server
}

func startUpstream(t *testing.T, handler http.HandlerFunc) *upstream {
	t.Helper()

	u := &upstream{handler: handler}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.requests = append(u.requests, r.Method+" "+r.URL.Path)
		u.mu.Unlock()
		u.handler(w, r)
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) store() *RemoteStore {
	return NewRemoteStore(&config.RemoteConfig{APIBaseURL: u.srv.URL, APITimeoutSec: 5})
}

func (u *upstream) seen() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string{}, u.requests...)
}

func serveList(orgs []models.OrganisationAccess) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(orgs)
	}
}

func TestRemoteGetOrganisations(t *testing.T) {
	want := []models.OrganisationAccess{
		{Id: "org-1", Name: "Sunrise Home Care", Status: models.OrgApproved},
		{Id: "org-2", Name: "Harbour Support Services", Status: models.OrgPending},
	}
	api := startUpstream(t, serveList(want))
	store := api.store()

	got, err := store.GetOrganisations(context.Background(), "client-1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	seen := api.seen()
	if len(seen) != 1 || seen[0] != "GET /api/v1/clients/client-1/organisations" {
		t.Errorf("unexpected requests: %v", seen)
	}
}

func TestRemoteGetEmptyClientIdNoRequest(t *testing.T) {
	api := startUpstream(t, serveList(nil))
	store := api.store()

	got, err := store.GetOrganisations(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty list, got %+v", got)
	}
	if seen := api.seen(); len(seen) != 0 {
		t.Errorf("expected no upstream requests, got %v", seen)
	}
}

func TestRemoteGetNonListBody(t *testing.T) {
	api := startUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"note":"not a list"}`))
	})

	got, err := api.store().GetOrganisations(context.Background(), "client-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty list for non-list body, got %+v", got)
	}
}

func TestRemoteGetUpstreamFailure(t *testing.T) {
	api := startUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := api.store().GetOrganisations(context.Background(), "client-1")
	if !errors.Is(err, models.ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed, got %v", err)
	}
}

func TestRemoteGetTruncatedBody(t *testing.T) {
	api := startUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		// A connection dropped mid-body: the advertised length never
		// arrives.
		conn, _, err := w.(http.Hijacker).Hijack()
		if err != nil {
			t.Fatal(err)
		}
		conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: 1000\r\n\r\n[{\"id\":"))
		conn.Close()
	})

	_, err := api.store().GetOrganisations(context.Background(), "client-1")
	if !errors.Is(err, models.ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed for a truncated body, got %v", err)
	}
}

func TestRemoteUpdateRefetches(t *testing.T) {
	var gotAction models.OrgAction
	api := startUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var payload struct {
				Action models.OrgAction `json:"action"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			gotAction = payload.Action
			w.WriteHeader(http.StatusNoContent)
			return
		}
		serveList([]models.OrganisationAccess{
			{Id: "org-1", Name: "Sunrise Home Care", Status: models.OrgApproved},
		})(w, r)
	})

	got, err := api.store().UpdateOrganisationAccess(context.Background(), "client-1", "org-1", models.ActionApprove)
	if err != nil {
		t.Fatal(err)
	}
	if gotAction != models.ActionApprove {
		t.Errorf("expected posted action approve, got '%s'", gotAction)
	}
	if len(got) != 1 || got[0].Status != models.OrgApproved {
		t.Errorf("expected the re-fetched list, got %+v", got)
	}

	want := []string{
		"POST /api/v1/clients/client-1/organisations/org-1",
		"GET /api/v1/clients/client-1/organisations",
	}
	if seen := api.seen(); !reflect.DeepEqual(seen, want) {
		t.Errorf("expected requests %v, got %v", want, seen)
	}
}

func TestRemoteUpdateInvalidAction(t *testing.T) {
	api := startUpstream(t, serveList(nil))

	_, err := api.store().UpdateOrganisationAccess(context.Background(), "client-1", "org-1", "promote")
	if !errors.Is(err, models.ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
	if seen := api.seen(); len(seen) != 0 {
		t.Errorf("expected no upstream requests, got %v", seen)
	}
}

func TestRemoteMockOnlyOpsLeaveUpstreamAlone(t *testing.T) {
	current := []models.OrganisationAccess{
		{Id: "org-1", Name: "Sunrise Home Care", Status: models.OrgApproved},
	}
	api := startUpstream(t, serveList(current))
	store := api.store()
	ctx := context.Background()

	got, err := store.SetOrganisations(ctx, "client-1", []models.OrganisationAccess{{Id: "org-x"}})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, current) {
		t.Errorf("expected current upstream list, got %+v", got)
	}

	got, err = store.ResetOrganisations(ctx, "client-1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, current) {
		t.Errorf("expected current upstream list, got %+v", got)
	}

	for _, req := range api.seen() {
		if req != "GET /api/v1/clients/client-1/organisations" {
			t.Errorf("unexpected mutating request: %s", req)
		}
	}
}

func TestRemoteClientRole(t *testing.T) {
	api := startUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"role": "carer"})
	})

	role, err := api.store().ClientRole(context.Background(), "client-1")
	if err != nil {
		t.Fatal(err)
	}
	if role != models.RoleCarer {
		t.Errorf("expected carer, got '%s'", role)
	}
}

func TestRemoteClientRoleNotFound(t *testing.T) {
	api := startUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := api.store().ClientRole(context.Background(), "client-1")
	if !errors.Is(err, models.ErrNoRole) {
		t.Errorf("expected ErrNoRole, got %v", err)
	}
}

func TestRemoteSetClientRole(t *testing.T) {
	var gotRole models.Role
	api := startUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Role models.Role `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotRole = payload.Role
		w.WriteHeader(http.StatusNoContent)
	})

	if err := api.store().SetClientRole(context.Background(), "client-1", models.RoleFamily); err != nil {
		t.Fatal(err)
	}
	if gotRole != models.RoleFamily {
		t.Errorf("expected posted role family, got '%s'", gotRole)
	}

	want := []string{"PUT /api/v1/clients/client-1/role"}
	if seen := api.seen(); !reflect.DeepEqual(seen, want) {
		t.Errorf("expected requests %v, got %v", want, seen)
	}
}
