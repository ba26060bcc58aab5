package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"careportal/internal/models"
	"careportal/internal/orgstore"

	"github.com/brianvoe/gofakeit/v7"
)

func TestGetOrganisationsSeedsFirstAccess(t *testing.T) {
	repo := OpenTestRepo(t)
	defer repo.Close()
	ctx := context.Background()

	orgs, err := repo.GetOrganisations(ctx, "client-1")
	if err != nil {
		t.Fatal(err)
	}

	seed := toStatusMap(orgstore.SeedOrganisations())
	got := toStatusMap(orgs)
	if len(got) != len(seed) {
		t.Fatalf("Expected %d seeded records, got %d", len(seed), len(got))
	}
	for id, status := range seed {
		if got[id] != status {
			t.Errorf("Expected '%s' to have status '%s', got '%s'", id, status, got[id])
		}
	}

	// Empty client id never touches the database.
	orgs, err = repo.GetOrganisations(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(orgs) != 0 {
		t.Errorf("Expected empty list for empty client id, got %d records", len(orgs))
	}
}

func TestUpdateOrganisationAccess(t *testing.T) {
	repo := OpenTestRepo(t)
	defer repo.Close()
	ctx := context.Background()

	orgs, err := repo.UpdateOrganisationAccess(ctx, "client-1", "org-harbour", models.ActionApprove)
	if err != nil {
		t.Fatal(err)
	}
	if status := toStatusMap(orgs)["org-harbour"]; status != models.OrgApproved {
		t.Errorf("Expected approved after approve, got '%s'", status)
	}

	orgs, err = repo.UpdateOrganisationAccess(ctx, "client-1", "org-sunrise", models.ActionReject)
	if err != nil {
		t.Fatal(err)
	}
	if status := toStatusMap(orgs)["org-sunrise"]; status != models.OrgRevoked {
		t.Errorf("Expected revoked after reject, got '%s'", status)
	}

	// Revoke is idempotent on an already revoked record.
	for i := 0; i < 2; i++ {
		orgs, err = repo.UpdateOrganisationAccess(ctx, "client-1", "org-fernhill", models.ActionRevoke)
		if err != nil {
			t.Fatal(err)
		}
		if status := toStatusMap(orgs)["org-fernhill"]; status != models.OrgRevoked {
			t.Errorf("Expected revoked after revoke, got '%s'", status)
		}
	}

	_, err = repo.UpdateOrganisationAccess(ctx, "client-1", "org-nowhere", models.ActionApprove)
	if !errors.Is(err, models.ErrNoOrganisation) {
		t.Errorf("Expected ErrNoOrganisation, got %v", err)
	}

	_, err = repo.UpdateOrganisationAccess(ctx, "client-1", "org-harbour", "promote")
	if !errors.Is(err, models.ErrInvalidAction) {
		t.Errorf("Expected ErrInvalidAction, got %v", err)
	}
}

func TestSetAndResetOrganisations(t *testing.T) {
	repo := OpenTestRepo(t)
	defer repo.Close()
	ctx := context.Background()

	want := make([]models.OrganisationAccess, 3)
	for i := range want {
		want[i] = models.OrganisationAccess{
			Id:     fmt.Sprintf("org-%d", i),
			Name:   gofakeit.Company(),
			Status: models.OrgPending,
		}
	}

	if _, err := repo.SetOrganisations(ctx, "client-1", want); err != nil {
		t.Fatal(err)
	}
	orgs, err := repo.GetOrganisations(ctx, "client-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(orgs) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(orgs))
	}
	got := toStatusMap(orgs)
	for _, org := range want {
		if got[org.Id] != models.OrgPending {
			t.Errorf("Expected '%s' pending, got '%s'", org.Id, got[org.Id])
		}
	}

	// Replacement is per client.
	other, err := repo.GetOrganisations(ctx, "client-2")
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != len(orgstore.SeedOrganisations()) {
		t.Errorf("Expected untouched seed for client-2, got %d records", len(other))
	}

	orgs, err = repo.ResetOrganisations(ctx, "client-1")
	if err != nil {
		t.Fatal(err)
	}
	seed := toStatusMap(orgstore.SeedOrganisations())
	got = toStatusMap(orgs)
	for id, status := range seed {
		if got[id] != status {
			t.Errorf("Expected '%s' back to '%s' after reset, got '%s'", id, status, got[id])
		}
	}
}

func TestReplaceWithEmptyListStaysEmpty(t *testing.T) {
	repo := OpenTestRepo(t)
	defer repo.Close()
	ctx := context.Background()

	if _, err := repo.SetOrganisations(ctx, "client-1", []models.OrganisationAccess{}); err != nil {
		t.Fatal(err)
	}

	// A deliberately emptied list must not reseed on read.
	orgs, err := repo.GetOrganisations(ctx, "client-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(orgs) != 0 {
		t.Fatalf("Expected the emptied list to stay empty, got %d records", len(orgs))
	}

	// A client never listed before still seeds.
	other, err := repo.GetOrganisations(ctx, "client-2")
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != len(orgstore.SeedOrganisations()) {
		t.Errorf("Expected the seed for a fresh client, got %d records", len(other))
	}

	// Reset brings the seed back explicitly.
	orgs, err = repo.ResetOrganisations(ctx, "client-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(orgs) != len(orgstore.SeedOrganisations()) {
		t.Errorf("Expected the seed after reset, got %d records", len(orgs))
	}
}

func TestSetOrganisationsFillsIdsAndTranslates(t *testing.T) {
	repo := OpenTestRepo(t)
	defer repo.Close()

	orgs, err := repo.SetOrganisations(context.Background(), "client-1", []models.OrganisationAccess{
		{Name: gofakeit.Company(), Status: "active"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if orgs[0].Id == "" {
		t.Error("Expected a generated id")
	}
	if orgs[0].Status != models.OrgApproved {
		t.Errorf("Expected active translated to approved, got '%s'", orgs[0].Status)
	}
}

func TestClientRoles(t *testing.T) {
	repo := OpenTestRepo(t)
	defer repo.Close()
	ctx := context.Background()

	_, err := repo.ClientRole(ctx, "client-1")
	if !errors.Is(err, models.ErrNoRole) {
		t.Fatalf("Expected ErrNoRole before set, got %v", err)
	}

	if err = repo.SetClientRole(ctx, "client-1", models.RoleFamily); err != nil {
		t.Fatal(err)
	}
	role, err := repo.ClientRole(ctx, "client-1")
	if err != nil {
		t.Fatal(err)
	}
	if role != models.RoleFamily {
		t.Errorf("Expected family, got '%s'", role)
	}

	if err = repo.SetClientRole(ctx, "client-1", models.RoleManagement); err != nil {
		t.Fatal(err)
	}
	role, err = repo.ClientRole(ctx, "client-1")
	if err != nil {
		t.Fatal(err)
	}
	if role != models.RoleManagement {
		t.Errorf("Expected management after overwrite, got '%s'", role)
	}

	err = repo.SetClientRole(ctx, "client-1", "astronaut")
	if !errors.Is(err, models.ErrNoRole) {
		t.Errorf("Expected ErrNoRole for invalid role, got %v", err)
	}
}

func toStatusMap(orgs []models.OrganisationAccess) map[string]models.OrgStatus {
	statuses := make(map[string]models.OrgStatus, len(orgs))
	for _, org := range orgs {
		statuses[org.Id] = org.Status
	}
	return statuses
}
