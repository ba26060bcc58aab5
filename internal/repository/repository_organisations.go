package repository

import (
	"context"
	"fmt"

	"careportal/internal/models"
	"careportal/internal/orgstore"

	"github.com/google/uuid"
)

func (repo *Repository) GetOrganisations(ctx context.Context, clientId string) ([]models.OrganisationAccess, error) {
	if clientId == "" {
		return []models.OrganisationAccess{}, nil
	}

	orgs, err := repo.listOrganisations(ctx, clientId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.GetOrganisations: %w", err)
	}
	if len(orgs) > 0 {
		return orgs, nil
	}

	// No rows means either a client never listed before or one whose list
	// was deliberately replaced with nothing. Only the former seeds.
	listed, err := repo.clientListed(ctx, clientId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.GetOrganisations: %w", err)
	}
	if listed {
		return []models.OrganisationAccess{}, nil
	}

	orgs = orgstore.SeedOrganisations()
	if err = repo.replaceOrganisations(ctx, clientId, orgs); err != nil {
		return nil, fmt.Errorf("repository.Repository.GetOrganisations: %w", err)
	}
	return orgs, nil
}

func (repo *Repository) UpdateOrganisationAccess(ctx context.Context, clientId, orgId string, action models.OrgAction) ([]models.OrganisationAccess, error) {
	if clientId == "" || orgId == "" {
		return repo.GetOrganisations(ctx, clientId)
	}

	status, ok := action.Status()
	if !ok {
		return nil, fmt.Errorf("repository.Repository.UpdateOrganisationAccess: %w: %s", models.ErrInvalidAction, action)
	}

	// Seed if this client has never been listed.
	if _, err := repo.GetOrganisations(ctx, clientId); err != nil {
		return nil, err
	}

	res, err := repo.db.ExecContext(ctx,
		"UPDATE organisation_access SET status = $1, updated_at = now() WHERE client_id = $2 AND org_id = $3",
		status, clientId, orgId)
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.UpdateOrganisationAccess: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("repository.Repository.UpdateOrganisationAccess: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("repository.Repository.UpdateOrganisationAccess: %w: %s", models.ErrNoOrganisation, orgId)
	}

	return repo.GetOrganisations(ctx, clientId)
}

func (repo *Repository) SetOrganisations(ctx context.Context, clientId string, orgs []models.OrganisationAccess) ([]models.OrganisationAccess, error) {
	if clientId == "" {
		return repo.GetOrganisations(ctx, clientId)
	}

	if orgs == nil {
		orgs = []models.OrganisationAccess{}
	}
	for i := range orgs {
		if orgs[i].Id == "" {
			orgs[i].Id = uuid.NewString()
		}
		orgs[i].Status = models.TranslateOrgStatus(orgs[i].Status)
	}

	if err := repo.replaceOrganisations(ctx, clientId, orgs); err != nil {
		return nil, fmt.Errorf("repository.Repository.SetOrganisations: %w", err)
	}
	return orgs, nil
}

func (repo *Repository) ResetOrganisations(ctx context.Context, clientId string) ([]models.OrganisationAccess, error) {
	if clientId == "" {
		return repo.GetOrganisations(ctx, clientId)
	}

	orgs := orgstore.SeedOrganisations()
	if err := repo.replaceOrganisations(ctx, clientId, orgs); err != nil {
		return nil, fmt.Errorf("repository.Repository.ResetOrganisations: %w", err)
	}
	return orgs, nil
}

//// Service

func (repo *Repository) listOrganisations(ctx context.Context, clientId string) ([]models.OrganisationAccess, error) {
	query := `
	SELECT
		org_id,
		name,
		status
	FROM organisation_access
	WHERE client_id = $1
	ORDER BY name
	`

	rows, err := repo.db.QueryContext(ctx, query, clientId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.OrganisationAccess
	org := models.OrganisationAccess{}
	for rows.Next() {
		err = rows.Scan(&org.Id, &org.Name, &org.Status)
		if err != nil {
			return nil, fmt.Errorf("row scan failed: %w", err)
		}
		result = append(result, org)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return result, nil
}

// clientListed reports whether a list was ever written for the client,
// even if it is empty now.
func (repo *Repository) clientListed(ctx context.Context, clientId string) (bool, error) {
	row := repo.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM client_lists WHERE client_id = $1)", clientId)

	var listed bool
	err := row.Scan(&listed)
	return listed, err
}

// replaceOrganisations swaps a client's whole list inside one transaction
// and records that the client has been listed.
func (repo *Repository) replaceOrganisations(ctx context.Context, clientId string, orgs []models.OrganisationAccess) error {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx,
		"INSERT INTO client_lists (client_id) VALUES ($1) ON CONFLICT (client_id) DO NOTHING",
		clientId); err != nil {
		return wrapRollbackErr(tx, err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM organisation_access WHERE client_id = $1", clientId); err != nil {
		return wrapRollbackErr(tx, err)
	}

	for _, org := range orgs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO organisation_access (client_id, org_id, name, status) VALUES ($1, $2, $3, $4)",
			clientId, org.Id, org.Name, org.Status)
		if err != nil {
			return wrapRollbackErr(tx, err)
		}
	}

	return tx.Commit()
}
