package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"careportal/internal/models"
)

func (repo *Repository) ClientRole(ctx context.Context, clientId string) (models.Role, error) {
	if clientId == "" {
		return "", models.ErrNoRole
	}

	row := repo.db.QueryRowContext(ctx, "SELECT role FROM client_roles WHERE client_id = $1", clientId)

	var role models.Role
	err := row.Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrNoRole
	} else if err != nil {
		return "", fmt.Errorf("repository.Repository.ClientRole: %w", err)
	}

	if !models.ValidRole(role) {
		return "", models.ErrNoRole
	}
	return role, nil
}

func (repo *Repository) SetClientRole(ctx context.Context, clientId string, role models.Role) error {
	if clientId == "" || !models.ValidRole(role) {
		return fmt.Errorf("repository.Repository.SetClientRole: %w: %s", models.ErrNoRole, role)
	}

	_, err := repo.db.ExecContext(ctx,
		"INSERT INTO client_roles (client_id, role) VALUES ($1, $2) ON CONFLICT (client_id) DO UPDATE SET role = excluded.role, updated_at = now()",
		clientId, role)
	if err != nil {
		return fmt.Errorf("repository.Repository.SetClientRole: %w", err)
	}
	return nil
}
