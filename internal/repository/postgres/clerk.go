package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sevaqueue/seva-api/internal/model"
	"github.com/sevaqueue/seva-api/internal/repository"
)

type clerkRepository struct {
	db *sqlx.DB
}

func NewClerkRepository(db *sqlx.DB) repository.ClerkRepository {
	return &clerkRepository{db: db}
}

func (r *clerkRepository) Create(ctx context.Context, clerk *model.Clerk) error {
	query := `
		INSERT INTO clerks (
			id, email, name, password_hash, role, department_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	clerk.CreatedAt = time.Now()
	clerk.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		clerk.ID,
		clerk.Email,
		clerk.Name,
		clerk.PasswordHash,
		clerk.Role,
		clerk.DepartmentID,
		clerk.CreatedAt,
		clerk.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create clerk: %w", err)
	}
	return nil
}

func (r *clerkRepository) GetByEmail(ctx context.Context, email string) (*model.Clerk, error) {
	query := `
		SELECT id, email, name, password_hash, role, department_id, created_at, updated_at
		FROM clerks
		WHERE email = $1
	`
	var clerk model.Clerk
	err := r.db.GetContext(ctx, &clerk, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get clerk: %w", err)
	}
	return &clerk, nil
}
