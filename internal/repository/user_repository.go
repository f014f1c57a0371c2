package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/logiops/ops-portal/internal/domain"
)

// UserRepository lists the assignable-user grouping directory.
type UserRepository interface {
	ListAssignable(ctx context.Context) ([]domain.AssignableUser, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) ListAssignable(ctx context.Context) ([]domain.AssignableUser, error) {
	const query = `
        SELECT id, full_name
        FROM portal_users
        WHERE is_assignable = TRUE
        ORDER BY full_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AssignableUser
	for rows.Next() {
		var user domain.AssignableUser
		if err := rows.Scan(&user.ID, &user.FullName); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
