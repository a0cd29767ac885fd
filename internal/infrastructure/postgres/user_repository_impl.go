package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING created_at, updated_at
	`, u.ID, u.Email, u.Password, u.Name, string(u.Role), u.CreatedAt)

	return mapErr(row.Scan(&u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg string) (*entity.User, error) {
	u := &entity.User{}
	var role string

	row := r.pool.QueryRow(ctx, `
		SELECT id::text, email, password_hash, name, role, created_at, updated_at
		FROM users `+where, arg)

	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &role,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	u.Role = entity.Role(role)

	rows, err := r.pool.Query(ctx, `
		SELECT enrollment_id::text FROM user_enrollments
		WHERE user_id = $1
		ORDER BY created_at, enrollment_id
	`, u.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var eid string
		if err := rows.Scan(&eid); err != nil {
			return nil, err
		}
		u.EnrollmentIDs = append(u.EnrollmentIDs, eid)
	}
	return u, rows.Err()
}

func (r *UserRepository) AddEnrollment(ctx context.Context, userID, enrollmentID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_enrollments (user_id, enrollment_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, enrollmentID)
	return mapErr(err)
}

var _ repository.UserRepository = (*UserRepository)(nil)
