package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/repository"
)

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `id::text, title, description, price_minor, currency, instructor_id::text,
	enrollment_count, created_at, updated_at`

func scanCourse(row pgx.Row) (*entity.Course, error) {
	c := &entity.Course{}
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Price.Amount, &c.Price.Currency,
		&c.InstructorID, &c.EnrollmentCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CourseRepository) Create(ctx context.Context, c *entity.Course) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO courses (id, title, description, price_minor, currency, instructor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING updated_at
	`, c.ID, c.Title, c.Description, c.Price.Amount, c.Price.Currency, c.InstructorID, c.CreatedAt)
	return mapErr(row.Scan(&c.UpdatedAt))
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	c, err := scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	rows, err := r.pool.Query(ctx, `SELECT id::text FROM lectures WHERE course_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var lid string
		if err := rows.Scan(&lid); err != nil {
			return nil, err
		}
		c.LectureIDs = append(c.LectureIDs, lid)
	}
	return c, rows.Err()
}

// GetByIDs skips ids that do not exist and preserves the order of ids.
func (r *CourseRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Course, error) {
	if len(ids) == 0 {
		return []*entity.Course{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+courseColumns+` FROM courses WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	byID := make(map[string]*entity.Course, len(ids))
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]*entity.Course, 0, len(byID))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
			delete(byID, id)
		}
	}
	return out, nil
}

func (r *CourseRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text FROM courses ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *CourseRepository) IncrementEnrollments(ctx context.Context, courseID string, delta int64) error {
	return r.exec(ctx, `
		UPDATE courses SET enrollment_count = enrollment_count + $2, updated_at = now()
		WHERE id = $1
	`, courseID, delta)
}

func (r *CourseRepository) SetEnrollmentCount(ctx context.Context, courseID string, n int64) error {
	return r.exec(ctx, `
		UPDATE courses SET enrollment_count = $2, updated_at = now()
		WHERE id = $1
	`, courseID, n)
}

func (r *CourseRepository) exec(ctx context.Context, sql string, args ...any) error {
	res, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type LectureRepository struct {
	pool *pgxpool.Pool
}

func NewLectureRepository(pool *pgxpool.Pool) *LectureRepository {
	return &LectureRepository{pool: pool}
}

func (r *LectureRepository) Create(ctx context.Context, l *entity.Lecture) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO lectures (id, course_id, title, description, position, asset_ref, created_at)
		VALUES ($1, $2, $3, $4,
			CASE WHEN $5::int > 0 THEN $5::int
			     ELSE (SELECT COALESCE(MAX(position), 0) + 1 FROM lectures WHERE course_id = $2) END,
			$6, $7)
		RETURNING position
	`, l.ID, l.CourseID, l.Title, l.Description, l.Position, l.AssetRef, l.CreatedAt)
	return mapErr(row.Scan(&l.Position))
}

const lectureColumns = `id::text, course_id::text, title, description, position, asset_ref, created_at`

func scanLecture(row pgx.Row) (*entity.Lecture, error) {
	l := &entity.Lecture{}
	if err := row.Scan(&l.ID, &l.CourseID, &l.Title, &l.Description, &l.Position, &l.AssetRef, &l.CreatedAt); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *LectureRepository) GetByID(ctx context.Context, id string) (*entity.Lecture, error) {
	l, err := scanLecture(r.pool.QueryRow(ctx, `SELECT `+lectureColumns+` FROM lectures WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return l, nil
}

func (r *LectureRepository) ListByCourse(ctx context.Context, courseID string) ([]*entity.Lecture, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+lectureColumns+` FROM lectures WHERE course_id = $1 ORDER BY position`, courseID)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Lecture, error) { return scanLecture(row) })
	if err != nil {
		if pgCode(err) == invalidTextRepr {
			return []*entity.Lecture{}, nil
		}
		return nil, err
	}
	return out, nil
}

var (
	_ repository.CourseRepository  = (*CourseRepository)(nil)
	_ repository.LectureRepository = (*LectureRepository)(nil)
)
