package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yugabyte/pgx/v5"
	"github.com/yugabyte/pgx/v5/pgconn"
	"github.com/yugabyte/pgx/v5/pgxpool"

	"populationservice/internal/api"
)

// Repository is the persistence contract for Location records. Uniqueness of
// the name is enforced atomically by the implementation: of two racing
// creates with the same name exactly one succeeds and the other observes
// api.ErrDuplicate. Absent records surface as api.ErrNotFound. Any other
// error is implementation detail, wrapped for logging only.
type Repository interface {
	Create(ctx context.Context, loc *Location) (*Location, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)
	FindAll(ctx context.Context) ([]Location, error)
	FindAndUpdate(ctx context.Context, id uuid.UUID, loc *Location) (*Location, error)
	FindAndDelete(ctx context.Context, id uuid.UUID) error
}

const pgUniqueViolation = "23505"

// PostgresRepository stores locations in PostgreSQL (or YugabyteDB) behind a
// pgx connection pool. See sql/schema.sql for the table definition; the
// unique index on name is what makes duplicate detection atomic.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, loc *Location) (*Location, error) {
	var created Location
	err := r.db.QueryRow(ctx,
		`INSERT INTO locations (name, male_residents, female_residents, total_residents)
		      VALUES ($1, $2, $3, $4)
		   RETURNING id, name, male_residents, female_residents, total_residents`,
		loc.Name, loc.MaleResidents, loc.FemaleResidents, loc.TotalResidents).
		Scan(&created.ID, &created.Name, &created.MaleResidents, &created.FemaleResidents, &created.TotalResidents)
	if err != nil {
		return nil, translatePgError(err)
	}
	return &created, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*Location, error) {
	var loc Location
	err := r.db.QueryRow(ctx,
		`SELECT id, name, male_residents, female_residents, total_residents
		   FROM locations
		  WHERE id = $1`, id).
		Scan(&loc.ID, &loc.Name, &loc.MaleResidents, &loc.FemaleResidents, &loc.TotalResidents)
	if err != nil {
		return nil, translatePgError(err)
	}
	return &loc, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]Location, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, male_residents, female_residents, total_residents
		   FROM locations
		  ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var loc Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.MaleResidents, &loc.FemaleResidents, &loc.TotalResidents); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

func (r *PostgresRepository) FindAndUpdate(ctx context.Context, id uuid.UUID, loc *Location) (*Location, error) {
	var updated Location
	err := r.db.QueryRow(ctx,
		`UPDATE locations
		    SET name = $1, male_residents = $2, female_residents = $3, total_residents = $4
		  WHERE id = $5
		  RETURNING id, name, male_residents, female_residents, total_residents`,
		loc.Name, loc.MaleResidents, loc.FemaleResidents, loc.TotalResidents, id).
		Scan(&updated.ID, &updated.Name, &updated.MaleResidents, &updated.FemaleResidents, &updated.TotalResidents)
	if err != nil {
		return nil, translatePgError(err)
	}
	return &updated, nil
}

func (r *PostgresRepository) FindAndDelete(ctx context.Context, id uuid.UUID) error {
	commandTag, err := r.db.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return api.ErrNotFound
	}
	return nil
}

// translatePgError converts driver errors into the repository contract at
// this boundary, so no numeric SQLSTATE ever leaks upward.
func translatePgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return api.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return api.ErrDuplicate
	}
	return fmt.Errorf("location storage: %w", err)
}
