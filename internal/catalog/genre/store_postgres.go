package genre

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/revio/internal/platform/apperr"
	"github.com/taibuivan/revio/internal/platform/database/schema"
	"github.com/taibuivan/revio/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, search string, limit, offset int) ([]*Genre, int, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE TRUE`,
		schema.CatalogGenre.ID, schema.CatalogGenre.Name, schema.CatalogGenre.Slug,
		schema.CatalogGenre.Table)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE TRUE`, schema.CatalogGenre.Table)

	args := []any{}
	countArgs := []any{}

	if search != "" {
		searchTerm := "%" + search + "%"
		filter := fmt.Sprintf(` AND %s ILIKE $1`, schema.CatalogGenre.Name)
		query += filter
		countQuery += filter
		args = append(args, searchTerm)
		countArgs = append(countArgs, searchTerm)
	}

	query += fmt.Sprintf(` ORDER BY %s ASC LIMIT $%d OFFSET $%d`,
		schema.CatalogGenre.Name, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_genres")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_genres")
	}
	defer rows.Close()

	genres := make([]*Genre, 0)
	for rows.Next() {
		g := &Genre{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_genre")
		}
		genres = append(genres, g)
	}

	return genres, total, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Genre, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.CatalogGenre.ID, schema.CatalogGenre.Name, schema.CatalogGenre.Slug,
		schema.CatalogGenre.Table, schema.CatalogGenre.Slug)
	g := &Genre{}

	err := repository.db.QueryRow(context, query, slug).Scan(&g.ID, &g.Name, &g.Slug)
	if err != nil {
		return nil, dberr.Wrap(err, "get_genre_by_slug")
	}

	return g, nil
}

func (repository *PostgresRepository) Create(context context.Context, g *Genre) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		schema.CatalogGenre.Table, schema.CatalogGenre.Name, schema.CatalogGenre.Slug,
		schema.CatalogGenre.ID)

	err := repository.db.QueryRow(context, query, g.Name, g.Slug).Scan(&g.ID)
	if dberr.IsUniqueViolation(err, schema.UniqueGenreSlug) {
		return apperr.Conflict("Genre slug already exists",
			apperr.FieldError{Field: "slug", Message: "Already in use"})
	}
	return dberr.Wrap(err, "create_genre")
}

func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogGenre.Table, schema.CatalogGenre.Slug)

	cmd, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_genre")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Genre")
	}
	return nil
}
