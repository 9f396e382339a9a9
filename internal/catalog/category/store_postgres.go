package category

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

func (repository *PostgresRepository) List(context context.Context, search string, limit, offset int) ([]*Category, int, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE TRUE`,
		schema.CatalogCategory.ID, schema.CatalogCategory.Name, schema.CatalogCategory.Slug,
		schema.CatalogCategory.Table)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE TRUE`, schema.CatalogCategory.Table)

	args := []any{}
	countArgs := []any{}

	if search != "" {
		searchTerm := "%" + search + "%"
		filter := fmt.Sprintf(` AND %s ILIKE $1`, schema.CatalogCategory.Name)
		query += filter
		countQuery += filter
		args = append(args, searchTerm)
		countArgs = append(countArgs, searchTerm)
	}

	query += fmt.Sprintf(` ORDER BY %s ASC LIMIT $%d OFFSET $%d`,
		schema.CatalogCategory.Name, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_categories")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}

	return categories, total, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.CatalogCategory.ID, schema.CatalogCategory.Name, schema.CatalogCategory.Slug,
		schema.CatalogCategory.Table, schema.CatalogCategory.Slug)
	c := &Category{}

	err := repository.db.QueryRow(context, query, slug).Scan(&c.ID, &c.Name, &c.Slug)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category_by_slug")
	}

	return c, nil
}

func (repository *PostgresRepository) Create(context context.Context, c *Category) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		schema.CatalogCategory.Table, schema.CatalogCategory.Name, schema.CatalogCategory.Slug,
		schema.CatalogCategory.ID)

	err := repository.db.QueryRow(context, query, c.Name, c.Slug).Scan(&c.ID)
	if dberr.IsUniqueViolation(err, schema.UniqueCategorySlug) {
		return apperr.Conflict("Category slug already exists",
			apperr.FieldError{Field: "slug", Message: "Already in use"})
	}
	return dberr.Wrap(err, "create_category")
}

func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogCategory.Table, schema.CatalogCategory.Slug)

	cmd, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}
	return nil
}
