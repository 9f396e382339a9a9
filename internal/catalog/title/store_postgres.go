package title

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/revio/internal/catalog/category"
	"github.com/taibuivan/revio/internal/catalog/genre"
	"github.com/taibuivan/revio/internal/platform/apperr"
	"github.com/taibuivan/revio/internal/platform/database/schema"
	"github.com/taibuivan/revio/internal/platform/dberr"
	"github.com/taibuivan/revio/pkg/slice"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Title, int, error) {
	// Rating is the live mean of review scores, joined in so a listing costs
	// one aggregate pass instead of one query per row.
	base := fmt.Sprintf(`
		FROM %s t
		LEFT JOIN %s c ON t.%s = c.%s
		LEFT JOIN (
			SELECT %s, AVG(%s)::float8 AS rating FROM %s GROUP BY %s
		) r ON r.%s = t.%s
		WHERE TRUE
	`,
		schema.CatalogTitle.Table,
		schema.CatalogCategory.Table, schema.CatalogTitle.CategoryID, schema.CatalogCategory.ID,
		schema.Review.TitleID, schema.Review.Score, schema.Review.Table, schema.Review.TitleID,
		schema.Review.TitleID, schema.CatalogTitle.ID,
	)

	args := []any{}

	if f.Name != "" {
		args = append(args, "%"+f.Name+"%")
		base += fmt.Sprintf(` AND t.%s ILIKE $%d`, schema.CatalogTitle.Name, len(args))
	}
	if f.Year != nil {
		args = append(args, *f.Year)
		base += fmt.Sprintf(` AND t.%s = $%d`, schema.CatalogTitle.Year, len(args))
	}
	if f.CategorySlug != "" {
		args = append(args, f.CategorySlug)
		base += fmt.Sprintf(` AND c.%s = $%d`, schema.CatalogCategory.Slug, len(args))
	}
	if len(f.GenreSlugs) > 0 {
		args = append(args, f.GenreSlugs)
		base += fmt.Sprintf(` AND t.%s IN (
			SELECT tg.%s FROM %s tg
			JOIN %s g ON g.%s = tg.%s
			WHERE g.%s = ANY($%d)
		)`,
			schema.CatalogTitle.ID,
			schema.CatalogTitleGenre.TitleID, schema.CatalogTitleGenre.Table,
			schema.CatalogGenre.Table, schema.CatalogGenre.ID, schema.CatalogTitleGenre.GenreID,
			schema.CatalogGenre.Slug, len(args))
	}

	countQuery := `SELECT count(*) ` + base

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_titles")
	}

	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, r.rating, c.%s, c.%s, c.%s
	`,
		schema.CatalogTitle.ID, schema.CatalogTitle.Name, schema.CatalogTitle.Year,
		schema.CatalogTitle.Description,
		schema.CatalogCategory.ID, schema.CatalogCategory.Name, schema.CatalogCategory.Slug,
	) + base + orderClause(f.Sort) + fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}
	defer rows.Close()

	titles := make([]*Title, 0)
	for rows.Next() {
		t := &Title{Genres: make([]genre.Genre, 0)}
		var categoryID *int64
		var categoryName, categorySlug *string

		if err := rows.Scan(
			&t.ID, &t.Name, &t.Year, &t.Description, &t.Rating,
			&categoryID, &categoryName, &categorySlug,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_title")
		}

		if categoryID != nil {
			t.Category = &category.Category{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
		}
		titles = append(titles, t)
	}
	rows.Close()

	if err := repository.loadGenres(context, titles); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*Title, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, c.%s, c.%s, c.%s
		FROM %s t
		LEFT JOIN %s c ON t.%s = c.%s
		WHERE t.%s = $1
	`,
		schema.CatalogTitle.ID, schema.CatalogTitle.Name, schema.CatalogTitle.Year,
		schema.CatalogTitle.Description,
		schema.CatalogCategory.ID, schema.CatalogCategory.Name, schema.CatalogCategory.Slug,
		schema.CatalogTitle.Table,
		schema.CatalogCategory.Table, schema.CatalogTitle.CategoryID, schema.CatalogCategory.ID,
		schema.CatalogTitle.ID,
	)

	t := &Title{Genres: make([]genre.Genre, 0)}
	var categoryID *int64
	var categoryName, categorySlug *string

	err := repository.db.QueryRow(context, query, id).Scan(
		&t.ID, &t.Name, &t.Year, &t.Description,
		&categoryID, &categoryName, &categorySlug,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_title_by_id")
	}

	if categoryID != nil {
		t.Category = &category.Category{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}

	if err := repository.loadGenres(context, []*Title{t}); err != nil {
		return nil, err
	}

	return t, nil
}

func (repository *PostgresRepository) ComputeRating(context context.Context, id int64) (*float64, error) {
	query := fmt.Sprintf(`SELECT AVG(%s)::float8 FROM %s WHERE %s = $1`,
		schema.Review.Score, schema.Review.Table, schema.Review.TitleID)

	// AVG over zero rows is NULL, which scans to nil: "no reviews yet".
	var rating *float64
	if err := repository.db.QueryRow(context, query, id).Scan(&rating); err != nil {
		return nil, dberr.Wrap(err, "compute_title_rating")
	}

	return rating, nil
}

func (repository *PostgresRepository) Create(context context.Context, t *Title, genreIDs []int64) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "create_title_begin")
	}
	defer tx.Rollback(context)

	var categoryID *int64
	if t.Category != nil {
		categoryID = &t.Category.ID
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`,
		schema.CatalogTitle.Table,
		schema.CatalogTitle.Name, schema.CatalogTitle.Year,
		schema.CatalogTitle.Description, schema.CatalogTitle.CategoryID,
		schema.CatalogTitle.ID,
	)

	if err := tx.QueryRow(context, query, t.Name, t.Year, t.Description, categoryID).Scan(&t.ID); err != nil {
		return dberr.Wrap(err, "create_title")
	}

	if err := insertGenres(context, tx, t.ID, genreIDs); err != nil {
		return err
	}

	return dberr.Wrap(tx.Commit(context), "create_title_commit")
}

func (repository *PostgresRepository) Update(context context.Context, t *Title, genreIDs []int64, replaceGenres bool) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "update_title_begin")
	}
	defer tx.Rollback(context)

	var categoryID *int64
	if t.Category != nil {
		categoryID = &t.Category.ID
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CatalogTitle.Table,
		schema.CatalogTitle.Name, schema.CatalogTitle.Year,
		schema.CatalogTitle.Description, schema.CatalogTitle.CategoryID,
		schema.CatalogTitle.ID,
		schema.CatalogTitle.ID,
	)

	if err := tx.QueryRow(context, query, t.ID, t.Name, t.Year, t.Description, categoryID).Scan(&t.ID); err != nil {
		return dberr.Wrap(err, "update_title")
	}

	if replaceGenres {
		deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
			schema.CatalogTitleGenre.Table, schema.CatalogTitleGenre.TitleID)
		if _, err := tx.Exec(context, deleteQuery, t.ID); err != nil {
			return dberr.Wrap(err, "update_title_clear_genres")
		}
		if err := insertGenres(context, tx, t.ID, genreIDs); err != nil {
			return err
		}
	}

	return dberr.Wrap(tx.Commit(context), "update_title_commit")
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogTitle.Table, schema.CatalogTitle.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_title")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}
	return nil
}

// loadGenres hydrates the genre lists for a page of titles in one query.
func (repository *PostgresRepository) loadGenres(context context.Context, titles []*Title) error {
	if len(titles) == 0 {
		return nil
	}

	byID := make(map[int64]*Title, len(titles))
	for _, t := range titles {
		byID[t.ID] = t
	}
	ids := slice.Map(titles, func(t *Title) int64 { return t.ID })

	query := fmt.Sprintf(`
		SELECT tg.%s, g.%s, g.%s, g.%s
		FROM %s tg
		JOIN %s g ON g.%s = tg.%s
		WHERE tg.%s = ANY($1)
		ORDER BY g.%s ASC
	`,
		schema.CatalogTitleGenre.TitleID,
		schema.CatalogGenre.ID, schema.CatalogGenre.Name, schema.CatalogGenre.Slug,
		schema.CatalogTitleGenre.Table,
		schema.CatalogGenre.Table, schema.CatalogGenre.ID, schema.CatalogTitleGenre.GenreID,
		schema.CatalogTitleGenre.TitleID,
		schema.CatalogGenre.Name,
	)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "load_title_genres")
	}
	defer rows.Close()

	for rows.Next() {
		var titleID int64
		g := genre.Genre{}
		if err := rows.Scan(&titleID, &g.ID, &g.Name, &g.Slug); err != nil {
			return dberr.Wrap(err, "scan_title_genre")
		}
		if t, ok := byID[titleID]; ok {
			t.Genres = append(t.Genres, g)
		}
	}

	return nil
}

// insertGenres attaches the resolved genre IDs to a title inside tx.
func insertGenres(context context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.CatalogTitleGenre.Table,
		schema.CatalogTitleGenre.TitleID, schema.CatalogTitleGenre.GenreID)

	for _, genreID := range genreIDs {
		if _, err := tx.Exec(context, query, titleID, genreID); err != nil {
			return dberr.Wrap(err, "attach_title_genre")
		}
	}
	return nil
}

// orderClause maps the public sort key to a deterministic ORDER BY.
// Rating sorts place unrated titles last in both directions.
func orderClause(sort string) string {
	name := "t." + schema.CatalogTitle.Name
	year := "t." + schema.CatalogTitle.Year
	id := "t." + schema.CatalogTitle.ID

	switch sort {
	case "", "name":
		return fmt.Sprintf(` ORDER BY %s ASC, %s ASC`, name, id)
	case "-name":
		return fmt.Sprintf(` ORDER BY %s DESC, %s ASC`, name, id)
	case "year":
		return fmt.Sprintf(` ORDER BY %s ASC, %s ASC`, year, id)
	case "-year":
		return fmt.Sprintf(` ORDER BY %s DESC, %s ASC`, year, id)
	case "rating":
		return fmt.Sprintf(` ORDER BY r.rating ASC NULLS LAST, %s ASC`, id)
	case "-rating":
		return fmt.Sprintf(` ORDER BY r.rating DESC NULLS LAST, %s ASC`, id)
	}
	return fmt.Sprintf(` ORDER BY %s ASC, %s ASC`, name, id)
}
