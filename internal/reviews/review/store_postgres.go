package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/revio/internal/platform/apperr"
	"github.com/taibuivan/revio/internal/platform/database/schema"
	"github.com/taibuivan/revio/internal/platform/dberr"
	"github.com/taibuivan/revio/internal/platform/validate"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListByTitle(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, u.%s, r.%s, r.%s, r.%s
		FROM %s r
		JOIN %s u ON u.%s = r.%s
		WHERE r.%s = $1
		ORDER BY r.%s ASC, r.%s ASC
		LIMIT $2 OFFSET $3
	`,
		schema.Review.ID, schema.Review.TitleID, schema.Review.AuthorID, schema.UserAccount.Username,
		schema.Review.Text, schema.Review.Score, schema.Review.PubDate,
		schema.Review.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.Review.AuthorID,
		schema.Review.TitleID,
		schema.Review.PubDate, schema.Review.ID,
	)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.Review.Table, schema.Review.TitleID)

	var total int
	if err := repository.db.QueryRow(context, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_reviews")
	}

	rows, err := repository.db.Query(context, query, titleID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	reviews := make([]*Review, 0)
	for rows.Next() {
		r := &Review{}
		if err := rows.Scan(&r.ID, &r.TitleID, &r.AuthorID, &r.Author, &r.Text, &r.Score, &r.PubDate); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, r)
	}

	return reviews, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, titleID, reviewID int64) (*Review, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, u.%s, r.%s, r.%s, r.%s
		FROM %s r
		JOIN %s u ON u.%s = r.%s
		WHERE r.%s = $1 AND r.%s = $2
	`,
		schema.Review.ID, schema.Review.TitleID, schema.Review.AuthorID, schema.UserAccount.Username,
		schema.Review.Text, schema.Review.Score, schema.Review.PubDate,
		schema.Review.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.Review.AuthorID,
		schema.Review.ID, schema.Review.TitleID,
	)
	r := &Review{}

	err := repository.db.QueryRow(context, query, reviewID, titleID).Scan(
		&r.ID, &r.TitleID, &r.AuthorID, &r.Author, &r.Text, &r.Score, &r.PubDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_review_by_id")
	}

	return r, nil
}

func (repository *PostgresRepository) Create(context context.Context, r *Review) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING %s, %s
	`,
		schema.Review.Table,
		schema.Review.TitleID, schema.Review.AuthorID, schema.Review.Text,
		schema.Review.Score, schema.Review.PubDate,
		schema.Review.ID, schema.Review.PubDate,
	)

	err := repository.db.QueryRow(context, query, r.TitleID, r.AuthorID, r.Text, r.Score).Scan(&r.ID, &r.PubDate)

	// The one-review-per-title rule is a payload problem, not a resource
	// conflict: the violation maps to a 400.
	if dberr.IsUniqueViolation(err, schema.UniqueTitleAuthor) {
		return validate.RequiredError("title", "You have already reviewed this title")
	}
	return dberr.Wrap(err, "create_review")
}

func (repository *PostgresRepository) Update(context context.Context, r *Review) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3
		WHERE %s = $1
		RETURNING %s
	`,
		schema.Review.Table,
		schema.Review.Text, schema.Review.Score,
		schema.Review.ID,
		schema.Review.ID,
	)

	var id int64
	err := repository.db.QueryRow(context, query, r.ID, r.Text, r.Score).Scan(&id)
	return dberr.Wrap(err, "update_review")
}

func (repository *PostgresRepository) Delete(context context.Context, reviewID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Review.Table, schema.Review.ID)

	cmd, err := repository.db.Exec(context, query, reviewID)
	if err != nil {
		return dberr.Wrap(err, "delete_review")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}

func (repository *PostgresRepository) TitleExists(context context.Context, titleID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.CatalogTitle.Table, schema.CatalogTitle.ID)

	var exists bool
	if err := repository.db.QueryRow(context, query, titleID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "title_exists")
	}

	return exists, nil
}
