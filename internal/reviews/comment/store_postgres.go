package comment

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

func (repository *PostgresRepository) ListByReview(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, u.%s, c.%s, c.%s
		FROM %s c
		JOIN %s u ON u.%s = c.%s
		WHERE c.%s = $1
		ORDER BY c.%s ASC, c.%s ASC
		LIMIT $2 OFFSET $3
	`,
		schema.Comment.ID, schema.Comment.ReviewID, schema.Comment.AuthorID, schema.UserAccount.Username,
		schema.Comment.Text, schema.Comment.PubDate,
		schema.Comment.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.Comment.AuthorID,
		schema.Comment.ReviewID,
		schema.Comment.PubDate, schema.Comment.ID,
	)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.Comment.Table, schema.Comment.ReviewID)

	var total int
	if err := repository.db.QueryRow(context, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_comments")
	}

	rows, err := repository.db.Query(context, query, reviewID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		c := &Comment{}
		if err := rows.Scan(&c.ID, &c.ReviewID, &c.AuthorID, &c.Author, &c.Text, &c.PubDate); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, c)
	}

	return comments, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, reviewID, commentID int64) (*Comment, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, u.%s, c.%s, c.%s
		FROM %s c
		JOIN %s u ON u.%s = c.%s
		WHERE c.%s = $1 AND c.%s = $2
	`,
		schema.Comment.ID, schema.Comment.ReviewID, schema.Comment.AuthorID, schema.UserAccount.Username,
		schema.Comment.Text, schema.Comment.PubDate,
		schema.Comment.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.Comment.AuthorID,
		schema.Comment.ID, schema.Comment.ReviewID,
	)
	c := &Comment{}

	err := repository.db.QueryRow(context, query, commentID, reviewID).Scan(
		&c.ID, &c.ReviewID, &c.AuthorID, &c.Author, &c.Text, &c.PubDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_comment_by_id")
	}

	return c, nil
}

func (repository *PostgresRepository) Create(context context.Context, c *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW())
		RETURNING %s, %s
	`,
		schema.Comment.Table,
		schema.Comment.ReviewID, schema.Comment.AuthorID, schema.Comment.Text, schema.Comment.PubDate,
		schema.Comment.ID, schema.Comment.PubDate,
	)

	err := repository.db.QueryRow(context, query, c.ReviewID, c.AuthorID, c.Text).Scan(&c.ID, &c.PubDate)
	return dberr.Wrap(err, "create_comment")
}

func (repository *PostgresRepository) Update(context context.Context, c *Comment) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 RETURNING %s`,
		schema.Comment.Table, schema.Comment.Text, schema.Comment.ID, schema.Comment.ID)

	var id int64
	err := repository.db.QueryRow(context, query, c.ID, c.Text).Scan(&id)
	return dberr.Wrap(err, "update_comment")
}

func (repository *PostgresRepository) Delete(context context.Context, commentID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Comment.Table, schema.Comment.ID)

	cmd, err := repository.db.Exec(context, query, commentID)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}

func (repository *PostgresRepository) ReviewExists(context context.Context, titleID, reviewID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.Review.Table, schema.Review.ID, schema.Review.TitleID)

	var exists bool
	if err := repository.db.QueryRow(context, query, reviewID, titleID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "review_exists")
	}

	return exists, nil
}
