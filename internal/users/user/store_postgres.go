package user

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

func (repository *PostgresRepository) Create(context context.Context, u *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.FirstName, schema.UserAccount.LastName, schema.UserAccount.Bio,
		schema.UserAccount.Role, schema.UserAccount.IsStaff, schema.UserAccount.IsSuperuser,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Bio,
		u.Role, u.IsStaff, u.IsSuperuser,
	).Scan(&u.CreatedAt, &u.UpdatedAt)

	return translateAccountConflict(err, "create_user")
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.ID, id, "find_user_by_id")
}

func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Username, username, "find_user_by_username")
}

func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Email, email, "find_user_by_email")
}

func (repository *PostgresRepository) findBy(context context.Context, column, value, action string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.FirstName, schema.UserAccount.LastName, schema.UserAccount.Bio,
		schema.UserAccount.Role, schema.UserAccount.IsStaff, schema.UserAccount.IsSuperuser,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table, column,
	)
	u := &User{}

	err := repository.db.QueryRow(context, query, value).Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Bio,
		&u.Role, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	return u, nil
}

func (repository *PostgresRepository) List(context context.Context, search string, limit, offset int) ([]*User, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE TRUE
	`,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.FirstName, schema.UserAccount.LastName, schema.UserAccount.Bio,
		schema.UserAccount.Role, schema.UserAccount.IsStaff, schema.UserAccount.IsSuperuser,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table,
	)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE TRUE`, schema.UserAccount.Table)

	args := []any{}
	countArgs := []any{}

	if search != "" {
		searchTerm := "%" + search + "%"
		filter := fmt.Sprintf(` AND %s ILIKE $1`, schema.UserAccount.Username)
		query += filter
		countQuery += filter
		args = append(args, searchTerm)
		countArgs = append(countArgs, searchTerm)
	}

	query += fmt.Sprintf(` ORDER BY %s ASC LIMIT $%d OFFSET $%d`,
		schema.UserAccount.Username, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		u := &User{}
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Bio,
			&u.Role, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, u)
	}

	return users, total, nil
}

func (repository *PostgresRepository) Update(context context.Context, u *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email, schema.UserAccount.FirstName,
		schema.UserAccount.LastName, schema.UserAccount.Bio, schema.UserAccount.Role,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		schema.UserAccount.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Bio, u.Role,
	).Scan(&u.UpdatedAt)

	return translateAccountConflict(err, "update_user")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_user")
	}

	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// translateAccountConflict maps the account uniqueness constraints to
// field-specific conflicts so clients learn which identifier collided.
func translateAccountConflict(err error, action string) error {
	if err == nil {
		return nil
	}
	if dberr.IsUniqueViolation(err, schema.UniqueAccountUsername) {
		return apperr.Conflict("Username is already taken",
			apperr.FieldError{Field: "username", Message: "Already in use"})
	}
	if dberr.IsUniqueViolation(err, schema.UniqueAccountEmail) {
		return apperr.Conflict("Email is already registered",
			apperr.FieldError{Field: "email", Message: "Already in use"})
	}
	return dberr.Wrap(err, action)
}
