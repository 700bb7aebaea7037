// Package postgresdb provides a PostgreSQL-based implementation of the storage interface
// for persisting users and their slideshow projects.
// The schema is managed by goose migrations applied in New.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/patric-chuzhbe/slidr/internal/models"
)

const (
	driverName = "pgx"

	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresDB is a PostgreSQL-backed implementation of the slidr storage.
type PostgresDB struct {
	database          *sqlx.DB
	connectionTimeout time.Duration
}

type initOptions struct {
	DBPreReset bool
}

// projectRow is a project joined with its owner, as read by the project queries.
type projectRow struct {
	ID        int64          `db:"id"`
	Title     sql.NullString `db:"title"`
	Content   sql.NullString `db:"content"`
	UserID    int64          `db:"user_id"`
	FirstName string         `db:"first_name"`
	LastName  string         `db:"last_name"`
	Email     string         `db:"email"`
}

func (r projectRow) toModel() models.Project {
	return models.Project{
		ID:      r.ID,
		Title:   r.Title.String,
		Content: r.Content.String,
		User: &models.User{
			ID:        r.UserID,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
		},
	}
}

const selectProjects = `
	SELECT p.id, p.title, p.content, u.id AS user_id, u.first_name, u.last_name, u.email
		FROM projects p
			JOIN users u ON u.id = p.user_id
`

// New establishes a connection to the PostgreSQL database,
// runs schema migrations, and returns a configured PostgresDB instance.
// Optionally accepts initialization options, such as WithDBPreReset.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
	optionsProto ...InitOption,
) (*PostgresDB, error) {
	options := &initOptions{
		DBPreReset: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	database, err := sqlx.Open(driverName, databaseDSN)
	if err != nil {
		return nil, err
	}

	result := NewWithDB(database.DB, connectionTimeout)

	if options.DBPreReset {
		if err := result.resetDB(ctx); err != nil {
			return nil,
				fmt.Errorf(
					"in internal/db/postgresdb/postgresdb.go/New(): error while `result.resetDB()` calling: %w",
					err,
				)
		}
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.SetDialect()` calling: %w",
				err,
			)
	}

	if err := goose.UpContext(ctx, result.database.DB, migrationsDir); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.UpContext()` calling: %w",
				err,
			)
	}

	return result, nil
}

// NewWithDB wraps an already opened connection pool without running migrations.
func NewWithDB(database *sql.DB, connectionTimeout time.Duration) *PostgresDB {
	return &PostgresDB{
		database:          sqlx.NewDb(database, driverName),
		connectionTimeout: connectionTimeout,
	}
}

// FindUserByEmail returns the user registered with exactly this email.
func (db *PostgresDB) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	usr := &models.User{}
	err := db.database.GetContext(
		ctx,
		usr,
		`SELECT id, first_name, last_name, email, password FROM users WHERE email = $1`,
		email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return usr, nil
}

// FindUserByID fetches a user by its identifier.
func (db *PostgresDB) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	usr := &models.User{}
	err := db.database.GetContext(
		ctx,
		usr,
		`SELECT id, first_name, last_name, email, password FROM users WHERE id = $1`,
		userID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return usr, nil
}

// SaveUser inserts a new user (zero ID) or updates an existing one.
// A unique violation on email is reported as models.ErrDuplicateEmail.
func (db *PostgresDB) SaveUser(ctx context.Context, usr *models.User) (*models.User, error) {
	saved := *usr

	if saved.ID == 0 {
		err := db.database.QueryRowxContext(
			ctx,
			`
				INSERT INTO users (first_name, last_name, email, password)
					VALUES ($1, $2, $3, $4)
					RETURNING id
			`,
			saved.FirstName,
			saved.LastName,
			saved.Email,
			saved.Password,
		).Scan(&saved.ID)
		if err != nil {
			return nil, translateError(err)
		}

		return &saved, nil
	}

	result, err := db.database.ExecContext(
		ctx,
		`
			UPDATE users
				SET first_name = $1, last_name = $2, email = $3, password = $4
				WHERE id = $5
		`,
		saved.FirstName,
		saved.LastName,
		saved.Email,
		saved.Password,
		saved.ID,
	)
	if err != nil {
		return nil, translateError(err)
	}
	if err := expectAffected(result, models.ErrUserNotFound); err != nil {
		return nil, err
	}

	return &saved, nil
}

// DeleteUser removes a user. Owned projects go with it via ON DELETE CASCADE.
func (db *PostgresDB) DeleteUser(ctx context.Context, usr *models.User) error {
	result, err := db.database.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, usr.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectAffected(result, models.ErrUserNotFound)
}

// FindProjectByID fetches a project together with its owner.
func (db *PostgresDB) FindProjectByID(ctx context.Context, projectID int64) (*models.Project, error) {
	row := projectRow{}
	err := db.database.GetContext(ctx, &row, selectProjects+` WHERE p.id = $1`, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrProjectNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	project := row.toModel()

	return &project, nil
}

// FindProjectsByUser lists every project owned by the user.
func (db *PostgresDB) FindProjectsByUser(ctx context.Context, userID int64) ([]models.Project, error) {
	rows := []projectRow{}
	err := db.database.SelectContext(ctx, &rows, selectProjects+` WHERE p.user_id = $1 ORDER BY p.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	result := make([]models.Project, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toModel())
	}

	return result, nil
}

// SaveProject inserts a new project (zero ID) or updates title and content of an existing one.
func (db *PostgresDB) SaveProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	if project.User == nil {
		return nil, models.ErrUserNotFound
	}
	saved := *project

	if saved.ID == 0 {
		err := db.database.QueryRowxContext(
			ctx,
			`INSERT INTO projects (title, content, user_id) VALUES ($1, $2, $3) RETURNING id`,
			saved.Title,
			saved.Content,
			saved.User.ID,
		).Scan(&saved.ID)
		if err != nil {
			return nil, translateError(err)
		}

		return &saved, nil
	}

	result, err := db.database.ExecContext(
		ctx,
		`UPDATE projects SET title = $1, content = $2 WHERE id = $3`,
		saved.Title,
		saved.Content,
		saved.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := expectAffected(result, models.ErrProjectNotFound); err != nil {
		return nil, err
	}

	return &saved, nil
}

// DeleteProject removes a project by its identifier.
func (db *PostgresDB) DeleteProject(ctx context.Context, project *models.Project) error {
	result, err := db.database.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, project.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectAffected(result, models.ErrProjectNotFound)
}

// CountUsers returns the number of registered users.
func (db *PostgresDB) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := db.database.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

// CountProjects returns the number of stored projects.
func (db *PostgresDB) CountProjects(ctx context.Context) (int64, error) {
	var count int64
	if err := db.database.GetContext(ctx, &count, `SELECT COUNT(*) FROM projects`); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

// InitOption defines a functional option for configuring database initialization.
type InitOption func(*initOptions)

// WithDBPreReset enables or disables resetting the database schema before migration.
// It can be used for test setups or development purposes.
func WithDBPreReset(value bool) InitOption {
	return func(options *initOptions) {
		options.DBPreReset = value
	}
}

// Ping verifies connectivity with the PostgreSQL database within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

// Close closes the database connection and releases any associated resources.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}

func (db *PostgresDB) resetDB(ctx context.Context) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			DO $$
			DECLARE
				r RECORD;
			BEGIN
				FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
					EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
				END LOOP;
			END $$;
		`,
	)
	if err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/resetDB(): error while `db.database.ExecContext()` calling: %w",
			err,
		)
	}
	return nil
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return models.ErrDuplicateEmail
		case pgForeignKeyViolation:
			return models.ErrUserNotFound
		}
	}

	return fmt.Errorf("db error: %w", err)
}

func expectAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return notFound
	}

	return nil
}
