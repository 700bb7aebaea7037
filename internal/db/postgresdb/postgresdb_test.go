package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/slidr/internal/models"
)

var (
	userColumns    = []string{"id", "first_name", "last_name", "email", "password"}
	projectColumns = []string{"id", "title", "content", "user_id", "first_name", "last_name", "email"}
)

func newDBWithMock(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close()
	})

	return NewWithDB(database, time.Second), mock
}

func TestFindUserByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newDBWithMock(t)
		mock.ExpectQuery(`SELECT id, first_name, last_name, email, password FROM users WHERE email = \$1`).
			WithArgs("a@x.com").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "Ada", "Lovelace", "a@x.com", "p1"))

		usr, err := db.FindUserByEmail(context.Background(), "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, &models.User{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "a@x.com", Password: "p1"}, usr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newDBWithMock(t)
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("nobody@x.com").
			WillReturnError(sql.ErrNoRows)

		usr, err := db.FindUserByEmail(context.Background(), "nobody@x.com")
		assert.Nil(t, usr)
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})

	t.Run("driver fault", func(t *testing.T) {
		db, mock := newDBWithMock(t)
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WillReturnError(errors.New("connection refused"))

		_, err := db.FindUserByEmail(context.Background(), "a@x.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestFindUserByID(t *testing.T) {
	db, mock := newDBWithMock(t)
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := db.FindUserByID(context.Background(), 7)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveUser(t *testing.T) {
	t.Run("insert returns generated id", func(t *testing.T) {
		db, mock := newDBWithMock(t)
		mock.ExpectQuery(`INSERT INTO users \(first_name, last_name, email, password\)`).
			WithArgs("Ada", "Lovelace", "a@x.com", "p1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		usr, err := db.SaveUser(context.Background(), &models.User{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "a@x.com",
			Password:  "p1",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), usr.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation", func(t *testing.T) {
		db, mock := newDBWithMock(t)
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

		_, err := db.SaveUser(context.Background(), &models.User{Email: "a@x.com"})
		assert.ErrorIs(t, err, models.ErrDuplicateEmail)
	})

	t.Run("update of missing user", func(t *testing.T) {
		db, mock := newDBWithMock(t)
		mock.ExpectExec(`UPDATE users`).
			WithArgs("Ada", "Lovelace", "a@x.com", "p1", int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := db.SaveUser(context.Background(), &models.User{
			ID:        3,
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "a@x.com",
			Password:  "p1",
		})
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestDeleteUser(t *testing.T) {
	db, mock := newDBWithMock(t)
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, db.DeleteUser(context.Background(), &models.User{ID: 1}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindProjectByID(t *testing.T) {
	t.Run("found with owner", func(t *testing.T) {
		db, mock := newDBWithMock(t)
		mock.ExpectQuery(`FROM projects p\s+JOIN users u ON u.id = p.user_id\s+WHERE p.id = \$1`).
			WithArgs(int64(10)).
			WillReturnRows(
				sqlmock.NewRows(projectColumns).AddRow(10, "Deck", "{}", 1, "Ada", "Lovelace", "a@x.com"),
			)

		project, err := db.FindProjectByID(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, int64(10), project.ID)
		assert.Equal(t, "Deck", project.Title)
		assert.Equal(t, "{}", project.Content)
		require.NotNil(t, project.User)
		assert.Equal(t, int64(1), project.User.ID)
		assert.Empty(t, project.User.Password)
	})

	t.Run("null title and content", func(t *testing.T) {
		db, mock := newDBWithMock(t)
		mock.ExpectQuery(`WHERE p.id = \$1`).
			WillReturnRows(
				sqlmock.NewRows(projectColumns).AddRow(11, nil, nil, 1, "Ada", "Lovelace", "a@x.com"),
			)

		project, err := db.FindProjectByID(context.Background(), 11)
		require.NoError(t, err)
		assert.Empty(t, project.Title)
		assert.Empty(t, project.Content)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newDBWithMock(t)
		mock.ExpectQuery(`WHERE p.id = \$1`).WillReturnRows(sqlmock.NewRows(projectColumns))

		_, err := db.FindProjectByID(context.Background(), 99)
		assert.ErrorIs(t, err, models.ErrProjectNotFound)
	})
}

func TestFindProjectsByUser(t *testing.T) {
	db, mock := newDBWithMock(t)
	mock.ExpectQuery(`WHERE p.user_id = \$1 ORDER BY p.id`).
		WithArgs(int64(1)).
		WillReturnRows(
			sqlmock.NewRows(projectColumns).
				AddRow(10, "Deck", "{}", 1, "Ada", "Lovelace", "a@x.com").
				AddRow(12, "Other", "[]", 1, "Ada", "Lovelace", "a@x.com"),
		)

	projects, err := db.FindProjectsByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Other", projects[1].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveProject(t *testing.T) {
	owner := &models.User{ID: 1}

	t.Run("insert", func(t *testing.T) {
		db, mock := newDBWithMock(t)
		mock.ExpectQuery(`INSERT INTO projects \(title, content, user_id\)`).
			WithArgs("Deck", "{}", int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))

		project, err := db.SaveProject(context.Background(), &models.Project{Title: "Deck", Content: "{}", User: owner})
		require.NoError(t, err)
		assert.Equal(t, int64(10), project.ID)
		assert.Same(t, owner, project.User)
	})

	t.Run("insert for missing owner", func(t *testing.T) {
		db, mock := newDBWithMock(t)
		mock.ExpectQuery(`INSERT INTO projects`).
			WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})

		_, err := db.SaveProject(context.Background(), &models.Project{Title: "Deck", User: &models.User{ID: 5}})
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})

	t.Run("update", func(t *testing.T) {
		db, mock := newDBWithMock(t)
		mock.ExpectExec(`UPDATE projects SET title = \$1, content = \$2 WHERE id = \$3`).
			WithArgs("Deck", `{"slides":[]}`, int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		project, err := db.SaveProject(context.Background(), &models.Project{
			ID:      10,
			Title:   "Deck",
			Content: `{"slides":[]}`,
			User:    owner,
		})
		require.NoError(t, err)
		assert.Equal(t, `{"slides":[]}`, project.Content)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without owner", func(t *testing.T) {
		db, _ := newDBWithMock(t)

		_, err := db.SaveProject(context.Background(), &models.Project{Title: "Deck"})
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestDeleteProject(t *testing.T) {
	db, mock := newDBWithMock(t)
	mock.ExpectExec(`DELETE FROM projects WHERE id = \$1`).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := db.DeleteProject(context.Background(), &models.Project{ID: 10})
	assert.ErrorIs(t, err, models.ErrProjectNotFound)
}

func TestCounts(t *testing.T) {
	db, mock := newDBWithMock(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM projects`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))

	users, err := db.CountUsers(context.Background())
	require.NoError(t, err)
	projects, err := db.CountProjects(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), users)
	assert.Equal(t, int64(8), projects)
}
