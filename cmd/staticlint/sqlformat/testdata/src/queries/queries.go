package queries

import (
	"context"
	"fmt"
)

type db struct{}

func (db) ExecContext(ctx context.Context, query string, args ...interface{}) error {
	return nil
}

func (db) QueryRowContext(ctx context.Context, query string, args ...interface{}) error {
	return nil
}

func (db) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return nil
}

func (db) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return nil
}

const projectsTable = "projects"

func queries(ctx context.Context, d db, email string, id int64) {
	_ = d.ExecContext(ctx, "DELETE FROM users WHERE email = $1", email)
	_ = d.ExecContext(ctx, fmt.Sprintf("DELETE FROM users WHERE email = '%s'", email)) // want `query passed to ExecContext is built with fmt.Sprintf`
	_ = d.QueryRowContext(ctx, "SELECT id FROM users WHERE email = '"+email+"'")       // want `query passed to QueryRowContext is built by string concatenation`
	_ = d.QueryRowContext(ctx, "SELECT id FROM "+projectsTable+" WHERE id = $1", id)

	var ids []int64
	_ = d.SelectContext(ctx, &ids, fmt.Sprintf("SELECT id FROM %s", projectsTable)) // want `query passed to SelectContext is built with fmt.Sprintf`
	_ = d.GetContext(ctx, &id, "SELECT count(*) FROM projects")
}
