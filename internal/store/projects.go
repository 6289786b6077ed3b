package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// ErrNotFound is returned when a named project does not exist.
var ErrNotFound = errors.New("project not found")

// ProjectInfo describes one saved project without its payload.
type ProjectInfo struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const timeLayout = "2006-01-02T15:04:05Z"

// normalizeName canonicalizes a user-supplied project name to NFC so that
// visually identical names hit the same row regardless of how the input
// method composed them.
func normalizeName(name string) string {
	return norm.NFC.String(name)
}

// Save upserts a project payload under the given name and returns the
// project id. An existing project with the same (normalized) name is
// overwritten.
func (s *Store) Save(ctx context.Context, name string, data []byte) (string, error) {
	name = normalizeName(name)
	id := uuid.Must(uuid.NewV7()).String()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, data)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`,
		id, name, data,
	)
	if err != nil {
		return "", fmt.Errorf("save project %q: %w", name, err)
	}

	// The upsert keeps the original id on conflict; read it back.
	var storedID string
	if err := s.db.QueryRowContext(ctx,
		`SELECT id FROM projects WHERE name = ?`, name,
	).Scan(&storedID); err != nil {
		return "", fmt.Errorf("read back project %q: %w", name, err)
	}
	return storedID, nil
}

// Load returns the payload saved under name.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	name = normalizeName(name)

	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM projects WHERE name = ?`, name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load project %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load project %q: %w", name, err)
	}
	return data, nil
}

// List returns all saved projects, most recently updated first.
func (s *Store) List(ctx context.Context) ([]ProjectInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM projects
		ORDER BY updated_at DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var infos []ProjectInfo
	for rows.Next() {
		var info ProjectInfo
		var created, updated string
		if err := rows.Scan(&info.ID, &info.Name, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		if info.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		if info.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
			return nil, fmt.Errorf("parse updated_at: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes the project saved under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	name = normalizeName(name)

	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete project %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete project %q: %w", name, ErrNotFound)
	}
	return nil
}
