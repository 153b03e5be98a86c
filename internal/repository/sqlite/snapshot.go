package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/socialhub/internal/apperror"
	"github.com/sakif/socialhub/internal/model"
	"github.com/sakif/socialhub/internal/repository"
)

// compile-time check that *DB implements repository.StateGateway
var _ repository.StateGateway = (*DB)(nil)

// Save replaces the stored snapshot with state.
//
// INSERT ... ON CONFLICT DO UPDATE keeps the row (and its rowid) and only
// rewrites data and saved_at, unlike INSERT OR REPLACE which deletes first.
func (db *DB) Save(ctx context.Context, state *model.State) error {
	data, err := repository.EncodeState(state)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO snapshots (name, data, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		db.name,
		string(data),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving snapshot %s: %w", db.name, err)
	}
	return nil
}

// Load reads the stored snapshot. It returns an apperror.ErrNotFound error
// when nothing has been saved yet, which the caller treats as "start empty".
func (db *DB) Load(ctx context.Context) (*model.State, error) {
	var data string
	err := db.conn.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE name = ?`, db.name,
	).Scan(&data)
	if err != nil {
		// database/sql doesn't wrap ErrNoRows, so == is enough.
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snapshot", db.name)
		}
		return nil, fmt.Errorf("sqlite: loading snapshot %s: %w", db.name, err)
	}

	state, err := repository.DecodeState([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return state, nil
}
