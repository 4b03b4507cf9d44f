package view

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/datagate-io/datagate/pkg/apperr"
	"github.com/datagate-io/datagate/pkg/pg"
)

// Store fetches view definitions by id. Definitions are durable; every view
// execution re-fetches, there is no caching.
type Store interface {
	GetViewDefinition(ctx context.Context, id string) (*Definition, error)
}

// PGStore reads view definitions from the view_definitions table, where the
// join chain and allowlist are stored as JSONB.
type PGStore struct {
	conn pg.Conn
}

func NewPGStore(conn pg.Conn) *PGStore {
	return &PGStore{conn: conn}
}

func (s *PGStore) GetViewDefinition(ctx context.Context, id string) (*Definition, error) {
	const q = `SELECT id, name, COALESCE(description, ''), is_public, join_definition, allowed_filters
		FROM view_definitions WHERE id = $1`

	var def Definition
	var joinsRaw, filtersRaw []byte

	err := s.conn.QueryRow(ctx, q, id).Scan(
		&def.ID, &def.Name, &def.Description, &def.IsPublic, &joinsRaw, &filtersRaw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.ViewNotFound, "view", "view %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching view %q: %w", id, err)
	}

	if err := json.Unmarshal(joinsRaw, &def.JoinDefinition); err != nil {
		return nil, fmt.Errorf("decoding join definition of view %q: %w", id, err)
	}
	if len(filtersRaw) > 0 {
		if err := json.Unmarshal(filtersRaw, &def.AllowedFilters); err != nil {
			return nil, fmt.Errorf("decoding allowed filters of view %q: %w", id, err)
		}
	}

	return &def, nil
}
