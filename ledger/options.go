// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"

	"github.com/voteledger/roundvote/models"
)

// ListOptions returns a round's options in creation order
func (s *Store) ListOptions(ctx context.Context, roundID string) ([]models.Option, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, round_id, label, position
		FROM options
		WHERE round_id = $1
		ORDER BY position
	`, roundID)
	if err != nil {
		return nil, storageErr("list options", err)
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.RoundID, &opt.Label, &opt.Position); err != nil {
			return nil, storageErr("scan option", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list options", err)
	}
	return options, nil
}

// GetOption returns the option only if it belongs to roundID. An option
// that exists under another round is ErrOptionNotFound.
func (s *Store) GetOption(ctx context.Context, id, roundID string) (models.Option, error) {
	return getOption(ctx, s.db, id, roundID)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getOption(ctx context.Context, q queryRower, id, roundID string) (models.Option, error) {
	var opt models.Option
	err := q.QueryRowContext(ctx, `
		SELECT id, round_id, label, position
		FROM options
		WHERE id = $1 AND round_id = $2
	`, id, roundID).Scan(&opt.ID, &opt.RoundID, &opt.Label, &opt.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Option{}, ErrOptionNotFound
	}
	if err != nil {
		return models.Option{}, storageErr("get option", err)
	}
	return opt, nil
}
