// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/voteledger/roundvote/models"
)

// CreateRound inserts a round and its options in one transaction; either
// all rows persist or none do.
func (s *Store) CreateRound(ctx context.Context, name string, labels []string) (models.Round, []models.Option, error) {
	if len(labels) == 0 {
		return models.Round{}, nil, ErrInvalidInput
	}

	round := models.Round{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: s.now(),
	}
	options := make([]models.Option, 0, len(labels))

	err := s.withTx(ctx, "create round", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rounds (id, name, created_at)
			VALUES ($1, $2, $3)
		`, round.ID, round.Name, round.CreatedAt)
		if err != nil {
			return storageErr("insert round", err)
		}

		for i, label := range labels {
			opt := models.Option{
				ID:       uuid.NewString(),
				RoundID:  round.ID,
				Label:    label,
				Position: i,
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO options (id, round_id, label, position)
				VALUES ($1, $2, $3, $4)
			`, opt.ID, opt.RoundID, opt.Label, opt.Position)
			if err != nil {
				return storageErr("insert option", err)
			}
			options = append(options, opt)
		}
		return nil
	})
	if err != nil {
		return models.Round{}, nil, err
	}

	return round, options, nil
}

// GetRound returns the round or ErrRoundNotFound
func (s *Store) GetRound(ctx context.Context, id string) (models.Round, error) {
	round, err := scanRound(s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, ended_at
		FROM rounds
		WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Round{}, ErrRoundNotFound
	}
	if err != nil {
		return models.Round{}, storageErr("get round", err)
	}
	return round, nil
}

// CloseRound sets ended_at if it is still NULL. It reports whether this
// call performed the transition; closing a closed round is not an error.
func (s *Store) CloseRound(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE rounds
		SET ended_at = $1
		WHERE id = $2 AND ended_at IS NULL
	`, s.now(), id)
	if err != nil {
		return false, storageErr("close round", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("close round", err)
	}
	if n == 1 {
		return true, nil
	}

	// Nothing updated: either already closed or never existed
	if _, err := s.GetRound(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// ListOpenRounds returns every round that has not been closed, oldest first
func (s *Store) ListOpenRounds(ctx context.Context) ([]models.Round, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, ended_at
		FROM rounds
		WHERE ended_at IS NULL
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, storageErr("list open rounds", err)
	}
	defer rows.Close()

	rounds := []models.Round{}
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, storageErr("scan round", err)
		}
		rounds = append(rounds, round)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list open rounds", err)
	}
	return rounds, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRound(row rowScanner) (models.Round, error) {
	var (
		round   models.Round
		endedAt sql.NullTime
	)
	if err := row.Scan(&round.ID, &round.Name, &round.CreatedAt, &endedAt); err != nil {
		return models.Round{}, err
	}
	round.CreatedAt = round.CreatedAt.UTC()
	if endedAt.Valid {
		t := endedAt.Time.UTC()
		round.EndedAt = &t
	}
	return round, nil
}
