// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"

	"github.com/voteledger/roundvote/models"
)

// Results tallies a round: one row per option, zero-vote options included,
// ordered by votes descending then option creation order. The tally is a
// single statement, so it reads one committed snapshot.
func (s *Store) Results(ctx context.Context, roundID string) ([]models.OptionResult, error) {
	if _, err := s.GetRound(ctx, roundID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.label, COUNT(v.id) AS votes
		FROM options o
		LEFT JOIN votes v ON v.option_id = o.id AND v.round_id = o.round_id
		WHERE o.round_id = $1
		GROUP BY o.id, o.label, o.position
		ORDER BY votes DESC, o.position ASC
	`, roundID)
	if err != nil {
		return nil, storageErr("tally round", err)
	}
	defer rows.Close()

	results := []models.OptionResult{}
	for rows.Next() {
		var r models.OptionResult
		if err := rows.Scan(&r.OptionID, &r.Label, &r.Votes); err != nil {
			return nil, storageErr("scan tally", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("tally round", err)
	}
	return results, nil
}
