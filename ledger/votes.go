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

// RecordVote is the only way a vote enters the ledger. Round state, option
// membership and voter uniqueness are checked and the row inserted inside
// one transaction:
//
//  1. round must exist (ErrRoundNotFound)
//  2. round must be open (ErrRoundClosed)
//  3. option must belong to the round (ErrOptionNotFound)
//  4. a non-empty voterID must not have voted in the round (ErrDuplicateVote)
//
// The round row is read with a share lock on Postgres, so a concurrent
// close either lands before the read or waits for this commit.
// Uniqueness is enforced by idx_votes_round_voter; the pre-check only
// avoids a doomed insert, and a violation at insert or commit time is
// still reported as ErrDuplicateVote.
func (s *Store) RecordVote(ctx context.Context, roundID, optionID, voterID string) (models.VoteReceipt, error) {
	var receipt models.VoteReceipt

	err := s.withTx(ctx, "record vote", func(tx *sql.Tx) error {
		var (
			name    string
			endedAt sql.NullTime
		)
		err := tx.QueryRowContext(ctx, `
			SELECT name, ended_at
			FROM rounds
			WHERE id = $1`+s.roundLock(), roundID).Scan(&name, &endedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoundNotFound
		}
		if err != nil {
			return storageErr("read round", err)
		}
		if endedAt.Valid {
			return ErrRoundClosed
		}

		opt, err := getOption(ctx, tx, optionID, roundID)
		if err != nil {
			return err
		}

		if voterID != "" {
			var exists bool
			err := tx.QueryRowContext(ctx, `
				SELECT EXISTS(
					SELECT 1 FROM votes
					WHERE round_id = $1 AND voter_id = $2
				)
			`, roundID, voterID).Scan(&exists)
			if err != nil {
				return storageErr("check voter", err)
			}
			if exists {
				return ErrDuplicateVote
			}
		}

		vote := models.Vote{
			ID:        uuid.NewString(),
			RoundID:   roundID,
			OptionID:  opt.ID,
			VoterID:   voterID,
			CreatedAt: s.now(),
		}
		if err := insertVote(ctx, tx, vote); err != nil {
			return err
		}

		receipt = models.VoteReceipt{
			Vote:        vote,
			RoundName:   name,
			OptionLabel: opt.Label,
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return models.VoteReceipt{}, ErrDuplicateVote
		}
		return models.VoteReceipt{}, err
	}

	return receipt, nil
}

// insertVote appends a row, translating a unique violation on
// (round_id, voter_id) into ErrDuplicateVote.
func insertVote(ctx context.Context, tx *sql.Tx, vote models.Vote) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO votes (id, round_id, option_id, voter_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, vote.ID, vote.RoundID, vote.OptionID, nullable(vote.VoterID), vote.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateVote
		}
		return storageErr("insert vote", err)
	}
	return nil
}

// CountVotes returns the number of committed votes in a round
func (s *Store) CountVotes(ctx context.Context, roundID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM votes WHERE round_id = $1
	`, roundID).Scan(&count)
	if err != nil {
		return 0, storageErr("count votes", err)
	}
	return count, nil
}
