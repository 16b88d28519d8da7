package relationship

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const sqlStateUniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

// NewRepository creates a Postgres-backed relationship repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateFriendship(ctx context.Context, f *Friendship) error {
	query := `
		INSERT INTO friendships (id, pair_key, user_a, user_b, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (pair_key) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		f.ID, f.PairKey, f.UserA, f.UserB, f.Status, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyRelated
		}
		return wrapStoreErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return wrapStoreErr(err)
	}
	if affected == 0 {
		// Another record for the pair won the insert, possibly a concurrent
		// request in the opposite direction.
		return ErrAlreadyRelated
	}
	return nil
}

func (r *repository) GetFriendship(ctx context.Context, id uuid.UUID) (*Friendship, error) {
	var f Friendship
	query := `SELECT * FROM friendships WHERE id = $1`
	if err := r.db.GetContext(ctx, &f, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapStoreErr(err)
	}
	return &f, nil
}

func (r *repository) GetFriendshipByPair(ctx context.Context, a, b uuid.UUID) (*Friendship, error) {
	var f Friendship
	query := `SELECT * FROM friendships WHERE pair_key = $1`
	if err := r.db.GetContext(ctx, &f, query, PairKey(a, b)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapStoreErr(err)
	}
	return &f, nil
}

func (r *repository) UpdateFriendshipStatus(ctx context.Context, id uuid.UUID, status FriendshipStatus) error {
	query := `UPDATE friendships SET status = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return wrapStoreErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return wrapStoreErr(err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) DeleteFriendship(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM friendships WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (r *repository) ListAccepted(ctx context.Context, userID uuid.UUID) ([]*Friendship, error) {
	query := `
		SELECT * FROM friendships
		WHERE status = 'accepted' AND (user_a = $1 OR user_b = $1)
		ORDER BY updated_at DESC
	`
	var out []*Friendship
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, wrapStoreErr(err)
	}
	return out, nil
}

func (r *repository) ListPendingReceived(ctx context.Context, userID uuid.UUID) ([]*Friendship, error) {
	query := `
		SELECT * FROM friendships
		WHERE status = 'pending' AND user_b = $1
		ORDER BY created_at DESC
	`
	var out []*Friendship
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, wrapStoreErr(err)
	}
	return out, nil
}

func (r *repository) ListPendingSent(ctx context.Context, userID uuid.UUID) ([]*Friendship, error) {
	query := `
		SELECT * FROM friendships
		WHERE status = 'pending' AND user_a = $1
		ORDER BY created_at DESC
	`
	var out []*Friendship
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, wrapStoreErr(err)
	}
	return out, nil
}

func (r *repository) CreateBlock(ctx context.Context, b *Block) error {
	// The cascade (drop the friendship, then record the block) runs in one
	// transaction here because Postgres has one. Each statement is
	// individually idempotent, so a store without transactions would still
	// converge after a retry.
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapStoreErr(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM friendships WHERE pair_key = $1`,
		PairKey(b.BlockerID, b.BlockedID)); err != nil {
		return wrapStoreErr(err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO blocks (id, blocker_id, blocked_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (blocker_id, blocked_id) DO NOTHING
	`, b.ID, b.BlockerID, b.BlockedID, b.CreatedAt); err != nil {
		return wrapStoreErr(err)
	}

	if err := tx.Commit(); err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (r *repository) DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	query := `DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2`
	if _, err := r.db.ExecContext(ctx, query, blockerID, blockedID); err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (r *repository) BlockExists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM blocks
			WHERE (blocker_id = $1 AND blocked_id = $2)
			   OR (blocker_id = $2 AND blocked_id = $1)
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, a, b); err != nil {
		return false, wrapStoreErr(err)
	}
	return exists, nil
}

func (r *repository) ListBlocks(ctx context.Context, blockerID uuid.UUID) ([]*Block, error) {
	query := `SELECT * FROM blocks WHERE blocker_id = $1 ORDER BY created_at DESC`
	var out []*Block
	if err := r.db.SelectContext(ctx, &out, query, blockerID); err != nil {
		return nil, wrapStoreErr(err)
	}
	return out, nil
}

func (r *repository) ListBlockedEither(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT CASE WHEN blocker_id = $1 THEN blocked_id ELSE blocker_id END
		FROM blocks
		WHERE blocker_id = $1 OR blocked_id = $1
	`
	var out []uuid.UUID
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, wrapStoreErr(err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == sqlStateUniqueViolation
}

func wrapStoreErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
