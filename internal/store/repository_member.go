package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/models"
)

// memberRepository is the PostgreSQL-backed implementation of
// [MemberRepository] for the congregation directory.
type memberRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewMemberRepository constructs a [MemberRepository] backed by the
// provided database connection and logger.
func NewMemberRepository(db *DB, logger *logger.Logger) MemberRepository {
	logger.Debug().Msg("creating member repository")
	return &memberRepository{
		db:     db,
		logger: logger,
	}
}

// CreateMember persists a new directory record and returns it with
// server-assigned fields (MemberID, CreatedAt).
func (r *memberRepository) CreateMember(ctx context.Context, member models.Member) (models.Member, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createMember,
		member.FirstName, member.LastName, member.Email, member.Phone, member.JoinedAt, member.Notes)

	var created models.Member
	if err := row.Scan(
		&created.MemberID, &created.FirstName, &created.LastName, &created.Email,
		&created.Phone, &created.JoinedAt, &created.Notes, &created.CreatedAt,
	); err != nil {
		log.Err(err).Str("func", "*memberRepository.CreateMember").Msg("error: member insert failed")
		return models.Member{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return created, nil
}

// FindMemberByID retrieves one directory record.
//
// Returns [ErrMemberNotFound] when no row matches.
func (r *memberRepository) FindMemberByID(ctx context.Context, memberID int64) (models.Member, error) {
	log := logger.FromContext(ctx)

	var member models.Member
	row := r.db.QueryRowContext(ctx, findMemberByID, memberID)
	if err := row.Scan(
		&member.MemberID, &member.FirstName, &member.LastName, &member.Email,
		&member.Phone, &member.JoinedAt, &member.Notes, &member.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Member{}, ErrMemberNotFound
		}
		log.Err(err).Str("func", "*memberRepository.FindMemberByID").Msg("error: scanning member row")
		return models.Member{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return member, nil
}

// ListMembers returns the whole directory ordered by name.
func (r *memberRepository) ListMembers(ctx context.Context) ([]models.Member, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listMembers)
	if err != nil {
		log.Err(err).Str("func", "*memberRepository.ListMembers").Msg("error: member list query failed")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var member models.Member
		if err := rows.Scan(
			&member.MemberID, &member.FirstName, &member.LastName, &member.Email,
			&member.Phone, &member.JoinedAt, &member.Notes, &member.CreatedAt,
		); err != nil {
			log.Err(err).Str("func", "*memberRepository.ListMembers").Msg("error: scanning member rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return members, nil
}

// UpdateMember applies a partial update built from the non-nil fields of
// the given [models.MemberUpdate]. The UPDATE statement is assembled with
// squirrel so only touched columns appear in the SET clause.
//
// Returns [ErrBuildingSQLQuery] if no fields are set and
// [ErrMemberNotFound] if the record does not exist.
func (r *memberRepository) UpdateMember(ctx context.Context, update models.MemberUpdate) error {
	log := logger.FromContext(ctx)

	builder := sq.Update("members").PlaceholderFormat(sq.Dollar)

	touched := false
	if update.FirstName != nil {
		builder = builder.Set("first_name", *update.FirstName)
		touched = true
	}
	if update.LastName != nil {
		builder = builder.Set("last_name", *update.LastName)
		touched = true
	}
	if update.Email != nil {
		builder = builder.Set("email", *update.Email)
		touched = true
	}
	if update.Phone != nil {
		builder = builder.Set("phone", *update.Phone)
		touched = true
	}
	if update.JoinedAt != nil {
		builder = builder.Set("joined_at", *update.JoinedAt)
		touched = true
	}
	if update.Notes != nil {
		builder = builder.Set("notes", *update.Notes)
		touched = true
	}

	if !touched {
		return ErrBuildingSQLQuery
	}

	query, args, err := builder.Where(sq.Eq{"member_id": update.MemberID}).ToSql()
	if err != nil {
		log.Err(err).Str("func", "*memberRepository.UpdateMember").Msg("error: building member update")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*memberRepository.UpdateMember").Msg("error: member update failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if affected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// DeleteMember removes one directory record.
//
// Returns [ErrMemberNotFound] when no row matches.
func (r *memberRepository) DeleteMember(ctx context.Context, memberID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteMember, memberID)
	if err != nil {
		log.Err(err).Str("func", "*memberRepository.DeleteMember").Msg("error: member delete failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if affected == 0 {
		return ErrMemberNotFound
	}

	return nil
}
