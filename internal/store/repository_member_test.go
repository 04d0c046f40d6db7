package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/models"
)

var memberColumns = []string{
	"member_id", "first_name", "last_name", "email", "phone", "joined_at", "notes", "created_at",
}

func newTestMemberRepo(t *testing.T) (*memberRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &memberRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func TestCreateMember_Success(t *testing.T) {
	repo, mock, db := newTestMemberRepo(t)
	defer db.Close()

	now := time.Now()
	joined := now.Add(-30 * 24 * time.Hour)

	mock.ExpectQuery("INSERT INTO members").
		WithArgs("Grace", "Hopper", "grace@example.org", "+1 555 1234", &joined, "").
		WillReturnRows(sqlmock.NewRows(memberColumns).
			AddRow(int64(11), "Grace", "Hopper", "grace@example.org", "+1 555 1234", joined, "", now))

	created, err := repo.CreateMember(context.Background(), models.Member{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.org",
		Phone:     "+1 555 1234",
		JoinedAt:  &joined,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.MemberID != 11 {
		t.Errorf("expected MemberID=11, got %d", created.MemberID)
	}
}

func TestFindMemberByID_NotFound(t *testing.T) {
	repo, mock, db := newTestMemberRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM members").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindMemberByID(context.Background(), 99)
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestListMembers_Success(t *testing.T) {
	repo, mock, db := newTestMemberRepo(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM members").
		WillReturnRows(sqlmock.NewRows(memberColumns).
			AddRow(int64(1), "Ada", "Lovelace", "", "", nil, "", now).
			AddRow(int64(2), "Grace", "Hopper", "", "", nil, "", now))

	members, err := repo.ListMembers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].LastName != "Lovelace" {
		t.Errorf("expected Lovelace first, got %s", members[0].LastName)
	}
	if members[0].JoinedAt != nil {
		t.Errorf("expected nil JoinedAt, got %v", members[0].JoinedAt)
	}
}

func TestUpdateMember_OnlyTouchedColumns(t *testing.T) {
	repo, mock, db := newTestMemberRepo(t)
	defer db.Close()

	firstName := "Ada"
	notes := "transferred from st. mary"

	// Only the set fields appear in the statement, in builder order.
	mock.ExpectExec(`UPDATE members SET first_name = \$1, notes = \$2 WHERE member_id = \$3`).
		WithArgs("Ada", notes, int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateMember(context.Background(), models.MemberUpdate{
		MemberID:  11,
		FirstName: &firstName,
		Notes:     &notes,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateMember_NoFields(t *testing.T) {
	repo, _, db := newTestMemberRepo(t)
	defer db.Close()

	err := repo.UpdateMember(context.Background(), models.MemberUpdate{MemberID: 11})
	if !errors.Is(err, ErrBuildingSQLQuery) {
		t.Errorf("expected ErrBuildingSQLQuery, got %v", err)
	}
}

func TestUpdateMember_NotFound(t *testing.T) {
	repo, mock, db := newTestMemberRepo(t)
	defer db.Close()

	email := "new@example.org"

	mock.ExpectExec("UPDATE members").
		WithArgs(email, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateMember(context.Background(), models.MemberUpdate{MemberID: 99, Email: &email})
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestDeleteMember_Success(t *testing.T) {
	repo, mock, db := newTestMemberRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM members").
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteMember(context.Background(), 11); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteMember_NotFound(t *testing.T) {
	repo, mock, db := newTestMemberRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM members").
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteMember(context.Background(), 99)
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound, got %v", err)
	}
}
