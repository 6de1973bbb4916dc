package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/hirebridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/hirebridge-backend/internal/domain"
	"github.com/yungbote/hirebridge-backend/internal/platform/dbctx"
)

func TestUserRepoCreateAndLookup(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewUserRepo(db, testutil.Logger(t))

	created, err := repo.Create(dbc, []*types.User{{Email: " Jane@Example.com ", FullName: "Jane Doe", Password: "hash"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	u := created[0]
	if u.ID == uuid.Nil || u.UserType != types.UserTypeCandidate {
		t.Fatalf("defaults: want id set and user_type=candidate got id=%v type=%q", u.ID, u.UserType)
	}

	rows, err := repo.GetByEmails(dbc, []string{"JANE@example.com"})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByEmails: err=%v len=%d", err, len(rows))
	}
	if rows[0].Email != "jane@example.com" {
		t.Fatalf("email: want=jane@example.com got=%q", rows[0].Email)
	}
	exists, err := repo.EmailExists(dbc, "jane@example.com")
	if err != nil || !exists {
		t.Fatalf("EmailExists: want=true got=%v err=%v", exists, err)
	}
	if _, err := repo.Create(dbc, []*types.User{{Email: "jane@example.com"}}); err == nil {
		t.Fatalf("Create duplicate email: expected error, got nil")
	}
}

func TestUserRepoUpsertMirrorsIdentity(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	repo := NewUserRepo(db, testutil.Logger(t))

	id := uuid.New()
	if err := repo.Upsert(dbc, &types.User{ID: id, Email: "hr-" + id.String() + "@example.com", FullName: "Old", UserType: types.UserTypeHR}); err != nil {
		t.Fatalf("Upsert(insert): %v", err)
	}
	company := "Acme"
	if err := repo.Upsert(dbc, &types.User{ID: id, Email: "hr-" + id.String() + "@example.com", FullName: "Harper", UserType: types.UserTypeHR, Company: &company}); err != nil {
		t.Fatalf("Upsert(update): %v", err)
	}
	rows, err := repo.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows[0].FullName != "Harper" || rows[0].Company == nil || *rows[0].Company != "Acme" {
		t.Fatalf("upserted user: want Harper/Acme got=%+v", rows[0])
	}
}
