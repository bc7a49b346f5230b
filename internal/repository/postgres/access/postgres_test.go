package access

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	accessdomain "hospital-admin-go/internal/domain/access"
	"hospital-admin-go/internal/repository/postgres/pgtest"
)

func TestUpsertPermissionsOnConflict(t *testing.T) {
	db, mock := pgtest.New(t)
	repo := NewPostgres(db)

	mock.ExpectExec(`INSERT INTO "role_permissions" .* ON CONFLICT \("role","module_id"\) DO UPDATE SET "can_view"="excluded"."can_view"`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.UpsertPermissions(context.Background(), []accessdomain.Permission{
		{Role: "user", ModuleID: "cards", CanView: true},
		{Role: "user", ModuleID: "leave", CanView: true, CanCreate: true},
	})
	require.NoError(t, err)
}
