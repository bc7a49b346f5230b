package card

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	carddomain "hospital-admin-go/internal/domain/card"
	"hospital-admin-go/internal/repository/postgres/pgtest"
)

func TestCreateCardMapsUniqueViolation(t *testing.T) {
	db, mock := pgtest.New(t)
	repo := NewPostgres(db)

	mock.ExpectExec(`INSERT INTO "cards"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.CreateCard(context.Background(), &carddomain.Card{ID: "c1", SoThe: "THE-001", TrangThai: carddomain.CardAvailable})
	assert.ErrorIs(t, err, carddomain.ErrCardExists)
}

func TestSetCardStatusLeavesLostCards(t *testing.T) {
	db, mock := pgtest.New(t)
	repo := NewPostgres(db)

	mock.ExpectExec(`UPDATE "cards" SET .* WHERE so_the = \$\d+ AND trang_thai <> \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetCardStatus(context.Background(), "THE-001", carddomain.CardBorrowed))
}

func TestListActiveRecordsFiltersBorrowing(t *testing.T) {
	db, mock := pgtest.New(t)
	repo := NewPostgres(db)

	mock.ExpectQuery(`SELECT \* FROM "card_records" WHERE trang_thai = \$1 ORDER BY ngay_muon desc`).
		WithArgs(carddomain.RecordBorrowing).
		WillReturnRows(sqlmock.NewRows([]string{"id", "so_the", "ten_benh_nhan", "trang_thai"}).
			AddRow("r1", "THE-001", "Nguyễn Văn A", carddomain.RecordBorrowing))

	records, err := repo.ListActiveRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "THE-001", records[0].SoThe)
}

func TestUpdateRecordsHandoverSingleStatement(t *testing.T) {
	db, mock := pgtest.New(t)
	repo := NewPostgres(db)

	mock.ExpectExec(`UPDATE "card_records" SET .*"trang_thai_tien_tra"=.* WHERE id IN \(\$\d+,\$\d+,\$\d+\)`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	updated, err := repo.UpdateRecordsHandover(context.Background(), []string{"a", "b", "c"}, map[string]interface{}{
		"trang_thai_tien_tra":     carddomain.HandoverDone,
		"nguoi_ban_giao_tien_tra": "thu ngân",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, updated)
}

func TestCountActiveBorrowsExcludesRecord(t *testing.T) {
	db, mock := pgtest.New(t)
	repo := NewPostgres(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "card_records" WHERE \(so_the = \$1 AND trang_thai = \$2\) AND id <> \$3`).
		WithArgs("THE-001", carddomain.RecordBorrowing, "r1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountActiveBorrows(context.Background(), "THE-001", "r1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "card_records" WHERE so_the = \$1 AND trang_thai = \$2$`).
		WithArgs("THE-002", carddomain.RecordBorrowing).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	count, err = repo.CountActiveBorrows(context.Background(), "THE-002", "")
	require.NoError(t, err)
	assert.Zero(t, count)
}
