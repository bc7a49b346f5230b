package research

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	researchdomain "hospital-admin-go/internal/domain/research"
	"hospital-admin-go/internal/repository/postgres/pgtest"
)

func TestListTopicsCountsThenPages(t *testing.T) {
	db, mock := pgtest.New(t)
	repo := NewPostgres(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "research_topics" LEFT JOIN employees .* WHERE research_topics.ten_de_tai ILIKE \$1 OR employees.ho_ten ILIKE \$2`).
		WithArgs("%ai%", "%ai%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT research_topics\.\*, employees\.ho_ten AS ho_ten FROM "research_topics" LEFT JOIN employees .* ORDER BY research_topics.created_at desc LIMIT \$3 OFFSET \$4`).
		WithArgs("%ai%", "%ai%", 5, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ten_de_tai", "trang_thai", "minh_chung", "ho_ten"}).
			AddRow("t1", "AI chẩn đoán", researchdomain.StatusInProgress, "{https://a,https://b}", "Nguyễn Văn A"))

	views, total, err := repo.ListTopics(context.Background(), researchdomain.ListQuery{Page: 3, PageSize: 5, Search: "ai"})
	require.NoError(t, err)
	assert.EqualValues(t, 12, total)
	require.Len(t, views, 1)
	assert.Equal(t, "Nguyễn Văn A", views[0].HoTen)
	assert.Equal(t, []string{"https://a", "https://b"}, []string(views[0].MinhChung))
}

func TestAppendEvidenceUsesArrayCat(t *testing.T) {
	db, mock := pgtest.New(t)
	repo := NewPostgres(db)

	mock.ExpectExec(`UPDATE "research_topics" SET "minh_chung"=array_cat\(minh_chung, \$1\),"updated_at"=\$2 WHERE id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.AppendEvidence(context.Background(), "t1", []string{"https://a"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCountEvidenceRefsMatchesArrayMembers(t *testing.T) {
	db, mock := pgtest.New(t)
	repo := NewPostgres(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "research_topics" WHERE \$1 = ANY\(minh_chung\)`).
		WithArgs("https://a").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountEvidenceRefs(context.Background(), "https://a")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
