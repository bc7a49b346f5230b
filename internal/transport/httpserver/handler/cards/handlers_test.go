package cards

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	carddomain "hospital-admin-go/internal/domain/card"
	"hospital-admin-go/internal/transport/httpserver/middleware"
	"hospital-admin-go/pkg/logger"
)

type memoryCards struct {
	cards   map[string]carddomain.Card
	records map[string]carddomain.CardRecord
}

func newMemoryCards() *memoryCards {
	return &memoryCards{
		cards:   map[string]carddomain.Card{},
		records: map[string]carddomain.CardRecord{},
	}
}

func (m *memoryCards) Transaction(ctx context.Context, fn func(carddomain.Repository) error) error {
	return fn(m)
}

func (m *memoryCards) ListCards(ctx context.Context) ([]carddomain.Card, error) {
	cards := make([]carddomain.Card, 0, len(m.cards))
	for _, card := range m.cards {
		cards = append(cards, card)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].SoThe < cards[j].SoThe })
	return cards, nil
}

func (m *memoryCards) GetCard(ctx context.Context, id string) (*carddomain.Card, error) {
	card, ok := m.cards[id]
	if !ok {
		return nil, carddomain.ErrCardNotFound
	}
	return &card, nil
}

func (m *memoryCards) GetCardBySoThe(ctx context.Context, soThe string) (*carddomain.Card, error) {
	for _, card := range m.cards {
		if card.SoThe == soThe {
			return &card, nil
		}
	}
	return nil, carddomain.ErrCardNotFound
}

func (m *memoryCards) CreateCard(ctx context.Context, card *carddomain.Card) error {
	if _, err := m.GetCardBySoThe(ctx, card.SoThe); err == nil {
		return carddomain.ErrCardExists
	}
	m.cards[card.ID] = *card
	return nil
}

func (m *memoryCards) UpdateCard(ctx context.Context, card *carddomain.Card) error {
	m.cards[card.ID] = *card
	return nil
}

func (m *memoryCards) DeleteCard(ctx context.Context, id string) (bool, error) {
	if _, ok := m.cards[id]; !ok {
		return false, nil
	}
	delete(m.cards, id)
	return true, nil
}

func (m *memoryCards) SetCardStatus(ctx context.Context, soThe, status string) error {
	for id, card := range m.cards {
		if card.SoThe == soThe {
			card.TrangThai = status
			m.cards[id] = card
		}
	}
	return nil
}

func (m *memoryCards) ListRecords(ctx context.Context) ([]carddomain.CardRecord, error) {
	records := make([]carddomain.CardRecord, 0, len(m.records))
	for _, record := range m.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].NgayMuon.After(records[j].NgayMuon) })
	return records, nil
}

func (m *memoryCards) ListActiveRecords(ctx context.Context) ([]carddomain.CardRecord, error) {
	var active []carddomain.CardRecord
	for _, record := range m.records {
		if record.IsBorrowing() {
			active = append(active, record)
		}
	}
	return active, nil
}

func (m *memoryCards) CountActiveBorrows(ctx context.Context, soThe, excludeID string) (int64, error) {
	var count int64
	for id, record := range m.records {
		if id != excludeID && record.SoThe == soThe && record.IsBorrowing() {
			count++
		}
	}
	return count, nil
}

func (m *memoryCards) GetRecord(ctx context.Context, id string) (*carddomain.CardRecord, error) {
	record, ok := m.records[id]
	if !ok {
		return nil, carddomain.ErrRecordNotFound
	}
	return &record, nil
}

func (m *memoryCards) CreateRecord(ctx context.Context, record *carddomain.CardRecord) error {
	m.records[record.ID] = *record
	return nil
}

func (m *memoryCards) CreateRecords(ctx context.Context, records []carddomain.CardRecord) error {
	for _, record := range records {
		m.records[record.ID] = record
	}
	return nil
}

func (m *memoryCards) UpdateRecord(ctx context.Context, record *carddomain.CardRecord) error {
	m.records[record.ID] = *record
	return nil
}

func (m *memoryCards) DeleteRecord(ctx context.Context, id string) (bool, error) {
	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

func (m *memoryCards) UpdateRecordsHandover(ctx context.Context, ids []string, fields map[string]interface{}) (int64, error) {
	var updated int64
	for _, id := range ids {
		record, ok := m.records[id]
		if !ok {
			continue
		}
		if state, ok := fields["trang_thai_tien_muon"].(string); ok {
			record.TrangThaiTienMuon = state
		}
		if state, ok := fields["trang_thai_tien_tra"].(string); ok {
			record.TrangThaiTienTra = state
		}
		m.records[id] = record
		updated++
	}
	return updated, nil
}

var nurse = middleware.User{ID: "u-1", Username: "dieuduong", Name: "Trần Thị B", Role: "user"}

func newCardRouter(repo *memoryCards, user *middleware.User) http.Handler {
	h := New(carddomain.NewService(repo, nil, time.UTC), 1<<20, logger.Nop())

	r := chi.NewRouter()
	if user != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), *user)))
			})
		})
	}
	r.Get("/cards", h.ListCards)
	r.Post("/cards", h.CreateCard)
	r.Post("/cards/{id}/lost", h.MarkCardLost)
	r.Get("/card-records", h.ListRecords)
	r.Get("/card-records/duplicate-warning", h.DuplicateWarning)
	r.Post("/card-records", h.Borrow)
	r.Post("/card-records/handover", h.BatchHandover)
	r.Post("/card-records/{id}/return", h.Return)
	return r
}

func serve(t *testing.T, handler http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, target, &payload)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error.Code
}

type borrowBody struct {
	Record  carddomain.CardRecord `json:"record"`
	Warning string                `json:"warning"`
}

func TestBorrowAndReturn(t *testing.T) {
	repo := newMemoryCards()
	router := newCardRouter(repo, &nurse)

	rec := serve(t, router, http.MethodPost, "/cards", map[string]string{"so_the": "THE-001"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = serve(t, router, http.MethodPost, "/cards", map[string]string{"so_the": "THE-001"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "card_exists", errorCode(t, rec))

	rec = serve(t, router, http.MethodPost, "/card-records", map[string]interface{}{
		"so_the":        "THE-001",
		"ten_benh_nhan": "Nguyen Van A",
		"tien_coc":      200000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var first borrowBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.Empty(t, first.Warning)
	assert.Equal(t, carddomain.RecordBorrowing, first.Record.TrangThai)
	assert.Equal(t, "Trần Thị B", first.Record.NguoiChoMuon)
	assert.Equal(t, carddomain.HandoverPending, first.Record.TrangThaiTienMuon)

	cards, _ := repo.ListCards(context.Background())
	assert.Equal(t, carddomain.CardBorrowed, cards[0].TrangThai)

	rec = serve(t, router, http.MethodPost, "/card-records", map[string]interface{}{
		"so_the":        "THE-002",
		"ten_benh_nhan": "nguyen van a",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var second borrowBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Contains(t, second.Warning, "THE-001")

	rec = serve(t, router, http.MethodPost, "/card-records/"+first.Record.ID+"/return", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var returned carddomain.CardRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &returned))
	assert.Equal(t, carddomain.RecordReturned, returned.TrangThai)
	assert.NotNil(t, returned.NgayTra)
	assert.Equal(t, "Trần Thị B", returned.NguoiNhanTra)

	cards, _ = repo.ListCards(context.Background())
	assert.Equal(t, carddomain.CardAvailable, cards[0].TrangThai)

	rec = serve(t, router, http.MethodPost, "/card-records/"+first.Record.ID+"/return", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_returned", errorCode(t, rec))

	rec = serve(t, router, http.MethodPost, "/card-records/missing/return", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBorrowRejectsBadInput(t *testing.T) {
	repo := newMemoryCards()

	rec := serve(t, newCardRouter(repo, nil), http.MethodPost, "/card-records", map[string]string{"so_the": "THE-001"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	router := newCardRouter(repo, &nurse)
	tests := []struct {
		name string
		body map[string]interface{}
		code string
	}{
		{name: "negative deposit", body: map[string]interface{}{"so_the": "THE-001", "ten_benh_nhan": "A", "tien_coc": -1}, code: "invalid_request"},
		{name: "missing card", body: map[string]interface{}{"ten_benh_nhan": "A"}, code: "invalid_request"},
		{name: "missing patient", body: map[string]interface{}{"so_the": "THE-001"}, code: "invalid_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, router, http.MethodPost, "/card-records", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
	assert.Empty(t, repo.records)
}

func TestBorrowLostCard(t *testing.T) {
	repo := newMemoryCards()
	router := newCardRouter(repo, &nurse)

	rec := serve(t, router, http.MethodPost, "/cards", map[string]string{"so_the": "THE-009"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var card carddomain.Card
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))

	rec = serve(t, router, http.MethodPost, "/cards/"+card.ID+"/lost", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, router, http.MethodPost, "/card-records", map[string]string{"so_the": "THE-009", "ten_benh_nhan": "A"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "card_lost", errorCode(t, rec))
}

func TestListRecordsFilters(t *testing.T) {
	repo := newMemoryCards()
	router := newCardRouter(repo, &nurse)

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	for _, body := range []map[string]interface{}{
		{"so_the": "THE-001", "ten_benh_nhan": "Lê Văn C"},
		{"so_the": "THE-002", "ten_benh_nhan": "Phạm Thị D", "ngay_muon": yesterday},
	} {
		require.Equal(t, http.StatusCreated, serve(t, router, http.MethodPost, "/card-records", body).Code)
	}

	list := func(query string) []carddomain.CardRecord {
		rec := serve(t, router, http.MethodGet, "/card-records"+query, nil)
		require.Equal(t, http.StatusOK, rec.Code, query)
		var body struct {
			Items []carddomain.CardRecord `json:"items"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body.Items
	}

	assert.Len(t, list(""), 2)
	assert.Len(t, list("?bucket=today"), 1)
	assert.Equal(t, "THE-002", list("?bucket=yesterday")[0].SoThe)
	assert.Equal(t, "THE-002", list("?bucket=days_ago&days=1")[0].SoThe)
	assert.Equal(t, "THE-001", list("?q=c")[0].SoThe)
	assert.Empty(t, list("?status=returned"))
	assert.Len(t, list("?status=borrowing"), 2)

	for _, query := range []string{"?bucket=week", "?status=lost", "?days=abc", "?bucket=range&from=yesterday"} {
		rec := serve(t, router, http.MethodGet, "/card-records"+query, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestDuplicateWarningEndpoint(t *testing.T) {
	repo := newMemoryCards()
	router := newCardRouter(repo, &nurse)
	require.Equal(t, http.StatusCreated, serve(t, router, http.MethodPost, "/card-records", map[string]string{
		"so_the": "THE-005", "ten_benh_nhan": "Hoàng Văn E",
	}).Code)

	rec := serve(t, router, http.MethodGet, "/card-records/duplicate-warning?ten_benh_nhan=NG%20V", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body warningResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Warning, "THE-005")

	rec = serve(t, router, http.MethodGet, "/card-records/duplicate-warning?ten_benh_nhan=", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Warning)
}

func TestBatchHandover(t *testing.T) {
	repo := newMemoryCards()
	router := newCardRouter(repo, &nurse)

	rec := serve(t, router, http.MethodPost, "/card-records", map[string]string{"so_the": "THE-001", "ten_benh_nhan": "A"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var borrowed borrowBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &borrowed))

	rec = serve(t, router, http.MethodPost, "/card-records/handover", map[string]interface{}{
		"ids": []string{borrowed.Record.ID, borrowed.Record.ID}, "leg": "muon", "trang_thai": carddomain.HandoverDone,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var count countResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	assert.Equal(t, int64(1), count.Count)
	assert.Equal(t, carddomain.HandoverDone, repo.records[borrowed.Record.ID].TrangThaiTienMuon)
	assert.Equal(t, carddomain.HandoverPending, repo.records[borrowed.Record.ID].TrangThaiTienTra)
	assert.Equal(t, carddomain.RecordBorrowing, repo.records[borrowed.Record.ID].TrangThai)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{name: "unknown leg", body: map[string]interface{}{"ids": []string{borrowed.Record.ID}, "leg": "coc", "trang_thai": carddomain.HandoverDone}},
		{name: "unknown state", body: map[string]interface{}{"ids": []string{borrowed.Record.ID}, "leg": "tra", "trang_thai": "xong"}},
		{name: "no ids", body: map[string]interface{}{"ids": []string{" "}, "leg": "tra", "trang_thai": carddomain.HandoverDone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, router, http.MethodPost, "/card-records/handover", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
