package card

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"hospital-admin-go/internal/domain/shared"
)

const (
	cardsTable   = "cards"
	recordsTable = "card_records"
)

type Service struct {
	repo     Repository
	notifier shared.Notifier
	loc      *time.Location
	now      func() time.Time
}

func NewService(repo Repository, notifier shared.Notifier, loc *time.Location) *Service {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, notifier: notifier, loc: loc, now: time.Now}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) ListCards(ctx context.Context) ([]Card, error) {
	return s.repo.ListCards(ctx)
}

func (s *Service) CreateCard(ctx context.Context, input CardInput) (*Card, error) {
	soThe := strings.TrimSpace(input.SoThe)
	if soThe == "" {
		return nil, ErrCardNumberRequired
	}
	status, err := cardStatus(input.TrangThai)
	if err != nil {
		return nil, err
	}

	card := Card{
		ID:        uuid.NewString(),
		SoThe:     soThe,
		TrangThai: status,
		GhiChu:    strings.TrimSpace(input.GhiChu),
	}
	if err := s.repo.CreateCard(ctx, &card); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, cardsTable, shared.ActionInsert, card.ID)
	return &card, nil
}

func (s *Service) UpdateCard(ctx context.Context, id string, input CardInput) (*Card, error) {
	card, err := s.repo.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}

	if soThe := strings.TrimSpace(input.SoThe); soThe != "" {
		card.SoThe = soThe
	}
	if strings.TrimSpace(input.TrangThai) != "" {
		status, err := cardStatus(input.TrangThai)
		if err != nil {
			return nil, err
		}
		card.TrangThai = status
	}
	card.GhiChu = strings.TrimSpace(input.GhiChu)

	if err := s.repo.UpdateCard(ctx, card); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, cardsTable, shared.ActionUpdate, id)
	return card, nil
}

func (s *Service) MarkLost(ctx context.Context, id string) (*Card, error) {
	card, err := s.repo.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}
	card.TrangThai = CardLost
	if err := s.repo.UpdateCard(ctx, card); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, cardsTable, shared.ActionUpdate, id)
	return card, nil
}

func (s *Service) DeleteCard(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteCard(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCardNotFound
	}
	s.notifier.Notify(ctx, cardsTable, shared.ActionDelete, id)
	return nil
}

// ListRecords fetches every lending record and filters in memory.
func (s *Service) ListRecords(ctx context.Context, filter RecordFilter) ([]CardRecord, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Location == nil {
		filter.Location = s.loc
	}
	if filter.Now.IsZero() {
		filter.Now = s.now()
	}
	return Filter(records, filter), nil
}

func (s *Service) DuplicateWarning(ctx context.Context, patientName string) (string, error) {
	if strings.TrimSpace(patientName) == "" {
		return "", nil
	}
	active, err := s.repo.ListActiveRecords(ctx)
	if err != nil {
		return "", err
	}
	return DuplicateWarning(active, patientName, s.loc), nil
}

// Borrow registers a new lending record and flags the catalog card as lent.
// A duplicate-borrow warning is computed first and returned with the record.
func (s *Service) Borrow(ctx context.Context, input BorrowInput) (*BorrowResult, error) {
	soThe := strings.TrimSpace(input.SoThe)
	if soThe == "" {
		return nil, ErrCardNumberRequired
	}
	patient := strings.TrimSpace(input.TenBenhNhan)
	if patient == "" {
		return nil, ErrPatientRequired
	}

	warning, err := s.DuplicateWarning(ctx, patient)
	if err != nil {
		return nil, err
	}

	borrowedAt := s.now()
	if input.NgayMuon != nil && !input.NgayMuon.IsZero() {
		borrowedAt = *input.NgayMuon
	}

	record := CardRecord{
		ID:                uuid.NewString(),
		SoThe:             soThe,
		TenBenhNhan:       patient,
		TenNguoiCham:      strings.TrimSpace(input.TenNguoiCham),
		SoDienThoai:       strings.TrimSpace(input.SoDienThoai),
		KhoaPhong:         strings.TrimSpace(input.KhoaPhong),
		TienCoc:           input.TienCoc,
		NgayMuon:          borrowedAt,
		TrangThai:         RecordBorrowing,
		NguoiChoMuon:      strings.TrimSpace(input.Actor),
		TrangThaiTienMuon: HandoverPending,
		TrangThaiTienTra:  HandoverPending,
		GhiChu:            strings.TrimSpace(input.GhiChu),
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := ensureNotLost(ctx, tx, soThe); err != nil {
			return err
		}
		if err := tx.CreateRecord(ctx, &record); err != nil {
			return err
		}
		return tx.SetCardStatus(ctx, soThe, CardBorrowed)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, recordsTable, shared.ActionInsert, record.ID)
	s.notifier.Notify(ctx, cardsTable, shared.ActionUpdate, "")
	return &BorrowResult{Record: &record, Warning: warning}, nil
}

// Return closes a lending record and frees the catalog card.
func (s *Service) Return(ctx context.Context, id, actor string) (*CardRecord, error) {
	var record *CardRecord
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetRecord(ctx, id)
		if err != nil {
			return err
		}
		if current.TrangThai == RecordReturned {
			return ErrAlreadyReturned
		}

		returnedAt := s.now()
		current.TrangThai = RecordReturned
		current.NgayTra = &returnedAt
		current.NguoiNhanTra = strings.TrimSpace(actor)
		if err := tx.UpdateRecord(ctx, current); err != nil {
			return err
		}
		record = current
		return releaseCard(ctx, tx, current.SoThe, current.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, recordsTable, shared.ActionUpdate, id)
	s.notifier.Notify(ctx, cardsTable, shared.ActionUpdate, "")
	return record, nil
}

// BatchHandover moves the deposit sub-state of one leg on many records at
// once. The borrow/return state itself is never touched.
func (s *Service) BatchHandover(ctx context.Context, input HandoverInput) (int64, error) {
	ids := uniqueIDs(input.IDs)
	if len(ids) == 0 {
		return 0, ErrNoRecordSelected
	}
	if input.State != HandoverPending && input.State != HandoverDone {
		return 0, ErrInvalidHandover
	}

	var stateCol, actorCol, timeCol string
	switch input.Leg {
	case LegBorrow:
		stateCol, actorCol, timeCol = "trang_thai_tien_muon", "nguoi_ban_giao_tien_muon", "thoi_gian_ban_giao_tien_muon"
	case LegReturn:
		stateCol, actorCol, timeCol = "trang_thai_tien_tra", "nguoi_ban_giao_tien_tra", "thoi_gian_ban_giao_tien_tra"
	default:
		return 0, ErrInvalidLeg
	}

	fields := map[string]interface{}{stateCol: input.State}
	if input.State == HandoverDone {
		fields[actorCol] = strings.TrimSpace(input.Actor)
		fields[timeCol] = s.now()
	} else {
		fields[actorCol] = ""
		fields[timeCol] = nil
	}

	updated, err := s.repo.UpdateRecordsHandover(ctx, ids, fields)
	if err != nil {
		return 0, err
	}

	s.notifier.Notify(ctx, recordsTable, shared.ActionUpdate, "")
	return updated, nil
}

// UpdateRecord edits a lending record. Moving an active record to another
// card number flips both catalog cards.
func (s *Service) UpdateRecord(ctx context.Context, id string, input RecordUpdateInput) (*CardRecord, error) {
	soThe := strings.TrimSpace(input.SoThe)
	if soThe == "" {
		return nil, ErrCardNumberRequired
	}
	patient := strings.TrimSpace(input.TenBenhNhan)
	if patient == "" {
		return nil, ErrPatientRequired
	}

	var record *CardRecord
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetRecord(ctx, id)
		if err != nil {
			return err
		}

		previous := current.SoThe
		moved := current.IsBorrowing() && previous != soThe
		if moved {
			if err := ensureNotLost(ctx, tx, soThe); err != nil {
				return err
			}
		}

		current.SoThe = soThe
		current.TenBenhNhan = patient
		current.TenNguoiCham = strings.TrimSpace(input.TenNguoiCham)
		current.SoDienThoai = strings.TrimSpace(input.SoDienThoai)
		current.KhoaPhong = strings.TrimSpace(input.KhoaPhong)
		current.TienCoc = input.TienCoc
		if input.NgayMuon != nil && !input.NgayMuon.IsZero() {
			current.NgayMuon = *input.NgayMuon
		}
		current.GhiChu = strings.TrimSpace(input.GhiChu)

		if err := tx.UpdateRecord(ctx, current); err != nil {
			return err
		}
		record = current

		if !moved {
			return nil
		}
		if err := tx.SetCardStatus(ctx, soThe, CardBorrowed); err != nil {
			return err
		}
		return releaseCard(ctx, tx, previous, current.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, recordsTable, shared.ActionUpdate, id)
	if record.IsBorrowing() {
		s.notifier.Notify(ctx, cardsTable, shared.ActionUpdate, "")
	}
	return record, nil
}

// DeleteRecord removes a lending record. Deleting an active borrow frees the
// catalog card unless another borrow still holds it.
func (s *Service) DeleteRecord(ctx context.Context, id string) error {
	var wasBorrowing bool
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetRecord(ctx, id)
		if err != nil {
			return err
		}
		deleted, err := tx.DeleteRecord(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrRecordNotFound
		}
		wasBorrowing = current.IsBorrowing()
		if !wasBorrowing {
			return nil
		}
		return releaseCard(ctx, tx, current.SoThe, current.ID)
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, recordsTable, shared.ActionDelete, id)
	if wasBorrowing {
		s.notifier.Notify(ctx, cardsTable, shared.ActionUpdate, "")
	}
	return nil
}

// releaseCard marks the catalog card free once no borrow other than
// recordID is still active on it.
func releaseCard(ctx context.Context, tx Repository, soThe, recordID string) error {
	active, err := tx.CountActiveBorrows(ctx, soThe, recordID)
	if err != nil {
		return err
	}
	if active > 0 {
		return nil
	}
	return tx.SetCardStatus(ctx, soThe, CardAvailable)
}

func ensureNotLost(ctx context.Context, tx Repository, soThe string) error {
	card, err := tx.GetCardBySoThe(ctx, soThe)
	if errors.Is(err, ErrCardNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if card.TrangThai == CardLost {
		return ErrCardLost
	}
	return nil
}

func cardStatus(value string) (string, error) {
	switch strings.TrimSpace(value) {
	case "":
		return CardAvailable, nil
	case CardAvailable, CardBorrowed, CardLost:
		return strings.TrimSpace(value), nil
	default:
		return "", ErrInvalidCardStatus
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
