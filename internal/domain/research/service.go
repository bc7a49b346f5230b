package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hospital-admin-go/internal/domain/shared"
)

const (
	table           = "research_topics"
	defaultPageSize = 10
	maxPageSize     = 100
)

type Service struct {
	repo     Repository
	uploader shared.Uploader
	notifier shared.Notifier
}

func NewService(repo Repository, uploader shared.Uploader, notifier shared.Notifier) *Service {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	return &Service{repo: repo, uploader: uploader, notifier: notifier}
}

func (s *Service) List(ctx context.Context, query ListQuery) (*Page, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = defaultPageSize
	}
	if query.PageSize > maxPageSize {
		query.PageSize = maxPageSize
	}
	query.Search = strings.TrimSpace(query.Search)

	items, total, err := s.repo.ListTopics(ctx, query)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []TopicView{}
	}
	return &Page{Items: items, Total: total, Page: query.Page, PageSize: query.PageSize}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*TopicView, error) {
	return s.repo.GetTopic(ctx, id)
}

func (s *Service) Create(ctx context.Context, input Input) (*Topic, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	if input.TrangThai == "" {
		input.TrangThai = StatusInProgress
	}

	topic := Topic{ID: uuid.NewString(), MinhChung: []string{}}
	applyInput(&topic, input)
	if err := s.repo.CreateTopic(ctx, &topic); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, table, shared.ActionInsert, topic.ID)
	return &topic, nil
}

func (s *Service) Update(ctx context.Context, id string, input Input) (*Topic, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	view, err := s.repo.GetTopic(ctx, id)
	if err != nil {
		return nil, err
	}
	topic := view.Topic
	if input.TrangThai == "" {
		input.TrangThai = topic.TrangThai
	}
	applyInput(&topic, input)
	if err := s.repo.UpdateTopic(ctx, &topic); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, table, shared.ActionUpdate, id)
	return &topic, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.DeleteTopic(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTopicNotFound
	}

	s.notifier.Notify(ctx, table, shared.ActionDelete, id)
	return nil
}

// Clone copies a topic under a suffixed title. The copy starts over as in
// progress and keeps the evidence links of the source.
func (s *Service) Clone(ctx context.Context, id string) (*Topic, error) {
	view, err := s.repo.GetTopic(ctx, id)
	if err != nil {
		return nil, err
	}

	clone := view.Topic
	clone.ID = uuid.NewString()
	clone.TenDeTai = view.TenDeTai + cloneSuffix
	clone.TrangThai = StatusInProgress
	clone.MinhChung = append([]string{}, view.MinhChung...)
	if err := s.repo.CreateTopic(ctx, &clone); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, table, shared.ActionInsert, clone.ID)
	return &clone, nil
}

// UploadEvidence stores every file and appends the resulting public URLs to
// minh_chung. Files uploaded before a failure stay in storage.
func (s *Service) UploadEvidence(ctx context.Context, id string, files []shared.File) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if _, err := s.repo.GetTopic(ctx, id); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := s.uploader.Upload(ctx, file)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}

	ok, err := s.repo.AppendEvidence(ctx, id, urls)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTopicNotFound
	}

	s.notifier.Notify(ctx, table, shared.ActionUpdate, id)
	return urls, nil
}

// RemoveEvidence detaches url from the topic, then deletes the stored file
// when the uploader supports it and no other topic links to it. Clones share
// their source's files. The topic no longer references the file even if the
// storage delete fails.
func (s *Service) RemoveEvidence(ctx context.Context, id, url string) error {
	url = strings.TrimSpace(url)
	ok, err := s.repo.RemoveEvidence(ctx, id, url)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEvidenceAbsent
	}

	s.notifier.Notify(ctx, table, shared.ActionUpdate, id)
	remover, ok := s.uploader.(shared.Remover)
	if !ok {
		return nil
	}
	refs, err := s.repo.CountEvidenceRefs(ctx, url)
	if err != nil {
		return fmt.Errorf("count evidence links: %w", err)
	}
	if refs == 0 {
		if err := remover.Remove(ctx, url); err != nil {
			return fmt.Errorf("remove evidence file: %w", err)
		}
	}
	return nil
}

func applyInput(topic *Topic, input Input) {
	topic.TenDeTai = input.TenDeTai
	topic.EmployeeID = input.EmployeeID
	topic.VaiTro = input.VaiTro
	topic.CapQuanLy = input.CapQuanLy
	topic.TrangThai = input.TrangThai
	topic.NgayBatDau = input.NgayBatDau
	topic.NgayKetThuc = input.NgayKetThuc
	topic.KetQua = input.KetQua
}

func validateInput(input *Input) error {
	input.TenDeTai = strings.TrimSpace(input.TenDeTai)
	input.VaiTro = strings.TrimSpace(input.VaiTro)
	input.CapQuanLy = strings.TrimSpace(input.CapQuanLy)
	input.TrangThai = strings.TrimSpace(input.TrangThai)
	input.KetQua = strings.TrimSpace(input.KetQua)
	if input.EmployeeID != nil {
		id := strings.TrimSpace(*input.EmployeeID)
		input.EmployeeID = nil
		if id != "" {
			if _, err := uuid.Parse(id); err != nil {
				return ErrInvalidOwner
			}
			input.EmployeeID = &id
		}
	}

	if input.TenDeTai == "" {
		return ErrTitleRequired
	}
	switch input.TrangThai {
	case "", StatusInProgress, StatusAccepted:
	default:
		return ErrInvalidStatus
	}
	if input.NgayBatDau != nil && input.NgayKetThuc != nil && input.NgayKetThuc.Before(input.NgayBatDau.Time) {
		return ErrInvalidPeriod
	}
	return nil
}
