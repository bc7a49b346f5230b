package schedule

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"hospital-admin-go/internal/domain/shared"
)

const table = "schedules"

type Service struct {
	repo     Repository
	names    NameResolver
	uploader shared.Uploader
	notifier shared.Notifier
	loc      *time.Location
	now      func() time.Time
}

func NewService(repo Repository, names NameResolver, uploader shared.Uploader, notifier shared.Notifier, loc *time.Location) *Service {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:     repo,
		names:    names,
		uploader: uploader,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]View, error) {
	schedules, err := s.repo.ListSchedules(ctx)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, schedules)
	if err != nil {
		return nil, err
	}

	now := s.now()
	start, end, windowed := s.window(filter, now)
	term := strings.ToLower(strings.TrimSpace(filter.Search))
	status := strings.TrimSpace(filter.Status)

	result := make([]View, 0, len(views))
	for _, view := range views {
		if windowed && !overlaps(view.Schedule, start, end) {
			continue
		}
		if status != "" && view.TrangThaiHienThi != status {
			continue
		}
		if term != "" && !matches(view, term) {
			continue
		}
		result = append(result, view)
	}
	return result, nil
}

// Calendar returns the items that overlap [from, to).
func (s *Service) Calendar(ctx context.Context, from, to time.Time) ([]View, error) {
	if from.IsZero() || to.IsZero() || !to.After(from) {
		return nil, ErrInvalidRange
	}
	schedules, err := s.repo.ListOverlapping(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, schedules)
}

func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	schedule, err := s.repo.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []Schedule{*schedule})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) Create(ctx context.Context, input Input) (*Schedule, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	if input.TrangThai == "" {
		input.TrangThai = StatusNotStarted
	}

	schedule := Schedule{
		ID:            uuid.NewString(),
		NoiDung:       input.NoiDung,
		BatDau:        input.BatDau,
		KetThuc:       input.KetThuc,
		NguoiThucHien: input.NguoiThucHien,
		TrangThai:     input.TrangThai,
		NguoiTao:      input.Actor,
	}
	if err := s.repo.CreateSchedule(ctx, &schedule); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, table, shared.ActionInsert, schedule.ID)
	return &schedule, nil
}

func (s *Service) Update(ctx context.Context, id string, input Input) (*Schedule, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	schedule, err := s.repo.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	schedule.NoiDung = input.NoiDung
	schedule.BatDau = input.BatDau
	schedule.KetThuc = input.KetThuc
	schedule.NguoiThucHien = input.NguoiThucHien
	if input.TrangThai != "" {
		schedule.TrangThai = input.TrangThai
	}
	if err := s.repo.UpdateSchedule(ctx, schedule); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, table, shared.ActionUpdate, id)
	return schedule, nil
}

func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	status = strings.TrimSpace(status)
	if !isPersistedStatus(status) {
		return ErrInvalidStatus
	}
	ok, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrScheduleNotFound
	}

	s.notifier.Notify(ctx, table, shared.ActionUpdate, id)
	return nil
}

// UploadAttachment stores the file and points tep_dinh_kem at it.
func (s *Service) UploadAttachment(ctx context.Context, id string, file shared.File) (string, error) {
	if file.Body == nil || file.Name == "" {
		return "", ErrNoFile
	}
	if _, err := s.repo.GetSchedule(ctx, id); err != nil {
		return "", err
	}

	url, err := s.uploader.Upload(ctx, file)
	if err != nil {
		return "", err
	}
	ok, err := s.repo.SetAttachment(ctx, id, url)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrScheduleNotFound
	}

	s.notifier.Notify(ctx, table, shared.ActionUpdate, id)
	return url, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.DeleteSchedule(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrScheduleNotFound
	}

	s.notifier.Notify(ctx, table, shared.ActionDelete, id)
	return nil
}

func (s *Service) views(ctx context.Context, schedules []Schedule) ([]View, error) {
	var ids []string
	for _, schedule := range schedules {
		ids = append(ids, schedule.NguoiThucHien...)
	}

	names := map[string]string{}
	if len(ids) > 0 && s.names != nil {
		resolved, err := s.names.NamesByID(ctx, ids)
		if err != nil {
			return nil, err
		}
		names = resolved
	}

	now := s.now()
	views := make([]View, 0, len(schedules))
	for _, schedule := range schedules {
		performers := make([]string, 0, len(schedule.NguoiThucHien))
		for _, id := range schedule.NguoiThucHien {
			if name, ok := names[id]; ok {
				performers = append(performers, name)
			}
		}
		views = append(views, View{
			Schedule:         schedule,
			TrangThaiHienThi: schedule.EffectiveStatus(now),
			TenNguoiThucHien: performers,
		})
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].BatDau.Before(views[j].BatDau) })
	return views, nil
}

// window returns the [start, end) span selected by the bucket.
func (s *Service) window(filter ListFilter, now time.Time) (time.Time, time.Time, bool) {
	today := startOfDay(now, s.loc)
	switch filter.Bucket {
	case BucketToday:
		return today, today.AddDate(0, 0, 1), true
	case BucketWeek:
		offset := (int(today.Weekday()) + 6) % 7
		monday := today.AddDate(0, 0, -offset)
		return monday, monday.AddDate(0, 0, 7), true
	case BucketMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, s.loc)
		return first, first.AddDate(0, 1, 0), true
	case BucketRange:
		start := time.Time{}
		end := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		if filter.From != nil {
			start = startOfDay(*filter.From, s.loc)
		}
		if filter.To != nil {
			end = startOfDay(*filter.To, s.loc).AddDate(0, 0, 1)
		}
		return start, end, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func overlaps(schedule Schedule, start, end time.Time) bool {
	return schedule.BatDau.Before(end) && !schedule.KetThuc.Before(start)
}

func matches(view View, term string) bool {
	if strings.Contains(strings.ToLower(view.NoiDung), term) ||
		strings.Contains(strings.ToLower(view.NguoiTao), term) {
		return true
	}
	for _, name := range view.TenNguoiThucHien {
		if strings.Contains(strings.ToLower(name), term) {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func isPersistedStatus(status string) bool {
	switch status {
	case StatusNotStarted, StatusInProgress, StatusDone, StatusCancelled:
		return true
	default:
		return false
	}
}

func validateInput(input *Input) error {
	input.NoiDung = strings.TrimSpace(input.NoiDung)
	input.TrangThai = strings.TrimSpace(input.TrangThai)
	input.Actor = strings.TrimSpace(input.Actor)
	if input.NoiDung == "" {
		return ErrContentRequired
	}
	if input.BatDau.IsZero() || input.KetThuc.IsZero() {
		return ErrTimeRequired
	}
	if input.KetThuc.Before(input.BatDau) {
		return ErrInvalidTimeRange
	}
	if input.TrangThai != "" && !isPersistedStatus(input.TrangThai) {
		return ErrInvalidStatus
	}

	performers := make([]string, 0, len(input.NguoiThucHien))
	seen := make(map[string]struct{}, len(input.NguoiThucHien))
	for _, id := range input.NguoiThucHien {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		if _, err := uuid.Parse(id); err != nil {
			return ErrInvalidPerformer
		}
		seen[id] = struct{}{}
		performers = append(performers, id)
	}
	input.NguoiThucHien = performers
	return nil
}
