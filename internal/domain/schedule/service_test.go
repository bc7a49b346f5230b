package schedule

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-admin-go/internal/domain/shared"
)

var ict = time.FixedZone("ICT", 7*60*60)

type fakeScheduleRepo struct {
	items map[string]*Schedule
}

func newFakeScheduleRepo(items ...Schedule) *fakeScheduleRepo {
	repo := &fakeScheduleRepo{items: make(map[string]*Schedule)}
	for i := range items {
		item := items[i]
		repo.items[item.ID] = &item
	}
	return repo
}

func (r *fakeScheduleRepo) ListSchedules(ctx context.Context) ([]Schedule, error) {
	result := make([]Schedule, 0, len(r.items))
	for _, item := range r.items {
		result = append(result, *item)
	}
	return result, nil
}

func (r *fakeScheduleRepo) ListOverlapping(ctx context.Context, from, to time.Time) ([]Schedule, error) {
	var result []Schedule
	for _, item := range r.items {
		if item.BatDau.Before(to) && !item.KetThuc.Before(from) {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeScheduleRepo) GetSchedule(ctx context.Context, id string) (*Schedule, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeScheduleRepo) CreateSchedule(ctx context.Context, schedule *Schedule) error {
	copied := *schedule
	r.items[schedule.ID] = &copied
	return nil
}

func (r *fakeScheduleRepo) UpdateSchedule(ctx context.Context, schedule *Schedule) error {
	if _, ok := r.items[schedule.ID]; !ok {
		return ErrScheduleNotFound
	}
	copied := *schedule
	r.items[schedule.ID] = &copied
	return nil
}

func (r *fakeScheduleRepo) SetStatus(ctx context.Context, id, status string) (bool, error) {
	item, ok := r.items[id]
	if !ok {
		return false, nil
	}
	item.TrangThai = status
	return true, nil
}

func (r *fakeScheduleRepo) SetAttachment(ctx context.Context, id, url string) (bool, error) {
	item, ok := r.items[id]
	if !ok {
		return false, nil
	}
	item.TepDinhKem = &url
	return true, nil
}

func (r *fakeScheduleRepo) DeleteSchedule(ctx context.Context, id string) (bool, error) {
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

type fakeNames map[string]string

func (f fakeNames) NamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, id := range ids {
		if name, ok := f[id]; ok {
			result[id] = name
		}
	}
	return result, nil
}

type fakeUploader struct {
	uploaded []string
	err      error
}

func (u *fakeUploader) Upload(ctx context.Context, file shared.File) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	body, _ := io.ReadAll(file.Body)
	u.uploaded = append(u.uploaded, string(body))
	return "https://files.example/" + file.Name, nil
}

func at(day, hour int) time.Time {
	return time.Date(2024, time.June, day, hour, 0, 0, 0, ict)
}

const (
	performerA = "3f2b8c1e-9a4d-4e6b-8c7a-1d2e3f4a5b6c"
	performerB = "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d"
)

func newTestService(repo Repository, uploader shared.Uploader) *Service {
	service := NewService(repo, fakeNames{performerA: "Nguyễn Văn A", performerB: "Trần Thị B"}, uploader, nil, ict)
	service.now = func() time.Time { return at(12, 9) }
	return service
}

func TestEffectiveStatus(t *testing.T) {
	now := at(12, 9)
	cases := []struct {
		status  string
		end     time.Time
		derived string
	}{
		{StatusNotStarted, at(11, 17), StatusOverdue},
		{StatusInProgress, at(12, 8), StatusOverdue},
		{StatusInProgress, at(12, 10), StatusInProgress},
		{StatusDone, at(1, 17), StatusDone},
		{StatusCancelled, at(1, 17), StatusCancelled},
	}
	for _, tc := range cases {
		item := Schedule{TrangThai: tc.status, KetThuc: tc.end}
		assert.Equal(t, tc.derived, item.EffectiveStatus(now), tc.status)
	}
}

func TestListResolvesPerformersAndDerivesOverdue(t *testing.T) {
	repo := newFakeScheduleRepo(
		Schedule{ID: "s1", NoiDung: "Giao ban khoa", BatDau: at(11, 8), KetThuc: at(11, 9), TrangThai: StatusNotStarted, NguoiThucHien: []string{performerA, "5c6d7e8f-0000-4000-8000-000000000000"}},
		Schedule{ID: "s2", NoiDung: "Kiểm tra trang thiết bị", BatDau: at(12, 14), KetThuc: at(12, 16), TrangThai: StatusInProgress, NguoiThucHien: []string{performerB}},
		Schedule{ID: "s3", NoiDung: "Họp hội đồng", BatDau: at(20, 8), KetThuc: at(20, 11), TrangThai: StatusNotStarted},
	)
	service := newTestService(repo, &fakeUploader{})

	views, err := service.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "s1", views[0].ID)
	assert.Equal(t, StatusOverdue, views[0].TrangThaiHienThi)
	assert.Equal(t, StatusNotStarted, views[0].TrangThai)
	assert.Equal(t, []string{"Nguyễn Văn A"}, views[0].TenNguoiThucHien)

	overdue, err := service.List(context.Background(), ListFilter{Status: StatusOverdue})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "s1", overdue[0].ID)

	byName, err := service.List(context.Background(), ListFilter{Search: "trần thị"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "s2", byName[0].ID)
}

func TestListBuckets(t *testing.T) {
	repo := newFakeScheduleRepo(
		Schedule{ID: "yesterday", NoiDung: "a", BatDau: at(11, 8), KetThuc: at(11, 9), TrangThai: StatusDone},
		Schedule{ID: "today", NoiDung: "b", BatDau: at(12, 14), KetThuc: at(12, 16), TrangThai: StatusNotStarted},
		Schedule{ID: "spanning", NoiDung: "c", BatDau: at(10, 8), KetThuc: at(13, 8), TrangThai: StatusInProgress},
		Schedule{ID: "later", NoiDung: "d", BatDau: at(20, 8), KetThuc: at(20, 9), TrangThai: StatusNotStarted},
	)
	service := newTestService(repo, &fakeUploader{})

	ids := func(filter ListFilter) []string {
		views, err := service.List(context.Background(), filter)
		require.NoError(t, err)
		result := make([]string, 0, len(views))
		for _, view := range views {
			result = append(result, view.ID)
		}
		return result
	}

	// 2024-06-12 is a Wednesday; the week runs 10..16.
	assert.Equal(t, []string{"spanning", "today"}, ids(ListFilter{Bucket: BucketToday}))
	assert.Equal(t, []string{"spanning", "yesterday", "today"}, ids(ListFilter{Bucket: BucketWeek}))
	assert.Equal(t, []string{"spanning", "yesterday", "today", "later"}, ids(ListFilter{Bucket: BucketMonth}))

	from, to := at(19, 0), at(21, 0)
	assert.Equal(t, []string{"later"}, ids(ListFilter{Bucket: BucketRange, From: &from, To: &to}))
}

func TestCalendarRejectsEmptyRange(t *testing.T) {
	service := newTestService(newFakeScheduleRepo(), &fakeUploader{})

	_, err := service.Calendar(context.Background(), at(12, 0), at(12, 0))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCalendarReturnsOverlapping(t *testing.T) {
	repo := newFakeScheduleRepo(
		Schedule{ID: "in", NoiDung: "a", BatDau: at(3, 8), KetThuc: at(3, 9), TrangThai: StatusDone},
		Schedule{ID: "out", NoiDung: "b", BatDau: at(10, 8), KetThuc: at(10, 9), TrangThai: StatusDone},
	)
	service := newTestService(repo, &fakeUploader{})

	views, err := service.Calendar(context.Background(), at(1, 0), at(8, 0))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "in", views[0].ID)
}

func TestCreateValidatesAndDefaults(t *testing.T) {
	repo := newFakeScheduleRepo()
	service := newTestService(repo, &fakeUploader{})

	_, err := service.Create(context.Background(), Input{BatDau: at(12, 8), KetThuc: at(12, 9)})
	assert.ErrorIs(t, err, ErrContentRequired)

	_, err = service.Create(context.Background(), Input{NoiDung: "x", BatDau: at(12, 9), KetThuc: at(12, 8)})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = service.Create(context.Background(), Input{NoiDung: "x", BatDau: at(12, 8), KetThuc: at(12, 9), TrangThai: StatusOverdue})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	created, err := service.Create(context.Background(), Input{
		NoiDung:       " Trực ban ",
		BatDau:        at(12, 8),
		KetThuc:       at(12, 9),
		NguoiThucHien: []string{performerA, performerA, " ", performerB},
		Actor:         "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "Trực ban", created.NoiDung)
	assert.Equal(t, StatusNotStarted, created.TrangThai)
	assert.Equal(t, []string{performerA, performerB}, []string(created.NguoiThucHien))
	assert.Equal(t, "admin", created.NguoiTao)

	_, err = service.Create(context.Background(), Input{
		NoiDung:       "Trực ban",
		BatDau:        at(12, 8),
		KetThuc:       at(12, 9),
		NguoiThucHien: []string{performerA, "abc"},
	})
	assert.ErrorIs(t, err, ErrInvalidPerformer)
	assert.Len(t, repo.items, 1)
}

func TestSetStatusRejectsDerivedStatus(t *testing.T) {
	repo := newFakeScheduleRepo(Schedule{ID: "s1", NoiDung: "a", BatDau: at(12, 8), KetThuc: at(12, 9), TrangThai: StatusNotStarted})
	service := newTestService(repo, &fakeUploader{})

	assert.ErrorIs(t, service.SetStatus(context.Background(), "s1", StatusOverdue), ErrInvalidStatus)
	require.NoError(t, service.SetStatus(context.Background(), "s1", StatusDone))
	assert.Equal(t, StatusDone, repo.items["s1"].TrangThai)
	assert.ErrorIs(t, service.SetStatus(context.Background(), "nope", StatusDone), ErrScheduleNotFound)
}

func TestUploadAttachment(t *testing.T) {
	repo := newFakeScheduleRepo(Schedule{ID: "s1", NoiDung: "a", BatDau: at(12, 8), KetThuc: at(12, 9), TrangThai: StatusNotStarted})
	uploader := &fakeUploader{}
	service := newTestService(repo, uploader)

	url, err := service.UploadAttachment(context.Background(), "s1", shared.File{Name: "ke-hoach.docx", Body: strings.NewReader("doc")})
	require.NoError(t, err)
	assert.Equal(t, "https://files.example/ke-hoach.docx", url)
	require.NotNil(t, repo.items["s1"].TepDinhKem)
	assert.Equal(t, url, *repo.items["s1"].TepDinhKem)
	assert.Equal(t, []string{"doc"}, uploader.uploaded)

	_, err = service.UploadAttachment(context.Background(), "missing", shared.File{Name: "a.pdf", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	uploader.err = errors.New("storage down")
	_, err = service.UploadAttachment(context.Background(), "s1", shared.File{Name: "a.pdf", Body: strings.NewReader("x")})
	assert.EqualError(t, err, "storage down")
}

func TestDeleteMissing(t *testing.T) {
	service := newTestService(newFakeScheduleRepo(), &fakeUploader{})
	assert.ErrorIs(t, service.Delete(context.Background(), "nope"), ErrScheduleNotFound)
}
