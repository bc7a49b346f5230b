package personnel

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-admin-go/internal/spreadsheet"
)

type fakeEmployeeRepo struct {
	employees map[string]*Employee
	children  map[string]Children
	txCount   int
	byIDCalls [][]string
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{
		employees: make(map[string]*Employee),
		children:  make(map[string]Children),
	}
}

func (r *fakeEmployeeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	r.txCount++
	return fn(r)
}

func (r *fakeEmployeeRepo) ListEmployees(ctx context.Context, filter ListFilter) ([]Employee, int64, error) {
	result := make([]Employee, 0)
	for _, employee := range r.employees {
		if filter.Category != "" && employee.DoiTuong != filter.Category {
			continue
		}
		if filter.Status != "" && employee.TrangThai != filter.Status {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(employee.HoTen), strings.ToLower(filter.Query)) {
			continue
		}
		result = append(result, *employee)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].HoTen < result[j].HoTen })
	total := int64(len(result))
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, total, nil
}

func (r *fakeEmployeeRepo) ListEmployeesByIDs(ctx context.Context, ids []string) ([]Employee, error) {
	r.byIDCalls = append(r.byIDCalls, ids)
	result := make([]Employee, 0, len(ids))
	for _, id := range ids {
		if employee, ok := r.employees[id]; ok {
			result = append(result, *employee)
		}
	}
	return result, nil
}

func (r *fakeEmployeeRepo) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	employee, ok := r.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	copied := *employee
	return &copied, nil
}

func (r *fakeEmployeeRepo) CreateEmployee(ctx context.Context, employee *Employee) error {
	copied := *employee
	r.employees[employee.ID] = &copied
	return nil
}

func (r *fakeEmployeeRepo) CreateEmployees(ctx context.Context, employees []Employee) error {
	for i := range employees {
		_ = r.CreateEmployee(ctx, &employees[i])
	}
	return nil
}

func (r *fakeEmployeeRepo) UpdateEmployee(ctx context.Context, employee *Employee) error {
	if _, ok := r.employees[employee.ID]; !ok {
		return ErrEmployeeNotFound
	}
	copied := *employee
	r.employees[employee.ID] = &copied
	return nil
}

func (r *fakeEmployeeRepo) DeleteEmployee(ctx context.Context, id string) (bool, error) {
	if _, ok := r.employees[id]; !ok {
		return false, nil
	}
	delete(r.employees, id)
	delete(r.children, id)
	return true, nil
}

func (r *fakeEmployeeRepo) BulkUpdateEmployees(ctx context.Context, ids []string, fields map[string]interface{}) (int64, error) {
	var updated int64
	for _, id := range ids {
		employee, ok := r.employees[id]
		if !ok {
			continue
		}
		if value, ok := fields["trang_thai"]; ok {
			employee.TrangThai = value.(string)
		}
		if value, ok := fields["doi_tuong"]; ok {
			employee.DoiTuong = value.(string)
		}
		updated++
	}
	return updated, nil
}

func (r *fakeEmployeeRepo) LoadChildren(ctx context.Context, employeeID string) (Children, error) {
	return r.children[employeeID], nil
}

func (r *fakeEmployeeRepo) ReplaceChildren(ctx context.Context, employeeID string, children Children) error {
	r.children[employeeID] = children
	return nil
}

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) Notify(ctx context.Context, table, action, id string) {
	n.events = append(n.events, table+":"+action)
}

func TestCreateSavesChildrenInOneTransaction(t *testing.T) {
	repo := newFakeEmployeeRepo()
	notifier := &recordingNotifier{}
	service := NewService(repo, notifier)

	details, err := service.Create(context.Background(), EmployeeDetails{
		Employee: Employee{HoTen: "  Nguyễn Văn A ", DoiTuong: "Quân nhân"},
		Children: Children{
			FamilyMembers: []FamilyMember{{QuanHe: "Vợ", HoTen: "Lê Thị C"}},
			WorkHistory:   []WorkHistory{{DonVi: "Khoa Nội"}, {DonVi: "Khoa Ngoại"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.txCount)
	assert.NotEmpty(t, details.ID)
	assert.Equal(t, "Nguyễn Văn A", details.HoTen)
	assert.Equal(t, StatusActive, details.TrangThai)

	stored := repo.children[details.ID]
	require.Len(t, stored.FamilyMembers, 1)
	assert.Equal(t, details.ID, stored.FamilyMembers[0].EmployeeID)
	require.Len(t, stored.WorkHistory, 2)
	assert.Equal(t, 1, stored.WorkHistory[1].SortOrder)
	assert.NotNil(t, stored.SalaryHistory)
	assert.Equal(t, []string{"employees:INSERT"}, notifier.events)
}

func TestNamesByIDSkipsMalformedIDs(t *testing.T) {
	repo := newFakeEmployeeRepo()
	service := NewService(repo, nil)

	created, err := service.Create(context.Background(), EmployeeDetails{Employee: Employee{HoTen: "Nguyễn Văn A"}})
	require.NoError(t, err)

	names, err := service.NamesByID(context.Background(), []string{created.ID, "abc"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{created.ID: "Nguyễn Văn A"}, names)
	require.Len(t, repo.byIDCalls, 1)
	assert.Equal(t, []string{created.ID}, repo.byIDCalls[0])

	names, err = service.NamesByID(context.Background(), []string{"abc"})
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Len(t, repo.byIDCalls, 1)
}

func TestCreateRequiresName(t *testing.T) {
	service := NewService(newFakeEmployeeRepo(), nil)
	_, err := service.Create(context.Background(), EmployeeDetails{Employee: Employee{HoTen: "   "}})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestUpdateReplacesChildLists(t *testing.T) {
	repo := newFakeEmployeeRepo()
	service := NewService(repo, nil)

	created, err := service.Create(context.Background(), EmployeeDetails{
		Employee: Employee{HoTen: "Trần B"},
		Children: Children{TrainingHistory: []TrainingHistory{{CoSoDaoTao: "HVQY"}}},
	})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), created.ID, EmployeeDetails{
		Employee: Employee{HoTen: "Trần B", TrangThai: StatusRetired},
		Children: Children{SalaryHistory: []SalaryHistory{{CapBac: "Đại úy"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusRetired, updated.TrangThai)
	stored := repo.children[created.ID]
	assert.Empty(t, stored.TrainingHistory)
	require.Len(t, stored.SalaryHistory, 1)
	assert.Equal(t, "Đại úy", stored.SalaryHistory[0].CapBac)

	_, err = service.Update(context.Background(), "missing", EmployeeDetails{Employee: Employee{HoTen: "X"}})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestDeleteMissingEmployee(t *testing.T) {
	service := NewService(newFakeEmployeeRepo(), nil)
	err := service.Delete(context.Background(), "nope")
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestBulkUpdateIsIdempotent(t *testing.T) {
	repo := newFakeEmployeeRepo()
	service := NewService(repo, nil)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		created, err := service.Create(ctx, EmployeeDetails{Employee: Employee{HoTen: name}})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	status := StatusTransferred
	input := BulkUpdateInput{IDs: append([]string{ids[0], ids[0]}, ids[1]), Status: &status}

	_, err := service.BulkUpdate(ctx, input)
	require.NoError(t, err)
	first, _, _ := repo.ListEmployees(ctx, ListFilter{})

	count, err := service.BulkUpdate(ctx, input)
	require.NoError(t, err)
	second, _, _ := repo.ListEmployees(ctx, ListFilter{})

	assert.EqualValues(t, 2, count)
	assert.Equal(t, first, second)
	assert.Equal(t, StatusActive, repo.employees[ids[2]].TrangThai)
}

func TestBulkUpdateValidation(t *testing.T) {
	service := NewService(newFakeEmployeeRepo(), nil)
	_, err := service.BulkUpdate(context.Background(), BulkUpdateInput{IDs: []string{" "}})
	assert.ErrorIs(t, err, ErrNoEmployeeSelected)

	_, err = service.BulkUpdate(context.Background(), BulkUpdateInput{IDs: []string{"a"}})
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)
}

func TestEmployeesFromRowsNormalizesDatesAndSkipsNameless(t *testing.T) {
	rows := []spreadsheet.Row{
		{"Họ và tên": "Phạm D", "Ngày sinh": "38718", "Ngày nhập ngũ": "15/08/2010", "Ngày vào Đảng": "sai"},
		{"Họ và tên": "", "Ngày sinh": "38718"},
		{"Họ và tên": "Vũ E", "Đối tượng": "Công nhân viên"},
	}

	employees := EmployeesFromRows(rows, "Quân nhân")
	require.Len(t, employees, 2)

	require.NotNil(t, employees[0].NgaySinh)
	assert.Equal(t, "2006-01-01", employees[0].NgaySinh.String())
	assert.Equal(t, "2010-08-15", employees[0].NgayNhapNgu.String())
	assert.Nil(t, employees[0].NgayVaoDang)
	assert.Equal(t, "Quân nhân", employees[0].DoiTuong)
	assert.Equal(t, "Công nhân viên", employees[1].DoiTuong)
}

func TestImportCountsStoredRows(t *testing.T) {
	repo := newFakeEmployeeRepo()
	service := NewService(repo, nil)

	count, err := service.Import(context.Background(), []spreadsheet.Row{
		{"Họ và tên": "A"},
		{"Ghi chú": "no name"},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, repo.employees, 1)

	_, err = service.Import(context.Background(), []spreadsheet.Row{{"Ghi chú": "x"}}, "")
	assert.ErrorIs(t, err, ErrEmptyImport)
}

func TestTemplateAndExportLayout(t *testing.T) {
	assert.Len(t, TemplateHeaders(), 21)

	repo := newFakeEmployeeRepo()
	service := NewService(repo, nil)
	_, err := service.Import(context.Background(), []spreadsheet.Row{{"Họ và tên": "Đỗ F", "Ngày sinh": "01/02/1985"}}, "")
	require.NoError(t, err)

	data, err := service.Export(context.Background(), ListFilter{})
	require.NoError(t, err)

	rows, err := spreadsheet.Read(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Đỗ F", rows[0].Get("Họ và tên"))
	assert.Equal(t, "01/02/1985", rows[0].Get("Ngày sinh"))
	assert.Equal(t, StatusActive, rows[0].Get("Trạng thái"))

	template, err := service.Template()
	require.NoError(t, err)
	empty, err := spreadsheet.Read(bytes.NewReader(template))
	require.NoError(t, err)
	assert.Empty(t, empty)
}
