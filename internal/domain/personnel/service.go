package personnel

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"hospital-admin-go/internal/domain/shared"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	table            = "employees"
)

type Service struct {
	repo     Repository
	notifier shared.Notifier
}

func NewService(repo Repository, notifier shared.Notifier) *Service {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Employee, int64, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Status = strings.TrimSpace(filter.Status)
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListEmployees(ctx, filter)
}

// NamesByID resolves employee ids to display names. Unknown or malformed ids
// are absent from the result.
func (s *Service) NamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	result := make(map[string]string, len(ids))
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return result, nil
	}
	employees, err := s.repo.ListEmployeesByIDs(ctx, valid)
	if err != nil {
		return nil, err
	}
	for _, employee := range employees {
		result[employee.ID] = employee.HoTen
	}
	return result, nil
}

func (s *Service) GetDetails(ctx context.Context, id string) (*EmployeeDetails, error) {
	employee, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	children, err := s.repo.LoadChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EmployeeDetails{Employee: *employee, Children: children}, nil
}

func (s *Service) Create(ctx context.Context, input EmployeeDetails) (*EmployeeDetails, error) {
	employee := input.Employee
	if err := normalizeEmployee(&employee); err != nil {
		return nil, err
	}
	employee.ID = uuid.NewString()
	children := prepareChildren(employee.ID, input.Children)

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateEmployee(ctx, &employee); err != nil {
			return err
		}
		return tx.ReplaceChildren(ctx, employee.ID, children)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, table, shared.ActionInsert, employee.ID)
	return &EmployeeDetails{Employee: employee, Children: children}, nil
}

// Update overwrites the employee row and replaces all four child lists.
func (s *Service) Update(ctx context.Context, id string, input EmployeeDetails) (*EmployeeDetails, error) {
	employee := input.Employee
	if err := normalizeEmployee(&employee); err != nil {
		return nil, err
	}
	employee.ID = id
	children := prepareChildren(id, input.Children)

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetEmployee(ctx, id)
		if err != nil {
			return err
		}
		employee.CreatedAt = current.CreatedAt
		if err := tx.UpdateEmployee(ctx, &employee); err != nil {
			return err
		}
		return tx.ReplaceChildren(ctx, id, children)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, table, shared.ActionUpdate, id)
	return &EmployeeDetails{Employee: employee, Children: children}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteEmployee(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEmployeeNotFound
	}
	s.notifier.Notify(ctx, table, shared.ActionDelete, id)
	return nil
}

// BulkCreate inserts prepared employees in one transaction and returns how
// many were stored.
func (s *Service) BulkCreate(ctx context.Context, employees []Employee) (int, error) {
	prepared := make([]Employee, 0, len(employees))
	for _, employee := range employees {
		if err := normalizeEmployee(&employee); err != nil {
			continue
		}
		employee.ID = uuid.NewString()
		prepared = append(prepared, employee)
	}
	if len(prepared) == 0 {
		return 0, ErrEmptyImport
	}

	if err := s.repo.CreateEmployees(ctx, prepared); err != nil {
		return 0, err
	}

	s.notifier.Notify(ctx, table, shared.ActionInsert, "")
	return len(prepared), nil
}

// BulkUpdate sets the same status and/or category on every selected
// employee. Repeating it leaves the rows unchanged.
func (s *Service) BulkUpdate(ctx context.Context, input BulkUpdateInput) (int64, error) {
	ids := uniqueIDs(input.IDs)
	if len(ids) == 0 {
		return 0, ErrNoEmployeeSelected
	}

	fields := map[string]interface{}{}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if status != "" {
			fields["trang_thai"] = status
		}
	}
	if input.Category != nil {
		fields["doi_tuong"] = strings.TrimSpace(*input.Category)
	}
	if len(fields) == 0 {
		return 0, ErrNoFieldsToUpdate
	}

	updated, err := s.repo.BulkUpdateEmployees(ctx, ids, fields)
	if err != nil {
		return 0, err
	}

	s.notifier.Notify(ctx, table, shared.ActionUpdate, "")
	return updated, nil
}

func normalizeEmployee(employee *Employee) error {
	employee.HoTen = strings.TrimSpace(employee.HoTen)
	if employee.HoTen == "" {
		return ErrNameRequired
	}
	employee.DoiTuong = strings.TrimSpace(employee.DoiTuong)
	employee.TrangThai = strings.TrimSpace(employee.TrangThai)
	if employee.TrangThai == "" {
		employee.TrangThai = StatusActive
	}
	return nil
}

func prepareChildren(employeeID string, in Children) Children {
	out := Children{
		FamilyMembers:   make([]FamilyMember, 0, len(in.FamilyMembers)),
		WorkHistory:     make([]WorkHistory, 0, len(in.WorkHistory)),
		TrainingHistory: make([]TrainingHistory, 0, len(in.TrainingHistory)),
		SalaryHistory:   make([]SalaryHistory, 0, len(in.SalaryHistory)),
	}
	for i, item := range in.FamilyMembers {
		item.ID = uuid.NewString()
		item.EmployeeID = employeeID
		item.SortOrder = i
		out.FamilyMembers = append(out.FamilyMembers, item)
	}
	for i, item := range in.WorkHistory {
		item.ID = uuid.NewString()
		item.EmployeeID = employeeID
		item.SortOrder = i
		out.WorkHistory = append(out.WorkHistory, item)
	}
	for i, item := range in.TrainingHistory {
		item.ID = uuid.NewString()
		item.EmployeeID = employeeID
		item.SortOrder = i
		out.TrainingHistory = append(out.TrainingHistory, item)
	}
	for i, item := range in.SalaryHistory {
		item.ID = uuid.NewString()
		item.EmployeeID = employeeID
		item.SortOrder = i
		out.SalaryHistory = append(out.SalaryHistory, item)
	}
	return out
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
