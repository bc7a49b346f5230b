package personnel

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	ListEmployees(ctx context.Context, filter ListFilter) ([]Employee, int64, error)
	ListEmployeesByIDs(ctx context.Context, ids []string) ([]Employee, error)
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	CreateEmployee(ctx context.Context, employee *Employee) error
	CreateEmployees(ctx context.Context, employees []Employee) error
	UpdateEmployee(ctx context.Context, employee *Employee) error
	DeleteEmployee(ctx context.Context, id string) (bool, error)
	BulkUpdateEmployees(ctx context.Context, ids []string, fields map[string]interface{}) (int64, error)
	LoadChildren(ctx context.Context, employeeID string) (Children, error)
	ReplaceChildren(ctx context.Context, employeeID string, children Children) error
}
