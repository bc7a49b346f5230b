package personnel

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	personneldomain "hospital-admin-go/internal/domain/personnel"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(personneldomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListEmployees(ctx context.Context, filter personneldomain.ListFilter) ([]personneldomain.Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&personneldomain.Employee{})
	if filter.Category != "" {
		query = query.Where("doi_tuong = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("trang_thai = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		like := "%" + search + "%"
		query = query.Where("ho_ten ILIKE ? OR so_cccd ILIKE ? OR so_hieu_quan_nhan ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("ho_ten asc, created_at asc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var employees []personneldomain.Employee
	if err := query.Find(&employees).Error; err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *PostgresRepository) ListEmployeesByIDs(ctx context.Context, ids []string) ([]personneldomain.Employee, error) {
	if len(ids) == 0 {
		return []personneldomain.Employee{}, nil
	}
	var employees []personneldomain.Employee
	if err := r.db.WithContext(ctx).
		Select("id", "ho_ten").
		Where("id IN ?", ids).
		Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *PostgresRepository) GetEmployee(ctx context.Context, id string) (*personneldomain.Employee, error) {
	var employee personneldomain.Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, personneldomain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &employee, nil
}

func (r *PostgresRepository) CreateEmployee(ctx context.Context, employee *personneldomain.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *PostgresRepository) CreateEmployees(ctx context.Context, employees []personneldomain.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(employees, 200).Error
}

func (r *PostgresRepository) UpdateEmployee(ctx context.Context, employee *personneldomain.Employee) error {
	result := r.db.WithContext(ctx).
		Model(employee).
		Select("*").
		Omit("id", "created_at").
		Updates(employee)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return personneldomain.ErrEmployeeNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteEmployee(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&personneldomain.Employee{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) BulkUpdateEmployees(ctx context.Context, ids []string, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&personneldomain.Employee{}).
		Where("id IN ?", ids).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) LoadChildren(ctx context.Context, employeeID string) (personneldomain.Children, error) {
	children := personneldomain.Children{
		FamilyMembers:   []personneldomain.FamilyMember{},
		WorkHistory:     []personneldomain.WorkHistory{},
		TrainingHistory: []personneldomain.TrainingHistory{},
		SalaryHistory:   []personneldomain.SalaryHistory{},
	}

	db := r.db.WithContext(ctx)
	if err := db.Where("employee_id = ?", employeeID).Order("sort_order asc").Find(&children.FamilyMembers).Error; err != nil {
		return children, err
	}
	if err := db.Where("employee_id = ?", employeeID).Order("sort_order asc").Find(&children.WorkHistory).Error; err != nil {
		return children, err
	}
	if err := db.Where("employee_id = ?", employeeID).Order("sort_order asc").Find(&children.TrainingHistory).Error; err != nil {
		return children, err
	}
	if err := db.Where("employee_id = ?", employeeID).Order("sort_order asc").Find(&children.SalaryHistory).Error; err != nil {
		return children, err
	}
	return children, nil
}

// ReplaceChildren deletes and re-inserts all four lists. Call inside
// Transaction.
func (r *PostgresRepository) ReplaceChildren(ctx context.Context, employeeID string, children personneldomain.Children) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("employee_id = ?", employeeID).Delete(&personneldomain.FamilyMember{}).Error; err != nil {
		return err
	}
	if err := db.Where("employee_id = ?", employeeID).Delete(&personneldomain.WorkHistory{}).Error; err != nil {
		return err
	}
	if err := db.Where("employee_id = ?", employeeID).Delete(&personneldomain.TrainingHistory{}).Error; err != nil {
		return err
	}
	if err := db.Where("employee_id = ?", employeeID).Delete(&personneldomain.SalaryHistory{}).Error; err != nil {
		return err
	}

	if len(children.FamilyMembers) > 0 {
		if err := db.Create(&children.FamilyMembers).Error; err != nil {
			return err
		}
	}
	if len(children.WorkHistory) > 0 {
		if err := db.Create(&children.WorkHistory).Error; err != nil {
			return err
		}
	}
	if len(children.TrainingHistory) > 0 {
		if err := db.Create(&children.TrainingHistory).Error; err != nil {
			return err
		}
	}
	if len(children.SalaryHistory) > 0 {
		if err := db.Create(&children.SalaryHistory).Error; err != nil {
			return err
		}
	}
	return nil
}
