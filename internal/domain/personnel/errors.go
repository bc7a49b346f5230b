package personnel

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrNameRequired       = errors.New("ho_ten is required")
	ErrNoEmployeeSelected = errors.New("no employee selected")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrEmptyImport        = errors.New("no rows with a name to import")
)
