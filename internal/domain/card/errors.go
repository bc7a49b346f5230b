package card

import "errors"

var (
	ErrCardNotFound       = errors.New("card not found")
	ErrCardExists         = errors.New("card number already exists")
	ErrCardLost           = errors.New("card is marked lost")
	ErrCardNumberRequired = errors.New("so_the is required")
	ErrPatientRequired    = errors.New("ten_benh_nhan is required")
	ErrRecordNotFound     = errors.New("card record not found")
	ErrAlreadyReturned    = errors.New("card already returned")
	ErrInvalidLeg         = errors.New("invalid handover leg")
	ErrInvalidHandover    = errors.New("invalid handover state")
	ErrNoRecordSelected   = errors.New("no record selected")
	ErrInvalidCardStatus  = errors.New("invalid card status")
	ErrEmptyImport        = errors.New("no importable rows")
)
