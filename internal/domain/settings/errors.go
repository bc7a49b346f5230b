package settings

import "errors"

var (
	ErrSettingNotFound = errors.New("setting not found")
	ErrNotAnImage      = errors.New("background must be an image")
	ErrNoFile          = errors.New("no file uploaded")
	ErrEmptyMenuOrder  = errors.New("menu order is empty")
)
