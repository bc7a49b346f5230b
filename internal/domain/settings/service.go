package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hospital-admin-go/internal/domain/shared"
)

const table = "app_settings"

type Service struct {
	repo     Repository
	uploader shared.Uploader
	notifier shared.Notifier
	modules  []string
	now      func() time.Time
}

// NewService takes the known module ids; stored menu orders are reconciled
// against them.
func NewService(repo Repository, uploader shared.Uploader, notifier shared.Notifier, modules []string) *Service {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	return &Service{
		repo:     repo,
		uploader: uploader,
		notifier: notifier,
		modules:  modules,
		now:      time.Now,
	}
}

// Background returns the current background URL, or "" when none is set.
func (s *Service) Background(ctx context.Context) (string, error) {
	setting, err := s.repo.GetSetting(ctx, KeyBackgroundImage)
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}

func (s *Service) UploadBackground(ctx context.Context, file shared.File) (string, error) {
	if file.Body == nil || file.Name == "" {
		return "", ErrNoFile
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return "", ErrNotAnImage
	}

	url, err := s.uploader.Upload(ctx, file)
	if err != nil {
		return "", err
	}
	if err := s.put(ctx, KeyBackgroundImage, url); err != nil {
		return "", err
	}
	return url, nil
}

// MenuOrder returns the saved order with unknown ids dropped and modules
// missing from it appended in their default order.
func (s *Service) MenuOrder(ctx context.Context) ([]string, error) {
	setting, err := s.repo.GetSetting(ctx, KeyMenuOrder)
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) {
			return s.reconcile(nil), nil
		}
		return nil, err
	}

	var saved []string
	if err := json.Unmarshal([]byte(setting.Value), &saved); err != nil {
		return s.reconcile(nil), nil
	}
	return s.reconcile(saved), nil
}

func (s *Service) SaveMenuOrder(ctx context.Context, order []string) ([]string, error) {
	if len(order) == 0 {
		return nil, ErrEmptyMenuOrder
	}
	order = s.reconcile(order)

	encoded, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("encode menu order: %w", err)
	}
	if err := s.put(ctx, KeyMenuOrder, string(encoded)); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) put(ctx context.Context, key, value string) error {
	setting := AppSetting{Key: key, Value: value, UpdatedAt: s.now().UTC()}
	if err := s.repo.UpsertSetting(ctx, &setting); err != nil {
		return err
	}
	s.notifier.Notify(ctx, table, shared.ActionUpdate, key)
	return nil
}

func (s *Service) reconcile(order []string) []string {
	known := make(map[string]bool, len(s.modules))
	for _, module := range s.modules {
		known[module] = true
	}

	result := make([]string, 0, len(s.modules))
	seen := make(map[string]bool, len(s.modules))
	for _, id := range order {
		id = strings.TrimSpace(id)
		if !known[id] || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	for _, module := range s.modules {
		if !seen[module] {
			result = append(result, module)
		}
	}
	return result
}
