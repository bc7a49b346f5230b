package analytics

import (
	"context"
	"strings"
	"sync"
	"time"
)

const defaultOverviewTTL = 30 * time.Second

type Service struct {
	repo  Repository
	loc   *time.Location
	ttl   time.Duration
	cache overviewCache
	now   func() time.Time
}

// NewService caches the overview for ttl. A negative ttl disables caching.
func NewService(repo Repository, loc *time.Location, ttl time.Duration) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if ttl == 0 {
		ttl = defaultOverviewTTL
	}
	return &Service{repo: repo, loc: loc, ttl: ttl, now: time.Now}
}

func (s *Service) Overview(ctx context.Context) (Overview, error) {
	now := s.now()
	if s.ttl > 0 {
		if cached, ok := s.cache.Get(now); ok {
			return cached, nil
		}
	}

	var (
		result Overview
		err    error
	)
	if result.EmployeesByStatus, err = s.repo.EmployeesByStatus(ctx); err != nil {
		return Overview{}, err
	}
	if result.EmployeesByCategory, err = s.repo.EmployeesByCategory(ctx); err != nil {
		return Overview{}, err
	}
	if result.PendingLeave, err = s.repo.CountPendingLeave(ctx); err != nil {
		return Overview{}, err
	}
	if result.Cards, err = s.repo.CardSummary(ctx); err != nil {
		return Overview{}, err
	}

	local := now.In(s.loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	if result.SchedulesToday, err = s.repo.CountSchedulesBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1)); err != nil {
		return Overview{}, err
	}
	result.GeneratedAt = now.UTC()

	if s.ttl > 0 {
		s.cache.Set(result, now.Add(s.ttl))
	}
	return result, nil
}

// Borrows returns borrow counts per period over [From, To]. Both bounds are
// calendar days in the service location.
func (s *Service) Borrows(ctx context.Context, filter BorrowFilter) ([]BorrowPoint, error) {
	filter.GroupBy = strings.ToLower(strings.TrimSpace(filter.GroupBy))
	if filter.GroupBy == "" {
		filter.GroupBy = GroupByDay
	}
	switch filter.GroupBy {
	case GroupByDay, GroupByWeek, GroupByMonth:
	default:
		return nil, ErrInvalidGroupBy
	}

	if filter.From.IsZero() || filter.To.IsZero() || filter.To.Before(filter.From) {
		return nil, ErrInvalidRange
	}
	if daysBetweenInclusive(filter.From, filter.To) > MaxRangeDays {
		return nil, ErrRangeTooLong
	}

	from := filter.From.In(s.loc)
	to := filter.To.In(s.loc)
	filter.From = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, s.loc)
	filter.To = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, 1)
	filter.Timezone = s.loc.String()

	points, err := s.repo.BorrowTimeseries(ctx, filter)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []BorrowPoint{}
	}
	return points, nil
}

func daysBetweenInclusive(from, to time.Time) int {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

type overviewCache struct {
	mu        sync.RWMutex
	value     Overview
	expiresAt time.Time
	set       bool
}

func (c *overviewCache) Get(now time.Time) (Overview, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.set || !c.expiresAt.After(now) {
		return Overview{}, false
	}
	return cloneOverview(c.value), true
}

func (c *overviewCache) Set(value Overview, expiresAt time.Time) {
	c.mu.Lock()
	c.value = cloneOverview(value)
	c.expiresAt = expiresAt
	c.set = true
	c.mu.Unlock()
}

func cloneOverview(value Overview) Overview {
	value.EmployeesByStatus = cloneGroups(value.EmployeesByStatus)
	value.EmployeesByCategory = cloneGroups(value.EmployeesByCategory)
	return value
}

func cloneGroups(groups []GroupCount) []GroupCount {
	if groups == nil {
		return nil
	}
	cloned := make([]GroupCount, len(groups))
	copy(cloned, groups)
	return cloned
}
