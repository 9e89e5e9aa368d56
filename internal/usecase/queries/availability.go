package queries

import (
	"context"
	"log/slog"
	"time"

	"salon-scheduler/internal/domain/catalog"
	"salon-scheduler/internal/domain/schedule"
	"salon-scheduler/internal/pkg/config"
	"salon-scheduler/internal/pkg/errs"
)

var ErrInvalidDate = errs.New("invalid availability date")

type AvailabilityQueries interface {
	GetDaySlots(ctx context.Context, date time.Time, selections []catalog.Selection) (*DayAvailabilityView, error)
}

// ScheduleReadStore aggregates the calendar inputs of one day: active
// booked intervals, blocked ranges, and the weekly opening hours.
type ScheduleReadStore interface {
	ActiveIntervals(ctx context.Context, date time.Time) ([]schedule.BookedInterval, error)
	BlockedForDate(ctx context.Context, date time.Time) ([]schedule.BlockedDate, error)
	WeekHours(ctx context.Context) (schedule.WeekHours, error)
}

// CatalogItemSource resolves the selected slugs to catalog entities for
// duration math. Kept separate from CatalogReadStore because this side
// needs domain entities, not views.
type CatalogItemSource interface {
	ActiveItems(ctx context.Context) (map[string]*catalog.ServiceItem, error)
}

type availabilityQueriesImpl struct {
	scheduleStore ScheduleReadStore
	catalogSource CatalogItemSource
	cfg           config.ScheduleConfig
}

func NewAvailabilityQueries(
	scheduleStore ScheduleReadStore,
	catalogSource CatalogItemSource,
	cfg config.ScheduleConfig,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		scheduleStore: scheduleStore,
		catalogSource: catalogSource,
		cfg:           cfg,
	}
}

func (q *availabilityQueriesImpl) GetDaySlots(
	ctx context.Context,
	date time.Time,
	selections []catalog.Selection,
) (*DayAvailabilityView, error) {
	items, err := q.catalogSource.ActiveItems(ctx)
	if err != nil {
		return nil, err
	}

	resolved := catalog.ResolveDuration(selections, items, catalog.DurationPolicy{
		PrepOverheadMinutes: q.cfg.PrepOverheadMinutes,
		DefaultDurationMin:  q.cfg.DefaultDurationMin,
	})
	for _, slug := range resolved.Unknown {
		slog.Warn("selection references unknown service", "slug", slug)
	}

	intervals, err := q.scheduleStore.ActiveIntervals(ctx, date)
	if err != nil {
		return nil, err
	}
	blocked, err := q.scheduleStore.BlockedForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	hours, err := q.scheduleStore.WeekHours(ctx)
	if err != nil {
		return nil, err
	}

	grid := schedule.Grid{StepMinutes: q.cfg.GridStepMinutes}
	slots := grid.BuildDaySlots(date, resolved.TotalMinutes, intervals, blocked, hours)

	view := &DayAvailabilityView{
		Date:            date.Format("2006-01-02"),
		DurationMinutes: resolved.TotalMinutes,
		Closed:          slots == nil,
	}
	for _, s := range slots {
		view.Slots = append(view.Slots, SlotView{Time: s.Label(), Available: s.Available})
	}
	view.AvailableCount = schedule.AvailableCount(slots)
	view.LowAvailability = !view.Closed && view.AvailableCount <= q.cfg.LowAvailability

	return view, nil
}
