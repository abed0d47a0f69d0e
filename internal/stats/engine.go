package stats

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/womencount/womencount/internal/model"
	"github.com/womencount/womencount/internal/repository"
)

// ErrStoreUnavailable indicates the record store could not be read.
// The engine performs no retries; retry policy belongs to the caller.
var ErrStoreUnavailable = errors.New("record store unavailable")

// noDataSentinel is reported as topRegion/topActivity for an empty
// record set.
const noDataSentinel = "N/A"

// recentTrendLen is how many trailing monthly entries the summary keeps.
const recentTrendLen = 3

// RecordSource supplies the record set the engine aggregates over.
type RecordSource interface {
	ListWomen(ctx context.Context, filter repository.WomanFilter) ([]*model.Woman, error)
}

// Engine computes statistics reports on demand.
type Engine struct {
	source RecordSource
}

// NewEngine creates a new Engine.
func NewEngine(source RecordSource) *Engine {
	return &Engine{source: source}
}

// Report reads the full current record set and builds a fresh report.
func (e *Engine) Report(ctx context.Context) (*model.StatsReport, error) {
	women, err := e.source.ListWomen(ctx, repository.WomanFilter{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return BuildReport(women), nil
}

// BuildReport assembles the full report from an in-memory record set.
// The facets are independent reductions over the same snapshot, so
// they run concurrently; the summary is derived from the joined
// results afterwards.
func BuildReport(women []*model.Woman) *model.StatsReport {
	report := &model.StatsReport{
		TotalCount: len(women),
	}

	g := new(errgroup.Group)
	g.Go(func() error { report.ByRegion = ByRegion(women); return nil })
	g.Go(func() error { report.AgeDistribution = AgeDistribution(women); return nil })
	g.Go(func() error { report.ActivityStats = ByActivity(women); return nil })
	g.Go(func() error { report.DepartmentStats = ByDepartment(women); return nil })
	g.Go(func() error { report.MonthlyTrends = MonthlyTrends(women); return nil })
	g.Go(func() error { report.CommuneStats = ByCommune(women); return nil })
	g.Go(func() error { report.ActivityByRegion = ActivityByRegion(women); return nil })
	g.Go(func() error { report.AgeGroupByActivity = AgeGroupByActivity(women); return nil })
	// The reductions are pure and never fail.
	_ = g.Wait()

	report.Summary = summarize(report)

	return report
}

// summarize derives the headline digest from the computed facets.
func summarize(report *model.StatsReport) model.StatsSummary {
	summary := model.StatsSummary{
		TotalWomen:       report.TotalCount,
		TopRegion:        noDataSentinel,
		TopActivity:      noDataSentinel,
		TotalDepartments: len(report.DepartmentStats),
		TotalCommunes:    len(report.CommuneStats),
	}

	if len(report.ByRegion) > 0 {
		summary.TopRegion = report.ByRegion[0].Region

		// Unweighted mean of the per-region means. This mirrors the
		// upstream computation exactly; it is not a record-weighted
		// global average.
		var sum float64
		for _, r := range report.ByRegion {
			sum += r.AverageAge
		}
		summary.AverageAgeOverall = sum / float64(len(report.ByRegion))
	}

	if len(report.ActivityStats) > 0 {
		summary.TopActivity = report.ActivityStats[0].Activity
	}

	trends := report.MonthlyTrends
	if len(trends) > recentTrendLen {
		trends = trends[len(trends)-recentTrendLen:]
	}
	summary.RecentTrend = trends

	return summary
}
