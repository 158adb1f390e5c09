package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goabtest/adapters/stats/senses"
	"goabtest/domain/core"
	"goabtest/domain/dataset"
	"goabtest/domain/stats"
	"goabtest/internal"
	"goabtest/internal/analysis"
	apperrors "goabtest/internal/errors"
	"goabtest/internal/profiling"
	"goabtest/ports"

	"golang.org/x/sync/errgroup"
)

// MetricPlan binds a metric to the test that compares it
type MetricPlan struct {
	Metric      dataset.Metric
	Sense       senses.ComparisonSense
	Alternative stats.Alternative
	// Diagnose runs the normality assessor on both cohorts first
	Diagnose bool
	// ControlFirst hands the control cohort to the test as the first sample
	ControlFirst bool
}

// DefaultMetricPlans is the fixed test table. The conversion test takes its
// counts as [psa, ad] with alternative "larger"; the rank tests ask whether
// ad exceeds psa.
func DefaultMetricPlans(alpha float64) []MetricPlan {
	return []MetricPlan{
		{
			Metric:       dataset.MetricConverted,
			Sense:        senses.NewProportionZTestSense(alpha),
			Alternative:  stats.AlternativeGreater,
			ControlFirst: true,
		},
		{
			Metric:      dataset.MetricMostAdsHour,
			Sense:       senses.NewMannWhitneySense(alpha),
			Alternative: stats.AlternativeGreater,
			Diagnose:    true,
		},
		{
			Metric:      dataset.MetricTotalAds,
			Sense:       senses.NewMannWhitneySense(alpha),
			Alternative: stats.AlternativeGreater,
			Diagnose:    true,
		},
	}
}

// ABTestService runs the hypothesis test pipeline over the marketing dataset
type ABTestService struct {
	accessor  ports.DatasetAccessor
	repo      ports.ReportRepository
	normality senses.NormalitySense
	profiler  *profiling.DistributionAnalyzer
	plans     []MetricPlan
	alpha     float64
	workers   int
	logger    *internal.Logger
}

// NewABTestService creates the pipeline service. repo may be nil, in which case runs are not stored.
func NewABTestService(accessor ports.DatasetAccessor, repo ports.ReportRepository, logger *internal.Logger, workers int) *ABTestService {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ABTestService{
		accessor:  accessor,
		repo:      repo,
		normality: senses.NewAndersonDarlingSense(),
		profiler:  profiling.NewDistributionAnalyzer(),
		plans:     DefaultMetricPlans(stats.DefaultAlpha),
		alpha:     stats.DefaultAlpha,
		workers:   workers,
		logger:    logger.With("ABTestService"),
	}
}

// Run executes the pipeline on the dataset, optionally restricted to some test groups,
// and stores the resulting report.
func (s *ABTestService) Run(ctx context.Context, groups ...string) (*stats.PipelineReport, error) {
	start := time.Now()

	ds, err := s.accessor.Dataset(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load dataset")
	}
	ds = ds.FilterGroups(groups...)

	report, err := s.Evaluate(ctx, ds)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, report); err != nil {
			return nil, apperrors.Wrap(err, "failed to store pipeline report")
		}
	}

	s.logger.Info("Run %s completed in %v over %d users", report.ID, time.Since(start), report.DatasetSize)
	return report, nil
}

// Evaluate partitions the dataset and tests every planned metric. Schema problems
// abort the run; a metric that cannot be tested records its error and the others continue.
func (s *ABTestService) Evaluate(ctx context.Context, ds *dataset.Dataset) (*stats.PipelineReport, error) {
	partition, err := analysis.PartitionTreatment(ds)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Partitioned %d users: %d ad, %d psa",
		partition.PartitionStats.TotalEntities,
		partition.PartitionStats.TreatmentEntities,
		partition.PartitionStats.ControlEntities)

	metrics := make([]stats.MetricReport, len(s.plans))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, plan := range s.plans {
		i, plan := i, plan
		g.Go(func() error {
			report, err := s.evaluateMetric(gctx, plan, partition)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				s.logger.Warn("Metric %s not tested: %v", plan.Metric, err)
				report.Error = err.Error()
			}
			metrics[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &stats.PipelineReport{
		ID:          core.NewRunID(),
		CreatedAt:   time.Now().UTC(),
		DatasetSize: ds.Len(),
		DatasetHash: ds.Fingerprint(),
		Alpha:       s.alpha,
		Metrics:     metrics,
	}, nil
}

func (s *ABTestService) evaluateMetric(ctx context.Context, plan MetricPlan, partition *analysis.PartitionResult) (stats.MetricReport, error) {
	report := stats.MetricReport{
		Metric:    string(plan.Metric),
		Treatment: s.profiler.SummarizeCohort(plan.Metric, partition.Treatment),
		Control:   s.profiler.SummarizeCohort(plan.Metric, partition.Control),
		Compared:  []string{partition.Treatment.Name, partition.Control.Name},
	}

	treatment := partition.Treatment.Sample(plan.Metric)
	control := partition.Control.Sample(plan.Metric)

	if plan.Diagnose {
		for _, cohort := range []struct {
			name   string
			sample []float64
		}{
			{partition.Treatment.Name, treatment},
			{partition.Control.Name, control},
		} {
			assessment, err := s.normality.Assess(ctx, cohort.name, cohort.sample)
			if err != nil {
				if errors.Is(err, core.ErrInsufficientData) {
					continue
				}
				return report, err
			}
			report.Normality = append(report.Normality, assessment)
		}
	}

	first, second := treatment, control
	if plan.ControlFirst {
		first, second = control, treatment
		report.Compared[0], report.Compared[1] = report.Compared[1], report.Compared[0]
	}

	result, err := plan.Sense.Compare(ctx, first, second, plan.Alternative)
	if err != nil {
		return report, fmt.Errorf("%s: %w", plan.Sense.Name(), err)
	}
	report.Result = &result
	return report, nil
}

// GetReport loads a stored run
func (s *ABTestService) GetReport(ctx context.Context, id core.RunID) (*stats.PipelineReport, error) {
	if s.repo == nil {
		return nil, core.ErrRunNotFound
	}
	return s.repo.Get(ctx, id)
}

// ListReports returns the most recent stored runs
func (s *ABTestService) ListReports(ctx context.Context, limit int) ([]*stats.PipelineReport, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.List(ctx, limit)
}
