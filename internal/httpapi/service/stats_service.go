package service

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"rateme/internal/cache"
	"rateme/internal/httpapi/repository"
)

// StatsService serves the aggregate lecturer statistics, optionally through
// a Redis read-through cache. Statistics are always computed from the
// feedback rows, never stored.
type StatsService interface {
	LecturerStats(ctx context.Context, lecturerID string) (*repository.LecturerStats, error)
}

type statsService struct {
	feedbackRepo repository.FeedbackRepository
	statsCache   *cache.StatsCache // nil disables caching
	log          *slog.Logger
}

func NewStatsService(feedbackRepo repository.FeedbackRepository, statsCache *cache.StatsCache, log *slog.Logger) StatsService {
	return &statsService{
		feedbackRepo: feedbackRepo,
		statsCache:   statsCache,
		log:          log,
	}
}

func (s *statsService) LecturerStats(ctx context.Context, lecturerID string) (*repository.LecturerStats, error) {
	if s.statsCache != nil {
		stats, err := s.statsCache.Get(ctx, lecturerID)
		if err == nil {
			return stats, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("stats cache read failed, falling back to database", "lecturer_id", lecturerID, "error", err)
		}
	}

	stats, err := s.feedbackRepo.LecturerStats(lecturerID)
	if err != nil {
		return nil, err
	}

	if s.statsCache != nil {
		if err := s.statsCache.Set(ctx, lecturerID, stats); err != nil {
			s.log.Warn("stats cache write failed", "lecturer_id", lecturerID, "error", err)
		}
	}

	return stats, nil
}

// ChartLabels are the category names in chart order.
var ChartLabels = []string{"Overall", "Teaching", "Communication", "Engagement"}

// ChartData returns the four averages rounded to two decimals, matching
// ChartLabels positionally.
func ChartData(stats *repository.LecturerStats) []float64 {
	round2 := func(v float64) float64 { return math.Round(v*100) / 100 }
	return []float64{
		round2(stats.AvgRating),
		round2(stats.AvgTeaching),
		round2(stats.AvgCommunication),
		round2(stats.AvgEngagement),
	}
}
