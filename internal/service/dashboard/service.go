package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"irs-portal/internal/domain"
	"irs-portal/internal/repository"
)

type Service interface {
	GetStats(ctx context.Context) (*Stats, error)
}

// Stats is the staff dashboard headline block.
type Stats struct {
	PendingRequests    int64 `json:"pending_requests"`
	ProjectsPlanning   int64 `json:"projects_planning"`
	ProjectsInProgress int64 `json:"projects_in_progress"`
	ProjectsOnHold     int64 `json:"projects_on_hold"`
	ProjectsCompleted  int64 `json:"projects_completed"`
}

type service struct {
	repos *repository.Repositories
	redis *redis.Client
}

func NewService(repos *repository.Repositories, redisClient *redis.Client) Service {
	return &service{repos: repos, redis: redisClient}
}

const (
	cacheKey = "dashboard:stats"
	cacheTTL = 60 * time.Second
)

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	if s.redis != nil {
		if data, err := s.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var stats Stats
			if err := json.Unmarshal(data, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats := &Stats{}
	var err error
	if stats.PendingRequests, err = s.repos.Request.CountByStatus(ctx, domain.RequestPending); err != nil {
		return nil, err
	}
	if stats.ProjectsPlanning, err = s.repos.Project.CountByStatus(ctx, domain.ProjectPlanning); err != nil {
		return nil, err
	}
	if stats.ProjectsInProgress, err = s.repos.Project.CountByStatus(ctx, domain.ProjectInProgress); err != nil {
		return nil, err
	}
	if stats.ProjectsOnHold, err = s.repos.Project.CountByStatus(ctx, domain.ProjectOnHold); err != nil {
		return nil, err
	}
	if stats.ProjectsCompleted, err = s.repos.Project.CountByStatus(ctx, domain.ProjectCompleted); err != nil {
		return nil, err
	}

	if s.redis != nil {
		data, _ := json.Marshal(stats)
		if err := s.redis.Set(ctx, cacheKey, data, cacheTTL).Err(); err != nil {
			log.Printf("Failed to cache dashboard stats: %v", err)
		}
	}
	return stats, nil
}
