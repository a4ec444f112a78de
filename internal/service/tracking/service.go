package tracking

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"irs-portal/internal/config"
	"irs-portal/internal/domain"
	"irs-portal/internal/pkg/trackingcode"
	"irs-portal/internal/repository"
	"irs-portal/internal/service/project"
)

// Service resolves public tracking codes into sanitized project views. It is
// the only unauthenticated read path in the system, so everything it returns
// goes through buildView and nothing else.
type Service interface {
	Resolve(ctx context.Context, code string) (*domain.TrackingView, error)
}

type service struct {
	repos  *repository.Repositories
	redis  *redis.Client
	config *config.Config
}

func NewService(repos *repository.Repositories, redisClient *redis.Client, cfg *config.Config) Service {
	return &service{repos: repos, redis: redisClient, config: cfg}
}

const cacheTTL = 30 * time.Second

func (s *service) Resolve(ctx context.Context, code string) (*domain.TrackingView, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	// Reject junk before touching storage: malformed codes cannot exist.
	if !trackingcode.Valid(code) {
		return nil, domain.ErrTrackingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.TrackingTimeout)
	defer cancel()

	cacheKey := "tracking:" + code
	if view := s.fromCache(ctx, cacheKey); view != nil {
		return view, nil
	}

	proj, err := s.repos.Project.GetByTrackingCode(ctx, code)
	if err == domain.ErrNotFound {
		return nil, domain.ErrTrackingNotFound
	}
	if err != nil {
		return nil, err
	}

	milestones, err := s.repos.Milestone.ListByProject(ctx, proj.ID)
	if err != nil {
		return nil, err
	}

	view := buildView(proj, milestones)
	s.toCache(ctx, cacheKey, view)
	return view, nil
}

func (s *service) fromCache(ctx context.Context, key string) *domain.TrackingView {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var view domain.TrackingView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil
	}
	return &view
}

func (s *service) toCache(ctx context.Context, key string, view *domain.TrackingView) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, cacheTTL).Err(); err != nil {
		log.Printf("Failed to cache tracking view: %v", err)
	}
}

const (
	placeholderOrigin      = "Pending Origin"
	placeholderDestination = "Pending Destination"
	placeholderVessel      = "Pending Assignment"
)

// buildView is the sanitization boundary. The output carries the tracking
// code as its only identifier; project id, client identity and contract
// value never cross it.
func buildView(proj *domain.Project, milestones []domain.Milestone) *domain.TrackingView {
	view := &domain.TrackingView{
		ID:       proj.TrackingCode,
		Status:   proj.Status.Label(),
		Category: proj.Category,
		ETA:      "TBD",
	}

	if proj.EndDate != nil {
		view.ETA = proj.EndDate.Format("2006-01-02")
	}

	if proj.Category == domain.CategorySupply {
		var meta domain.SupplyMetadata
		if len(proj.Metadata) > 0 {
			_ = json.Unmarshal(proj.Metadata, &meta)
		}
		view.Origin = orPlaceholder(meta.Origin, placeholderOrigin)
		view.Destination = orPlaceholder(meta.Destination, placeholderDestination)
		view.Vessel = orPlaceholder(meta.Vessel, placeholderVessel)
	} else {
		// Non-shipment services reuse the shipment-shaped page: the journey
		// is the project itself.
		view.Origin = "Project Start"
		view.Destination = "Project Completion"
		view.Vessel = proj.Category.Label()
	}

	ordered := make([]domain.Milestone, len(milestones))
	copy(ordered, milestones)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortOrder < ordered[j].SortOrder
	})

	progress := project.ComputeProgress(ordered)
	view.Progress = progress.Percent

	view.Events = make([]domain.TrackingEvent, len(ordered))
	for i, m := range ordered {
		event := domain.TrackingEvent{
			Date:      m.DueDate.Format("2006-01-02"),
			Location:  view.Destination,
			Status:    m.MilestoneName,
			Completed: m.IsCompleted,
		}
		if m.IsCompleted && m.CompletedAt != nil {
			event.Date = m.CompletedAt.Format("2006-01-02")
		}
		if progress.Current != nil && m.SortOrder == progress.Current.SortOrder {
			event.Current = true
		}
		view.Events[i] = event
	}

	return view
}

func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}
