package unit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"irs-portal/internal/domain"
	"irs-portal/internal/service/badge"
	"irs-portal/tests/mocks"
)

func TestBadgeAggregator_CachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	mockNotifRepo := new(mocks.NotificationRepository)
	agg := badge.NewAggregator(mockNotifRepo, nil)

	counts := domain.UnreadCounts{domain.NotifMessage: 3, domain.NotifDocument: 1}
	mockNotifRepo.On("CountUnreadByType", ctx, userID).Return(counts, nil).Once()

	first, err := agg.Counts(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), first[domain.NotifMessage])

	// Second read is served from cache: the single .Once() expectation would
	// fail if the repository were hit again.
	second, err := agg.Counts(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	mockNotifRepo.AssertExpectations(t)
}

func TestBadgeAggregator_InvalidateForcesRequery(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	mockNotifRepo := new(mocks.NotificationRepository)
	agg := badge.NewAggregator(mockNotifRepo, nil)

	mockNotifRepo.On("CountUnreadByType", ctx, userID).
		Return(domain.UnreadCounts{domain.NotifMessage: 3}, nil).Once()
	mockNotifRepo.On("CountUnreadByType", ctx, userID).
		Return(domain.UnreadCounts{domain.NotifMessage: 0}, nil).Once()

	before, err := agg.Counts(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), before[domain.NotifMessage])

	agg.Invalidate(userID)

	after, err := agg.Counts(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), after[domain.NotifMessage])
	mockNotifRepo.AssertExpectations(t)
}

func TestBadgeAggregator_ServesStaleOnRefreshFailure(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	mockNotifRepo := new(mocks.NotificationRepository)
	agg := badge.NewAggregator(mockNotifRepo, nil)

	mockNotifRepo.On("CountUnreadByType", ctx, userID).
		Return(domain.UnreadCounts{domain.NotifMilestone: 2}, nil).Once()
	mockNotifRepo.On("CountUnreadByType", ctx, userID).
		Return(nil, errors.New("connection reset")).Once()

	_, err := agg.Counts(ctx, userID)
	assert.NoError(t, err)

	agg.Invalidate(userID)

	stale, err := agg.Counts(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stale[domain.NotifMilestone])
}

func TestBadgeAggregator_NoCacheErrorPropagates(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	mockNotifRepo := new(mocks.NotificationRepository)
	agg := badge.NewAggregator(mockNotifRepo, nil)

	mockNotifRepo.On("CountUnreadByType", ctx, userID).
		Return(nil, errors.New("connection reset")).Once()

	_, err := agg.Counts(ctx, userID)
	assert.Error(t, err)
}
