package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/r-miyahara/devices-api/internal/adapters/repos"
	"github.com/r-miyahara/devices-api/internal/config"
	"github.com/r-miyahara/devices-api/internal/domain/model"
	"github.com/r-miyahara/devices-api/internal/infrastructure"
	"github.com/r-miyahara/devices-api/pkg/circuitbreaker"
	"github.com/r-miyahara/devices-api/pkg/logger"
	"github.com/stretchr/testify/suite"
)

type IdempotencyRepositoryTestSuite struct {
	suite.Suite
	miniRedis   *miniredis.Miniredis
	keydbClient *infrastructure.KeydbClient
	repo        *repos.IdempotencyRepository
}

func TestIdempotencyRepositoryTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(IdempotencyRepositoryTestSuite))
}

func (s *IdempotencyRepositoryTestSuite) SetupTest() {
	var err error
	s.miniRedis, err = miniredis.Run()
	s.Require().NoError(err)

	cfg := config.Cache{
		Address:      s.miniRedis.Addr(),
		PoolSize:     5,
		DialTimeout:  time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}

	s.keydbClient = infrastructure.NewKeydbClient(cfg, logger.NewTestLogger())

	breaker := circuitbreaker.New[string](circuitbreaker.Config{
		Name:             "idempotency-test",
		Enabled:          true,
		FailureThreshold: 3,
		Timeout:          time.Second,
	})

	s.repo = repos.NewIdempotencyRepository(s.keydbClient, breaker)
}

func (s *IdempotencyRepositoryTestSuite) TearDownTest() {
	if s.keydbClient != nil {
		_ = s.keydbClient.Close()
	}
	if s.miniRedis != nil {
		s.miniRedis.Close()
	}
}

func (s *IdempotencyRepositoryTestSuite) TestGetMissingKey() {
	_, ok, err := s.repo.Get(context.Background(), "missing")

	s.Require().NoError(err)
	s.Require().False(ok)
}

func (s *IdempotencyRepositoryTestSuite) TestSaveAndGet() {
	ctx := context.Background()
	resourceID := model.NewDeviceID()

	err := s.repo.SaveIfAbsent(ctx, "create-key", resourceID, time.Now().UTC(), time.Hour)
	s.Require().NoError(err)

	got, ok, err := s.repo.Get(ctx, "create-key")
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Require().Equal(resourceID, got)
}

func (s *IdempotencyRepositoryTestSuite) TestFirstWriterWins() {
	ctx := context.Background()
	first := model.NewDeviceID()
	second := model.NewDeviceID()

	s.Require().NoError(s.repo.SaveIfAbsent(ctx, "create-key", first, time.Now().UTC(), time.Hour))
	s.Require().NoError(s.repo.SaveIfAbsent(ctx, "create-key", second, time.Now().UTC(), time.Hour))

	got, ok, err := s.repo.Get(ctx, "create-key")
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Require().Equal(first, got)
}

func (s *IdempotencyRepositoryTestSuite) TestExpiredKeyCanBeReclaimed() {
	ctx := context.Background()
	stale := model.NewDeviceID()
	fresh := model.NewDeviceID()

	s.Require().NoError(s.repo.SaveIfAbsent(ctx, "create-key", stale, time.Now().UTC(), time.Minute))

	s.miniRedis.FastForward(2 * time.Minute)

	_, ok, err := s.repo.Get(ctx, "create-key")
	s.Require().NoError(err)
	s.Require().False(ok)

	s.Require().NoError(s.repo.SaveIfAbsent(ctx, "create-key", fresh, time.Now().UTC(), time.Minute))

	got, ok, err := s.repo.Get(ctx, "create-key")
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Require().Equal(fresh, got)
}

func (s *IdempotencyRepositoryTestSuite) TestPurgeExpiredIsANoOp() {
	purged, err := s.repo.PurgeExpired(context.Background(), time.Now().UTC())

	s.Require().NoError(err)
	s.Require().Zero(purged)
}

func (s *IdempotencyRepositoryTestSuite) TestIsHealthy() {
	s.Require().True(s.repo.IsHealthy(context.Background()))

	s.miniRedis.Close()

	s.Require().False(s.repo.IsHealthy(context.Background()))
}
