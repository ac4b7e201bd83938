package location

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"populationservice/internal/api"
)

type MemoryRepositorySuite struct {
	suite.Suite
	repo *MemoryRepository
	ctx  context.Context
}

func (s *MemoryRepositorySuite) SetupTest() {
	s.repo = NewMemoryRepository()
	s.ctx = context.Background()
}

func TestMemoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(MemoryRepositorySuite))
}

func (s *MemoryRepositorySuite) newLocation(name string, male, female int) *Location {
	return &Location{
		Name:            name,
		MaleResidents:   male,
		FemaleResidents: female,
		TotalResidents:  male + female,
	}
}

func (s *MemoryRepositorySuite) TestCreateAssignsIDAndFinds() {
	created, err := s.repo.Create(s.ctx, s.newLocation("Lagos", 1, 5))
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, created.ID)

	found, err := s.repo.FindByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Lagos", found.Name)
	s.Equal(6, found.TotalResidents)
}

func (s *MemoryRepositorySuite) TestFindByIDUnknown() {
	_, err := s.repo.FindByID(s.ctx, uuid.New())
	s.Require().ErrorIs(err, api.ErrNotFound)
}

func (s *MemoryRepositorySuite) TestCreateRejectsDuplicateName() {
	_, err := s.repo.Create(s.ctx, s.newLocation("Lagos", 1, 5))
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, s.newLocation("Lagos", 2, 3))
	s.Require().ErrorIs(err, api.ErrDuplicate)
}

func (s *MemoryRepositorySuite) TestConcurrentCreatesSameNameOneWins() {
	const racers = 16

	var wg sync.WaitGroup
	errs := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.repo.Create(s.ctx, s.newLocation("Lagos", 1, 5))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, duplicates int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, api.ErrDuplicate):
			duplicates++
		}
	}
	s.Equal(1, succeeded)
	s.Equal(racers-1, duplicates)
}

func (s *MemoryRepositorySuite) TestFindAllInsertionOrder() {
	locations, err := s.repo.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(locations)

	for _, name := range []string{"Lagos", "Abuja", "Kano"} {
		_, err := s.repo.Create(s.ctx, s.newLocation(name, 1, 1))
		s.Require().NoError(err)
	}

	locations, err = s.repo.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(locations, 3)
	s.Equal("Lagos", locations[0].Name)
	s.Equal("Abuja", locations[1].Name)
	s.Equal("Kano", locations[2].Name)
}

func (s *MemoryRepositorySuite) TestFindAndUpdate() {
	created, err := s.repo.Create(s.ctx, s.newLocation("Lagos", 1, 5))
	s.Require().NoError(err)

	updated, err := s.repo.FindAndUpdate(s.ctx, created.ID, s.newLocation("New Lagos", 11, 15))
	s.Require().NoError(err)
	s.Equal(created.ID, updated.ID, "identity never changes across updates")
	s.Equal("New Lagos", updated.Name)
	s.Equal(26, updated.TotalResidents)
}

func (s *MemoryRepositorySuite) TestFindAndUpdateUnknownID() {
	_, err := s.repo.FindAndUpdate(s.ctx, uuid.New(), s.newLocation("Lagos", 1, 5))
	s.Require().ErrorIs(err, api.ErrNotFound)
}

func (s *MemoryRepositorySuite) TestFindAndUpdateNameCollision() {
	_, err := s.repo.Create(s.ctx, s.newLocation("Lagos", 1, 5))
	s.Require().NoError(err)
	other, err := s.repo.Create(s.ctx, s.newLocation("Abuja", 2, 2))
	s.Require().NoError(err)

	_, err = s.repo.FindAndUpdate(s.ctx, other.ID, s.newLocation("Lagos", 2, 2))
	s.Require().ErrorIs(err, api.ErrDuplicate)

	// keeping its own name is not a collision
	_, err = s.repo.FindAndUpdate(s.ctx, other.ID, s.newLocation("Abuja", 3, 3))
	s.Require().NoError(err)
}

func (s *MemoryRepositorySuite) TestFindAndDelete() {
	created, err := s.repo.Create(s.ctx, s.newLocation("Lagos", 1, 5))
	s.Require().NoError(err)

	s.Require().NoError(s.repo.FindAndDelete(s.ctx, created.ID))
	s.Require().ErrorIs(s.repo.FindAndDelete(s.ctx, created.ID), api.ErrNotFound)

	_, err = s.repo.FindByID(s.ctx, created.ID)
	s.Require().ErrorIs(err, api.ErrNotFound)
}
