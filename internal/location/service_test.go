package location

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"populationservice/internal/api"
)

// failingRepository simulates an unavailable store.
type failingRepository struct {
	err error
}

func (r *failingRepository) Create(context.Context, *Location) (*Location, error) {
	return nil, r.err
}
func (r *failingRepository) FindByID(context.Context, uuid.UUID) (*Location, error) {
	return nil, r.err
}
func (r *failingRepository) FindAll(context.Context) ([]Location, error) { return nil, r.err }
func (r *failingRepository) FindAndUpdate(context.Context, uuid.UUID, *Location) (*Location, error) {
	return nil, r.err
}
func (r *failingRepository) FindAndDelete(context.Context, uuid.UUID) error { return r.err }

func TestServiceCreateDerivesTotal(t *testing.T) {
	service := NewService(NewMemoryRepository())

	created, err := service.Create(context.Background(),
		payloadFrom(t, `{"name":"Lagos","maleResidents":1,"femaleResidents":5}`))
	require.NoError(t, err)
	assert.Equal(t, 6, created.TotalResidents)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestServiceCreateIgnoresSubmittedTotal(t *testing.T) {
	service := NewService(NewMemoryRepository())

	created, err := service.Create(context.Background(),
		payloadFrom(t, `{"name":"Lagos","maleResidents":1,"femaleResidents":5,"totalResidents":9999}`))
	require.NoError(t, err)
	assert.Equal(t, 6, created.TotalResidents)
}

func TestServiceCreateValidationShortCircuits(t *testing.T) {
	// a repository that must never be reached
	service := NewService(&failingRepository{err: errors.New("unreachable")})

	_, err := service.Create(context.Background(), payloadFrom(t, `{}`))

	var validation *api.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t,
		[]string{msgNameRequired, msgMaleRequired, msgFemaleRequired},
		validation.Violations)
}

func TestServiceCreateDuplicate(t *testing.T) {
	service := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := service.Create(ctx, payloadFrom(t, `{"name":"Lagos","maleResidents":1,"femaleResidents":5}`))
	require.NoError(t, err)

	_, err = service.Create(ctx, payloadFrom(t, `{"name":"Lagos","maleResidents":2,"femaleResidents":3}`))
	assert.ErrorIs(t, err, api.ErrDuplicate)
}

func TestServiceUpdateRecomputesTotal(t *testing.T) {
	service := NewService(NewMemoryRepository())
	ctx := context.Background()

	created, err := service.Create(ctx, payloadFrom(t, `{"name":"Lagos","maleResidents":1,"femaleResidents":5}`))
	require.NoError(t, err)

	updated, err := service.Update(ctx, created.ID,
		payloadFrom(t, `{"name":"New Lagos","maleResidents":11,"femaleResidents":15}`))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 26, updated.TotalResidents)
}

func TestServiceUpdateUnknownID(t *testing.T) {
	service := NewService(NewMemoryRepository())

	_, err := service.Update(context.Background(), uuid.New(),
		payloadFrom(t, `{"name":"Lagos","maleResidents":1,"femaleResidents":5}`))
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestServiceDeleteTwice(t *testing.T) {
	service := NewService(NewMemoryRepository())
	ctx := context.Background()

	created, err := service.Create(ctx, payloadFrom(t, `{"name":"Lagos","maleResidents":1,"femaleResidents":5}`))
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.ID))
	assert.ErrorIs(t, service.Delete(ctx, created.ID), api.ErrNotFound)
}

func TestServiceStorageFailurePassesThroughUnclassified(t *testing.T) {
	storageErr := errors.New("connection refused")
	service := NewService(&failingRepository{err: storageErr})

	_, err := service.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, api.ErrNotFound)
	assert.NotErrorIs(t, err, api.ErrDuplicate)
}
