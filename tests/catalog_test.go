package tests

import (
	"context"
	"testing"

	"barpos/internal/dto"
	"barpos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryLifecycle(t *testing.T) {
	repo := newStubCategoryRepo()
	svc := service.NewCategoryService(repo)

	created, err := svc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Spirits"})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	newName := "Spirits & Liqueurs"
	updated, err := svc.Update(context.Background(), uuid.MustParse(created.ID), dto.UpdateCategoryRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Spirits & Liqueurs", updated.Name)

	require.NoError(t, svc.Deactivate(context.Background(), uuid.MustParse(created.ID)))
	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed, "deactivated categories drop out of the listing")
}

func TestUnitCreateAndDelete(t *testing.T) {
	repo := newStubUnitRepo()
	svc := service.NewUnitService(repo)

	created, err := svc.Create(context.Background(), dto.CreateUnitRequest{Name: "milliliter", Abbreviation: "ml"})
	require.NoError(t, err)
	assert.Equal(t, "ml", created.Abbreviation)

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, svc.Delete(context.Background(), uuid.MustParse(created.ID)))
	listed, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)
}
