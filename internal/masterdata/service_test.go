package masterdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	_ "github.com/plastline/plastline-ops/testing"
)

type fakeRepo struct {
	finished    []FinishedGoodRef
	finishedErr error
	byType      map[ProductType][]ProductRef
	byTypeErr   map[ProductType]error
	machines    []MachineRef
	machinesErr error
	calls       int
}

func (f *fakeRepo) ListFinishedGoods(_ context.Context) ([]FinishedGoodRef, error) {
	f.calls++
	return f.finished, f.finishedErr
}

func (f *fakeRepo) ListProductsByType(_ context.Context, t ProductType) ([]ProductRef, error) {
	if err := f.byTypeErr[t]; err != nil {
		return nil, err
	}
	return f.byType[t], nil
}

func (f *fakeRepo) ListActiveMachines(_ context.Context) ([]MachineRef, error) {
	return f.machines, f.machinesErr
}

func (f *fakeRepo) GetProduct(_ context.Context, _ string) (Product, error) {
	return Product{}, errors.New("not implemented")
}

func (f *fakeRepo) GetMachine(_ context.Context, _ string) (Machine, error) {
	return Machine{}, errors.New("not implemented")
}

func TestReferenceDataLoadsAllLookups(t *testing.T) {
	repo := &fakeRepo{
		finished: []FinishedGoodRef{{ID: "fg-1", SKU: "GAL-5L", Name: "Gallon Water 5L"}},
		byType: map[ProductType][]ProductRef{
			ProductTypeRawMaterial: {{ID: "rm-1", SKU: "HDPE-01", Name: "HDPE Resin"}},
			ProductTypeMasterBatch: {{ID: "mb-1", SKU: "MB-BLUE", Name: "Blue Concentrate"}},
		},
		machines: []MachineRef{{ID: "m-1", Name: "Blow Molder 1", SerialNumber: "BM-001"}},
	}
	svc := NewService(repo, NewCache(nil, time.Minute), nil)

	data, err := svc.ReferenceData(context.Background())
	require.NoError(t, err)
	require.Len(t, data.FinishedGoods, 1)
	require.Len(t, data.RawMaterials, 1)
	require.Len(t, data.MasterBatches, 1)
	require.Len(t, data.Machines, 1)
}

func TestReferenceDataDegradesFailedLookupToEmpty(t *testing.T) {
	repo := &fakeRepo{
		finishedErr: errors.New("timeout"),
		byType: map[ProductType][]ProductRef{
			ProductTypeRawMaterial: {{ID: "rm-1", SKU: "HDPE-01", Name: "HDPE Resin"}},
		},
		byTypeErr: map[ProductType]error{
			ProductTypeMasterBatch: errors.New("timeout"),
		},
		machines: []MachineRef{{ID: "m-1", Name: "Blow Molder 1"}},
	}
	svc := NewService(repo, NewCache(nil, time.Minute), nil)

	data, err := svc.ReferenceData(context.Background())
	require.NoError(t, err)
	require.NotNil(t, data.FinishedGoods)
	require.Empty(t, data.FinishedGoods)
	require.NotNil(t, data.MasterBatches)
	require.Empty(t, data.MasterBatches)
	require.Len(t, data.RawMaterials, 1)
	require.Len(t, data.Machines, 1)
}

func TestReferenceDataUsesCacheOnSecondCall(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo := &fakeRepo{
		finished: []FinishedGoodRef{{ID: "fg-1", SKU: "GAL-5L", Name: "Gallon Water 5L"}},
	}
	svc := NewService(repo, NewCache(client, time.Minute), nil)

	_, err := svc.ReferenceData(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	data, err := svc.ReferenceData(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)
	require.Len(t, data.FinishedGoods, 1)
}

func TestReferenceDataDoesNotCacheDegradedLoad(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo := &fakeRepo{finishedErr: errors.New("timeout")}
	svc := NewService(repo, NewCache(client, time.Minute), nil)

	data, err := svc.ReferenceData(context.Background())
	require.NoError(t, err)
	require.Empty(t, data.FinishedGoods)
	require.Equal(t, 1, repo.calls)

	// The lookup recovers; the next request must hit the repo again rather
	// than serve the degraded snapshot for the remaining TTL.
	repo.finishedErr = nil
	repo.finished = []FinishedGoodRef{{ID: "fg-1", SKU: "GAL-5L", Name: "Gallon Water 5L"}}

	data, err = svc.ReferenceData(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)
	require.Len(t, data.FinishedGoods, 1)

	// The healthy result is cached.
	_, err = svc.ReferenceData(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)
}

func TestTypeLabel(t *testing.T) {
	require.Equal(t, "Raw Material", TypeLabel(ProductTypeRawMaterial))
	require.Equal(t, "Finished Good", TypeLabel(ProductTypeFinishedGood))
	require.Equal(t, "Master Batch", TypeLabel(ProductTypeMasterBatch))
	require.Equal(t, "Regrind Material", TypeLabel(ProductTypeRegrindMaterial))
}
