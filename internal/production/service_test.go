package production

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plastline/plastline-ops/internal/masterdata"
	"github.com/plastline/plastline-ops/internal/shared"
)

type fakeRunRepo struct {
	inserted  []Run
	insertErr error
	recent    []RunSummary
}

func (f *fakeRunRepo) InsertRun(_ context.Context, run Run) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	run.ID = "run-1"
	f.inserted = append(f.inserted, run)
	return run.ID, nil
}

func (f *fakeRunRepo) ListRecent(_ context.Context, _ int) ([]RunSummary, error) {
	return f.recent, nil
}

type fakeRefs struct {
	products map[string]masterdata.Product
	machines map[string]masterdata.Machine
}

func (f *fakeRefs) GetProduct(_ context.Context, id string) (masterdata.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return masterdata.Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (f *fakeRefs) GetMachine(_ context.Context, id string) (masterdata.Machine, error) {
	m, ok := f.machines[id]
	if !ok {
		return masterdata.Machine{}, shared.ErrNotFound
	}
	return m, nil
}

type fakeAuditor struct {
	entries []shared.AuditLog
}

func (f *fakeAuditor) Record(_ context.Context, entry shared.AuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func newTestRefs() *fakeRefs {
	return &fakeRefs{
		products: map[string]masterdata.Product{
			"prod-fg":  {ID: "prod-fg", SKU: "GAL-5L", Name: "Gallon Water 5L", Type: masterdata.ProductTypeFinishedGood},
			"prod-raw": {ID: "prod-raw", SKU: "HDPE-01", Name: "HDPE Resin", Type: masterdata.ProductTypeRawMaterial},
		},
		machines: map[string]masterdata.Machine{
			"mach-active": {ID: "mach-active", Name: "Blow Molder 1", Status: masterdata.MachineStatusActive},
			"mach-maint":  {ID: "mach-maint", Name: "Blow Molder 2", Status: masterdata.MachineStatusMaintenance},
		},
	}
}

func f64(v float64) *float64 {
	return &v
}

func validInput() RunInput {
	return RunInput{
		ProductID:            "prod-fg",
		MachineID:            "mach-active",
		TargetQuantity:       1200,
		ActualPiecesProduced: f64(1150),
		WasteQuantity:        12,
		RawMaterialBagsUsed:  f64(0),
		MasterBatchBagsUsed:  f64(0),
		Shift:                "DAY",
	}
}

func TestRecordValidationOrder(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*RunInput)
		wantErr error
	}{
		{"missing product", func(in *RunInput) { in.ProductID = "" }, ErrMissingFields},
		{"missing machine", func(in *RunInput) { in.MachineID = "" }, ErrMissingFields},
		{"missing shift", func(in *RunInput) { in.Shift = "" }, ErrMissingFields},
		{"bad shift", func(in *RunInput) { in.Shift = "EVENING" }, ErrInvalidShift},
		{"lowercase shift", func(in *RunInput) { in.Shift = "day" }, ErrInvalidShift},
		{"negative pieces", func(in *RunInput) { in.ActualPiecesProduced = f64(-1) }, ErrInvalidPieces},
		{"nan pieces", func(in *RunInput) { in.ActualPiecesProduced = f64(math.NaN()) }, ErrInvalidPieces},
		{"absent pieces", func(in *RunInput) { in.ActualPiecesProduced = nil }, ErrInvalidPieces},
		{"negative raw bags", func(in *RunInput) { in.RawMaterialBagsUsed = f64(-0.5) }, ErrInvalidRawBags},
		{"absent raw bags", func(in *RunInput) { in.RawMaterialBagsUsed = nil }, ErrInvalidRawBags},
		{"negative master bags", func(in *RunInput) { in.MasterBatchBagsUsed = f64(-2) }, ErrInvalidMasterBags},
		{"absent master bags", func(in *RunInput) { in.MasterBatchBagsUsed = nil }, ErrInvalidMasterBags},
		{"unknown product", func(in *RunInput) { in.ProductID = "nope" }, ErrProductNotFound},
		{"raw material product", func(in *RunInput) { in.ProductID = "prod-raw" }, ErrProductNotFG},
		{"unknown machine", func(in *RunInput) { in.MachineID = "nope" }, ErrMachineNotFound},
		{"machine in maintenance", func(in *RunInput) { in.MachineID = "mach-maint" }, ErrMachineNotActive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRunRepo{}
			svc := NewService(repo, newTestRefs(), nil, nil)
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Record(context.Background(), "user-1", in)
			require.ErrorIs(t, err, tc.wantErr)
			require.True(t, IsValidationError(err))
			require.Empty(t, repo.inserted)
		})
	}
}

func TestRecordFieldOrderStopsAtFirstFailure(t *testing.T) {
	// Shift is checked before the numeric fields, so a bad shift wins even
	// when pieces are negative too.
	svc := NewService(&fakeRunRepo{}, newTestRefs(), nil, nil)
	in := validInput()
	in.Shift = "WEEKEND"
	in.ActualPiecesProduced = f64(-5)
	_, err := svc.Record(context.Background(), "user-1", in)
	require.ErrorIs(t, err, ErrInvalidShift)
}

func TestRecordSuccess(t *testing.T) {
	repo := &fakeRunRepo{}
	audit := &fakeAuditor{}
	svc := NewService(repo, newTestRefs(), audit, nil)

	id, err := svc.Record(context.Background(), "user-1", validInput())
	require.NoError(t, err)
	require.Equal(t, "run-1", id)
	require.Len(t, repo.inserted, 1)

	run := repo.inserted[0]
	require.Equal(t, "user-1", run.CreatedBy)
	require.Equal(t, ShiftDay, run.Shift)
	require.Nil(t, run.RawMaterialID)
	require.Nil(t, run.MasterBatchID)

	require.Len(t, audit.entries, 1)
	require.Equal(t, "production_run.create", audit.entries[0].Action)
	require.Equal(t, "run-1", audit.entries[0].EntityID)
}

func TestRecordNormalisesOptionalFields(t *testing.T) {
	repo := &fakeRunRepo{}
	svc := NewService(repo, newTestRefs(), nil, nil)

	in := validInput()
	in.TargetQuantity = math.Inf(1)
	in.WasteQuantity = math.NaN()
	in.RawMaterialID = "prod-raw"
	in.RawMaterialBagsUsed = f64(3.5)

	_, err := svc.Record(context.Background(), "user-1", in)
	require.NoError(t, err)

	run := repo.inserted[0]
	require.Zero(t, run.TargetQuantity)
	require.Zero(t, run.WasteQuantity)
	require.NotNil(t, run.RawMaterialID)
	require.Equal(t, "prod-raw", *run.RawMaterialID)
	require.Equal(t, 3.5, run.RawMaterialBagsUsed)
}

func TestRecordPersistenceFailureIsNotValidation(t *testing.T) {
	repo := &fakeRunRepo{insertErr: errors.New("connection reset")}
	svc := NewService(repo, newTestRefs(), nil, nil)

	_, err := svc.Record(context.Background(), "user-1", validInput())
	require.Error(t, err)
	require.False(t, IsValidationError(err))
}

func TestRecentReturnsEmptySliceOnNoRows(t *testing.T) {
	svc := NewService(&fakeRunRepo{}, newTestRefs(), nil, nil)
	rows, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}
