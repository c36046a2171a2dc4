package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/internal/domain/enum"
	"github.com/pawmark/vetcare-api/internal/domain/repository"
	"github.com/pawmark/vetcare-api/pkg/apperror"
)

type fakeDiseaseCaseRepo struct {
	cases map[uuid.UUID]*entity.DiseaseCase
}

func (f *fakeDiseaseCaseRepo) Create(ctx context.Context, diseaseCase *entity.DiseaseCase) error {
	if diseaseCase.ID == uuid.Nil {
		diseaseCase.ID = uuid.New()
	}
	f.cases[diseaseCase.ID] = diseaseCase
	return nil
}

func (f *fakeDiseaseCaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.DiseaseCase, error) {
	return f.cases[id], nil
}

func (f *fakeDiseaseCaseRepo) List(ctx context.Context, params *repository.DiseaseCaseFilterParams) ([]entity.DiseaseCase, int64, error) {
	return nil, 0, nil
}

func (f *fakeDiseaseCaseRepo) Update(ctx context.Context, diseaseCase *entity.DiseaseCase) error {
	f.cases[diseaseCase.ID] = diseaseCase
	return nil
}

func (f *fakeDiseaseCaseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.cases, id)
	return nil
}

func (f *fakeDiseaseCaseRepo) CountByDiseaseAndCity(ctx context.Context, since *time.Time) ([]repository.DiseaseCount, error) {
	return nil, nil
}

func (f *fakeDiseaseCaseRepo) CountActive(ctx context.Context) (int64, error) { return 0, nil }

func newDiseaseCaseFixture(ownerCity *string) (*DiseaseCaseService, *fakeDiseaseCaseRepo, uuid.UUID) {
	petID := uuid.New()

	caseRepo := &fakeDiseaseCaseRepo{cases: map[uuid.UUID]*entity.DiseaseCase{}}
	petRepo := &fakePetRepo{pets: map[uuid.UUID]*entity.Pet{
		petID: {
			ID:       petID,
			Name:     "Biscuit",
			Customer: &entity.Customer{Name: "Amina Yusuf", City: ownerCity},
		},
	}}

	return NewDiseaseCaseService(caseRepo, petRepo), caseRepo, petID
}

func strptr(s string) *string { return &s }

func TestCreateDiseaseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults city to owner's city", func(t *testing.T) {
		svc, _, petID := newDiseaseCaseFixture(strptr("Nakuru"))

		diseaseCase, err := svc.CreateDiseaseCase(ctx, &CreateDiseaseCaseInput{
			PetID:         petID,
			DiseaseName:   "Parvovirus",
			DiagnosisDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		require.NotNil(t, diseaseCase.City)
		assert.Equal(t, "Nakuru", *diseaseCase.City)
		assert.Equal(t, enum.CaseStatusActive, diseaseCase.Status)
	})

	t.Run("explicit city wins over owner's", func(t *testing.T) {
		svc, _, petID := newDiseaseCaseFixture(strptr("Nakuru"))

		diseaseCase, err := svc.CreateDiseaseCase(ctx, &CreateDiseaseCaseInput{
			PetID:       petID,
			DiseaseName: "Parvovirus",
			City:        strptr("Eldoret"),
		})
		require.NoError(t, err)
		require.NotNil(t, diseaseCase.City)
		assert.Equal(t, "Eldoret", *diseaseCase.City)
	})

	t.Run("no city anywhere stays nil", func(t *testing.T) {
		svc, _, petID := newDiseaseCaseFixture(nil)

		diseaseCase, err := svc.CreateDiseaseCase(ctx, &CreateDiseaseCaseInput{
			PetID:       petID,
			DiseaseName: "Kennel cough",
		})
		require.NoError(t, err)
		assert.Nil(t, diseaseCase.City)
	})

	t.Run("zero diagnosis date defaults to now", func(t *testing.T) {
		svc, _, petID := newDiseaseCaseFixture(nil)

		before := time.Now()
		diseaseCase, err := svc.CreateDiseaseCase(ctx, &CreateDiseaseCaseInput{
			PetID:       petID,
			DiseaseName: "Ringworm",
		})
		require.NoError(t, err)
		assert.False(t, diseaseCase.DiagnosisDate.Before(before))
	})

	t.Run("missing disease name", func(t *testing.T) {
		svc, _, petID := newDiseaseCaseFixture(nil)

		_, err := svc.CreateDiseaseCase(ctx, &CreateDiseaseCaseInput{PetID: petID})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	})

	t.Run("unknown pet", func(t *testing.T) {
		svc, _, _ := newDiseaseCaseFixture(nil)

		_, err := svc.CreateDiseaseCase(ctx, &CreateDiseaseCaseInput{
			PetID:       uuid.New(),
			DiseaseName: "Parvovirus",
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
	})
}

func TestUpdateDiseaseCase(t *testing.T) {
	ctx := context.Background()

	newCase := func(t *testing.T, svc *DiseaseCaseService, petID uuid.UUID) *entity.DiseaseCase {
		t.Helper()
		diseaseCase, err := svc.CreateDiseaseCase(ctx, &CreateDiseaseCaseInput{
			PetID:       petID,
			DiseaseName: "Parvovirus",
		})
		require.NoError(t, err)
		return diseaseCase
	}

	t.Run("marks case recovered", func(t *testing.T) {
		svc, _, petID := newDiseaseCaseFixture(nil)
		diseaseCase := newCase(t, svc, petID)

		status := enum.CaseStatusRecovered
		updated, err := svc.UpdateDiseaseCase(ctx, diseaseCase.ID, &UpdateDiseaseCaseInput{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, enum.CaseStatusRecovered, updated.Status)
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		svc, _, petID := newDiseaseCaseFixture(nil)
		diseaseCase := newCase(t, svc, petID)

		status := enum.CaseStatus("cured")
		_, err := svc.UpdateDiseaseCase(ctx, diseaseCase.ID, &UpdateDiseaseCaseInput{Status: &status})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	})

	t.Run("unknown case", func(t *testing.T) {
		svc, _, _ := newDiseaseCaseFixture(nil)

		_, err := svc.UpdateDiseaseCase(ctx, uuid.New(), &UpdateDiseaseCaseInput{})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
	})
}
