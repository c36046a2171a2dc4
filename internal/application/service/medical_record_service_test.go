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
	"github.com/pawmark/vetcare-api/internal/domain/repository"
	"github.com/pawmark/vetcare-api/pkg/apperror"
)

type fakeMedicalRecordRepo struct {
	records map[uuid.UUID]*entity.MedicalRecord
	byPet   []entity.MedicalRecord
}

func (f *fakeMedicalRecordRepo) Create(ctx context.Context, record *entity.MedicalRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.records[record.ID] = record
	return nil
}

func (f *fakeMedicalRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.MedicalRecord, error) {
	return f.records[id], nil
}

func (f *fakeMedicalRecordRepo) List(ctx context.Context, params *repository.MedicalRecordFilterParams) ([]entity.MedicalRecord, int64, error) {
	return nil, 0, nil
}

func (f *fakeMedicalRecordRepo) ListByPet(ctx context.Context, petID uuid.UUID) ([]entity.MedicalRecord, error) {
	return f.byPet, nil
}

func (f *fakeMedicalRecordRepo) Update(ctx context.Context, record *entity.MedicalRecord) error {
	f.records[record.ID] = record
	return nil
}

func (f *fakeMedicalRecordRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.records, id)
	return nil
}

func newMedicalRecordFixture() (*MedicalRecordService, *fakeMedicalRecordRepo, uuid.UUID) {
	petID := uuid.New()

	recordRepo := &fakeMedicalRecordRepo{records: map[uuid.UUID]*entity.MedicalRecord{}}
	petRepo := &fakePetRepo{pets: map[uuid.UUID]*entity.Pet{
		petID: {ID: petID, Name: "Pepper"},
	}}

	return NewMedicalRecordService(recordRepo, petRepo), recordRepo, petID
}

func TestCreateMedicalRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("success with defaulted visit date", func(t *testing.T) {
		svc, _, petID := newMedicalRecordFixture()

		before := time.Now()
		record, err := svc.CreateMedicalRecord(ctx, &CreateMedicalRecordInput{
			PetID:          petID,
			VeterinarianID: uuid.New(),
			Diagnosis:      "Otitis externa",
		})
		require.NoError(t, err)
		assert.Equal(t, "Otitis externa", record.Diagnosis)
		assert.False(t, record.VisitDate.Before(before))
	})

	t.Run("missing diagnosis", func(t *testing.T) {
		svc, _, petID := newMedicalRecordFixture()

		_, err := svc.CreateMedicalRecord(ctx, &CreateMedicalRecordInput{
			PetID:          petID,
			VeterinarianID: uuid.New(),
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	})

	t.Run("vaccination without name", func(t *testing.T) {
		svc, _, petID := newMedicalRecordFixture()

		_, err := svc.CreateMedicalRecord(ctx, &CreateMedicalRecordInput{
			PetID:          petID,
			VeterinarianID: uuid.New(),
			Diagnosis:      "Routine vaccination",
			IsVaccination:  true,
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	})

	t.Run("vaccination with name", func(t *testing.T) {
		svc, _, petID := newMedicalRecordFixture()

		record, err := svc.CreateMedicalRecord(ctx, &CreateMedicalRecordInput{
			PetID:           petID,
			VeterinarianID:  uuid.New(),
			Diagnosis:       "Routine vaccination",
			IsVaccination:   true,
			VaccinationName: strptr("Rabies"),
		})
		require.NoError(t, err)
		assert.True(t, record.IsVaccination)
	})

	t.Run("unknown pet", func(t *testing.T) {
		svc, _, _ := newMedicalRecordFixture()

		_, err := svc.CreateMedicalRecord(ctx, &CreateMedicalRecordInput{
			PetID:          uuid.New(),
			VeterinarianID: uuid.New(),
			Diagnosis:      "Otitis externa",
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
	})
}

func TestGetPetHistory(t *testing.T) {
	ctx := context.Background()
	svc, recordRepo, petID := newMedicalRecordFixture()

	recordRepo.byPet = []entity.MedicalRecord{
		{ID: uuid.New(), PetID: petID, Diagnosis: "Otitis externa"},
		{ID: uuid.New(), PetID: petID, Diagnosis: "Routine vaccination"},
	}

	history, err := svc.GetPetHistory(ctx, petID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = svc.GetPetHistory(ctx, uuid.New())
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestUpdateMedicalRecord(t *testing.T) {
	ctx := context.Background()
	svc, _, petID := newMedicalRecordFixture()

	record, err := svc.CreateMedicalRecord(ctx, &CreateMedicalRecordInput{
		PetID:          petID,
		VeterinarianID: uuid.New(),
		Diagnosis:      "Otitis externa",
	})
	require.NoError(t, err)

	t.Run("rejects empty diagnosis", func(t *testing.T) {
		_, err := svc.UpdateMedicalRecord(ctx, record.ID, &UpdateMedicalRecordInput{
			Diagnosis: strptr(""),
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	})

	t.Run("updates treatment and follow-up", func(t *testing.T) {
		followUp := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
		updated, err := svc.UpdateMedicalRecord(ctx, record.ID, &UpdateMedicalRecordInput{
			Treatment:    strptr("Ear drops twice daily"),
			FollowUpDate: &followUp,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Treatment)
		assert.Equal(t, "Ear drops twice daily", *updated.Treatment)
		require.NotNil(t, updated.FollowUpDate)
		assert.Equal(t, followUp, *updated.FollowUpDate)
	})
}
