package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/internal/domain/enum"
	"github.com/pawmark/vetcare-api/internal/domain/repository"
	"github.com/pawmark/vetcare-api/pkg/apperror"
	"github.com/pawmark/vetcare-api/pkg/pagination"
)

// AppointmentService handles appointment scheduling
type AppointmentService struct {
	appointmentRepo repository.AppointmentRepository
	petRepo         repository.PetRepository
	userRepo        repository.UserRepository
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	appointmentRepo repository.AppointmentRepository,
	petRepo repository.PetRepository,
	userRepo repository.UserRepository,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		petRepo:         petRepo,
		userRepo:        userRepo,
	}
}

// CreateAppointmentInput represents the create appointment input
type CreateAppointmentInput struct {
	PetID           uuid.UUID
	VeterinarianID  uuid.UUID
	ScheduledAt     time.Time
	DurationMinutes int
	Reason          string
	Notes           *string
}

// CreateAppointment books a visit after checking the veterinarian's calendar
// for overlapping slots. Double-booking is rejected as a conflict.
func (s *AppointmentService) CreateAppointment(ctx context.Context, input *CreateAppointmentInput) (*entity.Appointment, error) {
	if input.ScheduledAt.IsZero() {
		return nil, apperror.NewBadRequestError("Appointment time is required")
	}
	if input.DurationMinutes <= 0 {
		input.DurationMinutes = 30
	}

	pet, err := s.petRepo.GetByID(ctx, input.PetID)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, apperror.NewNotFoundError("Pet")
	}

	vet, err := s.userRepo.GetByID(ctx, input.VeterinarianID)
	if err != nil {
		return nil, err
	}
	if vet == nil {
		return nil, apperror.NewNotFoundError("Veterinarian")
	}
	if vet.Role != enum.RoleVeterinarian && vet.Role != enum.RoleAdmin {
		return nil, apperror.NewBadRequestError("Appointments can only be assigned to veterinarians")
	}

	end := input.ScheduledAt.Add(time.Duration(input.DurationMinutes) * time.Minute)
	conflicts, err := s.appointmentRepo.FindConflicts(ctx, input.VeterinarianID, input.ScheduledAt, end, nil)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, apperror.NewConflictError(fmt.Sprintf(
			"Veterinarian already has an appointment at %s",
			conflicts[0].ScheduledAt.Format(time.RFC3339)))
	}

	appointment := &entity.Appointment{
		PetID:           input.PetID,
		CustomerID:      pet.CustomerID,
		VeterinarianID:  input.VeterinarianID,
		ScheduledAt:     input.ScheduledAt,
		DurationMinutes: input.DurationMinutes,
		Reason:          input.Reason,
		Status:          enum.AppointmentStatusScheduled,
		Notes:           input.Notes,
	}

	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	return s.appointmentRepo.GetByID(ctx, appointment.ID)
}

// GetAppointment retrieves an appointment by ID
func (s *AppointmentService) GetAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, apperror.NewNotFoundError("Appointment")
	}
	return appointment, nil
}

// ListAppointments lists appointments with filtering
func (s *AppointmentService) ListAppointments(ctx context.Context, params *repository.AppointmentFilterParams) (*pagination.PaginatedResult[entity.Appointment], error) {
	appointments, total, err := s.appointmentRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(appointments, pag), nil
}

// UpdateAppointmentInput represents the update appointment input
type UpdateAppointmentInput struct {
	VeterinarianID  *uuid.UUID
	ScheduledAt     *time.Time
	DurationMinutes *int
	Reason          *string
	Notes           *string
}

// UpdateAppointment reschedules or edits an appointment, re-running the
// overlap check when the time, duration or veterinarian changes
func (s *AppointmentService) UpdateAppointment(ctx context.Context, id uuid.UUID, input *UpdateAppointmentInput) (*entity.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, apperror.NewNotFoundError("Appointment")
	}

	if appointment.Status == enum.AppointmentStatusCancelled ||
		appointment.Status == enum.AppointmentStatusCompleted {
		return nil, apperror.NewConflictError("Cannot edit a completed or cancelled appointment")
	}

	recheck := false
	if input.VeterinarianID != nil && *input.VeterinarianID != appointment.VeterinarianID {
		vet, err := s.userRepo.GetByID(ctx, *input.VeterinarianID)
		if err != nil {
			return nil, err
		}
		if vet == nil {
			return nil, apperror.NewNotFoundError("Veterinarian")
		}
		appointment.VeterinarianID = *input.VeterinarianID
		recheck = true
	}
	if input.ScheduledAt != nil {
		appointment.ScheduledAt = *input.ScheduledAt
		recheck = true
	}
	if input.DurationMinutes != nil {
		if *input.DurationMinutes <= 0 {
			return nil, apperror.NewBadRequestError("Duration must be positive")
		}
		appointment.DurationMinutes = *input.DurationMinutes
		recheck = true
	}
	if input.Reason != nil {
		appointment.Reason = *input.Reason
	}
	if input.Notes != nil {
		appointment.Notes = input.Notes
	}

	if recheck {
		conflicts, err := s.appointmentRepo.FindConflicts(ctx,
			appointment.VeterinarianID, appointment.ScheduledAt, appointment.EndsAt(), &appointment.ID)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, apperror.NewConflictError("Veterinarian is not available at the requested time")
		}
	}

	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	return appointment, nil
}

// UpdateAppointmentStatus transitions the appointment's status
func (s *AppointmentService) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status enum.AppointmentStatus) (*entity.Appointment, error) {
	if !status.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid appointment status")
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, apperror.NewNotFoundError("Appointment")
	}

	if appointment.Status == enum.AppointmentStatusCancelled ||
		appointment.Status == enum.AppointmentStatusCompleted {
		return nil, apperror.NewConflictError("Appointment is already in a terminal state")
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	appointment.Status = status
	return appointment, nil
}

// DeleteAppointment soft-deletes an appointment
func (s *AppointmentService) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if appointment == nil {
		return apperror.NewNotFoundError("Appointment")
	}

	return s.appointmentRepo.Delete(ctx, id)
}
