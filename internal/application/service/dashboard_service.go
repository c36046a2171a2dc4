package service

import (
	"context"
	"time"

	"github.com/pawmark/vetcare-api/internal/domain/repository"
	"github.com/pawmark/vetcare-api/pkg/money"
)

// DashboardService provides clinic overview statistics
type DashboardService struct {
	appointmentRepo repository.AppointmentRepository
	billRepo        repository.BillRepository
	inventoryRepo   repository.InventoryRepository
	caseRepo        repository.DiseaseCaseRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	appointmentRepo repository.AppointmentRepository,
	billRepo repository.BillRepository,
	inventoryRepo repository.InventoryRepository,
	caseRepo repository.DiseaseCaseRepository,
) *DashboardService {
	return &DashboardService{
		appointmentRepo: appointmentRepo,
		billRepo:        billRepo,
		inventoryRepo:   inventoryRepo,
		caseRepo:        caseRepo,
	}
}

// DashboardStats represents the clinic overview
type DashboardStats struct {
	TodayAppointments  int64   `json:"today_appointments"`
	TodayRevenue       float64 `json:"today_revenue"`
	MonthRevenue       float64 `json:"month_revenue"`
	LowStockCount      int64   `json:"low_stock_count"`
	ActiveDiseaseCases int64   `json:"active_disease_cases"`
}

// GetDashboardStats returns today's appointments, collected revenue, low
// stock and active case counts
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	now := time.Now()

	appointmentCount, err := s.appointmentRepo.CountForDate(ctx, now)
	if err != nil {
		return nil, err
	}
	stats.TodayAppointments = appointmentCount

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayPaid, err := s.billRepo.SumPaidBetween(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	stats.TodayRevenue = money.FromCents(todayPaid)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthPaid, err := s.billRepo.SumPaidBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	stats.MonthRevenue = money.FromCents(monthPaid)

	lowStock, err := s.inventoryRepo.CountLowStock(ctx)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = lowStock

	activeCases, err := s.caseRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	stats.ActiveDiseaseCases = activeCases

	return stats, nil
}
