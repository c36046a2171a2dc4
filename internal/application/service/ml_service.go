package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pawmark/vetcare-api/internal/domain/repository"
	"github.com/pawmark/vetcare-api/internal/infrastructure/ml"
	"github.com/pawmark/vetcare-api/pkg/apperror"
	"github.com/pawmark/vetcare-api/pkg/money"
)

// forecastHistoryMonths is how many months of revenue feed the sales forecast
const forecastHistoryMonths = 12

// outbreakWindowDays is how far back disease cases are aggregated for
// outbreak prediction
const outbreakWindowDays = 90

// MLService proxies analytics requests to the external prediction service
type MLService struct {
	client   *ml.Client
	caseRepo repository.DiseaseCaseRepository
	billRepo repository.BillRepository
	logger   *zap.Logger
}

// NewMLService creates a new ML proxy service
func NewMLService(
	client *ml.Client,
	caseRepo repository.DiseaseCaseRepository,
	billRepo repository.BillRepository,
	logger *zap.Logger,
) *MLService {
	return &MLService{
		client:   client,
		caseRepo: caseRepo,
		billRepo: billRepo,
		logger:   logger,
	}
}

// unavailableResponse is returned when the analytics service cannot be
// reached; callers degrade instead of failing
var unavailableResponse = json.RawMessage(`{"status":"unavailable"}`)

// Health reports the analytics service health, degrading to unavailable
func (s *MLService) Health(ctx context.Context) json.RawMessage {
	resp, err := s.client.Health(ctx)
	if err != nil {
		s.logger.Warn("ml health check failed", zap.Error(err))
		return unavailableResponse
	}
	return resp
}

// ModelStatus returns the deployed model status, degrading to unavailable
func (s *MLService) ModelStatus(ctx context.Context) json.RawMessage {
	resp, err := s.client.ModelStatus(ctx)
	if err != nil {
		s.logger.Warn("ml model status failed", zap.Error(err))
		return unavailableResponse
	}
	return resp
}

// PredictOutbreak aggregates recent disease cases by disease and city and
// forwards them for risk scoring
func (s *MLService) PredictOutbreak(ctx context.Context) (json.RawMessage, error) {
	since := time.Now().AddDate(0, 0, -outbreakWindowDays)
	counts, err := s.caseRepo.CountByDiseaseAndCity(ctx, &since)
	if err != nil {
		return nil, err
	}

	req := &ml.OutbreakRequest{Cases: make([]ml.OutbreakCase, 0, len(counts))}
	for _, c := range counts {
		req.Cases = append(req.Cases, ml.OutbreakCase{
			DiseaseName: c.DiseaseName,
			City:        c.City,
			CaseCount:   c.CaseCount,
		})
	}

	resp, err := s.client.PredictOutbreak(ctx, req)
	if err != nil {
		if errors.Is(err, ml.ErrServiceUnavailable) {
			return nil, apperror.NewAppError(503, "Analytics service is unavailable")
		}
		return nil, err
	}
	return resp, nil
}

// SalesForecast posts the last year of monthly paid revenue and forwards the
// forecast
func (s *MLService) SalesForecast(ctx context.Context) (json.RawMessage, error) {
	now := time.Now()
	req := &ml.ForecastRequest{Months: make([]ml.MonthlyRevenue, 0, forecastHistoryMonths)}

	for i := forecastHistoryMonths - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		paid, err := s.billRepo.SumPaidBetween(ctx, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}

		req.Months = append(req.Months, ml.MonthlyRevenue{
			Month:   monthStart.Format("2006-01"),
			Revenue: money.FromCents(paid),
		})
	}

	resp, err := s.client.SalesForecast(ctx, req)
	if err != nil {
		if errors.Is(err, ml.ErrServiceUnavailable) {
			return nil, apperror.NewAppError(503, "Analytics service is unavailable")
		}
		return nil, err
	}
	return resp, nil
}
