package lab

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medchart/medchart/internal/domain/patient"
)

const abnormalChance = 0.2

// Service synthesizes lab results for ordered test codes. The random source
// is injectable so tests can pin the value distribution.
type Service struct {
	repo     Repository
	patients *patient.Service

	mu  sync.Mutex
	rng *rand.Rand
}

func NewService(repo Repository, patients *patient.Service, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{repo: repo, patients: patients, rng: rng}
}

// CreateOrders synthesizes one result per known test code and returns how
// many were created. Unknown codes are skipped silently. Collection time is
// the order date at 08:00 UTC; results post two hours later.
func (s *Service) CreateOrders(ctx context.Context, patientID string, codes []string, orderDate time.Time) (int, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return 0, fmt.Errorf("patient %s does not exist", patientID)
		}
		return 0, err
	}

	takenAt := time.Date(orderDate.Year(), orderDate.Month(), orderDate.Day(),
		8, 0, 0, 0, time.UTC)
	resultedAt := takenAt.Add(2 * time.Hour)

	created := 0
	for _, code := range codes {
		tt, ok := catalogByCode[code]
		if !ok {
			continue
		}
		value := s.generateValue(tt)
		status := classify(value, tt)
		res := &Result{
			ID:             uuid.NewString(),
			PatientID:      patientID,
			TestName:       tt.Name,
			TestCode:       tt.Code,
			Value:          strconv.FormatFloat(value, 'f', tt.Precision, 64),
			Unit:           tt.Unit,
			ReferenceRange: tt.ReferenceRange,
			Status:         status,
			TakenAt:        takenAt,
			ResultedAt:     resultedAt,
			Notes:          noteFor(status),
		}
		if err := s.repo.Create(ctx, res); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*Result, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// DeleteByPatient clears a patient's results during a cascade delete.
func (s *Service) DeleteByPatient(ctx context.Context, patientID string) error {
	return s.repo.DeleteByPatient(ctx, patientID)
}

// generateValue draws uniformly from the normal range, except a 20% slice
// forced just outside it to simulate abnormal results.
func (s *Service) generateValue(tt TestType) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rng.Float64() < abnormalChance {
		if s.rng.Intn(2) == 0 {
			return tt.Min * 0.8
		}
		return tt.Max * 1.2
	}
	return tt.Min + s.rng.Float64()*(tt.Max-tt.Min)
}

func classify(value float64, tt TestType) string {
	switch {
	case value < tt.Min*0.7 || value > tt.Max*1.5:
		return StatusCritical
	case value < tt.Min || value > tt.Max:
		return StatusAbnormal
	default:
		return StatusNormal
	}
}

func noteFor(status string) string {
	switch status {
	case StatusCritical:
		return "CRITICAL value. Notify provider immediately."
	case StatusAbnormal:
		return "Abnormal result. Recommend clinical correlation."
	default:
		return "Within normal limits."
	}
}
