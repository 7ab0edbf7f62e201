package patient

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/medchart/medchart/internal/domain/audit"
)

// DependentPurger removes one kind of dependent record ahead of a patient
// delete. Purgers run in the order given; a failure aborts the cascade.
type DependentPurger interface {
	DeleteByPatient(ctx context.Context, patientID string) error
}

// TxRunner executes fn atomically. Backends without transactions leave it
// unset and the cascade falls back to sequenced, non-atomic deletes.
type TxRunner func(ctx context.Context, fn func(context.Context) error) error

type Service struct {
	repo    Repository
	rec     *audit.Recorder
	purgers []DependentPurger
	tx      TxRunner
}

// NewService wires the patient service. Purger order matters: dependents
// that reference other dependents must come first.
func NewService(repo Repository, rec *audit.Recorder, purgers ...DependentPurger) *Service {
	return &Service{repo: repo, rec: rec, purgers: purgers}
}

// UseTx makes Delete run its cascade inside one transaction.
func (s *Service) UseTx(run TxRunner) {
	s.tx = run
}

const idDigits = 12

// Create registers a patient. A missing ID is generated server-side; a
// supplied ID must be 12 numeric digits and unused.
func (s *Service) Create(ctx context.Context, p *Patient) error {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.DOB == "" {
		return fmt.Errorf("dob is required")
	}

	if p.ID == "" {
		id, err := s.generateID(ctx)
		if err != nil {
			return err
		}
		p.ID = id
	} else {
		if !validID(p.ID) {
			return fmt.Errorf("id must be %d digits", idDigits)
		}
		if _, err := s.repo.GetByID(ctx, p.ID); err == nil {
			return fmt.Errorf("patient %s already exists", p.ID)
		}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	// Registration itself is not audited; the trail starts with the first
	// update, matching the chart's change history.
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Patient, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update and audits a {from, to} diff of the
// supplied fields only.
func (s *Service) Update(ctx context.Context, id string, u *Update) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	diff := u.Apply(p)
	if len(diff) == 0 {
		return p, nil
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	changes := make(map[string]any, len(diff))
	for field, c := range diff {
		changes[field] = c
	}
	_, _ = s.rec.Record(ctx, audit.EntityPatient, id, audit.ActionUpdate, changes)
	return p, nil
}

// Delete removes a patient and, first, every dependent record. The cascade
// is sequenced, not atomic; a purge failure leaves earlier purges in place.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var deleted bool
	cascade := func(ctx context.Context) error {
		for _, purger := range s.purgers {
			if err := purger.DeleteByPatient(ctx, id); err != nil {
				return fmt.Errorf("purge dependents of patient %s: %w", id, err)
			}
		}
		var err error
		deleted, err = s.repo.Delete(ctx, id)
		return err
	}
	if s.tx != nil {
		err = s.tx(ctx, cascade)
	} else {
		err = cascade(ctx)
	}
	if err != nil || !deleted {
		return deleted, err
	}
	_, _ = s.rec.Record(ctx, audit.EntityPatient, id, audit.ActionDelete, map[string]any{
		"name": p.Name,
		"mrn":  p.MRN,
	})
	return true, nil
}

func (s *Service) generateID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		id, err := randomID()
		if err != nil {
			return "", err
		}
		if _, err := s.repo.GetByID(ctx, id); errors.Is(err, ErrNotFound) {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate an unused patient id")
}

func randomID() (string, error) {
	var b strings.Builder
	for i := 0; i < idDigits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

func validID(id string) bool {
	if len(id) != idDigits {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
