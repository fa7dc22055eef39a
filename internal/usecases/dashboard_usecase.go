package usecases

import (
	"context"

	"golang.org/x/sync/errgroup"

	"whatsapp_crm/internal/entities"
	"whatsapp_crm/internal/interfaces"
)

type DashboardUsecase struct {
	messages interfaces.MessageStore
	students interfaces.StudentStore
}

func NewDashboardUsecase(messages interfaces.MessageStore, students interfaces.StudentStore) *DashboardUsecase {
	return &DashboardUsecase{
		messages: messages,
		students: students,
	}
}

// Stats reads the three dashboard counts independently and in parallel.
func (u *DashboardUsecase) Stats(ctx context.Context, tenantID int64) (*entities.DashboardStats, error) {
	var stats entities.DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := u.students.CountByTenant(ctx, tenantID)
		stats.Students = n
		return err
	})
	g.Go(func() error {
		n, err := u.messages.CountByTenant(ctx, tenantID, "")
		stats.TotalLeads = n
		return err
	})
	g.Go(func() error {
		n, err := u.messages.CountByTenant(ctx, tenantID, entities.InterestFees)
		stats.FeesLeads = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Students

func (u *DashboardUsecase) CreateStudent(ctx context.Context, s *entities.Student) error {
	return u.students.Create(ctx, s)
}

func (u *DashboardUsecase) ListStudents(ctx context.Context, tenantID int64) ([]entities.Student, error) {
	return u.students.ListByTenant(ctx, tenantID)
}

// Leads

func (u *DashboardUsecase) ListLeads(ctx context.Context, tenantID int64, interest entities.Interest) ([]entities.Message, error) {
	return u.messages.ListByTenant(ctx, tenantID, interest)
}
