package repo

import (
	"context"

	"server/internal/domain"
	"server/internal/infra"
)

// Repos bundles every repository bound to one executor. A Repos built over a
// transaction-scoped executor makes all of its writes part of that
// transaction.
type Repos struct {
	Users       domain.UserRepository
	Fees        domain.FeeRepository
	Templates   domain.TemplateRepository
	Assignments domain.AssignmentRepository
	Hires       domain.HireRepository
	Outbox      domain.NotificationRepository
	Audits      domain.AuditRepository
}

// NewRepos builds the repository set over sql.
func NewRepos(sql infra.SQLExecutor) Repos {
	return Repos{
		Users:       NewUserRepository(sql),
		Fees:        NewFeeRepository(sql),
		Templates:   NewTemplateRepository(sql),
		Assignments: NewAssignmentRepository(sql),
		Hires:       NewHireRepository(sql),
		Outbox:      NewNotificationRepository(sql),
		Audits:      NewAuditRepository(sql),
	}
}

// Store is the storage entry point for services: direct repositories for
// single-statement work plus a transactional unit of work for multi-record
// writes that must commit together.
type Store struct {
	db    infra.TxRunner
	repos Repos
}

func NewStore(db infra.TxRunner) *Store {
	return &Store{db: db, repos: NewRepos(db)}
}

// Repos returns the non-transactional repository set.
func (s *Store) Repos() Repos {
	return s.repos
}

// WithinTx runs fn with a repository set scoped to one transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(Repos) error) error {
	return s.db.WithinTx(ctx, func(ex infra.SQLExecutor) error {
		return fn(NewRepos(ex))
	})
}
