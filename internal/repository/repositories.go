package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	UserRepo           UserRepository
	LeadRepo           LeadRepository
	AssignedRecordRepo AssignedRecordRepository
}

func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepo:           NewUserRepository(pool),
		LeadRepo:           NewLeadRepository(pool),
		AssignedRecordRepo: NewAssignedRecordRepository(pool),
	}
}
