// internal/seed/seed.go
package seed

import (
	"context"
	"log"
	"time"

	"github.com/zenithcrm/crm-backend/internal/repository"
	"github.com/zenithcrm/crm-backend/internal/types"
	"golang.org/x/crypto/bcrypt"
)

func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	// Skip when accounts already exist
	users, _ := repos.UserRepo.FindAll(ctx)
	if len(users) > 0 {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] 🌱 Creating initial data...")

	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// 1. Root superadmin
	root := &repository.User{
		Name:     "Sofia Reyes",
		Email:    "sofia.reyes@zenithcrm.io",
		Password: string(password),
		Role:     types.RoleSuperAdmin,
		Status:   types.StatusActive,
	}
	repos.UserRepo.Create(ctx, root)

	// 2. Two calling agents
	daniel := &repository.User{
		Name:     "Daniel Okafor",
		Email:    "daniel.okafor@zenithcrm.io",
		Password: string(password),
		Role:     types.RoleUser,
		Status:   types.StatusActive,
	}
	repos.UserRepo.Create(ctx, daniel)

	priya := &repository.User{
		Name:     "Priya Nair",
		Email:    "priya.nair@zenithcrm.io",
		Password: string(password),
		Role:     types.RoleUser,
		Status:   types.StatusActive,
	}
	repos.UserRepo.Create(ctx, priya)

	// 3. Team admin scoped to both agents
	lena := &repository.User{
		Name:            "Lena Vogel",
		Email:           "lena.vogel@zenithcrm.io",
		Password:        string(password),
		Role:            types.RoleAdmin,
		Status:          types.StatusActive,
		AssignedUserIDs: []string{daniel.ID, priya.ID},
	}
	repos.UserRepo.Create(ctx, lena)

	// Sample leads for the agents
	followUp := time.Now().AddDate(0, 0, 2)
	leads := []*repository.Lead{
		{OwnerID: daniel.ID, Name: "Marcus Webb", Email: "marcus@webbandco.com", Phone: "555-0101", Company: "Webb & Co", Status: types.LeadStatusNew},
		{OwnerID: daniel.ID, Name: "Alana Cruz", Email: "alana@cruzmedia.com", Phone: "555-0102", Company: "Cruz Media", Status: types.LeadStatusContacted, FollowUpDate: &followUp},
		{OwnerID: priya.ID, Name: "Tom Eriksen", Email: "tom@eriksen.no", Phone: "555-0103", Company: "Eriksen AS", Status: types.LeadStatusQualified},
	}
	for _, lead := range leads {
		repos.LeadRepo.Create(ctx, lead)
	}

	// A first batch of calling data
	records := []*repository.AssignedRecord{
		{AssignerID: lena.ID, AssigneeID: daniel.ID, Name: "Grace Obi", Phone: "555-0201"},
		{AssignerID: lena.ID, AssigneeID: daniel.ID, Name: "Henry Platt", Phone: "555-0202"},
		{AssignerID: lena.ID, AssigneeID: priya.ID, Name: "Ivy Zhang", Phone: "555-0203"},
	}
	if _, err := repos.AssignedRecordRepo.BulkCreate(ctx, records); err != nil {
		log.Printf("[Seed] Failed to create assigned records: %v", err)
	}

	log.Println("[Seed] ✅ Seed data created (login: sofia.reyes@zenithcrm.io / password123)")
}
