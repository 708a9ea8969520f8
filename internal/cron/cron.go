package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zenithcrm/crm-backend/internal/email"
	"github.com/zenithcrm/crm-backend/internal/repository"
)

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron         *cron.Cron
	leadRepo     repository.LeadRepository
	userRepo     repository.UserRepository
	emailSvc     *email.Service
	dashboardURL string
}

func NewScheduler(leadRepo repository.LeadRepository, userRepo repository.UserRepository, emailSvc *email.Service, dashboardURL string) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		leadRepo:     leadRepo,
		userRepo:     userRepo,
		emailSvc:     emailSvc,
		dashboardURL: dashboardURL,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Run every day at 9 AM - follow-up reminders
	s.cron.AddFunc("0 9 * * *", func() {
		log.Println("[Cron] Running follow-up reminder check...")
		s.sendFollowUpReminders()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

// sendFollowUpReminders emails every owner the leads they scheduled for
// follow-up today.
func (s *Scheduler) sendFollowUpReminders() {
	if s.emailSvc == nil {
		log.Println("[Cron] Email not configured, skipping follow-up reminders")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	today := time.Now()
	leads, err := s.leadRepo.FindDueFollowUps(ctx, today)
	if err != nil {
		log.Printf("[Cron] Failed to load due follow-ups: %v", err)
		return
	}
	if len(leads) == 0 {
		return
	}

	// One email per owner, all of their due leads together.
	byOwner := make(map[string][]*repository.Lead)
	for _, lead := range leads {
		byOwner[lead.OwnerID] = append(byOwner[lead.OwnerID], lead)
	}

	ownerIDs := make([]string, 0, len(byOwner))
	for id := range byOwner {
		ownerIDs = append(ownerIDs, id)
	}
	owners, err := s.userRepo.FindByIDs(ctx, ownerIDs)
	if err != nil {
		log.Printf("[Cron] Failed to load lead owners: %v", err)
		return
	}

	sent := 0
	for _, owner := range owners {
		ownerLeads := byOwner[owner.ID]
		data := email.FollowUpReminderData{
			OwnerName:    owner.Name,
			Date:         today.Format("Jan 2, 2006"),
			DashboardURL: s.dashboardURL,
		}
		for _, l := range ownerLeads {
			data.Leads = append(data.Leads, email.FollowUpLead{
				Name:    l.Name,
				Company: l.Company,
				Phone:   l.Phone,
				Status:  l.Status,
			})
		}
		if err := s.emailSvc.SendFollowUpReminder(owner.Email, data); err != nil {
			log.Printf("[Cron] Failed to send reminder to %s: %v", owner.Email, err)
			continue
		}
		sent++
	}
	log.Printf("[Cron] Sent %d follow-up reminder(s)", sent)
}
