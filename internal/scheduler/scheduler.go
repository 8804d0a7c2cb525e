package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"

	"github.com/example/lotus/internal/models"
	"github.com/example/lotus/internal/services"
)

// Scheduler runs the daily loyalty jobs: birthday spin grants and the
// expiring-promotions digest.
type Scheduler struct {
	db        *gorm.DB
	telegram  *services.TelegramService
	scheduler gocron.Scheduler
}

// New constructs the Scheduler with its jobs registered.
func New(db *gorm.DB, telegram *services.TelegramService) (*Scheduler, error) {
	gs, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{db: db, telegram: telegram, scheduler: gs}

	_, err = gs.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(6, 0, 0))),
		gocron.NewTask(s.grantBirthdaySpins),
	)
	if err != nil {
		return nil, err
	}

	_, err = gs.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(8, 0, 0))),
		gocron.NewTask(s.sendExpiringPromotionsDigest),
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Start launches the scheduler in its own goroutines.
func (s *Scheduler) Start() {
	s.scheduler.Start()
	log.Println("[Scheduler] started")
}

// Stop shuts the scheduler down.
func (s *Scheduler) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		log.Printf("[Scheduler] shutdown error: %v", err)
	}
}

// grantBirthdaySpins gives every user whose birthday is today one free
// wheel spin.
func (s *Scheduler) grantBirthdaySpins() {
	now := time.Now()

	var users []models.User
	if err := s.db.Where("birth_month = ? AND birth_day = ?", int(now.Month()), now.Day()).
		Find(&users).Error; err != nil {
		log.Printf("[Scheduler] birthday lookup failed: %v", err)
		return
	}

	granted := 0
	for _, u := range users {
		result := s.db.Model(&models.Wallet{}).
			Where("user_id = ?", u.ID).
			Update("spins_left", gorm.Expr("spins_left + 1"))
		if result.Error != nil {
			log.Printf("[Scheduler] spin grant failed for %s: %v", u.ID, result.Error)
			continue
		}
		granted++
	}

	if granted > 0 {
		log.Printf("[Scheduler] granted %d birthday spins", granted)
	}
}

// sendExpiringPromotionsDigest notifies the admin chat about promotions
// expiring within the badge window.
func (s *Scheduler) sendExpiringPromotionsDigest() {
	now := time.Now()

	var promos []models.Promotion
	if err := s.db.Where("expires_at > ? AND expires_at <= ?", now, now.AddDate(0, 0, 7)).
		Order("expires_at asc").
		Find(&promos).Error; err != nil {
		log.Printf("[Scheduler] expiring promotions lookup failed: %v", err)
		return
	}

	if len(promos) == 0 {
		return
	}

	codes := make([]string, len(promos))
	for i, p := range promos {
		codes[i] = p.Code + " expires " + p.ExpiresAt.Format("02 Jan 15:04")
	}

	if err := s.telegram.NotifyExpiringPromotions(codes); err != nil {
		log.Printf("[Scheduler] digest notification failed: %v", err)
	}
}
