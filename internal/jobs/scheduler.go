package jobs

import (
	"fmt"
	"log"
	"time"

	"Aging43B/api/aging"
	"Aging43B/api/auth"
	"Aging43B/internal/config"
	"Aging43B/internal/logger"
	"Aging43B/internal/serviceiface"

	"github.com/robfig/cron/v3"
)

// CronService owns the scheduled housekeeping: purging expired aging
// workspaces and idle auth sessions. Uploaded data never persists, so
// this is the only reclamation path.
type CronService struct {
	config map[string]interface{}
	cron   *cron.Cron
}

func NewCronService(cfg map[string]interface{}) serviceiface.Service {
	return &CronService{config: cfg}
}

func (s *CronService) Name() string {
	return "jobs"
}

func (s *CronService) Start() error {
	schedule := config.DefaultPurgeSchedule
	if v, ok := s.config["purge_schedule"].(string); ok && v != "" {
		schedule = v
	}
	ttlMinutes := config.DefaultWorkspaceTTLMinutes
	switch v := s.config["workspace_ttl_minutes"].(type) {
	case int:
		if v > 0 {
			ttlMinutes = v
		}
	case float64:
		if v > 0 {
			ttlMinutes = int(v)
		}
	}
	ttl := time.Duration(ttlMinutes) * time.Minute

	s.cron = cron.New()
	_, err := s.cron.AddFunc(schedule, func() {
		workspaces := aging.DefaultStore.PurgeExpired(ttl)
		sessions := auth.PurgeIdleSessions()
		if workspaces > 0 || sessions > 0 {
			msg := fmt.Sprintf("[Jobs] purged %d workspaces, %d idle sessions", workspaces, sessions)
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(msg)
			} else {
				log.Println(msg)
			}
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule purge job: %w", err)
	}
	s.cron.Start()
	log.Println("Cron service started — purge scheduled", schedule)
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	return nil
}
