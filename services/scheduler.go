package services

import (
	"schooladmin/config"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the recurring maintenance jobs: the morning fee
// reminder sweep and the hourly flush of cached activity logs.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Start registers and launches the cron jobs. Safe to skip entirely in
// tests; nothing else depends on the scheduler running.
func (s *Scheduler) Start() {
	if config.AppConfig != nil && config.AppConfig.EnableReminderCron {
		// 08:00 server time, before the school day starts
		if _, err := s.cron.AddFunc("0 8 * * *", func() {
			sent, err := NewFeeService().SendFeeReminders()
			if err != nil {
				logrus.WithError(err).Error("Fee reminder job failed")
				return
			}
			logrus.WithField("sent", sent).Info("Fee reminder job finished")
		}); err != nil {
			logrus.WithError(err).Error("Failed to schedule fee reminder job")
		}
	}

	if config.AppConfig != nil && config.AppConfig.UseRedisActivityLog {
		if _, err := s.cron.AddFunc("@hourly", func() {
			if err := NewLogFlushService().FlushCachedLogs(); err != nil {
				logrus.WithError(err).Error("Activity log flush failed")
			}
		}); err != nil {
			logrus.WithError(err).Error("Failed to schedule log flush job")
		}
	}

	s.cron.Start()
	logrus.Info("Scheduler started")
}

// Stop halts the cron loop, letting running jobs finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
