package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"irac/internal/config"
	"irac/internal/payment"
	"irac/internal/pkg/telegram"
	"irac/internal/pkg/utils"
	"irac/internal/repository"
)

// Scheduler manages the payment housekeeping jobs.
type Scheduler struct {
	cron     *cron.Cron
	cfg      *config.Config
	payments *repository.PaymentRepository
	client   *payment.Client
	botAPI   *telegram.BotAPI
	logger   *zap.Logger
}

// New creates a new cron scheduler.
func New(cfg *config.Config, payments *repository.PaymentRepository, client *payment.Client, botAPI *telegram.BotAPI, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		cfg:      cfg,
		payments: payments,
		client:   client,
		botAPI:   botAPI,
		logger:   logger,
	}
}

// Start registers and starts all cron jobs.
func (s *Scheduler) Start() {
	s.logger.Info("Starting cron scheduler...")

	// Expire stale pending attempts - every 5 minutes
	s.cron.AddFunc("0 */5 * * * *", func() {
		s.logger.Debug("Running: expire stale payment attempts")
		s.expireStaleAttempts()
	})

	// Daily payment report - at 23:45
	s.cron.AddFunc("0 45 23 * * *", func() {
		s.logger.Debug("Running: daily payment report")
		s.dailyReport()
	})

	s.cron.Start()
}

// Stop stops the scheduler and returns a context that is done once running
// jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) expireStaleAttempts() {
	cutoff := time.Now().Add(-s.cfg.Payment.PendingTTL)
	n, err := s.payments.ExpirePendingBefore(cutoff)
	if err != nil {
		s.logger.Error("failed to expire stale attempts", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("expired stale payment attempts", zap.Int64("count", n))
	}
}

func (s *Scheduler) dailyReport() {
	if !s.botAPI.Enabled() || s.cfg.Telegram.ReportChannel == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := s.client.GetStatistics(ctx)
	if err != nil {
		s.logger.Error("daily report: statistics fetch failed", zap.Error(err))
		return
	}

	paidSum, _ := s.payments.SumPaidAmount()

	text := fmt.Sprintf(
		"📊 گزارش روزانه پرداخت\n\nکل تراکنش‌ها: %d\nموفق: %d\nناموفق: %d\nبازگشتی: %d\nمجموع مبلغ: %s ریال\nمجموع کارمزد: %s ریال\nجمع تسویه محلی: %s ریال",
		stats.TotalCount, stats.SuccessCount, stats.FailedCount, stats.RefundedCount,
		utils.FormatAmount(stats.TotalAmount),
		utils.FormatAmount(stats.TotalFees),
		utils.FormatAmount(paidSum),
	)
	if _, err := s.botAPI.SendMessage(s.cfg.Telegram.ReportChannel, text); err != nil {
		s.logger.Warn("daily report send failed", zap.Error(err))
	}
}
