package reset

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Func performs the actual reset when the month-end check fires.
type Func func(ctx context.Context) error

// Service runs an hourly check and, on the last day of the month, performs
// one reset of accumulated standings. A guard keeps the reset to once per
// month and re-arms on the 1st. This is best-effort: downtime that spans the
// month boundary silently skips that month's reset.
type Service struct {
	resetFn  Func
	interval time.Duration
	now      func() time.Time

	// month for which a reset already ran; zero means armed
	resetDone time.Month
	armed     bool

	stopCh chan struct{}
	log    *logrus.Entry
}

func NewService(resetFn Func, log *logrus.Entry) *Service {
	return &Service{
		resetFn:  resetFn,
		interval: time.Hour,
		now:      time.Now,
		armed:    true,
		stopCh:   make(chan struct{}),
		log:      log,
	}
}

// Start begins the periodic check in a background goroutine.
func (s *Service) Start() {
	go s.runLoop()
	s.log.Info("monthly reset service started (interval: 1h)")
}

// Stop signals the check loop to exit.
func (s *Service) Stop() {
	close(s.stopCh)
	s.log.Info("monthly reset service stopped")
}

func (s *Service) runLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.runCheck(context.Background())
		}
	}
}

// runCheck applies the month-end guard logic for the current time.
func (s *Service) runCheck(ctx context.Context) {
	now := s.now()

	if now.Day() == 1 {
		// re-arm for the new month
		s.armed = true
		return
	}

	if now.Day() != lastDayOfMonth(now) {
		return
	}
	if !s.armed && s.resetDone == now.Month() {
		return
	}

	if err := s.resetFn(ctx); err != nil {
		// Leave the guard armed so a later tick today retries.
		s.log.WithError(err).Error("monthly reset failed")
		return
	}

	s.armed = false
	s.resetDone = now.Month()
	s.log.WithField("month", now.Month().String()).Info("standings reset for month end")
}

func lastDayOfMonth(t time.Time) int {
	// day 0 of the next month is the last day of this one
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
