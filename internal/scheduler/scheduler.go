package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// State is the refresh lifecycle: idle until a trigger fires, running until
// the task returns.
type State int32

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Task is the work run on every trigger. source says what fired it.
type Task func(ctx context.Context, source string)

// Schedule describes the weekly trigger.
type Schedule struct {
	Day      time.Weekday
	Hour     int
	Minute   int
	Location *time.Location
	// Timeout bounds a single run. Zero means no deadline.
	Timeout time.Duration
}

// Spec renders the schedule as a standard cron expression with a CRON_TZ
// prefix, e.g. "CRON_TZ=Asia/Karachi 0 0 * * 0".
func (s Schedule) Spec() string {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	return fmt.Sprintf("CRON_TZ=%s %d %d * * %d", loc.String(), s.Minute, s.Hour, int(s.Day))
}

func (s Schedule) String() string {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	return fmt.Sprintf("every %s at %02d:%02d %s", s.Day, s.Hour, s.Minute, loc)
}

// Scheduler fires a Task on a weekly cron schedule and never lets two runs
// overlap.
type Scheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	config   Schedule
	task     Task
	state    atomic.Int32

	// mu guards stopped and every wg.Add, so no run can start once Stop
	// has begun waiting.
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// New validates the schedule and registers task with it. Call Start to
// begin firing.
func New(cfg Schedule, task Task) (*Scheduler, error) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	schedule, err := cron.ParseStandard(cfg.Spec())
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", cfg.Spec(), err)
	}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithLogger(cron.PrintfLogger(log.New(os.Stderr, "cron: ", log.LstdFlags))),
		),
		schedule: schedule,
		config:   cfg,
		task:     task,
	}
	s.cron.Schedule(schedule, cron.FuncJob(s.fire))
	return s, nil
}

// fire is the cron job.
func (s *Scheduler) fire() {
	if !s.RunNow(context.Background(), "scheduled") {
		log.Printf("Skipping scheduled refresh: previous run still in progress or scheduler stopped")
	}
}

// Start begins firing in the background.
func (s *Scheduler) Start() {
	log.Printf("Meal plan refresh scheduled %s (next run %s)", s.config, s.Next(time.Now()).Format(time.RFC1123))
	s.cron.Start()
}

// Stop stops the trigger, refuses further runs, and waits for a run in
// progress to finish or for ctx to expire, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	cronDone := s.cron.Stop().Done()
	done := make(chan struct{})
	go func() {
		<-cronDone
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunNow runs the task synchronously. It returns false immediately when a
// run is already in progress or the scheduler has been stopped.
func (s *Scheduler) RunNow(ctx context.Context, source string) bool {
	s.mu.Lock()
	if s.stopped || !s.state.CompareAndSwap(int32(Idle), int32(Running)) {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	defer func() {
		s.state.Store(int32(Idle))
		s.wg.Done()
	}()

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}
	s.task(ctx, source)
	return true
}

// State reports whether a run is in progress.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Next returns the first trigger time after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Schedule returns the configured trigger.
func (s *Scheduler) Schedule() Schedule {
	return s.config
}
