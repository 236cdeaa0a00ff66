package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/0yeonnnn0/kimitter-sub000/internal/bots"
)

// kst is the fixed UTC+9 zone every cron expression is evaluated in.
var kst = time.FixedZone("KST", 9*60*60)

// Task is one registered cron job's descriptor.
type Task struct {
	Name     string
	CronExpr string

	entryID cron.EntryID
}

type job struct {
	name string
	expr string
	bot  *bots.Bot
}

// Scheduler는 봇별 게시 파이프라인을 KST 크론 일정으로 구동합니다.
type Scheduler struct {
	Enabled bool

	cron *cron.Cron

	mu      sync.Mutex
	jobs    []job
	tasks   []Task
	started bool
	stopped bool
}

func New(enabled bool) *Scheduler {
	return &Scheduler{
		Enabled: enabled,
		cron:    cron.New(cron.WithLocation(kst)),
	}
}

// Register queues a bot pipeline under a cron expression. Effective
// only before Start.
func (s *Scheduler) Register(name, cronExpr string, bot *bots.Bot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job{name: name, expr: cronExpr, bot: bot})
}

// Initialize logs every registered bot's client in sequentially. Any
// login failure aborts initialization: partial startup is not
// tolerated, a bad credential should halt the process.
func (s *Scheduler) Initialize(ctx context.Context) error {
	s.mu.Lock()
	jobs := make([]job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.Unlock()

	for _, j := range jobs {
		if err := j.bot.Client.Login(ctx); err != nil {
			return fmt.Errorf("scheduler initialize: %s: %w", j.name, err)
		}
		log.Info().Str("job", j.name).Msg("bot client ready")
	}
	return nil
}

// Start registers one cron entry per bot and starts the runner. With
// the enable flag off it registers nothing and returns immediately.
func (s *Scheduler) Start() error {
	if !s.Enabled {
		log.Info().Msg("scheduler disabled, no jobs registered")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	for _, j := range s.jobs {
		j := j
		id, err := s.cron.AddFunc(j.expr, func() {
			j.bot.Run(context.Background())
		})
		if err != nil {
			return fmt.Errorf("scheduler start: %s: invalid schedule %q: %w", j.name, j.expr, err)
		}
		s.tasks = append(s.tasks, Task{Name: j.name, CronExpr: j.expr, entryID: id})
		log.Info().Str("job", j.name).Str("schedule", j.expr).Msg("cron job registered")
	}

	s.cron.Start()
	s.started = true
	return nil
}

// Stop halts every registered cron entry. Safe to call multiple times;
// entries are removed only on the first call. In-flight runs are not
// interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true

	for _, t := range s.tasks {
		s.cron.Remove(t.entryID)
	}
	if s.started {
		s.cron.Stop()
	}
	log.Info().Int("jobs", len(s.tasks)).Msg("scheduler stopped")
}

// Tasks returns a defensive copy of the registered job list.
func (s *Scheduler) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := make([]Task, len(s.tasks))
	copy(tasks, s.tasks)
	return tasks
}
