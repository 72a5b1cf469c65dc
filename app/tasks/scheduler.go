package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/techunar/stockwire/app/database"
	"github.com/techunar/stockwire/app/feed"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Options carries the scheduling parameters, constructed once at startup and
// passed in explicitly.
type Options struct {
	Interval     time.Duration
	ErrorBackoff time.Duration
	WorkerCount  int
	UserAgent    string
}

// Scheduler runs the ingestion cycle on a fixed interval, forever. A cycle
// enqueues one IngestFeedTask per enabled feed onto a bounded worker pool and
// waits for all of them to finish. Any failure escaping a task's own
// isolation shortens the delay before the next cycle; the scheduler itself
// never terminates because of a cycle failure.
type Scheduler struct {
	configCache *feed.ConfigCache
	articleRepo database.ArticleRepository
	httpClient  *http.Client
	parser      *feed.Parser
	extractor   *feed.Extractor
	enricher    Enricher
	opts        Options
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan cycleJob
	taskFactory func(feedConfig *feed.Config) TaskInterface
}

type cycleJob struct {
	task TaskInterface
	wg   *sync.WaitGroup
	errs chan<- error
}

func NewScheduler(configCache *feed.ConfigCache, articleRepo database.ArticleRepository,
	httpClient *http.Client, parser *feed.Parser, extractor *feed.Extractor,
	enricher Enricher, opts Options) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if opts.WorkerCount <= 0 {
		opts.WorkerCount = 1
	}

	s := &Scheduler{
		configCache: configCache,
		articleRepo: articleRepo,
		httpClient:  httpClient,
		parser:      parser,
		extractor:   extractor,
		enricher:    enricher,
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan cycleJob, 300),
	}
	s.taskFactory = func(feedConfig *feed.Config) TaskInterface {
		return NewIngestFeedTask(feedConfig.Name, feedConfig, s.httpClient,
			s.parser, s.extractor, s.enricher, s.articleRepo, s.opts.UserAgent)
	}

	return s
}

func (s *Scheduler) Start() {
	for i := 0; i < s.opts.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-timer.C:
			}

			delay := s.opts.Interval
			if err := s.runCycle(); err != nil {
				slog.Error("Ingestion cycle failed", "error", err, "backoff", s.opts.ErrorBackoff)
				delay = s.opts.ErrorBackoff
			}

			timer.Reset(delay)
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

// runCycle dispatches one task per enabled feed and waits for the whole
// cycle to complete. The returned error aggregates everything that escaped
// per-candidate isolation inside the tasks.
func (s *Scheduler) runCycle() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in ingestion cycle: %v", r)
		}
	}()

	feedConfigs := s.configCache.GetEnabledConfigs()
	if len(feedConfigs) == 0 {
		slog.Debug("No enabled feed configurations found")
		return nil
	}

	slog.Debug("Starting ingestion cycle", "feeds", len(feedConfigs))

	var cycleWg sync.WaitGroup
	errCh := make(chan error, len(feedConfigs))

	for _, feedConfig := range feedConfigs {
		task := s.taskFactory(feedConfig)

		cycleWg.Add(1)
		select {
		case s.taskQueue <- cycleJob{task: task, wg: &cycleWg, errs: errCh}:
		case <-s.ctx.Done():
			cycleWg.Done()
		}
	}

	waitCh := make(chan struct{})
	go func() {
		cycleWg.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
	case <-s.ctx.Done():
		// Workers are exiting; drain anything they left behind so the cycle
		// waiter cannot strand a job that was enqueued after the last worker
		// checked the queue.
		s.drainQueue()
		<-waitCh
	}
	close(errCh)

	var errs []error
	for taskErr := range errCh {
		if taskErr != nil {
			errs = append(errs, taskErr)
		}
	}

	return errors.Join(errs...)
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case job, ok := <-s.taskQueue:
			if !ok {
				return
			}
			job.errs <- s.executeTask(id, job.task)
			job.wg.Done()

		case <-s.ctx.Done():
			s.drainQueue()
			return
		}
	}
}

// drainQueue releases cycle waiters after cancellation so a shutdown during
// a running cycle cannot deadlock Stop.
func (s *Scheduler) drainQueue() {
	for {
		select {
		case job := <-s.taskQueue:
			job.errs <- s.ctx.Err()
			job.wg.Done()
		default:
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in task %s: %v", task.GetID(), r)
		}
	}()

	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "feed", task.GetFeedName(), "error", err)
		return err
	}

	return nil
}
