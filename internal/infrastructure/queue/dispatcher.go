package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bahath/jobz-web/internal/api/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

type job struct {
	key string
	run func(ctx context.Context)
}

// Dispatcher routes session jobs to a fixed set of workers using consistent
// hashing on the browser id, so jobs for one browser run in order.
type Dispatcher struct {
	workers []chan job
	timeout time.Duration
	log     zerolog.Logger
	stopped <-chan struct{}
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers. Each
// job runs under its own timeout. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, timeout time.Duration, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		timeout: timeout,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled,
// after which Enqueue rejects every job. Call it before the first Enqueue.
func (d *Dispatcher) Start(ctx context.Context) {
	d.stopped = ctx.Done()
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a job to the worker responsible for key. It never blocks:
// it returns false when the dispatcher has stopped or the worker's buffer
// is full.
func (d *Dispatcher) Enqueue(key string, run func(ctx context.Context)) bool {
	select {
	case <-d.stopped:
		return false
	default:
	}

	idx := d.shardIndex(key)
	select {
	case d.workers[idx] <- job{key: key, run: run}:
	default:
		d.log.Warn().Str("key", key).Int("worker_id", idx).Msg("restore queue full, job rejected")
		return false
	}
	metrics.RestoreQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	return true
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-ch:
			if !ok {
				return
			}
			metrics.RestoreQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.run(ctx, id, j)
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, id int, j job) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("key", j.key).Int("worker_id", id).Msg("session job panicked")
		}
	}()

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	j.run(ctx)
	metrics.RestoreDuration.Observe(time.Since(start).Seconds())
}
