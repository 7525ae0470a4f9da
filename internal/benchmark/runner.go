package benchmark

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"gopkg.in/op/go-logging.v1"

	"github.com/user/textbookrsa/internal/keygen"
	"github.com/user/textbookrsa/internal/log"
	"github.com/user/textbookrsa/internal/primes"
)

// GeneratorFactory builds the generator used by one worker goroutine.
type GeneratorFactory func(worker, limit int) KeyGenerator

type Runner struct {
	config       Config
	source       primes.Source
	newGenerator GeneratorFactory
	progressOut  io.Writer
	log          *logging.Logger
}

type RunnerOption func(*Runner)

// WithGeneratorFactory replaces the keygen.Generator built for each worker.
func WithGeneratorFactory(f GeneratorFactory) RunnerOption {
	return func(r *Runner) { r.newGenerator = f }
}

// WithProgressWriter sets where the progress bar is drawn.
func WithProgressWriter(w io.Writer) RunnerOption {
	return func(r *Runner) { r.progressOut = w }
}

func WithLogger(l *logging.Logger) RunnerOption {
	return func(r *Runner) { r.log = l }
}

func NewRunner(config Config, source primes.Source, opts ...RunnerOption) *Runner {
	if len(config.Limits) == 0 {
		config.Limits = []int{primes.DefaultLimit}
	}
	if config.Iterations < 1 {
		config.Iterations = 1
	}
	if config.Parallel < 1 {
		config.Parallel = 1
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = keygen.DefaultMaxAttempts
	}

	r := &Runner{
		config:      config,
		source:      source,
		progressOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = log.Discard("bench")
	}
	if r.newGenerator == nil {
		r.newGenerator = r.keygenFactory
	}
	return r
}

func (r *Runner) keygenFactory(worker, limit int) KeyGenerator {
	rnd := keygen.NewRand()
	if r.config.Seeded {
		rnd = keygen.SeededRand(r.config.Seed + uint64(worker))
	}
	return keygen.New(r.source,
		keygen.WithRand(rnd),
		keygen.WithDatasetLimit(limit),
		keygen.WithMaxAttempts(r.config.MaxAttempts),
		keygen.WithLogger(r.log),
	)
}

// Config returns the configuration after defaults were applied.
func (r *Runner) Config() Config {
	return r.config
}

func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	var results []Result

	for _, limit := range r.config.Limits {
		if err := primes.CheckCapacity(r.source, limit); err != nil {
			return nil, errors.Wrapf(err, "dataset limit %d", limit)
		}

		result, err := r.runSingleBenchmark(ctx, limit)
		if err != nil {
			return nil, err
		}

		results = append(results, result)
	}

	return results, nil
}

func (r *Runner) runSingleBenchmark(parent context.Context, limit int) (Result, error) {
	result := Result{
		RunID:      uuid.NewString(),
		Limit:      limit,
		Iterations: r.config.Iterations,
		Parallel:   r.config.Parallel,
	}
	r.log.Infof("run %s: limit %d, %d x %d keys", result.RunID, limit, r.config.Parallel, r.config.Iterations)

	totalIterations := r.config.Iterations * r.config.Parallel
	var progress *progressbar.ProgressBar

	if r.config.ShowProgress {
		progress = progressbar.NewOptions(totalIterations,
			progressbar.OptionSetWriter(r.progressOut),
			progressbar.OptionSetDescription(fmt.Sprintf("[limit-%d]", limit)),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(r.progressOut)
			}),
		)
	}

	initialCPU, _ := cpu.Percent(100*time.Millisecond, false)
	initialMem, _ := mem.VirtualMemory()

	ctx := parent
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, time.Duration(r.config.Timeout)*time.Second)
		defer cancel()
	}

	var (
		timings  []time.Duration
		attempts int
		failures int
		maxN     uint64
		fatal    error
		mu       sync.Mutex
	)

	startTime := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < r.config.Parallel; i++ {
		gen := r.newGenerator(i, limit)

		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < r.config.Iterations; j++ {
				iterStart := time.Now()
				key, err := gen.Generate(ctx)
				elapsed := time.Since(iterStart)

				if ctx.Err() != nil {
					return
				}

				mu.Lock()
				if err != nil {
					failures++
					if errors.Is(err, primes.ErrPrimeNotFound) && fatal == nil {
						fatal = err
					}
					r.log.Warningf("run %s: %v", result.RunID, err)
				} else {
					timings = append(timings, elapsed)
					attempts += key.Attempts
					if key.N > maxN {
						maxN = key.N
					}
				}
				mu.Unlock()

				if progress != nil {
					_ = progress.Add(1)
				}
			}
		}()
	}

	wg.Wait()

	if fatal != nil {
		return Result{}, fatal
	}
	if err := parent.Err(); err != nil {
		return Result{}, err
	}

	result.TotalTime = time.Since(startTime)
	result.CompletedAt = time.Now()
	result.Errors = failures
	result.Keys = len(timings)
	result.MaxModulus = maxN

	if len(timings) > 0 {
		result.AverageTime = calculateAverage(timings)
		result.MinTime = calculateMin(timings)
		result.MaxTime = calculateMax(timings)
		result.StdDev = calculateStdDev(timings, result.AverageTime)
		result.KeysPerSecond = float64(len(timings)) / result.TotalTime.Seconds()
		result.MeanAttempts = float64(attempts) / float64(len(timings))
		result.Retries = attempts - len(timings)
	}

	finalCPU, _ := cpu.Percent(100*time.Millisecond, false)
	finalMem, _ := mem.VirtualMemory()

	if len(initialCPU) > 0 && len(finalCPU) > 0 {
		result.CPUUsage = finalCPU[0] - initialCPU[0]
	}

	if initialMem != nil && finalMem != nil && finalMem.Used > initialMem.Used {
		result.MemoryUsed = finalMem.Used - initialMem.Used
	}

	runtime.GC()

	r.log.Infof("run %s: %d keys, %d retries, %d errors in %s",
		result.RunID, result.Keys, result.Retries, result.Errors, result.TotalTime)
	return result, nil
}

func calculateAverage(timings []time.Duration) time.Duration {
	if len(timings) == 0 {
		return 0
	}

	var sum time.Duration
	for _, t := range timings {
		sum += t
	}
	return sum / time.Duration(len(timings))
}

func calculateMin(timings []time.Duration) time.Duration {
	if len(timings) == 0 {
		return 0
	}

	min := timings[0]
	for _, t := range timings[1:] {
		if t < min {
			min = t
		}
	}
	return min
}

func calculateMax(timings []time.Duration) time.Duration {
	if len(timings) == 0 {
		return 0
	}

	max := timings[0]
	for _, t := range timings[1:] {
		if t > max {
			max = t
		}
	}
	return max
}

func calculateStdDev(timings []time.Duration, avg time.Duration) time.Duration {
	if len(timings) <= 1 {
		return 0
	}

	var sum float64
	avgFloat := float64(avg)

	for _, t := range timings {
		diff := float64(t) - avgFloat
		sum += diff * diff
	}

	variance := sum / float64(len(timings)-1)
	return time.Duration(math.Sqrt(variance))
}
