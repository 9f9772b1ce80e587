package batch

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"objraster/internal/config"
	"objraster/internal/log"
	"objraster/internal/renderer"
)

// Config holds the options shared by every job of a batch run.
type Config struct {
	// Overrides are applied to every settings file before defaults are filled in.
	Overrides config.Flags
	Workers   int
	// Progress is how often throughput is reported. Zero means every 2s.
	Progress time.Duration
	Logger   log.Logger
}

// Result holds the outcome of rendering one settings file.
type Result struct {
	SettingsPath string        `json:"settings"`
	ResultPath   string        `json:"result,omitempty"`
	Shapes       int           `json:"shapes"`
	Triangles    int           `json:"triangles"`
	ClearTime    time.Duration `json:"clear_ns"`
	DrawTime     time.Duration `json:"draw_ns"`
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
}

// Run renders every settings file using a worker pool. Each job gets its own
// Renderer, so nothing is shared between workers except the results slice.
// Results are returned in the order of paths.
func Run(cfg Config, paths []string) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Progress <= 0 {
		cfg.Progress = 2 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New("batch")
	}

	total := len(paths)
	results := make([]Result, total)
	jobs := prepare(cfg, paths, results)
	var processed atomic.Int64
	processed.Add(int64(total - len(jobs)))

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.Progress)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					cfg.Logger.Noticef("[%d/%d] %.1f frames/sec", p, total, rate)
				}
			}
		}
	}()

	queue := make(chan job, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				results[j.idx] = renderOne(cfg, results[j.idx], j.settings)
				processed.Add(1)
			}
		}()
	}

	for _, j := range jobs {
		queue <- j
	}
	close(queue)

	wg.Wait()
	close(done)

	return results
}

type job struct {
	idx      int
	settings config.Settings
}

// prepare loads every settings file in input order. Files that fail to load,
// or that would write a result another file already claimed, get their
// failure recorded in results and are not queued.
func prepare(cfg Config, paths []string, results []Result) []job {
	jobs := make([]job, 0, len(paths))
	claimed := make(map[string]string, len(paths))

	for i, path := range paths {
		results[i] = Result{SettingsPath: path}

		settings, err := config.Load(path)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		settings.Resolve(cfg.Overrides)
		results[i].ResultPath = settings.ResultPath

		key := filepath.Clean(settings.ResultPath)
		if owner, ok := claimed[key]; ok {
			results[i].Error = fmt.Sprintf("result path %s already used by %s", settings.ResultPath, owner)
			continue
		}
		claimed[key] = path
		jobs = append(jobs, job{idx: i, settings: settings})
	}
	return jobs
}

func renderOne(cfg Config, res Result, settings config.Settings) Result {
	r := renderer.New(settings, renderer.WithLogger(cfg.Logger))
	if err := r.Init(); err != nil {
		res.Error = fmt.Sprintf("init: %v", err)
		return res
	}
	defer r.Destroy()

	r.Update()
	if err := r.Render(); err != nil {
		res.Error = fmt.Sprintf("render: %v", err)
		return res
	}

	st := r.Stats()
	res.Shapes = st.Shapes
	res.Triangles = st.Triangles
	res.ClearTime = st.ClearTime
	res.DrawTime = st.DrawTime
	res.Success = true
	return res
}

// Failed returns the results that did not succeed, in order.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}
