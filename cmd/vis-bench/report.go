package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/sightline/ecs"
	"github.com/plus3/sightline/render"
	"github.com/plus3/sightline/scene"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Scene    string
	Seed     uint64
	Entities int

	// Results
	Worlds         []WorldResult
	TotalTime      time.Duration
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type WorldResult struct {
	World        int
	Population   scene.Population
	TotalUpdates int64
	UpdateTime   Stats
	Scheduler    *ecs.SchedulerStats
	Visibility   render.VisibilityStats
	// DigestChanges counts frames whose visible set or draw order differed
	// from the previous frame.
	DigestChanges int
	AvgVisible    float64
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
	s.P99 = percentile(s.Samples, 0.99)
}

func percentile(samples []time.Duration, p float64) time.Duration {
	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	slices.Sort(sorted)
	return sorted[int(float64(len(sorted)-1)*p)]
}

// TotalUpdates sums frames over every world.
func (r *Report) TotalUpdates() int64 {
	var n int64
	for _, w := range r.Worlds {
		n += w.TotalUpdates
	}
	return n
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Visibility Benchmark Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Scene:** {{.Scene}} (seed {{.Seed}})
- **Entities per World:** {{.Entities}}
- **Worlds:** {{len .Worlds}}

## Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Time:** {{.TotalTime}}
{{range .Worlds}}
### World {{.World}}
- **Population:** {{.Population}}
- **Updates:** {{.TotalUpdates}}
- **Update Time (Frame):** avg {{.UpdateTime.Avg}}, min {{.UpdateTime.Min}}, max {{.UpdateTime.Max}}, p99 {{.UpdateTime.P99}}
- **Visibility:** {{.Visibility.Candidates}} candidates, {{.Visibility.Culled}} culled, {{.Visibility.Opaque}} opaque, {{.Visibility.Transparent}} transparent (last frame)
- **Camera:** {{.Visibility.CameraSource}}, skipped frames {{.Visibility.SkippedFrames}}/{{.Visibility.Frames}}
- **Avg Visible:** {{printf "%.1f" .AvgVisible}}
- **Visible Set Changes:** {{.DigestChanges}}
{{with .Scheduler}}
| System | Runs | Avg | Min | Max |
|--------|------|-----|-----|-----|
{{range .Systems}}| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} |
{{end}}{{end}}{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}

	return tmpl.Execute(w, r)
}
