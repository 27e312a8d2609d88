package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/plus3/sightline/ecs"
	"github.com/plus3/sightline/render"
	"github.com/plus3/sightline/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{}
	for i := 1; i <= 100; i++ {
		s.Samples = append(s.Samples, time.Duration(101-i)*time.Millisecond)
	}
	s.Finalize()

	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 100*time.Millisecond, s.Max)
	assert.Equal(t, 50500*time.Microsecond, s.Avg)
	assert.Equal(t, 99*time.Millisecond, s.P99)
	assert.Equal(t, 100*time.Millisecond, s.Samples[0], "samples are not reordered")

	empty := Stats{}
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestReportGenerate(t *testing.T) {
	report := &Report{
		Duration: time.Second,
		Scene:    "built-in",
		Seed:     3,
		Entities: 10,
		Worlds: []WorldResult{{
			World:        0,
			Population:   scene.Population{Entities: 10, PerGroup: map[string]int{"a": 10}},
			TotalUpdates: 42,
			Scheduler: &ecs.SchedulerStats{Systems: []ecs.SystemStats{
				{Name: "VisibilitySortingSystem", ExecutionCount: 42},
			}},
			Visibility:    render.VisibilityStats{Frames: 42, CameraSource: render.CameraActive},
			DigestChanges: 7,
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "Total Updates:** 42")
	assert.Contains(t, out, "10 entities (0 transparent, 0 hidden) in 1 groups")
	assert.Contains(t, out, "| VisibilitySortingSystem | 42 |")
	assert.Contains(t, out, "**Camera:** active")
	assert.Contains(t, out, "Visible Set Changes:** 7")
	assert.NotContains(t, out, "GC Pause")
}

func TestRunWorld(t *testing.T) {
	cfg := scene.Default()
	cfg.Groups = []scene.GroupConfig{
		{Name: "few", Count: 30, Spread: 40, Radius: 1, Scale: [2]float32{1, 1}, Transparent: 0.5},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	result, err := runWorld(ctx, zap.NewNop(), cfg)
	require.NoError(t, err)
	assert.Positive(t, result.TotalUpdates)
	assert.Equal(t, uint64(result.TotalUpdates), result.Visibility.Frames)
	assert.Equal(t, render.CameraActive, result.Visibility.CameraSource)
	assert.Zero(t, result.Visibility.SkippedFrames)
	assert.Positive(t, result.DigestChanges)
	require.NotNil(t, result.Scheduler)
	assert.Len(t, result.Scheduler.Systems, 2)
}
