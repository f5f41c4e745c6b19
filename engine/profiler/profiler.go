package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one logged sample.
type Stats struct {
	TicksPerSecond float64
	HeapMB         float64
	AllocRateMB    float64
	GCCount        uint32
	LastPauseUs    uint64
	MaxPauseUs     uint64
	SysMB          float64
	LiveClips      int
}

// Profiler tracks tick rate, memory statistics and the number of live clips.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	tickCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
	quiet          bool
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// SetInterval changes how often stats are sampled. Non-positive values are ignored.
func (p *Profiler) SetInterval(interval time.Duration) {
	if interval > 0 {
		p.updateInterval = interval
	}
}

// SetQuiet samples without logging.
func (p *Profiler) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// Last returns the most recent sample.
func (p *Profiler) Last() Stats {
	return p.last
}

// Tick should be called once per engine tick.
// Samples and logs statistics when the update interval has elapsed: tick rate, heap usage,
// allocation rate, GC count/pause times, total memory and live clips.
//
// Parameters:
//   - liveClips: the number of clips currently held by all evaluators
//
// Returns:
//   - bool: true if stats were sampled this tick, false otherwise
func (p *Profiler) Tick(liveClips int) bool {
	p.tickCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		TicksPerSecond: float64(p.tickCount) / elapsed.Seconds(),
		HeapMB:         float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:          float64(p.memStats.Sys) / 1024 / 1024,
		GCCount:        p.memStats.NumGC,
		LiveClips:      liveClips,
	}
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	if s.GCCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if s.GCCount-startIdx > 256 {
			startIdx = s.GCCount - 256
		}
		for i := startIdx; i < s.GCCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > s.MaxPauseUs {
				s.MaxPauseUs = pause
			}
		}
	}

	if !p.quiet {
		log.Printf("[Profiler] TPS: %.2f | Clips: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
			s.TicksPerSecond, s.LiveClips, s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB)
	}

	p.last = s
	p.tickCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
