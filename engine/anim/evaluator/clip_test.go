package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampTrack(t *testing.T, name string, duration float32, events ...Event) *Track {
	t.Helper()
	times := mustData(t, 1, 0, duration)
	values := mustData(t, 1, 0, duration)
	track, err := NewTrack(name, duration, []*Data{times}, []*Data{values}, []*Curve{
		NewCurve([]string{JoinPath(name, PropertyLocalPosition)}, 0, 0, InterpolationLinear),
	}, NewEvents(events...))
	require.NoError(t, err)
	return track
}

func TestClipDefaults(t *testing.T) {
	clip := NewClip(rampTrack(t, "idle", 1))

	assert.Equal(t, "idle", clip.Name())
	assert.True(t, clip.Playing())
	assert.True(t, clip.Loop())
	assert.Equal(t, float32(1), clip.Speed())
	assert.Equal(t, float32(1), clip.BlendWeight())
	assert.Equal(t, float32(0), clip.BlendOrder())
	assert.Equal(t, float32(0), clip.Time())
}

func TestClipLoopingWrapsTime(t *testing.T) {
	clip := NewClip(rampTrack(t, "walk", 2))
	for i := 0; i < 5; i++ {
		clip.Update(0.5)
	}
	assert.InDelta(t, 0.5, clip.Time(), 1e-6)
	assert.True(t, clip.Playing())
	assert.InDelta(t, 0.5, clip.Snapshot().Result(0)[0], 1e-6)
}

func TestClipNonLoopingClampsAndPauses(t *testing.T) {
	clip := NewClip(rampTrack(t, "jump", 2), WithLoop(false))
	for i := 0; i < 5; i++ {
		clip.Update(0.5)
	}
	assert.Equal(t, float32(2), clip.Time())
	assert.False(t, clip.Playing())
}

func TestClipBackwards(t *testing.T) {
	clip := NewClip(rampTrack(t, "walk", 2), WithSpeed(-1))
	clip.Update(0.5)
	assert.InDelta(t, 1.5, clip.Time(), 1e-6)

	once := NewClip(rampTrack(t, "walk", 2), WithSpeed(-1), WithLoop(false), WithTime(0.25))
	once.Update(0.5)
	assert.Equal(t, float32(0), once.Time())
	assert.False(t, once.Playing())
}

func TestClipZeroDurationLoopDoesNotProduceNaN(t *testing.T) {
	clip := NewClip(rampTrack(t, "pose", 0))
	clip.Update(0.5)
	assert.Equal(t, float32(0), clip.Time())
}

func TestClipPlaybackControls(t *testing.T) {
	clip := NewClip(rampTrack(t, "walk", 2), WithPlaying(false), WithTime(1))

	clip.Update(0.5)
	assert.Equal(t, float32(1), clip.Time())
	assert.InDelta(t, 1, clip.Snapshot().Result(0)[0], 1e-6, "paused clips still evaluate a moved playhead")

	clip.Resume()
	clip.Update(0.5)
	assert.InDelta(t, 1.5, clip.Time(), 1e-6)

	clip.Pause()
	assert.False(t, clip.Playing())

	clip.Play()
	assert.True(t, clip.Playing())
	assert.Equal(t, float32(0), clip.Time())

	clip.SetTime(1)
	clip.Stop()
	assert.False(t, clip.Playing())
	assert.Equal(t, float32(0), clip.Time())

	clip.SetTime(1)
	clip.Reset()
	assert.Equal(t, float32(0), clip.Time())
}

func TestClipProgressForTime(t *testing.T) {
	clip := NewClip(rampTrack(t, "walk", 2))
	assert.Equal(t, float32(0.25), clip.ProgressForTime(0.5))

	empty := NewClip(rampTrack(t, "pose", 0))
	assert.Equal(t, float32(0), empty.ProgressForTime(1))
}

func TestClipFiresEventsInCrossedRange(t *testing.T) {
	track := rampTrack(t, "walk", 1,
		Event{Name: "footL", Time: 0.25},
		Event{Name: "footR", Time: 0.75},
	)
	var fired []string
	clip := NewClip(track, WithClipEventHandler(func(c *Clip, ev Event) {
		fired = append(fired, ev.Name)
	}))

	clip.Update(0.25)
	assert.Equal(t, []string{"footL"}, fired)

	clip.Update(0.25)
	assert.Equal(t, []string{"footL"}, fired)

	// 0.5 -> 1.25 wraps to 0.25
	clip.Update(0.75)
	assert.Equal(t, []string{"footL", "footR", "footL"}, fired)
}

func TestClipFiresEventsBackwards(t *testing.T) {
	track := rampTrack(t, "walk", 1,
		Event{Name: "a", Time: 0.25},
		Event{Name: "b", Time: 0.75},
	)
	var fired []string
	clip := NewClip(track, WithSpeed(-1), WithTime(1), WithClipEventHandler(func(c *Clip, ev Event) {
		fired = append(fired, ev.Name)
	}))

	clip.Update(0.5)
	assert.Equal(t, []string{"b"}, fired)

	clip.Update(0.5)
	assert.Equal(t, []string{"b", "a"}, fired)
}

func TestClipSetTrackRebuildsSnapshot(t *testing.T) {
	clip := NewClip(rampTrack(t, "walk", 1))
	clip.Update(0.5)

	clip.SetTrack(rampTrack(t, "run", 2))
	assert.Equal(t, float32(-1), clip.Snapshot().Time())
	assert.Equal(t, "walk", clip.Name())
}
