package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/fake_humans/internal/humans"
)

const eps = 1e-9

func segment(x0, y0, x1, y1 float64) Segment {
	return Segment{Start: humans.Point{X: x0, Y: y0}, End: humans.Point{X: x1, Y: y1}}
}

func TestInterpolationStaysInUnitRange(t *testing.T) {
	for phase := -20.0; phase <= 20.0; phase += 0.013 {
		k := Interpolation(phase)
		require.GreaterOrEqual(t, k, 0.0, "phase %v", phase)
		require.LessOrEqual(t, k, 1.0, "phase %v", phase)
	}
}

func TestPositionAtKeyPhases(t *testing.T) {
	st := NewState(segment(1, 1, 2, 3))

	t.Run("phase pi/2 is the end", func(t *testing.T) {
		p := st.PositionAt(math.Pi / 2)
		assert.InDelta(t, 2.0, p.X, eps)
		assert.InDelta(t, 3.0, p.Y, eps)
	})

	t.Run("phase 3pi/2 is the start", func(t *testing.T) {
		p := st.PositionAt(3 * math.Pi / 2)
		assert.InDelta(t, 1.0, p.X, eps)
		assert.InDelta(t, 1.0, p.Y, eps)
	})

	t.Run("phase 0 and pi are the midpoint", func(t *testing.T) {
		for _, phase := range []float64{0, math.Pi} {
			p := st.PositionAt(phase)
			assert.InDelta(t, 1.5, p.X, eps)
			assert.InDelta(t, 2.0, p.Y, eps)
		}
	})

	t.Run("z is always zero", func(t *testing.T) {
		assert.Zero(t, st.PositionAt(0.3).Z)
	})
}

func TestPositionStaysOnSegment(t *testing.T) {
	seg := segment(-3, 4, 5, -2)
	st := NewState(seg)
	dx, dy := seg.End.X-seg.Start.X, seg.End.Y-seg.Start.Y
	length2 := dx*dx + dy*dy

	for i := 0; i < 1000; i++ {
		h := st.Step()
		px := h.Pose.Position.X - seg.Start.X
		py := h.Pose.Position.Y - seg.Start.Y

		// collinear with the segment
		assert.InDelta(t, 0.0, px*dy-py*dx, 1e-9)
		// and between its ends
		k := (px*dx + py*dy) / length2
		assert.GreaterOrEqual(t, k, -eps)
		assert.LessOrEqual(t, k, 1+eps)
	}
}

func TestNewStateStartsAtRest(t *testing.T) {
	st := NewState(segment(1, 1, 2, 2))

	assert.Equal(t, TrackID, st.Human.TrackID)
	assert.Equal(t, humans.Point{X: 1, Y: 1}, st.Human.Pose.Position)
	assert.Equal(t, humans.IdentityQuaternion(), st.Human.Pose.Orientation)
	assert.Equal(t, humans.Twist{}, st.Human.Twist)
	assert.Equal(t, st.Human.Pose, st.Previous)
	assert.Zero(t, st.Phase)
}

func TestStepDerivesHeadingAndVelocityFromDelta(t *testing.T) {
	st := NewState(segment(0, 0, 4, 3))
	period := TickPeriod.Seconds()

	for i := 0; i < 500; i++ {
		prev := st.Previous
		prevPhase := st.Phase
		h := st.Step()

		dx := h.Pose.Position.X - prev.Position.X
		dy := h.Pose.Position.Y - prev.Position.Y

		assert.InDelta(t, dx/period, h.Twist.Linear.X, eps)
		assert.InDelta(t, dy/period, h.Twist.Linear.Y, eps)
		assert.Zero(t, h.Twist.Linear.Z)

		heading := math.Atan2(dy, dx)
		assert.InDelta(t, 0.0, NormalizeAngle(heading-h.Pose.Orientation.Yaw()), 1e-9)

		wantRate := NormalizeAngle(heading-prev.Orientation.Yaw()) / period
		assert.InDelta(t, wantRate, h.Twist.Angular.Z, 1e-6)

		assert.Equal(t, h.Pose, st.Previous, "previous pose is the pose just computed")
		assert.InDelta(t, prevPhase+PhaseStep, st.Phase, eps)
	}
}

func TestFirstStepJumpsFromStartToMidpoint(t *testing.T) {
	st := NewState(segment(0, 0, 10, 0))
	h := st.Step()

	assert.InDelta(t, 5.0, h.Pose.Position.X, eps)
	assert.InDelta(t, 50.0, h.Twist.Linear.X, eps)
	assert.InDelta(t, 0.0, h.Pose.Orientation.Yaw(), eps)
}

func TestSpeedVanishesAtEndpointsAndPeaksAtMidpoint(t *testing.T) {
	st := NewState(segment(0, 0, 10, 0))
	speeds := make([]float64, 401)
	for i := range speeds {
		h := st.Step()
		speeds[i] = math.Hypot(h.Twist.Linear.X, h.Twist.Linear.Y)
	}

	// tick i runs at phase i*PhaseStep: 100 is pi/2 (end), 200 is pi (middle),
	// 300 is 3pi/2 (start)
	atEnd, atMiddle, atStart := speeds[100], speeds[200], speeds[300]
	assert.Less(t, atEnd, atMiddle*0.01)
	assert.Less(t, atStart, atMiddle*0.01)

	for i := 101; i < 300; i++ {
		assert.LessOrEqual(t, speeds[i], atMiddle+1e-9, "tick %d", i)
	}
}

func TestYawRateNeverExceedsHalfTurnPerTick(t *testing.T) {
	st := NewState(segment(0, 0, 10, 0))
	limit := math.Pi/TickPeriod.Seconds() + 1e-9

	for i := 0; i < 1000; i++ {
		h := st.Step()
		assert.LessOrEqual(t, math.Abs(h.Twist.Angular.Z), limit, "tick %d", i)
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{1, 1},
		{-1, -1},
		{math.Pi / 2, math.Pi / 2},
		{2 * math.Pi, 0},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{-math.Pi, -math.Pi},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalizeAngle(tt.in), 1e-9, "in=%v", tt.in)
	}
}

func TestPhaseStepAndTickPeriod(t *testing.T) {
	assert.InDelta(t, math.Pi/200, PhaseStep, eps)
	assert.Equal(t, 0.1, TickPeriod.Seconds())
}
