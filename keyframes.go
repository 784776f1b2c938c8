package segue

import "github.com/tanema/gween/ease"

// KeyframeRate is the sampling rate, in frames per second of animation time,
// at which FromKeyframes bakes a styled transition into keyframes.
const KeyframeRate = 60

// StyleFunc is a conventional styled transition: given eased progress t and
// its inverse u = 1-t, it returns the property values for that frame.
// Recognized keys are "x", "y", "width", "height", and "alpha"; unknown keys
// are ignored.
type StyleFunc func(t, u float64) map[string]float64

// KeyframeConfig configures FromKeyframes. Zero Delay/Duration/Ease fall
// back to the call-site params.
type KeyframeConfig struct {
	Delay    float64
	Duration float64
	Ease     ease.TweenFunc
	Style    StyleFunc
}

// FromKeyframes adapts a styled, CSS-keyframe-like transition into a
// [TransitionFunc]: the styled output is sampled at [KeyframeRate] into a
// keyframe sequence, and the tick interpolates between adjacent samples.
// Easing is baked into the samples; the easing captured by the previous run
// is reused on the next one so an interrupted-and-reversed transition stays
// on a continuous eased curve.
func FromKeyframes(cfg KeyframeConfig) TransitionFunc {
	var lastEase ease.TweenFunc
	return func(n *Node, p Params, dir Direction) TransitionSpec {
		duration := cfg.Duration
		if duration == 0 {
			duration = p.Duration
		}
		if duration <= 0 || cfg.Style == nil {
			return TransitionSpec{}
		}
		delay := cfg.Delay
		if delay == 0 {
			delay = p.Delay
		}
		easef := cfg.Ease
		if easef == nil {
			easef = p.Ease
		}
		if easef == nil {
			easef = ease.Linear
		}
		if lastEase != nil {
			easef = lastEase
		}
		lastEase = easef

		steps := int(duration * KeyframeRate)
		if steps < 1 {
			steps = 1
		}
		frames := make([]map[string]float64, steps+1)
		for i := 0; i <= steps; i++ {
			et := float64(easef(float32(i)/float32(steps), 0, 1, 1))
			frames[i] = cfg.Style(et, 1-et)
		}

		return TransitionSpec{
			Delay:    delay,
			Duration: duration,
			Ease:     ease.Linear, // easing is baked into the samples
			Tick: func(n *Node, t float64) {
				pos := t * float64(steps)
				i := int(pos)
				if i >= steps {
					applyStyle(n, frames[steps])
					return
				}
				frac := pos - float64(i)
				applyStyleLerp(n, frames[i], frames[i+1], frac)
			},
		}
	}
}

// applyStyle writes a sampled frame's recognized properties onto the node.
func applyStyle(n *Node, frame map[string]float64) {
	for key, v := range frame {
		setStyleProp(n, key, v)
	}
}

// applyStyleLerp writes the linear interpolation of two adjacent frames.
func applyStyleLerp(n *Node, a, b map[string]float64, frac float64) {
	for key, av := range a {
		bv, ok := b[key]
		if !ok {
			bv = av
		}
		setStyleProp(n, key, av+(bv-av)*frac)
	}
}

func setStyleProp(n *Node, key string, v float64) {
	switch key {
	case "x":
		n.X = v
	case "y":
		n.Y = v
	case "width":
		n.Width = v
	case "height":
		n.Height = v
	case "alpha":
		n.Alpha = v
	}
}
