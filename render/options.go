package render

import "github.com/mazznoer/colorgrad"

const (
	panicClip     = "render: WithClip: clip must be >= 0"
	panicFraction = "render: WithClipFraction: fraction must be in (0,1]"
	panicScale    = "render: WithScale: scale must be >= 1"
	panicQuality  = "render: WithQuality: quality must be in [1,100]"

	// DefaultGatherClipFraction clips gathers at 20% of their peak so later,
	// weaker arrivals stay visible next to the direct wave.
	DefaultGatherClipFraction = 0.2

	// DefaultQuality is the JPEG quality of movie frames.
	DefaultQuality = 90

	paletteSize = 256
)

// Option configures image rendering.
type Option func(*options)

type options struct {
	clip     float64 // 0 = derive from data
	fraction float64
	scale    int
	quality  int
	grad     colorgrad.Gradient
}

// WithClip fixes the clipping amplitude; 0 derives it from the data.
func WithClip(c float64) Option {
	if c < 0 {
		panic(panicClip)
	}

	return func(o *options) { o.clip = c }
}

// WithClipFraction sets the derived clip to fraction·max|v|.
func WithClipFraction(f float64) Option {
	if !(f > 0 && f <= 1) {
		panic(panicFraction)
	}

	return func(o *options) { o.fraction = f }
}

// WithScale enlarges every cell to k×k pixels.
func WithScale(k int) Option {
	if k < 1 {
		panic(panicScale)
	}

	return func(o *options) { o.scale = k }
}

// WithQuality sets the JPEG quality of movie frames.
func WithQuality(q int) Option {
	if q < 1 || q > 100 {
		panic(panicQuality)
	}

	return func(o *options) { o.quality = q }
}

// WithGradient replaces the RdBu palette.
func WithGradient(g colorgrad.Gradient) Option {
	return func(o *options) { o.grad = g }
}

func gatherOptions(defaults options, user ...Option) options {
	o := defaults
	for _, set := range user {
		set(&o)
	}

	return o
}

func defaultOptions() options {
	return options{fraction: 1, scale: 1, quality: DefaultQuality, grad: colorgrad.RdBu()}
}
