package retiming

import (
	"math"

	"github.com/danmuck/binwire/internal/observability"
	"github.com/rs/zerolog/log"
)

// Exchange outcomes, used for logging and metrics.
const (
	OutcomeSync   = "sync"
	OutcomeJitter = "jitter"
	OutcomeWrap   = "wrap"
	OutcomeResync = "resync"
)

// Options tunes a Retimer.
type Options struct {
	// AllowableDrift is the offset disagreement tolerated before a wrap or
	// resync is assumed. Must stay below the smallest overflow period.
	AllowableDrift float64
}

func DefaultOptions() Options {
	return Options{AllowableDrift: 50}
}

// WithDefaults fills unset fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	if o.AllowableDrift <= 0 {
		o.AllowableDrift = DefaultOptions().AllowableDrift
	}
	return o
}

// Retimer turns hardware counter samples into host-comparable timestamps
// using a shared TimeBasis.
type Retimer struct {
	basis *TimeBasis
	opts  Options
	clock Clock
}

// NewRetimer binds a retimer to basis. A nil clock uses SystemClock.
func NewRetimer(basis *TimeBasis, opts Options, clock Clock) *Retimer {
	if clock == nil {
		clock = SystemClock()
	}
	return &Retimer{basis: basis, opts: opts.WithDefaults(), clock: clock}
}

func (r *Retimer) Basis() *TimeBasis {
	return r.basis
}

// Exchange returns the host timestamp for a hardware counter sample. It never
// fails: a drift that neither jitter nor a single counter wrap explains
// resynchronizes the basis to the current host time.
func (r *Retimer) Exchange(hardwareTime float64) float64 {
	now := r.clock.Now()

	offset, synced := r.basis.Offset()
	if !synced {
		return r.sync(now, hardwareTime, OutcomeSync)
	}

	proposed := now - hardwareTime
	drift := offset - proposed
	outcome := OutcomeJitter

	if math.Abs(drift) > r.opts.AllowableDrift && r.basis.Width() != WidthUnbounded {
		offset += r.basis.Width().Overflow()
		r.basis.SetOffset(offset)
		drift = offset - proposed
		outcome = OutcomeWrap
	}

	if math.Abs(drift) > r.opts.AllowableDrift {
		log.Debug().
			Float64("hardware", hardwareTime).
			Float64("now", now).
			Float64("drift", drift).
			Uint("width", uint(r.basis.Width())).
			Msg("retimer drift irreconcilable, resyncing")
		r.basis.Reset()
		return r.sync(now, hardwareTime, OutcomeResync)
	}

	if outcome == OutcomeWrap {
		log.Debug().
			Float64("hardware", hardwareTime).
			Float64("offset", offset).
			Uint("width", uint(r.basis.Width())).
			Msg("retimer absorbed counter wrap")
	}
	observability.RecordRetime(uint(r.basis.Width()), outcome)
	return hardwareTime + offset
}

func (r *Retimer) sync(now, hardwareTime float64, outcome string) float64 {
	r.basis.SetOffset(now - hardwareTime)
	observability.RecordRetime(uint(r.basis.Width()), outcome)
	return now
}
