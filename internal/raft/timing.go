package raft

import "math/rand"

// Clock is monotonic floating-point seconds supplied by the driver; the
// core never reads a wall clock itself (spec §9).
type Clock = float64

// Config holds the tunable timing constants named in spec §6. All are
// seconds, matching the Clock unit.
type Config struct {
	MinElectionTimeout   Clock
	ElectionTimeoutJitter Clock
	HeartbeatInterval    Clock
}

// DefaultConfig returns the reference values from spec §5 ("heartbeat
// 20ms-200ms; election 150ms-300ms"), picking representative points in
// each range.
func DefaultConfig() Config {
	return Config{
		MinElectionTimeout:   0.15,
		ElectionTimeoutJitter: 0.15,
		HeartbeatInterval:    0.05,
	}
}

// RandSource is a pluggable randomness source for election-timeout
// jitter (spec §9: "per-request randomness requires a pluggable RNG
// source so deterministic tests can inject fixed sequences").
type RandSource interface {
	Float64() float64
}

// mathRandSource adapts *rand.Rand to RandSource.
type mathRandSource struct{ r *rand.Rand }

func (m mathRandSource) Float64() float64 { return m.r.Float64() }

// NewRandSource returns a RandSource seeded from seed. Use a fixed seed
// in tests for deterministic jitter.
func NewRandSource(seed int64) RandSource {
	return mathRandSource{r: rand.New(rand.NewSource(seed))}
}

// nextElectionDeadline computes now + MIN_TIMEOUT + rand[0, JITTER),
// per spec §4.3/§4.4's election-deadline reset rule.
func nextElectionDeadline(now Clock, cfg Config, rnd RandSource) Clock {
	return now + cfg.MinElectionTimeout + rnd.Float64()*cfg.ElectionTimeoutJitter
}
