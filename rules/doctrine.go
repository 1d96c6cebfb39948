package rules

import "math"

// Doctrine holds the strategy parameters the allocator reads during a turn.
// The four ratios are cumulative thresholds for a uniform draw in [0,1):
// a draw below SettleRatio picks Settle, below AttackRatio picks Attack,
// below ReserveRatio picks Reserve, below DefendRatio picks Defend.
type Doctrine struct {
	Name         string  `yaml:"name"`
	SettleRatio  float64 `yaml:"settle_ratio"`
	AttackRatio  float64 `yaml:"attack_ratio"`
	ReserveRatio float64 `yaml:"reserve_ratio"`
	DefendRatio  float64 `yaml:"defend_ratio"`

	InitialSettlers int `yaml:"initial_settlers"` // first N ships always settle
	NearestCount    int `yaml:"nearest_count"`    // candidates considered per category
	DefendMaxTurns  int `yaml:"defend_max_turns"`

	ThreatRadius int `yaml:"threat_radius"` // tiles
	ThreatWindow int `yaml:"threat_window"` // threats abort a goal while it has run fewer turns than this
	ChaseRadius  int `yaml:"chase_radius"`  // tiles a hunter follows before giving up
	HuntCapacity int `yaml:"hunt_capacity"` // hunters per enemy ship

	AttackCapacityFactor int `yaml:"attack_capacity_factor"`
	DefendCapacityFactor int `yaml:"defend_capacity_factor"`
}

// MaxCapacityFactor bounds every per-planet slot count: attackers per docking
// spot, and defenders per docked ship. Relaxed attacks fill up to it.
const MaxCapacityFactor = 2

// DefaultDoctrine returns the baseline: half the fleet settles, most of the
// rest attacks, and a thin slice defends.
func DefaultDoctrine() Doctrine {
	return Doctrine{
		Name:                 "Balanced",
		SettleRatio:          0.5,
		AttackRatio:          0.8,
		ReserveRatio:         0.85,
		DefendRatio:          1.0,
		InitialSettlers:      4,
		NearestCount:         3,
		DefendMaxTurns:       30,
		ThreatRadius:         2,
		ThreatWindow:         3,
		ChaseRadius:          6,
		HuntCapacity:         2,
		AttackCapacityFactor: 1,
		DefendCapacityFactor: 2,
	}
}

// minRatioGap keeps the cumulative thresholds strictly increasing.
const minRatioGap = 0.01

// Validate clamps every field into its usable range and forces the ratios to
// be cumulative and strictly increasing, ending at 1.
func (d *Doctrine) Validate() {
	d.DefendRatio = 1
	d.ReserveRatio = clamp(d.ReserveRatio, 3*minRatioGap, d.DefendRatio-minRatioGap)
	d.AttackRatio = clamp(d.AttackRatio, 2*minRatioGap, d.ReserveRatio-minRatioGap)
	d.SettleRatio = clamp(d.SettleRatio, minRatioGap, d.AttackRatio-minRatioGap)

	d.InitialSettlers = clampInt(d.InitialSettlers, 0, 20)
	d.NearestCount = clampInt(d.NearestCount, 1, 10)
	d.DefendMaxTurns = clampInt(d.DefendMaxTurns, 1, 200)
	d.ThreatRadius = clampInt(d.ThreatRadius, 0, 5)
	d.ThreatWindow = clampInt(d.ThreatWindow, 0, 20)
	d.ChaseRadius = clampInt(d.ChaseRadius, 1, 20)
	d.HuntCapacity = clampInt(d.HuntCapacity, 1, 5)
	d.AttackCapacityFactor = clampInt(d.AttackCapacityFactor, 1, MaxCapacityFactor)
	d.DefendCapacityFactor = clampInt(d.DefendCapacityFactor, 1, MaxCapacityFactor)
}

// clampInt restricts v to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// lerp linearly interpolates between min and max by t (0–1), returning an int.
func lerp(min, max int, t float64) int {
	return min + int(math.Round(float64(max-min)*t))
}

// lerpf linearly interpolates between min and max by t (0–1), returning a float64.
func lerpf(min, max, t float64) float64 {
	return min + (max-min)*t
}

// clamp restricts v to [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
