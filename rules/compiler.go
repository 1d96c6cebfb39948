package rules

import "fmt"

// CompileDoctrine generates the tuning rule set for a base doctrine.
// Thresholds are interpolated into the expr source with fmt.Sprintf so the
// compiler never emits invalid conditions.
func CompileDoctrine(d Doctrine) []*Rule {
	d.Validate()
	var rules []*Rule

	// aggression is the share of draws that land in the attack band
	aggression := clamp(d.AttackRatio-d.SettleRatio, 0, 1)

	// --- Expansion (who grabs unclaimed planets) ---

	rules = append(rules, &Rule{
		Name:         "map-claimed",
		Priority:     900,
		Category:     "expansion",
		Exclusive:    true,
		ConditionSrc: `FreePlanets() == 0`,
		Adjust: func(env StandingsEnv, d *Doctrine) {
			// settlers can still fill our own planets, but far fewer are needed
			d.SettleRatio = d.SettleRatio / 2
		},
	})

	landGrabTurns := lerp(120, 40, aggression)
	rules = append(rules, &Rule{
		Name:         "land-grab",
		Priority:     850,
		Category:     "expansion",
		Exclusive:    true,
		ConditionSrc: fmt.Sprintf(`FreePlanets() > 0 && Turn() < %d`, landGrabTurns),
		Adjust: func(env StandingsEnv, d *Doctrine) {
			d.SettleRatio += 0.1
			d.AttackRatio = max(d.AttackRatio, d.SettleRatio+0.1)
		},
	})

	// --- Posture (attack vs defend balance) ---

	dominantShare := lerpf(0.7, 0.5, aggression)
	rules = append(rules, &Rule{
		Name:         "finish-them",
		Priority:     700,
		Category:     "posture",
		Exclusive:    true,
		ConditionSrc: fmt.Sprintf(`ShipShare() >= %.2f && Opponents() > 0`, dominantShare),
		Adjust: func(env StandingsEnv, d *Doctrine) {
			d.AttackRatio = d.SettleRatio + 0.8*(1-d.SettleRatio)
			d.ReserveRatio = d.AttackRatio + 0.1*(1-d.AttackRatio)
		},
	})

	leadMargin := lerp(15, 5, aggression)
	rules = append(rules, &Rule{
		Name:         "consolidate-lead",
		Priority:     600,
		Category:     "posture",
		Exclusive:    true,
		ConditionSrc: fmt.Sprintf(`Leading() && Lead() >= %d`, leadMargin),
		Adjust: func(env StandingsEnv, d *Doctrine) {
			d.AttackRatio -= 0.1
			d.ReserveRatio -= 0.05
			d.DefendMaxTurns += 10
		},
	})

	rules = append(rules, &Rule{
		Name:         "press-when-behind",
		Priority:     550,
		Category:     "posture",
		Exclusive:    true,
		ConditionSrc: `!Leading() && Opponents() > 0`,
		Adjust: func(env StandingsEnv, d *Doctrine) {
			d.AttackRatio += 0.1
			d.ReserveRatio += 0.1
		},
	})

	// --- Threat response (how readily ships break off to hunt) ---

	outnumberedShare := lerpf(0.2, 0.35, aggression)
	rules = append(rules, &Rule{
		Name:         "outnumbered",
		Priority:     400,
		Category:     "threat",
		Exclusive:    true,
		ConditionSrc: fmt.Sprintf(`Opponents() > 0 && ShipShare() < %.2f`, outnumberedShare),
		Adjust: func(env StandingsEnv, d *Doctrine) {
			d.ThreatRadius++
			d.HuntCapacity++
		},
	})

	return rules
}
