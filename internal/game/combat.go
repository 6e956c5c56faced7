package game

import "math/rand"

// CombatResolver rolls strike and anti-air damage. It owns its own RNG so a
// battle replays identically from the same seed regardless of what else in
// the process consumes randomness.
type CombatResolver struct {
	rng *rand.Rand
	bal Balance
}

// NewCombatResolver creates a resolver with a deterministic seed.
func NewCombatResolver(seed int64, bal Balance) *CombatResolver {
	return &CombatResolver{
		rng: rand.New(rand.NewSource(seed)), // #nosec G404 -- deterministic sim rolls, not crypto
		bal: bal,
	}
}

// damageRoll returns base ± round(base×variance), uniform inclusive.
func (cr *CombatResolver) damageRoll(base int) int {
	spread := int(float64(base)*cr.bal.DamageVariance + 0.5)
	if spread == 0 {
		return base
	}
	return base + cr.rng.Intn(2*spread+1) - spread
}

// scaled rolls damage for base and scales it by the acting unit's health
// fraction: a battered squadron hits softer, a battered carrier shoots worse.
func (cr *CombatResolver) scaled(hp, maxHP, base int) int {
	frac := float64(hp) / float64(maxHP)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	d := int(float64(cr.damageRoll(base))*frac + 0.5)
	if d < 0 {
		return 0
	}
	return d
}

// ScaledDamage rolls a squadron's strike damage from its current hp.
func (cr *CombatResolver) ScaledDamage(attacker *Squadron, base int) int {
	return cr.scaled(attacker.HP, attacker.MaxHP, base)
}

// ScaledAA rolls a carrier's anti-air damage from the given hp snapshot. The
// snapshot is the carrier's hp at the start of the strike phase, so every AA
// burst this turn shoots at full pre-damage effectiveness — units never
// re-read damage freshly applied within the same turn.
func (cr *CombatResolver) ScaledAA(defender *Carrier, hpSnapshot, base int) int {
	return cr.scaled(hpSnapshot, defender.MaxHP, base)
}

// Exchange is the result of one squadron-versus-carrier engagement.
type Exchange struct {
	StrikeDamage int // dealt by the squadron to the carrier
	AADamage     int // dealt by the carrier's AA back to the squadron
	CarrierSunk  bool
	SquadronDown bool
}

// ResolveStrike runs one range-1 engagement: the squadron's strike and the
// carrier's AA reply, both rolled from pre-exchange hp, then applied with an
// hp floor of zero. The squadron's phase transition (returning or lost) is
// the caller's business; combat only settles the numbers.
func (cr *CombatResolver) ResolveStrike(attacker *Squadron, defender *Carrier, defenderHPSnapshot int) Exchange {
	ex := Exchange{
		StrikeDamage: cr.ScaledDamage(attacker, cr.bal.AttackBase),
		AADamage:     cr.ScaledAA(defender, defenderHPSnapshot, cr.bal.AABase),
	}

	defender.HP -= ex.StrikeDamage
	if defender.HP <= 0 {
		defender.HP = 0
		ex.CarrierSunk = true
	}
	attacker.HP -= ex.AADamage
	if attacker.HP <= 0 {
		attacker.HP = 0
		ex.SquadronDown = true
	}
	return ex
}
