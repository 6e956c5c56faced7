package game

// Balance holds every tunable constant of the simulation. The zero value is
// unusable; start from DefaultBalance and override fields as needed. The yaml
// tags let the server load a balance block straight from its config file.
type Balance struct {
	MapWidth    int `yaml:"map_width"`
	MapHeight   int `yaml:"map_height"`
	IslandBlobs int `yaml:"island_blobs"` // map generation only

	CarrierHP      int `yaml:"carrier_hp"`
	CarrierSpeed   int `yaml:"carrier_speed"`
	CarrierVision  int `yaml:"carrier_vision"`
	HangarCapacity int `yaml:"hangar_capacity"`

	SquadronHP       int `yaml:"squadron_hp"`
	SquadronSpeed    int `yaml:"squadron_speed"`
	SquadronVision   int `yaml:"squadron_vision"`
	OperationalRange int `yaml:"operational_range"`

	AttackBase     int     `yaml:"attack_base"`
	AABase         int     `yaml:"aa_base"`
	DamageVariance float64 `yaml:"damage_variance"`

	IntelTTL      int `yaml:"intel_ttl"`
	IntelPurgeAge int `yaml:"intel_purge_age"` // turns a stale entry survives at ttl 0

	MaxTurns int `yaml:"max_turns"`
}

// DefaultBalance returns the standard fleet-duel tuning.
func DefaultBalance() Balance {
	return Balance{
		MapWidth:    30,
		MapHeight:   30,
		IslandBlobs: 10,

		CarrierHP:      100,
		CarrierSpeed:   2,
		CarrierVision:  4,
		HangarCapacity: 2,

		SquadronHP:       40,
		SquadronSpeed:    10,
		SquadronVision:   5,
		OperationalRange: 22,

		AttackBase:     25,
		AABase:         20,
		DamageVariance: 0.20,

		IntelTTL:      3,
		IntelPurgeAge: 10,

		MaxTurns: 30,
	}
}

// DefaultSpawns returns the two carrier anchorages for a w×h map: mirrored
// corners, three cells in from each edge.
func DefaultSpawns(w, h int) (a, b Hex) {
	return Hex{X: 3, Y: 3}, Hex{X: w - 4, Y: h - 4}
}
