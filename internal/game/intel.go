package game

// IntelEntry is one side's remembered picture of a single enemy unit: where it
// was last seen and, for carriers, how badly it was hurt. Entries decay rather
// than vanish — a stale entry keeps its frozen position until the purge policy
// removes it.
type IntelEntry struct {
	Pos Hex

	// HP is the hp observed at the last sighting. Only carrier entries carry
	// it; squadron hp is never readable at a distance.
	HP    int
	HasHP bool

	// TTL counts down each turn the unit goes unseen; a re-sighting resets it
	// to the configured maximum. TTL 0 means the entry is stale.
	TTL int

	// StaleFor counts turns spent at TTL 0, for the purge policy.
	StaleFor int
}

// Fresh reports whether the entry was refreshed within the ttl window.
func (e *IntelEntry) Fresh() bool {
	return e.TTL > 0
}

// intelSubject is the observable footprint of one enemy unit this turn: its
// id, where it is, and whether its hp is readable when sighted.
type intelSubject struct {
	id      string
	pos     Hex
	hp      int
	carrier bool
}

// intelSubjects lists the enemy units that can be sighted this turn. Base and
// lost squadrons have no position and so no footprint; their old entries just
// keep decaying.
func intelSubjects(enemy *Force) []intelSubject {
	subs := make([]intelSubject, 0, 1+len(enemy.Squadrons))
	subs = append(subs, intelSubject{
		id:      enemy.Carrier.ID,
		pos:     enemy.Carrier.Pos,
		hp:      enemy.Carrier.HP,
		carrier: true,
	})
	for _, s := range enemy.Squadrons {
		if srt, ok := s.Sortie(); ok {
			subs = append(subs, intelSubject{id: s.ID, pos: srt.Pos})
		}
	}
	return subs
}

// UpdateIntel runs one turn of intel bookkeeping for f against enemy: refresh
// entries for enemy units inside f's visible set, decay the rest, and apply
// the purge policy. Returns the ids sighted this turn that were not fresh last
// turn — the new contacts worth logging.
func UpdateIntel(f *Force, enemy *Force, bal Balance) (newContacts []string) {
	seen := make(map[string]struct{})
	for _, sub := range intelSubjects(enemy) {
		if _, vis := f.Visible[sub.pos]; !vis {
			continue
		}
		seen[sub.id] = struct{}{}
		e := f.Intel[sub.id]
		if e == nil {
			e = &IntelEntry{}
			f.Intel[sub.id] = e
		}
		if !e.Fresh() {
			newContacts = append(newContacts, sub.id)
		}
		e.Pos = sub.pos
		e.TTL = bal.IntelTTL
		e.StaleFor = 0
		if sub.carrier {
			e.HP = sub.hp
			e.HasHP = true
		}
	}

	for id, e := range f.Intel {
		if _, ok := seen[id]; ok {
			continue
		}
		if e.TTL > 0 {
			e.TTL--
			continue
		}
		e.StaleFor++
		if e.StaleFor > bal.IntelPurgeAge {
			delete(f.Intel, id)
		}
	}
	return newContacts
}

// DropIntel removes the entry for a unit whose destruction was directly
// observed; there is nothing left to remember a position for.
func (f *Force) DropIntel(id string) {
	delete(f.Intel, id)
}
