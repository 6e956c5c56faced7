package game

// SideView is the complete picture one side is entitled to: its own units in
// full, its visible cells, its intel about the enemy, and its slice of the
// log. Nothing of the opponent leaks except through visibility and intel —
// the view is built server-side from authoritative state, so a client
// recomputing fog locally can only ever display less, never gate more.
type SideView struct {
	You    string `json:"you"` // "a" or "b"
	Turn   int    `json:"turn"`
	Status string `json:"status"`
	Result string `json:"result,omitempty"` // win|lose|draw once over
	Reason string `json:"reason,omitempty"`

	Width  int `json:"width"`
	Height int `json:"height"`

	Carrier   CarrierView    `json:"carrier"`
	Squadrons []SquadronView `json:"squadrons"`
	Visible   []Hex          `json:"visible"`
	Intel     []IntelView    `json:"intel"`

	OrdersStaged   bool `json:"orders_staged"`
	OpponentStaged bool `json:"opponent_staged"`

	Log []LogLineView `json:"log"`
}

// CarrierView is the owner's full carrier state.
type CarrierView struct {
	ID     string `json:"id"`
	Pos    Hex    `json:"pos"`
	HP     int    `json:"hp"`
	MaxHP  int    `json:"max_hp"`
	Speed  int    `json:"speed"`
	Vision int    `json:"vision"`
	Target *Hex   `json:"target,omitempty"`
}

// SquadronView is the owner's full squadron state. Pos and Target are present
// exactly while the squadron is deployed.
type SquadronView struct {
	ID     string `json:"id"`
	Phase  string `json:"phase"`
	HP     int    `json:"hp"`
	MaxHP  int    `json:"max_hp"`
	Speed  int    `json:"speed"`
	Vision int    `json:"vision"`
	Pos    *Hex   `json:"pos,omitempty"`
	Target *Hex   `json:"target,omitempty"`
}

// IntelView is one remembered enemy unit: last-seen position always, hp only
// for carriers, freshness so the client can grey out stale markers.
type IntelView struct {
	ID    string `json:"id"`
	Pos   Hex    `json:"pos"`
	HP    *int   `json:"hp,omitempty"`
	Fresh bool   `json:"fresh"`
}

// LogLineView is one log entry in wire form.
type LogLineView struct {
	Turn     int    `json:"turn"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

// View assembles side's snapshot of the battle as of the last resolved turn.
func (b *Battle) View(side Side) SideView {
	f := b.Forces[side]
	c := f.Carrier

	v := SideView{
		You:    side.Label(),
		Turn:   b.Turn,
		Status: b.Status.String(),
		Width:  b.Terrain.Width,
		Height: b.Terrain.Height,
		Carrier: CarrierView{
			ID:     c.ID,
			Pos:    c.Pos,
			HP:     c.HP,
			MaxHP:  c.MaxHP,
			Speed:  c.Speed,
			Vision: c.Vision,
			Target: copyHex(c.MoveTarget),
		},
		Visible:        f.VisibleCells(),
		OrdersStaged:   b.OrdersStaged(side),
		OpponentStaged: b.OrdersStaged(side.Opponent()),
	}
	if b.Outcome != nil {
		v.Result = b.Outcome.Result.For(side)
		v.Reason = b.Outcome.Description
	}

	for _, sq := range f.Squadrons {
		sv := SquadronView{
			ID:     sq.ID,
			Phase:  sq.Phase().String(),
			HP:     sq.HP,
			MaxHP:  sq.MaxHP,
			Speed:  sq.Speed,
			Vision: sq.Vision,
		}
		if srt, ok := sq.Sortie(); ok {
			p, t := srt.Pos, srt.Target
			sv.Pos, sv.Target = &p, &t
		}
		v.Squadrons = append(v.Squadrons, sv)
	}

	for _, id := range sortedIntelIDs(f.Intel) {
		e := f.Intel[id]
		iv := IntelView{ID: id, Pos: e.Pos, Fresh: e.Fresh()}
		if e.HasHP {
			hp := e.HP
			iv.HP = &hp
		}
		v.Intel = append(v.Intel, iv)
	}

	for _, e := range b.Log.SideSlice(side) {
		v.Log = append(v.Log, LogLineView{
			Turn:     e.Turn,
			Unit:     e.Unit,
			Category: e.Category,
			Key:      e.Key,
			Value:    e.Value,
		})
	}
	return v
}

func copyHex(h *Hex) *Hex {
	if h == nil {
		return nil
	}
	c := *h
	return &c
}

func sortedIntelIDs(m map[string]*IntelEntry) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}
