package domain

// Character is a player-owned game character. AccountID is immutable after
// creation; Name is unique per owning account, not globally.
type Character struct {
	ID        int64  `json:"characterId"`
	AccountID int64  `json:"-"`
	Name      string `json:"name"`
	Health    int    `json:"health"`
	Power     int    `json:"power"`
	Money     int    `json:"money"`
}

// Tier is the visibility level a retrieval request resolves to. Exactly one
// tier applies per request and it is computed fresh every time.
type Tier int

const (
	TierAnonymous Tier = iota
	TierNonOwner
	TierOwner
)

func (t Tier) String() string {
	switch t {
	case TierAnonymous:
		return "Anonymous"
	case TierNonOwner:
		return "NonOwner"
	case TierOwner:
		return "Owner"
	default:
		return "Unknown"
	}
}

// ResolveTier maps an optional requester identity onto a visibility tier.
// A nil requester is the anonymous path; otherwise ownership is a plain
// identifier comparison against the already-loaded character.
func ResolveTier(requester *int64, ch Character) Tier {
	if requester == nil {
		return TierAnonymous
	}
	if *requester == ch.AccountID {
		return TierOwner
	}
	return TierNonOwner
}

// CharacterView is the field projection returned to callers. Money is only
// populated at owner tier; the owning account identifier is never exposed.
type CharacterView struct {
	ID     int64  `json:"characterId"`
	Name   string `json:"name"`
	Health int    `json:"health"`
	Power  int    `json:"power"`
	Money  *int   `json:"money,omitempty"`
}

// Project selects the field set permitted for the given tier.
func (ch Character) Project(tier Tier) CharacterView {
	view := CharacterView{
		ID:     ch.ID,
		Name:   ch.Name,
		Health: ch.Health,
		Power:  ch.Power,
	}
	if tier == TierOwner {
		money := ch.Money
		view.Money = &money
	}
	return view
}
