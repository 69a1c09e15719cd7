package domain

// Item is a catalog entry with its one-to-one stat bonus record.
type Item struct {
	Code  int64    `json:"itemCode"`
	Name  string   `json:"itemName"`
	Price int      `json:"itemPrice"`
	Stat  ItemStat `json:"itemStat"`
}

// ItemStat holds the stat bonuses an item grants.
type ItemStat struct {
	Health int `json:"health"`
	Power  int `json:"power"`
}

// ItemSummary is the listing projection without the stat child.
type ItemSummary struct {
	Code  int64  `json:"itemCode"`
	Name  string `json:"itemName"`
	Price int    `json:"itemPrice"`
}
