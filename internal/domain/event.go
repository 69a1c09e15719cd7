package domain

import "time"

const (
	EventCharacterCreated = "character.created"
	EventCharacterDeleted = "character.deleted"
)

// Event is a character lifecycle notification fanned out over pub/sub to
// realtime subscribers. It only carries public fields.
type Event struct {
	Type        string    `json:"type"`
	CharacterID int64     `json:"characterId"`
	Name        string    `json:"name"`
	Timestamp   time.Time `json:"timestamp"`
}
