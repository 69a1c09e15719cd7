package domain

const (
	RequesterIdCtxKey = "qf-requesterId"
)

// CharacterEventChannel is the redis pub/sub channel carrying character
// lifecycle events.
const CharacterEventChannel = "questforge:characters"
