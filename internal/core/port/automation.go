package port

import (
	"pisignage2mqtt/internal/core/domain"
)

// AutomationPairingLogic resolves which playlist each selected player gets
// when a playlist-change automation fires.
type AutomationPairingLogic interface {
	// ResolveSingle picks the one playlist deployed to every player.
	ResolveSingle(playlists []string) (string, bool)
	// PairPerPlayer matches players and playlists by position.
	PairPerPlayer(players []string, playlists []string) []domain.PlaylistAssignment
}
