// Package draft persists a single saved-and-restorable snapshot of
// in-progress register state. One slot only: a new save overwrites the
// previous draft, and anything unreadable counts as "no draft".
package draft

import "github.com/eduardojeem/Mipos-sub011/internal/domain"

// Store is the single-slot snapshot storage. Load reports absence via
// the bool, never via an error; decode failures degrade to absence so a
// draft written by an incompatible shape can never wedge the register.
type Store interface {
	Save(snapshot domain.CartSnapshot) error
	Load() (domain.CartSnapshot, bool, error)
	Clear() error
}
