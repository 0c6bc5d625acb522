package engine

import (
	"github.com/ikclouds/not-fight-club/internal/config"
	"github.com/ikclouds/not-fight-club/internal/game"
)

// EnemyZones is one randomly drawn enemy stance.
type EnemyZones struct {
	Attack  game.Zone
	Defense []game.Zone
}

// RandomZone draws one zone uniformly.
func RandomZone(r Roller, b config.Balance) game.Zone {
	return b.Zones[r.Intn(len(b.Zones))]
}

// RandomZones draws an attack zone and RequiredDefenseZones distinct defense
// zones. The defense zones never include the drawn attack zone.
func RandomZones(r Roller, b config.Balance) EnemyZones {
	attack := RandomZone(r, b)
	rest := make([]game.Zone, 0, len(b.Zones)-1)
	for _, z := range b.Zones {
		if z != attack {
			rest = append(rest, z)
		}
	}
	for i := len(rest) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		rest[i], rest[j] = rest[j], rest[i]
	}
	n := b.RequiredDefenseZones
	if n > len(rest) {
		n = len(rest)
	}
	return EnemyZones{Attack: attack, Defense: rest[:n]}
}
