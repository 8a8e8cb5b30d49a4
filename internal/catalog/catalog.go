// Package catalog holds the static roster of players a draft can pick from.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DoyleJ11/golf-draft-backend/internal/engine"
)

var seed = []engine.Player{
	{ID: "jon-rahm", Name: "Jon Rahm", Odds: "+900", Tier: 1},
	{ID: "rory-mcilroy", Name: "Rory McIlroy", Odds: "+650", Tier: 1},
	{ID: "scottie-scheffler", Name: "Scottie Scheffler", Odds: "+450", Tier: 1},
	{ID: "ludvig-aberg", Name: "Ludvig Åberg", Odds: "+1800", Tier: 2},
	{ID: "brooks-koepka", Name: "Brooks Koepka", Odds: "+1600", Tier: 2},
	{ID: "tommy-fleetwood", Name: "Tommy Fleetwood", Odds: "+2800", Tier: 3},
	{ID: "max-homa", Name: "Max Homa", Odds: "+3000", Tier: 3},
	{ID: "wyndham-clark", Name: "Wyndham Clark", Odds: "+4500", Tier: 4},
	{ID: "collin-morikawa", Name: "Collin Morikawa", Odds: "+4000", Tier: 4},
}

// Default returns the built-in roster keyed by player id.
func Default() map[string]engine.Player {
	players, _ := index(seed)
	return players
}

type file struct {
	Players []engine.Player `yaml:"players"`
}

// Load reads a roster from a YAML file of the form
//
//	players:
//	  - id: jon-rahm
//	    name: Jon Rahm
//	    odds: "+900"
//	    tier: 1
func Load(path string) (map[string]engine.Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (map[string]engine.Player, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Players) == 0 {
		return nil, fmt.Errorf("%w: catalog has no players", engine.ErrValidation)
	}
	return index(f.Players)
}

func index(list []engine.Player) (map[string]engine.Player, error) {
	players := make(map[string]engine.Player, len(list))
	for i, p := range list {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: player %d has no id", engine.ErrValidation, i)
		}
		if _, dup := players[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate player id %q", engine.ErrValidation, p.ID)
		}
		if p.Tier <= 0 {
			return nil, fmt.Errorf("%w: player %q has tier %d", engine.ErrValidation, p.ID, p.Tier)
		}
		players[p.ID] = p
	}
	return players, nil
}
