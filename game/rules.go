package game

// Rules holds the tunable constants of the capture game.
type Rules struct {
	TimeLimit  int `yaml:"time_limit" json:"time_limit"`   // total moves across all agents
	ScaredTime int `yaml:"scared_time" json:"scared_time"` // turns opponents stay scared after a capsule
	SightRange int `yaml:"sight_range" json:"sight_range"` // manhattan range within which opponents are observed
	MinFood    int `yaml:"min_food" json:"min_food"`       // game ends once a team has returned all but this much food
}

// NewStandardRules returns the rules of the reference capture game.
func NewStandardRules() Rules {
	return Rules{
		TimeLimit:  1200,
		ScaredTime: 40,
		SightRange: 5,
		MinFood:    2,
	}
}
