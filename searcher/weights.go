package searcher

// Weights are the tuned constants of the position evaluator.
type Weights struct {
	ScoreScale float64 `yaml:"score_scale"` // game score dominates every tactical term

	// Offense
	ThreatScaredThreshold int     `yaml:"threat_scared_threshold"` // defenders scared for fewer turns still threaten
	LethalRange           float64 `yaml:"lethal_range"`
	DangerRange           float64 `yaml:"danger_range"`
	DangerPenalty         float64 `yaml:"danger_penalty"` // scaled by 1/(distance+0.1)
	CarryLimit            int     `yaml:"carry_limit"`
	EndgameFood           int     `yaml:"endgame_food"`
	LowTime               int     `yaml:"low_time"`
	ChaseRange            float64 `yaml:"chase_range"`
	ReturnBonus           float64 `yaml:"return_bonus"`
	ReturnWeight          float64 `yaml:"return_weight"`
	FoodDistanceWeight    float64 `yaml:"food_distance_weight"`
	FoodCountWeight       float64 `yaml:"food_count_weight"`

	// Defense
	StrayPenalty   float64 `yaml:"stray_penalty"`
	InvaderWeight  float64 `yaml:"invader_weight"`
	BoundaryWeight float64 `yaml:"boundary_weight"`

	NoDistance float64 `yaml:"no_distance"` // stands in for "nothing in sight" and unreachable targets
}

func DefaultWeights() Weights {
	return Weights{
		ScoreScale:            100000,
		ThreatScaredThreshold: 3,
		LethalRange:           1,
		DangerRange:           2,
		DangerPenalty:         20000,
		CarryLimit:            3,
		EndgameFood:           2,
		LowTime:               100,
		ChaseRange:            5,
		ReturnBonus:           50000,
		ReturnWeight:          500,
		FoodDistanceWeight:    2,
		FoodCountWeight:       50,
		StrayPenalty:          10000,
		InvaderWeight:         1000,
		BoundaryWeight:        1,
		NoDistance:            9999,
	}
}
