package model

// ProjectStats counters are computed over the active programs of a project.
type ProjectStats struct {
	// Observations is distinct observations plus distinct site visits.
	Observations           int64 `json:"observations"`
	RegisteredContributors int64 `json:"registered_contributors"`
	Programs               int64 `json:"programs"`
	Taxa                   int64 `json:"taxa"`
	Sites                  int64 `json:"sites"`
}

type GlobalStats struct {
	Observations int64 `json:"nb_obs"`
	Users        int64 `json:"nb_user"`
	Programs     int64 `json:"nb_program"`
	Species      int64 `json:"nb_espece"`
	Sites        int64 `json:"nb_sites"`
	Visits       int64 `json:"nb_visits"`
}
