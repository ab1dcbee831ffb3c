package ingest

// Result holds the outcome of an import.
type Result struct {
	SessionsReceived int `json:"sessions_received"`
	SessionsImported int `json:"sessions_imported"`
	SessionsSkipped  int `json:"sessions_skipped"`

	PlansCreated     int `json:"plans_created"`
	ExercisesCreated int `json:"exercises_created"`

	SetsReceived int `json:"sets_received"`
	SetsImported int `json:"sets_imported"`
	// SetsDropped counts warmups and sets without positive weight and reps.
	SetsDropped int `json:"sets_dropped"`

	Message string `json:"message,omitempty"`
}
