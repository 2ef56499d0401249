package services

// CheckSummary reports what one detector run did
type CheckSummary struct {
	Evaluated  int `json:"evaluated"`
	Created    int `json:"created"`
	Refreshed  int `json:"refreshed"`
	Suppressed int `json:"suppressed"`
	Resolved   int `json:"resolved"`
	Skipped    int `json:"skipped"`
}
