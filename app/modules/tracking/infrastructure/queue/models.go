package trackingqueue

// SyncActiveChallengesJob runs a full sync of every running challenge.
type SyncActiveChallengesJob struct{}

// Kind returns the job type identifier for River
func (SyncActiveChallengesJob) Kind() string { return "sync_active_challenges" }
