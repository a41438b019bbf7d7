package models

// SubmissionJob is the queue payload describing one photo+title submission.
// It is immutable once published; the worker owns PhotoPath from delivery
// until terminal handling and deletes the file exactly once.
type SubmissionJob struct {
	JobID       string `json:"job_id"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"` // diagnostic only
	DisplayName string `json:"display_name"`
	PhotoPath   string `json:"photo_path"`
	EnqueuedAt  string `json:"enqueued_at"`
}
