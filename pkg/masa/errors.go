package masa

import "fmt"

// APIError reports a non-success HTTP status or a response missing an
// expected field.
type APIError struct {
	Op     string
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("masa: %s: status %d: %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("masa: %s: %s", e.Op, e.Detail)
}

// JobFailedError reports a search job that the remote service marked failed.
// Polling stops as soon as this state is observed.
type JobFailedError struct {
	JobID  string
	Reason string
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("masa: job %s failed: %s", e.JobID, e.Reason)
}

// PollTimeoutError reports that the poll budget was exhausted before the job
// reached the done state.
type PollTimeoutError struct {
	JobID    string
	Attempts int
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("masa: job %s did not complete within %d polls", e.JobID, e.Attempts)
}
