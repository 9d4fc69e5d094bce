package api

// Status is the remote-reported lifecycle state of a browser session.
type Status string

const (
	// StatusPending means the session is still being provisioned.
	StatusPending Status = "PENDING"

	// StatusReady means the session is provisioned and its remote-debugging
	// endpoint is available.
	StatusReady Status = "READY"

	// StatusFailed means provisioning failed.
	StatusFailed Status = "FAILED"

	// StatusError means the session hit an unrecoverable error.
	StatusError Status = "ERROR"

	// StatusFinished means the session was terminated.
	StatusFinished Status = "FINISHED"
)

// Terminal reports whether the status can never transition again.
func (s Status) Terminal() bool {
	switch s {
	case StatusFailed, StatusError, StatusFinished:
		return true
	}
	return false
}

// Session is the wire representation of a remote browser session.
//
// WSEndpoint is populated only once Status is READY.
type Session struct {
	ID           string `json:"id"`
	Status       Status `json:"status"`
	WSEndpoint   string `json:"ws_endpoint,omitempty"`
	LiveViewURL  string `json:"live_view_url,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// CreateSessionRequest is the body for session creation.
//
// URL drives region inference on the backend; Region and ProfileID are
// optional overrides.
type CreateSessionRequest struct {
	URL       string `json:"url"`
	Region    string `json:"region,omitempty"`
	ProfileID string `json:"profile_id,omitempty"`
}
