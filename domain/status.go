package domain

// StatusReply is a reshaped status lookup answer ready to be written to the client.
type StatusReply struct {
	StatusCode int
	Body       any
}

type StatusError struct {
	Error string `json:"error"`
}

type OfflineStatus struct {
	Online bool `json:"online"`
}
