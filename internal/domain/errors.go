package domain

// FetchError is the single failure kind for obtaining the feed. Network
// errors, non-success statuses and undecodable bodies all collapse into it.
type FetchError struct {
	Msg string
	Err error
}

// NewFetchError wraps err with a short description of the failed step.
func NewFetchError(msg string, err error) *FetchError {
	return &FetchError{Msg: msg, Err: err}
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return "fetch events: " + e.Msg
	}
	return "fetch events: " + e.Msg + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }
