package domain

import "fmt"

// InvalidRangeError reports a month spec that could not be parsed or whose
// start month is earlier than its end month.
type InvalidRangeError struct {
	Spec   string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid month range %q: %s", e.Spec, e.Reason)
}

// FetchError reports a non-success response from the GitHub API.
type FetchError struct {
	Status int
	Body   string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("github api returned %d: %s", e.Status, e.Body)
}

// MalformedResponseError reports an API response missing a field the metrics
// fold depends on.
type MalformedResponseError struct {
	Resource string
	Field    string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: missing or invalid %s", e.Resource, e.Field)
}
