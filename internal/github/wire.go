package github

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/go-github/v39/github"
)

// pullRequestPayload is the wire shape of a single pull request. Labels are
// decoded separately because some payloads carry non-numeric label ids,
// which github.Label would reject.
type pullRequestPayload struct {
	github.PullRequest
	Labels []*labelPayload `json:"labels,omitempty"`
}

type labelPayload struct {
	ID          labelID `json:"id"`
	Name        *string `json:"name,omitempty"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
}

// labelID decodes any JSON value, keeping it only when it is numeric.
type labelID int64

func (id *labelID) UnmarshalJSON(b []byte) error {
	if n, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		*id = labelID(n)
		return nil
	}
	if f, err := strconv.ParseFloat(string(b), 64); err == nil {
		*id = labelID(int64(f))
		return nil
	}
	*id = 0
	return nil
}

// decode unmarshals a response body into its wire type.
func decode[T any](body json.RawMessage, what string) (T, error) {
	var v T
	if len(body) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("failed to decode %s: %w", what, err)
	}
	return v, nil
}
