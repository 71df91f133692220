package yarrow

import (
	"encoding/json"
	"fmt"
)

// Status is the lifecycle state of a single reply envelope. It
// serializes to its string label, not an ordinal, so the wire contract
// reads "DONE"/"PROCESSING"/"ERROR".
type Status int

const (
	// StatusProcessing marks an intermediate, validated result element.
	StatusProcessing Status = iota
	// StatusDone marks the terminal envelope of a successful dispatch.
	StatusDone
	// StatusError marks the terminal envelope of a failed dispatch.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusProcessing:
		return "PROCESSING"
	case StatusDone:
		return "DONE"
	case StatusError:
		return "ERROR"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalJSON emits the status label rather than its ordinal.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses a status label back into its ordinal.
func (s *Status) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	switch label {
	case "PROCESSING":
		*s = StatusProcessing
	case "DONE":
		*s = StatusDone
	case "ERROR":
		*s = StatusError
	default:
		return fmt.Errorf("unknown status %q", label)
	}
	return nil
}

// Envelope is the canonical reply payload. Field order matches the wire
// contract exactly: request, result, status, error, num. encoding/json
// marshals struct fields in declaration order, so that order is
// preserved without extra bookkeeping.
type Envelope struct {
	Request any    `json:"request"`
	Result  any    `json:"result"`
	Status  Status `json:"status"`
	Error   *string `json:"error"`
	Num     int    `json:"num"`
}

// Encode serializes an Envelope to UTF-8 JSON.
func Encode(e Envelope) ([]byte, error) {
	return json.Marshal(e)
}

// NewProcessing builds a PROCESSING envelope for the num-th result
// element of a streaming dispatch.
func NewProcessing(request any, result ResultElement, num int) Envelope {
	return Envelope{
		Request: request,
		Result:  result,
		Status:  StatusProcessing,
		Error:   nil,
		Num:     num,
	}
}

// NewDone builds the terminal DONE envelope. num is the count of
// PROCESSING envelopes already published for this delivery (0 for an
// empty result sequence, per spec §9's "num + 1 == 0" convention applied
// to a zero-based count).
func NewDone(request any, num int) Envelope {
	return Envelope{
		Request: request,
		Result:  nil,
		Status:  StatusDone,
		Error:   nil,
		Num:     num,
	}
}

// NewError builds the terminal ERROR envelope. num is always 0, even
// when PROCESSING envelopes were already published for the same
// delivery; an ERROR envelope is never followed by another envelope for
// that delivery (spec §8 invariant 2).
func NewError(request any, message string) Envelope {
	return Envelope{
		Request: request,
		Result:  nil,
		Status:  StatusError,
		Error:   &message,
		Num:     0,
	}
}
