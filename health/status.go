package health

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type statusCode uint8

// Order matters: severity increases with the code.
const (
	codeUp statusCode = iota
	codeDown
	codeOutOfService
	codeUnknown
	codeCustom
)

// Status represents the health status of a component.
//
// Status is a comparable value: two statuses are equal when their variant and,
// for custom statuses, their name are equal.
type Status struct {
	code   statusCode
	custom string
}

var (
	// StatusUp indicates the component is functioning normally.
	StatusUp = Status{code: codeUp}
	// StatusDown indicates the component is not functioning.
	StatusDown = Status{code: codeDown}
	// StatusOutOfService indicates the component was taken out of service on purpose.
	StatusOutOfService = Status{code: codeOutOfService}
	// StatusUnknown indicates the component state could not be determined.
	StatusUnknown = Status{code: codeUnknown}
)

// Custom creates an application-defined status. Custom statuses are more
// severe than every fixed status and are ordered among themselves by name.
func Custom(name string) Status {
	return Status{code: codeCustom, custom: name}
}

// IsCustom reports whether s was created by Custom.
func (s Status) IsCustom() bool {
	return s.code == codeCustom
}

// String returns the string representation of the status.
func (s Status) String() string {
	switch s.code {
	case codeUp:
		return "Up"
	case codeDown:
		return "Down"
	case codeOutOfService:
		return "OutOfService"
	case codeUnknown:
		return "Unknown"
	default:
		return s.custom
	}
}

// Compare returns -1, 0 or +1 depending on whether a is less severe than,
// as severe as, or more severe than b.
//
// The order is Up < Down < OutOfService < Unknown < Custom, with custom
// statuses compared by name.
func Compare(a, b Status) int {
	switch {
	case a.code < b.code:
		return -1
	case a.code > b.code:
		return 1
	case a.code == codeCustom:
		return strings.Compare(a.custom, b.custom)
	default:
		return 0
	}
}

// Less reports whether s is less severe than other.
func (s Status) Less(other Status) bool {
	return Compare(s, other) < 0
}

// Worst returns the most severe status, or StatusUp when none are given.
func Worst(statuses ...Status) Status {
	worst := StatusUp
	for _, s := range statuses {
		if Compare(s, worst) > 0 {
			worst = s
		}
	}
	return worst
}

// HTTPStatusCode maps the status to the code served by health endpoints.
// Only Down and OutOfService fail the probe.
func (s Status) HTTPStatusCode() int {
	switch s.code {
	case codeDown, codeOutOfService:
		return http.StatusServiceUnavailable
	default:
		return http.StatusOK
	}
}

// ParseStatus parses one of the fixed status names. Any other non-empty
// name is returned as a custom status.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Status{}, fmt.Errorf("%w: empty", ErrInvalidStatus)
	}
	if fixed, ok := fixedStatus(s); ok {
		return fixed, nil
	}
	return Custom(s), nil
}

func fixedStatus(s string) (Status, bool) {
	switch s {
	case "Up":
		return StatusUp, true
	case "Down":
		return StatusDown, true
	case "OutOfService":
		return StatusOutOfService, true
	case "Unknown":
		return StatusUnknown, true
	default:
		return Status{}, false
	}
}

type customJSON struct {
	Custom string `json:"Custom"`
}

// MarshalJSON encodes fixed statuses as strings and custom statuses as
// {"Custom": "<name>"}.
func (s Status) MarshalJSON() ([]byte, error) {
	if s.code == codeCustom {
		return json.Marshal(customJSON{Custom: s.custom})
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts both encodings produced by MarshalJSON.
func (s *Status) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var c customJSON
		if err := json.Unmarshal(data, &c); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		}
		*s = Custom(c.Custom)
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}
	fixed, ok := fixedStatus(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, name)
	}
	*s = fixed
	return nil
}
