package health

import (
	"encoding/json"
	"maps"
	"slices"
)

// Detail is the result of a single indicator check.
//
// A Detail is treated as immutable: WithDetail returns a modified copy and
// never writes to the receiver's map.
type Detail struct {
	// Status is the health status reported by the indicator.
	Status Status

	// Details contains free-form diagnostic values.
	Details map[string]string
}

// NewDetail creates a detail with the given status and no diagnostics.
func NewDetail(status Status) Detail {
	return Detail{Status: status}
}

// Up creates a detail with StatusUp.
func Up() Detail {
	return NewDetail(StatusUp)
}

// Down creates a detail with StatusDown.
func Down() Detail {
	return NewDetail(StatusDown)
}

// OutOfService creates a detail with StatusOutOfService.
func OutOfService() Detail {
	return NewDetail(StatusOutOfService)
}

// Unknown creates a detail with StatusUnknown.
func Unknown() Detail {
	return NewDetail(StatusUnknown)
}

// WithDetail returns a copy of d with key set to value.
func (d Detail) WithDetail(key, value string) Detail {
	details := make(map[string]string, len(d.Details)+1)
	maps.Copy(details, d.Details)
	details[key] = value
	d.Details = details
	return d
}

// Get returns the diagnostic value stored under key.
func (d Detail) Get(key string) (string, bool) {
	v, ok := d.Details[key]
	return v, ok
}

// Equal reports whether d and other carry the same status and diagnostics.
// A nil and an empty details map are equal.
func (d Detail) Equal(other Detail) bool {
	return d.Status == other.Status && maps.Equal(d.Details, other.Details)
}

type detailJSON struct {
	Status  Status            `json:"status"`
	Details map[string]string `json:"details"`
}

// MarshalJSON always emits a details object, even when empty.
func (d Detail) MarshalJSON() ([]byte, error) {
	details := d.Details
	if details == nil {
		details = map[string]string{}
	}
	return json.Marshal(detailJSON{Status: d.Status, Details: details})
}

// UnmarshalJSON decodes a detail, normalizing an empty details object to nil.
func (d *Detail) UnmarshalJSON(data []byte) error {
	var raw detailJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Status = raw.Status
	d.Details = nil
	if len(raw.Details) > 0 {
		d.Details = raw.Details
	}
	return nil
}

// Details is the aggregated result of running every registered indicator.
type Details struct {
	// Status is the worst component status, or StatusUp with no components.
	Status Status

	// Components maps indicator names to their results.
	Components map[string]Detail
}

type detailsJSON struct {
	Status     Status            `json:"status"`
	Components map[string]Detail `json:"components"`
}

// MarshalJSON always emits a components object. Component keys are written
// in lexicographic order.
func (d Details) MarshalJSON() ([]byte, error) {
	components := d.Components
	if components == nil {
		components = map[string]Detail{}
	}
	return json.Marshal(detailsJSON{Status: d.Status, Components: components})
}

// UnmarshalJSON decodes an aggregated result.
func (d *Details) UnmarshalJSON(data []byte) error {
	var raw detailsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Status = raw.Status
	d.Components = raw.Components
	if d.Components == nil {
		d.Components = map[string]Detail{}
	}
	return nil
}

// HTTPStatusCode returns the code for the overall status.
func (d Details) HTTPStatusCode() int {
	return d.Status.HTTPStatusCode()
}

// Names returns the component names in sorted order.
func (d Details) Names() []string {
	return slices.Sorted(maps.Keys(d.Components))
}

// Equal reports whether d and other have the same overall status and the
// same components, regardless of map iteration order.
func (d Details) Equal(other Details) bool {
	return d.Status == other.Status &&
		maps.EqualFunc(d.Components, other.Components, Detail.Equal)
}
