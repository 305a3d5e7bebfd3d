package alert

import (
	"bytes"
	"encoding/json"
)

// The auto-remediation flags are decoded leniently: a value that is not a
// JSON boolean is treated as absent instead of failing the whole alert, so
// IsAutoRemediate falls through to the next location.

type alertFields Alert

// UnmarshalJSON decodes an alert, dropping non-boolean remediation flags and
// non-object policySnapshot or remediation values.
func (a *Alert) UnmarshalJSON(data []byte) error {
	var raw struct {
		alertFields
		AutoRemediate      json.RawMessage `json:"autoRemediate"`
		AutoRemediateAlias json.RawMessage `json:"auto_remediate"`
		PolicySnapshot     json.RawMessage `json:"policySnapshot"`
		Remediation        json.RawMessage `json:"remediation"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = Alert(raw.alertFields)
	a.AutoRemediate = rawFlag(raw.AutoRemediate)
	a.AutoRemediateAlias = rawFlag(raw.AutoRemediateAlias)
	a.PolicySnapshot = nil
	a.Remediation = nil
	if isObject(raw.PolicySnapshot) {
		var ps PolicySnapshot
		if err := json.Unmarshal(raw.PolicySnapshot, &ps); err != nil {
			return err
		}
		a.PolicySnapshot = &ps
	}
	if isObject(raw.Remediation) {
		var r Remediation
		if err := json.Unmarshal(raw.Remediation, &r); err != nil {
			return err
		}
		a.Remediation = &r
	}
	return nil
}

type policySnapshotFields PolicySnapshot

// UnmarshalJSON decodes a snapshot, dropping a non-boolean autoRemediate.
func (p *PolicySnapshot) UnmarshalJSON(data []byte) error {
	var raw struct {
		policySnapshotFields
		AutoRemediate json.RawMessage `json:"autoRemediate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = PolicySnapshot(raw.policySnapshotFields)
	p.AutoRemediate = rawFlag(raw.AutoRemediate)
	return nil
}

type remediationFields Remediation

// UnmarshalJSON decodes remediation settings, dropping a non-boolean
// autoRemediate.
func (r *Remediation) UnmarshalJSON(data []byte) error {
	var raw struct {
		remediationFields
		AutoRemediate json.RawMessage `json:"autoRemediate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Remediation(raw.remediationFields)
	r.AutoRemediate = rawFlag(raw.AutoRemediate)
	return nil
}

// rawFlag returns the value only for a literal true or false
func rawFlag(m json.RawMessage) *bool {
	var v any
	if len(m) == 0 || json.Unmarshal(m, &v) != nil {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

func isObject(m json.RawMessage) bool {
	m = bytes.TrimSpace(m)
	return len(m) > 0 && m[0] == '{'
}
