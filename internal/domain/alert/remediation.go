package alert

// flagAccessor returns the auto-remediation flag from one known location, or
// nil when that location does not hold it.
type flagAccessor func(*Alert) *bool

// autoRemediateAccessors are tried in priority order.
var autoRemediateAccessors = []flagAccessor{
	func(a *Alert) *bool { return a.AutoRemediate },
	func(a *Alert) *bool { return a.AutoRemediateAlias },
	func(a *Alert) *bool {
		if a.PolicySnapshot == nil {
			return nil
		}
		return a.PolicySnapshot.AutoRemediate
	},
	func(a *Alert) *bool {
		if a.Remediation == nil {
			return nil
		}
		return a.Remediation.AutoRemediate
	},
}

// IsAutoRemediate reports whether the alert is configured for automatic
// remediation. The first location that holds a flag decides; an alert with no
// flag anywhere is manual.
func (a *Alert) IsAutoRemediate() bool {
	if a == nil {
		return false
	}
	for _, get := range autoRemediateAccessors {
		if v := get(a); v != nil {
			return *v
		}
	}
	return false
}

// IsManual is the negation of IsAutoRemediate.
func (a *Alert) IsManual() bool {
	return !a.IsAutoRemediate()
}

type recordAccessor func(map[string]any) (bool, bool)

var recordAccessors = []recordAccessor{
	boolAt("autoRemediate"),
	boolAt("auto_remediate"),
	boolAt("policySnapshot", "autoRemediate"),
	boolAt("remediation", "autoRemediate"),
}

// boolAt returns an accessor that follows path through nested objects and
// yields the value only when it is a real boolean.
func boolAt(path ...string) recordAccessor {
	return func(rec map[string]any) (bool, bool) {
		cur := rec
		for i, key := range path {
			v, ok := cur[key]
			if !ok || v == nil {
				return false, false
			}
			if i == len(path)-1 {
				b, ok := v.(bool)
				return b, ok
			}
			next, ok := v.(map[string]any)
			if !ok {
				return false, false
			}
			cur = next
		}
		return false, false
	}
}

// IsAutoRemediateRecord classifies an untyped JSON record with the same
// priority as Alert.IsAutoRemediate. Non-boolean values are skipped.
func IsAutoRemediateRecord(rec map[string]any) bool {
	for _, get := range recordAccessors {
		if v, ok := get(rec); ok {
			return v
		}
	}
	return false
}
