package alert

import "fmt"

var statusLabels = map[Status]string{
	StatusOpen:                         "Open",
	StatusInProgress:                   "In Progress",
	StatusRemediationInProgress:        "Remediation In Progress",
	StatusRemediatedWaitingForCustomer: "Awaiting Customer",
	StatusResolved:                     "Resolved",
	StatusReopen:                       "Reopen",
}

// labelAliases are older UI spellings still seen on some screens.
var labelAliases = map[string]Status{
	"awaiting user verification": StatusRemediatedWaitingForCustomer,
	"remediated":                 StatusRemediatedWaitingForCustomer,
}

// Label returns the text the UI shows for a status.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseLabel maps UI status text, or a raw status value, back to a Status.
func ParseLabel(text string) (Status, error) {
	n := Normalize(text)
	for _, s := range AllStatuses {
		if Normalize(statusLabels[s]) == n || Normalize(string(s)) == n {
			return s, nil
		}
	}
	if s, ok := labelAliases[n]; ok {
		return s, nil
	}
	return "", fmt.Errorf("unknown alert status label %q", text)
}

// ParseToggle reads the auto-remediate toggle cell ("ON" or "OFF").
func ParseToggle(text string) (bool, error) {
	switch Normalize(text) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("unknown toggle value %q", text)
}
