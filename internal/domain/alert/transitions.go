package alert

// Trigger describes what causes a lifecycle edge to be taken
type Trigger string

// Transition triggers
const (
	// TriggerStatusUpdate is a direct status update (PATCH) by a user.
	TriggerStatusUpdate Trigger = "status_update"
	// TriggerRemediation is the remediate action on an alert.
	TriggerRemediation Trigger = "remediation"
	// TriggerBackend is progress made by the backend on its own.
	TriggerBackend Trigger = "backend"
)

type edge struct {
	from Status
	to   Status
}

// transitions is the authoritative lifecycle table.
var transitions = map[edge]Trigger{
	{StatusOpen, StatusInProgress}:                                    TriggerStatusUpdate,
	{StatusInProgress, StatusRemediationInProgress}:                   TriggerRemediation,
	{StatusInProgress, StatusResolved}:                                TriggerStatusUpdate,
	{StatusRemediationInProgress, StatusRemediatedWaitingForCustomer}: TriggerBackend,
	{StatusRemediationInProgress, StatusResolved}:                     TriggerStatusUpdate,
	{StatusRemediatedWaitingForCustomer, StatusResolved}:              TriggerStatusUpdate,
	{StatusResolved, StatusReopen}:                                    TriggerStatusUpdate,
	{StatusReopen, StatusInProgress}:                                  TriggerStatusUpdate,
}

// IsValidTransition reports whether from -> to is an edge of the lifecycle
// table, regardless of what triggers it. Unknown statuses are never valid.
func IsValidTransition(from, to Status) bool {
	_, ok := transitions[edge{from, to}]
	return ok
}

// IsValidVia reports whether from -> to is an edge taken by the given trigger.
func IsValidVia(from, to Status, trigger Trigger) bool {
	t, ok := transitions[edge{from, to}]
	return ok && t == trigger
}

// CanUpdateStatus reports whether a direct status update may move an alert
// from one status to another. The remediation edge and the backend-only edge
// are excluded.
func CanUpdateStatus(from, to Status) bool {
	return IsValidVia(from, to, TriggerStatusUpdate)
}

// TriggerFor returns the trigger of the edge from -> to.
func TriggerFor(from, to Status) (Trigger, bool) {
	t, ok := transitions[edge{from, to}]
	return t, ok
}

// AllTransitionsFrom returns every status reachable from s in one step, in
// lifecycle order.
func AllTransitionsFrom(s Status) []Status {
	return targets(s, func(Trigger) bool { return true })
}

// StatusUpdateTransitionsFrom returns the statuses a direct status update may
// move s to, in lifecycle order.
func StatusUpdateTransitionsFrom(s Status) []Status {
	return targets(s, func(t Trigger) bool { return t == TriggerStatusUpdate })
}

func targets(from Status, keep func(Trigger) bool) []Status {
	out := make([]Status, 0, 2)
	for _, to := range AllStatuses {
		if t, ok := transitions[edge{from, to}]; ok && keep(t) {
			out = append(out, to)
		}
	}
	return out
}

// IsSubsetOfAuthoritative reports whether every status in reported is a
// legal successor of current. An empty report is trivially a subset.
func IsSubsetOfAuthoritative(reported []Status, current Status) bool {
	return len(UnexpectedTransitions(reported, current)) == 0
}

// UnexpectedTransitions returns the reported statuses that are not legal
// successors of current, in the order they were reported.
func UnexpectedTransitions(reported []Status, current Status) []Status {
	var bad []Status
	for _, s := range reported {
		if !IsValidTransition(current, s) {
			bad = append(bad, s)
		}
	}
	return bad
}

// Reachable reports whether to can be reached from from by following one or
// more edges. A status is reachable from itself only through a cycle.
func Reachable(from, to Status) bool {
	return reach(from, to, func(edge, Trigger) bool { return true })
}

// ReachableUnattended reports whether to can follow from without any user
// action: every edge on the path is a remediation or backend edge, except
// OPEN -> IN_PROGRESS, which the backend takes itself for auto-remediated
// alerts. The path never crosses RESOLVED -> REOPEN, so it only moves
// forward through the lifecycle.
func ReachableUnattended(from, to Status) bool {
	return reach(from, to, func(e edge, t Trigger) bool {
		return t != TriggerStatusUpdate || e == edge{StatusOpen, StatusInProgress}
	})
}

func reach(from, to Status, follow func(edge, Trigger) bool) bool {
	seen := map[Status]bool{}
	queue := []Status{from}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if seen[s] {
			continue
		}
		seen[s] = true
		for _, next := range AllStatuses {
			e := edge{s, next}
			t, ok := transitions[e]
			if !ok || !follow(e, t) {
				continue
			}
			if next == to {
				return true
			}
			queue = append(queue, next)
		}
	}
	return false
}
