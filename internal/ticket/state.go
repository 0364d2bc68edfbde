package ticket

// Action is an operator action recorded on a ticket's timeline.
type Action string

const (
	ActionCreate   Action = "create"
	ActionStart    Action = "start"
	ActionBump     Action = "bump"
	ActionRecall   Action = "recall"
	ActionComplete Action = "complete"
	ActionRemake   Action = "remake"
)

// ActionByName returns the action for a given name, or "" if not recognized.
func ActionByName(name string) Action {
	switch Action(name) {
	case ActionStart, ActionBump, ActionRecall, ActionComplete, ActionRemake:
		return Action(name)
	}
	return ""
}

// transitions is the full set of legal status edges. Anything absent here
// fails with ErrInvalidTransition. Recalling an already recalled ticket is
// deliberately not an edge.
var transitions = map[Status]map[Action]Status{
	StatusNew: {
		ActionStart: StatusInProgress,
	},
	StatusInProgress: {
		ActionBump: StatusReady,
	},
	StatusRecalled: {
		ActionBump: StatusReady,
	},
	StatusReady: {
		ActionRecall:   StatusRecalled,
		ActionComplete: StatusCompleted,
	},
	StatusCompleted: {
		ActionRecall: StatusRecalled,
	},
}

// NextStatus resolves the target status for (from, action). The second return
// is false when no such edge exists.
func NextStatus(from Status, action Action) (Status, bool) {
	edges, ok := transitions[from]
	if !ok {
		return "", false
	}
	to, ok := edges[action]
	return to, ok
}

// TransitionActions lists the actions legal from the given status. Used by
// error messages so a rejected action can tell the operator what would work.
func TransitionActions(from Status) []Action {
	edges, ok := transitions[from]
	if !ok {
		return nil
	}
	// Stable order for messages and tests.
	ordered := []Action{ActionStart, ActionBump, ActionRecall, ActionComplete}
	var out []Action
	for _, a := range ordered {
		if _, ok := edges[a]; ok {
			out = append(out, a)
		}
	}
	return out
}
