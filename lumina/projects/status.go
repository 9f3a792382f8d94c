package projects

import (
	"slices"

	apierrors "codeberg.org/lumina/server/internal/errors"
)

type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// legal next states per current state; cancelled is terminal
var transitions = map[Status][]Status{
	StatusNew:        {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusPaused, StatusCancelled},
	StatusPaused:     {StatusInProgress},
	StatusCompleted:  {StatusInProgress},
	StatusCancelled:  {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) String() string {
	return string(s)
}

// converts user input into a known status
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", apierrors.Invalid("status", "unknown status '"+raw+"'")
	}

	return s, nil
}

// reports whether from may move to to. Staying put is always allowed
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}

	return slices.Contains(transitions[from], to)
}

// returns a *TransitionError for moves the table does not permit
func ValidateTransition(from, to Status) error {
	if !to.Valid() {
		return apierrors.Invalid("status", "unknown status '"+string(to)+"'")
	}

	if !CanTransition(from, to) {
		allowed := []string{}
		for _, next := range from.Next() {
			allowed = append(allowed, next.String())
		}

		return &apierrors.TransitionError{From: string(from), To: string(to), Allowed: allowed}
	}

	return nil
}

// the statuses reachable from s, in table order
func (s Status) Next() []Status {
	return slices.Clone(transitions[s])
}
