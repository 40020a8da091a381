package resolver

import (
	"github.com/thenoetrevino/listctl/internal/models"
	"github.com/thenoetrevino/listctl/internal/schema"
)

// Outcome is the result class of one discovery strategy
type Outcome int

const (
	// Continue falls through to the next strategy
	Continue Outcome = iota
	// Success stops the chain; Index may be nil when nothing was found
	Success
	// Fatal stops the chain with Err
	Fatal
)

// String returns the outcome name for logs
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Fatal:
		return "fatal"
	default:
		return "continue"
	}
}

// Attempt is what a strategy reports back to the chain
type Attempt struct {
	Outcome Outcome
	Index   *schema.Index
	Err     error
}

func success(sch models.Schema) Attempt {
	return Attempt{Outcome: Success, Index: schema.NewIndex(sch)}
}

func next(reason error) Attempt {
	return Attempt{Outcome: Continue, Err: reason}
}

func fatal(err error) Attempt {
	return Attempt{Outcome: Fatal, Err: err}
}
