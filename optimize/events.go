package optimize

import "fmt"

// EventKind tags a progress message.
type EventKind uint8

const (
	EvLog EventKind = iota + 1
	EvProgress
	EvError
	EvDone
)

func (k EventKind) String() string {
	switch k {
	case EvLog:
		return "log"
	case EvProgress:
		return "progress"
	case EvError:
		return "error"
	case EvDone:
		return "done"
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler so the kind renders
// as its name in JSON payloads.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind from its name.
func (k *EventKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "log":
		*k = EvLog
	case "progress":
		*k = EvProgress
	case "error":
		*k = EvError
	case "done":
		*k = EvDone
	default:
		return fmt.Errorf("unknown event kind %q", text)
	}
	return nil
}

// Event is one message out of a running job.
type Event struct {
	Kind    EventKind `json:"kind"`
	Message string    `json:"message,omitempty"`
	File    string    `json:"file,omitempty"`
	Done    int       `json:"done"`
	Total   int       `json:"total"`
}

// Sink receives the events of one job. The runner is the only sender
// and closes it when the job ends.
type Sink chan<- Event
