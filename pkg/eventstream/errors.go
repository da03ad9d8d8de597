package eventstream

import "errors"

var (
	// ErrNilEvent indicates a nil event payload was provided to a publisher.
	ErrNilEvent = errors.New("nil report event")

	// ErrPublish is returned when the backend rejects a publish.
	ErrPublish = errors.New("publishing event")
)
