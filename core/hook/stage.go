package hook

import "fmt"

// Stage is a named point in request processing.
type Stage uint8

const (
	OnRequest Stage = iota
	PreParsing
	PreValidation
	PreHandler
	OnResponse
	OnError

	stageCount
)

var stageNames = [stageCount]string{
	OnRequest:     "onRequest",
	PreParsing:    "preParsing",
	PreValidation: "preValidation",
	PreHandler:    "preHandler",
	OnResponse:    "onResponse",
	OnError:       "onError",
}

// String returns the stage name, e.g. "preValidation".
func (s Stage) String() string {
	if s.Valid() {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// Valid reports whether s is one of the defined stages.
func (s Stage) Valid() bool {
	return s < stageCount
}

// validationLike reports whether failures in this stage are blamed on the client.
func (s Stage) validationLike() bool {
	switch s {
	case OnRequest, PreParsing, PreValidation, PreHandler:
		return true
	}
	return false
}

// ParseStage converts a stage name to a Stage.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStage, name)
}

// Stages returns all stages in pipeline order.
func Stages() []Stage {
	return []Stage{OnRequest, PreParsing, PreValidation, PreHandler, OnResponse, OnError}
}
