package analysis

import (
	"errors"
	"fmt"
)

// ErrInvalidTone is matched by errors.Is for any invalid tone error.
var ErrInvalidTone = errors.New("invalid tone")

// InvalidToneError reports a tone outside the accepted set.
type InvalidToneError struct {
	Tone string
}

func (e *InvalidToneError) Error() string {
	return fmt.Sprintf("invalid tone %q (valid: %s, %s, %s, %s)",
		e.Tone, ToneProfessional, ToneFriendly, ToneCasual, ToneFormal)
}

// Is makes errors.Is(err, ErrInvalidTone) work.
func (e *InvalidToneError) Is(target error) bool {
	return target == ErrInvalidTone
}
