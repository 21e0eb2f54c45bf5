package internal

import (
	"errors"
	"fmt"
)

// Warning is an error that should be surfaced to the user without failing
// the command.
type Warning string

func (warning Warning) Error() string { return string(warning) }

func (Warning) Is(err error) bool {
	_, ok := err.(Warning)
	return ok
}

func Warningf(format string, args ...any) Warning {
	return Warning(fmt.Sprintf(format, args...))
}

func IsWarning(err error) bool {
	return errors.Is(err, Warning(""))
}
