package errors

import pkgerrors "github.com/pkg/errors"

// Wrap annotates err with a stack trace and message, for failures that
// originate outside the structured CompilerError channel (file I/O, an
// allocator panic recovered at the driver boundary).
func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

// WithStack attaches a stack trace to err without changing its message.
func WithStack(err error) error {
	return pkgerrors.WithStack(err)
}
