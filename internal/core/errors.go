package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

const archiveReadErrorPrefix = "archive read error"

func archiveReadError(location string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("%s: %s", archiveReadErrorPrefix, location)).
		WithCause(cause)
}

// IsArchiveReadError reports whether err was raised while reading or
// indexing an archive.
func IsArchiveReadError(err error) bool {
	if err == nil || errbuilder.CodeOf(err) != errbuilder.CodeInternal {
		return false
	}
	var builder *errbuilder.ErrBuilder
	return errors.As(err, &builder) && strings.HasPrefix(builder.Msg, archiveReadErrorPrefix)
}

func preconditionError(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(msg)
}

var errMissingArchiveProperties = errbuilder.New().
	WithCode(errbuilder.CodeNotFound).
	WithMsg("archive has no " + archivePropertiesName)

func invalidArgument(cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(cause.Error()).
		WithCause(cause)
}
