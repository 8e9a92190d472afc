package iconconfig

import (
	platformerrors "github.com/jmgilman/go/errors"
)

// Resolution failure kinds. None of them is fatal: callers degrade to the
// last displayed preview.
const (
	// CodeConfigurationAbsent means no preset was given or it is unknown.
	CodeConfigurationAbsent platformerrors.ErrorCode = "CONFIGURATION_ABSENT"

	// CodeAtlasMissing means none of the preset's base textures is indexed.
	CodeAtlasMissing platformerrors.ErrorCode = "ATLAS_MISSING"

	// CodeNoMatch means no sub-image satisfies the id rule under any
	// applicable prefix, or the row cannot be resolved at all.
	CodeNoMatch platformerrors.ErrorCode = "NO_MATCH"
)

func configurationAbsent(preset string) error {
	err := platformerrors.New(CodeConfigurationAbsent, "icon configuration absent")
	if preset != "" {
		return platformerrors.WithContext(err, "preset", preset)
	}
	return err
}

func noMatch(message string, ctx map[string]interface{}) error {
	return platformerrors.WithContextMap(platformerrors.New(CodeNoMatch, message), ctx)
}
