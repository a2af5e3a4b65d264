// Package envconf fills tagged config structs from the process environment.
//
// Fields use `env:"NAME"` tags; nested structs without a tag are walked.
// A `.env` file in the working directory, when present, is loaded first and
// never overrides variables that are already set.
package envconf

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DotEnvFile is the optional file read by Load.
var DotEnvFile = ".env"

// ErrMissingRequired is returned when a variable tagged required is unset.
var ErrMissingRequired = errors.New("missing required environment variable")

// Load reads DotEnvFile (if any) and parses the environment into dst, which
// must be a non-nil pointer to a struct.
func Load(dst any) error {
	err := godotenv.Load(DotEnvFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	return Parse(dst)
}

// Parse fills dst from the environment only.
func Parse(dst any) error {
	err := env.Parse(dst)
	if err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) {
			for _, e := range aggErr.Errors {
				var notSet env.VarIsNotSetError
				if errors.As(e, &notSet) {
					return fmt.Errorf("%w: %s", ErrMissingRequired, notSet.Key)
				}
			}
		}

		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}
