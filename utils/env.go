package utils

import (
	"os"
	"strconv"

	"go.viam.com/gburiris/logging"
)

// CoverageWorkersEnvVar overrides the number of goroutines used for coverage estimation.
const CoverageWorkersEnvVar = "GBUR_COVERAGE_WORKERS"

// GetenvInt returns the integer value of the named environment variable, or def when the variable is
// unset or not an integer.
func GetenvInt(name string, def int) int {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		logging.Global().Warnw("ignoring non-integer environment variable", "name", name, "value", raw)
		return def
	}
	return val
}
