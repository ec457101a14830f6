package mygram

import (
	"fmt"
	"strings"
)

// Identifiers (table names, primary keys, filter keys, sort columns) are
// emitted on the wire unescaped, so anything that could alter the command
// line structure is rejected before send.
func validateIdentifier(what, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	if strings.ContainsAny(value, " \t\r\n\x00") {
		return fmt.Errorf("%s %q contains whitespace or control characters", what, value)
	}
	return nil
}

func validateFilters(filters []Filter) error {
	for _, f := range filters {
		if err := validateIdentifier("filter key", f.Key); err != nil {
			return err
		}
		if strings.ContainsAny(f.Value, "\r\n\x00") {
			return fmt.Errorf("filter value for %q contains control characters", f.Key)
		}
	}
	return nil
}
