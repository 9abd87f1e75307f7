package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrAdminRequired is returned when a non-admin identity attempts an admin operation.
	ErrAdminRequired = errors.New("admin privileges required")
)

// ValidationError reports malformed or missing input. Fields maps the
// offending input field to a short description of the problem.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// newRequiredFieldsError builds a ValidationError for every empty field in fields.
// It returns nil when nothing is missing.
func newRequiredFieldsError(fields map[string]string) *ValidationError {
	missing := map[string]string{}
	names := []string{}
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing[name] = "is required"
			names = append(names, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	sort.Strings(names)
	return &ValidationError{
		Message: "missing required fields: " + strings.Join(names, ", "),
		Fields:  missing,
	}
}

// MissingUsersError lists requested user IDs that do not exist.
// IDs are unique and ascending.
type MissingUsersError struct {
	IDs []uint64
}

func (e *MissingUsersError) Error() string {
	return fmt.Sprintf("users not found with IDs: %v", e.IDs)
}

// uniqueIDs drops duplicate IDs, keeping the first occurrence of each.
func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// missingIDs returns requested - found, ascending.
func missingIDs(requested, found []uint64) []uint64 {
	existing := make(map[uint64]struct{}, len(found))
	for _, id := range found {
		existing[id] = struct{}{}
	}

	missing := []uint64{}
	for _, id := range requested {
		if _, ok := existing[id]; !ok {
			missing = append(missing, id)
		}
	}
	sortUint64s(missing)
	return missing
}

func sortUint64s(ids []uint64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
