package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrUserIDsNotList = errors.New("user_ids must be a list")
	ErrInvalidUserID  = errors.New("user ids must be positive integers")
)

// UserIDs is the normalized form of a user-id field that clients may send
// as a number, a numeric string, or a list of either.
type UserIDs []uint64

// ParseUserIDs normalizes raw into an ordered list of IDs. A missing or null
// value yields an empty list. When allowScalar is false only a JSON array
// is accepted.
func ParseUserIDs(raw json.RawMessage, allowScalar bool) (UserIDs, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return UserIDs{}, nil
	}

	if raw[0] != '[' {
		if !allowScalar {
			return nil, ErrUserIDsNotList
		}
		id, err := parseUserID(raw)
		if err != nil {
			return nil, err
		}
		return UserIDs{id}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, ErrInvalidUserID
	}

	ids := make(UserIDs, 0, len(items))
	for _, item := range items {
		id, err := parseUserID(item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseUserID(raw json.RawMessage) (uint64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, ErrInvalidUserID
	}

	var text string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, ErrInvalidUserID
		}
		text = strings.TrimSpace(text)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, ErrInvalidUserID
		}
		text = n.String()
	default:
		return 0, ErrInvalidUserID
	}

	// IDs are stored as signed 64-bit integers
	if id, err := strconv.ParseUint(text, 10, 63); err == nil && id > 0 {
		return id, nil
	}

	// Integral floats such as 3.0 are accepted
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f < 1 || f >= math.MaxInt64 || f != float64(uint64(f)) {
		return 0, ErrInvalidUserID
	}
	return uint64(f), nil
}
