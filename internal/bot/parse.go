package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// GrantArgs holds the parsed arguments of an admin grant message.
type GrantArgs struct {
	UserID  int64
	Days    int
	Package string
}

// ParseGrantArgs parses "UserID | Days | Package" into its parts.
func ParseGrantArgs(text string) (GrantArgs, error) {
	parts := strings.Split(text, "|")
	if len(parts) != 3 {
		return GrantArgs{}, fmt.Errorf("format: UserID | Days | PackageName")
	}

	userID, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return GrantArgs{}, fmt.Errorf("invalid user ID %q", strings.TrimSpace(parts[0]))
	}

	days, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || days < 1 {
		return GrantArgs{}, fmt.Errorf("days must be a whole number of at least 1")
	}

	pkg := strings.TrimSpace(parts[2])
	if pkg == "" {
		return GrantArgs{}, fmt.Errorf("package name cannot be empty")
	}

	return GrantArgs{UserID: userID, Days: days, Package: pkg}, nil
}

// ParseUserID extracts a numeric user id from a message.
func ParseUserID(text string) (int64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fmt.Errorf("user ID is required")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID %q", s)
	}
	return id, nil
}

// ParseClickTarget extracts the impression target from a message.
// The target must be a whole number between 1 and 20.
func ParseClickTarget(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > 20 {
		return 0, fmt.Errorf("send a number between 1 and 20")
	}
	return n, nil
}
