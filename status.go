package salience

import "strconv"

// Status is the integer code every engine entry point returns.
type Status int32

const (
	StatusOK                Status = 0
	StatusInvalidParameter  Status = 4
	StatusSoftSuccess       Status = 6
	StatusUnsupportedOption Status = 12
)

// Succeeded reports whether the call produced a usable result.
// Soft-success counts as success.
func (s Status) Succeeded() bool {
	return s == StatusOK || s == StatusSoftSuccess
}

// Partial reports a soft-success: the call completed with a non-fatal note.
func (s Status) Partial() bool {
	return s == StatusSoftSuccess
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidParameter:
		return "invalid parameter"
	case StatusSoftSuccess:
		return "soft success"
	case StatusUnsupportedOption:
		return "unsupported option"
	default:
		return "status " + strconv.Itoa(int(s))
	}
}
