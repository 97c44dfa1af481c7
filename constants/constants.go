package constants

// Pagination defaults shared by every list endpoint.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// DefaultMaxParticipants caps event capacity when none is supplied.
const DefaultMaxParticipants = 100
