package constants

import "time"

const (
	BattlesStorageKey     = "pokemon_battles"
	InviteCodesStorageKey = "pokemon_invite_codes"
)

const (
	// no 0/O or 1/I
	InviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	InviteCodeLength   = 6
)

const (
	DefaultRemoteBaseURL = "http://localhost:3001"
	RemoteBattlesPath    = "/battles"

	RemoteSaveTimeout    = 3 * time.Second
	RemoteHistoryTimeout = 500 * time.Millisecond
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
	RequestTimeout  = 10 * time.Second
	MaxRequestBody  = 1 << 20
)
