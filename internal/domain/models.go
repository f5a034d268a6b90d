package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrInvalidStatus   = errors.New("invalid invite status")
)

type InviteStatus string

const (
	InviteStatusWaiting   InviteStatus = "waiting"
	InviteStatusActive    InviteStatus = "active"
	InviteStatusCompleted InviteStatus = "completed"
)

func (s InviteStatus) Valid() bool {
	switch s {
	case InviteStatusWaiting, InviteStatusActive, InviteStatusCompleted:
		return true
	}
	return false
}

func ParseInviteStatus(s string) (InviteStatus, error) {
	status := InviteStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

type InviteCode struct {
	Code      string       `json:"code"`
	CreatedAt Timestamp    `json:"createdAt"`
	Status    InviteStatus `json:"status"`
}

// NormalizeInviteCode applies the caller-side contract for lookups: codes
// are generated upper case only.
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type BattleLogEntry struct {
	Turn            int    `json:"turn"`
	AttackerID      ID     `json:"attackerId"`
	AttackerName    string `json:"attackerName"`
	DefenderID      ID     `json:"defenderId"`
	MoveName        string `json:"moveName"`
	Damage          int    `json:"damage"`
	DefenderHPAfter int    `json:"defenderHpAfter"`
}

type BattleResult struct {
	// ID is only assigned by whichever store persisted the record.
	ID         ID               `json:"id,omitempty"`
	WinnerID   ID               `json:"winnerId"`
	WinnerName string           `json:"winnerName"`
	LoserID    ID               `json:"loserId"`
	LoserName  string           `json:"loserName"`
	Date       Timestamp        `json:"date"`
	BattleType string           `json:"battleType,omitempty"`
	Turns      *int             `json:"turns,omitempty"`
	BattleLog  []BattleLogEntry `json:"battleLog,omitempty"`
}

func (b BattleResult) Validate() error {
	if b.WinnerID == "" {
		return fmt.Errorf("%w: winnerId is required", ErrMalformedRecord)
	}
	if b.LoserID == "" {
		return fmt.Errorf("%w: loserId is required", ErrMalformedRecord)
	}
	if b.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrMalformedRecord)
	}
	if b.Turns != nil && *b.Turns < 0 {
		return fmt.Errorf("%w: turns must not be negative", ErrMalformedRecord)
	}
	for i, entry := range b.BattleLog {
		if entry.Turn < 1 {
			return fmt.Errorf("%w: battleLog[%d].turn must be at least 1", ErrMalformedRecord, i)
		}
		if entry.MoveName == "" {
			return fmt.Errorf("%w: battleLog[%d].moveName is required", ErrMalformedRecord, i)
		}
		if entry.Damage < 0 || entry.DefenderHPAfter < 0 {
			return fmt.Errorf("%w: battleLog[%d] has negative damage or hp", ErrMalformedRecord, i)
		}
	}
	return nil
}

// ID is an opaque identifier. The mock server and older clients emit
// numeric ids, so both JSON strings and numbers are accepted.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: id must be a string or number", ErrMalformedRecord)
	}
	*id = ID(n.String())
	return nil
}

const isoLayout = "2006-01-02T15:04:05.000Z07:00"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp marshals as a millisecond-precision UTC ISO 8601 string, the
// format the UI produces for battle dates.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(isoLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: timestamp must be a string", ErrMalformedRecord)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return NewTimestamp(parsed), nil
		}
	}
	return Timestamp{}, fmt.Errorf("%w: unrecognized timestamp %q", ErrMalformedRecord, s)
}
