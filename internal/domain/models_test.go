package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func validBattle() BattleResult {
	return BattleResult{
		WinnerID:   "25",
		WinnerName: "Pikachu",
		LoserID:    "7",
		LoserName:  "Squirtle",
		Date:       NewTimestamp(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
		BattleType: "wild",
		Turns:      intPtr(2),
		BattleLog: []BattleLogEntry{
			{Turn: 1, AttackerID: "25", AttackerName: "Pikachu", DefenderID: "7", MoveName: "Thunderbolt", Damage: 30, DefenderHPAfter: 14},
			{Turn: 2, AttackerID: "25", AttackerName: "Pikachu", DefenderID: "7", MoveName: "Quick Attack", Damage: 14, DefenderHPAfter: 0},
		},
	}
}

func TestParseInviteStatus(t *testing.T) {
	for _, s := range []string{"waiting", "active", "completed"} {
		status, err := ParseInviteStatus(s)
		require.NoError(t, err)
		assert.Equal(t, InviteStatus(s), status)
	}

	_, err := ParseInviteStatus("expired")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParseInviteStatus("WAITING")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestNormalizeInviteCode(t *testing.T) {
	assert.Equal(t, "AB23CD", NormalizeInviteCode("  ab23cd \n"))
	assert.Equal(t, "", NormalizeInviteCode(""))
}

func TestBattleResult_Validate(t *testing.T) {
	assert.NoError(t, validBattle().Validate())

	tests := []struct {
		name   string
		mutate func(b *BattleResult)
	}{
		{"missing winner", func(b *BattleResult) { b.WinnerID = "" }},
		{"missing loser", func(b *BattleResult) { b.LoserID = "" }},
		{"missing date", func(b *BattleResult) { b.Date = Timestamp{} }},
		{"negative turns", func(b *BattleResult) { b.Turns = intPtr(-1) }},
		{"turn zero", func(b *BattleResult) { b.BattleLog[0].Turn = 0 }},
		{"no move", func(b *BattleResult) { b.BattleLog[1].MoveName = "" }},
		{"negative damage", func(b *BattleResult) { b.BattleLog[0].Damage = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBattle()
			tt.mutate(&b)
			assert.ErrorIs(t, b.Validate(), ErrMalformedRecord)
		})
	}
}

func TestID_UnmarshalJSON(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"abc","b":1712345678901,"c":null}`), &v))
	assert.Equal(t, ID("abc"), v.A)
	assert.Equal(t, ID("1712345678901"), v.B)
	assert.Equal(t, ID(""), v.C)

	err := json.Unmarshal([]byte(`{"a":{"nested":true}}`), &v)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestTimestamp_JSON(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 1, 2, 3, 4, 5, 678_000_000, time.FixedZone("X", 3600)))
	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-02T02:04:05.678Z"`, string(data))

	var back Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(ts.Time))

	var day Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-01"`), &day))
	assert.True(t, day.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))

	var bad Timestamp
	assert.ErrorIs(t, json.Unmarshal([]byte(`"yesterday"`), &bad), ErrMalformedRecord)
	assert.ErrorIs(t, json.Unmarshal([]byte(`42`), &bad), ErrMalformedRecord)
}

func TestBattleResult_OmitsEmptyID(t *testing.T) {
	data, err := json.Marshal(validBattle())
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"id"`)
	assert.Contains(t, string(data), `"winnerId":"25"`)
	assert.Contains(t, string(data), `"defenderHpAfter":0`)
}
