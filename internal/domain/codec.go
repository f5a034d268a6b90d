package domain

import (
	"encoding/json"
	"fmt"
	"slices"
)

// InviteRegistry maps an invite code to its record.
type InviteRegistry map[string]InviteCode

func DecodeInviteRegistry(data []byte) (InviteRegistry, error) {
	var raw map[string]InviteCode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: invite registry: %v", ErrMalformedRecord, err)
	}

	registry := make(InviteRegistry, len(raw))
	for code, invite := range raw {
		// older blobs keyed by code omit it from the record
		if invite.Code == "" {
			invite.Code = code
		}
		if invite.Code != code {
			return nil, fmt.Errorf("%w: invite %q stored under key %q", ErrMalformedRecord, invite.Code, code)
		}
		if !invite.Status.Valid() {
			return nil, fmt.Errorf("%w: invite %q has status %q", ErrMalformedRecord, code, invite.Status)
		}
		registry[code] = invite
	}
	return registry, nil
}

func EncodeInviteRegistry(registry InviteRegistry) ([]byte, error) {
	if registry == nil {
		registry = InviteRegistry{}
	}
	return json.Marshal(registry)
}

func DecodeBattleResults(data []byte) ([]BattleResult, error) {
	var results []BattleResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("%w: battle list: %v", ErrMalformedRecord, err)
	}
	for i, result := range results {
		if err := result.Validate(); err != nil {
			return nil, fmt.Errorf("battle %d: %w", i, err)
		}
	}
	if results == nil {
		results = []BattleResult{}
	}
	return results, nil
}

func EncodeBattleResults(results []BattleResult) ([]byte, error) {
	if results == nil {
		results = []BattleResult{}
	}
	return json.Marshal(results)
}

// SortByDateDesc orders results newest first, keeping insertion order for
// equal dates.
func SortByDateDesc(results []BattleResult) {
	slices.SortStableFunc(results, func(a, b BattleResult) int {
		return b.Date.Compare(a.Date.Time)
	})
}
