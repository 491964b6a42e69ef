package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/trustieee/timey-sub000/internal/engine"
)

func encodeRecord(userID string, doc Document) (ProfileRecord, error) {
	rec := ProfileRecord{UserID: userID, LastUpdated: doc.LastUpdated}

	history := doc.Profile.History
	if history == nil {
		history = map[string]engine.DayProgress{}
	}

	parts := []struct {
		name string
		v    any
		dst  *string
	}{
		{fieldHistory, history, &rec.History},
		{fieldRewards, doc.Profile.Rewards, &rec.Rewards},
		{fieldChores, doc.Profile.Chores, &rec.Chores},
		{fieldStats, doc.Stats, &rec.Stats},
	}
	for _, part := range parts {
		data, err := json.Marshal(part.v)
		if err != nil {
			return ProfileRecord{}, fmt.Errorf("encode %s: %w", part.name, err)
		}
		*part.dst = string(data)
	}
	return rec, nil
}

// decodeRecord rebuilds a document, leaving absent or null fields at their
// zero values so documents written by older versions still load.
func decodeRecord(rec ProfileRecord) (*Document, error) {
	var doc Document
	parts := []struct {
		name string
		raw  string
		dst  any
	}{
		{fieldHistory, rec.History, &doc.Profile.History},
		{fieldRewards, rec.Rewards, &doc.Profile.Rewards},
		{fieldChores, rec.Chores, &doc.Profile.Chores},
		{fieldStats, rec.Stats, &doc.Stats},
	}
	for _, part := range parts {
		if part.raw == "" || part.raw == "null" {
			continue
		}
		if err := json.Unmarshal([]byte(part.raw), part.dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", part.name, err)
		}
	}
	if doc.Profile.History == nil {
		doc.Profile.History = map[string]engine.DayProgress{}
	}
	doc.LastUpdated = rec.LastUpdated
	return &doc, nil
}

// encodeFields flattens a record into string fields for hash-shaped stores.
func encodeFields(rec ProfileRecord) map[string]any {
	return map[string]any{
		fieldHistory:     rec.History,
		fieldRewards:     rec.Rewards,
		fieldChores:      rec.Chores,
		fieldStats:       rec.Stats,
		fieldLastUpdated: formatTime(rec.LastUpdated),
	}
}

func decodeFields(userID string, fields map[string]string) ProfileRecord {
	return ProfileRecord{
		UserID:      userID,
		History:     fields[fieldHistory],
		Rewards:     fields[fieldRewards],
		Chores:      fields[fieldChores],
		Stats:       fields[fieldStats],
		LastUpdated: parseTime(fields[fieldLastUpdated]),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// documentJSON is the single-object form used by exports and the admin API.
type documentJSON struct {
	History     map[string]engine.DayProgress `json:"history"`
	Rewards     engine.Rewards                `json:"rewards"`
	Chores      []engine.ChoreDefinition      `json:"chores"`
	Stats       engine.PlayerStats            `json:"stats"`
	LastUpdated time.Time                     `json:"lastUpdated"`
}

func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(documentJSON{
		History:     d.Profile.History,
		Rewards:     d.Profile.Rewards,
		Chores:      d.Profile.Chores,
		Stats:       d.Stats,
		LastUpdated: d.LastUpdated,
	})
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.History == nil {
		raw.History = map[string]engine.DayProgress{}
	}
	*d = Document{
		Profile: engine.Profile{
			History: raw.History,
			Rewards: raw.Rewards,
			Chores:  raw.Chores,
		},
		Stats:       raw.Stats,
		LastUpdated: raw.LastUpdated,
	}
	return nil
}
