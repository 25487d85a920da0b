package main

import "testing"

func TestExtractMeta(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		entryID string
		stageID string
	}{
		{"both ids", `{"entry_id":"e1","stage_id":"s1"}`, "e1", "s1"},
		{"entry only", `{"entry_id":"e1"}`, "e1", ""},
		{"null stage", `{"entry_id":"e1","stage_id":null}`, "e1", ""},
		{"invalid json", `not json`, "", ""},
		{"non-string id", `{"entry_id":42}`, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			meta := extractMeta([]byte(tc.payload))
			if meta.EntryID != tc.entryID || meta.StageID != tc.stageID {
				t.Fatalf("got %+v, want entry=%s stage=%s", meta, tc.entryID, tc.stageID)
			}
		})
	}
}
