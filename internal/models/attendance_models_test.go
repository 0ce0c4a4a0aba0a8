package models

import (
	"encoding/json"
	"testing"
)

func TestFlexIDAcceptsNumberAndString(t *testing.T) {
	cases := map[string]FlexID{
		`{"employee": 7}`:    7,
		`{"employee": "12"}`: 12,
		`{"employee": ""}`:   0,
		`{"employee": null}`: 0,
		`{}`:                 0,
	}
	for body, want := range cases {
		var in AttendanceInput
		if err := json.Unmarshal([]byte(body), &in); err != nil {
			t.Fatalf("unmarshal %s: %v", body, err)
		}
		if in.Employee != want {
			t.Fatalf("%s: expected %d, got %d", body, want, in.Employee)
		}
	}
}

func TestFlexIDRejectsGarbage(t *testing.T) {
	var in AttendanceInput
	if err := json.Unmarshal([]byte(`{"employee": "abc"}`), &in); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
}

func TestParseAttendanceStatusCanonicalizes(t *testing.T) {
	if st, ok := ParseAttendanceStatus("PRESENT"); !ok || st != StatusPresent {
		t.Fatalf("expected Present, got %q %v", st, ok)
	}
	if st, ok := ParseAttendanceStatus(" absent "); !ok || st != StatusAbsent {
		t.Fatalf("expected Absent, got %q %v", st, ok)
	}
	if _, ok := ParseAttendanceStatus("Leave"); ok {
		t.Fatalf("expected Leave to be rejected")
	}
}
