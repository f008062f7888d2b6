package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestNormalizeSheetKeepsStoredSheetOnNull(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, json.RawMessage(""), json.RawMessage("null")} {
		_, replace, err := normalizeSheet(raw)

		if err != nil {
			t.Fatalf("normalizeSheet(%q) returned error: %v", raw, err)
		}

		if replace {
			t.Errorf("normalizeSheet(%q) wants to replace the stored sheet", raw)
		}
	}
}

func TestNormalizeSheetAcceptsDocument(t *testing.T) {
	raw := json.RawMessage(`{"name":"Tordek","level":3}`)

	sheet, replace, err := normalizeSheet(raw)

	if err != nil {
		t.Fatalf("normalizeSheet returned error: %v", err)
	}

	if !replace {
		t.Fatal("expected a valid document to replace the stored sheet")
	}

	if string(sheet) != string(raw) {
		t.Errorf("sheet = %s, want %s", sheet, raw)
	}
}

func TestNormalizeSheetRejectsOversized(t *testing.T) {
	raw := append([]byte(`{"blob":"`), bytes.Repeat([]byte("x"), MaxSheetSize)...)
	raw = append(raw, `"}`...)

	_, _, err := normalizeSheet(raw)

	if !errors.Is(err, errSheetTooLarge) {
		t.Fatalf("err = %v, want errSheetTooLarge", err)
	}
}

func TestNormalizeSheetRejectsMalformedJSON(t *testing.T) {
	_, _, err := normalizeSheet(json.RawMessage(`{"name":`))

	if !errors.Is(err, errSheetInvalid) {
		t.Fatalf("err = %v, want errSheetInvalid", err)
	}
}
