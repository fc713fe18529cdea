package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/kyori/internal/models"
)

func TestWriteScoreResult_text(t *testing.T) {
	var buf bytes.Buffer
	resp := &models.ScoreResponse{FAD: 4.25, EvalItems: 3, EvalRows: 12, QueryTime: 40}
	if err := WriteScoreResult(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "4.25") {
		t.Errorf("text output missing score: %q", out)
	}
	if !strings.Contains(out, "3 files") {
		t.Errorf("text output missing item count: %q", out)
	}
}

func TestWriteScoreResult_textEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteScoreResult(&buf, &models.ScoreResponse{Empty: true}, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "empty") {
		t.Errorf("empty result output: %q", buf.String())
	}
}

func TestWriteScoreResult_json(t *testing.T) {
	var buf bytes.Buffer
	resp := &models.ScoreResponse{ID: "abc", FAD: 1.5}
	if err := WriteScoreResult(&buf, resp, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.ScoreResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.ID != "abc" || decoded.FAD != 1.5 {
		t.Errorf("round trip: got %+v", decoded)
	}
}
