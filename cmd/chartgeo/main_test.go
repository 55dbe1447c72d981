package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestDecimateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wave.csv")
	var buf bytes.Buffer
	buf.WriteString("x,a\n")
	for i := 0; i < 400; i++ {
		fmt.Fprintf(&buf, "%d,%d\n", i, i%37)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newDecimateCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--mode", "lttb", "--max-points", "50", "--summary", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("decimate: %v", err)
	}

	var got struct {
		Name   string `json:"name"`
		Mode   string `json:"mode"`
		Series []struct {
			Total         int     `json:"total"`
			AreaDeviation float64 `json:"areaDeviation"`
		} `json:"series"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	if got.Name != "wave" || got.Mode != "lttb" || len(got.Series) != 1 || got.Series[0].Total != 400 {
		t.Errorf("output = %+v", got)
	}
}

func TestDecimateRejectsMode(t *testing.T) {
	cmd := newDecimateCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--mode", "fancy"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("unknown mode accepted")
	}
}

func TestBoundsCommandSample(t *testing.T) {
	cmd := newBoundsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--max-ticks", "5"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("bounds: %v", err)
	}
	var got map[string]axisReport
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	x, y := got["x"], got["y"]
	if x.Bounds.Range() <= 0 || len(x.Ticks) == 0 || len(x.Ticks) > 6 {
		t.Errorf("x axis = %+v", x)
	}
	if y.Bounds.Min > 0 {
		t.Errorf("y min = %v, want zero included", y.Bounds.Min)
	}
}

func TestHitTestCommandAgrees(t *testing.T) {
	cmd := newHitTestCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--targets", "300", "--queries", "500", "--strategy", "grid"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("hittest: %v (%s)", err, out.String())
	}
	var got hitTestReport
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got.Mismatches != 0 || got.Queries != 500 {
		t.Errorf("report = %+v", got)
	}
}
