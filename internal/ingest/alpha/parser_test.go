package alpha

import (
	"strings"
	"testing"
)

const sampleCSV = `
"Legs · Day 2 · Week 4 · Push-Pull-Legs";"2026-02-19 4:54 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps";"WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
#;KG;REPS;RIR
1;115;8;1
2;115;10;1
3;115;10;1
"2. Sumo Squats · Smith machine · 10 reps";"WU1 · 35 kg · 8 reps"
#;KG;REPS;RIR
1;70;8;1
2;70;12;1
"3. Hyperextensions on Roman Chair · Bodyweight · 10 reps";"WU1 · +0 kg · 8 reps"
#;KG;REPS;RIR
1;+35;10;0
2;+35;9;1
3;+35;10;0
"4. Reverse Lunges · Dumbbells · 10 reps"
#;KG;REPS;RIR
1;10;10;1
2;10;10;1
3;10;10;0
"5. Standing Calf Raises · Machine · 12 reps";"WU1 · 47,5 kg · 8 reps"
#;KG;REPS;RIR
1;157,5;11;1
2;157,5;11;0
3;157,5;10;0
"6. Hanging Leg Raises · Bodyweight · 12 reps · 2 dropsets"
#;KG;REPS;RIR
1;+0;12;1
2;+0;12;1
3;+0;12;0

"Push · Day 1 · Week 4 · Push-Pull-Legs";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps<br>WU2 · 47,5 kg · 8 reps<br>WU3 · 77,5 kg · 6 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;102,5;6;0
3;100;6;0
`

// TestParseCompleteSessions checks a multi-session export end to end.
func TestParseCompleteSessions(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	legs := sessions[0]
	if legs.Duration != "1:02 hr" {
		t.Errorf("duration = %q", legs.Duration)
	}
	if got := legs.Segments()[0]; got != "Legs" {
		t.Errorf("first segment = %q, want Legs", got)
	}
	if legs.Date.Format("2006-01-02 15:04") != "2026-02-19 04:54" {
		t.Errorf("date = %v", legs.Date)
	}

	tests := []struct {
		name      string
		equipment string
		target    int
		sets      int
		working   int
	}{
		{"Hack Squats", "Machine", 8, 5, 3},
		{"Sumo Squats", "Smith machine", 10, 3, 2},
		{"Hyperextensions on Roman Chair", "Bodyweight", 10, 4, 3},
		{"Reverse Lunges", "Dumbbells", 10, 3, 3},
		{"Standing Calf Raises", "Machine", 12, 4, 3},
		{"Hanging Leg Raises", "Bodyweight", 12, 3, 3},
	}
	if len(legs.Exercises) != len(tests) {
		t.Fatalf("exercises = %d, want %d", len(legs.Exercises), len(tests))
	}
	for i, tt := range tests {
		ex := legs.Exercises[i]
		if ex.Number != i+1 {
			t.Errorf("exercise %d number = %d", i, ex.Number)
		}
		if ex.Name != tt.name || ex.Equipment != tt.equipment || ex.TargetReps != tt.target {
			t.Errorf("exercise %d = %q/%q/%d, want %q/%q/%d",
				i, ex.Name, ex.Equipment, ex.TargetReps, tt.name, tt.equipment, tt.target)
		}
		if len(ex.Sets) != tt.sets {
			t.Errorf("%s sets = %d, want %d", tt.name, len(ex.Sets), tt.sets)
		}
		if got := len(ex.WorkingSets()); got != tt.working {
			t.Errorf("%s working sets = %d, want %d", tt.name, got, tt.working)
		}
	}

	bench := sessions[1].Exercises[0]
	if bench.Sets[3].WeightKg != 102.5 || bench.Sets[3].Warmup {
		t.Errorf("first working bench set = %+v", bench.Sets[3])
	}
}

// TestParseWeight covers comma decimals and the bodyweight-plus notation.
func TestParseWeight(t *testing.T) {
	tests := []struct {
		in     string
		weight float64
		bw     bool
	}{
		{"102,5", 102.5, false},
		{"100", 100, false},
		{"+35", 35, true},
		{"+0", 0, true},
		{" 7,25 ", 7.25, false},
	}
	for _, tt := range tests {
		w, bw := parseWeight(tt.in)
		if w != tt.weight || bw != tt.bw {
			t.Errorf("parseWeight(%q) = %v, %v; want %v, %v", tt.in, w, bw, tt.weight, tt.bw)
		}
	}
}

// TestFractionalRIR verifies half-RIR values like "0,5".
func TestFractionalRIR(t *testing.T) {
	if got := parseDecimal("0,5"); got != 0.5 {
		t.Errorf("parseDecimal(0,5) = %v, want 0.5", got)
	}
	if got := parseDecimal("n/a"); got != 0 {
		t.Errorf("parseDecimal(n/a) = %v, want 0", got)
	}
}

// TestWarmupParsing verifies warmups separated by <br> in the exercise line.
func TestWarmupParsing(t *testing.T) {
	sets := parseWarmups("WU1 · 37,5 kg · 9 reps<br>WU2 · +0 kg · 7 reps")
	if len(sets) != 2 {
		t.Fatalf("warmup sets = %d, want 2", len(sets))
	}
	if sets[0].WeightKg != 37.5 || sets[0].Reps != 9 || !sets[0].Warmup {
		t.Errorf("wu1 = %+v", sets[0])
	}
	if !sets[1].BodyweightPlus || sets[1].WeightKg != 0 {
		t.Errorf("wu2 = %+v", sets[1])
	}
	if got := parseWarmups(""); got != nil {
		t.Errorf("parseWarmups(\"\") = %v, want nil", got)
	}
}

// TestEmptyInput verifies that empty input returns no sessions without error.
func TestEmptyInput(t *testing.T) {
	sessions, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(sessions))
	}
}

// TestOrphanLines verifies structure errors carry the line number.
func TestOrphanLines(t *testing.T) {
	_, err := Parse(strings.NewReader("\n1;100;5;1\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("err = %v, want line 2 set-without-exercise error", err)
	}
	_, err = Parse(strings.NewReader(`"1. Bench Press · Barbell · 6 reps"`))
	if err == nil {
		t.Error("expected exercise-without-session error")
	}
}
