package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestModuleLevels(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	SetLevel(Warning)
	defer SetLevel(Notice)

	quiet := New("log_test_quiet")
	loud := New("log_test_loud")
	if err := SetModuleLevel("log_test_loud", Debug); err != nil {
		t.Fatal(err)
	}

	quiet.Info("quiet info")
	quiet.Warning("quiet warning")
	loud.Debug("loud debug")

	out := buf.String()
	type spec struct {
		line string
		exp  bool
	}
	specs := []spec{
		{"quiet info", false},
		{"quiet warning", true},
		{"loud debug", true},
	}
	for index, s := range specs {
		if got := strings.Contains(out, s.line); got != s.exp {
			t.Fatalf("[spec %d] expected %q written to be %t; output:\n%s", index, s.line, s.exp, out)
		}
	}
	if !strings.Contains(out, "[log_test_loud]") {
		t.Fatalf("expected the module column in the output:\n%s", out)
	}
}

func TestSetSinkKeepsLevels(t *testing.T) {
	New("log_test_sink")
	SetLevel(Error)
	defer SetLevel(Notice)
	if err := SetModuleLevel("log_test_sink", Info); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)

	New("log_test_sink").Info("kept info")
	New("log_test_other").Warning("dropped warning")

	if !strings.Contains(buf.String(), "kept info") || strings.Contains(buf.String(), "dropped warning") {
		t.Fatalf("expected levels to survive the sink swap; output:\n%s", buf.String())
	}
}

func TestSetModuleLevelRejectsUnknownModule(t *testing.T) {
	if err := SetModuleLevel("no_such_module", Debug); err == nil {
		t.Fatal("expected an error for an unknown module")
	}
}

func TestModulesAreSorted(t *testing.T) {
	New("log_test_b")
	New("log_test_a")
	names := Modules()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("expected sorted modules; got %v", names)
		}
	}
}
