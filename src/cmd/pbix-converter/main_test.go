package main

import (
	"bufio"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"pbix-converter/src/config"
)

func TestParseSelection(t *testing.T) {
	cases := []struct {
		in          string
		max         int
		want        []int
		wantInvalid []string
	}{
		{"1,3,5", 5, []int{1, 3, 5}, nil},
		{" 2 , 4 ", 4, []int{2, 4}, nil},
		{"1,9", 3, []int{1}, []string{"9"}},
		{"0,-1,x", 3, nil, []string{"0", "-1", "x"}},
		{"", 3, nil, nil},
		{"2,,3", 3, []int{2, 3}, nil},
	}

	for _, c := range cases {
		got, invalid := parseSelection(c.in, c.max)
		if !reflect.DeepEqual(got, c.want) || !reflect.DeepEqual(invalid, c.wantInvalid) {
			t.Errorf("parseSelection(%q, %d) = %v, %v; want %v, %v",
				c.in, c.max, got, invalid, c.want, c.wantInvalid)
		}
	}
}

func TestSelectFilesWithFlags(t *testing.T) {
	files := []string{"a.pbix", "b.pbix", "c.pbix"}

	selected, err := selectFiles(files, cliOptions{all: true}, nil)
	if err != nil || !reflect.DeepEqual(selected, files) {
		t.Errorf("--all: got %v, %v", selected, err)
	}

	selected, err = selectFiles(files, cliOptions{files: "3,1"}, nil)
	if err != nil || !reflect.DeepEqual(selected, []string{"c.pbix", "a.pbix"}) {
		t.Errorf("--files=3,1: got %v, %v", selected, err)
	}

	if _, err = selectFiles(files, cliOptions{files: "7"}, nil); err == nil {
		t.Error("Expected an error for a selection with no valid numbers")
	}
}

func TestSelectFilesInteractive(t *testing.T) {
	files := []string{"a.pbix", "b.pbix"}

	stdin := bufio.NewReader(strings.NewReader("q\n"))
	selected, err := selectFiles(files, cliOptions{}, stdin)
	if err != nil || selected != nil {
		t.Errorf("Quit: expected nil selection, got %v, %v", selected, err)
	}

	stdin = bufio.NewReader(strings.NewReader("a\n"))
	selected, err = selectFiles(files, cliOptions{}, stdin)
	if err != nil || !reflect.DeepEqual(selected, files) {
		t.Errorf("All: got %v, %v", selected, err)
	}

	stdin = bufio.NewReader(strings.NewReader("s\n2\n"))
	selected, err = selectFiles(files, cliOptions{}, stdin)
	if err != nil || !reflect.DeepEqual(selected, []string{"b.pbix"}) {
		t.Errorf("Select: got %v, %v", selected, err)
	}
}

func TestFindSourceFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pbix", "a.pbix", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := findSourceFiles(dir)
	if err != nil {
		t.Fatalf("findSourceFiles failed: %v", err)
	}
	want := []string{filepath.Join(dir, "a.pbix"), filepath.Join(dir, "b.pbix")}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("Expected sorted pbix files %v, got %v", want, files)
	}
}

func TestBuildItems(t *testing.T) {
	items := buildItems([]string{"/data/Sales.pbix"}, "/data/pbip_output")
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].Name != "Sales" {
		t.Errorf("Expected name 'Sales', got %q", items[0].Name)
	}
	if items[0].OutputDir != filepath.Join("/data/pbip_output", "Sales") {
		t.Errorf("Unexpected output dir %q", items[0].OutputDir)
	}
}

func TestEngineConfigMapping(t *testing.T) {
	cfg := &config.Config{
		InstallPaths:      []string{`C:\Custom\PBIDesktop.exe`},
		StartupTimeoutSec: 30,
		DialogTimeoutSec:  5,
		SaveTimeoutSec:    10,
	}

	ec := engineConfig(cfg)
	if ec.StartupTimeout != 30*time.Second {
		t.Errorf("StartupTimeout = %v", ec.StartupTimeout)
	}
	if ec.DialogTimeout != 5*time.Second {
		t.Errorf("DialogTimeout = %v", ec.DialogTimeout)
	}
	if ec.SaveTimeout != 10*time.Second {
		t.Errorf("SaveTimeout = %v", ec.SaveTimeout)
	}
	if len(ec.InstallPaths) != 1 || ec.InstallPaths[0] != `C:\Custom\PBIDesktop.exe` {
		t.Errorf("InstallPaths = %v", ec.InstallPaths)
	}

	// Without overrides the built-in search list stays in place.
	ec = engineConfig(&config.Config{StartupTimeoutSec: 120, DialogTimeoutSec: 30, SaveTimeoutSec: 60})
	if len(ec.InstallPaths) == 0 {
		t.Error("Expected the default install paths to remain")
	}
}
