package main

import (
	"encoding/json"
	"testing"
)

func TestStatusJSONListsChecks(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "status", "--json")
	if err != nil {
		t.Logf("status reported failures: %v", err)
	}
	var checks []struct {
		Name   string `json:"name"`
		Passed bool   `json:"passed"`
	}
	if err := json.Unmarshal([]byte(out), &checks); err != nil {
		t.Fatalf("decode checks from %q: %v", out, err)
	}
	found := map[string]bool{}
	for _, check := range checks {
		found[check.Name] = check.Passed
	}
	for _, name := range []string{"Transcription engine", "Media base directory", "Work directory", "Log directory"} {
		passed, ok := found[name]
		if !ok {
			t.Fatalf("missing check %q in %v", name, found)
		}
		if !passed {
			t.Errorf("check %q failed", name)
		}
	}
}

func TestStatusRendersSections(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "status")
	if err != nil {
		t.Logf("status reported failures: %v", err)
	}
	requireContains(t, out, "== Engine ==")
	requireContains(t, out, "== Environment ==")
	requireContains(t, out, "Model:        small")
	requireContains(t, out, "auto-detect")
}

func TestDescribeLanguage(t *testing.T) {
	cases := map[string]string{
		"":    "auto-detect",
		"en":  "en (English)",
		"de":  "de (German)",
		"zz1": "zz1",
	}
	for code, want := range cases {
		if got := describeLanguage(code); got != want {
			t.Errorf("describeLanguage(%q) = %q, want %q", code, got, want)
		}
	}
}
