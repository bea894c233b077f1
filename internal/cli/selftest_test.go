// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-aes.
//
// go-aes is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"strings"
	"testing"
)

func TestRunSelftest(t *testing.T) {
	report, err := runSelftest()
	if err != nil {
		t.Fatalf("runSelftest() error = %v", err)
	}
	if !report.OK() {
		for _, s := range report.Suites {
			for _, f := range s.Failures {
				t.Errorf("%s/%s: %s mismatch\n  want %s\n  got  %s",
					s.Name, f.Vector, f.Field, f.Want, f.Got)
			}
		}
		t.Fatalf("self-test failed: %d/%d vectors", report.PassedTotal(), report.Total())
	}
	if report.Total() != 25 {
		t.Errorf("battery has %d vectors, want 25", report.Total())
	}
}

func TestSelftestSuites(t *testing.T) {
	report, err := runSelftest()
	if err != nil {
		t.Fatalf("runSelftest() error = %v", err)
	}

	want := map[string]int{
		"block":   3,
		"ecb":     3,
		"cbc":     3,
		"ctr":     3,
		"gcm":     5,
		"gcm-siv": 3,
		"kw":      3,
		"kwp":     2,
	}
	if len(report.Suites) != len(want) {
		t.Fatalf("got %d suites, want %d", len(report.Suites), len(want))
	}
	for _, s := range report.Suites {
		if want[s.Name] != s.Total {
			t.Errorf("suite %s has %d vectors, want %d", s.Name, s.Total, want[s.Name])
		}
	}
}

func TestCheckCipherDetectsMismatch(t *testing.T) {
	// A deliberately wrong expected ciphertext must fail in both
	// directions: the forward check and the inverse check.
	v := selftestVector{
		Name:       "wrong-answer",
		Key:        "00000000000000000000000000000000",
		Plaintext:  "00000000000000000000000000000000",
		Ciphertext: "11111111111111111111111111111111",
	}
	failures := checkECB(v)
	if len(failures) != 2 {
		t.Fatalf("got %d failures, want 2: %+v", len(failures), failures)
	}
	if failures[0].Field != "ciphertext" {
		t.Errorf("first failure field = %s, want ciphertext", failures[0].Field)
	}
	if failures[1].Field != "plaintext" {
		t.Errorf("second failure field = %s, want plaintext", failures[1].Field)
	}
	if failures[0].Diff == "" {
		t.Error("mismatch should carry a diff")
	}
}

func TestCheckAEADDetectsBadTag(t *testing.T) {
	// An all-zero expected tag is wrong for this key/nonce, so sealing
	// reports a tag mismatch and opening reports an authentication error.
	v := selftestVector{
		Name:       "bad-tag",
		Key:        "00000000000000000000000000000000",
		Nonce:      "000000000000000000000000",
		AAD:        "",
		Plaintext:  "",
		Ciphertext: "",
		Tag:        "00000000000000000000000000000000",
	}
	failures := checkGCM(v)
	if len(failures) != 2 {
		t.Fatalf("got %d failures, want 2: %+v", len(failures), failures)
	}
	if failures[0].Field != "tag" {
		t.Errorf("first failure field = %s, want tag", failures[0].Field)
	}
	if failures[1].Field != "error" {
		t.Errorf("second failure field = %s, want error", failures[1].Field)
	}
}

func TestHexDiff(t *testing.T) {
	if got := hexDiff("aabbcc", "aabbcc"); got != "aabbcc" {
		t.Errorf("identical inputs should diff to themselves, got %q", got)
	}

	got := hexDiff("aabbcc", "aaddcc")
	if !strings.Contains(got, "[-") || !strings.Contains(got, "[+") {
		t.Errorf("diff %q missing change markers", got)
	}
	if !strings.Contains(got, "aa") {
		t.Errorf("diff %q should keep the common prefix", got)
	}
}

func TestSelftestReportTotals(t *testing.T) {
	report := &SelftestReport{
		Suites: []SuiteResult{
			{Name: "a", Total: 3, Passed: 3},
			{Name: "b", Total: 2, Passed: 1, Failures: []Failure{{Vector: "v", Field: "tag"}}},
		},
	}
	if report.Total() != 5 {
		t.Errorf("Total() = %d, want 5", report.Total())
	}
	if report.PassedTotal() != 4 {
		t.Errorf("PassedTotal() = %d, want 4", report.PassedTotal())
	}
	if report.OK() {
		t.Error("OK() should be false with a failing vector")
	}
}
