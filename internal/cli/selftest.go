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
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jeremyhahn/go-aes/pkg/aes"
	"github.com/jeremyhahn/go-aes/pkg/encoding/hexutil"
	"github.com/jeremyhahn/go-aes/pkg/gcm"
	"github.com/jeremyhahn/go-aes/pkg/gcmsiv"
	"github.com/jeremyhahn/go-aes/pkg/keywrap"
	"github.com/jeremyhahn/go-aes/pkg/metrics"
	"github.com/jeremyhahn/go-aes/pkg/modes"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

// selftestVectors is the built-in known-answer battery: FIPS 197
// single blocks, the SP 800-38A mode examples, McGrew/Viega GCM cases,
// RFC 8452 GCM-SIV cases and the RFC 3394/5649 wrap examples. The full
// batteries live in the package test suites; this is the subset a
// deployment can re-run at startup.
//
//go:embed selftest_vectors.json
var selftestVectors []byte

// selftestVector holds one known-answer vector. Fields not used by a
// suite stay empty; for the wrap suites key is the KEK, plaintext the
// key data and ciphertext the wrapped output.
type selftestVector struct {
	Name       string `json:"name"`
	Key        string `json:"key"`
	IV         string `json:"iv"`
	Nonce      string `json:"nonce"`
	AAD        string `json:"aad"`
	Plaintext  string `json:"plaintext"`
	Ciphertext string `json:"ciphertext"`
	Tag        string `json:"tag"`
}

type selftestBattery struct {
	Block  []selftestVector `json:"block"`
	ECB    []selftestVector `json:"ecb"`
	CBC    []selftestVector `json:"cbc"`
	CTR    []selftestVector `json:"ctr"`
	GCM    []selftestVector `json:"gcm"`
	GCMSIV []selftestVector `json:"gcm_siv"`
	KW     []selftestVector `json:"kw"`
	KWP    []selftestVector `json:"kwp"`
}

// Failure records one mismatched field of one vector
type Failure struct {
	Vector string
	Field  string
	Want   string
	Got    string
	Diff   string
}

// SuiteResult summarizes one vector suite
type SuiteResult struct {
	Name     string
	Total    int
	Passed   int
	Failures []Failure
}

// SelftestReport aggregates the per-suite results
type SelftestReport struct {
	Suites []SuiteResult
}

// Total returns the number of vectors across all suites
func (r *SelftestReport) Total() int {
	n := 0
	for _, s := range r.Suites {
		n += s.Total
	}
	return n
}

// PassedTotal returns the number of passing vectors across all suites
func (r *SelftestReport) PassedTotal() int {
	n := 0
	for _, s := range r.Suites {
		n += s.Passed
	}
	return n
}

// OK reports whether every vector passed
func (r *SelftestReport) OK() bool {
	return r.PassedTotal() == r.Total()
}

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run the built-in known-answer tests",
	Long: `Verify the cipher implementations against built-in known-answer
vectors from FIPS 197, NIST SP 800-38A, the GCM specification, RFC 8452,
RFC 3394 and RFC 5649. Each vector is checked in both directions.
Exits non-zero when any vector fails.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		start := time.Now()

		report, err := runSelftest()
		if err != nil {
			handleError(err)
			return
		}
		printVerbose("ran %d vectors in %s", report.Total(), time.Since(start))

		printer := NewPrinter(cfg.OutputFormat, cfg.Encoding, os.Stdout)
		if err := printer.PrintSelftest(report); err != nil {
			handleError(err)
			return
		}
		finishOperation()
		if !report.OK() {
			os.Exit(1)
		}
	},
}

// runSelftest executes every suite in the embedded battery
func runSelftest() (*SelftestReport, error) {
	var battery selftestBattery
	if err := json.Unmarshal(selftestVectors, &battery); err != nil {
		return nil, fmt.Errorf("built-in vectors are corrupt: %w", err)
	}
	report := &SelftestReport{}
	report.Suites = append(report.Suites,
		runSuite("block", battery.Block, checkBlock),
		runSuite("ecb", battery.ECB, checkECB),
		runSuite("cbc", battery.CBC, checkCBC),
		runSuite("ctr", battery.CTR, checkCTR),
		runSuite("gcm", battery.GCM, checkGCM),
		runSuite("gcm-siv", battery.GCMSIV, checkGCMSIV),
		runSuite("kw", battery.KW, checkKW),
		runSuite("kwp", battery.KWP, checkKWP),
	)
	return report, nil
}

func runSuite(name string, vectors []selftestVector, check func(selftestVector) []Failure) SuiteResult {
	start := time.Now()
	result := SuiteResult{Name: name, Total: len(vectors)}
	for _, v := range vectors {
		failures := check(v)
		if len(failures) == 0 {
			result.Passed++
			continue
		}
		result.Failures = append(result.Failures, failures...)
	}
	status := metrics.StatusSuccess
	if result.Passed != result.Total {
		status = metrics.StatusError
	}
	metrics.RecordOperation(metrics.OpSelftest, name, status, time.Since(start).Seconds(), 0)
	return result
}

func checkBlock(v selftestVector) []Failure {
	key := hexutil.MustDecode(v.Key)
	pt := hexutil.MustDecode(v.Plaintext)
	ct := hexutil.MustDecode(v.Ciphertext)

	c, err := aes.NewCipher(key)
	if err != nil {
		return []Failure{errFailure(v.Name, err)}
	}
	var failures []Failure
	got := make([]byte, aes.BlockSize)
	c.EncryptBlock(got, pt)
	if !bytes.Equal(got, ct) {
		failures = append(failures, mismatch(v.Name, "ciphertext", ct, got))
	}
	c.DecryptBlock(got, ct)
	if !bytes.Equal(got, pt) {
		failures = append(failures, mismatch(v.Name, "plaintext", pt, got))
	}
	return failures
}

func checkECB(v selftestVector) []Failure {
	c, err := modes.NewECB(hexutil.MustDecode(v.Key), modes.WithoutPadding())
	if err != nil {
		return []Failure{errFailure(v.Name, err)}
	}
	return checkCipher(v, c.Encrypt, c.Decrypt)
}

func checkCBC(v selftestVector) []Failure {
	c, err := modes.NewCBC(hexutil.MustDecode(v.Key), hexutil.MustDecode(v.IV), modes.WithoutPadding())
	if err != nil {
		return []Failure{errFailure(v.Name, err)}
	}
	return checkCipher(v, c.Encrypt, c.Decrypt)
}

func checkCTR(v selftestVector) []Failure {
	c, err := modes.NewCTR(hexutil.MustDecode(v.Key), hexutil.MustDecode(v.Nonce))
	if err != nil {
		return []Failure{errFailure(v.Name, err)}
	}
	return checkCipher(v, c.Encrypt, c.Decrypt)
}

func checkGCM(v selftestVector) []Failure {
	g, err := gcm.New(hexutil.MustDecode(v.Key), hexutil.MustDecode(v.Nonce), hexutil.MustDecode(v.AAD))
	if err != nil {
		return []Failure{errFailure(v.Name, err)}
	}
	return checkAEAD(v, g.Encrypt, g.Decrypt)
}

func checkGCMSIV(v selftestVector) []Failure {
	s, err := gcmsiv.New(hexutil.MustDecode(v.Key), hexutil.MustDecode(v.Nonce), hexutil.MustDecode(v.AAD))
	if err != nil {
		return []Failure{errFailure(v.Name, err)}
	}
	return checkAEAD(v, s.Encrypt, s.Decrypt)
}

func checkKW(v selftestVector) []Failure {
	w, err := keywrap.New(hexutil.MustDecode(v.Key))
	if err != nil {
		return []Failure{errFailure(v.Name, err)}
	}
	return checkCipher(v, w.Wrap, w.Unwrap)
}

func checkKWP(v selftestVector) []Failure {
	w, err := keywrap.New(hexutil.MustDecode(v.Key))
	if err != nil {
		return []Failure{errFailure(v.Name, err)}
	}
	return checkCipher(v, w.WrapPadded, w.UnwrapPadded)
}

// checkCipher verifies a vector in both directions against a pair of
// transform functions
func checkCipher(v selftestVector, encrypt, decrypt func([]byte) ([]byte, error)) []Failure {
	pt := hexutil.MustDecode(v.Plaintext)
	ct := hexutil.MustDecode(v.Ciphertext)

	var failures []Failure
	got, err := encrypt(pt)
	if err != nil {
		failures = append(failures, errFailure(v.Name, err))
	} else if !bytes.Equal(got, ct) {
		failures = append(failures, mismatch(v.Name, "ciphertext", ct, got))
	}
	back, err := decrypt(ct)
	if err != nil {
		failures = append(failures, errFailure(v.Name, err))
	} else if !bytes.Equal(back, pt) {
		failures = append(failures, mismatch(v.Name, "plaintext", pt, back))
	}
	return failures
}

// checkAEAD verifies an AEAD vector whose expected output is the
// ciphertext with the tag appended
func checkAEAD(v selftestVector, seal, open func([]byte) ([]byte, error)) []Failure {
	pt := hexutil.MustDecode(v.Plaintext)
	ct := hexutil.MustDecode(v.Ciphertext)
	tag := hexutil.MustDecode(v.Tag)

	var failures []Failure
	sealed, err := seal(pt)
	if err != nil {
		failures = append(failures, errFailure(v.Name, err))
	} else {
		split := len(sealed) - len(tag)
		if !bytes.Equal(sealed[:split], ct) {
			failures = append(failures, mismatch(v.Name, "ciphertext", ct, sealed[:split]))
		}
		if !bytes.Equal(sealed[split:], tag) {
			failures = append(failures, mismatch(v.Name, "tag", tag, sealed[split:]))
		}
	}
	opened, err := open(append(append([]byte(nil), ct...), tag...))
	if err != nil {
		failures = append(failures, errFailure(v.Name, err))
	} else if !bytes.Equal(opened, pt) {
		failures = append(failures, mismatch(v.Name, "plaintext", pt, opened))
	}
	return failures
}

func errFailure(vector string, err error) Failure {
	return Failure{Vector: vector, Field: "error", Want: "no error", Got: err.Error()}
}

func mismatch(vector, field string, want, got []byte) Failure {
	wantHex := hexutil.Encode(want)
	gotHex := hexutil.Encode(got)
	return Failure{
		Vector: vector,
		Field:  field,
		Want:   wantHex,
		Got:    gotHex,
		Diff:   hexDiff(wantHex, gotHex),
	}
}

// hexDiff renders an inline diff of two hex strings so a failure shows
// which bytes went wrong rather than two walls of hex
func hexDiff(want, got string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-")
			b.WriteString(d.Text)
			b.WriteString("]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("[+")
			b.WriteString(d.Text)
			b.WriteString("]")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
