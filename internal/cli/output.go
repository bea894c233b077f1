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
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jeremyhahn/go-aes/pkg/encoding/hexutil"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// EncryptedOutput carries one encryption result to the printer.
// IV is set for cbc/ctr, Nonce for gcm/gcm-siv; for AEAD modes the
// ciphertext already carries the 16-byte tag appended.
type EncryptedOutput struct {
	Mode       string
	Ciphertext []byte
	IV         []byte
	Nonce      []byte
}

// Printer handles formatted output
type Printer struct {
	format   OutputFormat
	encoding string
	writer   io.Writer
}

// NewPrinter creates a new Printer. An empty encoding defaults to hex.
func NewPrinter(format, encoding string, writer io.Writer) *Printer {
	if encoding == "" {
		encoding = "hex"
	}
	return &Printer{
		format:   OutputFormat(format),
		encoding: encoding,
		writer:   writer,
	}
}

// encode renders binary data in the printer's encoding.
func (p *Printer) encode(b []byte) string {
	if p.encoding == "base64" {
		return base64.StdEncoding.EncodeToString(b)
	}
	return hexutil.Encode(b)
}

// PrintEncrypted prints an encryption result
func (p *Printer) PrintEncrypted(out *EncryptedOutput) error {
	switch p.format {
	case OutputFormatJSON:
		data := map[string]interface{}{
			"ciphertext": p.encode(out.Ciphertext),
			"mode":       out.Mode,
			"encoding":   p.encoding,
		}
		if out.IV != nil {
			data["iv"] = p.encode(out.IV)
		}
		if out.Nonce != nil {
			data["nonce"] = p.encode(out.Nonce)
		}
		return p.printJSON(data)
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Ciphertext: %s\n", p.encode(out.Ciphertext))
		if out.IV != nil {
			fmt.Fprintf(p.writer, "IV:         %s\n", p.encode(out.IV))
		}
		if out.Nonce != nil {
			fmt.Fprintf(p.writer, "Nonce:      %s\n", p.encode(out.Nonce))
		}
		fmt.Fprintf(p.writer, "Mode:       %s\n", out.Mode)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintDecrypted prints recovered plaintext in the configured encoding
func (p *Printer) PrintDecrypted(plaintext []byte) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"plaintext": p.encode(plaintext),
			"encoding":  p.encoding,
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, p.encode(plaintext))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintWrapped prints a wrapped key
func (p *Printer) PrintWrapped(wrapped []byte, padded bool) error {
	algorithm := "kw"
	if padded {
		algorithm = "kwp"
	}
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"wrapped_key": p.encode(wrapped),
			"algorithm":   algorithm,
			"encoding":    p.encoding,
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, p.encode(wrapped))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintUnwrapped prints recovered key material
func (p *Printer) PrintUnwrapped(key []byte) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"key":      p.encode(key),
			"encoding": p.encoding,
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, p.encode(key))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintModes prints the supported mode table
func (p *Printer) PrintModes(infos []ModeInfo) error {
	switch p.format {
	case OutputFormatJSON:
		list := make([]map[string]interface{}, len(infos))
		for i, info := range infos {
			list[i] = map[string]interface{}{
				"name":      info.Name,
				"type":      info.Type,
				"key_sizes": info.KeySizes,
				"iv":        info.IV,
				"notes":     info.Notes,
			}
		}
		return p.printJSON(map[string]interface{}{
			"modes": list,
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "%-9s %-8s %-12s %-22s %s\n", "MODE", "TYPE", "KEY SIZES", "IV/NONCE", "NOTES")
		fmt.Fprintln(p.writer, strings.Repeat("-", 86))
		for _, info := range infos {
			fmt.Fprintf(p.writer, "%-9s %-8s %-12s %-22s %s\n",
				info.Name, info.Type, info.KeySizes, info.IV, info.Notes)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSelftest prints a self-test report
func (p *Printer) PrintSelftest(report *SelftestReport) error {
	switch p.format {
	case OutputFormatJSON:
		suites := make([]map[string]interface{}, len(report.Suites))
		for i, s := range report.Suites {
			entry := map[string]interface{}{
				"suite":   s.Name,
				"vectors": s.Total,
				"passed":  s.Passed,
			}
			if len(s.Failures) > 0 {
				failures := make([]map[string]interface{}, len(s.Failures))
				for j, f := range s.Failures {
					failures[j] = map[string]interface{}{
						"vector": f.Vector,
						"field":  f.Field,
						"want":   f.Want,
						"got":    f.Got,
					}
				}
				entry["failures"] = failures
			}
			suites[i] = entry
		}
		return p.printJSON(map[string]interface{}{
			"suites": suites,
			"total":  report.Total(),
			"passed": report.PassedTotal(),
			"ok":     report.OK(),
		})
	case OutputFormatText:
		for _, s := range report.Suites {
			status := "ok  "
			if len(s.Failures) > 0 {
				status = "FAIL"
			}
			fmt.Fprintf(p.writer, "%s %-9s %d/%d vectors\n", status, s.Name, s.Passed, s.Total)
			for _, f := range s.Failures {
				fmt.Fprintf(p.writer, "     vector %q: %s mismatch\n", f.Vector, f.Field)
				fmt.Fprintf(p.writer, "       want %s\n", f.Want)
				fmt.Fprintf(p.writer, "       got  %s\n", f.Got)
				if f.Diff != "" {
					fmt.Fprintf(p.writer, "       diff %s\n", f.Diff)
				}
			}
		}
		if report.OK() {
			fmt.Fprintf(p.writer, "self-test passed: %d vectors\n", report.Total())
		} else {
			fmt.Fprintf(p.writer, "self-test FAILED: %d/%d vectors passed\n",
				report.PassedTotal(), report.Total())
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSuccess prints a success message
func (p *Printer) PrintSuccess(message string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status":  "success",
			"message": message,
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, message)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// printJSON prints data as JSON
func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
