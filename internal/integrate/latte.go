package integrate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"github.com/operator-framework/wmidnf/pkg/wmi"
)

// DefaultLatteBinary is the name of LattE's integration driver.
const DefaultLatteBinary = "integrate"

var _ Oracle = &LatteOracle{}

// LatteOracle integrates by running LattE integrale on temporary files.
type LatteOracle struct {
	Binary string
	// TempDir is where per-call working directories are created; empty
	// means os.TempDir.
	TempDir string
	Logger  logr.Logger
}

func NewLatteOracle(binary string, logger logr.Logger) *LatteOracle {
	if binary == "" {
		binary = DefaultLatteBinary
	}
	return &LatteOracle{Binary: binary, Logger: logger}
}

// Integrate writes p in LattE's formats and runs
//
//	integrate <polytope> --cone-decompose --monomials=<file> --valuation=integrate
//
// A missing binary yields wmi.ErrOracleUnavailable; any other failure a
// *wmi.OracleFailure.
func (o *LatteOracle) Integrate(ctx context.Context, p *Problem) (float64, error) {
	if len(p.Monomials) == 0 {
		return 0, nil
	}
	enc, err := Encode(p)
	if err != nil {
		return 0, &wmi.OracleFailure{Err: err}
	}
	if enc.Precision > MaxExactPrecision {
		o.Logger.Info("required precision for LattE coefficients may lead to loss of precision", "precision", enc.Precision, "max", MaxExactPrecision)
	}

	dir, err := os.MkdirTemp(o.TempDir, "latte-")
	if err != nil {
		return 0, &wmi.OracleFailure{Err: err}
	}
	defer os.RemoveAll(dir)

	polytopePath := filepath.Join(dir, "polytope.hrep.latte")
	monomialPath := filepath.Join(dir, "monomial.txt")
	if err := os.WriteFile(polytopePath, []byte(enc.Polytope), 0o600); err != nil {
		return 0, &wmi.OracleFailure{Err: err}
	}
	if err := os.WriteFile(monomialPath, []byte(enc.Monomials), 0o600); err != nil {
		return 0, &wmi.OracleFailure{Err: err}
	}

	cmd := exec.CommandContext(ctx, o.Binary, polytopePath, "--cone-decompose", "--monomials="+monomialPath, "--valuation=integrate")
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %v", wmi.ErrOracleUnavailable, err)
		}
		return 0, &wmi.OracleFailure{Err: err, Output: stderr.String()}
	}

	v, err := ParseDecimal(stdout.String())
	if err != nil {
		return 0, &wmi.OracleFailure{Err: err, Output: stdout.String()}
	}
	return v, nil
}

// ParseDecimal extracts the absolute value following "Decimal:" in
// LattE's output.
func ParseDecimal(out string) (float64, error) {
	fields := strings.Fields(out)
	for i, f := range fields {
		if f != "Decimal:" || i+1 >= len(fields) {
			continue
		}
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid decimal %q: %w", fields[i+1], err)
		}
		return math.Abs(v), nil
	}
	return 0, errors.New("no decimal result in output")
}
