package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	app := NewApp(out, errOut)
	err := app.Run(append([]string{"riemann"}, args...))
	return out.String(), errOut.String(), err
}

// squash collapses the padding of rendered tables so rows can be matched as "| name | value |".
func squash(out string) string {
	return strings.Join(strings.Fields(out), " ")
}

func TestDistAction(t *testing.T) {
	out, errOut, err := run(t, "--manifold", "hypersphere", "--dimension", "4",
		"dist", "--a=10,-2,-.5,0,0", "--b=2,10,0,0,0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldBeEmpty)
	test.That(t, out, test.ShouldContainSubstring, "squared dist")
	test.That(t, out, test.ShouldContainSubstring, "1.5707963267948966")
}

func TestExpAndLogActions(t *testing.T) {
	out, _, err := run(t, "-m", "se3", "exp", "--vector=0,0,0,1,2,3", "--base=0,0,0,0.5,0,0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, squash(out), test.ShouldContainSubstring, "| # | EXP |")
	test.That(t, squash(out), test.ShouldContainSubstring, "| 3 | 1.5 |")
	test.That(t, squash(out), test.ShouldContainSubstring, "| angle (deg) | 0 |")
	test.That(t, squash(out), test.ShouldContainSubstring, "| axis | [0 0 1] |")

	out, _, err = run(t, "-m", "so3", "exp", "--vector=0,0,-1", "--base=0,0,0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, squash(out), test.ShouldContainSubstring, "| angle (deg) | 57.295779513")
	test.That(t, squash(out), test.ShouldContainSubstring, "-1] |")

	out, _, err = run(t, "-m", "hypersphere", "exp", "--vector=0,0,0", "--base=0,0,1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldNotContainSubstring, "angle")

	out, _, err = run(t, "-m", "se3", "log", "--point=0,0,0,1,2,3", "--base=0,0,0,0,0,0")
	test.That(t, err, test.ShouldBeNil)
	for _, coord := range []string{"| 3 | 1 |", "| 4 | 2 |", "| 5 | 3 |"} {
		test.That(t, squash(out), test.ShouldContainSubstring, coord)
	}
}

func TestProjectAndInnerProductActions(t *testing.T) {
	out, _, err := run(t, "-m", "hypersphere", "project", "--vector=1,1,1", "--base=0,0,1")
	test.That(t, err, test.ShouldBeNil)
	// the name is a header cell, so it is never wrapped to the width of the values
	test.That(t, squash(out), test.ShouldContainSubstring, "| # | PROJECTION |")
	test.That(t, squash(out), test.ShouldContainSubstring, "| 0 | 1 |")
	test.That(t, squash(out), test.ShouldContainSubstring, "| 2 | 0 |")

	out, _, err = run(t, "-m", "se3", "--translation-weight", "4",
		"inner-product", "--a=0,0,0,1,0,0", "--b=0,0,0,2,0,0", "--base=0,0,0,0,0,0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, squash(out), test.ShouldContainSubstring, "| inner product | 8 |")
}

func TestLossActions(t *testing.T) {
	out, _, err := run(t, "-m", "se3", "loss", "--pred=0,0,0,0,0,0", "--true=0,0,0,1,2,2")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, squash(out), test.ShouldContainSubstring, "| loss | 9 |")

	out, _, err = run(t, "-m", "se3", "grad", "--pred=0,0,0,0,0,0", "--true=0,0,0,1,2,2")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, squash(out), test.ShouldContainSubstring, "| # | GRADIENT |")
	for _, coord := range []string{"| 3 | -2 |", "| 4 | -4 |", "| 5 | -4 |"} {
		test.That(t, squash(out), test.ShouldContainSubstring, coord)
	}

	out, _, err = run(t, "-m", "se3", "grad", "--pred=0,0,0,1,2,2", "--true=0,0,0,1,2,2")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, squash(out), test.ShouldContainSubstring, "| 5 | 0 |")
	test.That(t, out, test.ShouldNotContainSubstring, "-0")

	out, errOut, err := run(t, "--debug", "-m", "so3", "regress", "--init=0,0,0", "--target=0.1,0.2,0.3")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, squash(out), test.ShouldContainSubstring, "| converged | true |")
	test.That(t, errOut, test.ShouldContainSubstring, "regression step")
	test.That(t, errOut, test.ShouldContainSubstring, "riemann.regress")

	out, errOut, err = run(t, "-m", "so3", "regress", "--init=0,0,0", "--target=0.1,0.2,0.3", "--max-iterations=2")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, squash(out), test.ShouldContainSubstring, "| iterations | 2 |")
	test.That(t, squash(out), test.ShouldContainSubstring, "| converged | false |")
	test.That(t, errOut, test.ShouldContainSubstring, "regression did not converge")
	test.That(t, errOut, test.ShouldNotContainSubstring, "regression step")

	// steps are traced without the rest of the debug output
	_, errOut, err = run(t, "-m", "so3", "regress", "--init=0,0,0", "--target=0.1,0.2,0.3", "--trace-steps")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldContainSubstring, "regression step")
	test.That(t, errOut, test.ShouldContainSubstring, `"learning_rate":0.25`)
	test.That(t, errOut, test.ShouldNotContainSubstring, "metric configured")
}

func TestSampleAction(t *testing.T) {
	out, _, err := run(t, "-m", "hypersphere", "--dimension", "3", "sample", "--count", "3", "--seed", "7")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "S^3")
	test.That(t, squash(out), test.ShouldContainSubstring, "| 2 | [")
	test.That(t, squash(out), test.ShouldNotContainSubstring, "| 3 | [")

	again, _, err := run(t, "-m", "hypersphere", "--dimension", "3", "sample", "--count", "3", "--seed", "7")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, again, test.ShouldEqual, out)

	out, _, err = run(t, "-m", "so3", "sample", "--count", "2")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, squash(out), test.ShouldContainSubstring, "| # | SO(3) | ANGLE (DEG) | AXIS |")
	test.That(t, squash(out), test.ShouldContainSubstring, "| 1 | [")

	_, _, err = run(t, "-m", "so3", "sample", "--count", "0")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metric.json")
	err := os.WriteFile(path, []byte(`{"manifold": "se3", "translation_weight": 4}`), 0o600)
	test.That(t, err, test.ShouldBeNil)

	out, _, err := run(t, "--config", path, "dist", "--a=0,0,0,1,0,0", "--b=0,0,0,0,0,0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, squash(out), test.ShouldContainSubstring, "| dist | 2 |")
	test.That(t, squash(out), test.ShouldContainSubstring, "| squared dist | 4 |")

	// flags override the file
	out, _, err = run(t, "--config", path, "--translation-weight", "1", "dist", "--a=0,0,0,1,0,0", "--b=0,0,0,0,0,0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, squash(out), test.ShouldContainSubstring, "| dist | 1 |")

	badPath := filepath.Join(dir, "bad.json")
	err = os.WriteFile(badPath, []byte(`{"manifold": "so3", "weight": 4}`), 0o600)
	test.That(t, err, test.ShouldBeNil)
	_, _, err = run(t, "--config", badPath, "dist", "--a=0,0,1", "--b=0,0,0")
	test.That(t, err, test.ShouldNotBeNil)

	_, _, err = run(t, "--config", filepath.Join(dir, "missing.json"), "dist", "--a=0,0,1", "--b=0,0,0")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot read config file")
}

func TestActionErrors(t *testing.T) {
	_, _, err := run(t, "dist", "--a=0,0,1", "--b=0,0,0")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "is required")

	_, _, err = run(t, "-m", "torus", "dist", "--a=0,0,1", "--b=0,0,0")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "invalid metric configuration")

	_, _, err = run(t, "-m", "se3", "dist", "--a=0,0,1", "--b=0,0,0")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "dimension mismatch")

	_, _, err = run(t, "-m", "hypersphere", "--domain-tolerance", "1e-6", "dist", "--a=0,0,2", "--b=0,0,1")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "does not belong")
}
