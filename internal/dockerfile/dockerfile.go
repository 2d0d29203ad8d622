// Package dockerfile generates build files for Python bot images.
// Output is deterministic: the same spec always renders to the same
// bytes, so image tags derived from the content stay stable.
package dockerfile

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/hardikramesh/botforge/internal/core/domain"
)

// toolchainPackages are the OS packages installed for builds that compile
// native extensions: compilers, make, and the FFI and interpreter headers.
var toolchainPackages = []string{
	"gcc",
	"g++",
	"make",
	"libffi-dev",
	"python3-dev",
}

// Generate renders a build file for the given spec. The spec's variant
// must be Toolchain or Lean; Auto is resolved by the builder before
// generation.
func Generate(spec domain.ImageSpec) ([]byte, error) {
	if err := validate(spec); err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "FROM %s\n\n", spec.BaseImage)
	fmt.Fprintf(&b, "WORKDIR %s\n\n", spec.WorkDir)

	if pkgs := osPackages(spec); len(pkgs) > 0 {
		b.WriteString("RUN apt-get update && \\\n")
		fmt.Fprintf(&b, "    apt-get install -y --no-install-recommends %s && \\\n", strings.Join(pkgs, " "))
		b.WriteString("    rm -rf /var/lib/apt/lists/*\n\n")
	}

	// The manifest is copied on its own first so dependency layers are
	// reused when only application source changes.
	fmt.Fprintf(&b, "COPY %s .\n", spec.Manifest)
	fmt.Fprintf(&b, "RUN pip install --no-cache-dir -r %s\n\n", spec.Manifest)

	b.WriteString("COPY . .\n\n")

	if spec.Port > 0 {
		fmt.Fprintf(&b, "EXPOSE %d\n\n", spec.Port)
	}

	fmt.Fprintf(&b, "CMD [\"python\", \"%s\"]\n", spec.EntryScript)
	return []byte(b.String()), nil
}

func osPackages(spec domain.ImageSpec) []string {
	var pkgs []string
	if spec.Variant == domain.VariantToolchain {
		pkgs = append(pkgs, toolchainPackages...)
	}
	if len(spec.ExtraPackages) > 0 {
		extra := append([]string(nil), spec.ExtraPackages...)
		sort.Strings(extra)
		pkgs = append(pkgs, extra...)
	}
	return pkgs
}

func validate(spec domain.ImageSpec) error {
	if spec.BaseImage == "" {
		return fmt.Errorf("base image is required")
	}
	if spec.WorkDir == "" || !path.IsAbs(spec.WorkDir) {
		return fmt.Errorf("work dir must be an absolute path, got %q", spec.WorkDir)
	}
	if spec.Manifest == "" || strings.ContainsAny(spec.Manifest, "/\\") {
		return fmt.Errorf("manifest must be a bare filename, got %q", spec.Manifest)
	}
	if spec.EntryScript == "" {
		return fmt.Errorf("entry script is required")
	}
	switch spec.Variant {
	case domain.VariantToolchain, domain.VariantLean:
	default:
		return fmt.Errorf("variant must be resolved to toolchain or lean, got %q", spec.Variant)
	}
	return nil
}
