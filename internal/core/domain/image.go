package domain

import "time"

// Variant selects the flavor of the generated build file.
type Variant string

const (
	// VariantAuto picks VariantToolchain when the manifest lists packages
	// that compile native extensions, VariantLean otherwise.
	VariantAuto Variant = "auto"
	// VariantToolchain installs the C/C++ compiler, make and FFI/interpreter
	// development headers before installing Python dependencies.
	VariantToolchain Variant = "toolchain"
	// VariantLean installs no OS toolchain. Builds with it fail up front
	// when a dependency needs native compilation.
	VariantLean Variant = "lean"
)

// Valid reports whether v is one of the known variants.
func (v Variant) Valid() bool {
	switch v {
	case VariantAuto, VariantToolchain, VariantLean:
		return true
	}
	return false
}

// ImageSpec describes the image to produce from a source tree.
type ImageSpec struct {
	BaseImage   string  `json:"base_image"`
	WorkDir     string  `json:"work_dir"`
	Manifest    string  `json:"manifest"`     // manifest filename inside the source tree
	EntryScript string  `json:"entry_script"` // script the container runs on start
	Variant     Variant `json:"variant"`
	// ExtraPackages are additional OS packages installed alongside the
	// toolchain (or on their own for the lean variant).
	ExtraPackages []string `json:"extra_packages,omitempty"`
	Port          int      `json:"port,omitempty"`
}

// Build is the record of one image build.
type Build struct {
	ID       string    `json:"id"`
	ImageRef string    `json:"image_ref"`
	Variant  Variant   `json:"variant"`
	Digest   string    `json:"digest"`
	Cached   bool      `json:"cached"` // an image with the same digest already existed
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
}
