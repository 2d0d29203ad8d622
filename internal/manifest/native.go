package manifest

import "github.com/hardikramesh/botforge/internal/core/domain"

// nativePackages lists distributions that compile C extensions when
// installed from source. Installing them needs a compiler toolchain and
// the FFI/interpreter development headers in the image. The list is the
// usual suspects for bot and web workloads, not an exhaustive registry.
var nativePackages = map[string]bool{
	"cffi":         true,
	"cryptography": true,
	"gevent":       true,
	"greenlet":     true,
	"grpcio":       true,
	"lxml":         true,
	"matplotlib":   true,
	"multidict":    true,
	"mysqlclient":  true,
	"numpy":        true,
	"pandas":       true,
	"pillow":       true,
	"psycopg2":     true,
	"pycrypto":     true,
	"pycryptodome": true,
	"pynacl":       true,
	"scikit-learn": true,
	"scipy":        true,
	"ta-lib":       true,
	"ujson":        true,
	"uwsgi":        true,
	"yarl":         true,
}

// IsNative reports whether the named package (already normalized or not)
// is known to require native compilation.
func IsNative(name string) bool {
	return nativePackages[NormalizeName(name)]
}

// NativeRequirements returns the manifest's requirements that need a
// compiler toolchain at install time, in manifest order.
func NativeRequirements(m *domain.Manifest) []domain.Requirement {
	var out []domain.Requirement
	for _, r := range m.Requirements {
		if nativePackages[r.Name] {
			out = append(out, r)
		}
	}
	return out
}
