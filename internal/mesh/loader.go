package mesh

import (
	"strings"

	"github.com/pkg/errors"
)

// Sentinel causes for the two caller-fixable failure modes. Handlers match
// on these with errors.Cause and turn them into 400 responses.
var (
	ErrUnsupportedFormat = errors.New("unsupported file type, upload STL or OBJ")
	ErrInvalidGeometry   = errors.New("mesh appears empty or invalid")
)

// Load parses raw bytes declared as "stl" or "obj" (leading dot and case are
// ignored) into a cleaned-up mesh. It returns ErrUnsupportedFormat for other
// format tags and ErrInvalidGeometry when the parsed mesh has no faces or
// encloses no volume after cleanup. Parser failures are wrapped so the
// original cause stays visible to the caller.
func Load(data []byte, format string) (*Mesh, error) {
	var (
		m   *Mesh
		err error
	)
	switch normalizeFormat(format) {
	case "stl":
		m, err = parseSTL(data)
	case "obj":
		m, err = parseOBJ(data)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if m.IsEmpty() {
		return nil, ErrInvalidGeometry
	}

	cleanup(m)

	if m.IsEmpty() || m.Volume() == 0 {
		return nil, ErrInvalidGeometry
	}
	return m, nil
}

// cleanup runs the best-effort normalization passes. A panic here (possible
// on pathological index data) must not fail the load; the quote proceeds
// with the mesh as parsed.
func cleanup(m *Mesh) {
	defer func() { _ = recover() }()
	m.RemoveDuplicateFaces()
	m.RemoveDegenerateFaces()
	m.RemoveUnreferencedVertices()
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
}

// IsUnsupportedFormat reports whether err stems from an unknown format tag.
func IsUnsupportedFormat(err error) bool {
	return errors.Cause(err) == ErrUnsupportedFormat
}

// IsInvalidGeometry reports whether err stems from an empty or unparsable mesh.
func IsInvalidGeometry(err error) bool {
	return errors.Cause(err) == ErrInvalidGeometry
}
