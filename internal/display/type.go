package display

import (
	"fmt"
	"strconv"
	"strings"
)

// Type identifies a display backend.
type Type int

const (
	// TypeOpenCV is the interactive 3D viz window.
	TypeOpenCV Type = 0
	// TypePangolin is reserved; no Pangolin backend exists yet.
	TypePangolin Type = 1
	// TypeRemote streams the visualization to remote viewers over WebRTC.
	TypeRemote Type = 2
)

// TypeInfo is one row of the backend support table.
type TypeInfo struct {
	Type        Type
	Name        string
	Description string
	Supported   bool
}

var knownTypes = []TypeInfo{
	{Type: TypeOpenCV, Name: "opencv", Description: "OpenCV 3D viz", Supported: true},
	{Type: TypePangolin, Name: "pangolin", Description: "Pangolin", Supported: false},
	{Type: TypeRemote, Name: "remote", Description: "Remote WebRTC stream", Supported: true},
}

// KnownTypes returns the support table for every known backend.
func KnownTypes() []TypeInfo {
	out := make([]TypeInfo, len(knownTypes))
	copy(out, knownTypes)
	return out
}

func (t Type) info() (TypeInfo, bool) {
	for _, k := range knownTypes {
		if k.Type == t {
			return k, true
		}
	}
	return TypeInfo{}, false
}

// String returns the backend name, or Type(n) for unknown values.
func (t Type) String() string {
	if k, ok := t.info(); ok {
		return k.Name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Supported reports whether a backend is implemented for t.
func (t Type) Supported() bool {
	k, ok := t.info()
	return ok && k.Supported
}

// ParseType accepts a backend name (case-insensitive) or its numeric id.
// Reserved and out-of-range ids parse fine; New rejects them.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Type(n), nil
	}
	for _, k := range knownTypes {
		if strings.EqualFold(k.Name, s) {
			return k.Type, nil
		}
	}
	return 0, fmt.Errorf("unknown display type %q", s)
}

// supportTable renders the table printed when an unsupported type is
// requested, e.g. "0: OpenCV 3D viz, 1: Pangolin (not supported yet)".
func supportTable() string {
	rows := make([]string, 0, len(knownTypes))
	for _, k := range knownTypes {
		row := fmt.Sprintf("%d: %s", int(k.Type), k.Description)
		if !k.Supported {
			row += " (not supported yet)"
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, ", ")
}
