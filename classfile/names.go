package classfile

import "strings"

// FlatName converts a binary name such as a/b/C$D to the flat name a.b.C.D.
func FlatName(binary string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '$' {
			return '.'
		}
		return r
	}, binary)
}

// SimpleName returns the last segment of a flat name.
func SimpleName(flat string) string {
	return flat[strings.LastIndexByte(flat, '.')+1:]
}

// PackageName returns everything before the last segment of a flat name, or
// the empty string for the default package.
func PackageName(flat string) string {
	if i := strings.LastIndexByte(flat, '.'); i >= 0 {
		return flat[:i]
	}
	return ""
}

// BinaryNameCandidates lists the binary names a flat name may stand for,
// most likely first: a.b.C.D yields a/b/C/D, a/b/C$D, a/b$C$D and a$b$C$D.
func BinaryNameCandidates(flat string) []string {
	if flat == "" {
		return nil
	}
	parts := strings.Split(flat, ".")
	candidates := make([]string, 0, len(parts))
	for nested := 0; nested < len(parts); nested++ {
		split := len(parts) - nested
		var sb strings.Builder
		sb.WriteString(strings.Join(parts[:split], "/"))
		for _, p := range parts[split:] {
			sb.WriteByte('$')
			sb.WriteString(p)
		}
		candidates = append(candidates, sb.String())
	}
	return candidates
}
