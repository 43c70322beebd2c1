package packer

import "strings"

// FormatBlock renders one file's framed block:
//
//	@<path>
//	<<'<delimiter>'
//	<body>
//	<delimiter>
//
// The body is emitted verbatim; framing safety comes entirely from the
// delimiter never matching a body line.
func FormatBlock(path, body string, position int) string {
	delim := Delimiter(path, position, body)

	var b strings.Builder
	b.Grow(len(path) + len(body) + 2*len(delim) + 8)
	b.WriteByte('@')
	b.WriteString(path)
	b.WriteString("\n<<'")
	b.WriteString(delim)
	b.WriteString("'\n")
	b.WriteString(body)
	b.WriteByte('\n')
	b.WriteString(delim)
	return b.String()
}
