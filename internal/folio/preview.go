package folio

import (
	"path"
	"strings"
	"unicode/utf8"
)

// DefaultSnippetLength is the number of runes shown per previewed file.
const DefaultSnippetLength = 30

// PreviewPolicy decides which files are previewed and how much of each is shown.
type PreviewPolicy struct {
	SnippetLength    int
	HiddenPrefixes   []string
	BinaryExtensions []string
}

// Preview is a single rendered line of the preview pane.
type Preview struct {
	Path    string
	Snippet string
}

// Visible reports whether relPath should appear in previews.
func (p PreviewPolicy) Visible(relPath string) bool {
	return !p.Hidden(relPath) && !p.Binary(relPath)
}

// Hidden reports whether any segment of relPath starts with a hidden prefix.
func (p PreviewPolicy) Hidden(relPath string) bool {
	for _, seg := range strings.Split(relPath, "/") {
		for _, prefix := range p.HiddenPrefixes {
			if prefix != "" && strings.HasPrefix(seg, prefix) {
				return true
			}
		}
	}
	return false
}

// Binary reports whether relPath carries a known binary extension.
func (p PreviewPolicy) Binary(relPath string) bool {
	ext := strings.ToLower(path.Ext(relPath))
	if ext == "" {
		return false
	}
	for _, candidate := range p.BinaryExtensions {
		c := strings.ToLower(strings.TrimSpace(candidate))
		if !strings.HasPrefix(c, ".") {
			c = "." + c
		}
		if c == ext {
			return true
		}
	}
	return false
}

// BuildPreviews renders a snippet for every visible file of the snapshot,
// in path order.
func BuildPreviews(v *VFS, policy PreviewPolicy) []Preview {
	var previews []Preview
	for _, p := range v.List() {
		if !policy.Visible(p) {
			continue
		}
		data, _ := v.Read(p)
		previews = append(previews, Preview{Path: p, Snippet: Snippet(data, policy.SnippetLength)})
	}
	return previews
}

// Snippet decodes data as lossy UTF-8, flattens newlines and truncates the
// result to limit runes. A non-positive limit uses DefaultSnippetLength.
func Snippet(data []byte, limit int) string {
	if limit <= 0 {
		limit = DefaultSnippetLength
	}
	text := strings.ToValidUTF8(string(data), string(utf8.RuneError))
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	var b strings.Builder
	n := 0
	for _, r := range text {
		if n == limit {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}
