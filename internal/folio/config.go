package folio

// Options collects the settings the Folio service needs from configuration.
type Options struct {
	Scan    ScanOptions
	Preview PreviewPolicy
	Chunks  ChunkOptions
	Export  Exporter
}

// DefaultBinaryExtensions are excluded from previews unless configured otherwise.
var DefaultBinaryExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".webp",
	".zip", ".gz", ".tar", ".xz", ".7z", ".rlib", ".wasm",
	".exe", ".dll", ".so", ".dylib", ".a", ".o", ".pdf",
}

// DefaultPreviewPolicy hides dotted paths and common binary formats.
func DefaultPreviewPolicy() PreviewPolicy {
	return PreviewPolicy{
		SnippetLength:    DefaultSnippetLength,
		HiddenPrefixes:   []string{"."},
		BinaryExtensions: append([]string(nil), DefaultBinaryExtensions...),
	}
}
