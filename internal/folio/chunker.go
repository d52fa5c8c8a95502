package folio

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// Chunk is a line range of a mounted file, used as a search document.
type Chunk struct {
	FilePath    string
	StartLine   int
	EndLine     int
	Content     string
	ContentHash string
}

// ChunkOptions controls how files are chunked into smaller sections.
type ChunkOptions struct {
	ChunkSize    int
	ChunkOverlap int
}

// ChunkContent splits content into overlapping line ranges.
func ChunkContent(relPath string, content []byte, opts ChunkOptions) ([]Chunk, error) {
	if opts.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive")
	}
	if opts.ChunkOverlap < 0 {
		return nil, fmt.Errorf("chunk overlap cannot be negative")
	}

	// Ensure the overlap never consumes the entire chunk.
	if opts.ChunkOverlap >= opts.ChunkSize {
		opts.ChunkOverlap = opts.ChunkSize - 1
	}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, nil
	}

	step := opts.ChunkSize - opts.ChunkOverlap
	if step <= 0 {
		step = 1
	}

	var chunks []Chunk
	for start := 0; start < len(lines); start += step {
		end := start + opts.ChunkSize
		if end > len(lines) {
			end = len(lines)
		}

		text := strings.Join(lines[start:end], "\n")
		sum := md5.Sum([]byte(text))

		chunks = append(chunks, Chunk{
			FilePath:    relPath,
			StartLine:   start + 1,
			EndLine:     end,
			Content:     text,
			ContentHash: hex.EncodeToString(sum[:]),
		})

		if end == len(lines) {
			break
		}
	}

	return chunks, nil
}
