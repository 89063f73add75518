package usecases

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MyCarrier-DevOps/plox-version/internal/domain"
)

// isCommentLine reports whether a version file line is a comment.
// Lines starting with "//" are never comments, even though "//" looks like one.
func isCommentLine(line string) bool {
	return strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "//")
}

// ReadVersionFile reads the raw version from the file at path.
// Returns domain.ErrMalformedVersionFile if the file is missing or does not
// contain exactly one non-comment line.
func ReadVersionFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: missing version file %s", domain.ErrMalformedVersionFile, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrMalformedVersionFile, path, err)
	}
	defer f.Close()

	version, err := ParseVersionContent(f)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, path)
	}
	return version, nil
}

// ParseVersionContent applies the version file rule to r: drop comment lines,
// require exactly one remaining line, and return it trimmed.
// Blank lines are not comments and count towards the remaining lines.
func ParseVersionContent(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrMalformedVersionFile, err)
	}

	var lines []string
	for _, line := range splitLines(string(data)) {
		if isCommentLine(line) {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) != 1 {
		return "", fmt.Errorf(
			"%w: expecting a single line after dropping comments, found %d",
			domain.ErrMalformedVersionFile,
			len(lines),
		)
	}

	return strings.TrimSpace(lines[0]), nil
}

// splitLines splits text on "\n" with no limit on line length. A trailing
// newline does not start another line, and a "\r" before "\n" is dropped.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
