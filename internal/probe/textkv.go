package probe

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// findInLines scans r line by line for a "key: value" entry whose key (the
// trimmed text before the first colon) exactly matches one of keys; the first
// matching line wins and the trimmed text after the colon is returned. Lines
// without a colon, or with the colon in the first column, are skipped.
//
// With no keys the first line of r, trimmed, is the result — single-fact
// sources such as thermal-zone files carry no key prefix at all.
func findInLines(r io.Reader, keys ...string) (string, bool) {
	sc := bufio.NewScanner(r)

	if len(keys) == 0 {
		if sc.Scan() {
			return strings.TrimSpace(sc.Text()), true
		}
		return "", false
	}

	for sc.Scan() {
		line := sc.Text()
		i := strings.Index(line, ":")
		if i <= 0 {
			continue
		}
		name := strings.TrimSpace(line[:i])
		for _, k := range keys {
			if name == k {
				return strings.TrimSpace(line[i+1:]), true
			}
		}
	}
	return "", false
}

// findInFile applies findInLines to the file at path. A missing or unreadable
// path reports found=false: absence of a pseudo-file is expected on any given
// platform, not an error.
func findInFile(path string, keys ...string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()
	return findInLines(f, keys...)
}

// findInText applies findInLines to captured command output.
func findInText(text string, keys ...string) (string, bool) {
	return findInLines(strings.NewReader(text), keys...)
}

// readWholeFile returns the file's entire contents, found=false when the
// path does not exist or cannot be read.
func readWholeFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}
