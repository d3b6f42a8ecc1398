// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dict

import "strings"

// segmentPrefixes are the generated-identifier shapes that are split out of a
// line, tried in order. Each must be followed by 1 to maxSegmentDigits digits.
// Transpilers emit names like "_123" or "hp_copy_12" by the hundreds, so
// isolating them lets the rest of the line stay shared across shaders.
var segmentPrefixes = []string{"hp_copy_", "mp_copy_", "tmp_", "param_", "_"}

const maxSegmentDigits = 6

// Split cuts line into dictionary segments. Concatenating the result yields
// line again.
func Split(line string) []string {
	var segments []string
	start := 0
	for i := 0; i < len(line); {
		end := matchSegment(line, i)
		if end < 0 {
			i++
			continue
		}
		if start < i {
			segments = append(segments, line[start:i])
		}
		segments = append(segments, line[i:end])
		start, i = end, end
	}
	if start < len(line) {
		segments = append(segments, line[start:])
	}
	return segments
}

// matchSegment returns the end of a generated identifier starting at i,
// or -1 when none starts there.
func matchSegment(line string, i int) int {
	if i > 0 && isIdentByte(line[i-1]) {
		return -1
	}
	rest := line[i:]
	for _, prefix := range segmentPrefixes {
		if !strings.HasPrefix(rest, prefix) {
			continue
		}
		j := len(prefix)
		digits := 0
		for j+digits < len(rest) && isDigitByte(rest[j+digits]) {
			digits++
		}
		if digits == 0 || digits > maxSegmentDigits {
			continue
		}
		end := j + digits
		if end < len(rest) && isIdentByte(rest[end]) {
			continue
		}
		return i + end
	}
	return -1
}

// Lines splits text into physical lines, each keeping its trailing newline.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	lines := make([]string, 0, strings.Count(text, "\n")+1)
	for text != "" {
		n := strings.IndexByte(text, '\n')
		if n < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:n+1])
		text = text[n+1:]
	}
	return lines
}

func isDigitByte(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentByte(c byte) bool {
	return c == '_' || isDigitByte(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
