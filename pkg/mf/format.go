package mf

import (
	"strconv"
	"strings"
)

// FormatResolution renders a resolution badge, e.g. "1080" -> "1080p", "2160" -> "4K".
func FormatResolution(resolution string) string {
	if resolution == "" {
		return ""
	}
	switch strings.ToLower(resolution) {
	case "4k", "2160":
		return "4K"
	case "8k", "4320":
		return "8K"
	}
	if _, err := strconv.Atoi(leadingDigits(resolution)); err == nil {
		return resolution + "p"
	}
	return resolution
}

// leadingDigits mirrors a lenient integer parse: "720" and "720x" both count as numeric.
func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

// HasSubtitles reports whether any version carries a subtitle track.
func HasSubtitles(versions []MediaVersion) bool {
	for _, v := range versions {
		if len(v.Subtitles) > 0 {
			return true
		}
	}
	return false
}

// UniqueSubtitles flattens subtitle tracks across versions, keeping first-seen order.
func UniqueSubtitles(versions []MediaVersion) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, v := range versions {
		for _, sub := range v.Subtitles {
			if seen[sub] {
				continue
			}
			seen[sub] = true
			out = append(out, sub)
		}
	}
	return out
}
