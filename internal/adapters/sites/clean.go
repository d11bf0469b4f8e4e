// Package sites holds the marketplace adapter registry and the text
// cleaning helpers shared by every site adapter. Each marketplace keeps its
// own selectors in a subpackage; everything downstream of extraction is
// site-agnostic.
package sites

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	yearPattern    = regexp.MustCompile(`\b(19[89][0-9]|20[0-9][0-9])\b`)
	mileagePattern = regexp.MustCompile(`(\d{1,3}(?:\.\d{3})*|\d+)\s*km`)
	digitsAndDot   = regexp.MustCompile(`[^0-9.]`)
)

// CleanPrice parses Dutch-formatted price text ("€ 7.450,-", "7.450,50").
// Thousands separators are dots, the decimal separator is a comma.
func CleanPrice(text string) *float64 {
	if text == "" {
		return nil
	}

	text = strings.ReplaceAll(text, "€", "")
	text = strings.ReplaceAll(text, ".", "")
	text = strings.ReplaceAll(text, ",", ".")
	text = digitsAndDot.ReplaceAllString(text, "")
	text = strings.Trim(text, ".")

	value, err := strconv.ParseFloat(text, 64)
	if err != nil || value <= 0 {
		return nil
	}
	return &value
}

// CleanMileage parses mileage text like "123.456 km".
func CleanMileage(text string) *int {
	if text == "" {
		return nil
	}

	text = strings.ReplaceAll(text, "km", "")
	text = strings.ReplaceAll(text, ".", "")
	text = strings.ReplaceAll(text, ",", "")
	text = strings.TrimSpace(text)

	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	value, err := strconv.Atoi(digits.String())
	if err != nil || value <= 0 {
		return nil
	}
	return &value
}

// CleanYear parses a model year and rejects implausible values.
func CleanYear(text string) *int {
	if text == "" {
		return nil
	}

	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	year, err := strconv.Atoi(digits.String())
	if err != nil || year < 1900 || year > time.Now().Year()+1 {
		return nil
	}
	return &year
}

// ExtractYear finds the first plausible model year in free text.
func ExtractYear(text string) *int {
	match := yearPattern.FindString(text)
	if match == "" {
		return nil
	}
	return CleanYear(match)
}

// ExtractMileage finds the first "<number> km" occurrence in free text.
func ExtractMileage(text string) *int {
	match := mileagePattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	return CleanMileage(match[1])
}
