package main

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StringTransformer applies a transform.Transformer to a string.
type StringTransformer interface {
	TransformString(t transform.Transformer, s string) (string, int, error)
}

type defaultTransformer struct{}

func (dt defaultTransformer) TransformString(t transform.Transformer, s string) (string, int, error) {
	return transform.String(t, s)
}

// transformer is replaced in tests.
var transformer StringTransformer = defaultTransformer{}

// normalizeCityName strips diacritical marks, trims and lower-cases s, so that
// " Kraków" and "krakow" share one alias.
func normalizeCityName(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("input string is not valid UTF-8")
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transformer.TransformString(t, s)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(result)), nil
}

func reverseGeocodeCacheKey(lat, lon float64) string {
	return fmt.Sprintf("reversegeocode:%.2f:%.2f", lat, lon)
}

func tileCacheKey(tile tileRequest) string {
	return fmt.Sprintf("tile:%s:%d:%d:%d", tile.Layer, tile.Z, tile.X, tile.Y)
}
