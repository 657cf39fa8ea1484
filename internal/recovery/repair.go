package recovery

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/rs/zerolog/log"
)

var (
	bareKeyRe     = regexp.MustCompile(`([{,]\s*)([a-zA-Z_][a-zA-Z0-9_]*)(\s*:)`)
	singleQuoteRe = regexp.MustCompile(`'([^']*)'`)
)

// repair is the aggressive fallback applied only after a strict parse has
// failed. It re-trims to the widest {...} span, applies the cheap regex
// fixes in order, and finishes with the jsonrepair library when the result
// still does not look parseable.
func repair(span string) string {
	start := strings.Index(span, "{")
	end := strings.LastIndex(span, "}")
	if start != -1 && end > start {
		span = span[start : end+1]
	}

	span = trailingCommaRe.ReplaceAllString(span, "$1")
	span = bareKeyRe.ReplaceAllString(span, `$1"$2"$3`)
	span = singleQuoteRe.ReplaceAllString(span, `"$1"`)
	span = strings.ReplaceAll(span, "\r", "")
	span = strings.ReplaceAll(span, "\t", " ")

	if json.Valid([]byte(span)) {
		return span
	}

	fixed, err := jsonrepair.JSONRepair(span)
	if err != nil {
		log.Debug().Err(err).Msg("jsonrepair library could not improve span")
		return span
	}
	return fixed
}
