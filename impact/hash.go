package impact

import (
	"encoding/hex"
	"strings"

	"github.com/bitfsorg/greenbond-go/archive"
	"github.com/bitfsorg/greenbond-go/state"
)

// ContentHash returns the lowercase hex SHA3-256 digest of a disclosure
// document, the form stored in Report.ContentHash.
func ContentHash(doc []byte) string {
	return hex.EncodeToString(archive.Digest(doc))
}

// MatchesContent reports whether doc hashes to the report's recorded
// content hash. Hex case and a 0x prefix are ignored.
func MatchesContent(r state.Report, doc []byte) bool {
	return normalizeHash(r.ContentHash) == ContentHash(doc)
}

// normalizeHash puts a recorded content hash in ContentHash form.
func normalizeHash(h string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h)), "0x")
}
