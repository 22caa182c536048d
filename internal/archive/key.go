package archive

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// TimestampLayout is the fixed-width date component embedded in stored keys.
// Because it is zero-padded, lexicographic key order matches chronological
// order for a given backup name.
const TimestampLayout = "20060102150405"

// EncryptedSuffix marks an encrypted archive.
const EncryptedSuffix = ".enc"

var (
	// Current format: name.YYYYMMDDHHMMSS.tgz[.enc]
	keyRe = regexp.MustCompile(`^(.+)\.(\d{14})\.tgz(\.enc)?$`)

	// Legacy format without the dot before the date component, kept for
	// backups written by old releases: nameYYYYMMDDHHMMSS.tgz[.enc]
	legacyKeyRe = regexp.MustCompile(`^(.+?)(\d{14})\.tgz(\.enc)?$`)

	compressedNameRe = regexp.MustCompile(`\.t(ar\.)?gz$`)
)

// Record is the decoded identity of one stored backup generation.
type Record struct {
	// Name is the logical backup name (base name of the backed-up path).
	Name string
	// Key is the exact stored object name the record was decoded from.
	Key string
	// BackupDate is the creation timestamp embedded in the key, UTC.
	BackupDate time.Time
	// Encrypted reports whether the key carries the .enc suffix.
	Encrypted bool
}

// EncodeKey formats the stored object name for a backup generation.
// New keys are always written in the current (dotted) format.
func EncodeKey(name string, at time.Time, encrypted bool) string {
	key := fmt.Sprintf("%s.%s.tgz", name, at.UTC().Format(TimestampLayout))
	if encrypted {
		key += EncryptedSuffix
	}
	return key
}

// DecodeKey parses a stored object name back into a Record. The current
// format is tried first, the legacy format only if it does not match.
// ok is false for names written by other tools; callers listing a bucket
// must skip those rather than fail.
func DecodeKey(key string) (Record, bool) {
	m := keyRe.FindStringSubmatch(key)
	if m == nil {
		m = legacyKeyRe.FindStringSubmatch(key)
	}
	if m == nil {
		return Record{}, false
	}
	at, err := time.ParseInLocation(TimestampLayout, m[2], time.UTC)
	if err != nil {
		return Record{}, false
	}
	return Record{
		Name:       m[1],
		Key:        key,
		BackupDate: at,
		Encrypted:  m[3] != "",
	}, true
}

// Match filters keys down to those starting with name, decodes them, and
// returns the records ordered by raw key string, descending. The most
// recent generation of a name comes first.
func Match(keys []string, name string) []Record {
	matched := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, name) {
			matched = append(matched, key)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matched)))

	records := make([]Record, 0, len(matched))
	for _, key := range matched {
		rec, ok := DecodeKey(key)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// IsCompressedName reports whether a file name already denotes a gzip
// compressed tarball (.tgz or .tar.gz).
func IsCompressedName(name string) bool {
	return compressedNameRe.MatchString(name)
}

// StripCompressedSuffix removes a trailing .tgz or .tar.gz so the logical
// name of an already-compressed source does not carry the extension twice.
func StripCompressedSuffix(name string) string {
	return compressedNameRe.ReplaceAllString(name, "")
}
