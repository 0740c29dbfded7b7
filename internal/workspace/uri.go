// Package workspace maintains the process-wide Document/Workspace model
// (spec §3, §4.5): URI normalization, document snapshots, and the
// single-writer mutation API.
package workspace

import (
	"net/url"
	"strings"
)

// URI is a normalized document identifier. Two URIs compare equal iff
// their normalized string forms compare equal byte-wise (spec §4.5, §6).
type URI string

// isDriveLetter reports whether b is an ASCII letter, as in the leading
// Windows drive segment ("/c:/" or "c:/") that normalization upper-cases.
func isDriveLetter(b byte) bool { return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' }

// Normalize applies the rules from spec §6: lower-case scheme, upper-case
// Windows drive letters, decode a percent-encoded drive colon, strip any
// fragment. It is idempotent: normalizing an already-normalized URI is a
// no-op (spec §8).
func Normalize(raw string) URI {
	u, err := url.Parse(raw)
	if err != nil {
		return URI(raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Fragment = ""
	u.RawFragment = ""

	path := u.Path
	path = strings.ReplaceAll(path, "%3A", ":")
	path = strings.ReplaceAll(path, "%3a", ":")

	// file://c:/foo -> the host got parsed as "c:" by net/url for
	// authority-less paths; normalize both the host-as-drive and
	// path-as-drive shapes into "/C:/...".
	if u.Host != "" && len(u.Host) >= 2 && isDriveLetter(u.Host[0]) && u.Host[1] == ':' {
		drive := strings.ToUpper(u.Host[:1])
		rest := u.Host[2:]
		path = "/" + drive + ":" + rest + path
		u.Host = ""
	}

	if len(path) >= 3 && path[0] == '/' && isDriveLetter(path[1]) && path[2] == ':' {
		path = "/" + strings.ToUpper(path[1:2]) + path[2:]
	} else if len(path) >= 2 && isDriveLetter(path[0]) && path[1] == ':' {
		path = "/" + strings.ToUpper(path[:1]) + path[1:]
	}

	u.Path = path
	u.RawPath = ""
	return URI(u.String())
}

// String returns the normalized URI text.
func (u URI) String() string { return string(u) }
