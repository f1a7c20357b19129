package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-version"
)

// VersionType tags which encoding a raw version string used
type VersionType string

const (
	VersionStandard VersionType = "standard"
	VersionPacked   VersionType = "packed"
	VersionUnknown  VersionType = "unknown"
)

// UnknownGroup is the minor group of any version that could not be decoded.
// It always sorts after every real group.
const UnknownGroup = "unknown"

type ParsedVersion struct {
	Original   string      `json:"original"`
	Type       VersionType `json:"type"`
	Major      int         `json:"major"`
	Minor      int         `json:"minor"`
	Patch      int         `json:"patch"`
	MinorGroup string      `json:"minor_group"`
}

// Canonical renders the logical version as "major.minor.patch"
func (p ParsedVersion) Canonical() string {
	if p.Type == VersionUnknown {
		return UnknownGroup
	}
	return fmt.Sprintf("%d.%d.%d", p.Major, p.Minor, p.Patch)
}

func unknownVersion(raw string) ParsedVersion {
	return ParsedVersion{
		Original:   raw,
		Type:       VersionUnknown,
		MinorGroup: UnknownGroup,
	}
}

// IsPackedVersion reports whether raw uses the packed layout "0.XXX.DDDDD",
// where the third segment holds at least five digits.
func IsPackedVersion(raw string) bool {
	if !strings.HasPrefix(raw, "0.") {
		return false
	}
	parts := strings.Split(raw, ".")
	if len(parts) < 3 {
		return false
	}
	return len(parts[2]) >= 5 && isDigits(parts[2])
}

// ParseVersion decodes both encodings into one comparable form.
//
// Standard: "3.1.8"       -> 3.1.8
// Packed:   "0.811.30108" -> 3.1.8 (third segment: M MM PP)
//
// The packed digit widths are a convention of the client, not a published
// format. Nothing beyond the five-digit heuristic validates them.
func ParseVersion(raw string) ParsedVersion {
	if raw == "" || raw == UnknownGroup {
		return unknownVersion(raw)
	}

	if IsPackedVersion(raw) {
		seg := strings.Split(raw, ".")[2]
		major := atoiDefault(seg[0:1])
		minor := atoiDefault(seg[1:3])
		patch := atoiDefault(seg[3:5])
		return ParsedVersion{
			Original:   raw,
			Type:       VersionPacked,
			Major:      major,
			Minor:      minor,
			Patch:      patch,
			MinorGroup: fmt.Sprintf("%d.%d", major, minor),
		}
	}

	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(raw), "v"), ".")
	major, ok := leadingInt(parts[0])
	if !ok {
		return unknownVersion(raw)
	}
	var minor, patch int
	if len(parts) > 1 {
		minor, _ = leadingInt(parts[1])
	}
	if len(parts) > 2 {
		patch, _ = leadingInt(parts[2])
	}

	return ParsedVersion{
		Original:   raw,
		Type:       VersionStandard,
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		MinorGroup: fmt.Sprintf("%d.%d", major, minor),
	}
}

// GetMinorVersionGroup returns the "major.minor" group of any version string.
func GetMinorVersionGroup(raw string) string {
	return ParseVersion(raw).MinorGroup
}

func IsVersionInGroup(raw, group string) bool {
	return GetMinorVersionGroup(raw) == group
}

// VersionKey is the partition key used for a raw version: empty becomes "unknown".
func VersionKey(raw string) string {
	if raw == "" {
		return UnknownGroup
	}
	return raw
}

// CompareVersionsDesc orders raw versions highest first, unknown last.
// Versions with the same logical number fall back to the raw string so the
// order is total.
func CompareVersionsDesc(a, b string) int {
	pa, pb := ParseVersion(a), ParseVersion(b)
	aUnknown, bUnknown := pa.Type == VersionUnknown, pb.Type == VersionUnknown
	switch {
	case aUnknown && bUnknown:
		return strings.Compare(a, b)
	case aUnknown:
		return 1
	case bUnknown:
		return -1
	}
	if c := cmpDesc(pa.Major, pb.Major); c != 0 {
		return c
	}
	if c := cmpDesc(pa.Minor, pb.Minor); c != 0 {
		return c
	}
	if c := cmpDesc(pa.Patch, pb.Patch); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// CompareGroupsDesc orders "major.minor" group keys highest first, "unknown" last.
func CompareGroupsDesc(a, b string) int {
	aUnknown, bUnknown := a == UnknownGroup, b == UnknownGroup
	switch {
	case aUnknown && bUnknown:
		return 0
	case aUnknown:
		return 1
	case bUnknown:
		return -1
	}
	aMaj, aMin := splitGroup(a)
	bMaj, bMin := splitGroup(b)
	if c := cmpDesc(aMaj, bMaj); c != 0 {
		return c
	}
	if c := cmpDesc(aMin, bMin); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func splitGroup(g string) (int, int) {
	major, minor, _ := strings.Cut(g, ".")
	return atoiDefault(major), atoiDefault(minor)
}

func cmpDesc(a, b int) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func atoiDefault(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// leadingInt parses the run of digits at the start of s ("8-rc1" -> 8).
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	return atoiDefault(s[:end]), true
}

// VersionConfig holds current version requirements
type VersionConfig struct {
	CurrentStable string
	MinSupported  string
	Deprecated    string
}

var DefaultVersionConfig = VersionConfig{
	CurrentStable: "3.1.0",
	MinSupported:  "3.0.0",
	Deprecated:    "2.3.0",
}

// CheckVersionStatus determines if a validator version needs upgrading.
// Packed versions are judged on their decoded logical version.
func CheckVersionStatus(raw string, config *VersionConfig) (status string, needsUpgrade bool, severity string) {
	if config == nil {
		config = &DefaultVersionConfig
	}

	parsed := ParseVersion(raw)
	if parsed.Type == VersionUnknown {
		return "unknown", false, "info"
	}

	nodeVer, err := version.NewVersion(parsed.Canonical())
	if err != nil {
		return "unknown", false, "info"
	}

	current, errCur := version.NewVersion(config.CurrentStable)
	minSupported, errMin := version.NewVersion(config.MinSupported)
	deprecated, errDep := version.NewVersion(config.Deprecated)
	if errCur != nil || errMin != nil || errDep != nil {
		return "unknown", false, "info"
	}

	if nodeVer.LessThan(deprecated) {
		return "deprecated", true, "critical"
	}
	if nodeVer.LessThan(minSupported) {
		return "outdated", true, "warning"
	}
	if nodeVer.LessThan(current) {
		return "outdated", true, "info"
	}
	return "current", false, "none"
}

// GetUpgradeMessage returns a human-readable upgrade message
func GetUpgradeMessage(raw string, config *VersionConfig) string {
	if config == nil {
		config = &DefaultVersionConfig
	}

	_, needsUpgrade, severity := CheckVersionStatus(raw, config)
	if !needsUpgrade {
		return ""
	}

	switch severity {
	case "critical":
		return "CRITICAL: This version is deprecated and no longer supported. Upgrade to " + config.CurrentStable + " immediately."
	case "warning":
		return "WARNING: This version is outdated. Please upgrade to " + config.CurrentStable + " soon."
	case "info":
		return "INFO: A newer version " + config.CurrentStable + " is available."
	}
	return ""
}
