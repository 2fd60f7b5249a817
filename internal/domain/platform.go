package domain

import "strings"

// Platform identifies a supported social network. The canonical value is
// always title-cased regardless of how callers spell it.
type Platform string

const (
	PlatformInstagram Platform = "Instagram"
	PlatformYouTube   Platform = "YouTube"
	PlatformLinkedIn  Platform = "LinkedIn"
)

// AllPlatforms lists every platform the panel can analyze.
var AllPlatforms = []Platform{PlatformInstagram, PlatformYouTube, PlatformLinkedIn}

// ParsePlatform resolves a platform from any casing ("instagram", "YOUTUBE").
func ParsePlatform(name string) (Platform, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "instagram":
		return PlatformInstagram, true
	case "youtube":
		return PlatformYouTube, true
	case "linkedin":
		return PlatformLinkedIn, true
	default:
		return "", false
	}
}

// Key returns the lowercase identifier used in cache keys and API routes.
func (p Platform) Key() string {
	return strings.ToLower(string(p))
}

func (p Platform) String() string {
	return string(p)
}
