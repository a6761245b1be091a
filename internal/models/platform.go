package models

import "fmt"

// Platform identifies the ad platform a metric row was observed on.
type Platform string

const (
	PlatformFacebook        Platform = "FACEBOOK"
	PlatformInstagram       Platform = "INSTAGRAM"
	PlatformMessenger       Platform = "MESSENGER"
	PlatformAudienceNetwork Platform = "AUDIENCE_NETWORK"
)

// AllPlatforms lists every platform the ingestion pipeline writes rows for.
var AllPlatforms = []Platform{
	PlatformFacebook,
	PlatformInstagram,
	PlatformMessenger,
	PlatformAudienceNetwork,
}

// ParsePlatform validates a platform string from an API request or a
// database row.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	for _, known := range AllPlatforms {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

func (p Platform) String() string { return string(p) }
