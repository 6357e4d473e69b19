package site

import "slices"

// socialIcons is the closed icon vocabulary accepted for social links.
var socialIcons = []string{
	"blueSky",
	"bluesky",
	"codeberg",
	"codePen",
	"discord",
	"discourse",
	"email",
	"facebook",
	"github",
	"gitlab",
	"gitter",
	"instagram",
	"linkedin",
	"mastodon",
	"matrix",
	"npm",
	"openCollective",
	"patreon",
	"reddit",
	"rss",
	"slack",
	"stackOverflow",
	"telegram",
	"threads",
	"twitch",
	"twitter",
	"x.com",
	"youtube",
}

// IsSocialIcon reports whether icon is in the accepted vocabulary.
func IsSocialIcon(icon string) bool {
	return slices.Contains(socialIcons, icon)
}
