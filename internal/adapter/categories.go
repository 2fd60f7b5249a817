package adapter

import (
	"regexp"
	"sort"
	"strings"

	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/util"
)

const maxCategories = 5

var hashtagPattern = regexp.MustCompile(`#[a-zA-Z0-9]+`)

// youtubeCategoryNames maps the YouTube Data API categoryId values to their
// display names.
var youtubeCategoryNames = map[string]string{
	"1":  "Film & Animation",
	"2":  "Autos & Vehicles",
	"10": "Music",
	"15": "Pets & Animals",
	"17": "Sports",
	"18": "Short Movies",
	"19": "Travel & Events",
	"20": "Gaming",
	"21": "Videoblogging",
	"22": "People & Blogs",
	"23": "Comedy",
	"24": "Entertainment",
	"25": "News & Politics",
	"26": "Howto & Style",
	"27": "Education",
	"28": "Science & Technology",
	"29": "Nonprofits & Activism",
	"30": "Movies",
	"31": "Anime/Animation",
	"32": "Action/Adventure",
	"33": "Classics",
	"34": "Comedy",
	"35": "Documentary",
	"36": "Drama",
	"37": "Family",
	"38": "Foreign",
	"39": "Horror",
	"40": "Sci-Fi/Fantasy",
	"41": "Thriller",
	"42": "Shorts",
	"43": "Shows",
	"44": "Trailers",
}

// youtubeInterestKeywords is the fixed keyword set a channel tag must match
// to count as a category.
var youtubeInterestKeywords = []string{
	"gaming", "music", "tech", "technology", "fashion", "beauty", "fitness",
	"food", "cooking", "travel", "education", "comedy", "science", "sports",
	"finance", "business", "review", "tutorial", "vlog", "lifestyle", "art",
}

// linkedInHeadlineCategories maps headline keywords to display categories.
var linkedInHeadlineCategories = []struct {
	Keyword  string
	Category string
}{
	{"developer", "Software Development"},
	{"engineer", "Engineering"},
	{"marketing", "Marketing"},
	{"designer", "Design"},
	{"founder", "Entrepreneurship"},
	{"ceo", "Executive Leadership"},
	{"consultant", "Consulting"},
	{"recruiter", "Talent Acquisition"},
	{"data", "Data & Analytics"},
	{"sales", "Sales"},
}

// ExtractCategories derives display category tags from a raw payload using
// the same per-platform heuristics the adapters apply. At most five entries,
// no duplicates, direct-field categories first.
func ExtractCategories(payload domain.RawPayload, platformName string) []string {
	platform, ok := domain.ParsePlatform(platformName)
	if !ok || payload == nil {
		return []string{}
	}

	switch platform {
	case domain.PlatformInstagram:
		return extractInstagramCategories(payload, instagramMedia(payload))
	case domain.PlatformYouTube:
		return extractYouTubeCategories(unwrapYouTubeChannel(payload))
	case domain.PlatformLinkedIn:
		return extractLinkedInCategories(payload)
	}
	return []string{}
}

// extractInstagramCategories pulls the declared business category plus the
// three most frequent hashtags across recent post captions.
func extractInstagramCategories(payload domain.RawPayload, media []any) []string {
	categories := make([]string, 0, maxCategories)
	categories = append(categories,
		StringAt(payload, "category", "user_data.category"),
		StringAt(payload, "business_category_name", "user_data.business_category_name"),
	)
	categories = append(categories, topHashtags(media, 3)...)
	return dedupeCategories(categories)
}

// topHashtags counts hashtag occurrences across media captions and returns
// the limit most frequent ones, leading '#' stripped. Frequency ties keep
// first-discovered order.
func topHashtags(media []any, limit int) []string {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, item := range media {
		post, ok := item.(map[string]any)
		if !ok {
			continue
		}
		caption := StringAt(post, "caption", "caption.text")
		for _, tag := range hashtagPattern.FindAllString(caption, -1) {
			tag = strings.ToLower(strings.TrimPrefix(tag, "#"))
			if counts[tag] == 0 {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

// extractYouTubeCategories resolves the channel's categoryId through the
// fixed lookup table and adds up to two interest-matching tags.
func extractYouTubeCategories(channel domain.RawPayload) []string {
	categories := make([]string, 0, maxCategories)

	if id := StringAt(channel, "snippet.categoryId", "categoryId"); id != "" {
		if name, ok := youtubeCategoryNames[id]; ok {
			categories = append(categories, name)
		}
	}

	tags := ListAt(channel, "snippet.tags", "tags")
	matched := 0
	for _, raw := range tags {
		if matched >= 2 {
			break
		}
		tag := util.ToString(raw)
		if len(tag) <= 3 || strings.HasPrefix(tag, "#") {
			continue
		}
		lower := strings.ToLower(tag)
		for _, keyword := range youtubeInterestKeywords {
			if strings.Contains(lower, keyword) {
				categories = append(categories, tag)
				matched++
				break
			}
		}
	}

	return dedupeCategories(categories)
}

// extractLinkedInCategories combines the industry field, up to two declared
// specialties and headline keyword matches.
func extractLinkedInCategories(payload domain.RawPayload) []string {
	categories := make([]string, 0, maxCategories)
	categories = append(categories, StringAt(payload, "industry", "industryName"))

	specialties := ListAt(payload, "specialties")
	for i, raw := range specialties {
		if i >= 2 {
			break
		}
		categories = append(categories, util.ToString(raw))
	}

	headline := strings.ToLower(StringAt(payload, "headline", "localizedHeadline"))
	for _, entry := range linkedInHeadlineCategories {
		if strings.Contains(headline, entry.Keyword) {
			categories = append(categories, entry.Category)
		}
	}

	return dedupeCategories(categories)
}

// dedupeCategories cleans every tag (trim, strip special characters, collapse
// whitespace, title-case) and removes duplicates while preserving
// first-discovered order, capped at five entries.
func dedupeCategories(categories []string) []string {
	seen := make(map[string]struct{}, len(categories))
	result := make([]string, 0, maxCategories)

	for _, category := range categories {
		cleaned := cleanCategory(category)
		if cleaned == "" {
			continue
		}
		key := strings.ToLower(cleaned)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, cleaned)
		if len(result) == maxCategories {
			break
		}
	}
	return result
}

func cleanCategory(s string) string {
	s = util.StripSpecialChars(strings.TrimSpace(s))
	s = util.CollapseWhitespace(s)
	if s == "" {
		return ""
	}
	return util.TitleCaseWords(s)
}
