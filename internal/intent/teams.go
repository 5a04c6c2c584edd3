package intent

import (
	"regexp"
	"sort"
	"strings"
)

// Team abbreviations recognized in queries. Matching is case-sensitive so
// that short codes like NO and LA never fire on ordinary words.
var teamAbbrs = map[string]bool{
	"ARI": true, "ATL": true, "BAL": true, "BUF": true, "CAR": true,
	"CHI": true, "CIN": true, "CLE": true, "DAL": true, "DEN": true,
	"DET": true, "GB": true, "HOU": true, "IND": true, "JAX": true,
	"KC": true, "LA": true, "LAC": true, "LV": true, "MIA": true,
	"MIN": true, "NE": true, "NO": true, "NYG": true, "NYJ": true,
	"PHI": true, "PIT": true, "SEA": true, "SF": true, "TB": true,
	"TEN": true, "WAS": true,
}

// Nickname stems mapped to abbreviations. Stems are singular; matching
// tolerates a trailing "s".
var teamNicknames = map[string]string{
	"chief":     "KC",
	"niner":     "SF",
	"49er":      "SF",
	"raven":     "BAL",
	"bill":      "BUF",
	"cowboy":    "DAL",
	"eagle":     "PHI",
	"lion":      "DET",
	"dolphin":   "MIA",
	"packer":    "GB",
	"bengal":    "CIN",
	"brown":     "CLE",
	"steeler":   "PIT",
	"texan":     "HOU",
	"colt":      "IND",
	"jaguar":    "JAX",
	"jag":       "JAX",
	"titan":     "TEN",
	"bronco":    "DEN",
	"raider":    "LV",
	"charger":   "LAC",
	"ram":       "LA",
	"seahawk":   "SEA",
	"cardinal":  "ARI",
	"saint":     "NO",
	"falcon":    "ATL",
	"panther":   "CAR",
	"buccaneer": "TB",
	"buc":       "TB",
	"bear":      "CHI",
	"viking":    "MIN",
	"giant":     "NYG",
	"jet":       "NYJ",
	"commander": "WAS",
	"patriot":   "NE",
	"pat":       "NE",
}

var (
	nicknameRe = compileNicknameRe()
	abbrRe     = compileAbbrRe()
)

func compileNicknameRe() *regexp.Regexp {
	stems := make([]string, 0, len(teamNicknames))
	for stem := range teamNicknames {
		stems = append(stems, regexp.QuoteMeta(stem))
	}
	// Longest-first so "buccaneer" wins over "buc"
	sort.Slice(stems, func(i, j int) bool { return len(stems[i]) > len(stems[j]) })
	return regexp.MustCompile(`(?i)\b(` + strings.Join(stems, "|") + `)s?\b`)
}

func compileAbbrRe() *regexp.Regexp {
	abbrs := make([]string, 0, len(teamAbbrs))
	for abbr := range teamAbbrs {
		abbrs = append(abbrs, abbr)
	}
	sort.Slice(abbrs, func(i, j int) bool { return len(abbrs[i]) > len(abbrs[j]) })
	return regexp.MustCompile(`\b(` + strings.Join(abbrs, "|") + `)\b`)
}

// NormalizeTeam maps a team mention (nickname or abbreviation, any case for
// nicknames) to its canonical abbreviation. Returns "" if unrecognized.
func NormalizeTeam(mention string) string {
	trimmed := strings.TrimSpace(mention)
	if teamAbbrs[strings.ToUpper(trimmed)] {
		return strings.ToUpper(trimmed)
	}
	stem := strings.ToLower(trimmed)
	if abbr, ok := teamNicknames[stem]; ok {
		return abbr
	}
	if abbr, ok := teamNicknames[strings.TrimSuffix(stem, "s")]; ok {
		return abbr
	}
	return ""
}

type teamMention struct {
	abbr  string
	index int
}

// FindTeams returns the canonical abbreviations of all team mentions in the
// query, in order of appearance.
func FindTeams(query string) []string {
	mentions := []teamMention{}

	for _, loc := range nicknameRe.FindAllStringSubmatchIndex(query, -1) {
		if abbr := NormalizeTeam(query[loc[2]:loc[3]]); abbr != "" {
			mentions = append(mentions, teamMention{abbr: abbr, index: loc[0]})
		}
	}
	for _, loc := range abbrRe.FindAllStringSubmatchIndex(query, -1) {
		mentions = append(mentions, teamMention{abbr: query[loc[2]:loc[3]], index: loc[0]})
	}

	sort.Slice(mentions, func(i, j int) bool { return mentions[i].index < mentions[j].index })

	teams := make([]string, 0, len(mentions))
	for _, m := range mentions {
		// Same team mentioned twice in a row adds nothing
		if len(teams) > 0 && teams[len(teams)-1] == m.abbr {
			continue
		}
		teams = append(teams, m.abbr)
	}
	return teams
}
