package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Entity extraction runs independent regex passes over the raw query text.
// Each pattern contributes at most one parameter; team mentions are handled
// separately so that two mentions become team1/team2.
var (
	downRe     = regexp.MustCompile(`(?i)\b(\d)(?:st|nd|rd|th)\s*(?:down|and|&)`)
	distanceRe = regexp.MustCompile(`(?i)(?:and|&)\s*(\d{1,2})\b`)
	seasonRe   = regexp.MustCompile(`\b(20\d{2})\b`)
	statTypeRe = regexp.MustCompile(`(?i)\b(rushing|passing|receiving|offense|defense|epa|success)\b`)
	positionRe = regexp.MustCompile(`(?i)\b(QB|RB|WR|TE|quarterbacks?|running\s?backs?|receivers?|tight\s?ends?)\b`)
	countRe    = regexp.MustCompile(`(?i)\btop\s+(\d{1,2})\b`)
	yardlineRe = regexp.MustCompile(`(?i)\b(?:at|from|on)\s+the\s+(\d{1,2})(?:\s*yard\s*line)?\b`)
	boxRe      = regexp.MustCompile(`(?i)\b(\d)\s*(?:defenders?|men)\s+in\s+the\s+box\b`)
)

var positionAliases = map[string]string{
	"quarterback":  "QB",
	"runningback":  "RB",
	"running back": "RB",
	"receiver":     "WR",
	"tightend":     "TE",
	"tight end":    "TE",
}

// ExtractEntities pulls typed parameters out of a raw query. Ambiguous
// distance phrases resolve deterministically: "midfield" is always field
// position 50.
func ExtractEntities(query string) map[string]interface{} {
	params := map[string]interface{}{}

	teams := FindTeams(query)
	switch {
	case len(teams) >= 2:
		params["team1"] = teams[0]
		params["team2"] = teams[1]
	case len(teams) == 1:
		params["team"] = teams[0]
	}

	if m := downRe.FindStringSubmatch(query); m != nil {
		if down, err := strconv.Atoi(m[1]); err == nil && down >= 1 && down <= 4 {
			params["down"] = down
		}
	}
	if m := distanceRe.FindStringSubmatch(query); m != nil {
		if dist, err := strconv.Atoi(m[1]); err == nil && dist >= 1 {
			params["distance"] = dist
		}
	}
	if m := seasonRe.FindStringSubmatch(query); m != nil {
		if season, err := strconv.Atoi(m[1]); err == nil {
			params["season"] = season
		}
	}
	if m := statTypeRe.FindStringSubmatch(query); m != nil {
		params["stat_type"] = strings.ToLower(m[1])
	}
	if m := positionRe.FindStringSubmatch(query); m != nil {
		params["position"] = normalizePosition(m[1])
	}
	if m := countRe.FindStringSubmatch(query); m != nil {
		if count, err := strconv.Atoi(m[1]); err == nil && count > 0 {
			params["count"] = count
		}
	}
	if m := yardlineRe.FindStringSubmatch(query); m != nil {
		if yl, err := strconv.Atoi(m[1]); err == nil && yl >= 1 && yl <= 99 {
			params["yardline"] = yl
		}
	}
	if strings.Contains(strings.ToLower(query), "midfield") {
		params["yardline"] = 50
	}
	if m := boxRe.FindStringSubmatch(query); m != nil {
		if box, err := strconv.Atoi(m[1]); err == nil {
			params["defenders_in_box"] = box
		}
	}

	return params
}

func normalizePosition(raw string) string {
	lower := strings.ToLower(strings.TrimSuffix(raw, "s"))
	lower = strings.TrimSpace(lower)
	if pos, ok := positionAliases[lower]; ok {
		return pos
	}
	return strings.ToUpper(raw)
}
