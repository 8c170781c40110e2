package resumeindex

import "strings"

// minBulletLength drops fragments too short to carry a verifiable claim
// (section headers, stray bullet glyphs).
const minBulletLength = 15

// Segment splits résumé text into ordered bullet candidates on hard
// line breaks, trims bullet glyphs and whitespace, and drops anything
// under minBulletLength. Order is preserved; this ordering is the tie
// break used when ranking top-k matches of equal similarity.
func Segment(text string) []Bullet {
	lines := strings.Split(text, "\n")
	bullets := make([]Bullet, 0, len(lines))
	idx := 0
	for _, line := range lines {
		cleaned := cleanLine(line)
		if len(cleaned) < minBulletLength {
			continue
		}
		bullets = append(bullets, Bullet{Index: idx, Text: cleaned})
		idx++
	}
	return bullets
}

func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "•◦▪-–—*·")
	return strings.TrimSpace(line)
}
