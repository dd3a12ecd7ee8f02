package source

import "regexp"

// namespacePattern matches identifiers such as "Talk:Go", "Special:Random"
// or "Template_talk:Infobox": one uppercase letter, then lowercase letters
// or underscores, then a colon.
var namespacePattern = regexp.MustCompile(`^[A-Z][a-z_]*:`)

// IsNamespaced reports whether id names an administrative page.
func IsNamespaced(id string) bool {
	return namespacePattern.MatchString(id)
}

// FilterNamespaces returns links without namespaced identifiers, in order.
func FilterNamespaces(links []string) []string {
	out := make([]string, 0, len(links))
	for _, link := range links {
		if IsNamespaced(link) {
			continue
		}
		out = append(out, link)
	}
	return out
}
