package model

import "strings"

// Filter narrows a library listing. Zero values match everything.
type Filter struct {
	Search       string
	Types        []string
	Tags         []string
	RFLPCategory string
}

func (f Filter) Match(m *Model) bool {
	if f.RFLPCategory != "" && f.RFLPCategory != "all" && !strings.EqualFold(f.RFLPCategory, m.RFLPCategory) {
		return false
	}

	if len(f.Types) > 0 && !containsFold(f.Types, m.Type) {
		return false
	}

	if len(f.Tags) > 0 {
		matched := false
		for _, tag := range f.Tags {
			if containsFold(m.Tags, tag) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		if strings.Contains(strings.ToLower(m.Name), search) ||
			strings.Contains(strings.ToLower(m.Description), search) {
			return true
		}
		for _, tag := range m.Tags {
			if strings.Contains(strings.ToLower(tag), search) {
				return true
			}
		}
		return false
	}

	return true
}

func containsFold(values []string, v string) bool {
	for _, value := range values {
		if strings.EqualFold(value, v) {
			return true
		}
	}
	return false
}
