package opensubtitles

import "fmt"

// Match is one record of a search answer, forwarded as the server sent it.
type Match map[string]any

// Field returns the named value rendered as text, or "" when absent.
func (m Match) Field(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func (m Match) SubDownloadLink() string { return m.Field("SubDownloadLink") }

func (m Match) ISO639() string { return m.Field("ISO639") }

func (m Match) LanguageName() string { return m.Field("LanguageName") }

func (m Match) SubFileName() string { return m.Field("SubFileName") }

func (m Match) MovieName() string { return m.Field("MovieName") }

// Link renders the match as a bulletin-board style download link.
func (m Match) Link() string {
	return fmt.Sprintf("[url=%s]%s[/url]", m.SubDownloadLink(), m.ISO639())
}
