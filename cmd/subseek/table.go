package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"subseek/internal/language"
	"subseek/internal/opensubtitles"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment, rounded bool) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	if rounded {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func renderMatchTable(matches []opensubtitles.Match, rounded bool) string {
	headers := []string{"Lang", "Language", "Movie", "File", "Link"}
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		code := matchLanguageCode(m)
		name := m.LanguageName()
		if name == "" {
			name = language.DisplayName(code)
		}
		rows = append(rows, []string{code, name, m.MovieName(), m.SubFileName(), m.SubDownloadLink()})
	}
	return renderTable(headers, rows, nil, rounded)
}

// matchLanguageCode picks a two-letter code for the Lang column. Records that
// only carry the three-letter SubLanguageID are folded onto the same form;
// anything unrecognized is shown as sent.
func matchLanguageCode(m opensubtitles.Match) string {
	for _, raw := range []string{m.ISO639(), m.Field("SubLanguageID")} {
		if code := language.ToISO2(raw); code != "" {
			return code
		}
	}
	return m.ISO639()
}
