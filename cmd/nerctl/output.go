package main

import (
	"fmt"
	"io"
	"ner-lab/domain/ner"
	"ner-lab/infrastructure/storage"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

var tagColours = map[string]color.Color{
	"PERSON":       color.FgCyan,
	"PERS":         color.FgCyan,
	"LOCATION":     color.FgGreen,
	"LOC":          color.FgGreen,
	"ORGANIZATION": color.FgMagenta,
	"ORG":          color.FgMagenta,
}

func colourTag(tag string, colours bool) string {
	if !colours {
		return tag
	}
	c, ok := tagColours[tag]
	if !ok {
		c = color.FgYellow
	}
	return c.Render(tag)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

// renderTokens prints one row per tagged token followed by a per-tag summary.
func renderTokens(w io.Writer, tokens []ner.TaggedToken, colours bool) {
	if len(tokens) == 0 {
		fmt.Fprintln(w, "No entities found")
		return
	}

	table := newTable(w, []string{"Tag", "Text"})
	for _, token := range tokens {
		table.Append([]string{colourTag(token.Tag, colours), token.Text})
	}
	table.Render()

	entities := ner.Entities(tokens)
	tags := make([]string, 0, len(entities))
	for tag := range entities {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	fmt.Fprintf(w, "\n%s entities:", humanize.Comma(int64(len(tokens))))
	for _, tag := range tags {
		fmt.Fprintf(w, " %s=%d", colourTag(tag, colours), len(entities[tag]))
	}
	fmt.Fprintln(w)
}

func renderHits(w io.Writer, hits []storage.EntityHit, colours bool) {
	if len(hits) == 0 {
		fmt.Fprintln(w, "No match")
		return
	}
	table := newTable(w, []string{"Document", "Tag", "Text"})
	for _, hit := range hits {
		table.Append([]string{hit.DocID, colourTag(hit.Tag, colours), hit.Text})
	}
	table.Render()
}

func renderCache(w io.Writer, entries []storage.CachedRecognition, total int) {
	table := newTable(w, []string{"Model", "Text", "Language", "Entities"})
	for _, entry := range entries {
		table.Append([]string{
			entry.Model,
			entry.TextHash[:min(12, len(entry.TextHash))],
			entry.Annotation.Language,
			humanize.Comma(int64(len(entry.Annotation.Tokens))),
		})
	}
	table.Render()
	fmt.Fprintf(w, "\n%s of %s cached recognitions\n",
		humanize.Comma(int64(len(entries))), humanize.Comma(int64(total)))
}
