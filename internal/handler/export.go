package handler

import (
	"fmt"
	"strings"

	"github.com/daybookhq/daybook/internal/domain"
)

// exportTimeLayout is ISO-8601 local date-time, no zone offset.
const exportTimeLayout = "2006-01-02T15:04:05"

// encodeDiaryExport renders the export document by hand so its shape stays
// stable across Go releases: a pretty-printed (2-space) JSON array whose
// elements carry exactly the keys id, title, content, mood, weather,
// createdAt, updatedAt in that order. Optional fields render as literal
// null, and strings are escaped only for backslash, quote, newline,
// carriage return, and tab.
func encodeDiaryExport(diaries []domain.Diary) string {
	var b strings.Builder
	b.WriteString("[\n")
	for i := range diaries {
		d := &diaries[i]
		b.WriteString("  {\n")
		fmt.Fprintf(&b, "    \"id\": %d,\n", d.ID)
		fmt.Fprintf(&b, "    \"title\": %s,\n", exportString(d.Title))
		fmt.Fprintf(&b, "    \"content\": %s,\n", exportString(&d.Content))
		fmt.Fprintf(&b, "    \"mood\": %s,\n", exportString(d.Mood))
		fmt.Fprintf(&b, "    \"weather\": %s,\n", exportString(d.Weather))
		fmt.Fprintf(&b, "    \"createdAt\": \"%s\",\n", d.CreatedAt.Format(exportTimeLayout))
		fmt.Fprintf(&b, "    \"updatedAt\": \"%s\"\n", d.UpdatedAt.Format(exportTimeLayout))
		b.WriteString("  }")
		if i < len(diaries)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("]")
	return b.String()
}

func exportString(value *string) string {
	if value == nil {
		return "null"
	}
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"\"", "\\\"",
		"\n", "\\n",
		"\r", "\\r",
		"\t", "\\t",
	)
	return "\"" + replacer.Replace(*value) + "\""
}
