package web

import (
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/zulandar/bookmarky/internal/tags"
)

var templateFuncs = template.FuncMap{
	"date":     formatDate,
	"datetime": formatDateTime,
	"ago":      timeAgo,
	"hours":    formatHours,
	"str":      derefString,
	"join":     tags.Join,
	"idstr":    idString,
}

func formatDate(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return "—"
		}
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil {
			return "—"
		}
		return formatDate(*t)
	}
	return "—"
}

func formatDateTime(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return "—"
		}
		return t.Format("2006-01-02 15:04")
	case *time.Time:
		if t == nil {
			return "—"
		}
		return formatDateTime(*t)
	}
	return "—"
}

// timeAgo renders a coarse relative time like "5m ago".
func timeAgo(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func idString(id *uint) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}
