package utils

import "time"

// FormatTimestamp приводит время к виду для API:
// ISO-8601 в UTC с суффиксом "Z", без долей секунды.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format("2006-01-02T15:04:05") + "Z"
}
