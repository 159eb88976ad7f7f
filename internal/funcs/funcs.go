package funcs

import (
	"strings"
	"text/template"
	"time"
)

var TemplateFuncs = template.FuncMap{
	"now":        time.Now,
	"formatTime": formatTime,
	"upper":      strings.ToUpper,
	"join":       strings.Join,
}

func formatTime(format string, t time.Time) string {
	return t.Format(format)
}
