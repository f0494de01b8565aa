package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"  _            _                _       ", "#818cf8"},
	{" | |_ __ _ ___| | ____ _  __ _| |_ ___ ", "#a78bfa"},
	{" | __/ _` / __| |/ / _` |/ _` | __/ _ \\", "#c084fc"},
	{" | || (_| \\__ \\   < (_| | (_| | ||  __/", "#e879f9"},
	{"  \\__\\__,_|___/_|\\_\\__, |\\__,_|\\__\\___|", "#f472b6"},
	{"                   |___/                ", "#fb7185"},
}

// PrintBanner writes the taskgate banner to w, coloured for the terminal profile.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, termenv.String("  "+version).Faint())
	}
	fmt.Fprintln(w)
}
