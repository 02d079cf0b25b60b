package capture

import (
	"bytes"
	"html/template"
	"strings"
)

// VideoElement is the rendering contract of an agent.
type VideoElement struct {
	Src         string `json:"src"`
	Poster      string `json:"poster,omitempty"`
	Preload     string `json:"preload"`
	Muted       bool   `json:"muted"`
	PlaysInline bool   `json:"playsInline"`
	Loop        bool   `json:"loop"`
}

var videoTemplate = template.Must(template.New("video").Parse(
	`<video src="{{.Src}}"{{if .Poster}} poster="{{.Poster}}"{{end}} preload="{{.Preload}}"` +
		`{{if .Muted}} muted{{end}}{{if .PlaysInline}} playsinline{{end}}{{if .Loop}} loop{{end}}></video>`,
))

// HTML renders the element.
func (v VideoElement) HTML() (string, error) {
	data := struct {
		Src         string
		Poster      interface{}
		Preload     string
		Muted       bool
		PlaysInline bool
		Loop        bool
	}{
		Src:         v.Src,
		Poster:      v.Poster,
		Preload:     v.Preload,
		Muted:       v.Muted,
		PlaysInline: v.PlaysInline,
		Loop:        v.Loop,
	}
	// Captured posters are JPEG data URLs, which the escaper rejects by default.
	if strings.HasPrefix(v.Poster, dataURLPrefix) {
		data.Poster = template.URL(v.Poster)
	}

	var buf bytes.Buffer
	if err := videoTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
