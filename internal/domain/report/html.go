package report

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/scenesnap/scenesnap/internal/domain/timecode"
	"github.com/scenesnap/scenesnap/internal/types"
)

//go:embed templates/report.html.tmpl templates/styles.css templates/audio_controls.js
var assets embed.FS

var pageTmpl = template.Must(template.ParseFS(assets, "templates/report.html.tmpl"))

type pageData struct {
	Title          string
	AudioAvailable bool
	Events         []eventView
}

type eventView struct {
	Seq   int
	Clock string
	Image string
	Text  string
	Audio string
}

// WriteHTML renders the combined report page plus its static assets into
// the directory of htmlPath. The player script is only written when at
// least one event carries an audio clip.
func WriteHTML(htmlPath, videoName string, events []types.ReportEvent) error {
	data := pageData{Title: "Report: " + videoName}
	for _, ev := range events {
		v := eventView{
			Seq:   ev.Snapshot.Seq,
			Clock: timecode.FormatClock(ev.Snapshot.Seconds),
			Image: filepath.ToSlash(ev.Snapshot.Image),
		}
		if ev.Transcript != nil {
			v.Text = strings.TrimSpace(ev.Transcript.Text)
			if ev.Transcript.AudioFile != "" {
				v.Audio = filepath.ToSlash(ev.Transcript.AudioFile)
				data.AudioAvailable = true
			}
		}
		data.Events = append(data.Events, v)
	}

	dir := filepath.Dir(htmlPath)
	if err := copyAsset("templates/styles.css", filepath.Join(dir, "styles.css")); err != nil {
		return err
	}
	if data.AudioAvailable {
		if err := copyAsset("templates/audio_controls.js", filepath.Join(dir, "audio_controls.js")); err != nil {
			return err
		}
	}

	f, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()
	if err := pageTmpl.Execute(f, data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return f.Close()
}

func copyAsset(name, dst string) error {
	b, err := assets.ReadFile(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, b, 0o644); err != nil {
		return fmt.Errorf("write asset %s: %w", filepath.Base(dst), err)
	}
	return nil
}
