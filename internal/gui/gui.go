// Package gui adapts the backup and restore drivers to a small Fyne
// window: source, repository and restore-target entries, Backup,
// Restore and Cancel buttons, and a progress bar plus status label fed
// by a ProgressSink implementation.
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/deepcfish/sexpack/internal/driver"
	"github.com/deepcfish/sexpack/internal/repo"
)

// widgetSink drives a widget.ProgressBar and a widget.Label from the
// driver's ProgressSink notifications. Fyne widget mutation must
// happen on the UI goroutine; callers run the driver on a background
// goroutine and Start/Progress/etc already dispatch through
// fyne.Do to stay on it.
type widgetSink struct {
	bar       *widget.ProgressBar
	status    *widget.Label
	cancelled bool
}

func (s *widgetSink) Start(total int, operation string) {
	fyne.Do(func() {
		s.bar.Max = float64(total)
		s.bar.SetValue(0)
		s.status.SetText(fmt.Sprintf("%s: 0/%d", operation, total))
	})
}

func (s *widgetSink) Progress(index, total int, path string) {
	fyne.Do(func() {
		s.bar.SetValue(float64(index))
		s.status.SetText(fmt.Sprintf("%d/%d: %s", index, total, path))
	})
}

func (s *widgetSink) Success(path string) {}

func (s *widgetSink) Failure(path string, err error) {
	fyne.Do(func() {
		s.status.SetText(fmt.Sprintf("failed: %s: %v", path, err))
	})
}

func (s *widgetSink) Skipped(path string, reason string) {}

func (s *widgetSink) Done(succeeded, failed, skipped int) {
	fyne.Do(func() {
		s.status.SetText(fmt.Sprintf("done: %d ok, %d failed, %d skipped", succeeded, failed, skipped))
	})
}

func (s *widgetSink) Cancel() { s.cancelled = true }

func (s *widgetSink) Cancelled() bool { return s.cancelled }

// Run builds and shows the window, blocking until it is closed.
func Run() {
	a := app.New()
	w := a.NewWindow("sexpack")

	sourceEntry := widget.NewEntry()
	sourceEntry.SetPlaceHolder("source directory")
	repoEntry := widget.NewEntry()
	repoEntry.SetPlaceHolder("repository directory")
	targetEntry := widget.NewEntry()
	targetEntry.SetPlaceHolder("restore target directory")

	bar := widget.NewProgressBar()
	status := widget.NewLabel("idle")
	sink := &widgetSink{bar: bar, status: status}

	backupBtn := widget.NewButton("Backup", func() {
		sink.cancelled = false
		go func() {
			r := repo.New(repoEntry.Text)
			_, _ = driver.Backup(sourceEntry.Text, r, nil, sink)
		}()
	})
	restoreBtn := widget.NewButton("Restore", func() {
		sink.cancelled = false
		go func() {
			r := repo.New(repoEntry.Text)
			_, _ = driver.Restore(r, targetEntry.Text, sink)
		}()
	})
	cancelBtn := widget.NewButton("Cancel", func() {
		sink.Cancel()
	})

	w.SetContent(container.NewVBox(
		sourceEntry,
		repoEntry,
		targetEntry,
		container.NewHBox(backupBtn, restoreBtn, cancelBtn),
		bar,
		status,
	))
	w.Resize(fyne.NewSize(420, 220))
	w.ShowAndRun()
}
