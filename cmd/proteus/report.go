package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/prototropic/proteus"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)
	propertyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))
	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)
)

func newReportCmd() *cobra.Command {
	var styled bool
	var watch bool
	cmd := &cobra.Command{
		Use:   "report <glob>...",
		Short: "Print hierarchy reports for matching YAML documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandGlobs(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no files match %v", args)
			}
			out := cmd.OutOrStdout()
			if err := reportFiles(out, files, styled); err != nil {
				return err
			}
			if watch {
				return watchFiles(out, files, styled)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&styled, "style", false, "colorize the report")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-render when a matched file changes")
	return cmd
}

func expandGlobs(patterns []string) ([]string, error) {
	var files []string
	seen := map[string]bool{}
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

func reportFiles(out io.Writer, files []string, styled bool) error {
	for _, file := range files {
		if err := reportFile(out, file, styled); err != nil {
			return err
		}
	}
	return nil
}

func reportFile(out io.Writer, file string, styled bool) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	ents, err := proteus.NewLoader(slog.Default()).Load(f, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	slog.Debug("loaded hierarchy", slog.String("file", file), slog.Int("entities", len(ents)))

	var sink proteus.Sink = proteus.WriterSink{W: out}
	if styled {
		sink = styledSink{w: out}
	}
	banner := fmt.Sprintf("-- %s --", file)
	if styled {
		banner = fileStyle.Render(banner)
	}
	fmt.Fprintln(out, banner)
	return hierarchyRoot(ents).Report(sink)
}

// hierarchyRoot finds the document's top entity, the one with no super.
func hierarchyRoot(ents map[string]*proteus.Entity) *proteus.Entity {
	for _, e := range ents {
		if e.Super() == nil {
			return e
		}
	}
	// Loaded under a parent; any entity's chain reaches the top.
	for _, e := range ents {
		return e
	}
	return nil
}

func watchFiles(out io.Writer, files []string, styled bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	for _, file := range files {
		if err := watcher.Add(file); err != nil {
			return fmt.Errorf("watch %s: %w", file, err)
		}
	}
	slog.Info("watching for changes", slog.Int("files", len(files)))
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			switch classifyEvent(event) {
			case watchSkip:
				continue
			case watchRewatch:
				// Editors that save via rename replace the inode, which
				// drops the watch on the old one.
				if err := watcher.Add(event.Name); err != nil {
					slog.Warn("re-watch failed", slog.String("file", event.Name), slog.String("error", err.Error()))
					continue
				}
			}
			slog.Debug("file changed", slog.String("file", event.Name))
			if err := reportFile(out, event.Name, styled); err != nil {
				slog.Error("report failed", slog.String("file", event.Name), slog.String("error", err.Error()))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", slog.String("error", err.Error()))
		}
	}
}

// watchAction is what the watch loop does with one event.
type watchAction int

const (
	watchSkip watchAction = iota
	// watchRender re-renders the changed file.
	watchRender
	// watchRewatch re-adds the path before rendering; the watched inode
	// is gone.
	watchRewatch
)

// classifyEvent maps a watch event to the loop's action.
func classifyEvent(event fsnotify.Event) watchAction {
	switch {
	case event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove):
		return watchRewatch
	case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
		return watchRender
	}
	return watchSkip
}

// styledSink colorizes report lines by shape.
type styledSink struct {
	w io.Writer
}

func (s styledSink) Line(text string) {
	switch {
	case strings.HasPrefix(text, "== "):
		fmt.Fprintln(s.w, headerStyle.Render(text))
	case strings.HasPrefix(text, "  property "):
		fmt.Fprintln(s.w, propertyStyle.Render(text))
	default:
		fmt.Fprintln(s.w, text)
	}
}
