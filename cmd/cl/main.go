package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/context_loader/pkg/config"
	"github.com/Dicklesworthstone/context_loader/pkg/export"
	"github.com/Dicklesworthstone/context_loader/pkg/tokens"
	"github.com/Dicklesworthstone/context_loader/pkg/ui"
	"github.com/Dicklesworthstone/context_loader/pkg/version"
	"github.com/Dicklesworthstone/context_loader/pkg/watch"
	"github.com/Dicklesworthstone/context_loader/pkg/workspace"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"golang.org/x/term"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	concatFile := flag.String("concat", "", "Write the selected files as a concatenated bundle to a file and exit")
	stdoutFlag := flag.Bool("stdout", false, "Write the concatenated bundle to stdout and exit")
	robotTree := flag.Bool("robot-tree", false, "Output the workspace tree as JSON for AI agents and exit")
	noWatch := flag.Bool("no-watch", false, "Disable live reload on filesystem changes")
	estimatorFlag := flag.String("estimator", "", "Token estimator (CharDiv4 or Cl100k)")
	flag.Parse()

	if *help {
		fmt.Println("Usage: cl [options] [workspace]")
		fmt.Println("\nA TUI for picking workspace files and bundling them for LLM context.")
		fmt.Println("With no workspace argument, cl uses the enclosing git repository,")
		fmt.Println("or prompts with recently opened workspaces.")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("cl %s\n", version.Version)
		os.Exit(0)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load settings: %v\n", err)
		settings = &config.Settings{}
	}

	estimator := tokens.DefaultEstimator
	if settings.Estimator != "" {
		if e, err := tokens.ParseEstimator(settings.Estimator); err == nil {
			estimator = e
		} else {
			fmt.Fprintf(os.Stderr, "Warning: %v, using %s\n", err, estimator)
		}
	}
	if *estimatorFlag != "" {
		e, err := tokens.ParseEstimator(*estimatorFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v (valid: %v)\n", err, tokens.AllEstimators())
			os.Exit(1)
		}
		estimator = e
	}

	root, err := resolveRoot(flag.Arg(0), settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	headless := *concatFile != "" || *stdoutFlag || *robotTree

	ctx := context.Background()
	session, err := workspace.Open(ctx, root, workspace.Options{
		Estimator:     estimator,
		CountTokens:   !headless,
		EnsureIgnored: !headless,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening workspace: %v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	if headless {
		if err := runHeadless(session, *robotTree, *stdoutFlag, *concatFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	settings.AddRecentWorkspace(session.Root())
	if err := settings.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save settings: %v\n", err)
	}

	var watcher *watch.Watcher
	if !*noWatch {
		watcher, err = watch.New(session.Root())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: live reload disabled: %v\n", err)
		} else if err := watcher.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: live reload disabled: %v\n", err)
			watcher.Stop()
			watcher = nil
		}
	}
	if watcher != nil {
		defer watcher.Stop()
	}

	m := ui.NewModel(session, watcher, lipgloss.DefaultRenderer())
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running context loader: %v\n", err)
		os.Exit(1)
	}
}

// runHeadless performs the non-interactive modes against the freshly
// opened session, whose selection is seeded from the workspace
// .gitignore.
func runHeadless(session *workspace.Session, robotTree, toStdout bool, concatFile string) error {
	if robotTree {
		out, err := json.MarshalIndent(session.Forest(), "", "  ")
		if err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	paths := session.SelectedPaths()
	if len(paths) == 0 {
		return fmt.Errorf("no files selected (workspace has no .gitignore, or everything is ignored)")
	}
	text, err := export.ConcatFiles(paths)
	if err != nil {
		return err
	}
	if toStdout {
		fmt.Print(text)
		return nil
	}
	if err := os.WriteFile(concatFile, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", concatFile, err)
	}
	fmt.Printf("Wrote %d files (%d bytes) to %s\n", len(paths), len(text), concatFile)
	return nil
}

// resolveRoot picks the workspace root: explicit argument, then the
// enclosing git repository, then an interactive prompt seeded with
// recently opened workspaces.
func resolveRoot(arg string, settings *config.Settings) (string, error) {
	if arg != "" {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return "", err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", err
		}
		if !info.IsDir() {
			return "", fmt.Errorf("%s is not a directory", abs)
		}
		return abs, nil
	}

	if root, ok := config.DetectWorkspace(); ok {
		return root, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no workspace given and stdin is not a terminal (pass a workspace path)")
	}
	return promptWorkspace(settings)
}

const browseOption = "Somewhere else..."

// promptWorkspace asks the user to pick from recent workspaces that
// still exist on disk, falling back to a free-form path prompt.
func promptWorkspace(settings *config.Settings) (string, error) {
	var recents []string
	for _, p := range settings.RecentWorkspaces {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			recents = append(recents, p)
		}
	}

	if len(recents) > 0 {
		choice := recents[0]
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Open workspace").
				Options(huh.NewOptions(append(recents, browseOption)...)...).
				Value(&choice),
		))
		if err := form.Run(); err != nil {
			return "", err
		}
		if choice != browseOption {
			return choice, nil
		}
	}

	var path string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Workspace directory").
			Placeholder("/path/to/project").
			Validate(func(s string) error {
				info, err := os.Stat(s)
				if err != nil {
					return err
				}
				if !info.IsDir() {
					return fmt.Errorf("not a directory")
				}
				return nil
			}).
			Value(&path),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return filepath.Abs(path)
}
