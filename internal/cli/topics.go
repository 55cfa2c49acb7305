package cli

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed docs/*.md
var topicFiles embed.FS

// newTopicsCmd exposes the embedded long-form docs: `shellstrap topics`
// lists them, `shellstrap topics <name>` renders one.
func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics [topic]",
		Short: "Show long-form help topics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := topicNames()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				cmd.Println("Available topics:")
				for _, name := range names {
					cmd.Printf("  %s\n", name)
				}
				return nil
			}

			content, err := topicFiles.ReadFile(path.Join("docs", args[0]+".md"))
			if err != nil {
				return fmt.Errorf("unknown topic %q (try `shellstrap topics`)", args[0])
			}

			cmd.Print(renderMarkdown(string(content)))
			return nil
		},
	}
}

func topicNames() ([]string, error) {
	entries, err := fs.ReadDir(topicFiles, "docs")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(names)
	return names, nil
}

// renderMarkdown renders with glamour, falling back to the raw text when
// the terminal cannot display styled output.
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
