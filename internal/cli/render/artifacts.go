package render

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/zkcult/stakedeploy/internal/usecase"
)

// ArtifactsRenderer renders the artifact index
type ArtifactsRenderer struct {
	out         io.Writer
	projectRoot string
}

// NewArtifactsRenderer creates a new artifacts renderer
func NewArtifactsRenderer(out io.Writer, projectRoot string) *ArtifactsRenderer {
	return &ArtifactsRenderer{out: out, projectRoot: projectRoot}
}

// RenderArtifacts lists deployable contracts with their source and artifact file
func (r *ArtifactsRenderer) RenderArtifacts(result *usecase.ListArtifactsResult) error {
	if len(result.Artifacts) == 0 {
		fmt.Fprintf(r.out, "No deployable artifacts found in %s (run the compile step first)\n", r.relative(result.BuildDir))
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"Contract", "Source", "Artifact"})
	for _, contract := range result.Artifacts {
		t.AppendRow(table.Row{
			color.New(color.Bold).Sprint(contract.Name),
			contract.SourceName,
			color.New(color.Faint).Sprint(r.relative(contract.ArtifactPath)),
		})
	}

	fmt.Fprintf(r.out, "Artifacts in %s:\n\n", r.relative(result.BuildDir))
	fmt.Fprintln(r.out, t.Render())
	return nil
}

func (r *ArtifactsRenderer) relative(path string) string {
	if r.projectRoot == "" {
		return path
	}
	if rel, err := filepath.Rel(r.projectRoot, path); err == nil {
		return rel
	}
	return path
}
