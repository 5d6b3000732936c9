package stage

import (
	"context"
	"path/filepath"

	"git.home.luguber.info/inful/markupdown/internal/workspace"
)

// AssetDirs names the asset directories copied next to the rendered pages
// and the files taken from each.
var AssetDirs = []struct {
	Dir      string
	Patterns []string
}{
	{Dir: "css", Patterns: []string{"*.css"}},
	{Dir: "img", Patterns: []string{"*.{png,jpg,jpeg}"}},
	{Dir: "js", Patterns: []string{"*.js"}},
}

// Assets copies css, img and js files from the project root into the same
// directories of ws. Missing asset directories are skipped.
func Assets(ctx context.Context, ws *workspace.Workspace, projectDir string) ([]string, error) {
	var staged []string
	for _, a := range AssetDirs {
		files, err := Stage(ctx, ws, Options{
			SourceDir: filepath.Join(projectDir, a.Dir),
			Patterns:  a.Patterns,
			Prefix:    a.Dir,
		})
		if err != nil {
			return staged, err
		}
		staged = append(staged, files...)
	}
	return staged, nil
}
