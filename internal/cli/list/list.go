package list

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/sprout/internal/core/deps"
	"github.com/nightconcept/sprout/internal/core/hasher"
	"github.com/nightconcept/sprout/internal/core/lockfile"
)

// File states reported for generated files.
const (
	statusOK       = "ok"
	statusModified = "modified"
	statusMissing  = "missing"
)

// fileDisplayInfo holds what is shown for one generated file.
type fileDisplayInfo struct {
	Path   string
	Hash   string
	Status string
}

// ListCmd defines the structure for the 'list' command.
var ListCmd = &cli.Command{
	Name:    "list",
	Aliases: []string{"ls"},
	Usage:   "Displays the recorded dependencies and the state of generated files.",
	Action: func(c *cli.Context) error {
		lf, err := lockfile.Load(".")
		if err != nil {
			if os.IsNotExist(err) {
				return cli.Exit(fmt.Sprintf("Error: %s not found. Run 'sprout init' to generate a project.", lockfile.LockfileName), 1)
			}
			return cli.Exit(fmt.Sprintf("Error loading %s: %v", lockfile.LockfileName, err), 1)
		}

		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}

		projectNameColor := color.New(color.FgMagenta, color.Bold, color.Underline).SprintFunc()
		projectPathColor := color.New(color.FgHiBlack, color.Bold, color.Underline).SprintFunc()
		headerColor := color.New(color.FgCyan, color.Bold).SprintFunc()
		depNameColor := color.New(color.FgWhite).SprintFunc()
		depConstraintColor := color.New(color.FgYellow).SprintFunc()
		pathColor := color.New(color.FgHiBlack).SprintFunc()
		statusColors := map[string]func(a ...interface{}) string{
			statusOK:       color.New(color.FgGreen).SprintFunc(),
			statusModified: color.New(color.FgYellow).SprintFunc(),
			statusMissing:  color.New(color.FgRed).SprintFunc(),
		}

		fmt.Printf("%s %s\n", projectNameColor(lf.Project.Name), projectPathColor(wd))
		fmt.Println()

		m := lf.Manifest()
		for _, section := range []struct {
			header string
			list   deps.List
		}{{"dependencies:", m.Runtime}, {"devDependencies:", m.Dev}} {
			fmt.Println(headerColor(section.header))
			if section.list.Len() == 0 {
				fmt.Println("(none)")
				continue
			}
			for _, d := range section.list.Items() {
				fmt.Printf("%s %s\n", depNameColor(d.Name), depConstraintColor(d.Constraint))
			}
		}

		fmt.Println(headerColor("files:"))
		files := fileStatuses(".", lf)
		if len(files) == 0 {
			fmt.Println("(none)")
			return nil
		}
		for _, f := range files {
			fmt.Printf("%s %s %s\n", f.Path, statusColors[f.Status](f.Status), pathColor(f.Hash))
		}
		return nil
	},
}

// fileStatuses compares every recorded file below root with its digest.
func fileStatuses(root string, lf *lockfile.Lockfile) []fileDisplayInfo {
	paths := make([]string, 0, len(lf.Files))
	for p := range lf.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make([]fileDisplayInfo, 0, len(paths))
	for _, p := range paths {
		info := fileDisplayInfo{Path: p, Hash: lf.Files[p].Hash, Status: statusOK}
		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(p)))
		switch {
		case os.IsNotExist(err):
			info.Status = statusMissing
		case err != nil:
			info.Status = statusMissing
			_, _ = fmt.Fprintf(os.Stderr, "Warning: could not check status of %s: %v\n", p, err)
		case !hasher.Matches(content, info.Hash):
			info.Status = statusModified
		}
		out = append(out, info)
	}
	return out
}
