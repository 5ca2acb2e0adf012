package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/ralt/pacquery/internal/localdb"
	"github.com/ralt/pacquery/internal/models"
	"github.com/sirupsen/logrus"
)

// ANSI codes for the package listing, matching pacman's bold name and
// green version
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorGreen = "\033[32m"
)

// colorEnabled reports whether ANSI codes should be emitted: stdout is
// a TTY and NO_COLOR is unset
func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// runQuery dispatches query mode. With no targets it lists every
// installed package; with targets it looks each up by name. --owns,
// --search and --quiet select the ownership, substring-search and
// name-only variants.
func runQuery(cfg *models.Config, targets []string) error {
	db := localdb.New(filepath.Join(cfg.DBPath, "local"))

	switch {
	case cfg.Owns != "":
		return queryOwns(db, cfg.Owns)
	case cfg.Search != "":
		return querySearch(db, cfg.Search)
	case len(targets) == 0:
		return queryAll(cfg, db)
	default:
		return queryTargets(cfg, db, targets)
	}
}

// queryAll lists every installed package. --quiet lists names only,
// which skips manifest decompression entirely.
func queryAll(cfg *models.Config, db *localdb.Database) error {
	if cfg.Quiet {
		names, err := db.ListNames()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	if err := db.Populate(""); err != nil {
		return err
	}
	for _, name := range db.Names() {
		entry, _ := db.Get(name)
		printPackageLine(&entry.Desc)
	}
	return nil
}

// queryTargets looks up each named package
func queryTargets(cfg *models.Config, db *localdb.Database, targets []string) error {
	for _, name := range targets {
		entry, err := db.Lookup(name)
		if err != nil {
			return err
		}

		switch {
		case cfg.List:
			for _, f := range entry.Files {
				fmt.Printf("%s %s\n", entry.Desc.Name, f.Path)
			}
		case cfg.Check:
			problems, err := localdb.CheckFiles(entry, cfg.Root)
			if err != nil {
				return err
			}
			for _, p := range problems {
				logrus.Warnf("%s: %s: %s", entry.Desc.Name, p.Path, p.Detail)
			}
			fmt.Printf("%s %s: %d total files, %d altered\n",
				entry.Desc.Name, entry.Desc.Version, len(entry.Files), len(problems))
		default:
			printPackageLine(&entry.Desc)
		}
	}
	return nil
}

// querySearch bulk-populates the cache with every package whose store
// directory name contains the term, then lists the matches
func querySearch(db *localdb.Database, term string) error {
	if err := db.Populate(term); err != nil {
		return err
	}
	names := db.Names()
	if len(names) == 0 {
		return fmt.Errorf("no installed package matches %q", term)
	}
	for _, name := range names {
		entry, _ := db.Get(name)
		printPackageLine(&entry.Desc)
	}
	return nil
}

// queryOwns reports which installed package owns the given file. The
// match is exact, so the whole store is populated first.
func queryOwns(db *localdb.Database, path string) error {
	if err := db.Populate(""); err != nil {
		return err
	}
	for _, name := range db.Names() {
		entry, _ := db.Get(name)
		if entry.Owns(path) {
			fmt.Printf("%s is owned by %s %s\n", path, entry.Desc.Name, entry.Desc.Version)
			return nil
		}
	}
	return fmt.Errorf("no package owns %s", path)
}

func printPackageLine(rec *models.PackageRecord) {
	if colorEnabled() {
		fmt.Printf("%s%s%s %s%s%s\n",
			colorBold, rec.Name, colorReset,
			colorGreen, rec.Version, colorReset)
		return
	}
	fmt.Printf("%s %s\n", rec.Name, rec.Version)
}
