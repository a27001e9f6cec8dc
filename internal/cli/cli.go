// Package cli implements the command-line surface: flag parsing via
// pflag, optional config-file defaults via viper, and dispatch into
// the repository engine, the backup/restore drivers, and the package
// codec. It is a thin shell over the core — none of the taxonomy or
// round-trip guarantees live here.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/deepcfish/sexpack/internal/backuplog"
	"github.com/deepcfish/sexpack/internal/driver"
	"github.com/deepcfish/sexpack/internal/filter"
	"github.com/deepcfish/sexpack/internal/pkgfile"
	"github.com/deepcfish/sexpack/internal/probe"
	"github.com/deepcfish/sexpack/internal/repo"
)

// Run parses args (excluding the program name) and executes the
// requested subcommand, returning the process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	cmd := args[0]
	rest := args[1:]

	var err error
	switch cmd {
	case "backup":
		err = runBackup(rest)
	case "restore":
		err = runRestore(rest)
	case "export":
		err = runExport(rest)
	case "import":
		err = runImport(rest)
	case "-h", "--help", "help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "sexpack: unknown command %q\n", cmd)
		printUsage()
		return 1
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "sexpack: %v\n", err)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: sexpack <command> [flags]

commands:
  backup  <source> <repo>   capture a directory tree into a repository
  restore <repo> <target>   reconstruct a directory tree from a repository
  export  <repo> <package>  serialise a repository into a package file
  import  <package> <repo>  rehydrate a repository from a package file`)
}

func applyLogLevel(cfg Config, flagLevel string) {
	level := cfg.Logging.Level
	if flagLevel != "" {
		level = flagLevel
	}
	if level != "" {
		backuplog.SetLevel(level)
	}
}

func runBackup(args []string) error {
	fs := pflag.NewFlagSet("backup", pflag.ContinueOnError)
	configPath := fs.String("config", "", "optional config file")
	logLevel := fs.String("log-level", "", "log level override (debug|info|warn|error)")
	includes := fs.StringArray("include", nil, "path pattern to include (repeatable)")
	excludes := fs.StringArray("exclude", nil, "path pattern to exclude (repeatable)")
	types := fs.StringArray("type", nil, "file type to allow (repeatable)")
	nameContains := fs.StringArray("name-contains", nil, "filename substring to require (repeatable)")
	mtimeAfter := fs.Int64("mtime-after", 0, "minimum mtime, unix seconds (0 = unset)")
	mtimeBefore := fs.Int64("mtime-before", 0, "maximum mtime, unix seconds (0 = unset)")
	minSize := fs.Int64("min-size", -1, "minimum size in bytes (-1 = unset)")
	maxSize := fs.Int64("max-size", -1, "maximum size in bytes (-1 = unset)")
	uid := fs.Int64("uid", -1, "required owner uid (-1 = unset)")
	gid := fs.Int64("gid", -1, "required owner gid (-1 = unset)")
	storeSymlinkBody := fs.Bool("store-symlink-body", false, "also copy a symlink's target file into the repository")
	if err := fs.Parse(args); err != nil {
		return err
	}
	positional := fs.Args()
	if len(positional) != 2 {
		return fmt.Errorf("backup: expected <source> <repo>, got %d positional args", len(positional))
	}
	source, repoPath := positional[0], positional[1]

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	applyLogLevel(cfg, *logLevel)

	chain := &filter.FilterChain{}
	chain.Filters = append(chain.Filters, &filter.PathFilter{Include: *includes, Exclude: *excludes})
	if len(*nameContains) > 0 {
		chain.Filters = append(chain.Filters, &filter.NameFilter{Keywords: *nameContains})
	}
	if len(*types) > 0 {
		allowed := make([]probe.FileType, 0, len(*types))
		for _, t := range *types {
			ft, err := probe.ParseFileType(t)
			if err != nil {
				return err
			}
			allowed = append(allowed, ft)
		}
		chain.Filters = append(chain.Filters, &filter.FileTypeFilter{Allowed: allowed})
	}
	if *mtimeAfter != 0 || *mtimeBefore != 0 {
		tf := &filter.TimeFilter{}
		if *mtimeAfter != 0 {
			tf.After = mtimeAfter
		}
		if *mtimeBefore != 0 {
			tf.Before = mtimeBefore
		}
		chain.Filters = append(chain.Filters, tf)
	}
	if *minSize >= 0 || *maxSize >= 0 {
		sf := &filter.SizeFilter{}
		if *minSize >= 0 {
			sf.Min = minSize
		}
		if *maxSize >= 0 {
			sf.Max = maxSize
		}
		chain.Filters = append(chain.Filters, sf)
	}
	if *uid >= 0 || *gid >= 0 {
		uf := &filter.UserFilter{}
		if *uid >= 0 {
			u := uint32(*uid)
			uf.UID = &u
		}
		if *gid >= 0 {
			g := uint32(*gid)
			uf.GID = &g
		}
		chain.Filters = append(chain.Filters, uf)
	}

	r := repo.New(repoPath)
	r.StoreSymlinkBody = *storeSymlinkBody

	sink := &driver.ConsoleSink{}
	counters, err := driver.Backup(source, r, chain, sink)
	if err != nil {
		return err
	}
	if counters.Failed > 0 {
		return fmt.Errorf("backup completed with %d failures", counters.Failed)
	}
	return nil
}

func runRestore(args []string) error {
	fs := pflag.NewFlagSet("restore", pflag.ContinueOnError)
	configPath := fs.String("config", "", "optional config file")
	logLevel := fs.String("log-level", "", "log level override (debug|info|warn|error)")
	strictIndex := fs.Bool("strict-index", false, "fail hard on a malformed index line instead of skipping it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	positional := fs.Args()
	if len(positional) != 2 {
		return fmt.Errorf("restore: expected <repo> <target>, got %d positional args", len(positional))
	}
	repoPath, target := positional[0], positional[1]

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	applyLogLevel(cfg, *logLevel)

	r := repo.New(repoPath)
	r.StrictIndex = *strictIndex

	sink := &driver.ConsoleSink{}
	_, err = driver.Restore(r, target, sink)
	return err
}

func runExport(args []string) error {
	fs := pflag.NewFlagSet("export", pflag.ContinueOnError)
	configPath := fs.String("config", "", "optional config file")
	pack := fs.String("pack", "", "pack algorithm: header|toc")
	compress := fs.String("compress", "", "compression: none|rle")
	encrypt := fs.String("encrypt", "", "encryption: none|xor|rc4")
	password := fs.String("password", "", "password, required when --encrypt is not none")
	if err := fs.Parse(args); err != nil {
		return err
	}
	positional := fs.Args()
	if len(positional) != 2 {
		return fmt.Errorf("export: expected <repo> <package>, got %d positional args", len(positional))
	}
	repoPath, packagePath := positional[0], positional[1]

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	opts, err := resolvePackOptions(cfg, *pack, *compress, *encrypt, *password)
	if err != nil {
		return err
	}

	return pkgfile.Export(repoPath, packagePath, opts)
}

func runImport(args []string) error {
	fs := pflag.NewFlagSet("import", pflag.ContinueOnError)
	configPath := fs.String("config", "", "optional config file")
	password := fs.String("password", "", "password, required if the package was encrypted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	positional := fs.Args()
	if len(positional) != 2 {
		return fmt.Errorf("import: expected <package> <repo>, got %d positional args", len(positional))
	}
	packagePath, repoPath := positional[0], positional[1]

	if _, err := loadConfig(*configPath); err != nil {
		return err
	}

	return pkgfile.Import(packagePath, repoPath, pkgfile.Options{Password: *password})
}

func resolvePackOptions(cfg Config, pack, compress, encrypt, password string) (pkgfile.Options, error) {
	if pack == "" {
		pack = cfg.Pack.Algorithm
	}
	if compress == "" {
		compress = cfg.Pack.Compress
	}
	if encrypt == "" {
		encrypt = cfg.Pack.Encryption
	}

	packAlg, err := pkgfile.ParsePackAlgorithm(pack)
	if err != nil {
		return pkgfile.Options{}, err
	}
	comp, err := pkgfile.ParseCompression(compress)
	if err != nil {
		return pkgfile.Options{}, err
	}
	enc, err := pkgfile.ParseEncryption(encrypt)
	if err != nil {
		return pkgfile.Options{}, err
	}
	return pkgfile.Options{Pack: packAlg, Compress: comp, Encrypt: enc, Password: password}, nil
}
