// Copyright (c) 2025 Visvasity LLC

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/scott-cotton/cli"
	"golang.org/x/tools/go/packages"
)

type genConfig struct {
	*cli.Command

	InPkg   string `cli:"name=inpkg desc='package path/name for the type definitions' default=."`
	OutPkg  string `cli:"name=outpkg desc='package name for the generated files'"`
	OutDir  string `cli:"name=outdir desc='output directory for the generated files'"`
	Verbose bool   `cli:"name=v aliases=verbose desc='log every generated record'"`
}

func genCommand() *cli.Command {
	cfg := &genConfig{InPkg: "."}
	opts, _ := cli.StructOpts(cfg)
	return cli.NewCommandAt(&cfg.Command, "gen").
		WithSynopsis("gen -inpkg <pkg> -outdir <dir> types... - generate code for record types").
		WithOpts(opts...).
		WithRun(cfg.run)
}

func newLogger(w io.Writer, verbose bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	if verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

func (cfg *genConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: usage: spangen gen -inpkg <pkg> -outdir <dir> types... # Must be a single package", cli.ErrUsage)
	}
	if cfg.OutDir == "" {
		return fmt.Errorf("%w: output directory must be set with -outdir flag", cli.ErrUsage)
	}

	logger := newLogger(os.Stderr, cfg.Verbose)

	pkg, err := loadPackage(cfg.InPkg)
	if err != nil {
		return err
	}

	outPkg := cfg.OutPkg
	if len(outPkg) == 0 {
		outPkg = filepath.Base(cfg.OutDir)
	}
	samePkg, err := isPackageDir(pkg, cfg.OutDir)
	if err != nil {
		return err
	}
	if samePkg {
		outPkg = pkg.Name
	}

	g := newGenerator(logger, pkg, outPkg, samePkg)
	for _, t := range args {
		if err := g.generate(t); err != nil {
			return err
		}
	}

	for _, typ := range g.GetTypes() {
		src := g.GetSource(typ)

		outputName := filepath.Join(cfg.OutDir, strings.ToLower(typ)+".spangen.go")
		if err := os.WriteFile(outputName, src, 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		level.Info(logger).Log("msg", "wrote file", "type", typ, "file", outputName)
	}
	return nil
}

func loadPackage(pkg string) (*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.LoadTypes | packages.NeedTypesInfo | packages.NeedImports | packages.NeedName | packages.NeedFiles,
	}
	pkgs, err := packages.Load(cfg, pkg)
	if err != nil {
		return nil, err
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("pattern %q must match a single package, found %d", pkg, len(pkgs))
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("package %q has errors", pkg)
	}
	return pkgs[0], nil
}

// isPackageDir returns true if dir is the source directory of pkg.
func isPackageDir(pkg *packages.Package, dir string) (bool, error) {
	if len(pkg.GoFiles) == 0 {
		return false, nil
	}
	pkgDir, err := filepath.Abs(filepath.Dir(pkg.GoFiles[0]))
	if err != nil {
		return false, err
	}
	outDir, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}
	return pkgDir == outDir, nil
}
