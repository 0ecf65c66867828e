// Command lcfg-ingest drives the ingestion loop over one or more CPP
// manifest sources, merges them into a Package Set, and optionally exports
// and signs the result as a bundle.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/sjquinney/lcfg-core/bundle"
	"github.com/sjquinney/lcfg-core/format"
	"github.com/sjquinney/lcfg-core/ingest"
	"github.com/sjquinney/lcfg-core/pkgspec"
)

// Config is the YAML-driven configuration for an ingest run, the same
// shape of top-level Config the teacher's own CLI reads.
type Config struct {
	Sources     []string `yaml:"sources"`
	DefaultArch string   `yaml:"default_arch"`
	MergeRules  struct {
		KeepAll         bool `yaml:"keep_all"`
		SquashIdentical bool `yaml:"squash_identical"`
		UsePriority     bool `yaml:"use_priority"`
		UsePrefix       bool `yaml:"use_prefix"`
		Replace         bool `yaml:"replace"`
	} `yaml:"merge_rules"`
	Options struct {
		UseMeta      bool `yaml:"use_meta"`
		AllContexts  bool `yaml:"all_contexts"`
		AllowNoExist bool `yaml:"allow_no_exist"`
	} `yaml:"options"`
	Export struct {
		BundlePath     string `yaml:"bundle_path"`
		PrivateKeyPath string `yaml:"private_key_path"`
	} `yaml:"export"`
}

func (c Config) mergeRules() pkgspec.MergeRules {
	var r pkgspec.MergeRules
	if c.MergeRules.KeepAll {
		r |= pkgspec.RuleKeepAll
	}
	if c.MergeRules.SquashIdentical {
		r |= pkgspec.RuleSquashIdentical
	}
	if c.MergeRules.UsePriority {
		r |= pkgspec.RuleUsePriority
	}
	if c.MergeRules.UsePrefix {
		r |= pkgspec.RuleUsePrefix
	}
	if c.MergeRules.Replace {
		r |= pkgspec.RuleReplace
	}
	return r
}

func (c Config) ingestOptions() format.Options {
	var o format.Options
	if c.Options.UseMeta {
		o |= format.UseMeta
	}
	if c.Options.AllContexts {
		o |= format.AllContexts
	}
	if c.Options.AllowNoExist {
		o |= format.AllowNoExist
	}
	return o
}

func main() {
	confPath := flag.String("config", "lcfg-ingest.yaml", "Path to the ingest configuration file")
	flag.Parse()

	confData, err := os.ReadFile(*confPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lcfg-ingest: reading config: %v\n", err)
		os.Exit(1)
	}

	var cfg Config
	if err := yaml.Unmarshal(confData, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "lcfg-ingest: parsing config: %v\n", err)
		os.Exit(1)
	}

	set := pkgspec.NewSet(cfg.mergeRules())
	icfg := ingest.Config{
		DefaultArch: cfg.DefaultArch,
		Options:     cfg.ingestOptions(),
		Listener: func(e fmt.Stringer) {
			fmt.Fprintln(os.Stderr, e.String())
		},
	}

	for _, src := range cfg.Sources {
		r, err := ingest.OpenSource(src, icfg.Options)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lcfg-ingest: opening %s: %v\n", src, err)
			os.Exit(1)
		}
		_, err = ingest.ConsumeCPP(r, set, icfg)
		r.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "lcfg-ingest: %s: %v\n", src, err)
			os.Exit(1)
		}
	}

	fmt.Fprintf(os.Stderr, "lcfg-ingest: ingested %d package records\n", set.Size())

	if cfg.Export.BundlePath == "" {
		return
	}

	out, err := os.Create(cfg.Export.BundlePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lcfg-ingest: creating bundle: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if cfg.Export.PrivateKeyPath == "" {
		if err := bundle.Write(out, set, cfg.DefaultArch, nil); err != nil {
			fmt.Fprintf(os.Stderr, "lcfg-ingest: writing bundle: %v\n", err)
			os.Exit(1)
		}
		return
	}

	keyData, err := os.ReadFile(cfg.Export.PrivateKeyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lcfg-ingest: reading private key: %v\n", err)
		os.Exit(1)
	}

	if err := bundle.WriteSigned(out, set, cfg.DefaultArch, string(keyData), nil); err != nil {
		fmt.Fprintf(os.Stderr, "lcfg-ingest: writing signed bundle: %v\n", err)
		os.Exit(1)
	}
}
