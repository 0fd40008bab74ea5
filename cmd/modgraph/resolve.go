package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	modgraph "github.com/modgraph/go-modgraph"
	"github.com/modgraph/go-modgraph/conflicts"
	"github.com/modgraph/go-modgraph/internal/logging"
	"github.com/modgraph/go-modgraph/version"
)

type resolveFlags struct {
	root         string
	rulesPath    string
	logLevel     string
	output       string
	attrs        []string
	semver       bool
	strictMatch  bool
	explain      string
	showFailures bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "modgraph",
		Short:         "Resolve dependency graphs from a universe file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newResolveCmd())
	return root
}

func newResolveCmd() *cobra.Command {
	flags := &resolveFlags{}
	cmd := &cobra.Command{
		Use:   "resolve <universe.yaml>",
		Short: "Resolve the graph described by a universe file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.root, "root", "", "root component as module@version (default: the universe file's root)")
	cmd.Flags().StringVar(&flags.rulesPath, "rules", "", "YAML file with module replacement rules")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "tree", "output format (tree, list, dot)")
	cmd.Flags().StringArrayVar(&flags.attrs, "attr", nil, "requested attribute as key=value (repeatable)")
	cmd.Flags().BoolVar(&flags.semver, "semver", false, "order versions by semver precedence")
	cmd.Flags().BoolVar(&flags.strictMatch, "strict-versions", false, "fail edges whose fixed version lost conflict resolution")
	cmd.Flags().StringVar(&flags.explain, "explain", "", "print why the given module resolved the way it did")
	cmd.Flags().BoolVar(&flags.showFailures, "failures", true, "print resolution failures")
	return cmd
}

func runResolve(cmd *cobra.Command, universePath string, flags *resolveFlags) error {
	level, err := logging.ParseLevel(flags.logLevel)
	if err != nil {
		return err
	}
	logger := logging.New(cmd.ErrOrStderr(), level)

	universe, err := loadUniverse(universePath)
	if err != nil {
		return err
	}
	rootID := universe.rootID
	if flags.root != "" {
		rootID, err = parseComponentID(flags.root)
		if err != nil {
			return err
		}
	}
	if rootID == (modgraph.ComponentID{}) {
		return fmt.Errorf("no root: pass --root or set root in %s", universePath)
	}
	rootMD, err := universe.source.Lookup(cmd.Context(), rootID)
	if err != nil {
		return fmt.Errorf("load root: %w", err)
	}

	opts := modgraph.Options{
		Logger:             logger,
		StrictVersionMatch: flags.strictMatch,
	}
	if flags.semver {
		opts.Comparator = version.CompareGoSemver
	}
	if flags.rulesPath != "" {
		opts.Rules, err = conflicts.LoadRules(flags.rulesPath)
		if err != nil {
			return err
		}
	}
	opts.RequestedAttributes, err = parseAttrs(flags.attrs)
	if err != nil {
		return err
	}

	result, err := modgraph.Resolve(cmd.Context(), rootMD, universe.source, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch flags.output {
	case "tree":
		fmt.Fprint(out, result.Graph.Tree())
	case "dot":
		fmt.Fprint(out, result.Graph.DOT())
	case "list":
		for _, n := range result.Graph.Nodes() {
			fmt.Fprintf(out, "%s@%s (%s)\n", n.Module, n.Version, n.Variant)
		}
	default:
		return fmt.Errorf("unknown output format %q", flags.output)
	}

	if flags.explain != "" {
		explainModule(out, result, flags.explain)
	}
	if flags.showFailures && result.Report.HasFailures() {
		fmt.Fprintln(cmd.ErrOrStderr())
		for _, f := range result.Report.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed: %s: %v\n", f.Where, f.Err)
		}
		for _, m := range result.Report.Mismatches {
			fmt.Fprintf(cmd.ErrOrStderr(), "version mismatch at %s: %v\n", m.From, m.Err)
		}
	}
	return nil
}

func explainModule(out io.Writer, result *modgraph.Result, module string) {
	found := false
	for _, n := range result.Graph.Nodes() {
		if n.Module != module {
			continue
		}
		found = true
		fmt.Fprintf(out, "\n%s@%s selected because:\n", n.Module, n.Version)
		for _, c := range n.Causes {
			fmt.Fprintf(out, "  - %s\n", c)
		}
		break
	}
	if !found {
		fmt.Fprintf(out, "\n%s is not in the resolved graph\n", module)
	}
}

func parseAttrs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	attrs := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid attribute %q (want key=value)", p)
		}
		attrs[k] = v
	}
	return attrs, nil
}

func parseComponentID(s string) (modgraph.ComponentID, error) {
	module, ver, ok := strings.Cut(s, "@")
	if !ok || module == "" || ver == "" {
		return modgraph.ComponentID{}, fmt.Errorf("invalid component %q (want module@version)", s)
	}
	return modgraph.ComponentID{Module: module, Version: ver}, nil
}
