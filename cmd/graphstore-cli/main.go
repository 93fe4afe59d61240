// Package main provides the graphstore CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/orneryd/graphstore/pkg/graphstore"
	"github.com/orneryd/graphstore/pkg/typecatalog"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "graphstore-cli",
		Short: "graphstore-cli drives an embedded graph store from the command line",
		Long: `graphstore-cli builds an in-memory property graph from a YAML scenario
file, runs a query against it, or materializes one of its views — purely
to exercise the graphstore library end to end.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("graphstore-cli v%s\n", version)
		},
	})

	buildCmd := &cobra.Command{
		Use:   "build [scenario.yaml]",
		Short: "Build a graph from a YAML scenario file and print its stats",
		Args:  cobra.ExactArgs(1),
		RunE:  runBuild,
	}
	rootCmd.AddCommand(buildCmd)

	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Run a point or range attribute query against a built-in demo graph",
		RunE:  runQuery,
	}
	queryCmd.Flags().Float64("at", 0, "score value to match in a point query")
	queryCmd.Flags().Float64("lo", 0, "range query lower bound")
	queryCmd.Flags().Float64("hi", 0, "range query upper bound")
	queryCmd.Flags().Bool("range", false, "run a range query instead of a point query")
	rootCmd.AddCommand(queryCmd)

	viewCmd := &cobra.Command{
		Use:   "view [scenario.yaml] [view-name]",
		Short: "Materialize a named view over a scenario graph and print its counts",
		Args:  cobra.ExactArgs(2),
		RunE:  runView,
	}
	rootCmd.AddCommand(viewCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// CLIConfig is the YAML-described scenario the build and view
// subcommands load. Translating this into graphstore.Config options and
// a sequence of node/edge insertions is the only config-file loading
// this module does — the core itself never reads a file.
type CLIConfig struct {
	Graph struct {
		NodeIDType         string `yaml:"nodeIdType"`
		EdgeIDType         string `yaml:"edgeIdType"`
		EdgeWeightType     string `yaml:"edgeWeightType"`
		TimeRepresentation string `yaml:"timeRepresentation"`
	} `yaml:"graph"`
	Nodes []struct {
		ID string `yaml:"id"`
	} `yaml:"nodes"`
	Edges []struct {
		ID       string  `yaml:"id"`
		Source   string  `yaml:"source"`
		Target   string  `yaml:"target"`
		Type     string  `yaml:"type"`
		Directed bool    `yaml:"directed"`
		Weight   float64 `yaml:"weight"`
	} `yaml:"edges"`
	Views []struct {
		Name        string `yaml:"name"`
		AutoInclude bool   `yaml:"autoInclude"`
		Seeds       []string `yaml:"seeds"`
	} `yaml:"views"`
}

func loadCLIConfig(path string) (*CLIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}
	return &cfg, nil
}

func cliTypeOf(name string) typecatalog.Type {
	switch name {
	case "int64":
		return typecatalog.Int64
	case "float64":
		return typecatalog.Float64
	case "bool":
		return typecatalog.Bool
	case "bytes":
		return typecatalog.Bytes
	default:
		return typecatalog.String
	}
}

func buildGraphFromConfig(cfg *CLIConfig) (*graphstore.Graph, error) {
	opts := []graphstore.GraphOption{
		graphstore.WithNodeIDType(cliTypeOf(cfg.Graph.NodeIDType)),
		graphstore.WithEdgeIDType(cliTypeOf(cfg.Graph.EdgeIDType)),
		graphstore.WithEdgeWeightType(cliTypeOf(cfg.Graph.EdgeWeightType)),
	}
	if cfg.Graph.TimeRepresentation == "interval" {
		opts = append(opts, graphstore.WithTimeRepresentation(graphstore.Interval))
	}
	g := graphstore.New(opts...)

	for _, n := range cfg.Nodes {
		if _, err := g.AddNode(n.ID); err != nil {
			return nil, fmt.Errorf("adding node %q: %w", n.ID, err)
		}
	}
	for _, e := range cfg.Edges {
		var weight graphstore.Value
		if e.Weight != 0 {
			weight = e.Weight
		}
		if _, err := g.AddEdge(e.ID, e.Source, e.Target, e.Type, e.Directed, weight); err != nil {
			return nil, fmt.Errorf("adding edge %q: %w", e.ID, err)
		}
	}
	return g, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadCLIConfig(args[0])
	if err != nil {
		return err
	}
	g, err := buildGraphFromConfig(cfg)
	if err != nil {
		return err
	}

	nv, ev := g.Version()
	fmt.Println("Graph built successfully")
	fmt.Printf("  nodes:          %d\n", g.NodeCount())
	fmt.Printf("  edges:          %d\n", g.EdgeCount())
	fmt.Printf("  directed:       %t\n", g.IsDirectedGraph())
	fmt.Printf("  undirected:     %t\n", g.IsUndirectedGraph())
	fmt.Printf("  mixed:          %t\n", g.IsMixedGraph())
	fmt.Printf("  node version:   %d\n", nv)
	fmt.Printf("  edge version:   %d\n", ev)
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadCLIConfig(args[0])
	if err != nil {
		return err
	}
	viewName := args[1]

	g, err := buildGraphFromConfig(cfg)
	if err != nil {
		return err
	}

	idx := -1
	for i, v := range cfg.Views {
		if v.Name == viewName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("no view named %q in scenario", viewName)
	}
	spec := cfg.Views[idx]

	view := g.NewView(spec.AutoInclude)
	for _, seedID := range spec.Seeds {
		node, ok := g.GetNode(seedID)
		if !ok {
			continue
		}
		_ = view.AddNode(uint32(node.StoreID()))
	}

	fmt.Printf("View %q materialized\n", viewName)
	fmt.Printf("  nodes: %d\n", view.NodeCount())
	fmt.Printf("  edges: %d\n", view.EdgeCount())
	return nil
}

// runQuery builds a small built-in demo graph with an indexed "score"
// attribute and runs either a point or a range query over it, printing
// the matching node ids.
func runQuery(cmd *cobra.Command, args []string) error {
	g := graphstore.New(graphstore.WithNodeIDType(typecatalog.String))
	table := g.NodeTable()
	col, err := table.AddColumn("score", "Score", typecatalog.Float64, "user", nil, true, false, false)
	if err != nil {
		return fmt.Errorf("creating score column: %w", err)
	}

	scores := []float64{0.1, 0.4, 0.4, 0.75, 0.9}
	for _, s := range scores {
		id := uuid.NewString()
		node, err := g.AddNode(id)
		if err != nil {
			return fmt.Errorf("adding demo node: %w", err)
		}
		if err := node.SetAttribute("score", s); err != nil {
			return fmt.Errorf("setting score: %w", err)
		}
	}

	isRange, _ := cmd.Flags().GetBool("range")
	if isRange {
		lo, _ := cmd.Flags().GetFloat64("lo")
		hi, _ := cmd.Flags().GetFloat64("hi")
		ids, err := col.Index().RangeQuery(lo, hi)
		if err != nil {
			return err
		}
		fmt.Printf("nodes with score in [%g, %g]: %d\n", lo, hi, len(ids))
		for _, id := range ids {
			fmt.Printf("  storeId=%d\n", id)
		}
		return nil
	}

	at, _ := cmd.Flags().GetFloat64("at")
	ids := col.Index().Get(at)
	fmt.Printf("nodes with score = %g: %d\n", at, len(ids))
	for _, id := range ids {
		fmt.Printf("  storeId=%d\n", id)
	}
	return nil
}
