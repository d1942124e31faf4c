// Package main provides the turbine-bench CLI tool for benchmarking
// cluster-view construction and retransmit-tree computation.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/luxfi/turbine"
	"github.com/luxfi/turbine/config"
	"github.com/luxfi/turbine/turbinetest"
)

func main() {
	var (
		peers      = flag.Int("peers", 2000, "Number of gossip peers to simulate")
		stakedOnly = flag.Int("staked-only", 200, "Number of positively staked pubkeys never seen in gossip")
		maxStake   = flag.Uint64("max-stake", 1_000_000, "Upper bound on a simulated peer's stake")
		fanout     = flag.Int("fanout", config.Defaults().Fanout, "Turbine tree branching factor")
		rounds     = flag.Int("rounds", 1000, "Number of shreds to simulate retransmit-tree computation for")
		role       = flag.String("role", "retransmit", "View role: retransmit or broadcast")
		seed       = flag.Int64("seed", 1, "PRNG seed for the simulated cluster")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		printHelp()
		os.Exit(0)
	}

	r, err := parseRole(*role)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))
	c := turbinetest.NewCluster(rng, *peers, *stakedOnly, *maxStake)

	fmt.Printf("Building cluster view: %d peers, %d staked-only, role=%s\n", *peers, *stakedOnly, *role)
	start := time.Now()
	view := turbine.NewClusterView(c.ClusterInfo, c.Stakes, r)
	buildElapsed := time.Since(start)

	fmt.Printf("View built in %s: %d peers, %d live\n", buildElapsed, view.NumPeers(), view.NumPeersLive(uint64(time.Now().UnixMilli())))

	fmt.Printf("Computing retransmit tree for %d simulated shreds, fanout=%d\n", *rounds, *fanout)
	start = time.Now()
	for i := 0; i < *rounds; i++ {
		neighbors, children := turbine.ComputeRetransmitPeers(*fanout, i%len(view.Nodes), view.Nodes)
		if len(neighbors) == 0 && len(children) == 0 && len(view.Nodes) > 0 {
			fmt.Fprintln(os.Stderr, "warning: empty neighborhood and children for a non-empty view")
		}
	}
	treeElapsed := time.Since(start)

	fmt.Printf("Results:\n")
	fmt.Printf("  View build:      %s\n", buildElapsed)
	fmt.Printf("  Tree rounds:     %d\n", *rounds)
	fmt.Printf("  Tree total:      %s\n", treeElapsed)
	fmt.Printf("  Tree avg/round:  %s\n", treeElapsed/time.Duration(*rounds))
}

func parseRole(s string) (turbine.Role, error) {
	switch s {
	case "retransmit":
		return turbine.RoleRetransmit, nil
	case "broadcast":
		return turbine.RoleBroadcast, nil
	default:
		return 0, fmt.Errorf("unknown role: %s (want retransmit or broadcast)", s)
	}
}

func printHelp() {
	fmt.Println("Turbine Cluster-View Benchmark Tool")
	fmt.Println("\nUsage: turbine-bench [options]")
	fmt.Println("\nOptions:")
	fmt.Println("  -peers int         Number of gossip peers to simulate (default: 2000)")
	fmt.Println("  -staked-only int   Number of staked pubkeys never seen in gossip (default: 200)")
	fmt.Println("  -max-stake uint    Upper bound on a simulated peer's stake (default: 1000000)")
	fmt.Println("  -fanout int        Turbine tree branching factor (default: 200)")
	fmt.Println("  -rounds int        Number of simulated shreds (default: 1000)")
	fmt.Println("  -role string       View role: retransmit or broadcast (default: retransmit)")
	fmt.Println("  -seed int          PRNG seed for the simulated cluster (default: 1)")
	fmt.Println("  -help              Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  turbine-bench -peers 5000 -fanout 400")
	fmt.Println("  turbine-bench -role broadcast -rounds 5000")
}
