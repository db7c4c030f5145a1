package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/terndb/terndb/pkg/query"
	"github.com/terndb/terndb/pkg/storage"
)

type shell struct {
	graph    *storage.GraphStorage
	executor *query.Executor
	scanner  *bufio.Scanner
}

func main() {
	dataDir := flag.String("data", "./data/terndb", "Data directory")
	flag.Parse()

	printBanner()

	fmt.Printf("Opening database at %s...\n", *dataDir)
	graph, err := storage.NewGraphStorage(*dataDir)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer graph.Close()

	stats := graph.GetStatistics()
	fmt.Printf("Loaded %d nodes and %d edges\n\n", stats.NodeCount, stats.EdgeCount)

	sh := &shell{
		graph:    graph,
		executor: query.NewExecutor(graph),
		scanner:  bufio.NewScanner(os.Stdin),
	}

	fmt.Println("Type 'help' for commands, 'exit' to quit")
	fmt.Println()
	sh.run()
}

func printBanner() {
	fmt.Println(`
  _____               ____  ____
 |_   _|__ _ __ _ __ |  _ \| __ )
   | |/ _ \ '__| '_ \| | | |  _ \
   | |  __/ |  | | | | |_| | |_) |
   |_|\___|_|  |_| |_|____/|____/

   graph database with three-valued logic`)
}

func (sh *shell) run() {
	for {
		fmt.Print("tern> ")

		if !sh.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(sh.scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			break
		}

		sh.dispatch(input)
		fmt.Println()
	}
}

func (sh *shell) dispatch(input string) {
	parts := strings.Fields(input)
	command := strings.ToLower(parts[0])

	switch command {
	case "help":
		sh.showHelp()

	case "stats", "status":
		sh.showStats()

	case "query", "q":
		if len(parts) < 2 {
			fmt.Println("Usage: query <query-text>")
			return
		}
		sh.executeQuery(strings.Join(parts[1:], " "))

	case "get-node", "gn":
		if len(parts) < 2 {
			fmt.Println("Usage: get-node <node-id>")
			return
		}
		id, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			fmt.Printf("Invalid node ID %q\n", parts[1])
			return
		}
		sh.showNode(id)

	case "neighbors":
		if len(parts) < 2 {
			fmt.Println("Usage: neighbors <node-id>")
			return
		}
		id, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			fmt.Printf("Invalid node ID %q\n", parts[1])
			return
		}
		sh.showNeighbors(id)

	case "snapshot":
		sh.takeSnapshot()

	case "demo":
		sh.seedDemo()

	case "clear":
		fmt.Print("\033[H\033[2J")

	case "match", "create", "return", "with":
		// query clauses typed directly at the prompt
		sh.executeQuery(input)

	default:
		fmt.Printf("Unknown command %q (type 'help' for commands)\n", command)
	}
}

func (sh *shell) showHelp() {
	fmt.Println(`
Commands:
  query <text>       Execute a query (or just type MATCH/CREATE ... directly)
  q <text>           Shorthand for query
  stats              Show database statistics
  get-node <id>      Show one node
  neighbors <id>     Show a node's neighbors
  snapshot           Write a snapshot to disk
  demo               Load a small example graph
  clear              Clear the screen
  help               Show this help
  exit               Quit

Examples:
  MATCH (n:Person) RETURN n.name, n.age
  MATCH (n:Person) RETURN n.name, CASE n.eyes WHEN 'blue' THEN 1 WHEN 'brown' THEN 2 ELSE 3 END AS code
  CREATE (:Person {name: 'Ada', age: 36})`)
}

func (sh *shell) showStats() {
	stats := sh.graph.GetStatistics()

	fmt.Println("Database statistics:")
	fmt.Printf("  Nodes:         %d\n", stats.NodeCount)
	fmt.Printf("  Edges:         %d\n", stats.EdgeCount)
	fmt.Printf("  Total queries: %d\n", stats.TotalQueries)
	if !stats.LastSnapshot.IsZero() {
		fmt.Printf("  Last snapshot: %s\n", stats.LastSnapshot.Format(time.RFC3339))
	}
}

func (sh *shell) executeQuery(text string) {
	start := time.Now()
	result, err := sh.executor.Execute(text)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Query executed in %v\n\n", time.Since(start).Round(time.Microsecond))
	printResult(result)
}

func printResult(result *query.ResultSet) {
	if len(result.Columns) == 0 {
		fmt.Println("OK")
		return
	}

	widths := make([]int, len(result.Columns))
	for i, col := range result.Columns {
		widths[i] = len(col)
	}
	cells := make([][]string, len(result.Rows))
	for r, row := range result.Rows {
		cells[r] = make([]string, len(row))
		for c, val := range row {
			cells[r][c] = formatValue(val)
			if len(cells[r][c]) > widths[c] {
				widths[c] = len(cells[r][c])
			}
		}
	}

	for i, col := range result.Columns {
		fmt.Printf("%-*s  ", widths[i], col)
	}
	fmt.Println()
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	fmt.Println(strings.Repeat("-", total))

	for _, row := range cells {
		for c, cell := range row {
			fmt.Printf("%-*s  ", widths[c], cell)
		}
		fmt.Println()
	}
	fmt.Printf("\n%d rows\n", result.Count)
}

func formatValue(val any) string {
	if val == nil {
		return "null"
	}
	return fmt.Sprintf("%v", val)
}

func (sh *shell) showNode(id uint64) {
	node, err := sh.graph.GetNode(id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Node %d\n", node.ID)
	fmt.Printf("  Labels: %s\n", strings.Join(node.Labels, ", "))
	for key, value := range node.Properties {
		fmt.Printf("  %s: %s\n", key, formatValue(value.Native()))
	}
}

func (sh *shell) showNeighbors(id uint64) {
	outgoing, err := sh.graph.GetOutgoingEdges(id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	incoming, err := sh.graph.GetIncomingEdges(id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Node %d has %d outgoing and %d incoming edges\n", id, len(outgoing), len(incoming))
	for _, edge := range outgoing {
		fmt.Printf("  -[%s]-> %d\n", edge.Type, edge.ToNodeID)
	}
	for _, edge := range incoming {
		fmt.Printf("  <-[%s]- %d\n", edge.Type, edge.FromNodeID)
	}
}

func (sh *shell) takeSnapshot() {
	start := time.Now()
	if err := sh.graph.Snapshot(); err != nil {
		fmt.Printf("Snapshot failed: %v\n", err)
		return
	}
	fmt.Printf("Snapshot written in %v\n", time.Since(start).Round(time.Millisecond))
}

// seedDemo loads a small graph of people with eye colors and ages.
// One person has no age, which makes null handling easy to try out.
func (sh *shell) seedDemo() {
	statements := []string{
		`CREATE (:Person {name: 'Alice', age: 38, eyes: 'brown'})`,
		`CREATE (:Person {name: 'Bob', age: 25, eyes: 'blue'})`,
		`CREATE (:Person {name: 'Charlie', age: 53, eyes: 'green'})`,
		`CREATE (:Person {name: 'Daniel', eyes: 'brown'})`,
		`CREATE (:Person {name: 'Eskil', age: 41, eyes: 'blue'})`,
		`MATCH (a:Person {name: 'Alice'}), (b:Person {name: 'Bob'}) CREATE (a)-[:KNOWS]->(b)`,
		`MATCH (b:Person {name: 'Bob'}), (c:Person {name: 'Charlie'}) CREATE (b)-[:KNOWS]->(c)`,
	}
	for _, stmt := range statements {
		if _, err := sh.executor.Execute(stmt); err != nil {
			fmt.Printf("Demo data failed: %v\n", err)
			return
		}
	}

	fmt.Println("Loaded 5 people. Try:")
	fmt.Println(`  MATCH (n:Person) RETURN n.name, CASE WHEN n.age IS NULL THEN -1 ELSE n.age - 10 END AS age_10_years_ago`)
}
