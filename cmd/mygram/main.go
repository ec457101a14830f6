package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mygramdb/mygram-go/pkg/mygram"
	"github.com/mygramdb/mygram-go/pkg/query"
)

type filterList []string

func (f *filterList) String() string { return strings.Join(*f, ",") }

func (f *filterList) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("filter must be key=value, got %q", v)
	}
	*f = append(*f, v)
	return nil
}

type cliArgs struct {
	host    string
	port    int
	timeout time.Duration

	cmd     string
	table   string
	expr    string
	pk      string
	path    string
	action  string
	filters filterList
	sortCol string
	asc     bool
	limit   int
	offset  int

	compileOnly bool
}

func parseArgs() cliArgs {
	var a cliArgs

	flag.StringVar(&a.host, "host", mygram.DefaultHost, "MygramDB host")
	flag.IntVar(&a.port, "port", mygram.DefaultPort, "MygramDB port")
	flag.DurationVar(&a.timeout, "timeout", mygram.DefaultTimeout, "Network timeout")

	flag.StringVar(&a.cmd, "cmd", "search", "Command: search, count, get, info, config, save, load, replication, debug")
	flag.StringVar(&a.table, "table", "documents", "Table name")
	flag.StringVar(&a.expr, "query", "", "Search expression (search, count)")
	flag.StringVar(&a.pk, "pk", "", "Primary key (get)")
	flag.StringVar(&a.path, "path", "", "Snapshot path on the server (save, load)")
	flag.StringVar(&a.action, "action", "", "Sub-action: start/stop for replication, on/off for debug")
	flag.Var(&a.filters, "filter", "Column filter as key=value, repeatable")
	flag.StringVar(&a.sortCol, "sort", "", "Sort column")
	flag.BoolVar(&a.asc, "asc", false, "Sort ascending instead of descending")
	flag.IntVar(&a.limit, "limit", 0, "Result limit, 0 means server default")
	flag.IntVar(&a.offset, "offset", 0, "Result offset, needs -limit")

	flag.BoolVar(&a.compileOnly, "compile-only", false, "Print the compiled expression and exit without connecting")

	flag.Parse()
	return a
}

func main() {
	a := parseArgs()

	if a.compileOnly {
		if err := printCompiled(a.expr); err != nil {
			fail(err)
		}
		return
	}

	client := mygram.New(mygram.Config{
		Host:    a.host,
		Port:    a.port,
		Timeout: a.timeout,
	})

	ctx := context.Background()
	if err := client.Connect(ctx); err != nil {
		fail(fmt.Errorf("connect %s: %w", client.Addr(), err))
	}
	defer client.Close()

	if err := run(ctx, client, a); err != nil {
		fail(err)
	}
}

func run(ctx context.Context, client *mygram.Client, a cliArgs) error {
	switch a.cmd {
	case "search":
		return runSearch(ctx, client, a)
	case "count":
		return runCount(ctx, client, a)
	case "get":
		return runGet(ctx, client, a)
	case "info":
		return runInfo(ctx, client)
	case "config":
		raw, err := client.ServerConfig(ctx)
		if err != nil {
			return err
		}
		fmt.Println(raw)
		return nil
	case "save":
		msg, err := client.Save(ctx, a.path)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	case "load":
		msg, err := client.Load(ctx, a.path)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	case "replication":
		return runReplication(ctx, client, a.action)
	case "debug":
		return runDebug(ctx, client, a.action)
	default:
		return fmt.Errorf("unknown command %q", a.cmd)
	}
}

func runSearch(ctx context.Context, client *mygram.Client, a cliArgs) error {
	if a.expr == "" {
		return fmt.Errorf("search requires -query")
	}

	opts, err := searchOptions(a)
	if err != nil {
		return err
	}

	result, err := client.Search(ctx, a.table, a.expr, opts...)
	if err != nil {
		return err
	}

	fmt.Printf("Total: %d\n", result.Total)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tID")
	for i, id := range result.IDs {
		fmt.Fprintf(w, "%d\t%s\n", i+1, id)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if result.Debug != nil {
		printDebugStats(result.Debug)
	}
	return nil
}

func runCount(ctx context.Context, client *mygram.Client, a cliArgs) error {
	if a.expr == "" {
		return fmt.Errorf("count requires -query")
	}

	opts, err := searchOptions(a)
	if err != nil {
		return err
	}

	result, err := client.Count(ctx, a.table, a.expr, opts...)
	if err != nil {
		return err
	}

	fmt.Printf("Count: %d\n", result.Count)
	if result.Debug != nil {
		printDebugStats(result.Debug)
	}
	return nil
}

func runGet(ctx context.Context, client *mygram.Client, a cliArgs) error {
	if a.pk == "" {
		return fmt.Errorf("get requires -pk")
	}

	doc, err := client.Get(ctx, a.table, a.pk)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "primary_key\t%s\n", doc.PrimaryKey)

	keys := make([]string, 0, len(doc.Fields))
	for k := range doc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\n", k, doc.Fields[k])
	}
	return w.Flush()
}

func runInfo(ctx context.Context, client *mygram.Client) error {
	info, err := client.Info(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "version\t%s\n", info.Version)
	fmt.Fprintf(w, "uptime_seconds\t%d\n", info.UptimeSeconds)
	fmt.Fprintf(w, "total_requests\t%d\n", info.TotalRequests)
	fmt.Fprintf(w, "active_connections\t%d\n", info.ActiveConnections)
	fmt.Fprintf(w, "index_size_bytes\t%d\n", info.IndexSizeBytes)
	fmt.Fprintf(w, "doc_count\t%d\n", info.DocCount)
	fmt.Fprintf(w, "tables\t%s\n", strings.Join(info.Tables, ","))
	return w.Flush()
}

func runReplication(ctx context.Context, client *mygram.Client, action string) error {
	switch action {
	case "":
		status, err := client.ReplicationStatus(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Running: %v\n", status.Running)
		if status.GTID != "" {
			fmt.Printf("GTID: %s\n", status.GTID)
		}
		fmt.Println(status.Raw)
		return nil
	case "start":
		return client.StartReplication(ctx)
	case "stop":
		return client.StopReplication(ctx)
	default:
		return fmt.Errorf("unknown replication action %q (want start or stop)", action)
	}
}

func runDebug(ctx context.Context, client *mygram.Client, action string) error {
	switch action {
	case "on", "":
		return client.EnableDebug(ctx)
	case "off":
		return client.DisableDebug(ctx)
	default:
		return fmt.Errorf("unknown debug action %q (want on or off)", action)
	}
}

func searchOptions(a cliArgs) ([]mygram.SearchOption, error) {
	var opts []mygram.SearchOption

	if a.limit > 0 {
		opts = append(opts, mygram.WithLimit(a.limit))
		if a.offset > 0 {
			opts = append(opts, mygram.WithOffset(a.offset))
		}
	} else if a.offset > 0 {
		return nil, fmt.Errorf("-offset requires -limit")
	}

	for _, f := range a.filters {
		key, value, _ := strings.Cut(f, "=")
		opts = append(opts, mygram.WithFilter(key, value))
	}

	if a.sortCol != "" {
		opts = append(opts, mygram.WithSort(a.sortCol, !a.asc))
	} else if a.asc {
		opts = append(opts, mygram.WithAscendingOrder())
	}

	return opts, nil
}

func printCompiled(expression string) error {
	expr, err := query.Parse(expression)
	if err != nil {
		return err
	}

	compiled := expr.BooleanString()
	if expr.IsComplex() {
		compiled = expr.Raw
	}

	fmt.Printf("Compiled: %s\n", compiled)
	fmt.Printf("Complex: %v\n", expr.IsComplex())
	if len(expr.Required) > 0 {
		fmt.Printf("Required: %s\n", strings.Join(expr.Required, ", "))
	}
	if len(expr.Optional) > 0 {
		fmt.Printf("Optional: %s\n", strings.Join(expr.Optional, ", "))
	}
	if len(expr.Excluded) > 0 {
		fmt.Printf("Excluded: %s\n", strings.Join(expr.Excluded, ", "))
	}
	return nil
}

func printDebugStats(stats *mygram.DebugStats) {
	fmt.Printf("Debug: query=%.2fms index=%.2fms filter=%.2fms candidates=%d final=%d\n",
		stats.QueryTimeMs, stats.IndexTimeMs, stats.FilterTimeMs, stats.Candidates, stats.Final)
	if stats.Optimization != "" {
		fmt.Printf("Optimization: %s\n", stats.Optimization)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
