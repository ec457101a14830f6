package engine

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/mygramdb/mygram-go/internal/bench/spec"
	"github.com/mygramdb/mygram-go/internal/storage/pg"
	"github.com/mygramdb/mygram-go/pkg/mygram"
)

func CreateFromSpec(ctx context.Context, engines map[string]spec.Engine, maxK int) (map[string]Executor, func(), error) {
	executors := make(map[string]Executor, len(engines))
	var cleanups []func()

	cleanup := func() {
		for _, c := range cleanups {
			c()
		}
	}

	for name, eng := range engines {
		switch eng.Type {
		case "mygram":
			host, port, err := splitHostPort(eng.Connection)
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("parse mygram address for %q: %w", name, err)
			}
			client := mygram.New(mygram.Config{Host: host, Port: port})
			if err := client.Connect(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("connect mygram for %q: %w", name, err)
			}
			cleanups = append(cleanups, func() { _ = client.Close() })
			executors[name] = NewMygramExecutor(name, client, tableOrDefault(eng.Table), maxK)

		case "postgres":
			pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: eng.Connection})
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("create pg pool for %q: %w", name, err)
			}
			cleanups = append(cleanups, pool.Close)
			executors[name] = NewPgExecutor(name, pool, tableOrDefault(eng.Table), maxK)

		case "elasticsearch":
			index := eng.Index
			if index == "" {
				index = "documents"
			}
			executors[name] = NewEsExecutor(name, eng.Connection, index, maxK)

		case "api":
			executors[name] = NewAPIExecutor(name, eng.Connection, maxK)

		default:
			cleanup()
			return nil, nil, fmt.Errorf("unsupported engine type %q for %q", eng.Type, name)
		}
	}

	return executors, cleanup, nil
}

func tableOrDefault(table string) string {
	if table == "" {
		return "documents"
	}
	return table
}

func splitHostPort(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q: %w", portStr, err)
	}
	return host, port, nil
}
