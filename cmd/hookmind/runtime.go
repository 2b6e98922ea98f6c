package main

import (
	"context"

	"hookmind/internal/config"
)

type runtimeKey struct{}

type runtime struct {
	workspace string
	cfg       *config.Config
}

func withRuntime(ctx context.Context, workspace string, cfg *config.Config) context.Context {
	return context.WithValue(ctx, runtimeKey{}, &runtime{workspace: workspace, cfg: cfg})
}

func runtimeFrom(ctx context.Context) *runtime {
	rt, _ := ctx.Value(runtimeKey{}).(*runtime)
	if rt == nil {
		return &runtime{workspace: ".", cfg: config.Default()}
	}
	return rt
}
