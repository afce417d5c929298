package system

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tranaapp/trana/internal/cli"
)

type DebugCmd struct {
	DBPath *DebugDBPathCmd `cmd:"" name:"db-path" help:"Show storage location."`
	Keys   *DebugKeysCmd   `cmd:"" help:"List stored keys."`
	Dump   *DebugDumpCmd   `cmd:"" help:"Dump a stored value as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	output := map[string]string{
		"path":   ctx.Store.GetConfigPath(),
		"prefix": ctx.AppConfig().StoragePrefix,
	}
	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugKeysCmd struct {
	All bool `help:"Include keys outside the configured prefix."`
}

func (cmd *DebugKeysCmd) Run(ctx *cli.Context) error {
	prefix := ctx.AppConfig().StoragePrefix
	if cmd.All {
		prefix = ""
	}
	keys, err := ctx.Store.ListKeys(prefix)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	for _, k := range keys {
		ctx.Println(k)
	}
	return nil
}

type DebugDumpCmd struct {
	Key string `arg:"" help:"Key suffix (e.g. food_items) or full key."`
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	prefix := ctx.AppConfig().StoragePrefix
	raw, ok, err := ctx.Store.Get(prefix + cmd.Key)
	if err == nil && !ok {
		raw, ok, err = ctx.Store.Get(cmd.Key)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.Key, err)
	}
	if !ok {
		return fmt.Errorf("key not found: %s", cmd.Key)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		// Not JSON; show it as stored.
		ctx.Println(string(raw))
		return nil
	}
	ctx.Println(out.String())
	return nil
}
