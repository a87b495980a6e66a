// Package decrypt wraps the external decrypt and shard-merge collaborators.
// Both are black boxes to the pipeline: they must succeed before migration
// proceeds, and a failure aborts the current cycle without touching
// checkpoints.
package decrypt

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Decryptor turns the raw encrypted archive under dir into the plaintext
// source-store layout using key.
type Decryptor interface {
	Decrypt(ctx context.Context, dir, key string) error
}

// Merger combines numbered shard files into single logical tables.
type Merger interface {
	Merge(ctx context.Context) error
}

// Command runs a configured external command line for each step.
type Command struct {
	DecryptCmd string
	MergeCmd   string
}

func (c Command) Decrypt(ctx context.Context, dir, key string) error {
	if c.DecryptCmd == "" {
		return nil
	}
	return run(ctx, c.DecryptCmd, "WX_DB_DIR="+dir, "WX_DB_KEY="+key)
}

func (c Command) Merge(ctx context.Context) error {
	if c.MergeCmd == "" {
		return nil
	}
	return run(ctx, c.MergeCmd)
}

func run(ctx context.Context, cmdline string, env ...string) error {
	args := strings.Fields(cmdline)
	if len(args) == 0 {
		return nil
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = append(cmd.Environ(), env...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Nop is used for archives that are already decrypted and merged.
type Nop struct{}

func (Nop) Decrypt(ctx context.Context, dir, key string) error { return nil }
func (Nop) Merge(ctx context.Context) error                    { return nil }
