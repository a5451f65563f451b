// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package cmd_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/defenseunicorns/schemaconv/cmd"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"schemaconv": func() {
			code := cmd.Main()
			os.Exit(code)
		},
		"avrotize": func() {
			os.Exit(fakeAvrotize(os.Args[1:]))
		},
	})
}

// fakeAvrotize mimics the avrotize CLI closely enough to exercise every edge
//
// Input and output paths must be absolute.
// FAKE_AVROTIZE_VERSION overrides the reported version.
// FAKE_AVROTIZE_FAIL makes the named subcommand exit 3.
// FAKE_AVROTIZE_FAIL_FILE makes every subcommand exit 3 for inputs with that base name prefix.
func fakeAvrotize(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: avrotize <command> ...")
		return 2
	}

	if args[0] == "--version" {
		version := os.Getenv("FAKE_AVROTIZE_VERSION")
		if version == "" {
			version = "2.1.0"
		}
		fmt.Fprintf(os.Stdout, "avrotize %s\n", version)
		return 0
	}

	fmt.Fprintf(os.Stdout, "avrotize called with %s\n", strings.Join(args, " "))

	if len(args) < 4 || args[2] != "--out" {
		fmt.Fprintln(os.Stderr, "expected: <command> <input> --out <path>")
		return 2
	}
	sub, input, out := args[0], args[1], args[3]

	if !filepath.IsAbs(input) || !filepath.IsAbs(out) {
		fmt.Fprintf(os.Stderr, "expected absolute paths, got %s and %s\n", input, out)
		return 2
	}

	if _, err := os.Stat(input); err != nil {
		fmt.Fprintf(os.Stderr, "input not found: %s\n", input)
		return 4
	}

	if fail := os.Getenv("FAKE_AVROTIZE_FAIL"); fail == sub {
		fmt.Fprintf(os.Stderr, "%s: conversion failed\n", sub)
		return 3
	}
	if fail := os.Getenv("FAKE_AVROTIZE_FAIL_FILE"); fail != "" && strings.HasPrefix(filepath.Base(input), fail) {
		fmt.Fprintf(os.Stderr, "%s: cannot convert %s\n", sub, filepath.Base(input))
		return 3
	}

	stem := strings.SplitN(filepath.Base(input), ".", 2)[0]

	var err error
	switch sub {
	case "j2a", "a2j":
		err = os.WriteFile(out, []byte("{}\n"), 0o644)
	case "a2java", "s2java":
		if err = os.MkdirAll(out, 0o755); err == nil {
			name := strings.ToUpper(stem[:1]) + stem[1:] + ".java"
			err = os.WriteFile(filepath.Join(out, name), []byte("class "+name+" {}\n"), 0o644)
		}
	case "a2p", "s2p":
		if err = os.MkdirAll(out, 0o755); err == nil {
			err = os.WriteFile(filepath.Join(out, stem+".proto"), []byte("syntax = \"proto3\";\n"), 0o644)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", sub)
		return 2
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
