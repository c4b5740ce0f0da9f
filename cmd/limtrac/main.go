// Copyright 2024 The LIMTRAC-GO Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build linux

// Command limtrac launches, monitors, and reaps a single untrusted program
// described by LIMTRAC_* environment variables, per the run subcommand.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/overtest/limtrac-go/pkg/limtrac"
	"github.com/overtest/limtrac-go/pkg/logging"
)

func main() {
	// The re-exec init handoff happens before any flag or subcommand
	// parsing: it is not a user-facing command and must never show up in
	// --help output.
	if len(os.Args) > 1 && os.Args[1] == limtrac.ReexecInitArg {
		os.Exit(runInit())
	}

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&runCommand{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

// runCommand implements subcommands.Command for "run".
type runCommand struct{}

func (*runCommand) Name() string { return "run" }

func (*runCommand) Synopsis() string {
	return "launch, watch and reap a program described by LIMTRAC_* environment variables"
}

func (*runCommand) Usage() string {
	return "run - read an ExecProgInfo/IO/Limits/Guard from LIMTRAC_* env vars, execute it, and print a JSON verdict to stdout\n"
}

func (*runCommand) SetFlags(*flag.FlagSet) {}

func (*runCommand) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	log := logging.New()

	info, io, limits, guard, err := configFromEnv()
	if err != nil {
		log.WithError(err).Error("limtrac: invalid configuration")
		return subcommands.ExitFailure
	}

	// The request has been read; the variables that described it must not
	// leak into the guest's inherited environment. pkg/limtrac.FilterEnviron
	// scrubs again at both the re-exec and the final execve, so this is
	// belt-and-suspenders rather than the only safeguard.
	unsetLimtracEnv()

	result, err := limtrac.Execute(info, io, limits, guard, limtrac.WithLogger(log))
	if err != nil {
		log.WithError(err).Error("limtrac: execute failed")
		return subcommands.ExitFailure
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.WithError(err).Error("limtrac: encoding result")
		return subcommands.ExitFailure
	}

	if result.Killed {
		fmt.Fprintf(os.Stderr, "limtrac: guest killed, reason=%s\n", result.KillReason)
	}
	return subcommands.ExitSuccess
}
