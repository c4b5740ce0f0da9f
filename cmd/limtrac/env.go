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

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/overtest/limtrac-go/pkg/limtrac"
)

// configFromEnv assembles a run request entirely from LIMTRAC_* environment
// variables. The CLI is deliberately flagless for the guest description
// itself: it is meant to be invoked by another process that already built
// its environment block, not typed by a human.
func configFromEnv() (limtrac.ExecProgInfo, limtrac.ExecProgIO, limtrac.ExecProgLimits, limtrac.ExecProgGuard, error) {
	info := limtrac.ExecProgInfo{
		ProgramPath: os.Getenv("LIMTRAC_FULLPATH"),
		Arguments:   os.Getenv("LIMTRAC_ARGUMENTS"),
		WorkingPath: envOr("LIMTRAC_WORKDIR", "."),
		RunAsUser:   os.Getenv("LIMTRAC_RUNAS"),
	}

	io := limtrac.ExecProgIO{
		Redirected:  envBool("LIMTRAC_IO_REDIRECT"),
		PathStdin:   os.Getenv("LIMTRAC_IO_STDIN"),
		PathStdout:  os.Getenv("LIMTRAC_IO_STDOUT"),
		PathStderr:  os.Getenv("LIMTRAC_IO_STDERR"),
		DupErrToOut: envBool("LIMTRAC_IO_DUP_ERR_TO_OUT"),
	}

	realTime, err := envUint64("LIMTRAC_LIMIT_REALTIME")
	if err != nil {
		return info, io, limtrac.ExecProgLimits{}, limtrac.ExecProgGuard{}, err
	}
	procTime, err := envUint64("LIMTRAC_LIMIT_PROCTIME")
	if err != nil {
		return info, io, limtrac.ExecProgLimits{}, limtrac.ExecProgGuard{}, err
	}
	procWSet, err := envUint64("LIMTRAC_LIMIT_PROCWSET")
	if err != nil {
		return info, io, limtrac.ExecProgLimits{}, limtrac.ExecProgGuard{}, err
	}
	rlimCore, err := envUint64("LIMTRAC_RLIM_CORE")
	if err != nil {
		return info, io, limtrac.ExecProgLimits{}, limtrac.ExecProgGuard{}, err
	}
	rlimNproc, err := envUint64("LIMTRAC_RLIM_NPROC")
	if err != nil {
		return info, io, limtrac.ExecProgLimits{}, limtrac.ExecProgGuard{}, err
	}
	rlimNofile, err := envUint64("LIMTRAC_RLIM_NOFILE")
	if err != nil {
		return info, io, limtrac.ExecProgLimits{}, limtrac.ExecProgGuard{}, err
	}

	limits := limtrac.ExecProgLimits{
		LimitRealTime: realTime,
		LimitProcTime: procTime,
		LimitProcWSet: procWSet,
		RlimitEnabled: envBool("LIMTRAC_RLIM_ENABLED"),
		RlimitCore:    rlimCore,
		RlimitNproc:   rlimNproc,
		RlimitNofile:  rlimNofile,
	}

	guard := limtrac.ExecProgGuard{
		ScmpEnabled:    envBool("LIMTRAC_SCMP_ENABLED"),
		ScmpDenyCommon: envBool("LIMTRAC_SCMP_FS_GUARD"),
		UnshareCommon:  envBool("LIMTRAC_UNSHARE_ENABLED"),
		UnshareNetwork: envBool("LIMTRAC_UNSHARE_NETWORK"),
	}

	return info, io, limits, guard, nil
}

// unsetLimtracEnv removes every LIMTRAC_* variable from this process's own
// environment once configFromEnv has read it, so it cannot be inherited by
// anything launched afterwards.
func unsetLimtracEnv() {
	for _, kv := range os.Environ() {
		name, _, found := strings.Cut(kv, "=")
		if found && strings.HasPrefix(name, "LIMTRAC_") {
			os.Unsetenv(name)
		}
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envBool(name string) bool {
	v, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && v
}

func envUint64(name string) (uint64, error) {
	v := os.Getenv(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s=%q: %w", name, v, err)
	}
	return n, nil
}
