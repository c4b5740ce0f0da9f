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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearLimtracEnv scrubs every LIMTRAC_* variable the previous subtest may
// have set, so subtests don't leak configuration into each other.
func clearLimtracEnv(t *testing.T) {
	t.Helper()
	names := []string{
		"LIMTRAC_FULLPATH", "LIMTRAC_ARGUMENTS", "LIMTRAC_WORKDIR", "LIMTRAC_RUNAS",
		"LIMTRAC_IO_REDIRECT", "LIMTRAC_IO_STDIN", "LIMTRAC_IO_STDOUT", "LIMTRAC_IO_STDERR",
		"LIMTRAC_IO_DUP_ERR_TO_OUT",
		"LIMTRAC_LIMIT_REALTIME", "LIMTRAC_LIMIT_PROCTIME", "LIMTRAC_LIMIT_PROCWSET",
		"LIMTRAC_RLIM_ENABLED", "LIMTRAC_RLIM_CORE", "LIMTRAC_RLIM_NPROC", "LIMTRAC_RLIM_NOFILE",
		"LIMTRAC_SCMP_ENABLED", "LIMTRAC_SCMP_FS_GUARD",
		"LIMTRAC_UNSHARE_ENABLED", "LIMTRAC_UNSHARE_NETWORK",
	}
	for _, n := range names {
		t.Setenv(n, "")
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	clearLimtracEnv(t)

	info, io, limits, guard, err := configFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "", info.ProgramPath)
	assert.Equal(t, ".", info.WorkingPath, "LIMTRAC_WORKDIR defaults to the current directory")
	assert.False(t, io.Redirected)
	assert.Zero(t, limits.LimitRealTime)
	assert.False(t, guard.ScmpEnabled)
}

func TestConfigFromEnvFullySpecified(t *testing.T) {
	clearLimtracEnv(t)

	t.Setenv("LIMTRAC_FULLPATH", "/usr/bin/true")
	t.Setenv("LIMTRAC_ARGUMENTS", "--flag value")
	t.Setenv("LIMTRAC_WORKDIR", "/tmp")
	t.Setenv("LIMTRAC_RUNAS", "nobody")
	t.Setenv("LIMTRAC_IO_REDIRECT", "true")
	t.Setenv("LIMTRAC_IO_STDOUT", "/tmp/out")
	t.Setenv("LIMTRAC_IO_DUP_ERR_TO_OUT", "true")
	t.Setenv("LIMTRAC_LIMIT_REALTIME", "1000")
	t.Setenv("LIMTRAC_LIMIT_PROCTIME", "500")
	t.Setenv("LIMTRAC_LIMIT_PROCWSET", "1048576")
	t.Setenv("LIMTRAC_RLIM_ENABLED", "true")
	t.Setenv("LIMTRAC_RLIM_NPROC", "16")
	t.Setenv("LIMTRAC_SCMP_ENABLED", "true")
	t.Setenv("LIMTRAC_SCMP_FS_GUARD", "true")
	t.Setenv("LIMTRAC_UNSHARE_ENABLED", "true")

	info, io, limits, guard, err := configFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/true", info.ProgramPath)
	assert.Equal(t, "--flag value", info.Arguments)
	assert.Equal(t, "/tmp", info.WorkingPath)
	assert.Equal(t, "nobody", info.RunAsUser)

	assert.True(t, io.Redirected)
	assert.Equal(t, "/tmp/out", io.PathStdout)
	assert.True(t, io.DupErrToOut)

	assert.Equal(t, uint64(1000), limits.LimitRealTime)
	assert.Equal(t, uint64(500), limits.LimitProcTime)
	assert.Equal(t, uint64(1048576), limits.LimitProcWSet)
	assert.True(t, limits.RlimitEnabled)
	assert.Equal(t, uint64(16), limits.RlimitNproc)

	assert.True(t, guard.ScmpEnabled)
	assert.True(t, guard.ScmpDenyCommon)
	assert.True(t, guard.UnshareCommon)
	assert.False(t, guard.UnshareNetwork)
}

// TestConfigFromEnvIdempotent asserts reading the same environment twice
// yields the identical configuration.
func TestConfigFromEnvIdempotent(t *testing.T) {
	clearLimtracEnv(t)
	t.Setenv("LIMTRAC_FULLPATH", "/usr/bin/true")

	first, _, _, _, err := configFromEnv()
	require.NoError(t, err)
	second, _, _, _, err := configFromEnv()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestConfigFromEnvRejectsBadUint(t *testing.T) {
	clearLimtracEnv(t)
	t.Setenv("LIMTRAC_LIMIT_REALTIME", "not-a-number")

	_, _, _, _, err := configFromEnv()
	assert.Error(t, err)
}

// TestUnsetLimtracEnv asserts every LIMTRAC_* variable is gone afterwards,
// while unrelated variables survive untouched.
func TestUnsetLimtracEnv(t *testing.T) {
	clearLimtracEnv(t)
	t.Setenv("LIMTRAC_FULLPATH", "/usr/bin/true")
	t.Setenv("LIMTRAC_SCMP_ENABLED", "true")
	t.Setenv("SOME_OTHER_VAR", "kept")

	unsetLimtracEnv()

	_, fullpathSet := os.LookupEnv("LIMTRAC_FULLPATH")
	_, scmpSet := os.LookupEnv("LIMTRAC_SCMP_ENABLED")
	other, otherSet := os.LookupEnv("SOME_OTHER_VAR")

	assert.False(t, fullpathSet)
	assert.False(t, scmpSet)
	assert.True(t, otherSet)
	assert.Equal(t, "kept", other)
}
