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

package limtrac

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecProgInfoVerify(t *testing.T) {
	dir := t.TempDir()
	program := filepath.Join(dir, "guest")
	require.NoError(t, writeExecutableFile(t, program))

	t.Run("valid", func(t *testing.T) {
		info := ExecProgInfo{ProgramPath: program, WorkingPath: dir}
		assert.NoError(t, info.Verify())
	})

	t.Run("empty program path", func(t *testing.T) {
		info := ExecProgInfo{WorkingPath: dir}
		err := info.Verify()
		require.Error(t, err)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "ProgramPath", verr.Field)
	})

	t.Run("program path not a file", func(t *testing.T) {
		info := ExecProgInfo{ProgramPath: dir, WorkingPath: dir}
		err := info.Verify()
		require.Error(t, err)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "ProgramPath", verr.Field)
	})

	t.Run("working path missing", func(t *testing.T) {
		info := ExecProgInfo{ProgramPath: program, WorkingPath: filepath.Join(dir, "nope")}
		err := info.Verify()
		require.Error(t, err)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "WorkingPath", verr.Field)
	})

	// Verify is a pure read of filesystem state: calling it twice on the
	// same unchanged request yields the same verdict (validation idempotence).
	t.Run("idempotent", func(t *testing.T) {
		info := ExecProgInfo{ProgramPath: program, WorkingPath: dir}
		assert.NoError(t, info.Verify())
		assert.NoError(t, info.Verify())
	})
}

func TestExecProgInfoArgv(t *testing.T) {
	cases := []struct {
		name string
		info ExecProgInfo
		want []string
	}{
		{"no arguments", ExecProgInfo{ProgramPath: "/usr/bin/guest"}, []string{"guest"}},
		{"whitespace only", ExecProgInfo{ProgramPath: "/usr/bin/guest", Arguments: "   "}, []string{"guest"}},
		{"multiple args", ExecProgInfo{ProgramPath: "/usr/bin/guest", Arguments: " --flag  value "}, []string{"guest", "--flag", "value"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.info.Argv())
		})
	}
}

func TestExecProgIOVerify(t *testing.T) {
	dir := t.TempDir()
	stdinPath := filepath.Join(dir, "stdin")
	require.NoError(t, writeExecutableFile(t, stdinPath))

	t.Run("not redirected skips all checks", func(t *testing.T) {
		assert.NoError(t, ExecProgIO{}.Verify())
	})

	t.Run("redirected with all paths empty", func(t *testing.T) {
		err := ExecProgIO{Redirected: true}.Verify()
		require.Error(t, err)
	})

	t.Run("dup err to out requires empty stderr", func(t *testing.T) {
		io := ExecProgIO{Redirected: true, PathStdout: "/tmp/out", PathStderr: "/tmp/err", DupErrToOut: true}
		require.Error(t, io.Verify())
	})

	t.Run("dup err to out requires stdout", func(t *testing.T) {
		io := ExecProgIO{Redirected: true, PathStdin: stdinPath, DupErrToOut: true}
		require.Error(t, io.Verify())
	})

	t.Run("valid dup err to out", func(t *testing.T) {
		io := ExecProgIO{Redirected: true, PathStdout: "/tmp/out", DupErrToOut: true}
		assert.NoError(t, io.Verify())
	})

	t.Run("stdin must exist and be regular", func(t *testing.T) {
		io := ExecProgIO{Redirected: true, PathStdin: filepath.Join(dir, "missing")}
		require.Error(t, io.Verify())

		io = ExecProgIO{Redirected: true, PathStdin: dir}
		require.Error(t, io.Verify())

		io = ExecProgIO{Redirected: true, PathStdin: stdinPath}
		assert.NoError(t, io.Verify())
	})
}

func writeExecutableFile(t *testing.T, path string) error {
	t.Helper()
	return os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755)
}
