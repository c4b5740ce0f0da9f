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

package harden

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// redirectStdio is hardening step 6. Output streams are opened with
// O_TRUNC explicitly, resolving the "truncate on open" open question: the
// original sometimes combined O_CREAT without O_TRUNC, which left stale
// trailing bytes from a previous run behind a shorter one.
func redirectStdio(p Plan) error {
	if !p.IO.Redirected {
		return nil
	}

	if p.IO.PathStdin != "" {
		fd, err := unix.Open(p.IO.PathStdin, unix.O_RDONLY, 0)
		if err != nil {
			return fmt.Errorf("open stdin %q: %w", p.IO.PathStdin, err)
		}
		if err := dup2(fd, unix.Stdin); err != nil {
			return err
		}
	} else if err := devNull(unix.Stdin); err != nil {
		return err
	}

	if p.IO.PathStdout != "" {
		fd, err := unix.Open(p.IO.PathStdout, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("open stdout %q: %w", p.IO.PathStdout, err)
		}
		if err := dup2(fd, unix.Stdout); err != nil {
			return err
		}
		if p.IO.DupErrToOut {
			if err := dup2(fd, unix.Stderr); err != nil {
				return err
			}
		}
	} else if err := devNull(unix.Stdout); err != nil {
		return err
	}

	if !p.IO.DupErrToOut {
		if p.IO.PathStderr != "" {
			fd, err := unix.Open(p.IO.PathStderr, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC, 0644)
			if err != nil {
				return fmt.Errorf("open stderr %q: %w", p.IO.PathStderr, err)
			}
			if err := dup2(fd, unix.Stderr); err != nil {
				return err
			}
		} else if err := devNull(unix.Stderr); err != nil {
			return err
		}
	}
	return nil
}

func devNull(destFD int) error {
	fd, err := unix.Open("/dev/null", unix.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open /dev/null: %w", err)
	}
	return dup2(fd, destFD)
}

func dup2(src, dst int) error {
	if err := unix.Dup2(src, dst); err != nil {
		return fmt.Errorf("dup2(%d, %d): %w", src, dst, err)
	}
	return nil
}
