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

	"github.com/overtest/limtrac-go/pkg/netns"
	"golang.org/x/sys/unix"
)

// unshareNamespaces is hardening step 1. Both unshare calls require
// CAP_SYS_ADMIN in the caller's namespace; denial is fatal.
func unshareNamespaces(p Plan) error {
	if p.Guard.UnshareCommon {
		flags := unix.CLONE_NEWNS | unix.CLONE_NEWIPC | unix.CLONE_NEWUTS |
			unix.CLONE_NEWPID | unix.CLONE_NEWCGROUP | unix.CLONE_SYSVSEM
		if err := unix.Unshare(flags); err != nil {
			return fmt.Errorf("unshare(common): %w", err)
		}
	}
	if p.Guard.UnshareNetwork {
		if err := unix.Unshare(unix.CLONE_NEWNET); err != nil {
			return fmt.Errorf("unshare(net): %w", err)
		}
		// Bring the fresh namespace's loopback interface up so a guest that
		// talks to 127.0.0.1 doesn't find a dead interface. This is a
		// supplement over the original, which left the new netns entirely
		// unconfigured.
		if err := netns.BringUpLoopback(); err != nil {
			return fmt.Errorf("configure loopback after unshare(net): %w", err)
		}
	}
	return nil
}
