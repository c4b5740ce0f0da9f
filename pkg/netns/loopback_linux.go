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

// Package netns holds small supplements to namespace hardening that are
// out of the core launch-monitor-reap pipeline's direct scope but close a
// real gap the original implementation left open.
package netns

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// BringUpLoopback brings the "lo" interface up in the network namespace of
// the calling goroutine's OS thread. It must be called after
// unix.Unshare(CLONE_NEWNET) and before any other thread re-enters the
// original namespace, i.e. from the same hardening step that performed the
// unshare.
func BringUpLoopback() error {
	link, err := netlink.LinkByName("lo")
	if err != nil {
		return fmt.Errorf("lookup lo: %w", err)
	}
	if err := netlink.LinkSetUp(link); err != nil {
		return fmt.Errorf("set lo up: %w", err)
	}
	return nil
}
