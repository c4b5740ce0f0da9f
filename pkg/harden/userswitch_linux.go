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
	"os/user"
	"strconv"

	"golang.org/x/sys/unix"
)

// dropPrivileges is hardening step 4. Per the documented resolution of the
// "missing GID" open question (see DESIGN.md), this sets the group id and
// supplementary groups from the resolved account *before* setuid, instead
// of reproducing the original's uid-only behavior.
func dropPrivileges(p Plan) error {
	if p.Info.RunAsUser == "" {
		return nil
	}
	u, err := user.Lookup(p.Info.RunAsUser)
	if err != nil {
		return fmt.Errorf("lookup user %q: %w", p.Info.RunAsUser, err)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return fmt.Errorf("parse uid %q: %w", u.Uid, err)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return fmt.Errorf("parse gid %q: %w", u.Gid, err)
	}

	groupIDs, err := u.GroupIds()
	if err != nil {
		return fmt.Errorf("list supplementary groups for %q: %w", p.Info.RunAsUser, err)
	}
	groups := make([]int, 0, len(groupIDs))
	for _, g := range groupIDs {
		gv, err := strconv.Atoi(g)
		if err != nil {
			continue
		}
		groups = append(groups, gv)
	}

	if err := unix.Setgroups(groups); err != nil {
		return fmt.Errorf("setgroups: %w", err)
	}
	if err := unix.Setgid(gid); err != nil {
		return fmt.Errorf("setgid(%d): %w", gid, err)
	}
	if err := unix.Setuid(uid); err != nil {
		return fmt.Errorf("setuid(%d): %w", uid, err)
	}
	return nil
}
