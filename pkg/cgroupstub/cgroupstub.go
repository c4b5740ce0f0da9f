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

// Package cgroupstub groups a guest process under a static cgroup path so
// external accounting tools can find it under /sys/fs/cgroup. It is
// deliberately inert: it attaches no resource controllers and plays no
// part in limit enforcement, which lives entirely in pkg/watchdog and the
// rlimits step of pkg/harden. Callers that don't opt into WithRunDir never
// touch this package at all.
package cgroupstub

import (
	"fmt"

	"github.com/containerd/cgroups"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Stub is a handle to the inert accounting cgroup for a single run.
type Stub struct {
	cgroup cgroups.Cgroup
}

// New creates a static cgroup at path (relative to the v1 hierarchy root)
// and adds pid to it. Resources is always empty: this group exists purely
// for discoverability, not to cap anything.
func New(path string, pid int) (*Stub, error) {
	control, err := cgroups.New(cgroups.V1, cgroups.StaticPath(path), &specs.LinuxResources{})
	if err != nil {
		return nil, fmt.Errorf("cgroupstub: create %s: %w", path, err)
	}
	if err := control.Add(cgroups.Process{Pid: pid}); err != nil {
		_ = control.Delete()
		return nil, fmt.Errorf("cgroupstub: add pid %d: %w", pid, err)
	}
	return &Stub{cgroup: control}, nil
}

// Close deletes the cgroup. It neither kills nor waits for the process
// inside it; the watchdog already owns that lifecycle.
func (s *Stub) Close() error {
	if s == nil || s.cgroup == nil {
		return nil
	}
	return s.cgroup.Delete()
}
