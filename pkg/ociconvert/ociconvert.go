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

// Package ociconvert maps the Process shape of an OCI runtime bundle onto
// an ExecProgInfo, for callers that already hold a runtime-spec document.
// It does no bundle, rootfs, or mount handling -- only the field mapping
// named in its single exported function.
package ociconvert

import (
	"fmt"
	"strings"

	specs "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/overtest/limtrac-go/pkg/limtrac"
)

// FromProcess builds an ExecProgInfo from an OCI process spec and the
// bundle's working directory. proc.Args[0] is taken as the program path;
// the remaining argv entries are joined back into ExecProgInfo's single
// whitespace-separated Arguments field, so quoting and embedded whitespace
// in individual arguments are not preserved -- the same limitation
// ExecProgInfo has for any caller.
func FromProcess(proc *specs.Process, workingPath string) (limtrac.ExecProgInfo, error) {
	if proc == nil {
		return limtrac.ExecProgInfo{}, fmt.Errorf("ociconvert: nil process spec")
	}
	if len(proc.Args) == 0 {
		return limtrac.ExecProgInfo{}, fmt.Errorf("ociconvert: process spec has no argv")
	}

	info := limtrac.ExecProgInfo{
		ProgramPath: proc.Args[0],
		Arguments:   strings.Join(proc.Args[1:], " "),
		WorkingPath: workingPath,
	}
	if proc.Cwd != "" {
		info.WorkingPath = proc.Cwd
	}
	if proc.User.Username != "" {
		info.RunAsUser = proc.User.Username
	}
	return info, nil
}
