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
	"os"

	"golang.org/x/sys/unix"

	"github.com/overtest/limtrac-go/pkg/limtrac"
)

// execTarget is hardening step 8. On success it replaces the process
// image and never returns; any return is a fatal error, per I5. The
// guest's environment is filtered again here, rather than trusting that
// it arrived already scrubbed, so a LIMTRAC_* variable can never reach
// untrusted code regardless of what set the init process's environment.
func execTarget(p Plan) error {
	argv := p.Info.Argv()
	if err := unix.Exec(p.Info.ProgramPath, argv, limtrac.FilterEnviron(os.Environ())); err != nil {
		return fmt.Errorf("execve(%q): %w", p.Info.ProgramPath, err)
	}
	return fmt.Errorf("execve(%q) returned without error, which should be impossible", p.Info.ProgramPath)
}
