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

// chdir is hardening step 2.
func chdir(p Plan) error {
	if err := unix.Chdir(p.Info.WorkingPath); err != nil {
		return fmt.Errorf("chdir(%q): %w", p.Info.WorkingPath, err)
	}
	return nil
}
