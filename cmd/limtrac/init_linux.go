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
	"fmt"
	"os"

	"github.com/overtest/limtrac-go/pkg/harden"
	"github.com/overtest/limtrac-go/pkg/limtrac"
)

// runInit is the re-exec'd side of the launch pipeline: it reads the
// hardening plan the orchestrator sent over ReexecPayloadFD and runs it.
// harden.Run never returns on success, since its last step execs the guest
// program in place of this process.
func runInit() int {
	payloadFile := os.NewFile(limtrac.ReexecPayloadFD, "limtrac-payload")
	if payloadFile == nil {
		fmt.Fprintln(os.Stderr, "limtrac: init: payload fd not open")
		return 1
	}
	defer payloadFile.Close()

	payload, err := limtrac.DecodeReexecPayload(payloadFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "limtrac: init:", err)
		return 1
	}

	plan := harden.Plan{
		Info:   payload.Info,
		IO:     payload.IO,
		Limits: payload.Limits,
		Guard:  payload.Guard,
	}

	if err := harden.Run(plan); err != nil {
		fmt.Fprintln(os.Stderr, "limtrac: init:", err)
		return 1
	}
	// harden.Run only returns on failure; reaching here is unreachable on
	// the success path.
	return 1
}
