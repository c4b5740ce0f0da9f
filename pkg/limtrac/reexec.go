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
	"encoding/gob"
	"fmt"
	"io"
)

// ReexecInitArg is the hidden subcommand the orchestrator re-execs the
// running binary with. A Go runtime cannot safely run arbitrary code
// between fork and exec, so instead of forking the host process directly,
// the orchestrator execs a fresh copy of itself and has that copy run the
// hardening pipeline before it execs the real target. cmd/limtrac must
// recognize this argument before handing off to its normal CLI parsing and
// must never advertise it in --help output.
const ReexecInitArg = "__limtrac_init"

// ReexecPayloadFD is the file descriptor the re-exec'd process reads its
// ReexecPayload from. The orchestrator passes it via os/exec's ExtraFiles,
// which always starts numbering at fd 3.
const ReexecPayloadFD = 3

// ReexecPayload is everything the re-exec'd init process needs in order to
// build a harden.Plan and run it. It intentionally mirrors harden.Plan's
// fields rather than importing that package, so that this package never
// depends on harden and no import cycle is possible.
type ReexecPayload struct {
	Info   ExecProgInfo
	IO     ExecProgIO
	Limits ExecProgLimits
	Guard  ExecProgGuard
}

// EncodeReexecPayload writes p to w as a single gob value.
func EncodeReexecPayload(w io.Writer, p ReexecPayload) error {
	if err := gob.NewEncoder(w).Encode(p); err != nil {
		return fmt.Errorf("limtrac: encode reexec payload: %w", err)
	}
	return nil
}

// DecodeReexecPayload reads a ReexecPayload previously written by
// EncodeReexecPayload.
func DecodeReexecPayload(r io.Reader) (ReexecPayload, error) {
	var p ReexecPayload
	if err := gob.NewDecoder(r).Decode(&p); err != nil {
		return ReexecPayload{}, fmt.Errorf("limtrac: decode reexec payload: %w", err)
	}
	return p, nil
}
