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

package limtrac

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/gofrs/flock"
	"github.com/mohae/deepcopy"
	"github.com/sirupsen/logrus"

	"github.com/overtest/limtrac-go/pkg/cgroupstub"
	"github.com/overtest/limtrac-go/pkg/watchdog"
)

// Execute validates info and io, launches a hardened child running the
// requested program, watches it against limits, and returns the verdict.
// It never returns a non-nil error for anything the guest itself did —
// guest failures always come back inside *ProcExecResult.
func Execute(info ExecProgInfo, io ExecProgIO, limits ExecProgLimits, guard ExecProgGuard, opts ...Option) (*ProcExecResult, error) {
	if err := info.Verify(); err != nil {
		return nil, err
	}
	if err := io.Verify(); err != nil {
		return nil, err
	}

	options := resolveOptions(opts)

	payload := deepcopy.Copy(ReexecPayload{
		Info:   info,
		IO:     io,
		Limits: limits,
		Guard:  guard,
	}).(ReexecPayload)

	var runLock *flock.Flock
	if options.RunDir != "" && guard.UnshareCommon {
		runLock = flock.New(filepath.Join(options.RunDir, ".limtrac.lock"))
		if err := runLock.Lock(); err != nil {
			return nil, fmt.Errorf("limtrac: lock run dir %q: %w", options.RunDir, err)
		}
		defer runLock.Unlock()
	}

	pid, start, err := launch(payload, options.Logger)
	if err != nil {
		return nil, fmt.Errorf("limtrac: launch: %w", err)
	}

	if runLock != nil {
		stubPath := filepath.Join("limtrac", strconv.Itoa(pid))
		stub, err := cgroupstub.New(stubPath, pid)
		if err != nil {
			options.Logger.WithError(err).Warn("limtrac: accounting cgroup unavailable, continuing without it")
		} else {
			defer stub.Close()
		}
	}

	return watchdog.Run(pid, start, limits, options.Logger)
}

// launch re-execs the running binary as a hidden init subcommand, hands it
// the hardening plan over a pipe, and returns the child's pid together with
// the wall-clock instant it was started.
func launch(payload ReexecPayload, log logrus.FieldLogger) (pid int, start time.Time, err error) {
	self, err := os.Executable()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("resolve self executable: %w", err)
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("create payload pipe: %w", err)
	}
	defer pr.Close()

	var cmd *exec.Cmd
	operation := func() error {
		cmd = exec.Command(self, ReexecInitArg)
		cmd.ExtraFiles = []*os.File{pr}
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		// The re-exec'd init process must not see this process's own
		// LIMTRAC_* configuration variables: they describe the launch
		// request, not ambient environment, and would otherwise leak
		// through to the guest via execTarget's inherited os.Environ().
		cmd.Env = FilterEnviron(os.Environ())
		// Belt-and-suspenders: the init process also sets this itself via
		// an explicit prctl call as its own hardening step, since that is
		// the only form that survives the step re-ordering namespace
		// unsharing can trigger. This catches the window before that step
		// runs.
		cmd.SysProcAttr = &syscall.SysProcAttr{Pdeathsig: syscall.SIGKILL}

		startErr := cmd.Start()
		if startErr == nil {
			return nil
		}
		if errors.Is(startErr, syscall.EAGAIN) {
			log.WithError(startErr).Warn("limtrac: transient fork failure, retrying")
			return startErr
		}
		return backoff.Permanent(startErr)
	}

	boff := backoff.NewExponentialBackOff()
	boff.MaxElapsedTime = 2 * time.Second
	if retryErr := backoff.Retry(operation, boff); retryErr != nil {
		pw.Close()
		return 0, time.Time{}, fmt.Errorf("start re-exec init: %w", retryErr)
	}

	start = time.Now()

	if encErr := EncodeReexecPayload(pw, payload); encErr != nil {
		pw.Close()
		_ = cmd.Process.Kill()
		return 0, time.Time{}, fmt.Errorf("send hardening plan: %w", encErr)
	}
	if closeErr := pw.Close(); closeErr != nil {
		log.WithError(closeErr).Warn("limtrac: closing payload pipe write end")
	}

	return cmd.Process.Pid, start, nil
}
